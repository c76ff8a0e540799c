package state

import (
	"github.com/jhoicas/stellar-burgers/internal/domain/entity"
)

// BuilderState pedido en construcción: una ranura de pan y los rellenos en el orden que dejó el usuario.
type BuilderState struct {
	Bun      *entity.Ingredient   `json:"bun"`
	Fillings []entity.BuilderSlot `json:"ingredients"`
}

func (s *BuilderState) withIngredient(ing entity.Ingredient, placementID string) *BuilderState {
	next := *s
	if ing.IsBun() {
		bun := ing
		next.Bun = &bun
		return &next
	}
	fillings := make([]entity.BuilderSlot, len(s.Fillings), len(s.Fillings)+1)
	copy(fillings, s.Fillings)
	next.Fillings = append(fillings, entity.BuilderSlot{Ingredient: ing, PlacementID: placementID})
	return &next
}

func (s *BuilderState) without(placementID string) *BuilderState {
	idx := -1
	for i, slot := range s.Fillings {
		if slot.PlacementID == placementID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s
	}
	next := *s
	fillings := make([]entity.BuilderSlot, 0, len(s.Fillings)-1)
	fillings = append(fillings, s.Fillings[:idx]...)
	next.Fillings = append(fillings, s.Fillings[idx+1:]...)
	return &next
}

// moved reubica un relleno. from debe ser un índice existente; to puede ser igual al largo
// (insertar al final). Fuera de rango no hace nada: con drag-and-drop los índices pueden quedar
// viejos por un instante.
func (s *BuilderState) moved(from, to int) *BuilderState {
	n := len(s.Fillings)
	if from < 0 || to < 0 || from >= n || to > n {
		return s
	}
	item := s.Fillings[from]
	rest := make([]entity.BuilderSlot, 0, n)
	rest = append(rest, s.Fillings[:from]...)
	rest = append(rest, s.Fillings[from+1:]...)
	if to > len(rest) {
		to = len(rest)
	}
	fillings := make([]entity.BuilderSlot, 0, n)
	fillings = append(fillings, rest[:to]...)
	fillings = append(fillings, item)
	fillings = append(fillings, rest[to:]...)

	next := *s
	next.Fillings = fillings
	return &next
}

func (s *BuilderState) cleared() *BuilderState {
	if s.Bun == nil && len(s.Fillings) == 0 {
		return s
	}
	return &BuilderState{Fillings: []entity.BuilderSlot{}}
}

// AddIngredient agrega un ingrediente: un pan reemplaza al anterior, cualquier otro se agrega al
// final con un id de colocación nuevo, que se devuelve (vacío para panes).
func (c *Container) AddIngredient(ing entity.Ingredient) string {
	placementID := ""
	if !ing.IsBun() {
		placementID = c.newPlacementID()
	}
	c.apply("builder/addIngredient", func(r RootState) RootState {
		r.Builder = r.Builder.withIngredient(ing, placementID)
		return r
	})
	return placementID
}

// RemoveIngredient quita la colocación indicada; si no existe no hace nada.
func (c *Container) RemoveIngredient(placementID string) {
	c.apply("builder/removeIngredient", func(r RootState) RootState {
		r.Builder = r.Builder.without(placementID)
		return r
	})
}

// MoveIngredient reubica un relleno; índices fuera de rango se ignoran en silencio.
func (c *Container) MoveIngredient(fromIndex, toIndex int) {
	c.apply("builder/moveIngredient", func(r RootState) RootState {
		r.Builder = r.Builder.moved(fromIndex, toIndex)
		return r
	})
}

// ClearBuilder vacía el pan y los rellenos.
func (c *Container) ClearBuilder() {
	c.apply("builder/clear", func(r RootState) RootState {
		r.Builder = r.Builder.cleared()
		return r
	})
}
