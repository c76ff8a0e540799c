package state

import (
	"context"
	"slices"

	"github.com/jhoicas/stellar-burgers/internal/domain/entity"
)

// CatalogState lista de ingredientes comprables y su estado de carga.
type CatalogState struct {
	Items   []entity.Ingredient `json:"items"`
	Loading bool                `json:"loading"`
	Error   string              `json:"error,omitempty"`
}

func (s *CatalogState) pending() *CatalogState {
	next := *s
	next.Loading = true
	next.Error = ""
	return &next
}

func (s *CatalogState) fulfilled(items []entity.Ingredient) *CatalogState {
	next := *s
	next.Items = slices.Clone(items)
	if next.Items == nil {
		next.Items = []entity.Ingredient{}
	}
	next.Loading = false
	return &next
}

// rejected conserva el último catálogo bueno.
func (s *CatalogState) rejected(msg string) *CatalogState {
	next := *s
	next.Loading = false
	next.Error = msg
	return &next
}

// FetchIngredients carga el catálogo completo y lo reemplaza de una vez.
func (c *Container) FetchIngredients(ctx context.Context) error {
	_, err := run(ctx, c, lifecycle[[]entity.Ingredient]{
		kind:     opCatalog,
		op:       "catalog/fetch",
		fallback: "No se pudo cargar el catálogo",
		pending: func(r RootState) RootState {
			r.Catalog = r.Catalog.pending()
			return r
		},
		fulfilled: func(r RootState, items []entity.Ingredient) RootState {
			r.Catalog = r.Catalog.fulfilled(items)
			return r
		},
		rejected: func(r RootState, msg string) RootState {
			r.Catalog = r.Catalog.rejected(msg)
			return r
		},
	}, c.catalog.FetchIngredients)
	return err
}

// Ingredient busca un ingrediente del catálogo por id.
func (s *CatalogState) Ingredient(id string) (entity.Ingredient, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return entity.Ingredient{}, false
}
