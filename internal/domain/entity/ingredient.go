package entity

import "github.com/shopspring/decimal"

// IngredientType categoría de un ingrediente del catálogo.
type IngredientType string

const (
	IngredientBun   IngredientType = "bun"
	IngredientMain  IngredientType = "main"
	IngredientSauce IngredientType = "sauce"
)

// Valid indica si la categoría es una de las conocidas.
func (t IngredientType) Valid() bool {
	switch t {
	case IngredientBun, IngredientMain, IngredientSauce:
		return true
	}
	return false
}

// Ingredient entrada inmutable del catálogo. Solo se obtiene del API; nunca se modifica localmente.
type Ingredient struct {
	ID            string          `json:"_id"`
	Name          string          `json:"name"`
	Type          IngredientType  `json:"type"`
	Proteins      int             `json:"proteins"`
	Fat           int             `json:"fat"`
	Carbohydrates int             `json:"carbohydrates"`
	Calories      int             `json:"calories"`
	Price         decimal.Decimal `json:"price"`
	Image         string          `json:"image"`
	ImageLarge    string          `json:"image_large"`
	ImageMobile   string          `json:"image_mobile"`
}

// IsBun indica si el ingrediente ocupa la ranura de pan.
func (i Ingredient) IsBun() bool {
	return i.Type == IngredientBun
}

// BuilderSlot una colocación de un ingrediente en el constructor. PlacementID es local y distinto
// del ID del ingrediente: el mismo ingrediente puede aparecer varias veces.
type BuilderSlot struct {
	Ingredient
	PlacementID string `json:"uniqueId"`
}
