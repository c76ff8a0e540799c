package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stellar-burgers/internal/domain/entity"
)

// Cuerpos JSON de la superficie HTTP local (cmd/api).

// AddIngredientRequest agrega un ingrediente del catálogo al constructor.
type AddIngredientRequest struct {
	IngredientID string `json:"ingredient_id"`
}

// AddIngredientResponse id de colocación asignado (vacío si era un pan).
type AddIngredientResponse struct {
	PlacementID string `json:"placement_id"`
}

// MoveIngredientRequest reubica un relleno.
type MoveIngredientRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// BuilderResponse constructor con sus derivados.
type BuilderResponse struct {
	Bun            *entity.Ingredient   `json:"bun"`
	Fillings       []entity.BuilderSlot `json:"ingredients"`
	Price          decimal.Decimal      `json:"price"`
	PriceFormatted string               `json:"price_formatted"`
	Counts         map[string]int       `json:"counts"`
}

// OrderDetailsResponse pedido con líneas, total y fecha legible.
type OrderDetailsResponse struct {
	Number         int                `json:"number"`
	Name           string             `json:"name"`
	Status         entity.OrderStatus `json:"status"`
	Date           string             `json:"date"`
	Lines          []OrderLineDTO     `json:"lines"`
	Total          decimal.Decimal    `json:"total"`
	TotalFormatted string             `json:"total_formatted"`
}

// OrderLineDTO una línea del detalle.
type OrderLineDTO struct {
	IngredientID string          `json:"ingredient_id"`
	Name         string          `json:"name"`
	Image        string          `json:"image"`
	Count        int             `json:"count"`
	Price        decimal.Decimal `json:"price"`
}

// PlaceOrderResponse pedido recién creado.
type PlaceOrderResponse struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// LoginBody credenciales para /api/auth/login.
type LoginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterBody datos para /api/auth/register.
type RegisterBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
