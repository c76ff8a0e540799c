package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado de un pedido en la cocina.
type OrderStatus string

const (
	OrderPending OrderStatus = "pending"
	OrderDone    OrderStatus = "done"
	OrderCreated OrderStatus = "created"
)

// Valid indica si el estado es uno de los que publica la cocina.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderDone, OrderCreated:
		return true
	}
	return false
}

// Order pedido tal como lo entrega el API. Number es el identificador público secuencial,
// distinto del ID interno. Ingredients repite el pan al inicio y al final.
type Order struct {
	ID          string      `json:"_id"`
	Ingredients []string    `json:"ingredients"`
	Status      OrderStatus `json:"status"`
	Name        string      `json:"name"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	Number      int         `json:"number"`
}

// PlacedOrder pedido enviado desde este cliente, con el total calculado al momento del envío.
type PlacedOrder struct {
	Number      int             `json:"number"`
	Name        string          `json:"name"`
	Ingredients []string        `json:"ingredients"`
	Total       decimal.Decimal `json:"total"`
	PlacedAt    time.Time       `json:"placedAt"`
}
