package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stellar-burgers/internal/application/ports"
	"github.com/jhoicas/stellar-burgers/internal/domain/entity"
)

var _ ports.OrderArchive = (*PlacedOrderRepo)(nil)

// PlacedOrderRepo historial local de pedidos enviados desde este cliente.
type PlacedOrderRepo struct {
	pool    *pgxpool.Pool
	profile string
}

// NewPlacedOrderRepository construye el adaptador del historial local.
func NewPlacedOrderRepository(pool *pgxpool.Pool, profile string) *PlacedOrderRepo {
	if profile == "" {
		profile = "default"
	}
	return &PlacedOrderRepo{pool: pool, profile: profile}
}

// Save guarda el pedido; un número repetido actualiza la fila.
func (r *PlacedOrderRepo) Save(ctx context.Context, p entity.PlacedOrder) error {
	const query = `
		INSERT INTO placed_orders (profile, number, name, ingredients, total, placed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (profile, number) DO UPDATE
		SET name = EXCLUDED.name, ingredients = EXCLUDED.ingredients, total = EXCLUDED.total`
	_, err := r.pool.Exec(ctx, query, r.profile, p.Number, p.Name, p.Ingredients, p.Total, p.PlacedAt)
	if err != nil {
		return fmt.Errorf("placedOrders.Save: %w", err)
	}
	return nil
}

// List devuelve los pedidos del perfil, del más reciente al más viejo.
func (r *PlacedOrderRepo) List(ctx context.Context) ([]entity.PlacedOrder, error) {
	const query = `
		SELECT number, name, ingredients, total, placed_at
		FROM placed_orders
		WHERE profile = $1
		ORDER BY placed_at DESC, number DESC`
	rows, err := r.pool.Query(ctx, query, r.profile)
	if err != nil {
		return nil, fmt.Errorf("placedOrders.List: %w", err)
	}
	defer rows.Close()

	out := []entity.PlacedOrder{}
	for rows.Next() {
		var p entity.PlacedOrder
		if err := rows.Scan(&p.Number, &p.Name, &p.Ingredients, &p.Total, &p.PlacedAt); err != nil {
			return nil, fmt.Errorf("placedOrders.List scan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
