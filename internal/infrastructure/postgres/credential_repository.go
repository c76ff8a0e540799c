package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stellar-burgers/internal/application/ports"
)

var _ ports.CredentialStore = (*CredentialRepo)(nil)

// CredentialRepo almacén de tokens sobre PostgreSQL. Cada perfil (profile) es un juego
// independiente de claves; permite que varios procesos compartan la misma base.
type CredentialRepo struct {
	pool    *pgxpool.Pool
	profile string
}

// NewCredentialRepository construye el adaptador de credenciales para el perfil dado.
func NewCredentialRepository(pool *pgxpool.Pool, profile string) *CredentialRepo {
	if profile == "" {
		profile = "default"
	}
	return &CredentialRepo{pool: pool, profile: profile}
}

// Get lee una clave. ok=false si no existe.
func (r *CredentialRepo) Get(ctx context.Context, key string) (string, bool, error) {
	const query = `SELECT value FROM client_credentials WHERE profile = $1 AND key = $2`
	var value string
	err := r.pool.QueryRow(ctx, query, r.profile, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		if isUndefinedTable(err) {
			return "", false, fmt.Errorf("credentials.Get: tabla client_credentials inexistente, ejecute Migrate: %w", err)
		}
		return "", false, fmt.Errorf("credentials.Get: %w", err)
	}
	return value, true, nil
}

// Set inserta o reemplaza una clave.
func (r *CredentialRepo) Set(ctx context.Context, key, value string) error {
	const query = `
		INSERT INTO client_credentials (profile, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (profile, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	if _, err := r.pool.Exec(ctx, query, r.profile, key, value); err != nil {
		return fmt.Errorf("credentials.Set: %w", err)
	}
	return nil
}

// Delete borra una clave; borrar una clave inexistente no es error.
func (r *CredentialRepo) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM client_credentials WHERE profile = $1 AND key = $2`
	if _, err := r.pool.Exec(ctx, query, r.profile, key); err != nil {
		return fmt.Errorf("credentials.Delete: %w", err)
	}
	return nil
}
