package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/stellar-burgers/internal/application/ports"
	"github.com/jhoicas/stellar-burgers/internal/domain"
	"github.com/jhoicas/stellar-burgers/internal/domain/entity"
)

// Bootstrap arranque de la aplicación: si hay access token guardado verifica la sesión (y si
// falla borra los tokens); si no, marca la verificación como resuelta. Después carga catálogo y
// feed público si todavía están vacíos. Un fallo de sesión no es error de arranque.
func (c *Container) Bootstrap(ctx context.Context) error {
	hasToken := false
	if c.creds != nil {
		token, ok, err := c.creds.Get(ctx, ports.AccessTokenKey)
		if err != nil {
			c.log.Warn().Err(err).Msg("leer access token")
		}
		hasToken = ok && token != ""
	}

	if hasToken {
		_ = c.checkAuth(ctx, true)
	} else {
		c.MarkAuthChecked()
	}

	var errs []error
	snap := c.Snapshot()
	if len(snap.Catalog.Items) == 0 {
		if err := c.FetchIngredients(ctx); err != nil {
			errs = append(errs, fmt.Errorf("catálogo: %w", err))
		}
	}
	if len(snap.Feed.PublicOrders) == 0 {
		if err := c.FetchPublicFeed(ctx); err != nil {
			errs = append(errs, fmt.Errorf("feed: %w", err))
		}
	}
	return errors.Join(errs...)
}

// AddIngredientByID agrega un ingrediente del catálogo por su id.
func (c *Container) AddIngredientByID(id string) (string, error) {
	ing, ok := c.Snapshot().Catalog.Ingredient(id)
	if !ok {
		return "", fmt.Errorf("ingrediente %s: %w", id, domain.ErrNotFound)
	}
	return c.AddIngredient(ing), nil
}

// PlaceOrder botón "Realizar pedido": exige sesión (ErrUnauthorized, el llamador redirige al
// login) y pan (ErrInvalidInput, sin tocar el estado). Abre el modal de confirmación antes del
// viaje al servidor y envía [pan, rellenos..., pan].
func (c *Container) PlaceOrder(ctx context.Context) (*entity.Order, error) {
	snap := c.Snapshot()
	if !snap.Session.IsAuthenticated {
		return nil, domain.ErrUnauthorized
	}
	ids := OrderIngredientIDs(snap.Builder)
	if ids == nil {
		return nil, fmt.Errorf("%w: el pedido necesita un pan", domain.ErrInvalidInput)
	}
	c.OpenOrderModal()
	return c.CreateOrder(ctx, ids)
}

// DismissOrderConfirmation el usuario cierra la confirmación: se limpia la petición, se vacía
// el constructor y se cierra el modal.
func (c *Container) DismissOrderConfirmation() {
	c.apply("flow/dismissOrderConfirmation", func(r RootState) RootState {
		r.Feed = r.Feed.requestClosed()
		r.Builder = r.Builder.cleared()
		r.Modal = r.Modal.withOrder(false)
		return r
	})
}
