package state_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stellar-burgers/internal/application/dto"
	"github.com/jhoicas/stellar-burgers/internal/application/ports"
	"github.com/jhoicas/stellar-burgers/internal/application/state"
	"github.com/jhoicas/stellar-burgers/internal/domain"
	"github.com/jhoicas/stellar-burgers/internal/domain/entity"
)

func catalogOf(items ...entity.Ingredient) func(context.Context) ([]entity.Ingredient, error) {
	return func(context.Context) ([]entity.Ingredient, error) { return items, nil }
}

// ──────────────────────────────────────────────────────────────────────────────
// Bootstrap
// ──────────────────────────────────────────────────────────────────────────────

func TestBootstrap_SinTokenNoVerificaSesion(t *testing.T) {
	api := &fakeAPI{ingredients: catalogOf(bun("b1", 50)), feed: publicFeed(order(1, entity.OrderDone))}
	c := newContainer(api, newMemCreds())

	require.NoError(t, c.Bootstrap(context.Background()))
	snap := c.Snapshot()
	assert.True(t, snap.Session.AuthChecked)
	assert.False(t, snap.Session.IsAuthenticated)
	assert.Zero(t, api.count("getUser"))
	assert.Len(t, snap.Catalog.Items, 1)
	assert.Len(t, snap.Feed.PublicOrders, 1)
}

func TestBootstrap_ConTokenValido(t *testing.T) {
	api := &fakeAPI{getUser: okUser, ingredients: catalogOf(bun("b1", 50)), feed: publicFeed()}
	creds := newMemCreds(ports.AccessTokenKey, "Bearer abc", ports.RefreshTokenKey, "r")
	c := newContainer(api, creds)

	require.NoError(t, c.Bootstrap(context.Background()))
	s := c.Snapshot().Session
	assert.True(t, s.IsAuthenticated)
	assert.True(t, s.AuthChecked)
	assert.True(t, creds.has(ports.AccessTokenKey))
}

func TestBootstrap_TokenInvalidoSeBorra(t *testing.T) {
	api := &fakeAPI{
		getUser:     func(context.Context) (*entity.User, error) { return nil, &apiError{msg: "jwt expired"} },
		ingredients: catalogOf(bun("b1", 50)),
		feed:        publicFeed(),
	}
	creds := newMemCreds(ports.AccessTokenKey, "Bearer viejo", ports.RefreshTokenKey, "r")
	c := newContainer(api, creds)

	require.NoError(t, c.Bootstrap(context.Background()), "un fallo de sesión no es error de arranque")
	s := c.Snapshot().Session
	assert.False(t, s.IsAuthenticated)
	assert.True(t, s.AuthChecked)
	assert.False(t, creds.has(ports.AccessTokenKey))
	assert.False(t, creds.has(ports.RefreshTokenKey))
}

func TestBootstrap_NoRecargaLoQueYaEsta(t *testing.T) {
	api := &fakeAPI{ingredients: catalogOf(bun("b1", 50)), feed: publicFeed(order(1, entity.OrderDone))}
	c := newContainer(api, nil, state.WithInitialState(state.RootState{
		Catalog: &state.CatalogState{Items: []entity.Ingredient{bun("b9", 1)}},
	}))

	require.NoError(t, c.Bootstrap(context.Background()))
	assert.Zero(t, api.count("ingredients"))
	assert.Equal(t, 1, api.count("feed"))
	assert.Equal(t, "b9", c.Snapshot().Catalog.Items[0].ID)
}

func TestBootstrap_JuntaErroresDeCarga(t *testing.T) {
	api := &fakeAPI{
		ingredients: func(context.Context) ([]entity.Ingredient, error) { return nil, errors.New("catálogo caído") },
		feed:        func(context.Context) (*dto.FeedResponse, error) { return nil, errors.New("feed caído") },
	}
	c := newContainer(api, nil)

	err := c.Bootstrap(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catálogo caído")
	assert.Contains(t, err.Error(), "feed caído")
	assert.True(t, c.Snapshot().Session.AuthChecked)
}

// ──────────────────────────────────────────────────────────────────────────────
// Constructor desde el catálogo
// ──────────────────────────────────────────────────────────────────────────────

// Catálogo [pan 50, relleno 30]; agregar ambos → 50×2 + 30 = 130.
func TestAddIngredientByID_PrecioDelCatalogo(t *testing.T) {
	api := &fakeAPI{ingredients: catalogOf(bun("b1", 50), filling("f1", 30))}
	c := newContainer(api, nil, sequentialIDs())
	require.NoError(t, c.FetchIngredients(context.Background()))

	id, err := c.AddIngredientByID("b1")
	require.NoError(t, err)
	assert.Empty(t, id)
	id, err = c.AddIngredientByID("f1")
	require.NoError(t, err)
	assert.Equal(t, "p1", id)

	assert.True(t, decimal.NewFromInt(130).Equal(c.Selectors().Price(c.Snapshot())))

	_, err = c.AddIngredientByID("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// PlaceOrder / DismissOrderConfirmation
// ──────────────────────────────────────────────────────────────────────────────

func TestPlaceOrder_SinSesion(t *testing.T) {
	api := &fakeAPI{}
	c := newContainer(api, nil, sequentialIDs())
	c.AddIngredient(bun("b1", 50))

	_, err := c.PlaceOrder(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Zero(t, api.count("submit"))
	assert.False(t, c.Snapshot().Modal.OrderOpen)
}

func TestPlaceOrder_SinPan(t *testing.T) {
	api := &fakeAPI{}
	c, _ := authenticatedContainer(t, api, sequentialIDs())
	c.AddIngredient(filling("m1", 10))
	before := c.Snapshot()

	_, err := c.PlaceOrder(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, api.count("submit"))
	assert.Same(t, before, c.Snapshot(), "sin pan el estado no cambia")
}

func TestPlaceOrder_YDismiss(t *testing.T) {
	var sent []string
	api := &fakeAPI{submit: func(_ context.Context, ids []string) (*dto.NewOrderResponse, error) {
		sent = ids
		return &dto.NewOrderResponse{Success: true, Order: order(4242, entity.OrderCreated, ids...)}, nil
	}}
	c, _ := authenticatedContainer(t, api, sequentialIDs())
	c.AddIngredient(bun("b1", 50))
	c.AddIngredient(filling("m1", 10))
	c.AddIngredient(sauce("s1", 5))

	created, err := c.PlaceOrder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4242, created.Number)
	assert.Equal(t, []string{"b1", "m1", "s1", "b1"}, sent)

	snap := c.Snapshot()
	assert.True(t, snap.Modal.OrderOpen)
	require.NotNil(t, snap.Feed.OrderModalData)
	assert.NotNil(t, snap.Builder.Bun, "el constructor se vacía recién al cerrar la confirmación")

	c.DismissOrderConfirmation()
	snap = c.Snapshot()
	assert.False(t, snap.Modal.OrderOpen)
	assert.Nil(t, snap.Feed.OrderModalData)
	assert.False(t, snap.Feed.Submitting)
	assert.Nil(t, snap.Builder.Bun)
	assert.Empty(t, snap.Builder.Fillings)
}

func TestPlaceOrder_FalloConservaConstructor(t *testing.T) {
	api := &fakeAPI{submit: func(context.Context, []string) (*dto.NewOrderResponse, error) {
		return nil, errors.New("503")
	}}
	c, _ := authenticatedContainer(t, api, sequentialIDs())
	c.AddIngredient(bun("b1", 50))

	_, err := c.PlaceOrder(context.Background())
	require.Error(t, err)
	snap := c.Snapshot()
	assert.NotNil(t, snap.Builder.Bun)
	assert.Equal(t, "503", snap.Feed.Error)
	assert.False(t, snap.Feed.Submitting)
}
