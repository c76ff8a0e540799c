package state_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stellar-burgers/internal/application/state"
	"github.com/jhoicas/stellar-burgers/internal/domain/entity"
)

func fillingIDs(b *state.BuilderState) []string {
	out := make([]string, len(b.Fillings))
	for i, s := range b.Fillings {
		out[i] = s.ID
	}
	return out
}

func placementIDs(b *state.BuilderState) []string {
	out := make([]string, len(b.Fillings))
	for i, s := range b.Fillings {
		out[i] = s.PlacementID
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// AddIngredient
// ──────────────────────────────────────────────────────────────────────────────

func TestAddIngredient_PanReemplazaAlAnterior(t *testing.T) {
	c := newContainer(&fakeAPI{}, nil, sequentialIDs())

	id := c.AddIngredient(bun("b1", 50))
	assert.Empty(t, id, "los panes no reciben id de colocación")
	c.AddIngredient(bun("b2", 70))

	b := c.Snapshot().Builder
	require.NotNil(t, b.Bun)
	assert.Equal(t, "b2", b.Bun.ID)
	assert.Empty(t, b.Fillings, "un pan nunca va a la lista de rellenos")
}

func TestAddIngredient_RellenosSeAgreganAlFinalConIDUnico(t *testing.T) {
	c := newContainer(&fakeAPI{}, nil, sequentialIDs())

	p1 := c.AddIngredient(filling("m1", 10))
	p2 := c.AddIngredient(sauce("s1", 5))
	p3 := c.AddIngredient(filling("m1", 10))

	b := c.Snapshot().Builder
	assert.Equal(t, []string{"m1", "s1", "m1"}, fillingIDs(b))
	assert.Equal(t, []string{p1, p2, p3}, placementIDs(b))
	assert.NotEqual(t, p1, p3, "el mismo ingrediente dos veces tiene colocaciones distintas")
}

func TestAddIngredient_UUIDPorDefecto(t *testing.T) {
	c := newContainer(&fakeAPI{}, nil)
	a := c.AddIngredient(filling("m1", 10))
	b := c.AddIngredient(filling("m1", 10))
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestAddIngredient_NoMutaSnapshotAnterior(t *testing.T) {
	c := newContainer(&fakeAPI{}, nil, sequentialIDs())
	c.AddIngredient(filling("m1", 10))
	before := c.Snapshot()

	c.AddIngredient(filling("m2", 20))

	assert.Len(t, before.Builder.Fillings, 1, "el snapshot viejo no cambia")
	assert.Len(t, c.Snapshot().Builder.Fillings, 2)
	assert.Same(t, before.Catalog, c.Snapshot().Catalog, "los slices no tocados conservan su puntero")
}

// ──────────────────────────────────────────────────────────────────────────────
// RemoveIngredient
// ──────────────────────────────────────────────────────────────────────────────

func TestRemoveIngredient_QuitaSoloEsaColocacion(t *testing.T) {
	c := newContainer(&fakeAPI{}, nil, sequentialIDs())
	c.AddIngredient(filling("m1", 10))
	p2 := c.AddIngredient(filling("m1", 10))
	c.AddIngredient(sauce("s1", 5))

	c.RemoveIngredient(p2)

	b := c.Snapshot().Builder
	assert.Equal(t, []string{"m1", "s1"}, fillingIDs(b))
	assert.Equal(t, []string{"p1", "p3"}, placementIDs(b))
}

func TestRemoveIngredient_IDDesconocidoNoCambiaNada(t *testing.T) {
	c := newContainer(&fakeAPI{}, nil, sequentialIDs())
	c.AddIngredient(filling("m1", 10))
	before := c.Snapshot()

	c.RemoveIngredient("no-existe")

	assert.Same(t, before, c.Snapshot(), "sin cambios el snapshot raíz es el mismo puntero")
}

// ──────────────────────────────────────────────────────────────────────────────
// MoveIngredient
// ──────────────────────────────────────────────────────────────────────────────

func builderWith(t *testing.T, ids ...string) *state.Container {
	t.Helper()
	c := newContainer(&fakeAPI{}, nil, sequentialIDs())
	for _, id := range ids {
		c.AddIngredient(filling(id, 1))
	}
	return c
}

func TestMoveIngredient(t *testing.T) {
	cases := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"adelante", 0, 2, []string{"b", "c", "a"}},
		{"atrás", 2, 0, []string{"c", "a", "b"}},
		{"mismo lugar", 1, 1, []string{"a", "b", "c"}},
		{"al final con to igual al largo", 0, 3, []string{"b", "c", "a"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := builderWith(t, "a", "b", "c")
			c.MoveIngredient(tc.from, tc.to)
			assert.Equal(t, tc.want, fillingIDs(c.Snapshot().Builder))
		})
	}
}

func TestMoveIngredient_FueraDeRangoEsNoOp(t *testing.T) {
	for _, tc := range []struct{ from, to int }{{-1, 0}, {0, -1}, {3, 0}, {0, 4}, {7, 7}} {
		c := builderWith(t, "a", "b", "c")
		before := c.Snapshot()
		c.MoveIngredient(tc.from, tc.to)
		assert.Same(t, before, c.Snapshot(), "from=%d to=%d", tc.from, tc.to)
	}
}

func TestMoveIngredient_ConservaMultiset(t *testing.T) {
	c := builderWith(t, "a", "b", "c", "d")
	c.MoveIngredient(3, 1)
	got := c.Snapshot().Builder
	assert.ElementsMatch(t, []string{"p1", "p2", "p3", "p4"}, placementIDs(got))
	assert.Equal(t, []string{"p1", "p4", "p2", "p3"}, placementIDs(got))
}

// ──────────────────────────────────────────────────────────────────────────────
// ClearBuilder y precio
// ──────────────────────────────────────────────────────────────────────────────

func TestClearBuilder(t *testing.T) {
	c := newContainer(&fakeAPI{}, nil, sequentialIDs())
	c.AddIngredient(bun("b1", 50))
	c.AddIngredient(filling("m1", 10))

	c.ClearBuilder()
	b := c.Snapshot().Builder
	assert.Nil(t, b.Bun)
	assert.Empty(t, b.Fillings)

	before := c.Snapshot()
	c.ClearBuilder()
	assert.Same(t, before, c.Snapshot(), "limpiar un constructor vacío no es una transición")
}

// Caso del precio: pan 50, relleno 20, salsa 10 → 50×2 + 20 + 10 = 130.
func TestBuilderPrice_PanCuentaDoble(t *testing.T) {
	c := newContainer(&fakeAPI{}, nil, sequentialIDs())
	c.AddIngredient(bun("b1", 50))
	c.AddIngredient(filling("m1", 20))
	c.AddIngredient(sauce("s1", 10))

	snap := c.Snapshot()
	assert.True(t, decimal.NewFromInt(130).Equal(c.Selectors().Price(snap)))
	assert.True(t, decimal.NewFromInt(130).Equal(state.BuilderPrice(snap.Builder)))
}

func TestBuilderPrice_VacioEsCero(t *testing.T) {
	assert.True(t, state.BuilderPrice(&state.BuilderState{}).IsZero())
	assert.True(t, state.BuilderPrice(nil).IsZero())
}

func TestIngredientCounts(t *testing.T) {
	b := &state.BuilderState{
		Bun: &entity.Ingredient{ID: "b1", Type: entity.IngredientBun},
		Fillings: []entity.BuilderSlot{
			{Ingredient: filling("m1", 1), PlacementID: "x"},
			{Ingredient: filling("m1", 1), PlacementID: "y"},
			{Ingredient: sauce("s1", 1), PlacementID: "z"},
		},
	}
	assert.Equal(t, map[string]int{"b1": 2, "m1": 2, "s1": 1}, state.IngredientCounts(b))
}

func TestOrderIngredientIDs(t *testing.T) {
	assert.Nil(t, state.OrderIngredientIDs(&state.BuilderState{Fillings: []entity.BuilderSlot{{Ingredient: filling("m1", 1)}}}),
		"sin pan no hay pedido")

	b := &state.BuilderState{
		Bun:      &entity.Ingredient{ID: "b1", Type: entity.IngredientBun},
		Fillings: []entity.BuilderSlot{{Ingredient: filling("m1", 1)}, {Ingredient: sauce("s1", 1)}},
	}
	assert.Equal(t, []string{"b1", "m1", "s1", "b1"}, state.OrderIngredientIDs(b))
}

// ──────────────────────────────────────────────────────────────────────────────
// Modales
// ──────────────────────────────────────────────────────────────────────────────

func TestModals_SonIndependientes(t *testing.T) {
	c := newContainer(&fakeAPI{}, nil)

	c.OpenDetailsModal()
	c.OpenOrderModal()
	m := c.Snapshot().Modal
	assert.True(t, m.DetailsOpen)
	assert.True(t, m.OrderOpen)

	c.CloseDetailsModal()
	m = c.Snapshot().Modal
	assert.False(t, m.DetailsOpen)
	assert.True(t, m.OrderOpen, "cerrar uno no cierra el otro")

	before := c.Snapshot()
	c.CloseDetailsModal()
	assert.Same(t, before, c.Snapshot(), "cerrar un modal cerrado no cambia el snapshot")

	c.CloseOrderModal()
	assert.False(t, c.Snapshot().Modal.OrderOpen)
}
