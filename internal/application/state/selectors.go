package state

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stellar-burgers/internal/domain/entity"
)

// FeedDisplayLimit máximo de números por columna en el tablero del feed.
const FeedDisplayLimit = 20

// OrderList elige sobre qué lista de pedidos filtrar.
type OrderList string

const (
	PublicList OrderList = "public"
	UserList   OrderList = "user"
)

// BuilderPrice pan × 2 (arriba y abajo) más la suma de los rellenos.
func BuilderPrice(b *BuilderState) decimal.Decimal {
	total := decimal.Zero
	if b == nil {
		return total
	}
	if b.Bun != nil {
		total = total.Add(b.Bun.Price.Mul(decimal.NewFromInt(2)))
	}
	for _, slot := range b.Fillings {
		total = total.Add(slot.Price)
	}
	return total
}

// IngredientCounts cuántas veces aparece cada ingrediente en el constructor (el pan cuenta 2).
func IngredientCounts(b *BuilderState) map[string]int {
	counts := make(map[string]int)
	if b == nil {
		return counts
	}
	if b.Bun != nil {
		counts[b.Bun.ID] = 2
	}
	for _, slot := range b.Fillings {
		counts[slot.ID]++
	}
	return counts
}

// OrderIngredientIDs ids a enviar: [pan, rellenos..., pan]. Sin pan devuelve nil.
func OrderIngredientIDs(b *BuilderState) []string {
	if b == nil || b.Bun == nil {
		return nil
	}
	ids := make([]string, 0, len(b.Fillings)+2)
	ids = append(ids, b.Bun.ID)
	for _, slot := range b.Fillings {
		ids = append(ids, slot.ID)
	}
	return append(ids, b.Bun.ID)
}

// OrdersByStatus filtra por estado conservando el orden, hasta FeedDisplayLimit coincidencias.
func OrdersByStatus(orders []entity.Order, status entity.OrderStatus) []entity.Order {
	out := []entity.Order{}
	for _, o := range orders {
		if o.Status != status {
			continue
		}
		out = append(out, o)
		if len(out) == FeedDisplayLimit {
			break
		}
	}
	return out
}

// OrderNumbers números públicos de la lista, en el mismo orden.
func OrderNumbers(orders []entity.Order) []int {
	out := make([]int, len(orders))
	for i, o := range orders {
		out[i] = o.Number
	}
	return out
}

// FeedStats datos del tablero del feed público.
type FeedStats struct {
	Ready      []int `json:"readyOrders"`
	Pending    []int `json:"pendingOrders"`
	Total      int   `json:"total"`
	TotalToday int   `json:"totalToday"`
}

func buildFeedStats(f *FeedState) FeedStats {
	return FeedStats{
		Ready:      OrderNumbers(OrdersByStatus(f.PublicOrders, entity.OrderDone)),
		Pending:    OrderNumbers(OrdersByStatus(f.PublicOrders, entity.OrderPending)),
		Total:      f.TotalCount,
		TotalToday: f.TotalToday,
	}
}

// OrderLine un ingrediente del pedido con su cantidad.
type OrderLine struct {
	Ingredient entity.Ingredient `json:"ingredient"`
	Count      int               `json:"count"`
	Subtotal   decimal.Decimal   `json:"subtotal"`
}

// OrderDetails pedido con sus ingredientes agrupados y el total calculado contra el catálogo.
type OrderDetails struct {
	Order   entity.Order    `json:"order"`
	Lines   []OrderLine     `json:"lines"`
	Total   decimal.Decimal `json:"total"`
	Missing []string        `json:"missing,omitempty"`
}

// BuildOrderDetails agrupa los ids del pedido en líneas (orden de primera aparición). Devuelve
// nil si no hay pedido o el catálogo aún no cargó. Los ids desconocidos van a Missing.
func BuildOrderDetails(order *entity.Order, catalog []entity.Ingredient) *OrderDetails {
	if order == nil || len(catalog) == 0 {
		return nil
	}
	byID := make(map[string]entity.Ingredient, len(catalog))
	for _, ing := range catalog {
		byID[ing.ID] = ing
	}

	details := &OrderDetails{Order: *order, Lines: []OrderLine{}, Total: decimal.Zero}
	index := make(map[string]int)
	for _, id := range order.Ingredients {
		if id == "" {
			continue
		}
		if i, ok := index[id]; ok {
			if i >= 0 {
				details.Lines[i].Count++
			}
			continue
		}
		ing, ok := byID[id]
		if !ok {
			details.Missing = append(details.Missing, id)
			index[id] = -1
			continue
		}
		index[id] = len(details.Lines)
		details.Lines = append(details.Lines, OrderLine{Ingredient: ing, Count: 1})
	}
	for i := range details.Lines {
		l := &details.Lines[i]
		l.Subtotal = l.Ingredient.Price.Mul(decimal.NewFromInt(int64(l.Count)))
		details.Total = details.Total.Add(l.Subtotal)
	}
	return details
}

// AuthStatus lo que necesita un guard de rutas.
type AuthStatus struct {
	IsAuthenticated bool `json:"isAuthenticated"`
	AuthChecked     bool `json:"isInit"`
}

// UserName nombre del usuario o "" sin sesión.
func UserName(s *SessionState) string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.Name
}

// UserEmail email del usuario o "" sin sesión.
func UserEmail(s *SessionState) string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.Email
}

type statusKey struct {
	list   OrderList
	status entity.OrderStatus
}

type detailsKey struct {
	order   *entity.Order
	catalog *CatalogState
}

// Selectors selectores derivados memoizados sobre la última referencia de entrada.
// Los resultados se comparten entre llamadas: no deben modificarse.
type Selectors struct {
	price   *memo[*BuilderState, decimal.Decimal]
	counts  *memo[*BuilderState, map[string]int]
	stats   *memo[*FeedState, FeedStats]
	details *memo[detailsKey, *OrderDetails]
	session *memo[*SessionState, AuthStatus]

	mu       sync.Mutex
	byStatus map[statusKey]*memo[*FeedState, []entity.Order]
}

// NewSelectors crea un juego de selectores con caché vacía.
func NewSelectors() *Selectors {
	return &Selectors{
		price:  newMemo(BuilderPrice),
		counts: newMemo(IngredientCounts),
		stats:  newMemo(buildFeedStats),
		details: newMemo(func(k detailsKey) *OrderDetails {
			return BuildOrderDetails(k.order, k.catalog.Items)
		}),
		session: newMemo(func(s *SessionState) AuthStatus {
			return AuthStatus{IsAuthenticated: s.IsAuthenticated, AuthChecked: s.AuthChecked}
		}),
		byStatus: make(map[statusKey]*memo[*FeedState, []entity.Order]),
	}
}

func (s *Selectors) Price(r *RootState) decimal.Decimal { return s.price.get(r.Builder) }

func (s *Selectors) IngredientCounts(r *RootState) map[string]int { return s.counts.get(r.Builder) }

func (s *Selectors) FeedStats(r *RootState) FeedStats { return s.stats.get(r.Feed) }

func (s *Selectors) AuthStatus(r *RootState) AuthStatus { return s.session.get(r.Session) }

// CurrentOrderDetails detalle del pedido actual, o nil si no hay pedido o catálogo.
func (s *Selectors) CurrentOrderDetails(r *RootState) *OrderDetails {
	return s.details.get(detailsKey{order: r.Feed.CurrentOrder, catalog: r.Catalog})
}

// OrdersByStatus versión memoizada de OrdersByStatus sobre una de las dos listas. Solo se
// memoizan los estados conocidos; uno desconocido devuelve la lista vacía.
func (s *Selectors) OrdersByStatus(r *RootState, list OrderList, status entity.OrderStatus) []entity.Order {
	if !status.Valid() {
		return []entity.Order{}
	}
	key := statusKey{list: list, status: status}
	s.mu.Lock()
	m, ok := s.byStatus[key]
	if !ok {
		m = newMemo(func(f *FeedState) []entity.Order {
			if list == UserList {
				return OrdersByStatus(f.UserOrders, status)
			}
			return OrdersByStatus(f.PublicOrders, status)
		})
		s.byStatus[key] = m
	}
	s.mu.Unlock()
	return m.get(r.Feed)
}
