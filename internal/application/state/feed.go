package state

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/jhoicas/stellar-burgers/internal/application/dto"
	"github.com/jhoicas/stellar-burgers/internal/domain/entity"
)

// FeedState feed público, historial del usuario y el pedido actual resuelto por número.
// Submitting distingue "pedido en vuelo" de "lista refrescándose" (IsLoading); Resolving marca
// la búsqueda de un pedido por número en el API.
type FeedState struct {
	PublicOrders   []entity.Order `json:"orders"`
	UserOrders     []entity.Order `json:"userOrders"`
	CurrentOrder   *entity.Order  `json:"currentOrder"`
	TotalCount     int            `json:"total"`
	TotalToday     int            `json:"totalToday"`
	IsLoading      bool           `json:"isLoading"`
	Submitting     bool           `json:"orderRequest"`
	Resolving      bool           `json:"isResolving"`
	OrderModalData *entity.Order  `json:"orderModalData"`
	Error          string         `json:"error,omitempty"`
}

func (s *FeedState) pending() *FeedState {
	next := *s
	next.IsLoading = true
	next.Error = ""
	return &next
}

func (s *FeedState) rejected(msg string) *FeedState {
	next := *s
	next.IsLoading = false
	next.Error = msg
	return &next
}

// withPublicFeed reemplaza lista y contadores juntos: describen el mismo momento del servidor.
func (s *FeedState) withPublicFeed(resp *dto.FeedResponse) *FeedState {
	next := *s
	next.IsLoading = false
	if resp != nil && resp.Orders != nil {
		next.PublicOrders = slices.Clone(resp.Orders)
		next.TotalCount = resp.Total
		next.TotalToday = resp.TotalToday
	}
	return &next
}

func (s *FeedState) withUserOrders(orders []entity.Order) *FeedState {
	next := *s
	next.IsLoading = false
	next.UserOrders = slices.Clone(orders)
	if next.UserOrders == nil {
		next.UserOrders = []entity.Order{}
	}
	return &next
}

func (s *FeedState) withCurrent(order *entity.Order) *FeedState {
	if sameOrder(s.CurrentOrder, order) {
		return s
	}
	next := *s
	next.CurrentOrder = order
	return &next
}

// settledCurrent fija el pedido actual y da por terminada cualquier búsqueda por número.
func (s *FeedState) settledCurrent(order *entity.Order) *FeedState {
	next := s.withCurrent(order)
	if !next.Resolving {
		return next
	}
	if next == s {
		cp := *s
		next = &cp
	}
	next.Resolving = false
	return next
}

// lookup busca primero en el feed público y después en el historial del usuario.
func (s *FeedState) lookup(number int) *entity.Order {
	for _, list := range [][]entity.Order{s.PublicOrders, s.UserOrders} {
		for i := range list {
			if list[i].Number == number {
				o := list[i]
				return &o
			}
		}
	}
	return nil
}

func (s *FeedState) requestClosed() *FeedState {
	if !s.Submitting && s.OrderModalData == nil {
		return s
	}
	next := *s
	next.Submitting = false
	next.OrderModalData = nil
	return &next
}

func sameOrder(a, b *entity.Order) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID &&
		a.Number == b.Number &&
		a.Status == b.Status &&
		a.Name == b.Name &&
		a.UpdatedAt.Equal(b.UpdatedAt) &&
		slices.Equal(a.Ingredients, b.Ingredients)
}

// parseOrderNumber acepta solo enteros positivos completos.
func parseOrderNumber(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func withFeed(fn func(*FeedState) *FeedState) func(RootState) RootState {
	return func(r RootState) RootState {
		r.Feed = fn(r.Feed)
		return r
	}
}

// FetchPublicFeed trae el feed público con sus totales.
func (c *Container) FetchPublicFeed(ctx context.Context) error {
	_, err := run(ctx, c, lifecycle[*dto.FeedResponse]{
		kind:     opPublicFeed,
		op:       "feed/fetchPublic",
		fallback: "No se pudo cargar el feed",
		pending:  withFeed((*FeedState).pending),
		fulfilled: func(r RootState, resp *dto.FeedResponse) RootState {
			r.Feed = r.Feed.withPublicFeed(resp)
			return r
		},
		rejected: func(r RootState, msg string) RootState {
			r.Feed = r.Feed.rejected(msg)
			return r
		},
	}, c.orders.FetchFeed)
	return err
}

// FetchUserOrders trae el historial privado del usuario, independiente del feed público.
func (c *Container) FetchUserOrders(ctx context.Context) error {
	_, err := run(ctx, c, lifecycle[[]entity.Order]{
		kind:     opUserOrders,
		op:       "feed/fetchUser",
		fallback: "No se pudo cargar el historial",
		pending:  withFeed((*FeedState).pending),
		fulfilled: func(r RootState, orders []entity.Order) RootState {
			r.Feed = r.Feed.withUserOrders(orders)
			return r
		},
		rejected: func(r RootState, msg string) RootState {
			r.Feed = r.Feed.rejected(msg)
			return r
		},
	}, c.orders.FetchUserOrders)
	return err
}

// CreateOrder envía el pedido. El pedido devuelto queda en OrderModalData; no se antepone a las
// listas, que se refrescan por su cuenta.
func (c *Container) CreateOrder(ctx context.Context, ingredientIDs []string) (*entity.Order, error) {
	ids := slices.Clone(ingredientIDs)
	resp, err := run(ctx, c, lifecycle[*dto.NewOrderResponse]{
		kind:     opCreateOrder,
		op:       "feed/createOrder",
		fallback: "No se pudo crear el pedido",
		pending: withFeed(func(s *FeedState) *FeedState {
			next := s.pending()
			next.Submitting = true
			return next
		}),
		fulfilled: func(r RootState, resp *dto.NewOrderResponse) RootState {
			next := *r.Feed
			next.IsLoading = false
			next.Submitting = false
			order := resp.Order
			next.OrderModalData = &order
			r.Feed = &next
			return r
		},
		rejected: func(r RootState, msg string) RootState {
			next := r.Feed.rejected(msg)
			next.Submitting = false
			r.Feed = next
			return r
		},
	}, func(ctx context.Context) (*dto.NewOrderResponse, error) {
		return c.orders.SubmitOrder(ctx, ids)
	})
	if err != nil {
		return nil, err
	}
	order := resp.Order
	return &order, nil
}

// CloseOrderRequest cierre explícito de la confirmación: limpia Submitting y OrderModalData juntos.
func (c *Container) CloseOrderRequest() {
	c.apply("feed/closeOrderRequest", withFeed((*FeedState).requestClosed))
}

// SetCurrentOrder resuelve el número contra el feed público y luego el historial. Un número
// ilegible o ausente deja CurrentOrder en nil sin error. Cuenta como la última elección del
// usuario: un ResolveOrder anterior todavía en vuelo se descarta.
func (c *Container) SetCurrentOrder(number string) *entity.Order {
	snap := c.fence(opResolve, "feed/setCurrentOrder", withFeed(func(s *FeedState) *FeedState {
		n, ok := parseOrderNumber(number)
		if !ok {
			return s.settledCurrent(nil)
		}
		return s.settledCurrent(s.lookup(n))
	}))
	return snap.Feed.CurrentOrder
}

// ClearCurrentOrder olvida el pedido actual y descarta cualquier ResolveOrder en vuelo.
func (c *Container) ClearCurrentOrder() {
	c.fence(opResolve, "feed/clearCurrentOrder", withFeed(func(s *FeedState) *FeedState { return s.settledCurrent(nil) }))
}

// ResolveOrder como SetCurrentOrder, pero si el pedido no está en ninguna lista lo pide al API
// (enlace directo a /feed/:number sin haber cargado el feed).
func (c *Container) ResolveOrder(ctx context.Context, number string) (*entity.Order, error) {
	if order := c.SetCurrentOrder(number); order != nil {
		return order, nil
	}
	n, ok := parseOrderNumber(number)
	if !ok {
		return nil, nil
	}
	return run(ctx, c, lifecycle[*entity.Order]{
		kind:     opResolve,
		op:       "feed/resolveOrder",
		fallback: "No se pudo cargar el pedido",
		pending: withFeed(func(s *FeedState) *FeedState {
			next := *s
			next.Resolving = true
			next.Error = ""
			return &next
		}),
		fulfilled: func(r RootState, order *entity.Order) RootState {
			r.Feed = r.Feed.settledCurrent(order)
			return r
		},
		rejected: func(r RootState, msg string) RootState {
			next := *r.Feed
			next.Resolving = false
			next.Error = msg
			r.Feed = &next
			return r
		},
	}, func(ctx context.Context) (*entity.Order, error) {
		return c.orders.FetchOrderByNumber(ctx, n)
	})
}
