// Package state implementa la capa de estado del cliente: cinco stores normalizados (catálogo,
// constructor, sesión, pedidos y modales), el agregador raíz que los compone en un único snapshot
// inmutable y los selectores derivados.
//
// Cada transición corre bajo un mutex y reemplaza solo el slice que cambia; el resto del snapshot
// conserva sus punteros. Un snapshot sin cambios devuelve exactamente el mismo *RootState.
// Las operaciones asíncronas siguen el ciclo pending → fulfilled | rejected y etiquetan cada
// petición con un token monotónico: una respuesta que no corresponde a la última petición de su
// tipo se descarta.
package state

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/stellar-burgers/internal/application/ports"
	"github.com/jhoicas/stellar-burgers/internal/domain/entity"
	"github.com/jhoicas/stellar-burgers/pkg/logger"
)

// RootState snapshot agregado. Los punteros nunca se mutan: cada transición crea un slice nuevo.
type RootState struct {
	Catalog *CatalogState `json:"ingredients"`
	Builder *BuilderState `json:"builder"`
	Session *SessionState `json:"user"`
	Feed    *FeedState    `json:"orders"`
	Modal   *ModalState   `json:"modal"`
}

// InitialState estado vacío de los cinco stores.
func InitialState() RootState {
	return RootState{
		Catalog: &CatalogState{Items: []entity.Ingredient{}},
		Builder: &BuilderState{Fillings: []entity.BuilderSlot{}},
		Session: &SessionState{Phase: PhaseAnonymous},
		Feed:    &FeedState{PublicOrders: []entity.Order{}, UserOrders: []entity.Order{}},
		Modal:   &ModalState{},
	}
}

func (r RootState) same(o *RootState) bool {
	return r.Catalog == o.Catalog &&
		r.Builder == o.Builder &&
		r.Session == o.Session &&
		r.Feed == o.Feed &&
		r.Modal == o.Modal
}

// Deps colaboradores del contenedor. Logger y Reporter son opcionales.
type Deps struct {
	Catalog     ports.CatalogAPI
	Auth        ports.AuthAPI
	Orders      ports.OrderAPI
	Credentials ports.CredentialStore
	Logger      *logger.Logger
	Reporter    ports.ErrorReporter
}

// Option ajusta la construcción del contenedor.
type Option func(*Container)

// WithInitialState precarga el snapshot (equivalente a preloadedState).
func WithInitialState(s RootState) Option {
	return func(c *Container) {
		base := InitialState()
		if s.Catalog != nil {
			base.Catalog = s.Catalog
		}
		if s.Builder != nil {
			base.Builder = s.Builder
		}
		if s.Session != nil {
			base.Session = s.Session
		}
		if s.Feed != nil {
			base.Feed = s.Feed
		}
		if s.Modal != nil {
			base.Modal = s.Modal
		}
		c.root = &base
	}
}

// WithPlacementIDs reemplaza el generador de ids de colocación (uuid v4 por defecto).
func WithPlacementIDs(fn func() string) Option {
	return func(c *Container) { c.newPlacementID = fn }
}

// Container agregador raíz: dueño exclusivo de los cinco slices y única fuente de verdad.
// Es seguro para uso concurrente; cada transición es atómica respecto de las demás.
type Container struct {
	mu     sync.Mutex
	root   *RootState
	ledger requestLedger

	catalog ports.CatalogAPI
	auth    ports.AuthAPI
	orders  ports.OrderAPI
	creds   ports.CredentialStore

	log      *logger.Logger
	reporter ports.ErrorReporter

	newPlacementID func() string

	subMu   sync.Mutex
	subs    map[uint64]func(*RootState)
	nextSub uint64

	sel *Selectors
}

// New construye un contenedor independiente. Los tests crean uno por caso.
func New(deps Deps, opts ...Option) *Container {
	initial := InitialState()
	c := &Container{
		root:           &initial,
		catalog:        deps.Catalog,
		auth:           deps.Auth,
		orders:         deps.Orders,
		creds:          deps.Credentials,
		log:            deps.Logger,
		reporter:       deps.Reporter,
		newPlacementID: uuid.NewString,
		subs:           make(map[uint64]func(*RootState)),
		sel:            NewSelectors(),
	}
	if c.log == nil {
		c.log = logger.Nop()
	}
	c.log = c.log.Component("state")
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot devuelve el estado agregado actual. Si nada cambió, es el mismo puntero que antes.
func (c *Container) Snapshot() *RootState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.root
}

// Selectors selectores memoizados asociados a este contenedor.
func (c *Container) Selectors() *Selectors {
	return c.sel
}

// Subscribe registra fn para recibir cada snapshot nuevo. fn corre fuera del lock y no debe
// asumir orden entre transiciones concurrentes; para el valor vigente usar Snapshot.
func (c *Container) Subscribe(fn func(*RootState)) (unsubscribe func()) {
	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subMu.Unlock()
	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

// apply ejecuta una transición síncrona.
func (c *Container) apply(op string, fn func(RootState) RootState) *RootState {
	c.mu.Lock()
	next, changed := c.commitLocked(fn)
	c.mu.Unlock()
	c.after(op, next, changed)
	return next
}

// begin registra una nueva petición de tipo kind y aplica su transición pending.
func (c *Container) begin(kind opKind, op string, fn func(RootState) RootState) uint64 {
	c.mu.Lock()
	token := c.ledger.begin(kind)
	next, changed := c.commitLocked(fn)
	c.mu.Unlock()
	c.after(op, next, changed)
	c.log.Debug().Str("op", op).Uint64("request", token).Msg("pending")
	return token
}

// fence aplica una transición síncrona que además invalida cualquier petición de tipo kind en
// vuelo, en el mismo commit.
func (c *Container) fence(kind opKind, op string, fn func(RootState) RootState) *RootState {
	c.mu.Lock()
	c.ledger.begin(kind)
	next, changed := c.commitLocked(fn)
	c.mu.Unlock()
	c.after(op, next, changed)
	return next
}

// guarded ejecuta effect solo si token sigue siendo la última petición de su tipo. El lock se
// mantiene entre la comprobación y el efecto; effect no debe usar el contenedor.
func (c *Container) guarded(kind opKind, token uint64, effect func() error) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ledger.isLatest(kind, token) {
		return false, nil
	}
	return true, effect()
}

// settle aplica fn solo si token sigue siendo la última petición de su tipo.
func (c *Container) settle(kind opKind, token uint64, op string, fn func(RootState) RootState) bool {
	c.mu.Lock()
	if !c.ledger.isLatest(kind, token) {
		c.mu.Unlock()
		c.log.Debug().Str("op", op).Uint64("request", token).Msg("respuesta obsoleta descartada")
		return false
	}
	next, changed := c.commitLocked(fn)
	c.mu.Unlock()
	c.after(op, next, changed)
	return true
}

func (c *Container) commitLocked(fn func(RootState) RootState) (*RootState, bool) {
	next := fn(*c.root)
	if next.same(c.root) {
		return c.root, false
	}
	c.root = &next
	return c.root, true
}

func (c *Container) after(op string, snap *RootState, changed bool) {
	if !changed {
		return
	}
	c.log.Trace().Str("op", op).Msg("transición")
	c.subMu.Lock()
	listeners := make([]func(*RootState), 0, len(c.subs))
	for _, fn := range c.subs {
		listeners = append(listeners, fn)
	}
	c.subMu.Unlock()
	for _, fn := range listeners {
		fn(snap)
	}
}

// lifecycle describe las tres transiciones de una operación asíncrona.
type lifecycle[T any] struct {
	kind      opKind
	op        string
	fallback  string
	pending   func(RootState) RootState
	fulfilled func(RootState, T) RootState
	rejected  func(RootState, string) RootState
}

// run ejecuta call entre pending y fulfilled/rejected. El rechazo siempre queda en el estado;
// el error se devuelve además al llamador. Si la respuesta quedó obsoleta devuelve ErrSuperseded.
func run[T any](ctx context.Context, c *Container, lc lifecycle[T], call func(context.Context) (T, error)) (T, error) {
	token := c.begin(lc.kind, lc.op+".pending", lc.pending)
	res, err := call(ctx)
	if err != nil {
		var zero T
		msg := errorMessage(err, lc.fallback)
		if !c.settle(lc.kind, token, lc.op+".rejected", func(r RootState) RootState { return lc.rejected(r, msg) }) {
			return zero, ErrSuperseded
		}
		c.reject(ctx, lc.op, err)
		return zero, err
	}
	if !c.settle(lc.kind, token, lc.op+".fulfilled", func(r RootState) RootState { return lc.fulfilled(r, res) }) {
		return res, ErrSuperseded
	}
	c.log.Debug().Str("op", lc.op).Uint64("request", token).Msg("fulfilled")
	return res, nil
}

func (c *Container) reject(ctx context.Context, op string, err error) {
	c.log.Warn().Err(err).Str("op", op).Msg("rejected")
	if c.reporter != nil {
		c.reporter.Report(ctx, op, err)
	}
}

// errorMessage texto legible para el campo Error del store.
func errorMessage(err error, fallback string) string {
	var uf ports.UserFacing
	if errors.As(err, &uf) && uf.UserMessage() != "" {
		return uf.UserMessage()
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
