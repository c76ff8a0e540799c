package state_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stellar-burgers/internal/application/dto"
	"github.com/jhoicas/stellar-burgers/internal/application/state"
	"github.com/jhoicas/stellar-burgers/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba para los puertos del contenedor
// ──────────────────────────────────────────────────────────────────────────────

type fakeAPI struct {
	ingredients    func(ctx context.Context) ([]entity.Ingredient, error)
	login          func(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error)
	register       func(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error)
	getUser        func(ctx context.Context) (*entity.User, error)
	updateUser     func(ctx context.Context, in dto.UpdateUserRequest) (*entity.User, error)
	logout         func(ctx context.Context) error
	forgotPassword func(ctx context.Context, in dto.ForgotPasswordRequest) error
	resetPassword  func(ctx context.Context, in dto.ResetPasswordRequest) error
	submit         func(ctx context.Context, ids []string) (*dto.NewOrderResponse, error)
	feed           func(ctx context.Context) (*dto.FeedResponse, error)
	userOrders     func(ctx context.Context) ([]entity.Order, error)
	byNumber       func(ctx context.Context, n int) (*entity.Order, error)

	mu    sync.Mutex
	calls map[string]int
}

var errNoStub = errors.New("sin stub")

func (f *fakeAPI) hit(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) FetchIngredients(ctx context.Context) ([]entity.Ingredient, error) {
	f.hit("ingredients")
	if f.ingredients == nil {
		return nil, errNoStub
	}
	return f.ingredients(ctx)
}

func (f *fakeAPI) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	f.hit("login")
	if f.login == nil {
		return nil, errNoStub
	}
	return f.login(ctx, in)
}

func (f *fakeAPI) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	f.hit("register")
	if f.register == nil {
		return nil, errNoStub
	}
	return f.register(ctx, in)
}

func (f *fakeAPI) GetUser(ctx context.Context) (*entity.User, error) {
	f.hit("getUser")
	if f.getUser == nil {
		return nil, errNoStub
	}
	return f.getUser(ctx)
}

func (f *fakeAPI) UpdateUser(ctx context.Context, in dto.UpdateUserRequest) (*entity.User, error) {
	f.hit("updateUser")
	if f.updateUser == nil {
		return nil, errNoStub
	}
	return f.updateUser(ctx, in)
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.hit("logout")
	if f.logout == nil {
		return errNoStub
	}
	return f.logout(ctx)
}

func (f *fakeAPI) ForgotPassword(ctx context.Context, in dto.ForgotPasswordRequest) error {
	f.hit("forgotPassword")
	if f.forgotPassword == nil {
		return errNoStub
	}
	return f.forgotPassword(ctx, in)
}

func (f *fakeAPI) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error {
	f.hit("resetPassword")
	if f.resetPassword == nil {
		return errNoStub
	}
	return f.resetPassword(ctx, in)
}

func (f *fakeAPI) SubmitOrder(ctx context.Context, ids []string) (*dto.NewOrderResponse, error) {
	f.hit("submit")
	if f.submit == nil {
		return nil, errNoStub
	}
	return f.submit(ctx, ids)
}

func (f *fakeAPI) FetchFeed(ctx context.Context) (*dto.FeedResponse, error) {
	f.hit("feed")
	if f.feed == nil {
		return nil, errNoStub
	}
	return f.feed(ctx)
}

func (f *fakeAPI) FetchUserOrders(ctx context.Context) ([]entity.Order, error) {
	f.hit("userOrders")
	if f.userOrders == nil {
		return nil, errNoStub
	}
	return f.userOrders(ctx)
}

func (f *fakeAPI) FetchOrderByNumber(ctx context.Context, n int) (*entity.Order, error) {
	f.hit("byNumber")
	if f.byNumber == nil {
		return nil, errNoStub
	}
	return f.byNumber(ctx, n)
}

// memCreds almacén de tokens en memoria para los tests del contenedor.
type memCreds struct {
	mu     sync.Mutex
	values map[string]string
	setErr error
}

func newMemCreds(kv ...string) *memCreds {
	m := &memCreds{values: map[string]string{}}
	for i := 0; i+1 < len(kv); i += 2 {
		m.values[kv[i]] = kv[i+1]
	}
	return m
}

func (m *memCreds) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memCreds) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *memCreds) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *memCreds) has(key string) bool {
	_, ok, _ := m.Get(context.Background(), key)
	return ok
}

// apiError error con mensaje para el usuario, como los del cliente HTTP.
type apiError struct{ msg string }

func (e *apiError) Error() string       { return "api: " + e.msg }
func (e *apiError) UserMessage() string { return e.msg }

// newContainer contenedor independiente por test.
func newContainer(api *fakeAPI, creds *memCreds, opts ...state.Option) *state.Container {
	if creds == nil {
		creds = newMemCreds()
	}
	return state.New(state.Deps{
		Catalog:     api,
		Auth:        api,
		Orders:      api,
		Credentials: creds,
	}, opts...)
}

// sequentialIDs ids de colocación deterministas: p1, p2, ...
func sequentialIDs() state.Option {
	n := 0
	var mu sync.Mutex
	return state.WithPlacementIDs(func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return "p" + strconv.Itoa(n)
	})
}

// ── Datos de prueba ───────────────────────────────────────────────────────────

func bun(id string, price int64) entity.Ingredient {
	return entity.Ingredient{ID: id, Name: "Pan " + id, Type: entity.IngredientBun, Price: decimal.NewFromInt(price)}
}

func filling(id string, price int64) entity.Ingredient {
	return entity.Ingredient{ID: id, Name: "Relleno " + id, Type: entity.IngredientMain, Price: decimal.NewFromInt(price)}
}

func sauce(id string, price int64) entity.Ingredient {
	return entity.Ingredient{ID: id, Name: "Salsa " + id, Type: entity.IngredientSauce, Price: decimal.NewFromInt(price)}
}

func order(number int, status entity.OrderStatus, ingredients ...string) entity.Order {
	return entity.Order{
		ID:          "o" + strconv.Itoa(number),
		Number:      number,
		Status:      status,
		Name:        "Burger",
		Ingredients: ingredients,
		CreatedAt:   time.Date(2025, 6, 3, 14, 4, 11, 0, time.UTC),
		UpdatedAt:   time.Date(2025, 6, 3, 14, 4, 12, 0, time.UTC),
	}
}

var testUser = &entity.User{Email: "ana@example.com", Name: "Ana"}
