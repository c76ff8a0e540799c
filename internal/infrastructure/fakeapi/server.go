// Package fakeapi implementación local del contrato del API remoto de pedidos (mismas rutas,
// mismos cuerpos JSON y mismos mensajes de error). Sirve para desarrollo sin red y para los tests
// del cliente HTTP.
package fakeapi

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/stellar-burgers/internal/application/dto"
	"github.com/jhoicas/stellar-burgers/internal/domain"
	"github.com/jhoicas/stellar-burgers/internal/domain/entity"
	"github.com/jhoicas/stellar-burgers/pkg/jwt"
	"github.com/jhoicas/stellar-burgers/pkg/logger"
)

// FeedLimit cantidad de pedidos que devuelve /orders/all.
const FeedLimit = 50

const localAccountID = "account_id"

// Config opciones del API de pruebas. Los campos vacíos toman valores por defecto.
type Config struct {
	JWTSecret        string
	TokenTTL         time.Duration
	CookTime         time.Duration // tiempo hasta que un pedido pasa a "done"
	Catalog          []entity.Ingredient
	FirstOrderNumber int
	SeedOrders       int
	Now              func() time.Time
	Logger           *logger.Logger
}

func (c *Config) defaults() {
	if c.JWTSecret == "" {
		c.JWTSecret = "fakeapi-dev-secret"
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = 20 * time.Minute
	}
	if c.CookTime == 0 {
		c.CookTime = 30 * time.Second
	}
	if c.Catalog == nil {
		c.Catalog = DefaultCatalog()
	}
	if c.FirstOrderNumber == 0 {
		c.FirstOrderNumber = 10000
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = logger.Nop()
	}
}

// Server API de pruebas.
type Server struct {
	app   *fiber.App
	store *store
	log   *logger.Logger
}

// New construye el servidor con sus rutas montadas bajo /api.
func New(cfg Config) *Server {
	cfg.defaults()
	s := &Server{
		store: newStore(cfg),
		log:   cfg.Logger.Component("fakeapi"),
	}
	s.seed(cfg.SeedOrders)

	app := fiber.New(fiber.Config{
		AppName: "stellar-burgers fakeapi",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return fail(c, code, err.Error())
		},
	})
	app.Use(recover.New())
	s.routes(app.Group("/api"))
	s.app = app
	return s
}

// App la aplicación Fiber (para Listen o para montarla en tests con adaptor).
func (s *Server) App() *fiber.App { return s.app }

// IssueAccessToken emite un access token para la cuenta con la vigencia indicada. Permite a los
// tests simular tokens vencidos.
func (s *Server) IssueAccessToken(email string, ttl time.Duration) (string, error) {
	s.store.mu.Lock()
	acc, ok := s.store.accounts[normalizeEmail(email)]
	s.store.mu.Unlock()
	if !ok {
		return "", domain.ErrNotFound
	}
	access, _, err := s.store.issueWithTTL(acc, ttl)
	return access, err
}

func (s *Server) routes(api fiber.Router) {
	api.Get("/ingredients", s.listIngredients)

	auth := api.Group("/auth")
	auth.Post("/register", s.register)
	auth.Post("/login", s.login)
	auth.Post("/logout", s.logout)
	auth.Post("/token", s.token)
	auth.Get("/user", s.requireAuth, s.getUser)
	auth.Patch("/user", s.requireAuth, s.updateUser)

	api.Post("/password-reset", s.forgotPassword)
	api.Post("/password-reset/reset", s.resetPassword)

	api.Get("/orders/all", s.feed)
	api.Get("/orders", s.requireAuth, s.userOrders)
	api.Post("/orders", s.requireAuth, s.createOrder)
	api.Get("/orders/:number", s.orderByNumber)
}

// ── Middleware ────────────────────────────────────────────────────────────────

// requireAuth valida el access token como el API real: sin header 401, vencido o inválido 403.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.TrimSpace(header) == "" {
		return fail(c, fiber.StatusUnauthorized, "You should be authorised")
	}
	id, err := jwt.Parse(s.store.secret, header)
	if err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			return fail(c, fiber.StatusForbidden, "jwt expired")
		}
		return fail(c, fiber.StatusForbidden, "jwt malformed")
	}
	if _, ok := s.store.byID(id); !ok {
		return fail(c, fiber.StatusForbidden, "jwt malformed")
	}
	c.Locals(localAccountID, id)
	return c.Next()
}

func accountID(c *fiber.Ctx) string {
	id, _ := c.Locals(localAccountID).(string)
	return id
}

// ── Catálogo ──────────────────────────────────────────────────────────────────

func (s *Server) listIngredients(c *fiber.Ctx) error {
	return c.JSON(dto.IngredientsResponse{Success: true, Data: s.store.ingredients()})
}

// ── Auth ──────────────────────────────────────────────────────────────────────

func (s *Server) register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil || in.Email == "" || in.Password == "" || in.Name == "" {
		return fail(c, fiber.StatusForbidden, "Email, password and name are required fields")
	}
	acc, err := s.store.register(in.Email, strings.TrimSpace(in.Name), in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return fail(c, fiber.StatusForbidden, "User already exists")
		}
		return err
	}
	return s.authResponse(c, acc)
}

func (s *Server) login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid body")
	}
	acc, err := s.store.login(in.Email, in.Password)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, err.Error())
	}
	return s.authResponse(c, acc)
}

func (s *Server) authResponse(c *fiber.Ctx, acc *account) error {
	access, refresh, err := s.store.issue(acc)
	if err != nil {
		return err
	}
	u := acc.user()
	return c.JSON(dto.AuthResponse{Success: true, User: &u, AccessToken: access, RefreshToken: refresh})
}

func (s *Server) logout(c *fiber.Ctx) error {
	var in dto.TokenRequest
	if err := c.BodyParser(&in); err != nil || in.Token == "" {
		return fail(c, fiber.StatusBadRequest, "Token required")
	}
	if !s.store.revoke(in.Token) {
		return fail(c, fiber.StatusNotFound, errBadRefresh.Error())
	}
	return c.JSON(dto.ServerResponse{Success: true, Message: "Successful logout"})
}

func (s *Server) token(c *fiber.Ctx) error {
	var in dto.TokenRequest
	if err := c.BodyParser(&in); err != nil || in.Token == "" {
		return fail(c, fiber.StatusBadRequest, "Token required")
	}
	access, refresh, err := s.store.rotate(in.Token)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, err.Error())
	}
	return c.JSON(dto.RefreshResponse{Success: true, AccessToken: access, RefreshToken: refresh})
}

func (s *Server) getUser(c *fiber.Ctx) error {
	acc, ok := s.store.byID(accountID(c))
	if !ok {
		return fail(c, fiber.StatusNotFound, "User not found")
	}
	return c.JSON(dto.UserResponse{Success: true, User: acc.user()})
}

func (s *Server) updateUser(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid body")
	}
	u, err := s.store.update(accountID(c), in.Email, strings.TrimSpace(in.Name), in.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			return fail(c, fiber.StatusForbidden, "User with such email already exists")
		case errors.Is(err, domain.ErrNotFound):
			return fail(c, fiber.StatusNotFound, "User not found")
		}
		return err
	}
	return c.JSON(dto.UserResponse{Success: true, User: u})
}

// ── Recuperación de contraseña ────────────────────────────────────────────────

func (s *Server) forgotPassword(c *fiber.Ctx) error {
	var in dto.ForgotPasswordRequest
	if err := c.BodyParser(&in); err != nil || in.Email == "" {
		return fail(c, fiber.StatusBadRequest, "Email is required")
	}
	code, err := s.store.requestReset(in.Email)
	if err != nil {
		return err
	}
	s.log.Info().Str("email", in.Email).Str("code", code).Msg("código de recuperación")
	return c.JSON(dto.ServerResponse{Success: true, Message: "Reset email sent"})
}

func (s *Server) resetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if err := c.BodyParser(&in); err != nil || in.Password == "" || in.Token == "" {
		return fail(c, fiber.StatusBadRequest, "Password and token are required")
	}
	if err := s.store.reset(in.Token, in.Password); err != nil {
		return fail(c, fiber.StatusNotFound, err.Error())
	}
	return c.JSON(dto.ServerResponse{Success: true, Message: "Password successfully reset"})
}

// ── Pedidos ───────────────────────────────────────────────────────────────────

func (s *Server) feed(c *fiber.Ctx) error {
	orders, total, today := s.store.feed(FeedLimit)
	return c.JSON(dto.FeedResponse{Success: true, Orders: orders, Total: total, TotalToday: today})
}

func (s *Server) userOrders(c *fiber.Ctx) error {
	orders := s.store.ordersOf(accountID(c))
	_, total, today := s.store.feed(0)
	return c.JSON(dto.FeedResponse{Success: true, Orders: orders, Total: total, TotalToday: today})
}

func (s *Server) createOrder(c *fiber.Ctx) error {
	var in dto.OrderRequest
	if err := c.BodyParser(&in); err != nil || len(in.Ingredients) == 0 {
		return fail(c, fiber.StatusBadRequest, "Ingredient ids must be provided")
	}
	o, err := s.store.placeOrder(accountID(c), in.Ingredients)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	s.log.Debug().Int("number", o.Number).Str("name", o.Name).Msg("pedido creado")
	return c.JSON(dto.NewOrderResponse{Success: true, Name: o.Name, Order: o})
}

func (s *Server) orderByNumber(c *fiber.Ctx) error {
	n, err := strconv.Atoi(c.Params("number"))
	if err != nil || n <= 0 {
		return fail(c, fiber.StatusBadRequest, "Invalid order number")
	}
	out := dto.OrdersResponse{Success: true, Orders: []entity.Order{}}
	if o, ok := s.store.order(n); ok {
		out.Orders = append(out.Orders, o)
	}
	return c.JSON(out)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(dto.ServerResponse{Success: false, Message: msg})
}

// seed pedidos ya listos para que el feed no arranque vacío.
func (s *Server) seed(n int) {
	if n <= 0 {
		return
	}
	var buns, fillings []string
	for _, ing := range s.store.listing {
		if ing.IsBun() {
			buns = append(buns, ing.ID)
		} else {
			fillings = append(fillings, ing.ID)
		}
	}
	if len(buns) == 0 || len(fillings) == 0 {
		return
	}
	past := s.store.now().Add(-s.store.cookTime)
	for i := 0; i < n; i++ {
		bun := buns[i%len(buns)]
		ids := []string{bun, fillings[i%len(fillings)], fillings[(i+1)%len(fillings)], bun}
		if _, err := s.store.placeOrder("", ids); err != nil {
			continue
		}
		s.store.mu.Lock()
		s.store.orders[0].CreatedAt = past
		s.store.orders[0].UpdatedAt = past
		s.store.mu.Unlock()
	}
}
