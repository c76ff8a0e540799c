// Package burgerapi cliente HTTP del API remoto de pedidos. Implementa los puertos de catálogo,
// autenticación y pedidos que consume la capa de estado.
package burgerapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/stellar-burgers/internal/application/dto"
	"github.com/jhoicas/stellar-burgers/internal/application/ports"
	"github.com/jhoicas/stellar-burgers/internal/domain"
	"github.com/jhoicas/stellar-burgers/internal/domain/entity"
	"github.com/jhoicas/stellar-burgers/pkg/jwt"
	"github.com/jhoicas/stellar-burgers/pkg/logger"
)

// Verificar en tiempo de compilación que Client implementa los tres puertos.
var (
	_ ports.CatalogAPI = (*Client)(nil)
	_ ports.AuthAPI    = (*Client)(nil)
	_ ports.OrderAPI   = (*Client)(nil)
)

const (
	maxBodyBytes = 1 << 20
	// refreshLeeway margen con el que se refresca antes de que el servidor rechace el token.
	refreshLeeway = 10 * time.Second
)

// Client adaptador del API remoto. Lee y guarda los tokens en el CredentialStore: el access token
// va en el header Authorization de las rutas protegidas y se refresca con el refresh token cuando
// vence (por exp o por "jwt expired" del servidor), reintentando una vez.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      ports.CredentialStore
	log        *logger.Logger
	now        func() time.Time

	refreshMu sync.Mutex
}

// Option ajusta el cliente.
type Option func(*Client)

// WithHTTPClient reemplaza el *http.Client (tests, transporte propio).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger registra refrescos y fallos de red.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l.Component("burgerapi") }
}

// New construye el cliente. baseURL sin barra final, p. ej. "https://norma.nomoreparties.space/api".
func New(baseURL string, timeout time.Duration, creds ports.CredentialStore, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		creds:      creds,
		log:        logger.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ── Catálogo ──────────────────────────────────────────────────────────────────

// FetchIngredients GET /ingredients.
func (c *Client) FetchIngredients(ctx context.Context) ([]entity.Ingredient, error) {
	var out dto.IngredientsResponse
	if err := c.do(ctx, http.MethodGet, "/ingredients", nil, false, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ── Autenticación ─────────────────────────────────────────────────────────────

// Login POST /auth/login. Los tokens los guarda la capa de estado, que decide si la sesión sigue vigente.
func (c *Client) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", in, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register POST /auth/register.
func (c *Client) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", in, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUser GET /auth/user.
func (c *Client) GetUser(ctx context.Context) (*entity.User, error) {
	var out dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/auth/user", nil, true, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// UpdateUser PATCH /auth/user.
func (c *Client) UpdateUser(ctx context.Context, in dto.UpdateUserRequest) (*entity.User, error) {
	var out dto.UserResponse
	if err := c.do(ctx, http.MethodPatch, "/auth/user", in, true, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Logout POST /auth/logout con el refresh token. Los tokens locales los borra la capa de estado.
func (c *Client) Logout(ctx context.Context) error {
	refresh, err := c.credential(ctx, ports.RefreshTokenKey)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/auth/logout", dto.TokenRequest{Token: refresh}, false, nil)
}

// ForgotPassword POST /password-reset.
func (c *Client) ForgotPassword(ctx context.Context, in dto.ForgotPasswordRequest) error {
	return c.do(ctx, http.MethodPost, "/password-reset", in, false, nil)
}

// ResetPassword POST /password-reset/reset.
func (c *Client) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error {
	return c.do(ctx, http.MethodPost, "/password-reset/reset", in, false, nil)
}

// ── Pedidos ───────────────────────────────────────────────────────────────────

// SubmitOrder POST /orders (requiere sesión).
func (c *Client) SubmitOrder(ctx context.Context, ingredientIDs []string) (*dto.NewOrderResponse, error) {
	var out dto.NewOrderResponse
	if err := c.do(ctx, http.MethodPost, "/orders", dto.OrderRequest{Ingredients: ingredientIDs}, true, &out); err != nil {
		return nil, err
	}
	if out.Order.Name == "" {
		out.Order.Name = out.Name
	}
	return &out, nil
}

// FetchFeed GET /orders/all.
func (c *Client) FetchFeed(ctx context.Context) (*dto.FeedResponse, error) {
	var out dto.FeedResponse
	if err := c.do(ctx, http.MethodGet, "/orders/all", nil, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchUserOrders GET /orders (requiere sesión).
func (c *Client) FetchUserOrders(ctx context.Context) ([]entity.Order, error) {
	var out dto.FeedResponse
	if err := c.do(ctx, http.MethodGet, "/orders", nil, true, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// FetchOrderByNumber GET /orders/{number}. Un número inexistente devuelve (nil, nil).
func (c *Client) FetchOrderByNumber(ctx context.Context, number int) (*entity.Order, error) {
	var out dto.OrdersResponse
	err := c.do(ctx, http.MethodGet, "/orders/"+strconv.Itoa(number), nil, false, &out)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if len(out.Orders) == 0 {
		return nil, nil
	}
	o := out.Orders[0]
	return &o, nil
}

// ── Transporte ────────────────────────────────────────────────────────────────

// do ejecuta la petición y decodifica la respuesta en out. Con auth adjunta el access token y, si
// el servidor responde "jwt expired", refresca y reintenta una sola vez.
func (c *Client) do(ctx context.Context, method, path string, in any, auth bool, out any) error {
	var token string
	if auth {
		var err error
		if token, err = c.accessToken(ctx); err != nil {
			return err
		}
	}
	err := c.send(ctx, method, path, in, token, out)
	var apiErr *APIError
	if !auth || !errors.As(err, &apiErr) || !apiErr.tokenExpired() {
		return err
	}
	c.log.Debug().Str("path", path).Msg("access token vencido, refrescando")
	fresh, rerr := c.refresh(ctx, token)
	if rerr != nil {
		if errors.Is(rerr, errNoRefreshToken) {
			return err
		}
		return rerr
	}
	return c.send(ctx, method, path, in, fresh, out)
}

func (c *Client) send(ctx context.Context, method, path string, in any, token string, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("burgerapi: serializar request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("burgerapi: crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json;charset=utf-8")
	}
	if token != "" {
		req.Header.Set("Authorization", jwt.BearerPrefix+jwt.StripBearer(token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("burgerapi: %s %s: %w", method, path, ctx.Err())
		}
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("llamada HTTP fallida")
		return fmt.Errorf("%w: %s %s: %v", domain.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: leer respuesta: %v", domain.ErrTransport, err)
	}

	var envelope dto.ServerResponse
	if jsonErr := json.Unmarshal(raw, &envelope); jsonErr != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		}
		return fmt.Errorf("burgerapi: deserializar respuesta: %w", jsonErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || !envelope.Success {
		return &APIError{Status: resp.StatusCode, Message: envelope.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("burgerapi: deserializar respuesta: %w", err)
	}
	return nil
}

// ── Tokens ────────────────────────────────────────────────────────────────────

func (c *Client) credential(ctx context.Context, key string) (string, error) {
	if c.creds == nil {
		return "", nil
	}
	v, _, err := c.creds.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("burgerapi: leer %s: %w", key, err)
	}
	return v, nil
}

// accessToken devuelve el token vigente; si el exp ya pasó lo refresca antes de llamar.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	token, err := c.credential(ctx, ports.AccessTokenKey)
	if err != nil || token == "" {
		return token, err
	}
	if !jwt.Expired(token, c.now(), refreshLeeway) {
		return token, nil
	}
	refreshed, err := c.refresh(ctx, token)
	if err != nil {
		// Sin refresh token se prueba igual con el viejo: el servidor dirá si sirve.
		if errors.Is(err, errNoRefreshToken) {
			return token, nil
		}
		return "", err
	}
	return refreshed, nil
}

var errNoRefreshToken = fmt.Errorf("%w: no hay refresh token", domain.ErrUnauthorized)

// refresh POST /auth/token. stale es el token que falló; si otra goroutine ya lo reemplazó
// se usa el nuevo sin volver a llamar.
func (c *Client) refresh(ctx context.Context, stale string) (string, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	current, err := c.credential(ctx, ports.AccessTokenKey)
	if err != nil {
		return "", err
	}
	if current != "" && current != stale && !jwt.Expired(current, c.now(), refreshLeeway) {
		return current, nil
	}

	refreshToken, err := c.credential(ctx, ports.RefreshTokenKey)
	if err != nil {
		return "", err
	}
	if refreshToken == "" {
		return "", errNoRefreshToken
	}

	var out dto.RefreshResponse
	if err := c.send(ctx, http.MethodPost, "/auth/token", dto.TokenRequest{Token: refreshToken}, "", &out); err != nil {
		return "", err
	}
	if err := c.creds.Set(ctx, ports.AccessTokenKey, out.AccessToken); err != nil {
		return "", fmt.Errorf("burgerapi: guardar access token: %w", err)
	}
	if out.RefreshToken != "" {
		if err := c.creds.Set(ctx, ports.RefreshTokenKey, out.RefreshToken); err != nil {
			return "", fmt.Errorf("burgerapi: guardar refresh token: %w", err)
		}
	}
	c.log.Info().Msg("access token refrescado")
	return out.AccessToken, nil
}
