// Package ports define las capacidades externas que consume la capa de estado del cliente.
// Cualquier adaptador (HTTP real, API de pruebas, mocks de tests) implementa estos contratos.
package ports

import (
	"context"
	"io"

	"github.com/jhoicas/stellar-burgers/internal/application/dto"
	"github.com/jhoicas/stellar-burgers/internal/domain/entity"
)

// Claves bajo las que se persisten los tokens de sesión.
const (
	AccessTokenKey  = "accessToken"
	RefreshTokenKey = "refreshToken"
)

// CatalogAPI capacidad de catálogo: la lista completa de ingredientes.
type CatalogAPI interface {
	FetchIngredients(ctx context.Context) ([]entity.Ingredient, error)
}

// AuthAPI capacidad de autenticación. Los errores deben traer un mensaje legible (ver UserFacing).
type AuthAPI interface {
	Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error)
	Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error)
	GetUser(ctx context.Context) (*entity.User, error)
	UpdateUser(ctx context.Context, in dto.UpdateUserRequest) (*entity.User, error)
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context, in dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error
}

// OrderAPI capacidad de pedidos: envío, feed público e historial del usuario.
type OrderAPI interface {
	SubmitOrder(ctx context.Context, ingredientIDs []string) (*dto.NewOrderResponse, error)
	FetchFeed(ctx context.Context) (*dto.FeedResponse, error)
	FetchUserOrders(ctx context.Context) ([]entity.Order, error)
	// FetchOrderByNumber devuelve (nil, nil) si el número no existe.
	FetchOrderByNumber(ctx context.Context, number int) (*entity.Order, error)
}

// CredentialStore almacenamiento clave-valor opaco para los tokens.
// Get devuelve ok=false (sin error) si la clave no existe.
type CredentialStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// ErrorReporter recibe los rechazos de las operaciones asíncronas (Sentry en producción).
type ErrorReporter interface {
	Report(ctx context.Context, op string, err error)
}

// UserFacing lo implementan los errores que ya traen un mensaje apto para mostrar junto al control.
type UserFacing interface {
	UserMessage() string
}

// OrderArchive historial local de los pedidos enviados desde este cliente.
type OrderArchive interface {
	Save(ctx context.Context, order entity.PlacedOrder) error
	List(ctx context.Context) ([]entity.PlacedOrder, error)
}

// ReceiptRenderer escribe el comprobante de un pedido.
type ReceiptRenderer interface {
	Render(w io.Writer, receipt dto.Receipt) error
}
