package dto

import "github.com/jhoicas/stellar-burgers/internal/domain/entity"

// Cuerpos JSON del API remoto de pedidos. Todas las respuestas llevan "success".

// ServerResponse envoltorio mínimo; en errores el API agrega "message".
type ServerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// IngredientsResponse GET /ingredients.
type IngredientsResponse struct {
	Success bool                `json:"success"`
	Data    []entity.Ingredient `json:"data"`
}

// LoginRequest POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// UpdateUserRequest PATCH /auth/user. Actualización parcial: los campos vacíos no se envían.
type UpdateUserRequest struct {
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password,omitempty"`
}

// AuthResponse respuesta de login y registro. AccessToken llega con prefijo "Bearer ".
type AuthResponse struct {
	Success      bool         `json:"success"`
	User         *entity.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// UserResponse GET/PATCH /auth/user.
type UserResponse struct {
	Success bool        `json:"success"`
	User    entity.User `json:"user"`
}

// TokenRequest POST /auth/token y POST /auth/logout.
type TokenRequest struct {
	Token string `json:"token"`
}

// RefreshResponse POST /auth/token.
type RefreshResponse struct {
	Success      bool   `json:"success"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// ForgotPasswordRequest POST /password-reset.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest POST /password-reset/reset. Token es el código recibido por correo.
type ResetPasswordRequest struct {
	Password string `json:"password"`
	Token    string `json:"token"`
}

// OrderRequest POST /orders.
type OrderRequest struct {
	Ingredients []string `json:"ingredients"`
}

// NewOrderResponse respuesta de POST /orders.
type NewOrderResponse struct {
	Success bool         `json:"success"`
	Order   entity.Order `json:"order"`
	Name    string       `json:"name"`
}

// FeedResponse GET /orders/all y GET /orders (historial del usuario).
type FeedResponse struct {
	Success    bool           `json:"success"`
	Orders     []entity.Order `json:"orders"`
	Total      int            `json:"total"`
	TotalToday int            `json:"totalToday"`
}

// OrdersResponse GET /orders/{number}.
type OrdersResponse struct {
	Success bool           `json:"success"`
	Orders  []entity.Order `json:"orders"`
}
