package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stellar-burgers/internal/application/dto"
	"github.com/jhoicas/stellar-burgers/internal/application/state"
)

// sessionReader lo mínimo que el guard necesita del contenedor.
type sessionReader interface {
	Snapshot() *state.RootState
	Selectors() *state.Selectors
}

// ProtectedRoute guard de rutas equivalente al del cliente web.
//
// Comportamiento:
//   - 503 AUTH_PENDING → la verificación inicial de la sesión todavía no terminó.
//   - onlyUnAuth y hay sesión → 409 ALREADY_AUTHENTICATED (login, registro, recuperación).
//   - ruta protegida sin sesión → 401 UNAUTHORIZED.
func ProtectedRoute(onlyUnAuth bool, st sessionReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := st.Selectors().AuthStatus(st.Snapshot())
		if !auth.AuthChecked {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "AUTH_PENDING",
				Message: "verificando la sesión, intente de nuevo",
			})
		}
		if onlyUnAuth && auth.IsAuthenticated {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Code:    "ALREADY_AUTHENTICATED",
				Message: "ya hay una sesión iniciada",
			})
		}
		if !onlyUnAuth && !auth.IsAuthenticated {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "inicie sesión para continuar",
			})
		}
		return c.Next()
	}
}
