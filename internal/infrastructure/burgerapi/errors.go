package burgerapi

import (
	"fmt"
	"net/http"

	"github.com/jhoicas/stellar-burgers/internal/domain"
)

// expiredTokenMessage mensaje con el que el API rechaza un access token vencido.
const expiredTokenMessage = "jwt expired"

// APIError respuesta no exitosa del API: HTTP no-2xx o cuerpo con "success": false.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("burgerapi: HTTP %d", e.Status)
	}
	return fmt.Sprintf("burgerapi: HTTP %d: %s", e.Status, e.Message)
}

// UserMessage el texto que el API pensó para el usuario.
func (e *APIError) UserMessage() string { return e.Message }

// Unwrap traduce el status a un error de dominio para errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return domain.ErrInvalidInput
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrUnauthorized
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	default:
		return nil
	}
}

func (e *APIError) tokenExpired() bool {
	return e.Message == expiredTokenMessage
}
