// Package reporting envía a Sentry los rechazos de la capa de estado.
package reporting

import (
	"context"
	"errors"

	"github.com/getsentry/sentry-go"

	"github.com/jhoicas/stellar-burgers/internal/application/ports"
	"github.com/jhoicas/stellar-burgers/internal/application/state"
	"github.com/jhoicas/stellar-burgers/internal/domain"
)

var _ ports.ErrorReporter = (*SentryReporter)(nil)

// SentryReporter implementa ports.ErrorReporter. Los rechazos esperables (validación, credenciales,
// recursos inexistentes, respuestas descartadas, cancelaciones) no se reportan.
type SentryReporter struct {
	hub *sentry.Hub
}

// NewSentryReporter usa hub, o el hub global si es nil.
func NewSentryReporter(hub *sentry.Hub) *SentryReporter {
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	return &SentryReporter{hub: hub}
}

// Report captura err con la operación como tag. Si el contexto trae un hub (middleware de Fiber)
// se usa ese para conservar los datos de la petición.
func (r *SentryReporter) Report(ctx context.Context, op string, err error) {
	if !Reportable(err) {
		return
	}
	hub := r.hub
	if ctx != nil {
		if h := sentry.GetHubFromContext(ctx); h != nil {
			hub = h
		}
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("op", op)
		hub.CaptureException(err)
	})
}

// Reportable indica si el error es una falla real y no un rechazo esperable.
func Reportable(err error) bool {
	if err == nil {
		return false
	}
	for _, expected := range []error{
		domain.ErrInvalidInput,
		domain.ErrUnauthorized,
		domain.ErrForbidden,
		domain.ErrNotFound,
		state.ErrSuperseded,
		context.Canceled,
	} {
		if errors.Is(err, expected) {
			return false
		}
	}
	return true
}
