package state

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/asaskevich/govalidator"

	"github.com/jhoicas/stellar-burgers/internal/application/dto"
	"github.com/jhoicas/stellar-burgers/internal/application/ports"
	"github.com/jhoicas/stellar-burgers/internal/domain"
	"github.com/jhoicas/stellar-burgers/internal/domain/entity"
)

// SessionPhase fase de la máquina de estados de la sesión.
type SessionPhase string

const (
	PhaseAnonymous     SessionPhase = "anonymous"
	PhaseChecking      SessionPhase = "checking"
	PhaseLoggingIn     SessionPhase = "loggingIn"
	PhaseRegistering   SessionPhase = "registering"
	PhaseVerifying     SessionPhase = "verifying"
	PhaseAuthenticated SessionPhase = "authenticated"
	PhaseError         SessionPhase = "error"
)

// SessionState perfil del usuario autenticado y banderas del ciclo de autenticación.
// AuthChecked pasa a true una sola vez por carga, cuando resuelve la verificación inicial, y no
// vuelve a false.
type SessionState struct {
	User                   *entity.User `json:"data"`
	IsAuthenticated        bool         `json:"isAuthenticated"`
	IsLoading              bool         `json:"isLoading"`
	Error                  string       `json:"error,omitempty"`
	AuthChecked            bool         `json:"isInit"`
	Phase                  SessionPhase `json:"phase"`
	PasswordResetRequested bool         `json:"passwordResetRequested"`
}

func (s *SessionState) pending(phase SessionPhase) *SessionState {
	next := *s
	next.IsLoading = true
	next.Error = ""
	if phase != "" {
		next.Phase = phase
	}
	return &next
}

// rejected no toca IsAuthenticated.
func (s *SessionState) rejected(msg string) *SessionState {
	next := *s
	next.IsLoading = false
	next.Error = msg
	if !next.IsAuthenticated {
		next.Phase = PhaseError
	}
	return &next
}

func (s *SessionState) verifying(user *entity.User) *SessionState {
	next := *s
	next.Phase = PhaseVerifying
	next.User = cloneUser(user)
	return &next
}

func (s *SessionState) authenticated(user *entity.User) *SessionState {
	next := *s
	next.IsLoading = false
	next.User = cloneUser(user)
	next.IsAuthenticated = true
	next.Phase = PhaseAuthenticated
	return &next
}

func (s *SessionState) loggedOut() *SessionState {
	next := *s
	next.IsLoading = false
	next.User = nil
	next.IsAuthenticated = false
	next.Phase = PhaseAnonymous
	return &next
}

func (s *SessionState) checked() *SessionState {
	if s.AuthChecked {
		return s
	}
	next := *s
	next.AuthChecked = true
	return &next
}

func cloneUser(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

func withSession(fn func(*SessionState) *SessionState) func(RootState) RootState {
	return func(r RootState) RootState {
		r.Session = fn(r.Session)
		return r
	}
}

// Login inicia sesión en dos pasos explícitos: loggingIn → verifying → authenticated.
// Tras aceptar las credenciales se guardan los tokens y se confirma el perfil con el servidor
// antes de marcar la sesión como autenticada.
func (c *Container) Login(ctx context.Context, email, password string) error {
	if msg := validateLogin(email, password); msg != "" {
		return c.invalid(opSession, "session/login", msg)
	}
	token := c.begin(opSession, "session/login.pending", withSession(func(s *SessionState) *SessionState {
		return s.pending(PhaseLoggingIn)
	}))
	resp, err := c.auth.Login(ctx, dto.LoginRequest{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		return c.rejectSession(ctx, token, "session/login", err, "No se pudo iniciar sesión", false)
	}
	return c.verify(ctx, token, "session/login", resp, "No se pudo iniciar sesión")
}

// Register crea la cuenta y sigue el mismo camino que Login.
func (c *Container) Register(ctx context.Context, name, email, password string) error {
	if msg := validateRegister(name, email, password); msg != "" {
		return c.invalid(opSession, "session/register", msg)
	}
	token := c.begin(opSession, "session/register.pending", withSession(func(s *SessionState) *SessionState {
		return s.pending(PhaseRegistering)
	}))
	resp, err := c.auth.Register(ctx, dto.RegisterRequest{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: password,
	})
	if err != nil {
		return c.rejectSession(ctx, token, "session/register", err, "No se pudo registrar", false)
	}
	return c.verify(ctx, token, "session/register", resp, "No se pudo registrar")
}

// verify guarda los tokens y confirma el perfil. Guardar y borrar tokens solo ocurre mientras
// token sea el último de la sesión, así una petición superada no pisa los de otra más nueva.
func (c *Container) verify(ctx context.Context, token uint64, op string, resp *dto.AuthResponse, fallback string) error {
	latest, err := c.guarded(opSession, token, func() error {
		return c.saveTokens(ctx, resp.AccessToken, resp.RefreshToken)
	})
	if !latest {
		return ErrSuperseded
	}
	if err != nil {
		return c.rejectSession(ctx, token, op, err, fallback, true)
	}
	if !c.settle(opSession, token, op+".verifying", withSession(func(s *SessionState) *SessionState {
		return s.verifying(resp.User)
	})) {
		return ErrSuperseded
	}
	user, err := c.auth.GetUser(ctx)
	if err != nil {
		if latest, _ := c.guarded(opSession, token, func() error {
			c.clearTokens(ctx)
			return nil
		}); !latest {
			return ErrSuperseded
		}
		return c.rejectSession(ctx, token, op, err, fallback, true)
	}
	if !c.settle(opSession, token, op+".fulfilled", withSession(func(s *SessionState) *SessionState {
		return s.authenticated(user)
	})) {
		return ErrSuperseded
	}
	c.log.Debug().Str("op", op).Msg("fulfilled")
	return nil
}

// CheckAuth verificación inicial ("¿quién soy?"). Resuelva como resuelva, AuthChecked queda en
// true para que los guards dejen de esperar.
func (c *Container) CheckAuth(ctx context.Context) error {
	return c.checkAuth(ctx, false)
}

// checkAuth con dropTokens borra los tokens guardados si el servidor los rechaza, siempre que
// ninguna petición de sesión posterior haya empezado.
func (c *Container) checkAuth(ctx context.Context, dropTokens bool) error {
	token := c.begin(opSession, "session/checkAuth.pending", withSession(func(s *SessionState) *SessionState {
		return s.pending(PhaseChecking)
	}))
	user, err := c.auth.GetUser(ctx)
	if err != nil {
		if dropTokens {
			c.guarded(opSession, token, func() error {
				c.clearTokens(ctx)
				return nil
			})
		}
		msg := errorMessage(err, "No se pudo verificar la sesión")
		if !c.settle(opSession, token, "session/checkAuth.rejected", withSession(func(s *SessionState) *SessionState {
			return s.rejected(msg).checked()
		})) {
			c.MarkAuthChecked()
			return ErrSuperseded
		}
		c.reject(ctx, "session/checkAuth", err)
		return err
	}
	if !c.settle(opSession, token, "session/checkAuth.fulfilled", withSession(func(s *SessionState) *SessionState {
		return s.authenticated(user).checked()
	})) {
		c.MarkAuthChecked()
		return ErrSuperseded
	}
	return nil
}

// Logout cierra la sesión en el servidor y borra los tokens locales. Si entretanto empezó otro
// login, sus tokens se conservan.
func (c *Container) Logout(ctx context.Context) error {
	token := c.begin(opSession, "session/logout.pending", withSession(func(s *SessionState) *SessionState {
		return s.pending("")
	}))
	if err := c.auth.Logout(ctx); err != nil {
		return c.rejectSession(ctx, token, "session/logout", err, "No se pudo cerrar sesión", false)
	}
	if latest, _ := c.guarded(opSession, token, func() error {
		c.clearTokens(ctx)
		return nil
	}); !latest {
		return ErrSuperseded
	}
	if !c.settle(opSession, token, "session/logout.fulfilled", withSession((*SessionState).loggedOut)) {
		return ErrSuperseded
	}
	return nil
}

// UpdateUser reemplaza el perfil con lo que devuelve el servidor; no cambia IsAuthenticated.
// Solo se envían los campos no vacíos.
func (c *Container) UpdateUser(ctx context.Context, in dto.UpdateUserRequest) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Email != "" && !govalidator.IsEmail(in.Email) {
		return c.invalid(opSession, "session/update", "Email inválido")
	}
	_, err := run(ctx, c, lifecycle[*entity.User]{
		kind:     opSession,
		op:       "session/update",
		fallback: "No se pudo actualizar el perfil",
		pending:  withSession(func(s *SessionState) *SessionState { return s.pending("") }),
		fulfilled: func(r RootState, user *entity.User) RootState {
			next := *r.Session
			next.IsLoading = false
			next.User = cloneUser(user)
			r.Session = &next
			return r
		},
		rejected: func(r RootState, msg string) RootState {
			r.Session = r.Session.rejected(msg)
			return r
		},
	}, func(ctx context.Context) (*entity.User, error) {
		return c.auth.UpdateUser(ctx, in)
	})
	return err
}

// RequestPasswordReset pide el correo de recuperación y marca PasswordResetRequested.
func (c *Container) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if !govalidator.IsEmail(email) {
		return c.invalid(opPassword, "session/forgotPassword", "Email inválido")
	}
	_, err := run(ctx, c, lifecycle[struct{}]{
		kind:     opPassword,
		op:       "session/forgotPassword",
		fallback: "No se pudo enviar el correo de recuperación",
		pending:  withSession(func(s *SessionState) *SessionState { return s.pending("") }),
		fulfilled: func(r RootState, _ struct{}) RootState {
			next := *r.Session
			next.IsLoading = false
			next.PasswordResetRequested = true
			r.Session = &next
			return r
		},
		rejected: func(r RootState, msg string) RootState {
			r.Session = r.Session.rejected(msg)
			return r
		},
	}, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.auth.ForgotPassword(ctx, dto.ForgotPasswordRequest{Email: email})
	})
	return err
}

// ResetPassword fija la nueva contraseña con el código recibido por correo.
// Requiere haber pasado antes por RequestPasswordReset.
func (c *Container) ResetPassword(ctx context.Context, password, code string) error {
	if !c.Snapshot().Session.PasswordResetRequested {
		return c.refuse(opPassword, "session/resetPassword", domain.ErrForbidden, "Primero solicite el correo de recuperación")
	}
	if password == "" || strings.TrimSpace(code) == "" {
		return c.invalid(opPassword, "session/resetPassword", "Contraseña y código son requeridos")
	}
	_, err := run(ctx, c, lifecycle[struct{}]{
		kind:     opPassword,
		op:       "session/resetPassword",
		fallback: "No se pudo cambiar la contraseña",
		pending:  withSession(func(s *SessionState) *SessionState { return s.pending("") }),
		fulfilled: func(r RootState, _ struct{}) RootState {
			next := *r.Session
			next.IsLoading = false
			next.PasswordResetRequested = false
			r.Session = &next
			return r
		},
		rejected: func(r RootState, msg string) RootState {
			r.Session = r.Session.rejected(msg)
			return r
		},
	}, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.auth.ResetPassword(ctx, dto.ResetPasswordRequest{Password: password, Token: strings.TrimSpace(code)})
	})
	return err
}

// MarkAuthChecked marca la verificación inicial como resuelta (sin token no hay nada que verificar).
func (c *Container) MarkAuthChecked() {
	c.apply("session/init", withSession(func(s *SessionState) *SessionState { return s.checked() }))
}

// ClearSessionError borra el mensaje de error de la sesión.
func (c *Container) ClearSessionError() {
	c.apply("session/clearError", withSession(func(s *SessionState) *SessionState {
		if s.Error == "" {
			return s
		}
		next := *s
		next.Error = ""
		return &next
	}))
}

func (c *Container) rejectSession(ctx context.Context, token uint64, op string, err error, fallback string, dropUser bool) error {
	msg := errorMessage(err, fallback)
	if !c.settle(opSession, token, op+".rejected", withSession(func(s *SessionState) *SessionState {
		next := s.rejected(msg)
		if dropUser && !next.IsAuthenticated {
			next.User = nil
		}
		return next
	})) {
		return ErrSuperseded
	}
	c.reject(ctx, op, err)
	return err
}

// invalid registra un fallo de validación sin tocar la red.
func (c *Container) invalid(kind opKind, op, msg string) error {
	return c.refuse(kind, op, domain.ErrInvalidInput, msg)
}

// refuse rechaza la operación antes de la red. Cuenta como la última petición de su tipo: una
// respuesta anterior en vuelo ya no puede pisar el mensaje.
func (c *Container) refuse(kind opKind, op string, cause error, msg string) error {
	c.fence(kind, op+".refused", withSession(func(s *SessionState) *SessionState {
		return s.rejected(msg)
	}))
	return fmt.Errorf("%w: %s", cause, msg)
}

func (c *Container) saveTokens(ctx context.Context, access, refresh string) error {
	if c.creds == nil {
		return nil
	}
	if access == "" {
		return errors.New("el servidor no devolvió access token")
	}
	if err := c.creds.Set(ctx, ports.AccessTokenKey, access); err != nil {
		return fmt.Errorf("guardar access token: %w", err)
	}
	if refresh != "" {
		if err := c.creds.Set(ctx, ports.RefreshTokenKey, refresh); err != nil {
			return fmt.Errorf("guardar refresh token: %w", err)
		}
	}
	return nil
}

func (c *Container) clearTokens(ctx context.Context) {
	if c.creds == nil {
		return
	}
	for _, key := range []string{ports.AccessTokenKey, ports.RefreshTokenKey} {
		if err := c.creds.Delete(ctx, key); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("borrar token")
		}
	}
}

func validateLogin(email, password string) string {
	if !govalidator.IsEmail(strings.TrimSpace(email)) {
		return "Email inválido"
	}
	if password == "" {
		return "La contraseña es requerida"
	}
	return ""
}

func validateRegister(name, email, password string) string {
	if strings.TrimSpace(name) == "" {
		return "El nombre es requerido"
	}
	return validateLogin(email, password)
}
