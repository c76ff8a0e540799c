package state_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stellar-burgers/internal/application/dto"
	"github.com/jhoicas/stellar-burgers/internal/application/ports"
	"github.com/jhoicas/stellar-burgers/internal/application/state"
	"github.com/jhoicas/stellar-burgers/internal/domain"
	"github.com/jhoicas/stellar-burgers/internal/domain/entity"
)

func okLogin(_ context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	return &dto.AuthResponse{
		Success:      true,
		User:         &entity.User{Email: in.Email, Name: "Ana"},
		AccessToken:  "Bearer access-1",
		RefreshToken: "refresh-1",
	}, nil
}

func okUser(context.Context) (*entity.User, error) {
	u := *testUser
	return &u, nil
}

// authenticatedContainer contenedor con sesión iniciada y tokens guardados.
func authenticatedContainer(t *testing.T, api *fakeAPI, opts ...state.Option) (*state.Container, *memCreds) {
	t.Helper()
	if api.login == nil {
		api.login = okLogin
	}
	if api.getUser == nil {
		api.getUser = okUser
	}
	creds := newMemCreds()
	c := newContainer(api, creds, opts...)
	require.NoError(t, c.Login(context.Background(), testUser.Email, "secreto"))
	return c, creds
}

// ──────────────────────────────────────────────────────────────────────────────
// Login / Register
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_GuardaTokensYVerificaPerfil(t *testing.T) {
	api := &fakeAPI{}
	c, creds := authenticatedContainer(t, api)

	s := c.Snapshot().Session
	assert.True(t, s.IsAuthenticated)
	assert.False(t, s.IsLoading)
	assert.Equal(t, state.PhaseAuthenticated, s.Phase)
	require.NotNil(t, s.User)
	assert.Equal(t, testUser.Email, s.User.Email)
	assert.Empty(t, s.Error)

	assert.True(t, creds.has(ports.AccessTokenKey))
	assert.True(t, creds.has(ports.RefreshTokenKey))
	assert.Equal(t, 1, api.count("getUser"), "el perfil se confirma con el servidor")
}

func TestLogin_PasaPorLasFasesEnOrden(t *testing.T) {
	api := &fakeAPI{login: okLogin, getUser: okUser}
	c := newContainer(api, newMemCreds())

	var phases []state.SessionPhase
	unsubscribe := c.Subscribe(func(r *state.RootState) {
		if len(phases) == 0 || phases[len(phases)-1] != r.Session.Phase {
			phases = append(phases, r.Session.Phase)
		}
	})
	defer unsubscribe()

	require.NoError(t, c.Login(context.Background(), "ana@example.com", "secreto"))
	assert.Equal(t, []state.SessionPhase{state.PhaseLoggingIn, state.PhaseVerifying, state.PhaseAuthenticated}, phases)
}

func TestLogin_CredencialesRechazadas(t *testing.T) {
	api := &fakeAPI{login: func(context.Context, dto.LoginRequest) (*dto.AuthResponse, error) {
		return nil, &apiError{msg: "email or password are incorrect"}
	}}
	creds := newMemCreds()
	c := newContainer(api, creds)

	err := c.Login(context.Background(), "ana@example.com", "mal")
	require.Error(t, err)

	s := c.Snapshot().Session
	assert.False(t, s.IsAuthenticated)
	assert.False(t, s.IsLoading)
	assert.Equal(t, state.PhaseError, s.Phase)
	assert.Equal(t, "email or password are incorrect", s.Error)
	assert.False(t, creds.has(ports.AccessTokenKey))
	assert.Zero(t, api.count("getUser"))
}

func TestLogin_VerificacionFallaBorraTokens(t *testing.T) {
	api := &fakeAPI{
		login: okLogin,
		getUser: func(context.Context) (*entity.User, error) {
			return nil, errors.New("boom")
		},
	}
	creds := newMemCreds()
	c := newContainer(api, creds)

	require.Error(t, c.Login(context.Background(), "ana@example.com", "secreto"))

	s := c.Snapshot().Session
	assert.False(t, s.IsAuthenticated)
	assert.Nil(t, s.User, "el perfil provisional se descarta")
	assert.Equal(t, state.PhaseError, s.Phase)
	assert.False(t, creds.has(ports.AccessTokenKey))
	assert.False(t, creds.has(ports.RefreshTokenKey))
}

func TestLogin_FalloAlGuardarTokens(t *testing.T) {
	api := &fakeAPI{login: okLogin, getUser: okUser}
	creds := newMemCreds()
	creds.setErr = errors.New("disco lleno")
	c := newContainer(api, creds)

	err := c.Login(context.Background(), "ana@example.com", "secreto")
	require.Error(t, err)
	assert.False(t, c.Snapshot().Session.IsAuthenticated)
	assert.Zero(t, api.count("getUser"))
}

func TestLogin_ValidacionLocalSinRed(t *testing.T) {
	api := &fakeAPI{}
	c := newContainer(api, nil)

	err := c.Login(context.Background(), "no-es-email", "secreto")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "Email inválido", c.Snapshot().Session.Error)

	err = c.Login(context.Background(), "ana@example.com", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, api.count("login"))
}

func TestRegister_MismoCaminoQueLogin(t *testing.T) {
	api := &fakeAPI{
		register: func(_ context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
			return &dto.AuthResponse{
				Success:     true,
				User:        &entity.User{Email: in.Email, Name: in.Name},
				AccessToken: "Bearer nuevo",
			}, nil
		},
		getUser: func(context.Context) (*entity.User, error) {
			return &entity.User{Email: "eva@example.com", Name: "Eva"}, nil
		},
	}
	creds := newMemCreds()
	c := newContainer(api, creds)

	require.NoError(t, c.Register(context.Background(), " Eva ", "eva@example.com", "secreto"))
	s := c.Snapshot().Session
	assert.True(t, s.IsAuthenticated)
	assert.Equal(t, "Eva", state.UserName(s))
	assert.Equal(t, "eva@example.com", state.UserEmail(s))
	assert.True(t, creds.has(ports.AccessTokenKey))
	assert.False(t, creds.has(ports.RefreshTokenKey), "sin refresh token no se guarda nada")

	err := newContainer(api, nil).Register(context.Background(), "", "eva@example.com", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Una respuesta de login que llega después de un logout no debe revivir la sesión.
func TestLogin_RespuestaTardiaTrasLogoutSeDescarta(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	api := &fakeAPI{
		login: func(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
			close(started)
			<-release
			return okLogin(ctx, in)
		},
		getUser: okUser,
		logout:  func(context.Context) error { return nil },
	}
	creds := newMemCreds()
	c := newContainer(api, creds)

	done := make(chan error, 1)
	go func() { done <- c.Login(context.Background(), "ana@example.com", "secreto") }()
	<-started
	require.NoError(t, c.Logout(context.Background()))
	close(release)

	assert.ErrorIs(t, <-done, state.ErrSuperseded)
	s := c.Snapshot().Session
	assert.False(t, s.IsAuthenticated)
	assert.False(t, creds.has(ports.AccessTokenKey), "los tokens tardíos no se guardan")
}

func TestLogin_FalloTardioConservaTokensDelLoginNuevo(t *testing.T) {
	started, release := make(chan struct{}), make(chan struct{})
	first := make(chan struct{}, 1)
	first <- struct{}{}
	api := &fakeAPI{
		login: func(_ context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
			return &dto.AuthResponse{
				Success:      true,
				User:         &entity.User{Email: in.Email, Name: "Ana"},
				AccessToken:  "Bearer " + in.Email,
				RefreshToken: "refresh-" + in.Email,
			}, nil
		},
		getUser: func(ctx context.Context) (*entity.User, error) {
			select {
			case <-first:
				close(started)
				<-release
				return nil, &apiError{msg: "jwt malformed"}
			default:
				return okUser(ctx)
			}
		},
	}
	creds := newMemCreds()
	c := newContainer(api, creds)
	ctx := context.Background()

	doneA := make(chan error, 1)
	go func() { doneA <- c.Login(ctx, "a@example.com", "secreto") }()
	<-started
	require.NoError(t, c.Login(ctx, "b@example.com", "secreto"))
	close(release)

	assert.ErrorIs(t, <-doneA, state.ErrSuperseded)
	assert.True(t, c.Snapshot().Session.IsAuthenticated)
	access, ok, _ := creds.Get(ctx, ports.AccessTokenKey)
	require.True(t, ok, "el fallo del login viejo no borra los tokens del nuevo")
	assert.Equal(t, "Bearer b@example.com", access)
	refresh, _, _ := creds.Get(ctx, ports.RefreshTokenKey)
	assert.Equal(t, "refresh-b@example.com", refresh)
}

func TestLogout_TardioConservaTokensDelLoginNuevo(t *testing.T) {
	started, release := make(chan struct{}), make(chan struct{})
	api := &fakeAPI{logout: func(context.Context) error {
		close(started)
		<-release
		return nil
	}}
	c, creds := authenticatedContainer(t, api)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- c.Logout(ctx) }()
	<-started
	require.NoError(t, c.Login(ctx, testUser.Email, "secreto"))
	close(release)

	assert.ErrorIs(t, <-done, state.ErrSuperseded)
	assert.True(t, c.Snapshot().Session.IsAuthenticated)
	assert.True(t, creds.has(ports.AccessTokenKey))
	assert.True(t, creds.has(ports.RefreshTokenKey))
}

func TestLogin_ValidacionDescartaLoginEnVuelo(t *testing.T) {
	started, release := make(chan struct{}), make(chan struct{})
	api := &fakeAPI{
		login: func(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
			close(started)
			<-release
			return okLogin(ctx, in)
		},
		getUser: okUser,
	}
	creds := newMemCreds()
	c := newContainer(api, creds)

	done := make(chan error, 1)
	go func() { done <- c.Login(context.Background(), "ana@example.com", "secreto") }()
	<-started
	assert.ErrorIs(t, c.Login(context.Background(), "no-es-email", "secreto"), domain.ErrInvalidInput)
	close(release)

	assert.ErrorIs(t, <-done, state.ErrSuperseded)
	s := c.Snapshot().Session
	assert.Equal(t, "Email inválido", s.Error)
	assert.False(t, s.IsAuthenticated)
	assert.False(t, s.IsLoading)
	assert.False(t, creds.has(ports.AccessTokenKey))
}

// ──────────────────────────────────────────────────────────────────────────────
// CheckAuth
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckAuth_Exitoso(t *testing.T) {
	c := newContainer(&fakeAPI{getUser: okUser}, nil)
	require.NoError(t, c.CheckAuth(context.Background()))

	s := c.Snapshot().Session
	assert.True(t, s.IsAuthenticated)
	assert.True(t, s.AuthChecked)
	assert.Equal(t, testUser.Name, s.User.Name)
}

func TestCheckAuth_RechazadoMarcaVerificado(t *testing.T) {
	c := newContainer(&fakeAPI{getUser: func(context.Context) (*entity.User, error) {
		return nil, &apiError{msg: "jwt malformed"}
	}}, nil)

	require.Error(t, c.CheckAuth(context.Background()))
	s := c.Snapshot().Session
	assert.False(t, s.IsAuthenticated)
	assert.False(t, s.IsLoading)
	assert.True(t, s.AuthChecked, "los guards no pueden quedar esperando")
	assert.Equal(t, "jwt malformed", s.Error)

	status := c.Selectors().AuthStatus(c.Snapshot())
	assert.Equal(t, state.AuthStatus{IsAuthenticated: false, AuthChecked: true}, status)
}

func TestCheckAuth_RechazoNoDesautenticaSesionActiva(t *testing.T) {
	api := &fakeAPI{}
	c, _ := authenticatedContainer(t, api)
	api.getUser = func(context.Context) (*entity.User, error) { return nil, errors.New("red caída") }

	require.Error(t, c.CheckAuth(context.Background()))
	s := c.Snapshot().Session
	assert.True(t, s.IsAuthenticated, "rejected no toca IsAuthenticated")
	assert.Equal(t, state.PhaseAuthenticated, s.Phase)
}

func TestMarkAuthChecked_EsMonotonico(t *testing.T) {
	c := newContainer(&fakeAPI{}, nil)
	c.MarkAuthChecked()
	first := c.Snapshot()
	assert.True(t, first.Session.AuthChecked)

	c.MarkAuthChecked()
	assert.Same(t, first, c.Snapshot())
}

// ──────────────────────────────────────────────────────────────────────────────
// Logout / UpdateUser
// ──────────────────────────────────────────────────────────────────────────────

func TestLogout_LimpiaSesionYTokens(t *testing.T) {
	api := &fakeAPI{logout: func(context.Context) error { return nil }}
	c, creds := authenticatedContainer(t, api)

	require.NoError(t, c.Logout(context.Background()))
	s := c.Snapshot().Session
	assert.False(t, s.IsAuthenticated)
	assert.Nil(t, s.User)
	assert.Equal(t, state.PhaseAnonymous, s.Phase)
	assert.False(t, creds.has(ports.AccessTokenKey))
	assert.False(t, creds.has(ports.RefreshTokenKey))
}

func TestLogout_FalloConservaSesion(t *testing.T) {
	api := &fakeAPI{logout: func(context.Context) error { return &apiError{msg: "Token is invalid"} }}
	c, creds := authenticatedContainer(t, api)

	require.Error(t, c.Logout(context.Background()))
	s := c.Snapshot().Session
	assert.True(t, s.IsAuthenticated)
	assert.Equal(t, "Token is invalid", s.Error)
	assert.True(t, creds.has(ports.AccessTokenKey))
}

func TestUpdateUser_ReemplazaPerfil(t *testing.T) {
	var sent dto.UpdateUserRequest
	api := &fakeAPI{updateUser: func(_ context.Context, in dto.UpdateUserRequest) (*entity.User, error) {
		sent = in
		return &entity.User{Email: testUser.Email, Name: in.Name}, nil
	}}
	c, _ := authenticatedContainer(t, api)

	require.NoError(t, c.UpdateUser(context.Background(), dto.UpdateUserRequest{Name: "  Ana María "}))
	assert.Equal(t, "Ana María", sent.Name)
	assert.Empty(t, sent.Email)

	s := c.Snapshot().Session
	assert.Equal(t, "Ana María", s.User.Name)
	assert.True(t, s.IsAuthenticated)
	assert.False(t, s.IsLoading)

	err := c.UpdateUser(context.Background(), dto.UpdateUserRequest{Email: "roto"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 1, api.count("updateUser"))
}

func TestClearSessionError(t *testing.T) {
	c := newContainer(&fakeAPI{}, nil)
	_ = c.Login(context.Background(), "x", "y")
	require.NotEmpty(t, c.Snapshot().Session.Error)

	c.ClearSessionError()
	assert.Empty(t, c.Snapshot().Session.Error)

	before := c.Snapshot()
	c.ClearSessionError()
	assert.Same(t, before, c.Snapshot())
}

// ──────────────────────────────────────────────────────────────────────────────
// Recuperación de contraseña
// ──────────────────────────────────────────────────────────────────────────────

func TestPasswordReset_Flujo(t *testing.T) {
	var code string
	api := &fakeAPI{
		forgotPassword: func(context.Context, dto.ForgotPasswordRequest) error { return nil },
		resetPassword: func(_ context.Context, in dto.ResetPasswordRequest) error {
			code = in.Token
			return nil
		},
	}
	c := newContainer(api, nil)
	ctx := context.Background()

	err := c.ResetPassword(ctx, "nueva", "123")
	assert.ErrorIs(t, err, domain.ErrForbidden, "sin solicitar el correo antes no se puede resetear")
	assert.Zero(t, api.count("resetPassword"))
	assert.Equal(t, "Primero solicite el correo de recuperación", c.Snapshot().Session.Error)

	require.NoError(t, c.RequestPasswordReset(ctx, "ana@example.com"))
	assert.True(t, c.Snapshot().Session.PasswordResetRequested)

	assert.ErrorIs(t, c.ResetPassword(ctx, "", "123"), domain.ErrInvalidInput)

	require.NoError(t, c.ResetPassword(ctx, "nueva", " 123 "))
	assert.Equal(t, "123", code)
	assert.False(t, c.Snapshot().Session.PasswordResetRequested)
}

func TestRequestPasswordReset_EmailInvalido(t *testing.T) {
	api := &fakeAPI{}
	c := newContainer(api, nil)
	assert.ErrorIs(t, c.RequestPasswordReset(context.Background(), "nope"), domain.ErrInvalidInput)
	assert.Zero(t, api.count("forgotPassword"))
}
