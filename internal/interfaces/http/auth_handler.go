package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stellar-burgers/internal/application/dto"
	"github.com/jhoicas/stellar-burgers/internal/application/state"
)

// AuthHandler maneja login, registro, perfil y recuperación de contraseña.
type AuthHandler struct {
	st *state.Container
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(st *state.Container) *AuthHandler {
	return &AuthHandler{st: st}
}

// session responde con el store de sesión tal como quedó.
func (h *AuthHandler) session(c *fiber.Ctx, status int) error {
	return c.Status(status).JSON(h.st.Snapshot().Session)
}

// Status godoc
// @Summary      Estado de la sesión
// @Tags         auth
// @Produce      json
// @Success      200  {object}  state.SessionState
// @Router       /api/auth/session [get]
func (h *AuthHandler) Status(c *fiber.Ctx) error {
	return h.session(c, fiber.StatusOK)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginBody  true  "email, password"
// @Success      200   {object}  state.SessionState
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginBody
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.st.Login(c.UserContext(), in.Email, in.Password); err != nil {
		return respondError(c, err)
	}
	return h.session(c, fiber.StatusOK)
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterBody  true  "name, email, password"
// @Success      201   {object}  state.SessionState
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterBody
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.st.Register(c.UserContext(), in.Name, in.Email, in.Password); err != nil {
		return respondError(c, err)
	}
	return h.session(c, fiber.StatusCreated)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Produce      json
// @Success      200  {object}  state.SessionState
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.st.Logout(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	return h.session(c, fiber.StatusOK)
}

// ClearError borra el mensaje de error que muestra el formulario.
// DELETE /api/auth/error
func (h *AuthHandler) ClearError(c *fiber.Ctx) error {
	h.st.ClearSessionError()
	return c.SendStatus(fiber.StatusNoContent)
}

// Profile godoc
// @Summary      Perfil del usuario
// @Tags         profile
// @Produce      json
// @Success      200  {object}  entity.User
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/profile [get]
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	return c.JSON(h.st.Snapshot().Session.User)
}

// UpdateProfile godoc
// @Summary      Actualizar perfil
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateUserRequest  true  "campos a cambiar"
// @Success      200   {object}  entity.User
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/profile [patch]
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.st.UpdateUser(c.UserContext(), in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.st.Snapshot().Session.User)
}

// ForgotPassword godoc
// @Summary      Solicitar correo de recuperación
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ForgotPasswordRequest  true  "email"
// @Success      202   {object}  state.SessionState
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in dto.ForgotPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.st.RequestPasswordReset(c.UserContext(), in.Email); err != nil {
		return respondError(c, err)
	}
	return h.session(c, fiber.StatusAccepted)
}

// ResetPassword godoc
// @Summary      Fijar nueva contraseña con el código del correo
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResetPasswordRequest  true  "password, token"
// @Success      200   {object}  state.SessionState
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.st.ResetPassword(c.UserContext(), in.Password, in.Token); err != nil {
		return respondError(c, err)
	}
	return h.session(c, fiber.StatusOK)
}
