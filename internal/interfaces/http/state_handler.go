package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stellar-burgers/internal/application/dto"
	"github.com/jhoicas/stellar-burgers/internal/application/state"
)

// StateHandler snapshot completo y ventanas modales.
type StateHandler struct {
	st *state.Container
}

// NewStateHandler construye el handler.
func NewStateHandler(st *state.Container) *StateHandler {
	return &StateHandler{st: st}
}

// Snapshot godoc
// @Summary      Snapshot de los cinco stores
// @Tags         state
// @Produce      json
// @Success      200  {object}  state.RootState
// @Router       /api/state [get]
func (h *StateHandler) Snapshot(c *fiber.Ctx) error {
	return c.JSON(h.st.Snapshot())
}

// Modal godoc
// @Summary      Abrir o cerrar una ventana modal
// @Tags         state
// @Produce      json
// @Param        name    path  string  true  "details | order"
// @Param        action  path  string  true  "open | close"
// @Success      200  {object}  state.ModalState
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/modals/{name}/{action} [post]
func (h *StateHandler) Modal(c *fiber.Ctx) error {
	open := c.Params("action") == "open"
	if !open && c.Params("action") != "close" {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "acción desconocida"})
	}
	switch c.Params("name") {
	case "details":
		if open {
			h.st.OpenDetailsModal()
		} else {
			h.st.CloseDetailsModal()
		}
	case "order":
		if open {
			h.st.OpenOrderModal()
		} else {
			h.st.CloseOrderModal()
		}
	default:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "modal desconocido"})
	}
	return c.JSON(h.st.Snapshot().Modal)
}
