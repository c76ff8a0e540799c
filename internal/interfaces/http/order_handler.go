package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stellar-burgers/internal/application/dto"
	"github.com/jhoicas/stellar-burgers/internal/application/receipt"
	"github.com/jhoicas/stellar-burgers/internal/application/state"
	"github.com/jhoicas/stellar-burgers/internal/domain/entity"
	"github.com/jhoicas/stellar-burgers/pkg/logger"
)

// OrderHandler envío de pedidos, feed público, historial y comprobantes.
type OrderHandler struct {
	st       *state.Container
	receipts *receipt.UseCase
	log      *logger.Logger
	now      func() time.Time
}

// NewOrderHandler construye el handler. receipts puede ser nil (sin comprobantes ni historial local).
func NewOrderHandler(st *state.Container, receipts *receipt.UseCase, log *logger.Logger) *OrderHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &OrderHandler{st: st, receipts: receipts, log: log, now: time.Now}
}

// Place godoc
// @Summary      Realizar pedido con el constructor actual
// @Tags         orders
// @Produce      json
// @Success      201  {object}  dto.PlaceOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	order, err := h.st.PlaceOrder(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	if h.receipts != nil {
		if err := h.receipts.Archive(c.UserContext(), order, h.st.Snapshot().Catalog.Items); err != nil {
			h.log.Warn().Err(err).Int("number", order.Number).Msg("no se pudo archivar el pedido")
		}
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PlaceOrderResponse{Number: order.Number, Name: order.Name})
}

// Dismiss cierra la confirmación del pedido y vacía el constructor.
// POST /api/orders/confirmation/dismiss
func (h *OrderHandler) Dismiss(c *fiber.Ctx) error {
	h.st.DismissOrderConfirmation()
	return c.SendStatus(fiber.StatusNoContent)
}

// Feed godoc
// @Summary      Feed público (con refresh=true lo vuelve a pedir; status filtra done|pending)
// @Tags         feed
// @Produce      json
// @Param        refresh  query  bool    false  "volver a pedir el feed"
// @Param        status   query  string  false  "done | pending | created"
// @Success      200  {array}   entity.Order
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/orders/feed [get]
func (h *OrderHandler) Feed(c *fiber.Ctx) error {
	if c.QueryBool("refresh") {
		if err := h.st.FetchPublicFeed(c.UserContext()); err != nil {
			return respondError(c, err)
		}
	}
	return h.list(c, state.PublicList)
}

// Stats godoc
// @Summary      Tablero del feed: números listos y en preparación, totales
// @Tags         feed
// @Produce      json
// @Success      200  {object}  state.FeedStats
// @Router       /api/orders/feed/stats [get]
func (h *OrderHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(h.st.Selectors().FeedStats(h.st.Snapshot()))
}

// ProfileOrders godoc
// @Summary      Historial de pedidos del usuario
// @Tags         profile
// @Produce      json
// @Param        status  query  string  false  "done | pending | created"
// @Success      200  {array}   entity.Order
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/profile/orders [get]
func (h *OrderHandler) ProfileOrders(c *fiber.Ctx) error {
	if err := h.st.FetchUserOrders(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	return h.list(c, state.UserList)
}

func (h *OrderHandler) list(c *fiber.Ctx, list state.OrderList) error {
	snap := h.st.Snapshot()
	if raw := c.Query("status"); raw != "" {
		status := entity.OrderStatus(raw)
		if !status.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status debe ser done, pending o created"})
		}
		return c.JSON(h.st.Selectors().OrdersByStatus(snap, list, status))
	}
	if list == state.UserList {
		return c.JSON(snap.Feed.UserOrders)
	}
	return c.JSON(snap.Feed.PublicOrders)
}

// Details godoc
// @Summary      Detalle de un pedido por número (feed, historial o API)
// @Tags         orders
// @Produce      json
// @Param        number  path  int  true  "número de pedido"
// @Success      200  {object}  dto.OrderDetailsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{number} [get]
func (h *OrderHandler) Details(c *fiber.Ctx) error {
	order, err := h.resolve(c)
	if err != nil || order == nil {
		return err
	}
	out := dto.OrderDetailsResponse{
		Number: order.Number,
		Name:   order.Name,
		Status: order.Status,
		Date:   state.FormatOrderDate(order.CreatedAt, h.now()),
		Lines:  []dto.OrderLineDTO{},
	}
	if details := state.BuildOrderDetails(order, h.st.Snapshot().Catalog.Items); details != nil {
		for _, l := range details.Lines {
			out.Lines = append(out.Lines, dto.OrderLineDTO{
				IngredientID: l.Ingredient.ID,
				Name:         l.Ingredient.Name,
				Image:        l.Ingredient.Image,
				Count:        l.Count,
				Price:        l.Ingredient.Price,
			})
		}
		out.Total = details.Total
		out.TotalFormatted = state.FormatPrice(details.Total)
	}
	return c.JSON(out)
}

// ClearCurrent olvida el pedido abierto en el modal de detalle.
// DELETE /api/orders/current
func (h *OrderHandler) ClearCurrent(c *fiber.Ctx) error {
	h.st.ClearCurrentOrder()
	return c.SendStatus(fiber.StatusNoContent)
}

// Receipt godoc
// @Summary      Comprobante PDF de un pedido
// @Tags         orders
// @Produce      application/pdf
// @Param        number  path  int  true  "número de pedido"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{number}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	if h.receipts == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NO_RECEIPTS", Message: "comprobantes deshabilitados"})
	}
	order, err := h.resolve(c)
	if err != nil || order == nil {
		return err
	}
	snap := h.st.Snapshot()
	var buf bytes.Buffer
	if err := h.receipts.Write(&buf, order, snap.Catalog.Items, snap.Session.User); err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="pedido-%d.pdf"`, order.Number))
	return c.Send(buf.Bytes())
}

// Archive godoc
// @Summary      Pedidos enviados desde este cliente
// @Tags         orders
// @Produce      json
// @Success      200  {array}   entity.PlacedOrder
// @Router       /api/orders/archive [get]
func (h *OrderHandler) Archive(c *fiber.Ctx) error {
	if h.receipts == nil {
		return c.JSON([]entity.PlacedOrder{})
	}
	history, err := h.receipts.History(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(history)
}

// resolve fija el pedido actual por el número de la ruta. Si no existe ya respondió 404 y
// devuelve (nil, nil).
func (h *OrderHandler) resolve(c *fiber.Ctx) (*entity.Order, error) {
	number := c.Params("number")
	order, err := h.st.ResolveOrder(c.UserContext(), number)
	if err != nil {
		return nil, respondError(c, err)
	}
	if order == nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "pedido " + number + " no encontrado"})
	}
	return order, nil
}
