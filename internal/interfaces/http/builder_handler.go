package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stellar-burgers/internal/application/dto"
	"github.com/jhoicas/stellar-burgers/internal/application/state"
)

// BuilderHandler catálogo de ingredientes y constructor de hamburguesas.
type BuilderHandler struct {
	st *state.Container
}

// NewBuilderHandler construye el handler.
func NewBuilderHandler(st *state.Container) *BuilderHandler {
	return &BuilderHandler{st: st}
}

// Ingredients godoc
// @Summary      Catálogo de ingredientes
// @Tags         ingredients
// @Produce      json
// @Success      200  {object}  state.CatalogState
// @Router       /api/ingredients [get]
func (h *BuilderHandler) Ingredients(c *fiber.Ctx) error {
	return c.JSON(h.st.Snapshot().Catalog)
}

// RefreshIngredients vuelve a pedir el catálogo al API.
// POST /api/ingredients/refresh
func (h *BuilderHandler) RefreshIngredients(c *fiber.Ctx) error {
	if err := h.st.FetchIngredients(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.st.Snapshot().Catalog)
}

func (h *BuilderHandler) builder(c *fiber.Ctx, status int) error {
	snap := h.st.Snapshot()
	sel := h.st.Selectors()
	price := sel.Price(snap)
	return c.Status(status).JSON(dto.BuilderResponse{
		Bun:            snap.Builder.Bun,
		Fillings:       snap.Builder.Fillings,
		Price:          price,
		PriceFormatted: state.FormatPrice(price),
		Counts:         sel.IngredientCounts(snap),
	})
}

// Get godoc
// @Summary      Constructor actual con precio y contadores
// @Tags         builder
// @Produce      json
// @Success      200  {object}  dto.BuilderResponse
// @Router       /api/builder [get]
func (h *BuilderHandler) Get(c *fiber.Ctx) error {
	return h.builder(c, fiber.StatusOK)
}

// Add godoc
// @Summary      Agregar ingrediente (un pan reemplaza al anterior)
// @Tags         builder
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddIngredientRequest  true  "ingredient_id"
// @Success      201   {object}  dto.AddIngredientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/builder/ingredients [post]
func (h *BuilderHandler) Add(c *fiber.Ctx) error {
	var in dto.AddIngredientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.IngredientID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "ingredient_id es requerido"})
	}
	placementID, err := h.st.AddIngredientByID(in.IngredientID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AddIngredientResponse{PlacementID: placementID})
}

// Remove godoc
// @Summary      Quitar un relleno por su id de colocación
// @Tags         builder
// @Produce      json
// @Param        placementId  path  string  true  "id de colocación"
// @Success      200  {object}  dto.BuilderResponse
// @Router       /api/builder/ingredients/{placementId} [delete]
func (h *BuilderHandler) Remove(c *fiber.Ctx) error {
	h.st.RemoveIngredient(c.Params("placementId"))
	return h.builder(c, fiber.StatusOK)
}

// Move godoc
// @Summary      Reubicar un relleno (índices fuera de rango no hacen nada)
// @Tags         builder
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MoveIngredientRequest  true  "from, to"
// @Success      200   {object}  dto.BuilderResponse
// @Router       /api/builder/move [post]
func (h *BuilderHandler) Move(c *fiber.Ctx) error {
	var in dto.MoveIngredientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	h.st.MoveIngredient(in.From, in.To)
	return h.builder(c, fiber.StatusOK)
}

// Clear vacía el constructor.
// DELETE /api/builder
func (h *BuilderHandler) Clear(c *fiber.Ctx) error {
	h.st.ClearBuilder()
	return h.builder(c, fiber.StatusOK)
}
