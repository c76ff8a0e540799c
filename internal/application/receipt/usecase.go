package receipt

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/stellar-burgers/internal/application/dto"
	"github.com/jhoicas/stellar-burgers/internal/application/ports"
	"github.com/jhoicas/stellar-burgers/internal/application/state"
	"github.com/jhoicas/stellar-burgers/internal/domain"
	"github.com/jhoicas/stellar-burgers/internal/domain/entity"
)

// UseCase arma el comprobante de un pedido (ingredientes agrupados y total contra el catálogo)
// y mantiene el historial local de pedidos enviados.
type UseCase struct {
	renderer ports.ReceiptRenderer
	archive  ports.OrderArchive
	feedURL  string
	now      func() time.Time
}

// NewUseCase construye el caso de uso. archive es opcional; feedURL es la base pública para el QR
// (p. ej. "https://stellar-burgers.example/feed"), vacío lo omite.
func NewUseCase(renderer ports.ReceiptRenderer, archive ports.OrderArchive, feedURL string) *UseCase {
	return &UseCase{
		renderer: renderer,
		archive:  archive,
		feedURL:  strings.TrimRight(feedURL, "/"),
		now:      time.Now,
	}
}

// Build construye el comprobante. Sin pedido devuelve ErrNotFound; sin catálogo ErrConflict
// (no hay precios contra los que calcular).
func (uc *UseCase) Build(order *entity.Order, catalog []entity.Ingredient, user *entity.User) (dto.Receipt, error) {
	if order == nil {
		return dto.Receipt{}, domain.ErrNotFound
	}
	details := state.BuildOrderDetails(order, catalog)
	if details == nil {
		return dto.Receipt{}, fmt.Errorf("%w: el catálogo no está cargado", domain.ErrConflict)
	}

	r := dto.Receipt{
		Number:  order.Number,
		Name:    order.Name,
		Status:  StatusLabel(order.Status),
		Date:    state.FormatOrderDate(order.CreatedAt, uc.now()),
		Lines:   make([]dto.ReceiptLine, 0, len(details.Lines)),
		Total:   state.FormatPrice(details.Total),
		Missing: details.Missing,
	}
	if user != nil {
		r.Customer = user.Name
	}
	if uc.feedURL != "" {
		r.Link = uc.feedURL + "/" + strconv.Itoa(order.Number)
	}
	for _, l := range details.Lines {
		r.Lines = append(r.Lines, dto.ReceiptLine{
			Name:      l.Ingredient.Name,
			Type:      string(l.Ingredient.Type),
			Count:     l.Count,
			UnitPrice: state.FormatPrice(l.Ingredient.Price),
			Subtotal:  state.FormatPrice(l.Subtotal),
		})
	}
	return r, nil
}

// Write arma el comprobante y lo renderiza en w.
func (uc *UseCase) Write(w io.Writer, order *entity.Order, catalog []entity.Ingredient, user *entity.User) error {
	r, err := uc.Build(order, catalog, user)
	if err != nil {
		return err
	}
	return uc.renderer.Render(w, r)
}

// Archive registra un pedido recién enviado con su total. Sin historial configurado no hace nada.
func (uc *UseCase) Archive(ctx context.Context, order *entity.Order, catalog []entity.Ingredient) error {
	if uc.archive == nil || order == nil {
		return nil
	}
	placed := entity.PlacedOrder{
		Number:      order.Number,
		Name:        order.Name,
		Ingredients: order.Ingredients,
		PlacedAt:    uc.now(),
	}
	if details := state.BuildOrderDetails(order, catalog); details != nil {
		placed.Total = details.Total
	}
	if err := uc.archive.Save(ctx, placed); err != nil {
		return fmt.Errorf("receipt.Archive: %w", err)
	}
	return nil
}

// History pedidos enviados desde este cliente, del más reciente al más viejo.
func (uc *UseCase) History(ctx context.Context) ([]entity.PlacedOrder, error) {
	if uc.archive == nil {
		return []entity.PlacedOrder{}, nil
	}
	return uc.archive.List(ctx)
}

// StatusLabel texto del estado como lo muestra la tarjeta del pedido.
func StatusLabel(s entity.OrderStatus) string {
	switch s {
	case entity.OrderDone:
		return "Listo"
	case entity.OrderPending:
		return "En preparación"
	case entity.OrderCreated:
		return "Creado"
	default:
		return string(s)
	}
}
