// Package pdf genera el comprobante PDF de un pedido.
//
// Layout de la página A5:
//
//	┌───────────────────────────────────────────────┐
//	│  HEADER: Stellar Burgers │ N° pedido + fecha   │
//	│  ───────────────────────────────────────────  │
//	│  Nombre de la hamburguesa + estado + cliente   │
//	│  ───────────────────────────────────────────  │
//	│  TABLA: Cant | Ingrediente | P.Unit | Subtotal │
//	│  ───────────────────────────────────────────  │
//	│  TOTAL                                         │
//	│  QR con el enlace al pedido                    │
//	└───────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/stellar-burgers/internal/application/dto"
	"github.com/jhoicas/stellar-burgers/internal/application/ports"
)

var _ ports.ReceiptRenderer = (*MarotoReceiptRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 76, Green: 76, Blue: 255}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoReceiptRenderer implementa ports.ReceiptRenderer usando Maroto v2.
type MarotoReceiptRenderer struct {
	brand string
}

// NewMarotoReceiptRenderer construye el renderer. brand va en el encabezado y como autor del PDF.
func NewMarotoReceiptRenderer(brand string) *MarotoReceiptRenderer {
	if brand == "" {
		brand = "Stellar Burgers"
	}
	return &MarotoReceiptRenderer{brand: brand}
}

// Render genera el PDF y lo escribe en w.
func (g *MarotoReceiptRenderer) Render(w io.Writer, r dto.Receipt) error {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Pedido #%06d", r.Number), true).
		WithAuthor(g.brand, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(burgerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(r.Lines)...)
	if len(r.Missing) > 0 {
		m.AddRows(missingRow(r.Missing))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(r.Total))

	if r.Link != "" {
		m.AddRows(line.NewRow(3))
		m.AddRows(qrRow(r.Link))
	}

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("pdf: generar documento: %w", err)
	}
	if _, err := w.Write(doc.GetBytes()); err != nil {
		return fmt.Errorf("pdf: escribir documento: %w", err)
	}
	return nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoReceiptRenderer) headerRow(r dto.Receipt) core.Row {
	return row.New(16).Add(
		col.New(6).Add(
			text.New(g.brand, props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(6).Add(
			text.New(orderNumber(r.Number), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New(r.Date, props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func burgerRow(r dto.Receipt) core.Row {
	sub := "Estado: " + nonEmpty(r.Status, "—")
	if r.Customer != "" {
		sub += "   |   Cliente: " + r.Customer
	}
	return row.New(13).Add(
		col.New(12).Add(
			text.New(nonEmpty(r.Name, "Hamburguesa"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 1,
			}),
			text.New(sub, props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Ingrediente", 6, align.Left),
		h("Precio", 2, align.Right),
		h("Subtotal", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableDetailRows(lines []dto.ReceiptLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				strconv.Itoa(l.Count),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				l.Name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				l.UnitPrice,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				l.Subtotal,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

func missingRow(ids []string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New("Ingredientes fuera de catálogo: "+strings.Join(ids, ", "), props.Text{
			Size: 7, Color: colorGray, Top: 1, Left: 1,
		}),
	))
}

func totalRow(total string) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(total, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

func qrRow(link string) core.Row {
	return row.New(36).Add(
		col.New(4).Add(code.NewQr(link, props.Rect{Percent: 95, Center: true})),
		col.New(8).Add(
			text.New("Escanea el código para seguir\nel pedido en el feed.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New(link, props.Text{Size: 6.5, Top: 20, Left: 3, Color: colorGray}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// orderNumber el número público se muestra con seis dígitos: 4242 → "#004242".
func orderNumber(n int) string {
	return fmt.Sprintf("#%06d", n)
}
