// Package pdf implementa la hoja de picking de una orden.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Hoja de picking + cliente │ N° orden + fecha + estado│
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Pedido | Despachado | Pendiente     │
//	│         + una fila por bandeja: ubicación y disponible       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el ID de la orden + nota de estado           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

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

	"github.com/jhoicas/warehouse-api/internal/application/fulfillment"
	"github.com/jhoicas/warehouse-api/internal/application/usecase"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

var _ usecase.PickListPDFGenerator = (*MarotoPickListGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoPickListGenerator implementa usecase.PickListPDFGenerator usando Maroto v2.
type MarotoPickListGenerator struct{}

// NewMarotoPickListGenerator construye el generador.
func NewMarotoPickListGenerator() *MarotoPickListGenerator { return &MarotoPickListGenerator{} }

// GeneratePickListPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPickListGenerator) GeneratePickListPDF(_ context.Context, list *fulfillment.PickList) ([]byte, error) {
	if list == nil || list.Order == nil {
		return nil, fmt.Errorf("pdf: hoja de picking vacía")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de picking", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(list.Order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(list.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(list.Order))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + cliente (izq) y N° de orden + fecha + estado (der).
func headerRow(order *entity.Order) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("HOJA DE PICKING", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Cliente: "+nonEmpty(order.Customer, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Orden "+order.ID, props.Text{
				Style: fontstyle.Bold, Size: 7, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+order.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 7, Color: colorGray,
			}),
			text.New("Estado: "+string(order.Status), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 12, Color: colorPrimary,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto / ubicación", 4, align.Left),
		h("Pedido", 2, align.Center),
		h("Despachado", 2, align.Center),
		h("Pendiente", 2, align.Center),
	)
}

// tableLineRows: una fila por línea y debajo una fila por bandeja con stock.
func tableLineRows(lines []fulfillment.PickLine) []core.Row {
	var result []core.Row
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(nonEmpty(l.Product.SKU, l.Product.ID), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(nonEmpty(l.Product.Name, "(dado de baja)"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(strconv.Itoa(l.Requested), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(strconv.Itoa(l.Fulfilled), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(strconv.Itoa(l.Remaining), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 1,
			})),
		))
		if l.Remaining == 0 {
			continue
		}
		if len(l.Stops) == 0 {
			result = append(result, row.New(5).Add(
				col.New(2),
				col.New(10).Add(text.New("sin stock ubicado", props.Text{Size: 7, Top: 0.5, Left: 3, Color: colorGray})),
			))
			continue
		}
		for _, s := range l.Stops {
			result = append(result, row.New(5).Add(
				col.New(2),
				col.New(10).Add(text.New(
					fmt.Sprintf("- %s  (disponible: %d)", nonEmpty(s.LocationCode, s.TrayID), s.Available),
					props.Text{Size: 7, Top: 0.5, Left: 3, Color: colorGray},
				)),
			))
		}
	}
	return result
}

// footerRow: QR con el ID de la orden para escanear al despachar.
func footerRow(order *entity.Order) core.Row {
	note := order.StatusNote()
	if note == "" {
		note = "Tome las unidades en el orden listado (bandejas más antiguas primero)."
	}
	return row.New(40).Add(
		col.New(4).Add(code.NewQr(order.ID, props.Rect{Percent: 90, Center: true})),
		col.New(8).Add(text.New(note, props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray})),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
