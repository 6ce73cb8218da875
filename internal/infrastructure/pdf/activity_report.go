// Package pdf genera el reporte PDF del historial de actividad de un item.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del item + ID  │  Fecha de emisión          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: entradas / salidas / ventas / movimientos          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Cantidad | Evento                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
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
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Inventario-batch/internal/application/activity"
	"github.com/jhoicas/Inventario-batch/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ activity.ReportGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa activity.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	printer *message.Printer
	now     func() time.Time
}

// NewMarotoReportGenerator construye el generador. Las cantidades se formatean en español (1.234).
func NewMarotoReportGenerator() *MarotoReportGenerator {
	return &MarotoReportGenerator{
		printer: message.NewPrinter(language.Spanish),
		now:     time.Now,
	}
}

// GenerateActivityReport genera el PDF y devuelve sus bytes. records llega ordenado del más reciente al más antiguo.
func (g *MarotoReportGenerator) GenerateActivityReport(itemID int64, itemName string, records []*entity.ActivityRecord) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Historial de actividad", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(itemID, itemName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.summaryRow(records))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(records) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin actividad registrada.", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}
	m.AddRows(g.tableRows(records)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoReportGenerator) headerRow(itemID int64, itemName string) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New(itemName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Item #%d", itemID), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("HISTORIAL DE ACTIVIDAD", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Emitido: "+g.now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// summaryRow totales por tipo de operación.
func (g *MarotoReportGenerator) summaryRow(records []*entity.ActivityRecord) core.Row {
	totals := map[string]int{}
	for _, r := range records {
		n, err := strconv.Atoi(r.ActivityValue)
		if err != nil {
			continue
		}
		totals[r.ActivityType] += n
	}
	cell := func(label string, n int) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 7, Color: colorGray, Top: 1}),
			text.New(g.printer.Sprintf("%d", n), props.Text{Style: fontstyle.Bold, Size: 11, Top: 5}),
		)
	}
	return row.New(14).Add(
		cell("ENTRADAS", totals[string(entity.OperationAdd)]),
		cell("SALIDAS", totals[string(entity.OperationRemove)]),
		cell("VENTAS", totals[string(entity.OperationSell)]),
		cell("MOVIMIENTOS", len(records)),
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
		h("Fecha", 3, align.Left),
		h("Tipo", 2, align.Center),
		h("Cantidad", 2, align.Right),
		h("Evento", 5, align.Left),
	)
}

// tableRows una fila por registro.
func (g *MarotoReportGenerator) tableRows(records []*entity.ActivityRecord) []core.Row {
	result := make([]core.Row, 0, len(records))
	for _, r := range records {
		qty := r.ActivityValue
		if n, err := strconv.Atoi(r.ActivityValue); err == nil {
			qty = g.printer.Sprintf("%d", n)
		}
		result = append(result, row.New(6).Add(
			col.New(3).Add(text.New(
				r.ActivityTime.Format("02/01/2006 15:04:05"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				r.ActivityType,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				qty,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(5).Add(text.New(
				r.EventID,
				props.Text{Size: 6.5, Align: align.Left, Top: 1.5, Left: 1, Color: colorGray},
			)),
		))
	}
	return result
}
