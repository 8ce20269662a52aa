// Package pdf genera el estado de cuenta de un cliente en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del sitio      │  Estado de cuenta + Fecha   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre / Customer ID / Email / Tel   │  QR         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Descripción | Registrado por | Monto         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Cantidad de cargos / TOTAL                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/exhibition-api/internal/application/billing"
	"github.com/jhoicas/exhibition-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 54, Green: 96, Blue: 146}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var printer = message.NewPrinter(language.English)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.StatementGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

var _ billing.StatementGenerator = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateStatement genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateStatement(_ context.Context, data billing.StatementData) ([]byte, error) {
	if data.Customer == nil {
		return nil, fmt.Errorf("pdf: estado de cuenta sin cliente")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Statement "+data.Customer.CustomerID, true).
		WithAuthor(data.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(data.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableBillRows(data.Bills)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(data.Summary))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(data billing.StatementData) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(data.Title, "Exhibition"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("CUSTOMER STATEMENT", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Date: "+data.GeneratedAt.UTC().Format("2006-01-02 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// customerRow: datos del cliente (izq) y QR con su customer_id (der).
func customerRow(c *entity.Customer) core.Row {
	return row.New(40).Add(
		col.New(8).Add(
			text.New("CUSTOMER", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(c.Name, props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 7,
			}),
			text.New("Customer ID: "+c.CustomerID, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 15,
			}),
			text.New(fmt.Sprintf("Email: %s   |   Phone: %s",
				nonEmpty(c.Email, "N/A"),
				nonEmpty(c.Phone, "N/A"),
			), props.Text{Size: 8, Top: 23, Color: colorGray}),
		),
		code.NewQrCol(4, c.CustomerID, props.Rect{Percent: 90, Center: true}),
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
		h("Date", 3, align.Left),
		h("Description", 5, align.Left),
		h("Created By", 2, align.Left),
		h("Amount", 2, align.Right),
	)
}

// tableBillRows: una fila por cargo, o una fila "No bills".
func tableBillRows(bills []*entity.Bill) []core.Row {
	if len(bills) == 0 {
		return []core.Row{row.New(7).Add(col.New(12).Add(
			text.New("No bills", props.Text{Size: 8, Align: align.Center, Top: 1, Color: colorGray}),
		))}
	}
	result := make([]core.Row, 0, len(bills))
	for _, b := range bills {
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(
				b.CreatedAt.UTC().Format("2006-01-02 15:04"),
				props.Text{Size: 8, Top: 1, Left: 1},
			)),
			col.New(5).Add(text.New(
				optional(b.Description),
				props.Text{Size: 8, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				optional(b.CreatedBy),
				props.Text{Size: 8, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				formatMoney(b.Amount),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

func totalsRow(s billing.BillingSummary) core.Row {
	label := func(v string) core.Component {
		return text.New(v, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(v string) core.Component {
		return text.New(v, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1})
	}
	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(label("Number of bills:"), label("TOTAL:")),
		col.New(3).Add(
			text.New(fmt.Sprint(s.Count), props.Text{Size: 9, Align: align.Right, Right: 1}),
			value(formatMoney(s.Total)),
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

func optional(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}

// formatMoney formatea con separador de miles y dos decimales.
// Ej: 1234.5 → "$1,234.50", -25 → "-$25.00"
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	return sign + printer.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}
