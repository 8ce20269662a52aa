// Package xlsx serializa la exportación de clientes y cargos en un libro .xlsx.
package xlsx

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/exhibition-api/internal/application/billing"
)

const (
	SummarySheet = "Customers Summary"
	DetailSheet  = "Detailed Bills"

	timeLayout  = "2006-01-02 15:04"
	moneyFormat = "$#,##0.00"
	colWidth    = 18
	descWidth   = 40
)

var (
	summaryHeaders = []any{
		"Customer ID", "Name", "Email", "Phone", "Number of Bills",
		"Total Amount", "Email Sent", "Created At", "Updated At",
	}
	detailHeaders = []any{
		"Customer ID", "Customer Name", "Customer Email", "Bill Amount",
		"Bill Description", "Bill Date", "Created By",
	}
)

// Exporter implementa billing.SpreadsheetExporter con excelize.
type Exporter struct{}

var _ billing.SpreadsheetExporter = Exporter{}

// NewExporter construye el exportador.
func NewExporter() Exporter { return Exporter{} }

type styles struct {
	header int
	cell   int
	money  int
}

// Export arma las dos hojas y devuelve el libro en memoria. Ante cualquier error no se
// devuelve documento parcial.
func (Exporter) Export(rows []billing.CustomerExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, fmt.Errorf("xlsx: hoja resumen: %w", err)
	}
	if _, err := f.NewSheet(DetailSheet); err != nil {
		return nil, fmt.Errorf("xlsx: hoja detalle: %w", err)
	}
	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	if err := writeSummary(f, st, rows); err != nil {
		return nil, fmt.Errorf("xlsx: %s: %w", SummarySheet, err)
	}
	if err := writeDetails(f, st, rows); err != nil {
		return nil, fmt.Errorf("xlsx: %s: %w", DetailSheet, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: serializar: %w", err)
	}
	return buf.Bytes(), nil
}

func newStyles(f *excelize.File) (styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 12},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"366092"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return styles{}, fmt.Errorf("xlsx: estilo encabezado: %w", err)
	}
	cell, err := f.NewStyle(&excelize.Style{Border: border})
	if err != nil {
		return styles{}, fmt.Errorf("xlsx: estilo celda: %w", err)
	}
	format := moneyFormat
	money, err := f.NewStyle(&excelize.Style{Border: border, CustomNumFmt: &format})
	if err != nil {
		return styles{}, fmt.Errorf("xlsx: estilo moneda: %w", err)
	}
	return styles{header: header, cell: cell, money: money}, nil
}

func writeSummary(f *excelize.File, st styles, rows []billing.CustomerExportRow) error {
	if err := writeHeader(f, SummarySheet, summaryHeaders, st.header); err != nil {
		return err
	}
	for i, r := range rows {
		n := i + 2
		c := r.Customer
		values := []any{
			c.CustomerID, c.Name, c.Email, c.Phone, r.BillCount,
			r.Total.Round(2).InexactFloat64(), yesNo(c.EmailSent),
			formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
		}
		if err := writeRow(f, SummarySheet, n, values, st.cell); err != nil {
			return err
		}
		if err := f.SetCellStyle(SummarySheet, cellName(6, n), cellName(6, n), st.money); err != nil {
			return err
		}
	}
	return f.SetColWidth(SummarySheet, "A", columnName(len(summaryHeaders)), colWidth)
}

func writeDetails(f *excelize.File, st styles, rows []billing.CustomerExportRow) error {
	if err := writeHeader(f, DetailSheet, detailHeaders, st.header); err != nil {
		return err
	}
	n := 2
	for _, r := range rows {
		c := r.Customer
		if len(r.Bills) == 0 {
			values := []any{c.CustomerID, c.Name, c.Email, "No bills", "", "", ""}
			if err := writeRow(f, DetailSheet, n, values, st.cell); err != nil {
				return err
			}
			n++
			continue
		}
		for _, b := range r.Bills {
			values := []any{
				c.CustomerID, c.Name, c.Email, b.Amount.Round(2).InexactFloat64(),
				orNA(b.Description), formatTime(b.CreatedAt), orNA(b.CreatedBy),
			}
			if err := writeRow(f, DetailSheet, n, values, st.cell); err != nil {
				return err
			}
			if err := f.SetCellStyle(DetailSheet, cellName(4, n), cellName(4, n), st.money); err != nil {
				return err
			}
			n++
		}
	}
	if err := f.SetColWidth(DetailSheet, "A", columnName(len(detailHeaders)), colWidth); err != nil {
		return err
	}
	return f.SetColWidth(DetailSheet, "E", "E", descWidth)
}

func writeHeader(f *excelize.File, sheet string, headers []any, style int) error {
	if err := writeRow(f, sheet, 1, headers, style); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeRow(f *excelize.File, sheet string, n int, values []any, style int) error {
	first := cellName(1, n)
	if err := f.SetSheetRow(sheet, first, &values); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, cellName(len(values), n), style)
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func columnName(col int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return name
}

// formatTime siempre en UTC: pgx entrega TIMESTAMPTZ en la zona local del proceso.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}
