// Package report renders a month's usage and projection as XLSX or PDF.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/jgoulah/wattcast/internal/combine"
	"github.com/jgoulah/wattcast/pkg/models"
)

// Monthly is the content of a monthly report
type Monthly struct {
	Year        int
	Month       time.Month
	Currency    string
	PricePerKWh float64
	GeneratedAt time.Time
	Usage       []models.UsageSummary // observed usage per device
	Projection  []models.UsageSummary // month-end projection per device, may be empty
	Daily       []combine.DailyRow    // rollup of the combined series, may be empty
}

// Period returns the report month as YYYY-MM
func (r *Monthly) Period() string {
	return fmt.Sprintf("%04d-%02d", r.Year, int(r.Month))
}

func sum(rows []models.UsageSummary) (kwh, price float64) {
	for _, r := range rows {
		kwh += r.KWh
		price += r.Price
	}
	return kwh, price
}

// BuildXLSX renders the report as a workbook with usage, projection and
// daily sheets.
func BuildXLSX(r *Monthly) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	usageSheet := "usage"
	f.SetSheetName("Sheet1", usageSheet)
	_ = f.SetCellValue(usageSheet, "A1", "Electricity usage "+r.Period())
	writeSummaries(f, usageSheet, 3, r.Usage)

	if len(r.Projection) > 0 {
		sheet := "projection"
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("creating %s sheet: %w", sheet, err)
		}
		_ = f.SetCellValue(sheet, "A1", "Month-end projection "+r.Period())
		writeSummaries(f, sheet, 3, r.Projection)
	}

	if len(r.Daily) > 0 {
		sheet := "daily"
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("creating %s sheet: %w", sheet, err)
		}
		_ = f.SetCellValue(sheet, "A1", models.ColumnDate)
		_ = f.SetCellValue(sheet, "B1", models.ColumnDevice)
		_ = f.SetCellValue(sheet, "C1", models.ColumnUsage)
		_ = f.SetCellValue(sheet, "D1", models.ColumnSource)
		row := 2
		for _, d := range r.Daily {
			if d.Anchor {
				continue
			}
			_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), d.Date.Format("2006-01-02"))
			_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), d.Device.String())
			_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), d.UsageKWh)
			_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), d.Source.String())
			row++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummaries(f *excelize.File, sheet string, header int, rows []models.UsageSummary) {
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", header), models.ColumnDevice)
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", header), models.ColumnUsage)
	_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", header), models.ColumnPrice)
	for i, s := range rows {
		row := header + 1 + i
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), s.Device.String())
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), s.KWh)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), s.Price)
	}
	kwh, price := sum(rows)
	total := header + 1 + len(rows)
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", total), "Total")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", total), kwh)
	_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", total), price)
}

// BuildPDF renders a one-page summary of the report
func BuildPDF(r *Monthly) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Electricity Usage Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Month: %s", r.Period()))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Price per kWh (%s): %.2f", r.Currency, r.PricePerKWh))
	pdf.Ln(5)
	if !r.GeneratedAt.IsZero() {
		pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", r.GeneratedAt.Format(time.RFC3339)))
		pdf.Ln(5)
	}

	pdf.Ln(4)
	summaryTable(pdf, "Usage to date", r.Currency, r.Usage)
	if len(r.Projection) > 0 {
		pdf.Ln(6)
		summaryTable(pdf, "Month-end projection", r.Currency, r.Projection)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func summaryTable(pdf *gofpdf.Fpdf, title, currency string, rows []models.UsageSummary) {
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 6, title)
	pdf.Ln(7)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(60, 6, "Device", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Energy (kWh)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, fmt.Sprintf("Price (%s)", currency), "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, s := range rows {
		pdf.CellFormat(60, 6, s.Device.String(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.3f", s.KWh), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.0f", s.Price), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	kwh, price := sum(rows)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(60, 6, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, fmt.Sprintf("%.3f", kwh), "1", 0, "R", false, 0, "")
	pdf.CellFormat(50, 6, fmt.Sprintf("%.0f", price), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)
}
