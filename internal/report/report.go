// Package report renders a PDF summary of a submissions table. Layout is
// thin glue over fpdf: a title page section, per-column statistics, and a
// bounded data preview.
package report

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"

	"github.com/frnkmapendo/mega2-sub000/odk"
)

// previewColumns caps how many columns fit a portrait A4 preview table.
const previewColumns = 5

// Options controls report content.
type Options struct {
	Title        string
	MaxTableRows int
}

// Generate writes the PDF to path. Sentinel error tables are refused so a
// failed download cannot masquerade as a report.
func Generate(t *odk.Table, path string, opts Options) error {
	if t.IsError() {
		return fmt.Errorf("input carries an error sentinel: %s", t.ErrorMessage())
	}
	if t.Empty() {
		return fmt.Errorf("no data to report")
	}
	if opts.Title == "" {
		opts.Title = "ODK Central Data Report"
	}
	if opts.MaxTableRows <= 0 {
		opts.MaxTableRows = 20
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 12, opts.Title, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, "Generated "+time.Now().Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	writeSummary(pdf, t)
	writeColumnStats(pdf, t)
	writePreview(pdf, t, opts.MaxTableRows)

	return pdf.OutputFileAndClose(path)
}

func writeSummary(pdf *fpdf.Fpdf, t *odk.Table) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Records: %d", len(t.Rows)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Columns: %d", len(t.Columns)), "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func writeColumnStats(pdf *fpdf.Fpdf, t *odk.Table) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Columns", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(70, 6, "Name", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, "Distinct", "1", 0, "R", false, 0, "")
	pdf.CellFormat(90, 6, "Most frequent", "1", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for i, col := range t.Columns {
		distinct, top := columnStats(t, i)
		pdf.CellFormat(70, 6, truncate(col, 45), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", distinct), "1", 0, "R", false, 0, "")
		pdf.CellFormat(90, 6, truncate(top, 60), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func writePreview(pdf *fpdf.Fpdf, t *odk.Table, maxRows int) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Data Preview", "", 1, "L", false, 0, "")

	cols := len(t.Columns)
	if cols > previewColumns {
		cols = previewColumns
	}
	width := 190.0 / float64(cols)

	pdf.SetFont("Helvetica", "B", 8)
	for i := 0; i < cols; i++ {
		pdf.CellFormat(width, 6, truncate(t.Columns[i], 24), "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for r, row := range t.Rows {
		if r >= maxRows {
			break
		}
		for i := 0; i < cols; i++ {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			pdf.CellFormat(width, 6, truncate(v, 24), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(t.Rows) > maxRows {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("... %d more rows", len(t.Rows)-maxRows), "", 1, "L", false, 0, "")
	}
}

// columnStats returns the distinct value count and the most frequent value
// of one column.
func columnStats(t *odk.Table, col int) (int, string) {
	counts := make(map[string]int)
	for _, row := range t.Rows {
		if col < len(row) {
			counts[row[col]]++
		}
	}
	top, best := "", 0
	for v, n := range counts {
		if n > best || (n == best && v < top) {
			top, best = v, n
		}
	}
	return len(counts), top
}

// truncate shortens s to at most n characters. It counts runes, not bytes,
// so multibyte values are never cut mid-rune.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}
