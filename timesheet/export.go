package timesheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportExcel renders the month's matrix as an xlsx workbook: a "Day"
// column, one column per project, a trailing "Total Hours" column and a
// trailing "Monthly Total" row with the grand total in the corner.
func (a *Allocator) ExportExcel(year int, month time.Month, randomizeSmall bool) ([]byte, error) {
	m := a.DailyHours(year, month, randomizeSmall)

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := fmt.Sprintf("Timesheet_%d_%02d", year, int(month))
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	setCell := func(col, row int, v any) error {
		name, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, name, v)
	}

	headers := append(append([]string{"Day"}, m.Projects...), "Total Hours")
	for col, h := range headers {
		if err := setCell(col+1, 1, h); err != nil {
			return nil, err
		}
	}

	for row, day := range m.Days {
		if err := setCell(1, row+2, day); err != nil {
			return nil, err
		}
		for col := range m.Projects {
			if err := setCell(col+2, row+2, m.Cells[row][col]); err != nil {
				return nil, err
			}
		}
		if err := setCell(len(headers), row+2, m.RowTotal(row)); err != nil {
			return nil, err
		}
	}

	totalRow := len(m.Days) + 2
	if err := setCell(1, totalRow, "Monthly Total"); err != nil {
		return nil, err
	}
	for col := range m.Projects {
		if err := setCell(col+2, totalRow, m.ColumnSum(col)); err != nil {
			return nil, err
		}
	}
	if err := setCell(len(headers), totalRow, m.GrandTotal()); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportCSV renders the same layout as ExportExcel in comma-delimited form.
func (a *Allocator) ExportCSV(year int, month time.Month, randomizeSmall bool) ([]byte, error) {
	m := a.DailyHours(year, month, randomizeSmall)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append(append([]string{"Day"}, m.Projects...), "Total Hours")
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for row, day := range m.Days {
		rec := make([]string, 0, len(header))
		rec = append(rec, strconv.Itoa(day))
		for col := range m.Projects {
			rec = append(rec, formatHours(m.Cells[row][col]))
		}
		rec = append(rec, formatHours(m.RowTotal(row)))
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}

	rec := make([]string, 0, len(header))
	rec = append(rec, "Monthly Total")
	for col := range m.Projects {
		rec = append(rec, formatHours(m.ColumnSum(col)))
	}
	rec = append(rec, formatHours(m.GrandTotal()))
	if err := w.Write(rec); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
