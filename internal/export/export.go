// Package export writes submission tables to CSV, JSON and xlsx files, and
// reads CSV/JSON back for report generation.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/frnkmapendo/mega2-sub000/odk"
)

// Formats accepted by Write.
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatJSON  = "json"
)

// Write dispatches on format. "xlsx" is accepted as an alias for "excel".
func Write(t *odk.Table, path, format string) error {
	switch format {
	case FormatCSV:
		return ToCSV(t, path)
	case FormatExcel, "xlsx":
		return ToExcel(t, path)
	case FormatJSON:
		return ToJSON(t, path)
	default:
		return fmt.Errorf("unsupported file format: %s", format)
	}
}

// ToCSV writes the table as comma-delimited text with a header row.
func ToCSV(t *odk.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ToJSON writes the table as an array of row objects keyed by column name.
func ToJSON(t *odk.Table, path string) error {
	records := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		records = append(records, rec)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// ToExcel writes the table as a single-sheet xlsx workbook.
func ToExcel(t *odk.Table, path string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Submissions"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	writeRow := func(rowIdx int, values []string) error {
		for col, v := range values {
			name, err := excelize.CoordinatesToCellName(col+1, rowIdx)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, name, v); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeRow(1, t.Columns); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := writeRow(i+2, row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

// ReadCSV loads a CSV file into a table.
func ReadCSV(path string) (*odk.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv file: %w", err)
	}
	if len(records) == 0 {
		return &odk.Table{}, nil
	}
	return &odk.Table{Columns: records[0], Rows: records[1:]}, nil
}

// ReadJSON loads an array of row objects back into a table. Column order
// follows the first record's keys sorted lexically, since JSON objects carry
// no order of their own.
func ReadJSON(path string) (*odk.Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open json file: %w", err)
	}
	var records []map[string]string
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse json file: %w", err)
	}
	if len(records) == 0 {
		return &odk.Table{}, nil
	}

	columns := sortedKeys(records[0])
	t := &odk.Table{Columns: columns}
	for _, rec := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = rec[col]
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
