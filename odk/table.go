package odk

import (
	"encoding/csv"
	"io"
)

// ErrorColumn is the single column name carried by sentinel error tables.
const ErrorColumn = "Error"

// Table is a decoded submissions dataset: a header row of column names and
// the data rows beneath it. Tables returned by the client may be served from
// cache, so callers must treat them as read-only; ApplyLabels returns a
// transformed copy instead of mutating in place.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Empty reports whether the table has no columns and no rows.
func (t *Table) Empty() bool {
	return t == nil || (len(t.Columns) == 0 && len(t.Rows) == 0)
}

// IsError reports whether the table is a sentinel error result.
func (t *Table) IsError() bool {
	return t != nil && len(t.Columns) == 1 && t.Columns[0] == ErrorColumn
}

// ErrorMessage returns the diagnostic carried by a sentinel error table, or
// "" for ordinary tables.
func (t *Table) ErrorMessage() string {
	if !t.IsError() || len(t.Rows) == 0 || len(t.Rows[0]) == 0 {
		return ""
	}
	return t.Rows[0][0]
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// ApplyLabels returns a copy of the table with values in the named column
// replaced through the labels map. Values without a mapping are kept as-is,
// and the receiver is left untouched so cached tables stay pristine.
func (t *Table) ApplyLabels(column string, labels map[string]string) *Table {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return t
	}
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		copied := append([]string(nil), row...)
		if idx < len(copied) {
			if label, ok := labels[copied[idx]]; ok {
				copied[idx] = label
			}
		}
		out.Rows[i] = copied
	}
	return out
}

func errorTable(msg string) *Table {
	return &Table{Columns: []string{ErrorColumn}, Rows: [][]string{{msg}}}
}

// readCSVTable decodes a CSV stream row by row. The reader is consumed
// incrementally, never loaded into memory in one piece.
func readCSVTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return &Table{}, nil
	}
	if err != nil {
		return nil, err
	}

	t := &Table{Columns: header}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return t, nil
		}
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, row)
	}
}
