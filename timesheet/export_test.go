package timesheet

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportExcel_Layout(t *testing.T) {
	t.Parallel()
	a := fullAllocator(t)
	raw, err := a.ExportExcel(2024, time.January, false)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	const sheet = "Timesheet_2024_01"
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)

	// Header + 23 working days + Monthly Total.
	require.Len(t, rows, 25)
	assert.Equal(t, []string{"Day", "Large Project A", "Medium Project B", "Small Project C", "Tiny Project D", "Total Hours"}, rows[0])
	assert.Equal(t, "1", rows[1][0], "first working day of Jan 2024")
	assert.Equal(t, "Monthly Total", rows[24][0])

	grand, err := strconv.ParseFloat(rows[24][5], 64)
	require.NoError(t, err)
	// 85% of 8h across 23 working days.
	assert.InDelta(t, 0.85*8*23, grand, 1e-6)
}

func TestExportExcel_TotalsMatchMatrix(t *testing.T) {
	t.Parallel()
	a := fullAllocator(t)
	m := a.DailyHours(2024, time.August, true)

	raw, err := a.ExportExcel(2024, time.August, true)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Timesheet_2024_08")
	require.NoError(t, err)
	totals := rows[len(rows)-1]
	for col, p := range a.Projects() {
		got, err := strconv.ParseFloat(totals[col+1], 64)
		require.NoError(t, err)
		assert.InDelta(t, m.ColumnSum(col), got, 1e-6, "column %s", p.Name)
	}
}

func TestExportCSV_Layout(t *testing.T) {
	t.Parallel()
	a := New()
	require.True(t, a.AddProject("Solo", 50))

	raw, err := a.ExportCSV(2024, time.January, false)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 25)
	assert.Equal(t, []string{"Day", "Solo", "Total Hours"}, records[0])
	assert.Equal(t, "4.00", records[1][1], "50%% is 4h/day")
	assert.Equal(t, []string{"Monthly Total", "92.00", "92.00"}, records[24])
}
