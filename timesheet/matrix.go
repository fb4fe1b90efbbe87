package timesheet

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"time"
)

// Matrix is the daily-hours result: one row per working day, one column per
// project, cells in hours.
type Matrix struct {
	Days     []int
	Projects []string
	Cells    [][]float64 // indexed [day][project]
}

// ColumnSum totals one project column.
func (m *Matrix) ColumnSum(col int) float64 {
	var sum float64
	for _, row := range m.Cells {
		sum += row[col]
	}
	return sum
}

// RowTotal totals one working day across projects.
func (m *Matrix) RowTotal(row int) float64 {
	var sum float64
	for _, v := range m.Cells[row] {
		sum += v
	}
	return sum
}

// GrandTotal sums every cell.
func (m *Matrix) GrandTotal() float64 {
	var sum float64
	for i := range m.Cells {
		sum += m.RowTotal(i)
	}
	return sum
}

// DailyHours builds the matrix for one month.
//
// Every project gets an even spread of its daily hours unless randomizeSmall
// is set and the project is under 20%: those have their monthly total
// concentrated onto a seeded-random subset of days so the column still sums
// to dailyHours x workingDayCount exactly.
func (a *Allocator) DailyHours(year int, month time.Month, randomizeSmall bool) *Matrix {
	days := WorkingDays(year, month)
	m := &Matrix{
		Days:     days,
		Projects: make([]string, len(a.projects)),
		Cells:    make([][]float64, len(days)),
	}
	for i := range m.Cells {
		m.Cells[i] = make([]float64, len(a.projects))
	}

	for col, p := range a.projects {
		m.Projects[col] = p.Name
		var daily []float64
		if randomizeSmall && p.Percentage < concentrateBelow {
			daily = concentrate(p.DailyHours*float64(len(days)), len(days), p.Name)
		} else {
			daily = make([]float64, len(days))
			for i := range daily {
				daily[i] = p.DailyHours
			}
		}
		for row, v := range daily {
			m.Cells[row][col] = v
		}
	}
	return m
}

// seedFor derives the deterministic seed from the project name and day
// count, so repeated calls with the same inputs reproduce the same layout.
func seedFor(name string, numDays int) int64 {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%s_%d", name, numDays)
	return int64(h.Sum64())
}

// concentrate redistributes total hours onto a random subset of days.
//
// The subset is sized by how many half-hour blocks the total fills, capped
// at half the working days. Each selected day gets the per-day share rounded
// to the nearest half hour, clamped to the hours still unassigned; the last
// selected day absorbs the remainder so the column total is exact. A total
// below one half-hour block lands whole on a single day.
func concentrate(total float64, numDays int, name string) []float64 {
	daily := make([]float64, numDays)
	rng := rand.New(rand.NewSource(seedFor(name, numDays)))

	if total < minBlock {
		daily[rng.Intn(numDays)] = total
		return daily
	}

	blocksNeeded := int(total / minBlock)
	if blocksNeeded < 1 {
		blocksNeeded = 1
	}
	concentrationDays := blocksNeeded
	if half := numDays / 2; concentrationDays > half {
		concentrationDays = half
	}
	if concentrationDays < 1 {
		concentrationDays = 1
	}

	selected := rng.Perm(numDays)[:concentrationDays]

	perDay := total / float64(concentrationDays)
	rounded := math.Round(perDay/minBlock) * minBlock

	var assigned float64
	for i, dayIdx := range selected {
		if i == len(selected)-1 {
			remaining := total - assigned
			if remaining < 0 {
				remaining = 0
			}
			daily[dayIdx] = remaining
			assigned += remaining
			continue
		}
		grant := rounded
		if left := total - assigned; grant > left {
			grant = left
		}
		daily[dayIdx] = grant
		assigned += grant
	}
	return daily
}
