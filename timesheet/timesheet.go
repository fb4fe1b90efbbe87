// Package timesheet computes conservation-preserving daily-hours
// distributions for percentage-weighted projects over a month's working
// days. The allocator is purely computational: given the same projects,
// month and policy it always produces the same matrix.
package timesheet

import "time"

const (
	// workdayHours is the standard day a 100% allocation would fill.
	workdayHours = 8.0
	// minBlock is the smallest bookable unit under the concentrated policy.
	minBlock = 0.5
	// concentrateBelow is the percentage under which the concentrated
	// policy applies when randomization is requested.
	concentrateBelow = 20.0
)

// Project is one percentage-weighted allocation.
type Project struct {
	ID         int
	Name       string
	Percentage float64
	DailyHours float64
}

// Allocator accumulates projects and produces hour matrices. It is owned by
// a single caller; methods are not safe for concurrent use.
type Allocator struct {
	projects []Project
	nextID   int
}

// New returns an empty allocator.
func New() *Allocator {
	return &Allocator{nextID: 1}
}

// AddProject validates and appends a project. It reports false — with no
// mutation — when the name is empty, the percentage is outside (0, 100], or
// the running total across existing projects would exceed 100.
func (a *Allocator) AddProject(name string, percentage float64) bool {
	if name == "" || percentage <= 0 || percentage > 100 {
		return false
	}
	if a.TotalPercentage()+percentage > 100 {
		return false
	}
	a.projects = append(a.projects, Project{
		ID:         a.nextID,
		Name:       name,
		Percentage: percentage,
		DailyHours: percentage / 100 * workdayHours,
	})
	a.nextID++
	return true
}

// RemoveProject drops the project with the given ID; unknown IDs are a no-op.
func (a *Allocator) RemoveProject(id int) {
	kept := a.projects[:0]
	for _, p := range a.projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	a.projects = kept
}

// Projects returns a copy of the current allocation set.
func (a *Allocator) Projects() []Project {
	return append([]Project(nil), a.projects...)
}

// TotalPercentage sums the accepted allocations.
func (a *Allocator) TotalPercentage() float64 {
	var total float64
	for _, p := range a.projects {
		total += p.Percentage
	}
	return total
}

// WorkingDays returns the ordered Monday–Friday day numbers of the month.
// Holidays are not modeled.
func WorkingDays(year int, month time.Month) []int {
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	var days []int
	for d := 1; d <= daysInMonth; d++ {
		switch time.Date(year, month, d, 0, 0, 0, 0, time.UTC).Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days = append(days, d)
		}
	}
	return days
}
