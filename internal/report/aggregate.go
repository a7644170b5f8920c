// Package report groups timesheet entries into per-employee totals.
package report

import (
	"sort"

	"timesheet-report/internal/domain"
)

// Options controls which groups survive aggregation.
type Options struct {
	// PositiveOnly drops employees whose total is zero or negative.
	PositiveOnly bool
}

// Aggregate sums worked time per employee and returns the totals ordered by
// hours descending. Employees with equal totals keep the order in which they
// first appear in entries. Entries without an employee are ignored.
func Aggregate(entries []domain.TimeEntry, opts Options) []domain.EmployeeTotal {
	seconds := make(map[string]float64)
	order := make([]string, 0)
	for _, e := range entries {
		if e.Employee == "" {
			continue
		}
		if _, seen := seconds[e.Employee]; !seen {
			order = append(order, e.Employee)
		}
		seconds[e.Employee] += e.WorkedSeconds()
	}

	out := make([]domain.EmployeeTotal, 0, len(order))
	for _, name := range order {
		hours := seconds[name] / 3600.0
		if opts.PositiveOnly && hours <= 0 {
			continue
		}
		out = append(out, domain.EmployeeTotal{Name: name, TotalHours: hours})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalHours > out[j].TotalHours
	})
	return out
}

// Sum returns the total hours across all employees.
func Sum(totals []domain.EmployeeTotal) float64 {
	var sum float64
	for _, t := range totals {
		sum += t.TotalHours
	}
	return sum
}
