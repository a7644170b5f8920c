package domain

import "time"

// EmployeeTotal is the aggregated worked time for one employee.
type EmployeeTotal struct {
	Name       string
	TotalHours float64
}

// ReportMode selects the output artifact of a run.
type ReportMode string

const (
	ModeChart ReportMode = "chart"
	ModeTable ReportMode = "table"
)

// Valid reports whether m is a known mode.
func (m ReportMode) Valid() bool {
	return m == ModeChart || m == ModeTable
}

// ReportRun is one completed report, as archived.
type ReportRun struct {
	ID          string
	Mode        ReportMode
	GeneratedAt time.Time
	Totals      []EmployeeTotal
}
