package ports

import (
	"context"

	"timesheet-report/internal/domain"
)

// TimeEntrySource fetches raw timesheet entries.
type TimeEntrySource interface {
	ListTimeEntries(ctx context.Context) ([]domain.TimeEntry, error)
}

// Renderer turns aggregated totals into an output artifact.
type Renderer interface {
	Mode() domain.ReportMode
	Render(ctx context.Context, totals []domain.EmployeeTotal) error
}

// Archive persists completed reports. Optional; runs work without one.
type Archive interface {
	SaveReport(ctx context.Context, run domain.ReportRun) error
}
