package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"timesheet-report/internal/domain"
	"timesheet-report/internal/observability"
	"timesheet-report/internal/ports"
	"timesheet-report/internal/report"
)

// Stages a run can fail in.
const (
	StageFetch   = "fetch"
	StageRender  = "render"
	StageArchive = "archive"
)

// RunError is the single failure type returned by a report run. Err carries a
// stack trace; format with %+v to print it.
type RunError struct {
	Stage string
	Err   error
}

func (e *RunError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }

func (e *RunError) Unwrap() error { return e.Err }

// Format prints the wrapped stack trace for %+v.
func (e *RunError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s: %+v", e.Stage, e.Err)
		return
	}
	fmt.Fprint(s, e.Error())
}

func fail(stage string, err error) error {
	return &RunError{Stage: stage, Err: errors.WithStack(err)}
}

// ReportUseCase coordinates fetching entries, aggregating them and handing
// the totals to a Renderer.
type ReportUseCase struct {
	Log      *slog.Logger
	Source   ports.TimeEntrySource
	Renderer ports.Renderer
	Archive  ports.Archive // nil disables archiving
	Options  report.Options
	Now      func() time.Time
}

// Run performs one fetch-aggregate-render pass.
func (uc *ReportUseCase) Run(ctx context.Context) error {
	if uc.Source == nil || uc.Renderer == nil {
		return errors.New("usecase not initialized: missing dependencies")
	}
	mode := uc.Renderer.Mode()

	totals, err := uc.Totals(ctx)
	if err != nil {
		observability.RecordRun(mode, false)
		return err
	}

	if err := uc.Renderer.Render(ctx, totals); err != nil {
		observability.RecordRun(mode, false)
		return fail(StageRender, err)
	}

	if uc.Archive != nil && len(totals) > 0 {
		run := domain.ReportRun{
			ID:          uuid.NewString(),
			Mode:        mode,
			GeneratedAt: uc.now(),
			Totals:      totals,
		}
		if err := uc.Archive.SaveReport(ctx, run); err != nil {
			observability.RecordRun(mode, false)
			return fail(StageArchive, err)
		}
		uc.Log.Info("report archived", slog.String("id", run.ID))
	}
	observability.RecordRun(mode, true)
	return nil
}

// Totals fetches entries and aggregates them with the configured options.
func (uc *ReportUseCase) Totals(ctx context.Context) ([]domain.EmployeeTotal, error) {
	entries, err := uc.Source.ListTimeEntries(ctx)
	if err != nil {
		return nil, fail(StageFetch, err)
	}
	observability.RecordEntries(len(entries))

	totals := report.Aggregate(entries, uc.Options)
	uc.Log.Info("aggregated employees", slog.Int("count", len(totals)), slog.Bool("positive_only", uc.Options.PositiveOnly))
	for _, t := range totals {
		uc.Log.Info("employee hours", slog.String("name", t.Name), slog.String("hours", fmt.Sprintf("%.2f", t.TotalHours)))
	}
	observability.RecordEmployees(len(totals))
	return totals, nil
}

func (uc *ReportUseCase) now() time.Time {
	if uc.Now != nil {
		return uc.Now().UTC()
	}
	return time.Now().UTC()
}
