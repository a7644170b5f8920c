package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet-report/internal/domain"
	"timesheet-report/internal/report"
)

type fakeSource struct {
	entries []domain.TimeEntry
	err     error
}

func (f fakeSource) ListTimeEntries(ctx context.Context) ([]domain.TimeEntry, error) {
	return f.entries, f.err
}

type fakeRenderer struct {
	mode  domain.ReportMode
	got   []domain.EmployeeTotal
	calls int
	err   error
}

func (f *fakeRenderer) Mode() domain.ReportMode { return f.mode }

func (f *fakeRenderer) Render(ctx context.Context, totals []domain.EmployeeTotal) error {
	f.calls++
	f.got = totals
	return f.err
}

type fakeArchive struct {
	runs []domain.ReportRun
	err  error
}

func (f *fakeArchive) SaveReport(ctx context.Context, run domain.ReportRun) error {
	f.runs = append(f.runs, run)
	return f.err
}

var start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func sampleEntries() []domain.TimeEntry {
	return []domain.TimeEntry{
		{Employee: "Alice", Start: start, End: start.Add(2 * time.Hour)},
		{Employee: "Bob", Start: start, End: start.Add(time.Hour)},
		{Employee: "", Start: start, End: start.Add(5 * time.Hour)},
		{Employee: "Eve", Start: start.Add(time.Hour), End: start},
	}
}

func newUseCase(src fakeSource, r *fakeRenderer) *ReportUseCase {
	return &ReportUseCase{
		Log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Source:   src,
		Renderer: r,
	}
}

func TestRun_RendersTotals(t *testing.T) {
	r := &fakeRenderer{mode: domain.ModeTable}
	uc := newUseCase(fakeSource{entries: sampleEntries()}, r)

	require.NoError(t, uc.Run(context.Background()))
	require.Equal(t, 1, r.calls)
	require.Len(t, r.got, 3)
	assert.Equal(t, "Alice", r.got[0].Name)
	assert.Equal(t, "Bob", r.got[1].Name)
	assert.Equal(t, "Eve", r.got[2].Name)
}

func TestRun_PositiveOnly(t *testing.T) {
	r := &fakeRenderer{mode: domain.ModeChart}
	uc := newUseCase(fakeSource{entries: sampleEntries()}, r)
	uc.Options = report.Options{PositiveOnly: true}

	require.NoError(t, uc.Run(context.Background()))
	require.Len(t, r.got, 2)
	assert.Equal(t, "Bob", r.got[1].Name)
}

func TestRun_EmptyInputStillRenders(t *testing.T) {
	r := &fakeRenderer{mode: domain.ModeTable}
	archive := &fakeArchive{}
	uc := newUseCase(fakeSource{}, r)
	uc.Archive = archive

	require.NoError(t, uc.Run(context.Background()))
	assert.Equal(t, 1, r.calls)
	assert.Empty(t, r.got)
	assert.Empty(t, archive.runs)
}

func TestRun_FetchFailure(t *testing.T) {
	r := &fakeRenderer{mode: domain.ModeChart}
	uc := newUseCase(fakeSource{err: errors.New("connection refused")}, r)

	err := uc.Run(context.Background())
	require.Error(t, err)

	var runErr *RunError
	require.True(t, errors.As(err, &runErr))
	assert.Equal(t, StageFetch, runErr.Stage)
	assert.Equal(t, "fetch: connection refused", err.Error())
	assert.Zero(t, r.calls)
}

func TestRun_RenderFailureCarriesStack(t *testing.T) {
	cause := errors.New("disk full")
	r := &fakeRenderer{mode: domain.ModeTable, err: cause}
	uc := newUseCase(fakeSource{entries: sampleEntries()}, r)

	err := uc.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)

	var runErr *RunError
	require.True(t, errors.As(err, &runErr))
	assert.Equal(t, StageRender, runErr.Stage)

	trace := fmt.Sprintf("%+v", err)
	assert.True(t, strings.HasPrefix(trace, "render: disk full"))
	assert.Contains(t, trace, "usecase.fail")
}

func TestRun_Archives(t *testing.T) {
	r := &fakeRenderer{mode: domain.ModeChart}
	archive := &fakeArchive{}
	uc := newUseCase(fakeSource{entries: sampleEntries()}, r)
	uc.Archive = archive
	uc.Now = func() time.Time { return start }

	require.NoError(t, uc.Run(context.Background()))
	require.Len(t, archive.runs, 1)
	run := archive.runs[0]
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, domain.ModeChart, run.Mode)
	assert.Equal(t, start, run.GeneratedAt)
	assert.Equal(t, r.got, run.Totals)
}

func TestRun_ArchiveFailure(t *testing.T) {
	r := &fakeRenderer{mode: domain.ModeChart}
	uc := newUseCase(fakeSource{entries: sampleEntries()}, r)
	uc.Archive = &fakeArchive{err: errors.New("db down")}

	var runErr *RunError
	require.True(t, errors.As(uc.Run(context.Background()), &runErr))
	assert.Equal(t, StageArchive, runErr.Stage)
}

func TestRun_MissingDependencies(t *testing.T) {
	uc := &ReportUseCase{Log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	assert.Error(t, uc.Run(context.Background()))
}
