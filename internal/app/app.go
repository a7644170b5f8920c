package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	msql "timesheet-report/internal/adapter/mysql"
	"timesheet-report/internal/adapter/timesheet"
	"timesheet-report/internal/config"
	"timesheet-report/internal/domain"
	"timesheet-report/internal/migrate"
	"timesheet-report/internal/ports"
	"timesheet-report/internal/render/chart"
	"timesheet-report/internal/render/table"
	"timesheet-report/internal/report"
	"timesheet-report/internal/usecase"
)

// App wires adapters and use cases.
type App struct {
	log     *slog.Logger
	cfg     config.Config
	source  ports.TimeEntrySource
	chart   *chart.Renderer
	table   *table.Renderer
	archive *msql.Archive
}

// New builds the adapters described by cfg. When a MySQL DSN is configured,
// migrations run before the archive is opened.
func New(log *slog.Logger, cfg config.Config) (*App, error) {
	source := timesheet.NewClient(cfg.API.URL, cfg.API.Key, cfg.API.Timeout, log)

	seed := cfg.Report.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	chartRenderer, err := chart.NewRenderer(cfg.Report.ChartPath, rand.New(rand.NewSource(seed)), log)
	if err != nil {
		return nil, err
	}
	a := &App{
		log:    log,
		cfg:    cfg,
		source: source,
		chart:  chartRenderer,
		table:  table.NewRenderer(cfg.Report.TablePath, log),
	}

	if cfg.MySQL.DSN != "" {
		if err := migrate.Run(context.Background(), cfg.MySQL.DSN, log); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		archive, err := msql.NewArchive(context.Background(), cfg.MySQL.DSN, log)
		if err != nil {
			return nil, err
		}
		a.archive = archive
	}
	return a, nil
}

// UseCase returns the report use case for mode.
func (a *App) UseCase(mode domain.ReportMode) *usecase.ReportUseCase {
	uc := &usecase.ReportUseCase{
		Log:      a.log.With(slog.String("mode", string(mode))),
		Source:   a.source,
		Renderer: a.renderer(mode),
		Options:  report.Options{PositiveOnly: a.cfg.PositiveOnly(mode)},
	}
	if a.archive != nil {
		uc.Archive = a.archive
	}
	return uc
}

// RunOnce produces one report artifact for mode.
func (a *App) RunOnce(ctx context.Context, mode domain.ReportMode) error {
	return a.UseCase(mode).Run(ctx)
}

// Close releases the archive connection, if any.
func (a *App) Close() error {
	if a.archive == nil {
		return nil
	}
	return a.archive.Close()
}

func (a *App) renderer(mode domain.ReportMode) ports.Renderer {
	if mode == domain.ModeTable {
		return a.table
	}
	return a.chart
}
