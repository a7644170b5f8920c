package mysql

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"timesheet-report/internal/domain"
	"timesheet-report/internal/report"
)

// Archive implements ports.Archive by writing report runs to MySQL.
type Archive struct {
	db  *sql.DB
	log *slog.Logger
}

// NewArchive opens a MySQL connection using the provided DSN.
// Example DSN: user:pass@tcp(host:3306)/dbname?parseTime=true&multiStatements=true
func NewArchive(ctx context.Context, dsn string, log *slog.Logger) (*Archive, error) {
	if dsn == "" {
		return nil, errors.New("mysql: DSN is required")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	// A run writes one report; keep the pool small.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(c); err != nil {
		db.Close()
		return nil, err
	}
	return &Archive{db: db, log: log}, nil
}

// SaveReport stores the run header and one row per employee in a single
// transaction.
func (a *Archive) SaveReport(ctx context.Context, run domain.ReportRun) error {
	tx, err := a.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	const insertRun = `
INSERT INTO report_runs
  (id, mode, generated_at, employee_count, total_hours)
VALUES
  (?, ?, ?, ?, ?);
`
	if _, err := tx.ExecContext(
		ctx,
		insertRun,
		run.ID,
		string(run.Mode),
		run.GeneratedAt.UTC(),
		len(run.Totals),
		report.Sum(run.Totals),
	); err != nil {
		tx.Rollback()
		return err
	}

	const insertTotal = `
INSERT INTO report_totals
  (run_id, position, employee, total_hours)
VALUES
  (?, ?, ?, ?);
`
	stmt, err := tx.PrepareContext(ctx, insertTotal)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i, t := range run.Totals {
		if _, err := stmt.ExecContext(ctx, run.ID, i, t.Name, t.TotalHours); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	a.log.Info("mysql archive stored report", slog.String("id", run.ID), slog.Int("employees", len(run.Totals)))
	return nil
}

// LatestReport loads the most recently generated run, or sql.ErrNoRows when
// the archive is empty.
func (a *Archive) LatestReport(ctx context.Context) (domain.ReportRun, error) {
	var (
		run  domain.ReportRun
		mode string
	)
	err := a.db.QueryRowContext(ctx,
		"SELECT id, mode, generated_at FROM report_runs ORDER BY generated_at DESC LIMIT 1",
	).Scan(&run.ID, &mode, &run.GeneratedAt)
	if err != nil {
		return run, err
	}
	run.Mode = domain.ReportMode(mode)

	rows, err := a.db.QueryContext(ctx,
		"SELECT employee, total_hours FROM report_totals WHERE run_id = ? ORDER BY position", run.ID)
	if err != nil {
		return run, err
	}
	defer rows.Close()
	for rows.Next() {
		var t domain.EmployeeTotal
		if err := rows.Scan(&t.Name, &t.TotalHours); err != nil {
			return run, err
		}
		run.Totals = append(run.Totals, t)
	}
	return run, rows.Err()
}

// Close closes the underlying DB. Not wired via interface to keep ports minimal.
func (a *Archive) Close() error { return a.db.Close() }
