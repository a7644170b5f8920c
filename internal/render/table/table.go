// Package table renders aggregated employee hours as an HTML table.
package table

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"

	"timesheet-report/internal/domain"
)

// LowHoursThreshold marks rows below this many hours with the low-hours class.
const LowHoursThreshold = 100.0

//go:embed templates/report.html
var templatesFS embed.FS

var reportTmpl = template.Must(template.ParseFS(templatesFS, "templates/report.html"))

type row struct {
	Name  string
	Hours string
	Low   bool
}

// Renderer writes totals as a static HTML document.
type Renderer struct {
	path string
	log  *slog.Logger
}

func NewRenderer(path string, log *slog.Logger) *Renderer {
	return &Renderer{path: path, log: log}
}

func (r *Renderer) Mode() domain.ReportMode { return domain.ModeTable }

// Render writes the document to the configured path, replacing any existing
// file. Empty totals still produce a document with the header row only.
func (r *Renderer) Render(ctx context.Context, totals []domain.EmployeeTotal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.log.Info("generating html table", slog.Int("employees", len(totals)))

	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("table: create %s: %w", r.path, err)
	}
	if err := r.Encode(f, totals); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("table: close %s: %w", r.path, err)
	}
	r.log.Info("html table saved", slog.String("path", r.path))
	return nil
}

// Encode writes the HTML document for totals to w. Names are escaped.
func (r *Renderer) Encode(w io.Writer, totals []domain.EmployeeTotal) error {
	rows := make([]row, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, row{
			Name:  t.Name,
			Hours: fmt.Sprintf("%.2f", t.TotalHours),
			Low:   t.TotalHours < LowHoursThreshold,
		})
	}
	if err := reportTmpl.Execute(w, struct{ Rows []row }{rows}); err != nil {
		return fmt.Errorf("table: execute template: %w", err)
	}
	return nil
}
