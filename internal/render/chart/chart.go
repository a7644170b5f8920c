// Package chart draws aggregated employee hours as a pie chart PNG.
package chart

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"timesheet-report/internal/domain"
	"timesheet-report/internal/report"
)

const (
	Width  = 800
	Height = 600

	pieX    = 50
	pieY    = 50
	pieSize = 500

	legendX      = 580
	legendY      = 50
	legendRow    = 20
	legendSwatch = 15
	legendGap    = 20

	titleY = 10
	Title  = "Employee Time Distribution"

	// channel range for slice colors, kept mid-tone so slices read on the
	// light background
	channelMin = 100
	channelMax = 200
)

var (
	background = color.RGBA{R: 0xF5, G: 0xF5, B: 0xF5, A: 0xFF}
	titleColor = color.RGBA{R: 0x00, G: 0x00, B: 0x8B, A: 0xFF}
)

// Slice is one employee's wedge of the pie. Angles are in degrees, clockwise
// from the positive x axis.
type Slice struct {
	Employee domain.EmployeeTotal
	Start    float64
	Sweep    float64
	Color    color.RGBA
}

// Renderer draws totals as a pie chart with a legend and writes it as PNG.
type Renderer struct {
	path  string
	mu    sync.Mutex // guards rng
	rng   *rand.Rand
	log   *slog.Logger
	label font.Face
	title font.Face
}

// NewRenderer returns a Renderer writing to path. rng drives slice colors;
// pass a seeded source for reproducible output.
func NewRenderer(path string, rng *rand.Rand, log *slog.Logger) (*Renderer, error) {
	label, err := loadFace(goregular.TTF, 11)
	if err != nil {
		return nil, fmt.Errorf("chart: load label font: %w", err)
	}
	title, err := loadFace(gobold.TTF, 18)
	if err != nil {
		return nil, fmt.Errorf("chart: load title font: %w", err)
	}
	return &Renderer{path: path, rng: rng, log: log, label: label, title: title}, nil
}

func loadFace(ttf []byte, points float64) (font.Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: points}), nil
}

func (r *Renderer) Mode() domain.ReportMode { return domain.ModeChart }

// Render writes the chart to the configured path, replacing any existing
// file. Empty totals produce no file.
func (r *Renderer) Render(ctx context.Context, totals []domain.EmployeeTotal) error {
	if len(totals) == 0 {
		r.log.Info("no valid data to generate chart")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.log.Info("generating pie chart", slog.Int("employees", len(totals)))

	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("chart: create %s: %w", r.path, err)
	}
	if err := r.Encode(f, totals); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("chart: close %s: %w", r.path, err)
	}
	r.log.Info("pie chart saved", slog.String("path", r.path))
	return nil
}

// Encode draws the chart and writes it to w as PNG.
func (r *Renderer) Encode(w io.Writer, totals []domain.EmployeeTotal) error {
	dc := r.draw(totals)
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("chart: encode png: %w", err)
	}
	return nil
}

// Draw returns the rendered chart image.
func (r *Renderer) Draw(totals []domain.EmployeeTotal) image.Image {
	return r.draw(totals).Image()
}

func (r *Renderer) draw(totals []domain.EmployeeTotal) *gg.Context {
	dc := gg.NewContext(Width, Height)
	dc.SetColor(background)
	dc.Clear()

	r.mu.Lock()
	slices := Layout(totals, r.rng)
	r.mu.Unlock()

	cx := float64(pieX + pieSize/2)
	cy := float64(pieY + pieSize/2)
	radius := float64(pieSize / 2)
	for _, s := range slices {
		dc.MoveTo(cx, cy)
		dc.DrawArc(cx, cy, radius, gg.Radians(s.Start), gg.Radians(s.Start+s.Sweep))
		dc.ClosePath()
		dc.SetColor(s.Color)
		dc.Fill()
	}

	dc.SetFontFace(r.label)
	y := float64(legendY)
	for _, s := range slices {
		dc.SetColor(s.Color)
		dc.DrawRectangle(legendX, y, legendSwatch, legendSwatch)
		dc.Fill()

		dc.SetColor(color.Black)
		dc.DrawStringAnchored(Label(s.Employee), legendX+legendGap, y, 0, 1)
		y += legendRow
	}

	dc.SetFontFace(r.title)
	dc.SetColor(titleColor)
	dc.DrawStringAnchored(Title, Width/2, titleY, 0.5, 1)
	return dc
}

// Layout computes the pie slices for totals. Each sweep is proportional to the
// employee's share of all hours and slices follow each other from 0°. One
// color is drawn from rng per employee.
func Layout(totals []domain.EmployeeTotal, rng *rand.Rand) []Slice {
	sum := report.Sum(totals)
	out := make([]Slice, 0, len(totals))
	start := 0.0
	for _, t := range totals {
		sweep := 0.0
		if sum != 0 && !math.IsNaN(sum) {
			sweep = t.TotalHours / sum * 360
		}
		out = append(out, Slice{Employee: t, Start: start, Sweep: sweep, Color: randomColor(rng)})
		start += sweep
	}
	return out
}

// Label is the legend text for one employee.
func Label(t domain.EmployeeTotal) string {
	return fmt.Sprintf("%s (%.2fh)", t.Name, t.TotalHours)
}

func randomColor(rng *rand.Rand) color.RGBA {
	channel := func() uint8 {
		return uint8(channelMin + rng.Intn(channelMax-channelMin))
	}
	return color.RGBA{R: channel(), G: channel(), B: channel(), A: 0xFF}
}
