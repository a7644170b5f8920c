package app

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"timesheet-report/internal/domain"
)

var errRunInProgress = errors.New("report already running")

// HTTPServer returns a configured http.Server exposing health, metrics and
// report endpoints. Call ListenAndServe on the returned server in a goroutine
// and Shutdown it on exit.
func (a *App) HTTPServer(addr string) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           loggingMiddleware(a.log, a.routes()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.log.Info("http trigger server configured", slog.String("addr", addr))
	return srv
}

func (a *App) routes() http.Handler {
	mux := http.NewServeMux()
	var running atomic.Bool

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", promhttp.Handler())

	// /report?format=png|html streams a freshly rendered artifact without
	// touching the output files.
	mux.HandleFunc("/report", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		mode, ok := formatMode(r.URL.Query().Get("format"))
		if !ok {
			http.Error(w, "format must be png or html", http.StatusBadRequest)
			return
		}

		totals, err := a.UseCase(mode).Totals(r.Context())
		if err != nil {
			writeJSON(w, http.StatusBadGateway, map[string]any{"status": "error", "error": err.Error()})
			return
		}

		switch mode {
		case domain.ModeChart:
			if len(totals) == 0 {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			w.Header().Set("Content-Type", "image/png")
			err = a.chart.Encode(w, totals)
		default:
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			err = a.table.Encode(w, totals)
		}
		if err != nil {
			a.log.Error("streaming report failed", slog.String("error", err.Error()))
		}
	})

	// /run?mode=chart|table writes the artifact to its configured path.
	mux.HandleFunc("/run", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		mode := a.cfg.Report.Mode
		if m := r.URL.Query().Get("mode"); m != "" {
			mode = domain.ReportMode(m)
		}
		if !mode.Valid() {
			http.Error(w, "mode must be chart or table", http.StatusBadRequest)
			return
		}

		if !running.CompareAndSwap(false, true) {
			writeJSON(w, http.StatusConflict, map[string]any{"status": "error", "error": errRunInProgress.Error()})
			return
		}
		defer running.Store(false)

		if err := a.RunOnce(r.Context(), mode); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"status": "error",
				"mode":   mode,
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "mode": mode})
	})

	return mux
}

func formatMode(format string) (domain.ReportMode, bool) {
	switch format {
	case "", "png":
		return domain.ModeChart, true
	case "html":
		return domain.ModeTable, true
	}
	return "", false
}

func writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// loggingMiddleware provides basic request logging.
func loggingMiddleware(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote", r.RemoteAddr),
			slog.Duration("dur", time.Since(start)),
		)
	})
}
