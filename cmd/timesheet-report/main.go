package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"timesheet-report/internal/app"
	"timesheet-report/internal/config"
	"timesheet-report/internal/domain"
)

func main() {
	// Flags
	mode := flag.String("mode", "", "Output mode: chart or table (default: REPORT_MODE or chart)")
	serve := flag.String("serve", "", "Serve the report endpoints on this address instead of running once")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	flag.Parse()

	// Local .env is optional
	_ = godotenv.Load()

	// Logger
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *mode != "" {
		cfg.Report.Mode = domain.ReportMode(*mode)
		if !cfg.Report.Mode.Valid() {
			logger.Error("invalid -mode, expected chart or table", slog.String("mode", *mode))
			os.Exit(1)
		}
	}

	// App
	application, err := app.New(logger, cfg)
	if err != nil {
		logger.Error("failed to initialize app", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer application.Close()

	// Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *serve != "" {
		runServer(ctx, application, *serve, logger)
		return
	}

	// A failed run is reported on the console; the process still exits 0.
	if err := application.RunOnce(ctx, cfg.Report.Mode); err != nil {
		logger.Error("report failed", slog.String("mode", string(cfg.Report.Mode)), slog.String("error", err.Error()))
		if cfg.Report.Mode == domain.ModeTable {
			logger.Error("stack trace", slog.String("trace", fmt.Sprintf("%+v", err)))
		}
		return
	}
	logger.Info("report completed", slog.String("mode", string(cfg.Report.Mode)))
}

func runServer(ctx context.Context, application *app.App, addr string, logger *slog.Logger) {
	srv := application.HTTPServer(addr)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", slog.String("error", err.Error()))
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", slog.String("error", err.Error()))
	}
}
