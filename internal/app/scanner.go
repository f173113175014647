// internal/app/scanner.go
// Application orchestrator: scatter to the engine, gather in the collector

package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aspnmy/stripescan/internal/collector"
	"github.com/aspnmy/stripescan/internal/models"
	"github.com/aspnmy/stripescan/internal/output"
	"github.com/aspnmy/stripescan/internal/scanner"
	"github.com/aspnmy/stripescan/pkg/logger"
)

// ScannerApp orchestrates the scanning process
type ScannerApp struct {
	engine    scanner.Engine
	collector *collector.Collector
	formatter output.Formatter
	progress  io.Writer
	out       io.Writer
}

// ScannerDeps holds dependencies for the scanner app
type ScannerDeps struct {
	Engine    scanner.Engine
	Collector *collector.Collector // nil = default collector
	Formatter output.Formatter
	Progress  io.Writer // same writer the engine marks discoveries on
	Out       io.Writer // report destination
}

// NewScannerApp creates a new scanner application
func NewScannerApp(deps ScannerDeps) *ScannerApp {
	c := deps.Collector
	if c == nil {
		c = collector.New(time.Second)
	}
	progress := deps.Progress
	if progress == nil {
		progress = io.Discard
	}
	return &ScannerApp{
		engine:    deps.Engine,
		collector: c,
		formatter: deps.Formatter,
		progress:  progress,
		out:       deps.Out,
	}
}

// Run scans cfg.Target to completion and writes the sorted report.
func (app *ScannerApp) Run(ctx context.Context, cfg models.ScanConfig) (models.Report, error) {
	logger.Info("Starting scan",
		logger.String("target", cfg.Target.String()),
		logger.Uint16("workers", cfg.Workers),
		logger.String("engine", app.engine.Name()),
	)

	start := time.Now()
	results, err := app.engine.Scan(ctx, cfg)
	if err != nil {
		return models.Report{}, fmt.Errorf("failed to start scan: %w", err)
	}

	open := app.collector.Collect(results)

	// Terminates the line of progress dots.
	if _, err := io.WriteString(app.progress, "\n"); err != nil {
		logger.Warn("Failed to write progress newline", logger.Err(err))
	}

	report := models.Report{
		Target:    cfg.Target,
		Workers:   cfg.Workers,
		OpenPorts: open,
		Elapsed:   time.Since(start),
	}

	if err := app.formatter.Format(app.out, report); err != nil {
		return report, fmt.Errorf("failed to write %s report: %w", app.formatter.Name(), err)
	}

	logger.Info("Scan complete",
		logger.Int("open", len(open)),
		logger.Uint16("workers", cfg.Workers),
		logger.Uint16s("ports", open),
		logger.Duration("duration", report.Elapsed),
	)

	return report, nil
}

// Close releases the engine
func (app *ScannerApp) Close() error {
	if app.engine == nil {
		return nil
	}
	return app.engine.Close()
}
