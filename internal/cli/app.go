package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/aavadhan10/ogc-dashboard/internal/adapters/otel"
	"github.com/aavadhan10/ogc-dashboard/internal/adapters/sqlite"
	"github.com/aavadhan10/ogc-dashboard/internal/analytics"
	"github.com/aavadhan10/ogc-dashboard/internal/config"
	"github.com/aavadhan10/ogc-dashboard/internal/ingest"
)

// AppContext holds the shared dependencies behind every CLI command.
type AppContext struct {
	Config   *config.Config
	Store    *sqlite.Store
	Cache    *ingest.Cache
	Service  *analytics.Service
	Recorder analytics.Recorder

	closers []func() error
}

// NewAppContext wires config, storage, metrics and the analytics service.
func NewAppContext(ctx context.Context) (*AppContext, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	db, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	var recorder analytics.Recorder
	exporter, err := otel.NewExporter(ctx, otel.LoadConfig())
	if err != nil {
		// Offline by default: metrics export is opt-in via environment.
		recorder = otel.NewNoOpExporter()
	} else {
		recorder = exporter
	}

	store := sqlite.NewStore(db)
	service := analytics.NewService(store, &consoleLogger{}, recorder, analytics.Options{
		BillableLabels:  cfg.BillableActivities,
		BandLadder:      cfg.ClientBands(),
		PeriodsOverride: cfg.UtilizationPeriods,
	})

	return &AppContext{
		Config:   cfg,
		Store:    store,
		Cache:    ingest.NewCache(),
		Service:  service,
		Recorder: recorder,
		closers: []func() error{
			db.Close,
			func() error { return recorder.Close(context.Background()) },
		},
	}, nil
}

// Close releases all resources held by the AppContext.
func (a *AppContext) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type consoleLogger struct{}

func (l *consoleLogger) Debug(msg string) {
	// Silent by default; the TUI owns the terminal.
}

func (l *consoleLogger) Warn(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

func (l *consoleLogger) Error(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}
