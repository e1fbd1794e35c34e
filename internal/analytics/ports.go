package analytics

import (
	"context"
	"time"

	"github.com/aavadhan10/ogc-dashboard/internal/domain"
)

// DatasetProvider yields the loaded, immutable dataset for a render pass.
// Implementations memoize: the CSV cache and the sqlite store both return
// structurally identical datasets for identical source content.
type DatasetProvider interface {
	Dataset(ctx context.Context) (*domain.Dataset, error)
}

// Logger defines the interface for logging.
type Logger interface {
	Debug(msg string)
	Warn(msg string)
	Error(msg string)
}

// Recorder exports pipeline measurements to an observability backend.
// The no-op implementation keeps the dashboard working offline.
type Recorder interface {
	RecordLoad(ctx context.Context, rows int, warnings int, took time.Duration)
	RecordAggregation(ctx context.Context, entries int, took time.Duration)
	Close(ctx context.Context) error
}
