// Package analytics records search events off the request path. Recording is
// best-effort: pool saturation and sink failures are logged and dropped, never
// surfaced to the caller.
package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/findex/internal/domain"
	"github.com/kailas-cloud/findex/internal/domain/search/filter"
	searchuc "github.com/kailas-cloud/findex/internal/usecase/search"
)

// DefaultPoolSize bounds concurrent analytics deliveries.
const DefaultPoolSize = 8

// SearchEvent is the persisted analytics record for one search.
type SearchEvent struct {
	ID          string
	Query       string
	ResultCount int
	Total       int
	Duration    time.Duration
	Filters     filter.Filters
	Tiers       []domain.Tier
	RecordedAt  time.Time
}

// Sink delivers analytics events (e.g. to a log pipeline or event store).
type Sink interface {
	Deliver(event SearchEvent) error
}

// Recorder implements search.AnalyticsRecorder on a bounded worker pool.
type Recorder struct {
	sink   Sink
	pool   *ants.Pool
	logger *zap.Logger
}

var _ searchuc.AnalyticsRecorder = (*Recorder)(nil)

// New creates a recorder with a worker pool of the given size
// (DefaultPoolSize if <= 0).
func New(sink Sink, poolSize int, logger *zap.Logger) (*Recorder, error) {
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}
	pool, err := ants.NewPool(poolSize, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}
	return &Recorder{sink: sink, pool: pool, logger: logger}, nil
}

// Record submits the event to the pool and returns immediately. When the pool
// is saturated the event is dropped with a warning.
func (r *Recorder) Record(event searchuc.Event) {
	record := SearchEvent{
		ID:          uuid.NewString(),
		Query:       event.Query,
		ResultCount: event.ResultCount,
		Total:       event.Total,
		Duration:    event.Duration,
		Filters:     event.Filters,
		Tiers:       event.Tiers,
		RecordedAt:  time.Now().UTC(),
	}

	err := r.pool.Submit(func() {
		if err := r.sink.Deliver(record); err != nil {
			r.logger.Warn("Failed to deliver search analytics event",
				zap.String("event_id", record.ID),
				zap.Error(err),
			)
		}
	})
	if err != nil {
		r.logger.Warn("Analytics pool saturated, dropping event",
			zap.String("event_id", record.ID),
			zap.Error(err),
		)
	}
}

// Close releases the worker pool.
func (r *Recorder) Close() {
	r.pool.Release()
}

// LogSink writes events to the service log at info level.
type LogSink struct {
	Logger *zap.Logger
}

// Deliver implements Sink.
func (s *LogSink) Deliver(event SearchEvent) error {
	s.Logger.Info("search_event",
		zap.String("event_id", event.ID),
		zap.String("query", event.Query),
		zap.Int("result_count", event.ResultCount),
		zap.Int("total", event.Total),
		zap.Duration("duration", event.Duration),
	)
	return nil
}
