// Package searcher decorates a search cluster client with logging and metrics.
package searcher

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/triage-api/internal/db"
	"github.com/kailas-cloud/triage-api/internal/domain/search/query"
	"github.com/kailas-cloud/triage-api/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/triage-api/internal/logger"
	"github.com/kailas-cloud/triage-api/internal/metrics"
)

// Compile-time check: Instrumented implements db.Searcher.
var _ db.Searcher = (*Instrumented)(nil)

// Instrumented wraps a db.Searcher with per-call logging and Prometheus metrics.
// Callers must have invoked metrics.RegisterSearchMetrics.
type Instrumented struct {
	inner  db.Searcher
	logger *zap.Logger
}

// NewInstrumented wraps inner. logger is used when the call context carries none.
func NewInstrumented(inner db.Searcher, logger *zap.Logger) *Instrumented {
	return &Instrumented{inner: inner, logger: logger}
}

// Search delegates to the inner searcher and records the outcome.
func (s *Instrumented) Search(
	ctx context.Context, index string, body query.Body, size int,
) (*result.Response, error) {
	log := logpkg.FromContextOr(ctx, s.logger)
	log.Debug("Executing search",
		zap.String("index", index),
		zap.Int("size", size),
		zap.Any("body", body),
	)

	start := time.Now()
	resp, err := s.inner.Search(ctx, index, body, size)
	return s.observe(log, db.OpSearch, index, start, resp, err)
}

// AggSearch delegates to the inner searcher and records the outcome.
func (s *Instrumented) AggSearch(
	ctx context.Context, index string, body query.Body,
) (*result.Response, error) {
	log := logpkg.FromContextOr(ctx, s.logger)
	log.Debug("Executing aggregation",
		zap.String("index", index),
		zap.Any("body", body),
	)

	start := time.Now()
	resp, err := s.inner.AggSearch(ctx, index, body)
	return s.observe(log, db.OpAggSearch, index, start, resp, err)
}

func (s *Instrumented) observe(
	log *zap.Logger, op, index string, start time.Time,
	resp *result.Response, err error,
) (*result.Response, error) {
	duration := time.Since(start)
	metrics.SearchRequestDuration.WithLabelValues(op).Observe(duration.Seconds())

	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(op, "error").Inc()
		log.Error("Search cluster request failed",
			zap.String("operation", op),
			zap.String("index", index),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	total := resp.Total()
	metrics.SearchRequestsTotal.WithLabelValues(op, "ok").Inc()
	metrics.SearchHitsTotal.WithLabelValues(op).Add(float64(total))
	log.Debug("Search cluster request completed",
		zap.String("operation", op),
		zap.String("index", index),
		zap.Duration("duration", duration),
		zap.Int64("hits", total),
	)
	return resp, nil
}
