package triage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/triage-api/internal/domain/search/request"
	statsuc "github.com/kailas-cloud/triage-api/internal/usecase/stats"
)

// StatsService aggregates messages containing a pattern.
type StatsService struct {
	svc         statsUseCase
	defaultDays int
	obs         *observer
}

// Files counts matches per file name.
func (s *StatsService) Files(ctx context.Context, pattern string, opts ...QueryOption) ([]Bucket, error) {
	return s.count(ctx, "stats.files", statsuc.FacetFiles, request.DefaultFilesSize, pattern, opts)
}

// Trains counts matches per training job.
func (s *StatsService) Trains(ctx context.Context, pattern string, opts ...QueryOption) ([]Bucket, error) {
	return s.count(ctx, "stats.trains", statsuc.FacetTrains, request.DefaultTrainsSize, pattern, opts)
}

// Tests counts matches per test job.
func (s *StatsService) Tests(ctx context.Context, pattern string, opts ...QueryOption) ([]Bucket, error) {
	return s.count(ctx, "stats.tests", statsuc.FacetTests, request.DefaultTestsSize, pattern, opts)
}

func (s *StatsService) count(
	ctx context.Context, op string, facet statsuc.Facet, defaultSize int, pattern string, opts []QueryOption,
) (out []Bucket, err error) {
	start := time.Now()
	defer func() { s.obs.observe(op, start, len(out), err) }()

	qc := buildQuery(opts)
	req, err := request.NewPattern(pattern, qc.daysOr(s.defaultDays), qc.sizeOr(defaultSize))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	buckets, err := s.svc.Count(ctx, facet, &req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out = make([]Bucket, len(buckets))
	for i, b := range buckets {
		out[i] = Bucket{Key: b.Key, DocCount: b.DocCount}
	}
	return out, nil
}

// Timeline returns the raw aggregations object with daily match counts under "errors_over_time".
// WithSize is ignored; WithDays defaults to 30.
func (s *StatsService) Timeline(ctx context.Context, pattern string, opts ...QueryOption) (aggs json.RawMessage, err error) {
	start := time.Now()
	defer func() { s.obs.observe("stats.timeline", start, 0, err) }()

	qc := buildQuery(opts)
	req, err := request.NewPattern(pattern, qc.daysOr(request.DefaultTimelineDays), 0)
	if err != nil {
		return nil, fmt.Errorf("stats.timeline: %w", err)
	}

	aggs, err = s.svc.Timeline(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("stats.timeline: %w", err)
	}
	return aggs, nil
}
