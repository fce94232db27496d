// Package stats aggregates pattern matches into facets and timelines.
package stats

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/triage-api/internal/domain"
	"github.com/kailas-cloud/triage-api/internal/domain/search/query"
	"github.com/kailas-cloud/triage-api/internal/domain/search/request"
	"github.com/kailas-cloud/triage-api/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/triage-api/internal/logger"
)

// Aggregation names; they double as the response keys.
const (
	AggFiles          = "files"
	AggTrains         = "trains"
	AggTests          = "tests"
	AggErrorsOverTime = "errors_over_time"
)

// Facet describes a terms aggregation over one identifier field.
type Facet struct {
	Name  string
	Field string
}

// Supported facets.
var (
	FacetFiles  = Facet{Name: AggFiles, Field: request.FieldFileName}
	FacetTrains = Facet{Name: AggTrains, Field: request.FieldTrainID}
	FacetTests  = Facet{Name: AggTests, Field: request.FieldTestID}
)

// Service runs aggregation queries.
type Service struct {
	aggs    Aggregator
	index   string
	maxSize int
}

// New creates a stats service querying index.
func New(aggs Aggregator, index string) *Service {
	return &Service{aggs: aggs, index: index}
}

// WithMaxSize caps the number of buckets a single request may ask for.
func (s *Service) WithMaxSize(maxSize int) *Service {
	if maxSize > 0 {
		s.maxSize = maxSize
	}
	return s
}

// Count returns the distinct values of the facet field among pattern matches,
// with per-value document counts in cluster order.
func (s *Service) Count(ctx context.Context, facet Facet, req *request.Request) ([]result.Bucket, error) {
	r := req.WithMaxSize(s.maxSize)
	body := query.TermsAggregation(facet.Name, facet.Field, r.Pattern(), r.Days(), r.Size())

	resp, err := s.aggs.AggSearch(ctx, s.index, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s aggregation for %q: %w", domain.ErrUpstream, facet.Name, r.Pattern(), err)
	}

	buckets := resp.Buckets(facet.Name)
	logpkg.FromContext(ctx).Info("Aggregated pattern matches",
		zap.String("facet", facet.Name),
		zap.String("pattern", r.Pattern()),
		zap.Int("buckets", len(buckets)),
	)
	return buckets, nil
}

// Files counts pattern matches per file name.
func (s *Service) Files(ctx context.Context, req *request.Request) ([]result.Bucket, error) {
	return s.Count(ctx, FacetFiles, req)
}

// Trains counts pattern matches per training job.
func (s *Service) Trains(ctx context.Context, req *request.Request) ([]result.Bucket, error) {
	return s.Count(ctx, FacetTrains, req)
}

// Tests counts pattern matches per test job.
func (s *Service) Tests(ctx context.Context, req *request.Request) ([]result.Bucket, error) {
	return s.Count(ctx, FacetTests, req)
}

// Timeline buckets pattern matches per day. The aggregations object is returned as received.
func (s *Service) Timeline(ctx context.Context, req *request.Request) (json.RawMessage, error) {
	body := query.DateHistogram(AggErrorsOverTime, req.Pattern(), req.Days(), query.DayInterval)

	resp, err := s.aggs.AggSearch(ctx, s.index, body)
	if err != nil {
		return nil, fmt.Errorf("%w: timeline for %q: %w", domain.ErrUpstream, req.Pattern(), err)
	}

	logpkg.FromContext(ctx).Info("Retrieved timeline stats", zap.String("pattern", req.Pattern()))
	return resp.Aggregations(), nil
}
