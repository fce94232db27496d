// Package logs retrieves the log lines of a single training job, test job or file.
package logs

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/triage-api/internal/domain"
	"github.com/kailas-cloud/triage-api/internal/domain/search/query"
	"github.com/kailas-cloud/triage-api/internal/domain/search/request"
	logpkg "github.com/kailas-cloud/triage-api/internal/logger"
)

// Service looks up log documents by identifier.
type Service struct {
	search  Searcher
	index   string
	maxSize int
}

// New creates a logs service querying index.
func New(search Searcher, index string) *Service {
	return &Service{search: search, index: index}
}

// WithMaxSize caps the number of documents a single request may ask for.
func (s *Service) WithMaxSize(maxSize int) *Service {
	if maxSize > 0 {
		s.maxSize = maxSize
	}
	return s
}

// Fetch returns the _source of every document matching req, oldest first.
func (s *Service) Fetch(ctx context.Context, req *request.Request) ([]json.RawMessage, error) {
	r := req.WithMaxSize(s.maxSize)
	log := logpkg.FromContext(ctx)
	log.Info("Fetching logs",
		zap.String("field", r.Field()),
		zap.String("value", r.Value()),
		zap.String("pattern", r.Pattern()),
		zap.Int("days", r.Days()),
		zap.Int("size", r.Size()),
	)

	body := query.IdentifierLookup(r.Field(), r.Value(), r.Pattern(), r.Days())
	resp, err := s.search.Search(ctx, s.index, body, r.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: fetch logs for %s=%s: %w", domain.ErrUpstream, r.Field(), r.Value(), err)
	}

	log.Info("Found logs",
		zap.String("field", r.Field()),
		zap.String("value", r.Value()),
		zap.Int64("total", resp.Total()),
	)
	return resp.Sources(), nil
}
