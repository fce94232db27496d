// Package search runs free-text searches over all log documents.
package search

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

// Page is a bounded slice of matching documents plus the cluster-reported total.
type Page struct {
	Total   int64             `json:"total"`
	Results []json.RawMessage `json:"results"`
}

// Service handles wildcard and query-string searches.
type Service struct {
	search  Searcher
	index   string
	maxSize int
}

// New creates a search service querying index.
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

// Errors finds documents whose message contains the pattern as a substring, newest first.
func (s *Service) Errors(ctx context.Context, req *request.Request) (Page, error) {
	r := req.WithMaxSize(s.maxSize)
	return s.run(ctx, "wildcard", query.WildcardSearch(r.Pattern(), r.Days()), &r)
}

// Pattern finds documents matching a Lucene query string, newest first.
func (s *Service) Pattern(ctx context.Context, req *request.Request) (Page, error) {
	r := req.WithMaxSize(s.maxSize)
	return s.run(ctx, "query_string", query.QueryStringSearch(r.Pattern(), r.Days()), &r)
}

func (s *Service) run(ctx context.Context, kind string, body query.Body, r *request.Request) (Page, error) {
	log := logpkg.FromContext(ctx)

	resp, err := s.search.Search(ctx, s.index, body, r.Size())
	if err != nil {
		return Page{}, fmt.Errorf("%w: %s search %q: %w", domain.ErrUpstream, kind, r.Pattern(), err)
	}

	page := Page{Total: resp.Total(), Results: resp.Sources()}
	log.Info("Found logs matching pattern",
		zap.String("kind", kind),
		zap.String("pattern", r.Pattern()),
		zap.Int64("total", page.Total),
		zap.Int("returned", len(page.Results)),
	)
	return page, nil
}
