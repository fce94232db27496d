package search

import (
	"context"

	"github.com/kailas-cloud/triage-api/internal/domain/search/query"
	"github.com/kailas-cloud/triage-api/internal/domain/search/result"
)

// Searcher fetches documents from the search cluster.
type Searcher interface {
	Search(ctx context.Context, index string, body query.Body, size int) (*result.Response, error)
}
