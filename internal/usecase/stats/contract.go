package stats

import (
	"context"

	"github.com/kailas-cloud/triage-api/internal/domain/search/query"
	"github.com/kailas-cloud/triage-api/internal/domain/search/result"
)

// Aggregator runs aggregation-only searches.
type Aggregator interface {
	AggSearch(ctx context.Context, index string, body query.Body) (*result.Response, error)
}
