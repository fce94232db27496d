package db

import (
	"context"
	"time"

	"github.com/kailas-cloud/triage-api/internal/domain/search/query"
	"github.com/kailas-cloud/triage-api/internal/domain/search/result"
)

// Store is the search cluster facade implemented by each driver.
type Store interface {
	Pinger
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks cluster connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Searcher runs read-only search requests against an index pattern.
type Searcher interface {
	// Search returns at most size hits for body.
	Search(ctx context.Context, index string, body query.Body, size int) (*result.Response, error)
	// AggSearch runs body with size=0 so only aggregations come back.
	AggSearch(ctx context.Context, index string, body query.Body) (*result.Response, error)
}
