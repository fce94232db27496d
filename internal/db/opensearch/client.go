// Package opensearch implements db.Store for OpenSearch clusters.
package opensearch

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	osearch "github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/kailas-cloud/triage-api/internal/db"
	"github.com/kailas-cloud/triage-api/internal/domain/search/query"
	"github.com/kailas-cloud/triage-api/internal/domain/search/result"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds connection parameters for an OpenSearch cluster.
type Config struct {
	Addrs    []string
	Username string
	Password string
}

// Store implements db.Store via opensearch-go request structs.
type Store struct {
	client *osearch.Client
}

// NewStore creates an OpenSearch store.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := osearch.NewClient(osearch.Config{
		Addresses: cfg.Addrs,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Store{client: client}, nil
}

// Search runs body against index and returns at most size hits.
func (s *Store) Search(ctx context.Context, index string, body query.Body, size int) (*result.Response, error) {
	return s.do(ctx, db.OpSearch, index, body, size)
}

// AggSearch runs body against index with size=0.
func (s *Store) AggSearch(ctx context.Context, index string, body query.Body) (*result.Response, error) {
	return s.do(ctx, db.OpAggSearch, index, body, 0)
}

func (s *Store) do(ctx context.Context, op, index string, body query.Body, size int) (*result.Response, error) {
	data, err := body.JSON()
	if err != nil {
		return nil, &db.Error{Op: op, Err: err}
	}

	req := opensearchapi.SearchRequest{
		Index: splitIndex(index),
		Body:  bytes.NewReader(data),
		Size:  &size,
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, &db.Error{Op: op, Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	return db.DecodeResponse(op, res.StatusCode, res.Body)
}

// splitIndex turns a comma-separated index expression into the request's index list.
func splitIndex(index string) []string {
	parts := strings.Split(index, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	res, err := opensearchapi.PingRequest{}.Do(ctx, s.client)
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return &db.Error{Op: db.OpPing, Err: db.StatusError(res.StatusCode, nil)}
	}
	return nil
}

// Close is a no-op for the HTTP client.
func (s *Store) Close() {}

// WaitForReady polls Ping until the cluster responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.WaitForReady(ctx, s, timeout)
}
