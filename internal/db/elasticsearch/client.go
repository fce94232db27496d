// Package elasticsearch implements db.Store on top of the official Elasticsearch client.
package elasticsearch

import (
	"bytes"
	"context"
	"fmt"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/kailas-cloud/triage-api/internal/db"
	"github.com/kailas-cloud/triage-api/internal/domain/search/query"
	"github.com/kailas-cloud/triage-api/internal/domain/search/result"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds connection parameters for an Elasticsearch cluster.
type Config struct {
	Addrs    []string
	Username string
	Password string
}

// Store implements db.Store via go-elasticsearch.
type Store struct {
	client *es.Client
}

// NewStore creates an Elasticsearch store. No request is made until first use.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := es.NewClient(es.Config{
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
	return s.search(ctx, db.OpSearch, index, body, size)
}

// AggSearch runs body against index with size=0.
func (s *Store) AggSearch(ctx context.Context, index string, body query.Body) (*result.Response, error) {
	return s.search(ctx, db.OpAggSearch, index, body, 0)
}

func (s *Store) search(
	ctx context.Context, op, index string, body query.Body, size int,
) (*result.Response, error) {
	data, err := body.JSON()
	if err != nil {
		return nil, &db.Error{Op: op, Err: err}
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(index),
		s.client.Search.WithBody(bytes.NewReader(data)),
		s.client.Search.WithSize(size),
	)
	if err != nil {
		return nil, &db.Error{Op: op, Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	return db.DecodeResponse(op, res.StatusCode, res.Body)
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return &db.Error{Op: db.OpPing, Err: db.StatusError(res.StatusCode, nil)}
	}
	return nil
}

// Close is a no-op: the HTTP transport holds no resources that need releasing.
func (s *Store) Close() {}

// WaitForReady polls Ping until the cluster responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.WaitForReady(ctx, s, timeout)
}
