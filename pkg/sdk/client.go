package triage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/triage-api/internal/db"
	dbElastic "github.com/kailas-cloud/triage-api/internal/db/elasticsearch"
	dbOpenSearch "github.com/kailas-cloud/triage-api/internal/db/opensearch"
	"github.com/kailas-cloud/triage-api/internal/domain/search/request"
	"github.com/kailas-cloud/triage-api/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/triage-api/internal/usecase/health"
	logsuc "github.com/kailas-cloud/triage-api/internal/usecase/logs"
	searchuc "github.com/kailas-cloud/triage-api/internal/usecase/search"
	statsuc "github.com/kailas-cloud/triage-api/internal/usecase/stats"
)

const (
	driverElasticsearch = "elasticsearch"
	driverOpenSearch    = "opensearch"

	defaultReadinessTimeout = 10 * time.Second
	defaultIndexPattern     = "cs1_logs-*"
	defaultDays             = 7
)

// Internal interfaces, swapped for mocks in tests.
type logsUseCase interface {
	Fetch(ctx context.Context, req *request.Request) ([]json.RawMessage, error)
}

type searchUseCase interface {
	Errors(ctx context.Context, req *request.Request) (searchuc.Page, error)
	Pattern(ctx context.Context, req *request.Request) (searchuc.Page, error)
}

type statsUseCase interface {
	Count(ctx context.Context, facet statsuc.Facet, req *request.Request) ([]result.Bucket, error)
	Timeline(ctx context.Context, req *request.Request) (json.RawMessage, error)
}

// Client is the triage SDK entry point.
type Client struct {
	store       db.Store
	logsSvc     logsUseCase
	searchSvc   searchUseCase
	statsSvc    statsUseCase
	healthSvc   healthUseCase
	defaultDays int
	obs         *observer
}

// New creates a Client and waits for the cluster to answer.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		indexPattern: defaultIndexPattern,
		defaultDays:  defaultDays,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("triage: cluster address required (use WithElasticsearch or WithOpenSearch)")
	}
	if cfg.defaultDays <= 0 {
		return nil, fmt.Errorf("triage: default days must be positive, got %d", cfg.defaultDays)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("triage: cluster not ready: %w", err)
	}

	return wireClient(store, cfg, obs), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case driverElasticsearch:
		s, err := dbElastic.NewStore(dbElastic.Config{
			Addrs:    cfg.addrs,
			Username: cfg.username,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("triage: create elasticsearch store: %w", err)
		}
		return s, nil
	case driverOpenSearch:
		s, err := dbOpenSearch.NewStore(dbOpenSearch.Config{
			Addrs:    cfg.addrs,
			Username: cfg.username,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("triage: create opensearch store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("triage: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	return &Client{
		store:       store,
		logsSvc:     logsuc.New(store, cfg.indexPattern).WithMaxSize(cfg.maxSize),
		searchSvc:   searchuc.New(store, cfg.indexPattern).WithMaxSize(cfg.maxSize),
		statsSvc:    statsuc.New(store, cfg.indexPattern).WithMaxSize(cfg.maxSize),
		healthSvc:   healthuc.New(store),
		defaultDays: cfg.defaultDays,
		obs:         obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks cluster connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, 0, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Logs returns the identifier lookup service.
func (c *Client) Logs() *LogsService {
	return &LogsService{svc: c.logsSvc, defaultDays: c.defaultDays, obs: c.obs}
}

// Search returns the free-text search service.
func (c *Client) Search() *SearchService {
	return &SearchService{svc: c.searchSvc, defaultDays: c.defaultDays, obs: c.obs}
}

// Stats returns the aggregation service.
func (c *Client) Stats() *StatsService {
	return &StatsService{svc: c.statsSvc, defaultDays: c.defaultDays, obs: c.obs}
}
