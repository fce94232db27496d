package triage

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "elasticsearch" or "opensearch"
	addrs    []string
	username string
	password string

	indexPattern string
	defaultDays  int
	maxSize      int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithElasticsearch connects the client to an Elasticsearch cluster.
func WithElasticsearch(addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverElasticsearch
		c.addrs = addrs
	})
}

// WithOpenSearch connects the client to an OpenSearch cluster.
func WithOpenSearch(addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverOpenSearch
		c.addrs = addrs
	})
}

// WithBasicAuth sets cluster credentials.
func WithBasicAuth(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.password = password
	})
}

// WithIndexPattern sets the index pattern queried by every operation.
// Default: cs1_logs-*.
func WithIndexPattern(pattern string) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexPattern = pattern
	})
}

// WithDefaultDays sets the look-back window used when a query does not pass WithDays.
// Default: 7. The error timeline keeps its own default of 30.
func WithDefaultDays(days int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultDays = days
	})
}

// WithMaxSize caps the size of any single query. 0 disables the cap (default).
func WithMaxSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxSize = size
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts, durations and result counts)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

// QueryOption tunes a single query.
type QueryOption interface {
	applyQuery(*queryConfig)
}

type queryOptionFunc func(*queryConfig)

func (f queryOptionFunc) applyQuery(c *queryConfig) { f(c) }

type queryConfig struct {
	pattern string
	days    *int
	size    *int
}

// WithPattern narrows identifier lookups to messages matching pattern.
// Search and stats operations take the pattern as an argument instead.
func WithPattern(pattern string) QueryOption {
	return queryOptionFunc(func(c *queryConfig) {
		c.pattern = pattern
	})
}

// WithDays sets the look-back window in days.
func WithDays(days int) QueryOption {
	return queryOptionFunc(func(c *queryConfig) {
		c.days = &days
	})
}

// WithSize sets the maximum number of documents or buckets returned.
func WithSize(size int) QueryOption {
	return queryOptionFunc(func(c *queryConfig) {
		c.size = &size
	})
}

func buildQuery(opts []QueryOption) queryConfig {
	var qc queryConfig
	for _, o := range opts {
		o.applyQuery(&qc)
	}
	return qc
}

func (q queryConfig) daysOr(def int) int {
	if q.days == nil {
		return def
	}
	return *q.days
}

func (q queryConfig) sizeOr(def int) int {
	if q.size == nil {
		return def
	}
	return *q.size
}
