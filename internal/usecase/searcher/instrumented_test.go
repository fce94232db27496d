package searcher

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/triage-api/internal/db"
	"github.com/kailas-cloud/triage-api/internal/domain/search/query"
	"github.com/kailas-cloud/triage-api/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/triage-api/internal/logger"
	"github.com/kailas-cloud/triage-api/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterSearchMetrics()
	os.Exit(m.Run())
}

type mockSearcher struct {
	resp      *result.Response
	err       error
	lastIndex string
	lastSize  int
	aggCalled bool
}

func (m *mockSearcher) Search(_ context.Context, index string, _ query.Body, size int) (*result.Response, error) {
	m.lastIndex = index
	m.lastSize = size
	return m.resp, m.err
}

func (m *mockSearcher) AggSearch(_ context.Context, index string, _ query.Body) (*result.Response, error) {
	m.lastIndex = index
	m.aggCalled = true
	return m.resp, m.err
}

func decoded(t *testing.T, body string) *result.Response {
	t.Helper()
	r, err := result.Decode([]byte(body))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return r
}

func TestInstrumented_SearchSuccess(t *testing.T) {
	inner := &mockSearcher{resp: decoded(t, `{"hits":{"total":{"value":3},"hits":[]}}`)}
	s := NewInstrumented(inner, zap.NewNop())

	before := testutil.ToFloat64(metrics.SearchRequestsTotal.WithLabelValues(db.OpSearch, "ok"))
	resp, err := s.Search(context.Background(), "cs1_logs-*", query.WildcardSearch("x", 7), 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total() != 3 {
		t.Errorf("Total() = %d", resp.Total())
	}
	if inner.lastIndex != "cs1_logs-*" || inner.lastSize != 50 {
		t.Errorf("inner called with index=%q size=%d", inner.lastIndex, inner.lastSize)
	}
	after := testutil.ToFloat64(metrics.SearchRequestsTotal.WithLabelValues(db.OpSearch, "ok"))
	if after != before+1 {
		t.Errorf("requests_total ok: before=%f after=%f", before, after)
	}
}

func TestInstrumented_AggSearchError(t *testing.T) {
	boom := errors.New("cluster unavailable")
	inner := &mockSearcher{err: boom}
	core, logs := observer.New(zapcore.ErrorLevel)
	s := NewInstrumented(inner, zap.New(core))

	before := testutil.ToFloat64(metrics.SearchRequestsTotal.WithLabelValues(db.OpAggSearch, "error"))
	_, err := s.AggSearch(context.Background(), "idx", query.TermsAggregation("files", "file_name", "x", 7, 10))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped cluster error, got %v", err)
	}
	if !inner.aggCalled {
		t.Error("expected AggSearch to be delegated")
	}
	after := testutil.ToFloat64(metrics.SearchRequestsTotal.WithLabelValues(db.OpAggSearch, "error"))
	if after != before+1 {
		t.Errorf("requests_total error: before=%f after=%f", before, after)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected 1 error log, got %d", logs.Len())
	}
	if logs.All()[0].ContextMap()["operation"] != db.OpAggSearch {
		t.Errorf("log fields = %v", logs.All()[0].ContextMap())
	}
}

func TestInstrumented_PrefersContextLogger(t *testing.T) {
	inner := &mockSearcher{err: errors.New("x")}
	fallbackCore, fallbackLogs := observer.New(zapcore.DebugLevel)
	ctxCore, ctxLogs := observer.New(zapcore.DebugLevel)

	s := NewInstrumented(inner, zap.New(fallbackCore))
	ctx := logpkg.ContextWithLogger(context.Background(), zap.New(ctxCore))
	_, _ = s.Search(ctx, "idx", query.WildcardSearch("x", 1), 1)

	if fallbackLogs.Len() != 0 {
		t.Errorf("fallback logger used %d times", fallbackLogs.Len())
	}
	if ctxLogs.Len() == 0 {
		t.Error("expected request logger to receive entries")
	}
}
