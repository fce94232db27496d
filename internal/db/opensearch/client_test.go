package opensearch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kailas-cloud/triage-api/internal/db"
	"github.com/kailas-cloud/triage-api/internal/domain/search/query"
)

type capturedRequest struct {
	method string
	path   string
	size   string
	body   map[string]any
}

// newTestCluster starts an HTTP server that answers like an OpenSearch node.
func newTestCluster(t *testing.T, status int, respBody string) (*Store, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"version":{"number":"2.11.0","distribution":"opensearch"}}`)
			return
		}
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.size = r.URL.Query().Get("size")
		if r.Body != nil {
			data, _ := io.ReadAll(r.Body)
			if len(data) > 0 {
				_ = json.Unmarshal(data, &captured.body)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, respBody)
	}))
	t.Cleanup(srv.Close)

	s, err := NewStore(Config{Addrs: []string{srv.URL}})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s, captured
}

func TestNewStore_NoAddrs(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error for empty addrs")
	}
}

func TestSearch_Success(t *testing.T) {
	s, req := newTestCluster(t, http.StatusOK, `{
		"hits": {"total": {"value": 2}, "hits": [
			{"_source": {"message": "one"}},
			{"_source": {"message": "two"}}
		]}
	}`)

	resp, err := s.Search(context.Background(), "cs1_logs-*", query.WildcardSearch("Null", 7), 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total() != 2 {
		t.Errorf("Total() = %d, want 2", resp.Total())
	}
	if len(resp.Sources()) != 2 {
		t.Errorf("expected 2 sources, got %d", len(resp.Sources()))
	}
	if req.path != "/cs1_logs-*/_search" {
		t.Errorf("path = %q", req.path)
	}
	if req.size != "25" {
		t.Errorf("size param = %q, want 25", req.size)
	}
	if _, ok := req.body["query"]; !ok {
		t.Errorf("request body missing query: %v", req.body)
	}
}

func TestAggSearch_ForcesSizeZero(t *testing.T) {
	s, req := newTestCluster(t, http.StatusOK, `{"aggregations":{"files":{"buckets":[{"key":"a","doc_count":1}]}}}`)

	resp, err := s.AggSearch(context.Background(), "cs1_logs-*", query.TermsAggregation("files", "file_name", "x", 7, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.size != "0" {
		t.Errorf("size param = %q, want 0", req.size)
	}
	if got := resp.Buckets("files"); len(got) != 1 {
		t.Errorf("buckets = %v", got)
	}
}

func TestSearch_ErrorStatus(t *testing.T) {
	s, _ := newTestCluster(t, http.StatusBadRequest, `{"error":{"type":"search_phase_execution_exception"},"status":400}`)

	_, err := s.Search(context.Background(), "cs1_logs-*", query.QueryStringSearch("a AND", 7), 10)
	if err == nil {
		t.Fatal("expected error")
	}
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected *db.Error, got %T", err)
	}
	if dbErr.Op != db.OpSearch {
		t.Errorf("Op = %q", dbErr.Op)
	}
	if !errors.Is(err, db.ErrUnexpectedStatus) {
		t.Errorf("expected ErrUnexpectedStatus, got %v", err)
	}
}

func TestSearch_MalformedBody(t *testing.T) {
	s, _ := newTestCluster(t, http.StatusOK, `{"hits":`)

	if _, err := s.Search(context.Background(), "idx", query.WildcardSearch("x", 1), 1); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSearch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s, err := NewStore(Config{Addrs: []string{url}})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	_, err = s.Search(context.Background(), "idx", query.WildcardSearch("x", 1), 1)
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected *db.Error, got %v", err)
	}
}

func TestPing(t *testing.T) {
	s, req := newTestCluster(t, http.StatusOK, ``)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.method != http.MethodHead {
		t.Errorf("method = %q, want HEAD", req.method)
	}
}

func TestPing_Error(t *testing.T) {
	s, _ := newTestCluster(t, http.StatusInternalServerError, ``)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestSplitIndex(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"cs1_logs-*", []string{"cs1_logs-*"}},
		{"a-*, b-*", []string{"a-*", "b-*"}},
		{"a,,b,", []string{"a", "b"}},
	}
	for _, tc := range tests {
		got := splitIndex(tc.in)
		if len(got) != len(tc.want) {
			t.Errorf("splitIndex(%q) = %v, want %v", tc.in, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("splitIndex(%q)[%d] = %q, want %q", tc.in, i, got[i], tc.want[i])
			}
		}
	}
}
