package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/triage-api/internal/config"
	logpkg "github.com/kailas-cloud/triage-api/internal/logger"
)

func TestNewStore_Drivers(t *testing.T) {
	for _, driver := range []string{config.DriverElasticsearch, config.DriverOpenSearch} {
		cfg := config.Config{Search: config.SearchConfig{Driver: driver, URL: "http://localhost:9200"}}
		store, err := newStore(cfg)
		if err != nil {
			t.Fatalf("%s: %v", driver, err)
		}
		store.Close()
	}

	_, err := newStore(config.Config{Search: config.SearchConfig{Driver: "solr", URL: "http://x"}})
	if err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestJSONRecoverer(t *testing.T) {
	h := jsonRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/search/errors", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got %d", rr.Code)
	}
	var body map[string]string
	_ = json.NewDecoder(rr.Body).Decode(&body)
	if body["detail"] != "Internal Server Error" {
		t.Errorf("body: %v", body)
	}
}

func TestWideEventMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logpkg.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	})
	h := chiMiddleware.RequestID(wideEventMiddleware(zap.New(core))(inner))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
	inside := logs.FilterMessage("inside handler").All()
	if len(inside) != 1 {
		t.Fatalf("expected one handler log, got %d", len(inside))
	}
	if id, _ := inside[0].ContextMap()["request_id"].(string); id == "" {
		t.Error("expected handler logs to carry request_id")
	}
	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one canonical line, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["status"]; got != int64(http.StatusTeapot) {
		t.Errorf("status field: %v", got)
	}
}
