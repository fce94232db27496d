package triage

import (
	"context"
	"encoding/json"

	"github.com/kailas-cloud/triage-api/internal/domain/search/request"
	"github.com/kailas-cloud/triage-api/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/triage-api/internal/usecase/health"
	searchuc "github.com/kailas-cloud/triage-api/internal/usecase/search"
	statsuc "github.com/kailas-cloud/triage-api/internal/usecase/stats"
)

// --- logsUseCase mock ---

type mockLogsUC struct {
	fetchFn func(ctx context.Context, req *request.Request) ([]json.RawMessage, error)
}

func (m *mockLogsUC) Fetch(ctx context.Context, req *request.Request) ([]json.RawMessage, error) {
	return m.fetchFn(ctx, req)
}

// --- searchUseCase mock ---

type mockSearchUC struct {
	errorsFn  func(ctx context.Context, req *request.Request) (searchuc.Page, error)
	patternFn func(ctx context.Context, req *request.Request) (searchuc.Page, error)
}

func (m *mockSearchUC) Errors(ctx context.Context, req *request.Request) (searchuc.Page, error) {
	return m.errorsFn(ctx, req)
}

func (m *mockSearchUC) Pattern(ctx context.Context, req *request.Request) (searchuc.Page, error) {
	return m.patternFn(ctx, req)
}

// --- statsUseCase mock ---

type mockStatsUC struct {
	countFn    func(ctx context.Context, facet statsuc.Facet, req *request.Request) ([]result.Bucket, error)
	timelineFn func(ctx context.Context, req *request.Request) (json.RawMessage, error)
}

func (m *mockStatsUC) Count(ctx context.Context, facet statsuc.Facet, req *request.Request) ([]result.Bucket, error) {
	return m.countFn(ctx, facet, req)
}

func (m *mockStatsUC) Timeline(ctx context.Context, req *request.Request) (json.RawMessage, error) {
	return m.timelineFn(ctx, req)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}

// --- helpers ---

func testClient(logsSvc logsUseCase, searchSvc searchUseCase, statsSvc statsUseCase) *Client {
	return &Client{
		logsSvc:     logsSvc,
		searchSvc:   searchSvc,
		statsSvc:    statsSvc,
		defaultDays: defaultDays,
	}
}
