package triage

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/triage-api/internal/domain/search/request"
	searchuc "github.com/kailas-cloud/triage-api/internal/usecase/search"
)

// SearchService runs free-text searches across all logs, newest first.
type SearchService struct {
	svc         searchUseCase
	defaultDays int
	obs         *observer
}

// Errors finds messages containing pattern as a literal substring.
func (s *SearchService) Errors(ctx context.Context, pattern string, opts ...QueryOption) (Page, error) {
	return s.run(ctx, "search.errors", pattern, opts, s.svc.Errors)
}

// Pattern finds messages matching a Lucene query string.
func (s *SearchService) Pattern(ctx context.Context, pattern string, opts ...QueryOption) (Page, error) {
	return s.run(ctx, "search.pattern", pattern, opts, s.svc.Pattern)
}

func (s *SearchService) run(
	ctx context.Context, op, pattern string, opts []QueryOption,
	call func(context.Context, *request.Request) (searchuc.Page, error),
) (page Page, err error) {
	start := time.Now()
	defer func() { s.obs.observe(op, start, len(page.Results), err) }()

	qc := buildQuery(opts)
	req, err := request.NewPattern(pattern, qc.daysOr(s.defaultDays), qc.sizeOr(request.DefaultSearchSize))
	if err != nil {
		return Page{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := call(ctx, &req)
	if err != nil {
		return Page{}, fmt.Errorf("%s: %w", op, err)
	}
	return Page{Total: p.Total, Results: p.Results}, nil
}
