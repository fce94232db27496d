package triage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/triage-api/internal/domain/search/request"
)

// LogsService fetches the log lines of one job or file, oldest first.
type LogsService struct {
	svc         logsUseCase
	defaultDays int
	obs         *observer
}

// Train returns the logs of a training job.
func (s *LogsService) Train(ctx context.Context, trainID string, opts ...QueryOption) ([]json.RawMessage, error) {
	return s.fetch(ctx, "logs.train", request.FieldTrainID, trainID, opts)
}

// Test returns the logs of a test job.
func (s *LogsService) Test(ctx context.Context, testID string, opts ...QueryOption) ([]json.RawMessage, error) {
	return s.fetch(ctx, "logs.test", request.FieldTestID, testID, opts)
}

// File returns the logs of a single file.
func (s *LogsService) File(ctx context.Context, fileName string, opts ...QueryOption) ([]json.RawMessage, error) {
	return s.fetch(ctx, "logs.file", request.FieldFileName, fileName, opts)
}

func (s *LogsService) fetch(
	ctx context.Context, op, field, value string, opts []QueryOption,
) (docs []json.RawMessage, err error) {
	start := time.Now()
	defer func() { s.obs.observe(op, start, len(docs), err) }()

	qc := buildQuery(opts)
	req, err := request.NewLookup(field, value, qc.pattern,
		qc.daysOr(s.defaultDays), qc.sizeOr(request.DefaultLogSize))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	docs, err = s.svc.Fetch(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return docs, nil
}
