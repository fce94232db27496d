package db

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kailas-cloud/triage-api/internal/domain/search/result"
)

// DecodeResponse reads a cluster response body and decodes it into a search response.
// Non-2xx statuses become an *Error carrying the status and the upstream body.
func DecodeResponse(op string, status int, body io.Reader) (*result.Response, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &Error{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}
	if status < 200 || status > 299 {
		return nil, &Error{Op: op, Err: StatusError(status, data)}
	}
	resp, err := result.Decode(data)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	return resp, nil
}

// WaitForReady polls p.Ping until it succeeds or timeout expires.
func WaitForReady(ctx context.Context, p Pinger, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for search cluster: %w", ctx.Err())
		case <-ticker.C:
			if err := p.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}
