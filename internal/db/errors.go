package db

import (
	"errors"
	"fmt"
)

// ErrUnexpectedStatus signals a non-2xx response from the cluster.
var ErrUnexpectedStatus = errors.New("db: unexpected response status")

// Op constants name cluster API calls for error context.
const (
	OpSearch    = "search"
	OpAggSearch = "agg_search"
	OpPing      = "ping"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// StatusError builds the error returned for a non-2xx cluster response.
// body is truncated so a large error payload does not flood the logs.
func StatusError(status int, body []byte) error {
	const maxBody = 2048
	if len(body) > maxBody {
		body = body[:maxBody]
	}
	return fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, status, body)
}
