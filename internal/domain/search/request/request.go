package request

import (
	"fmt"

	"github.com/kailas-cloud/triage-api/internal/domain"
)

// Identifier fields that log documents can be looked up by.
const (
	FieldTrainID  = "train_id"
	FieldTestID   = "test_id"
	FieldFileName = "file_name"
)

// Per-endpoint defaults applied when the caller omits size or days.
const (
	DefaultLogSize      = 100
	DefaultSearchSize   = 100
	DefaultFilesSize    = 100
	DefaultTrainsSize   = 1000
	DefaultTestsSize    = 500
	DefaultTimelineDays = 30
)

// Request is a validated log query.
type Request struct {
	field   string
	value   string
	pattern string
	days    int
	size    int
}

// NewLookup validates an identifier lookup. pattern is optional.
func NewLookup(field, value, pattern string, days, size int) (Request, error) {
	if field == "" {
		return Request{}, fmt.Errorf("%w: identifier field is required", domain.ErrInvalidParam)
	}
	if value == "" {
		return Request{}, fmt.Errorf("%w: %s is required", domain.ErrInvalidParam, field)
	}
	if err := validateWindow(days, size); err != nil {
		return Request{}, err
	}
	return Request{field: field, value: value, pattern: pattern, days: days, size: size}, nil
}

// NewPattern validates a pattern search or aggregation. An empty pattern matches every
// message in the window.
func NewPattern(pattern string, days, size int) (Request, error) {
	if err := validateWindow(days, size); err != nil {
		return Request{}, err
	}
	return Request{pattern: pattern, days: days, size: size}, nil
}

func validateWindow(days, size int) error {
	if days < 0 {
		return fmt.Errorf("%w: days must not be negative, got %d", domain.ErrInvalidParam, days)
	}
	if size < 0 {
		return fmt.Errorf("%w: size must not be negative, got %d", domain.ErrInvalidParam, size)
	}
	return nil
}

// WithMaxSize returns a copy with size capped at limit. limit <= 0 disables the cap.
func (r Request) WithMaxSize(limit int) Request {
	if limit > 0 && r.size > limit {
		r.size = limit
	}
	return r
}

// Field returns the identifier field name (empty for pattern requests).
func (r Request) Field() string { return r.field }

// Value returns the identifier value.
func (r Request) Value() string { return r.value }

// Pattern returns the free-text pattern, possibly empty for lookups.
func (r Request) Pattern() string { return r.pattern }

// Days returns the look-back window in days.
func (r Request) Days() int { return r.days }

// Size returns the result-size cap.
func (r Request) Size() int { return r.size }
