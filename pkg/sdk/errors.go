package triage

import "github.com/kailas-cloud/triage-api/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidParam = domain.ErrInvalidParam
	ErrUpstream     = domain.ErrUpstream
)
