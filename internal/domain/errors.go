package domain

import "errors"

var (
	// ErrInvalidParam signals a request parameter that failed binding or validation.
	ErrInvalidParam = errors.New("invalid parameter")
	// ErrUpstream signals a failed call to the search cluster.
	ErrUpstream = errors.New("search cluster error")
)
