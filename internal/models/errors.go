package models

import "errors"

// Error taxonomy shared by the record sources, the generation service and the
// HTTP layer. Call sites wrap these with fmt.Errorf("%w: ...").
var (
	// ErrInvalidInput means a required request field is missing.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUpstreamUnavailable means an external store or model provider is
	// unreachable or not configured.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrUpstreamRejected means an external call returned a non-success status.
	ErrUpstreamRejected = errors.New("upstream rejected")
)
