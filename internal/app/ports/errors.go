package ports

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrNotConfigured means the completion-API credential is absent. It is
	// a server configuration failure; no upstream call is attempted.
	ErrNotConfigured = errors.New("completion api key not configured")

	// ErrUpstreamUnreachable wraps a transport failure on the completion
	// path: connection failure or redirect-budget exhaustion.
	ErrUpstreamUnreachable = errors.New("completion api unreachable")
)
