package source

import (
	"context"
	"errors"
	"fmt"
)

// Common errors returned by sources.
var (
	// ErrConfiguration is returned when a collaborator required by the
	// current mode is missing. It is a wiring bug, not a runtime failure.
	ErrConfiguration = errors.New("configuration error")

	// ErrUpstreamUnavailable is returned when the dev server cannot be reached.
	ErrUpstreamUnavailable = errors.New("dev server is not reachable")
)

// FetchError describes a failed read from the dev server.
type FetchError struct {
	Location    string
	StatusCode  int // 0 when no response was received
	Unreachable bool
	Err         error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	switch {
	case e.Unreachable:
		return fmt.Sprintf("fetch %s: %v: %v", e.Location, ErrUpstreamUnavailable, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("fetch %s (status %d): %v", e.Location, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("fetch %s: %v", e.Location, e.Err)
	}
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is reports ErrUpstreamUnavailable for unreachable dev servers.
func (e *FetchError) Is(target error) bool {
	return target == ErrUpstreamUnavailable && e.Unreachable
}

// isUnreachable reports whether a transport error means the dev server is
// unavailable. Any failure to get a response counts, client timeouts
// included, unless the caller's own context ended the request.
func isUnreachable(ctx context.Context, err error) bool {
	return err != nil && ctx.Err() == nil
}
