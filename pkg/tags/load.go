// Package tags renders resolved asset filenames into HTML tags.
package tags

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by the tag builder.
var (
	// ErrLoadOutOfRange is returned for an undefined LoadDirective.
	ErrLoadOutOfRange = errors.New("load directive out of range")

	// ErrFileRequired is returned when a tag is requested for an empty filename.
	ErrFileRequired = errors.New("file is required")
)

// LoadDirective controls how a script tag is loaded by the browser.
type LoadDirective int

const (
	// Normal loads the script synchronously.
	Normal LoadDirective = iota
	// Async adds the async attribute.
	Async
	// Defer adds the defer attribute.
	Defer
	// AsyncDefer adds both async and defer.
	AsyncDefer
)

// attribute returns the attribute text for the directive.
func (l LoadDirective) attribute() (string, error) {
	switch l {
	case Normal:
		return "", nil
	case Async:
		return "async", nil
	case Defer:
		return "defer", nil
	case AsyncDefer:
		return "async defer", nil
	default:
		return "", fmt.Errorf("%w: %d", ErrLoadOutOfRange, int(l))
	}
}

// String returns the directive name.
func (l LoadDirective) String() string {
	switch l {
	case Normal:
		return "normal"
	case Async:
		return "async"
	case Defer:
		return "defer"
	case AsyncDefer:
		return "async-defer"
	default:
		return fmt.Sprintf("LoadDirective(%d)", int(l))
	}
}

// ParseLoadDirective parses a directive name as used in templates and
// query strings. The empty string means Normal.
func ParseLoadDirective(s string) (LoadDirective, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return Normal, nil
	case "async":
		return Async, nil
	case "defer":
		return Defer, nil
	case "async-defer", "asyncdefer", "async defer":
		return AsyncDefer, nil
	default:
		return Normal, fmt.Errorf("%w: %q", ErrLoadOutOfRange, s)
	}
}
