package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"
	"testing"
)

func TestFetchError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *FetchError
		contains string
	}{
		{
			name: "unreachable",
			err: &FetchError{
				Location:    "http://localhost:8080/dist/manifest.json",
				Unreachable: true,
				Err:         errors.New("connection refused"),
			},
			contains: "dev server is not reachable",
		},
		{
			name: "status",
			err: &FetchError{
				Location:   "http://localhost:8080/dist/manifest.json",
				StatusCode: 404,
				Err:        errors.New("unexpected status 404 Not Found"),
			},
			contains: "(status 404)",
		},
		{
			name: "plain",
			err: &FetchError{
				Location: "http://localhost:8080/dist/manifest.json",
				Err:      errors.New("boom"),
			},
			contains: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); !strings.Contains(got, tt.contains) {
				t.Errorf("Error() = %q, want to contain %q", got, tt.contains)
			}
		})
	}
}

func TestFetchError_Is(t *testing.T) {
	cause := errors.New("cause")
	unreachable := &FetchError{Unreachable: true, Err: cause}
	status := &FetchError{StatusCode: 500, Err: cause}

	if !errors.Is(unreachable, ErrUpstreamUnavailable) {
		t.Error("Unreachable error should match ErrUpstreamUnavailable")
	}
	if errors.Is(status, ErrUpstreamUnavailable) {
		t.Error("Status error should not match ErrUpstreamUnavailable")
	}
	if !errors.Is(status, cause) {
		t.Error("FetchError should unwrap to its cause")
	}

	wrapped := fmt.Errorf("read manifest: %w", unreachable)
	if !errors.Is(wrapped, ErrUpstreamUnavailable) {
		t.Error("Wrapped unreachable error should match ErrUpstreamUnavailable")
	}
}

func TestIsUnreachable(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want bool
	}{
		{
			name: "dial error",
			ctx:  context.Background(),
			err:  &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connect: connection refused")},
			want: true,
		},
		{
			name: "dns error",
			ctx:  context.Background(),
			err:  &net.DNSError{Err: "no such host", Name: "devserver"},
			want: true,
		},
		{
			name: "econnrefused",
			ctx:  context.Background(),
			err:  fmt.Errorf("wrapped: %w", syscall.ECONNREFUSED),
			want: true,
		},
		{
			name: "read error",
			ctx:  context.Background(),
			err:  &net.OpError{Op: "read", Net: "tcp", Err: syscall.ECONNRESET},
			want: true,
		},
		{
			name: "eof before response",
			ctx:  context.Background(),
			err:  fmt.Errorf("get: %w", io.EOF),
			want: true,
		},
		{
			name: "client timeout",
			ctx:  context.Background(),
			err:  fmt.Errorf("get: %w", context.DeadlineExceeded),
			want: true,
		},
		{
			name: "caller cancelled",
			ctx:  cancelled,
			err:  fmt.Errorf("get: %w", context.Canceled),
			want: false,
		},
		{
			name: "no error",
			ctx:  context.Background(),
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUnreachable(tt.ctx, tt.err); got != tt.want {
				t.Errorf("isUnreachable() = %v, want %v", got, tt.want)
			}
		})
	}
}
