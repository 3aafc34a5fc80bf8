package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"time"

	"github.com/Sternrassler/webpack-assets/pkg/logging"
	"github.com/rs/zerolog"
)

// Doer issues HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPSource reads content from a dev server with GET requests.
type HTTPSource struct {
	client Doer
	logger zerolog.Logger
}

// NewHTTPSource creates a source backed by the given HTTP client.
// A nil client, including a nil pointer in a non-nil interface, is a
// configuration error.
func NewHTTPSource(client Doer) (*HTTPSource, error) {
	if isNil(client) {
		return nil, fmt.Errorf("%w: http client is required in dynamic mode", ErrConfiguration)
	}

	return &HTTPSource{
		client: client,
		logger: logging.NewLogger("http-source"),
	}, nil
}

// Read fetches location and returns the response body.
// Connection failures are reported as ErrUpstreamUnavailable; a response
// outside the 2xx range is a *FetchError carrying the status code.
func (s *HTTPSource) Read(ctx context.Context, location string) ([]byte, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("%w: http client is required in dynamic mode", ErrConfiguration)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	startTime := time.Now()
	defer func() {
		fetchDuration.WithLabelValues("http").Observe(time.Since(startTime).Seconds())
	}()

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, s.transportError(ctx, location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Warn().
			Str("location", location).
			Int("status", resp.StatusCode).
			Msg("Dev server returned error status")
		return nil, &FetchError{
			Location:   location,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, s.transportError(ctx, location, fmt.Errorf("read response body: %w", err))
	}

	s.logger.Debug().
		Str("location", location).
		Int("bytes", len(body)).
		Msg("Fetched from dev server")

	return body, nil
}

// transportError wraps a failed exchange with the dev server. Errors caused
// by the caller's context are returned unchanged.
func (s *HTTPSource) transportError(ctx context.Context, location string, err error) error {
	if !isUnreachable(ctx, err) {
		return err
	}
	upstreamUnavailable.Inc()
	s.logger.Warn().Err(err).Str("location", location).Msg("Dev server not reachable")
	return &FetchError{Location: location, Unreachable: true, Err: err}
}

func isNil(client Doer) bool {
	if client == nil {
		return true
	}
	v := reflect.ValueOf(client)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
