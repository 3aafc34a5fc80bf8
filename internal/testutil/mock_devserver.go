// Package testutil provides testing utilities for the asset service.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock dev server path.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockDevServer is a configurable stand-in for a frontend dev server.
type MockDevServer struct {
	server    *httptest.Server
	mu        sync.RWMutex
	responses map[string]MockResponse
	requests  map[string]int
}

// NewMockDevServer creates a started mock dev server.
func NewMockDevServer() *MockDevServer {
	mock := &MockDevServer{
		responses: make(map[string]MockResponse),
		requests:  make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))
	return mock
}

// URL returns the mock server base URL without a trailing slash.
func (m *MockDevServer) URL() string {
	return m.server.URL
}

// Client returns an HTTP client wired to the mock server.
func (m *MockDevServer) Client() *http.Client {
	return m.server.Client()
}

// Close shuts down the mock server.
func (m *MockDevServer) Close() {
	m.server.Close()
}

// Reset clears request counters.
func (m *MockDevServer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = make(map[string]int)
}

// SetResponse configures the response for a path.
func (m *MockDevServer) SetResponse(path string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[path] = resp
}

// SetFile serves body with status 200 at path. The content type follows
// the file extension.
func (m *MockDevServer) SetFile(path, body string) {
	contentType := "text/plain; charset=utf-8"
	switch {
	case strings.HasSuffix(path, ".json"):
		contentType = "application/json"
	case strings.HasSuffix(path, ".css"):
		contentType = "text/css; charset=utf-8"
	case strings.HasSuffix(path, ".js"):
		contentType = "application/javascript"
	}

	m.SetResponse(path, MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers:    map[string]string{"Content-Type": contentType},
	})
}

// RequestCount returns the number of requests made for path.
func (m *MockDevServer) RequestCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requests[path]
}

// TotalRequests returns the number of requests made for any path.
func (m *MockDevServer) TotalRequests() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for _, n := range m.requests {
		total += n
	}
	return total
}

func (m *MockDevServer) handle(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.requests[r.URL.Path]++
	resp, exists := m.responses[r.URL.Path]
	m.mu.Unlock()

	if !exists {
		http.NotFound(w, r)
		return
	}

	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-r.Context().Done():
			return
		}
	}

	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}

	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}
