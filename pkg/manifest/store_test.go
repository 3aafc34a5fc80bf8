package manifest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Sternrassler/webpack-assets/internal/testutil"
	"github.com/Sternrassler/webpack-assets/pkg/source"
	"github.com/spf13/afero"
)

// countingSource serves fixed content and counts reads.
type countingSource struct {
	mu    sync.Mutex
	data  string
	err   error
	reads int
	last  string
}

func (s *countingSource) Read(ctx context.Context, location string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	s.last = location
	if s.err != nil {
		return nil, s.err
	}
	return []byte(s.data), nil
}

func (s *countingSource) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

func newTestStore(t *testing.T, mode Mode, src source.Source) *Store {
	t.Helper()
	store, err := NewStore(Options{Mode: mode, Source: src, Location: "/dist/manifest.json"})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store
}

func TestNewStore_Validation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{
			name: "dynamic without http source",
			opts: Options{Mode: Dynamic, Location: "http://localhost:8080/dist/manifest.json"},
		},
		{
			name: "static without file source",
			opts: Options{Mode: Static, Location: "wwwroot/dist/manifest.json"},
		},
		{
			name: "missing location",
			opts: Options{Mode: Static, Source: &countingSource{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStore(tt.opts)
			if !errors.Is(err, source.ErrConfiguration) {
				t.Errorf("Expected ErrConfiguration, got %v", err)
			}
			if store != nil {
				t.Error("Expected nil store")
			}
		})
	}
}

func TestStore_Resolve(t *testing.T) {
	for _, mode := range []Mode{Static, Dynamic} {
		t.Run(mode.String(), func(t *testing.T) {
			src := &countingSource{data: `{"app.js": "app.abc123.js"}`}
			store := newTestStore(t, mode, src)

			file, ok, err := store.Resolve(context.Background(), "app.js")
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if !ok || file != "app.abc123.js" {
				t.Errorf("Resolve() = %q, %v", file, ok)
			}

			file, ok, err = store.Resolve(context.Background(), "missing.js")
			if err != nil {
				t.Fatalf("Resolve() error for missing bundle = %v", err)
			}
			if ok || file != "" {
				t.Errorf("Resolve(missing) = %q, %v; want not found", file, ok)
			}

			if src.last != "/dist/manifest.json" {
				t.Errorf("Read location = %q", src.last)
			}
		})
	}
}

func TestStore_DynamicRefetchesEveryCall(t *testing.T) {
	src := &countingSource{data: `{"app.js": "app.abc123.js"}`}
	store := newTestStore(t, Dynamic, src)

	for i := 0; i < 2; i++ {
		if _, _, err := store.Resolve(context.Background(), "app.js"); err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
	}

	if got := src.count(); got != 2 {
		t.Errorf("Dynamic mode issued %d fetches, want 2", got)
	}
}

func TestStore_DynamicSeesRebuilds(t *testing.T) {
	src := &countingSource{data: `{"app.js": "app.v1.js"}`}
	store := newTestStore(t, Dynamic, src)
	ctx := context.Background()

	first, _, _ := store.Resolve(ctx, "app.js")

	src.mu.Lock()
	src.data = `{"app.js": "app.v2.js"}`
	src.mu.Unlock()

	second, _, _ := store.Resolve(ctx, "app.js")

	if first != "app.v1.js" || second != "app.v2.js" {
		t.Errorf("Resolve() = %q then %q, want app.v1.js then app.v2.js", first, second)
	}
}

func TestStore_StaticReadsOnce(t *testing.T) {
	src := &countingSource{data: `{"app.js": "app.abc123.js"}`}
	store := newTestStore(t, Static, src)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, _, err := store.Resolve(ctx, "app.js"); err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
	}
	if _, _, err := store.Resolve(ctx, "missing.js"); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if got := src.count(); got != 1 {
		t.Errorf("Static mode issued %d reads, want 1", got)
	}
}

func TestStore_StaticKeepsStaleManifest(t *testing.T) {
	src := &countingSource{data: `{"app.js": "app.v1.js"}`}
	store := newTestStore(t, Static, src)
	ctx := context.Background()

	store.Resolve(ctx, "app.js")

	src.mu.Lock()
	src.data = `{"app.js": "app.v2.js"}`
	src.mu.Unlock()

	file, _, _ := store.Resolve(ctx, "app.js")
	if file != "app.v1.js" {
		t.Errorf("Resolve() = %q, want cached app.v1.js", file)
	}
}

func TestStore_StaticFailureNotCached(t *testing.T) {
	src := &countingSource{err: errors.New("disk on fire")}
	store := newTestStore(t, Static, src)
	ctx := context.Background()

	if _, _, err := store.Resolve(ctx, "app.js"); err == nil {
		t.Fatal("Expected error from failing source")
	}

	src.mu.Lock()
	src.err = nil
	src.data = `{"app.js": "app.abc123.js"}`
	src.mu.Unlock()

	file, ok, err := store.Resolve(ctx, "app.js")
	if err != nil || !ok || file != "app.abc123.js" {
		t.Errorf("Resolve() = %q, %v, %v", file, ok, err)
	}
	if got := src.count(); got != 2 {
		t.Errorf("Reads = %d, want 2", got)
	}
}

func TestStore_ReadErrorPropagatesUnmodified(t *testing.T) {
	errDisk := errors.New("permission denied")
	store := newTestStore(t, Static, &countingSource{err: errDisk})

	_, _, err := store.Resolve(context.Background(), "app.js")
	if err != errDisk {
		t.Errorf("Resolve() error = %v, want the source error unmodified", err)
	}
}

func TestStore_MalformedManifest(t *testing.T) {
	for _, mode := range []Mode{Static, Dynamic} {
		t.Run(mode.String(), func(t *testing.T) {
			store := newTestStore(t, mode, &countingSource{data: `{"app.js": `})

			_, _, err := store.Resolve(context.Background(), "app.js")
			if !errors.Is(err, ErrMalformedManifest) {
				t.Errorf("Expected ErrMalformedManifest, got %v", err)
			}
			if errors.Is(err, source.ErrUpstreamUnavailable) {
				t.Error("Malformed manifest must not look like upstream unavailable")
			}
		})
	}
}

func TestStore_UnreachableDevServer(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	src, err := source.NewHTTPSource(&http.Client{})
	if err != nil {
		t.Fatalf("NewHTTPSource() error = %v", err)
	}

	store, err := NewStore(Options{Mode: Dynamic, Source: src, Location: url + "/dist/manifest.json"})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	_, _, err = store.Resolve(context.Background(), "app.js")
	if !errors.Is(err, source.ErrUpstreamUnavailable) {
		t.Errorf("Expected ErrUpstreamUnavailable, got %v", err)
	}
	if errors.Is(err, ErrMalformedManifest) {
		t.Error("Unreachable dev server must not look like a malformed manifest")
	}
}

func TestStore_DevServerResetsConnection(t *testing.T) {
	url := testutil.NewResetServer(t)

	src, err := source.NewHTTPSource(&http.Client{})
	if err != nil {
		t.Fatalf("NewHTTPSource() error = %v", err)
	}

	store, err := NewStore(Options{Mode: Dynamic, Source: src, Location: url + "/dist/manifest.json"})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	_, err = store.Manifest(context.Background())
	if !errors.Is(err, source.ErrUpstreamUnavailable) {
		t.Errorf("Expected ErrUpstreamUnavailable, got %v", err)
	}

	var fetchErr *source.FetchError
	if !errors.As(err, &fetchErr) {
		t.Errorf("Expected *source.FetchError, got %T", err)
	}
}

func TestStore_StaticFromFilesystem(t *testing.T) {
	mem := afero.NewMemMapFs()
	afero.WriteFile(mem, "wwwroot/dist/manifest.json", []byte(`{"main.js": "main.0f1e2d.js"}`), 0o644)

	store, err := NewStore(Options{
		Mode:     Static,
		Source:   source.NewFileSource(mem),
		Location: "wwwroot/dist/manifest.json",
	})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	file, ok, err := store.Resolve(context.Background(), "main.js")
	if err != nil || !ok || file != "main.0f1e2d.js" {
		t.Errorf("Resolve() = %q, %v, %v", file, ok, err)
	}
}

func TestStore_CancelledFetchNotCached(t *testing.T) {
	src := &countingSource{data: `{"app.js": "app.abc123.js"}`}
	store := newTestStore(t, Static, src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// countingSource ignores the context, so the slot must reject the result.
	if _, _, err := store.Resolve(ctx, "app.js"); !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}

	if _, ok := store.cached.Get(); ok {
		t.Error("Cancelled fetch must not populate the cache")
	}
}
