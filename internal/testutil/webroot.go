package testutil

import (
	"sync"
	"testing"

	"github.com/spf13/afero"
)

// NewWebRoot returns an in-memory filesystem holding files, keyed by path.
func NewWebRoot(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for path, content := range files {
		if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", path, err)
		}
	}
	return fs
}

// CountingFs wraps an afero.Fs and counts opened files by name.
type CountingFs struct {
	afero.Fs
	mu    sync.Mutex
	opens map[string]int
}

// NewCountingFs wraps fs.
func NewCountingFs(fs afero.Fs) *CountingFs {
	return &CountingFs{Fs: fs, opens: make(map[string]int)}
}

// Open records the open and delegates to the wrapped filesystem.
func (c *CountingFs) Open(name string) (afero.File, error) {
	c.mu.Lock()
	c.opens[name]++
	c.mu.Unlock()
	return c.Fs.Open(name)
}

// Opens returns how many times name was opened.
func (c *CountingFs) Opens(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opens[name]
}
