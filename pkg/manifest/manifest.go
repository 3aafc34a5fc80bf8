package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// ErrMalformedManifest is returned when the manifest is not a flat JSON
// object of string values.
var ErrMalformedManifest = errors.New("malformed manifest")

// Manifest maps bundle names to resolved filenames. It is immutable once
// parsed and safe for concurrent use.
type Manifest struct {
	entries map[string]string
}

// Parse decodes a manifest document.
func Parse(data []byte) (Manifest, error) {
	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return Manifest{}, fmt.Errorf("%w: %v", ErrMalformedManifest, err)
	}
	if entries == nil {
		return Manifest{}, fmt.Errorf("%w: not a JSON object", ErrMalformedManifest)
	}
	return Manifest{entries: entries}, nil
}

// Lookup returns the filename for bundle. Keys match exactly.
func (m Manifest) Lookup(bundle string) (string, bool) {
	file, ok := m.entries[bundle]
	if ok {
		bundleLookupsTotal.WithLabelValues("found").Inc()
	} else {
		bundleLookupsTotal.WithLabelValues("not_found").Inc()
	}
	return file, ok
}

// Len returns the number of bundles.
func (m Manifest) Len() int {
	return len(m.entries)
}

// Bundles returns the bundle names in sorted order.
func (m Manifest) Bundles() []string {
	names := make([]string, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
