// Package source reads manifest and asset content for the asset service.
//
// Two implementations exist: HTTPSource talks to a running dev server and
// FileSource reads build output from the web root. Both satisfy Source, so
// the manifest store and the tag builder never care which one they hold.
package source

import "context"

// Source reads the full content at a location.
// For HTTPSource the location is an absolute URL, for FileSource a path.
type Source interface {
	Read(ctx context.Context, location string) ([]byte, error)
}
