// Package manifest loads the build manifest that maps logical bundle names
// to hashed output filenames, and resolves bundle names against it.
package manifest

// Mode selects where the manifest and assets come from.
type Mode int

const (
	// Static reads build output from the web root. The manifest is read
	// once and kept for the lifetime of the process.
	Static Mode = iota

	// Dynamic talks to a running dev server. The manifest is fetched on
	// every resolution because the dev server rebuilds continuously.
	Dynamic
)

// String returns the mode name used in logs and metric labels.
func (m Mode) String() string {
	switch m {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}
