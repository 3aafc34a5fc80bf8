package source

import (
	"context"
	"time"

	"github.com/Sternrassler/webpack-assets/pkg/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// FileSource reads build output from a filesystem.
type FileSource struct {
	fs     afero.Fs
	logger zerolog.Logger
}

// NewFileSource creates a source reading from fs.
// A nil fs falls back to the operating system filesystem.
func NewFileSource(fs afero.Fs) *FileSource {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileSource{
		fs:     fs,
		logger: logging.NewLogger("file-source"),
	}
}

// Read returns the content of the file at location.
// Filesystem errors are returned unmodified.
func (s *FileSource) Read(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	data, err := afero.ReadFile(s.fs, location)
	fetchDuration.WithLabelValues("file").Observe(time.Since(startTime).Seconds())
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Str("location", location).Int("bytes", len(data)).Msg("Read file")
	return data, nil
}
