package manifest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sternrassler/webpack-assets/pkg/cache"
	"github.com/Sternrassler/webpack-assets/pkg/logging"
	"github.com/Sternrassler/webpack-assets/pkg/source"
	"github.com/rs/zerolog"
)

// Options configures a Store.
type Options struct {
	// Mode is fixed for the lifetime of the store.
	Mode Mode

	// Source reads the manifest. In Dynamic mode this must be an HTTP
	// source pointed at the dev server.
	Source source.Source

	// Location is the manifest URL (Dynamic) or file path (Static).
	Location string

	// Logger overrides the default component logger.
	Logger *zerolog.Logger
}

// Store obtains the manifest and owns the cache-or-refetch decision.
// In Static mode the first successfully parsed manifest is kept forever;
// in Dynamic mode every call fetches again.
type Store struct {
	mode     Mode
	source   source.Source
	location string
	cached   *cache.Slot[Manifest]
	logger   zerolog.Logger
}

// NewStore creates a manifest store.
func NewStore(opts Options) (*Store, error) {
	if opts.Source == nil {
		if opts.Mode == Dynamic {
			return nil, fmt.Errorf("%w: http source is required in dynamic mode", source.ErrConfiguration)
		}
		return nil, fmt.Errorf("%w: file source is required in static mode", source.ErrConfiguration)
	}

	if opts.Location == "" {
		return nil, fmt.Errorf("%w: manifest location is required", source.ErrConfiguration)
	}

	logger := logging.NewLogger("manifest-store")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Store{
		mode:     opts.Mode,
		source:   opts.Source,
		location: opts.Location,
		cached:   cache.NewSlot[Manifest]("manifest"),
		logger:   logger.With().Str("mode", opts.Mode.String()).Logger(),
	}, nil
}

// Mode returns the store's mode.
func (s *Store) Mode() Mode {
	return s.mode
}

// Location returns where the manifest is read from.
func (s *Store) Location() string {
	return s.location
}

// Manifest returns the current manifest.
func (s *Store) Manifest(ctx context.Context) (Manifest, error) {
	if s.mode == Static {
		return s.cached.GetOrPopulate(ctx, s.fetch)
	}
	return s.fetch(ctx)
}

// Resolve returns the filename mapped to bundle. A bundle missing from the
// manifest yields ("", false, nil).
func (s *Store) Resolve(ctx context.Context, bundle string) (string, bool, error) {
	m, err := s.Manifest(ctx)
	if err != nil {
		return "", false, err
	}

	file, ok := m.Lookup(bundle)
	if !ok {
		s.logger.Debug().Str("bundle", bundle).Msg("Bundle not in manifest")
		return "", false, nil
	}
	return file, true, nil
}

// fetch reads and parses the manifest without touching the cache.
func (s *Store) fetch(ctx context.Context) (Manifest, error) {
	mode := s.mode.String()

	startTime := time.Now()
	defer func() {
		manifestFetchDuration.WithLabelValues(mode).Observe(time.Since(startTime).Seconds())
	}()

	data, err := s.source.Read(ctx, s.location)
	if err != nil {
		manifestFetchesTotal.WithLabelValues(mode, "error").Inc()
		if errors.Is(err, source.ErrUpstreamUnavailable) {
			s.logger.Error().Err(err).Str("location", s.location).Msg("Manifest fetch failed, dev server not reachable")
		} else {
			s.logger.Warn().Err(err).Str("location", s.location).Msg("Manifest fetch failed")
		}
		return Manifest{}, err
	}

	m, err := Parse(data)
	if err != nil {
		manifestFetchesTotal.WithLabelValues(mode, "malformed").Inc()
		s.logger.Error().Err(err).Str("location", s.location).Msg("Manifest is not valid JSON")
		return Manifest{}, err
	}

	manifestFetchesTotal.WithLabelValues(mode, "ok").Inc()
	s.logger.Debug().
		Str("location", s.location).
		Int("bundles", m.Len()).
		Msg("Loaded manifest")

	return m, nil
}
