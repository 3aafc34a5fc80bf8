package assets

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/webpack-assets/pkg/manifest"
	"golang.org/x/sync/errgroup"
)

// DefaultWarmConcurrency bounds parallel style reads during Warm.
const DefaultWarmConcurrency = 4

// Warm loads the manifest and renders the inline styles for styleBundles so
// the first page render does not pay for disk reads. Bundles missing from
// the manifest are skipped. In Dynamic mode nothing is cached, so Warm
// returns immediately.
func (s *Service) Warm(ctx context.Context, styleBundles ...string) error {
	if s.provider.Mode() == manifest.Dynamic {
		return nil
	}

	startTime := time.Now()
	defer func() {
		warmDuration.Observe(time.Since(startTime).Seconds())
	}()

	m, err := s.provider.Manifest(ctx)
	if err != nil {
		return fmt.Errorf("warm manifest: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultWarmConcurrency)

	for _, bundle := range styleBundles {
		g.Go(func() error {
			if _, err := s.StyleTag(gctx, bundle, ""); err != nil {
				return fmt.Errorf("warm style %s: %w", bundle, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Warn().Err(err).Msg("Cache warm-up failed")
		return err
	}

	s.logger.Info().
		Int("bundles", m.Len()).
		Int("styles", len(styleBundles)).
		Dur("duration", time.Since(startTime)).
		Msg("Asset caches warmed")

	return nil
}
