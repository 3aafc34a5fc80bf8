// Package assets resolves logical bundle names to build output and renders
// them as script, link and style tags.
//
// A missing bundle is never an error: the tag functions return an empty
// string so pages simply render without the asset. Errors are reserved for
// a misconfigured service, an unreachable dev server or a corrupt manifest.
package assets

import (
	"context"
	"path"

	"github.com/Sternrassler/webpack-assets/pkg/logging"
	"github.com/Sternrassler/webpack-assets/pkg/manifest"
	"github.com/Sternrassler/webpack-assets/pkg/tags"
	"github.com/rs/zerolog"
)

// Provider supplies the manifest. *manifest.Store satisfies it.
type Provider interface {
	Manifest(ctx context.Context) (manifest.Manifest, error)
	Mode() manifest.Mode
}

// Service orchestrates bundle lookups and tag rendering.
type Service struct {
	provider  Provider
	formatter tags.Formatter
	logger    zerolog.Logger
}

// New creates a service from a manifest provider and a tag formatter.
func New(provider Provider, formatter tags.Formatter) *Service {
	if provider == nil {
		panic("manifest provider cannot be nil")
	}
	if formatter == nil {
		panic("tag formatter cannot be nil")
	}
	return &Service{
		provider:  provider,
		formatter: formatter,
		logger:    logging.NewLogger("asset-service"),
	}
}

// Mode returns the mode of the underlying manifest provider.
func (s *Service) Mode() manifest.Mode {
	return s.provider.Mode()
}

// Manifest returns the manifest currently in effect.
func (s *Service) Manifest(ctx context.Context) (manifest.Manifest, error) {
	return s.provider.Manifest(ctx)
}

// ScriptTag renders a script tag for bundle, or for fallback when bundle is
// not in the manifest. Names without an extension get ".js".
func (s *Service) ScriptTag(ctx context.Context, bundle, fallback string, load tags.LoadDirective) (string, error) {
	file, ok, err := s.resolve(ctx, "script", bundle, fallback, ".js")
	if err != nil || !ok {
		return "", err
	}
	return s.formatter.ScriptTag(file, load)
}

// LinkTag renders a stylesheet link for bundle, or for fallback when bundle
// is not in the manifest. Names without an extension get ".css".
func (s *Service) LinkTag(ctx context.Context, bundle, fallback string) (string, error) {
	file, ok, err := s.resolve(ctx, "link", bundle, fallback, ".css")
	if err != nil || !ok {
		return "", err
	}
	return s.formatter.LinkTag(file)
}

// StyleTag renders bundle's CSS inline, or fallback's when bundle is not in
// the manifest. Names without an extension get ".css".
func (s *Service) StyleTag(ctx context.Context, bundle, fallback string) (string, error) {
	file, ok, err := s.resolve(ctx, "style", bundle, fallback, ".css")
	if err != nil || !ok {
		return "", err
	}
	return s.formatter.StyleTag(ctx, file)
}

// BundleURL returns the public URL of bundle, or of fallback when bundle is
// not in the manifest. Names are looked up exactly as given.
func (s *Service) BundleURL(ctx context.Context, bundle, fallback string) (string, error) {
	file, ok, err := s.resolve(ctx, "url", bundle, fallback, "")
	if err != nil || !ok {
		return "", err
	}
	return s.formatter.URL(file), nil
}

// resolve looks up bundle, then fallback once. An empty bundle name resolves
// to nothing without touching the manifest.
func (s *Service) resolve(ctx context.Context, tag, bundle, fallback, ext string) (string, bool, error) {
	if bundle == "" {
		bundleResolutionsTotal.WithLabelValues(tag, "empty").Inc()
		return "", false, nil
	}

	m, err := s.provider.Manifest(ctx)
	if err != nil {
		bundleResolutionsTotal.WithLabelValues(tag, "error").Inc()
		return "", false, err
	}

	if file, ok := m.Lookup(withExtension(bundle, ext)); ok {
		bundleResolutionsTotal.WithLabelValues(tag, "found").Inc()
		return file, true, nil
	}

	if fallback != "" {
		if file, ok := m.Lookup(withExtension(fallback, ext)); ok {
			bundleResolutionsTotal.WithLabelValues(tag, "fallback").Inc()
			s.logger.Debug().
				Str("bundle", bundle).
				Str("fallback", fallback).
				Msg("Bundle not in manifest, using fallback")
			return file, true, nil
		}
	}

	bundleResolutionsTotal.WithLabelValues(tag, "not_found").Inc()
	s.logger.Debug().
		Str("bundle", bundle).
		Str("fallback", fallback).
		Msg("Bundle not in manifest")
	return "", false, nil
}

// withExtension appends ext when name has none.
func withExtension(name, ext string) string {
	if ext == "" || path.Ext(name) != "" {
		return name
	}
	return name + ext
}
