package assets

import (
	"fmt"

	"github.com/Sternrassler/webpack-assets/pkg/config"
	"github.com/Sternrassler/webpack-assets/pkg/manifest"
	"github.com/Sternrassler/webpack-assets/pkg/source"
	"github.com/Sternrassler/webpack-assets/pkg/tags"
	"github.com/spf13/afero"
)

// Dependencies are the collaborators supplied by the host application.
type Dependencies struct {
	// HTTPClient talks to the dev server. Required in Dynamic mode.
	HTTPClient source.Doer

	// Fs holds the web root. Defaults to the OS filesystem.
	Fs afero.Fs
}

// NewFromConfig builds a Service for cfg's mode.
func NewFromConfig(cfg *config.Config, deps Dependencies) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is required", source.ErrConfiguration)
	}

	var src source.Source
	mode := cfg.Mode()
	if mode == manifest.Dynamic {
		httpSource, err := source.NewHTTPSource(deps.HTTPClient)
		if err != nil {
			return nil, err
		}
		src = httpSource
	} else {
		src = source.NewFileSource(deps.Fs)
	}

	store, err := manifest.NewStore(manifest.Options{
		Mode:     mode,
		Source:   src,
		Location: cfg.ManifestLocation(),
	})
	if err != nil {
		return nil, fmt.Errorf("create manifest store: %w", err)
	}

	builder, err := tags.NewBuilder(tags.Options{
		Mode:              mode,
		AssetPath:         cfg.AssetPath(),
		AssetBaseFilePath: cfg.AssetBaseFilePath(),
		Source:            src,
	})
	if err != nil {
		return nil, fmt.Errorf("create tag builder: %w", err)
	}

	return New(store, builder), nil
}
