package tags

import (
	"context"
	"fmt"
	"strings"

	"github.com/Sternrassler/webpack-assets/pkg/cache"
	"github.com/Sternrassler/webpack-assets/pkg/logging"
	"github.com/Sternrassler/webpack-assets/pkg/manifest"
	"github.com/Sternrassler/webpack-assets/pkg/source"
	"github.com/rs/zerolog"
)

const crossOriginAnonymous = `crossorigin="anonymous"`

// Formatter turns a resolved filename into markup. It never looks at the
// manifest itself.
type Formatter interface {
	ScriptTag(file string, load LoadDirective) (string, error)
	LinkTag(file string) (string, error)
	StyleTag(ctx context.Context, file string) (string, error)
	URL(file string) string
}

// Options configures a Builder.
type Options struct {
	Mode manifest.Mode

	// AssetPath prefixes src and href attributes.
	AssetPath string

	// AssetBaseFilePath prefixes the location inline style content is
	// read from: a dev server URL in Dynamic mode, a directory otherwise.
	AssetBaseFilePath string

	// Source reads inline style content.
	Source source.Source

	Logger *zerolog.Logger
}

// Builder is the default Formatter.
type Builder struct {
	mode              manifest.Mode
	assetPath         string
	assetBaseFilePath string
	source            source.Source
	styles            *cache.Map[string, string]
	logger            zerolog.Logger
}

// NewBuilder creates a tag builder.
func NewBuilder(opts Options) (*Builder, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("%w: style source is required", source.ErrConfiguration)
	}

	logger := logging.NewLogger("tag-builder")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Builder{
		mode:              opts.Mode,
		assetPath:         opts.AssetPath,
		assetBaseFilePath: opts.AssetBaseFilePath,
		source:            opts.Source,
		styles:            cache.NewMap[string, string]("style"),
		logger:            logger,
	}, nil
}

// ScriptTag renders a script tag for file.
func (b *Builder) ScriptTag(file string, load LoadDirective) (string, error) {
	loadAttr, err := load.attribute()
	if err != nil {
		return "", err
	}

	crossOrigin := ""
	if b.mode == manifest.Dynamic {
		// The dev server lives on another origin. The separating space is
		// emitted even for Normal loads so markup stays byte-identical.
		crossOrigin = crossOriginAnonymous
		loadAttr = " " + loadAttr
	}

	return fmt.Sprintf(`<script src="%s%s" %s%s></script>`, b.assetPath, file, crossOrigin, loadAttr), nil
}

// LinkTag renders a stylesheet link tag for file.
func (b *Builder) LinkTag(file string) (string, error) {
	if file == "" {
		return "", ErrFileRequired
	}
	return fmt.Sprintf(`<link href="%s%s" rel="stylesheet" />`, b.assetPath, file), nil
}

// StyleTag renders file's content inline in a style tag.
//
// In Static mode the rendered tag is cached under file as given, including
// any query string, and later calls never read the file again. In Dynamic
// mode the content is fetched from the dev server on every call.
func (b *Builder) StyleTag(ctx context.Context, file string) (string, error) {
	if file == "" {
		return "", ErrFileRequired
	}

	if b.mode == manifest.Dynamic {
		return b.renderStyle(ctx, file)
	}

	return b.styles.GetOrPopulate(ctx, file, func(ctx context.Context) (string, error) {
		return b.renderStyle(ctx, file)
	})
}

// URL returns the public URL of file.
func (b *Builder) URL(file string) string {
	return b.assetPath + file
}

// CachedStyles returns the number of rendered style tags held in memory.
func (b *Builder) CachedStyles() int {
	return b.styles.Len()
}

func (b *Builder) renderStyle(ctx context.Context, file string) (string, error) {
	location := b.assetBaseFilePath + stripQuery(file)

	content, err := b.source.Read(ctx, location)
	if err != nil {
		b.logger.Warn().Err(err).Str("location", location).Msg("Failed to read inline style")
		return "", err
	}

	b.logger.Debug().
		Str("file", file).
		Str("location", location).
		Int("bytes", len(content)).
		Msg("Rendered inline style")

	return "<style>" + string(content) + "</style>", nil
}

// stripQuery drops a cache-busting query string from a filename.
func stripQuery(file string) string {
	if i := strings.IndexByte(file, '?'); i >= 0 {
		return file[:i]
	}
	return file
}
