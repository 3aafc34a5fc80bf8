package assets

import (
	"context"
	"html/template"

	"github.com/Sternrassler/webpack-assets/pkg/tags"
)

// FuncMap returns template functions bound to ctx. Bind them per request on
// a clone of the parsed template:
//
//	t := template.Must(base.Clone()).Funcs(svc.FuncMap(r.Context()))
//
// The base template must be parsed with the same names, e.g. with
// FuncMap(context.Background()).
//
//	{{ webpackScript "main" }}
//	{{ webpackScript "admin" "main" "defer" }}
//	{{ webpackLink "main" }}
//	{{ webpackStyle "critical" }}
//	{{ webpackURL "logo.svg" }}
//
// The optional arguments are the fallback bundle and, for scripts, the load
// directive name.
func (s *Service) FuncMap(ctx context.Context) template.FuncMap {
	return template.FuncMap{
		"webpackScript": func(bundle string, opts ...string) (template.HTML, error) {
			load, err := tags.ParseLoadDirective(option(opts, 1))
			if err != nil {
				return "", err
			}
			tag, err := s.ScriptTag(ctx, bundle, option(opts, 0), load)
			return template.HTML(tag), err
		},
		"webpackLink": func(bundle string, opts ...string) (template.HTML, error) {
			tag, err := s.LinkTag(ctx, bundle, option(opts, 0))
			return template.HTML(tag), err
		},
		"webpackStyle": func(bundle string, opts ...string) (template.HTML, error) {
			tag, err := s.StyleTag(ctx, bundle, option(opts, 0))
			return template.HTML(tag), err
		},
		"webpackURL": func(bundle string, opts ...string) (string, error) {
			return s.BundleURL(ctx, bundle, option(opts, 0))
		},
	}
}

func option(opts []string, i int) string {
	if i < len(opts) {
		return opts[i]
	}
	return ""
}
