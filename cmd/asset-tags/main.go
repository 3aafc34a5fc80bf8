package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Sternrassler/webpack-assets/pkg/assets"
	"github.com/Sternrassler/webpack-assets/pkg/config"
	"github.com/Sternrassler/webpack-assets/pkg/logging"
	"github.com/Sternrassler/webpack-assets/pkg/manifest"
	"github.com/Sternrassler/webpack-assets/pkg/metrics"
	"github.com/Sternrassler/webpack-assets/pkg/source"
	"github.com/Sternrassler/webpack-assets/pkg/tags"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	_ "go.uber.org/automaxprocs"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

// run starts the server and returns once it stops. Errors are logged before
// returning so the log file is closed on every exit path.
func run(args []string) error {
	flags := pflag.NewFlagSet("asset-tags", pflag.ContinueOnError)
	config.RegisterFlags(flags)
	warm := flags.StringSlice("warm", nil, "style bundles to pre-render at startup (static mode)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	logger := logging.Setup(cfg.Logging())
	defer logging.Close()

	svc, err := assets.NewFromConfig(cfg, assets.Dependencies{
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
		Fs:         afero.NewOsFs(),
	})
	if err != nil {
		logger.WithLevel(zerolog.FatalLevel).Err(err).Msg("Failed to create asset service")
		return err
	}

	if len(*warm) > 0 {
		if err := svc.Warm(context.Background(), *warm...); err != nil {
			logger.WithLevel(zerolog.FatalLevel).Err(err).Msg("Failed to warm asset caches")
			return err
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newMux(svc),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info().
		Str("addr", srv.Addr).
		Str("mode", svc.Mode().String()).
		Str("manifest", cfg.ManifestLocation()).
		Msg("Starting asset tag server")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithLevel(zerolog.FatalLevel).Err(err).Msg("Server failed")
		return err
	}
	return nil
}

func newMux(svc *assets.Service) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/ready", readyHandler(svc))
	mux.HandleFunc("/bundles", bundlesHandler(svc))
	mux.HandleFunc("/tags/script", scriptHandler(svc))
	mux.HandleFunc("/tags/link", linkHandler(svc))
	mux.HandleFunc("/tags/style", styleHandler(svc))
	mux.HandleFunc("/url", urlHandler(svc))
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

func readyHandler(svc *assets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := svc.Manifest(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "READY")
	}
}

func bundlesHandler(svc *assets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.Manifest(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(m.Bundles())
	}
}

func scriptHandler(svc *assets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		load, err := tags.ParseLoadDirective(q.Get("load"))
		if err != nil {
			writeError(w, err)
			return
		}
		tag, err := svc.ScriptTag(r.Context(), q.Get("bundle"), q.Get("fallback"), load)
		writeFragment(w, tag, err)
	}
}

func linkHandler(svc *assets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		tag, err := svc.LinkTag(r.Context(), q.Get("bundle"), q.Get("fallback"))
		writeFragment(w, tag, err)
	}
}

func styleHandler(svc *assets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		tag, err := svc.StyleTag(r.Context(), q.Get("bundle"), q.Get("fallback"))
		writeFragment(w, tag, err)
	}
}

func urlHandler(svc *assets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		url, err := svc.BundleURL(r.Context(), q.Get("bundle"), q.Get("fallback"))
		if err != nil {
			writeError(w, err)
			return
		}
		if url == "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, url)
	}
}

// writeFragment writes an HTML fragment. A missing bundle is 204.
func writeFragment(w http.ResponseWriter, fragment string, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	if fragment == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, fragment)
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= 500 {
		log.Error().Err(err).Int("status", status).Msg("Asset request failed")
	}
	http.Error(w, err.Error(), status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, tags.ErrLoadOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, source.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, manifest.ErrMalformedManifest):
		return http.StatusInternalServerError
	default:
		var fetchErr *source.FetchError
		if errors.As(err, &fetchErr) {
			return http.StatusBadGateway
		}
		return http.StatusInternalServerError
	}
}
