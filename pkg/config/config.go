// Package config provides configuration management using Viper.
package config

import (
	"fmt"
	"time"

	"github.com/Sternrassler/webpack-assets/pkg/logging"
	"github.com/Sternrassler/webpack-assets/pkg/manifest"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Environment types
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// Config holds the settings consumed by the asset service.
type Config struct {
	// Hosting environment; development selects the dev server.
	Environment string `mapstructure:"environment"`

	// Dev server
	DevServerBaseURL   string `mapstructure:"devserverbaseurl"`   // reached by this process
	PublicDevServerURL string `mapstructure:"publicdevserverurl"` // reached by browsers

	// Build output
	AssetsPublicPath    string `mapstructure:"assetspublicpath"`
	ManifestFile        string `mapstructure:"manifestfile"`
	WebRootPath         string `mapstructure:"webrootpath"`
	AssetsDirectoryPath string `mapstructure:"assetsdirectorypath"`

	// Logging
	LogLevel  string `mapstructure:"loglevel"`
	LogPretty bool   `mapstructure:"logpretty"`
	LogFile   string `mapstructure:"logfile"`

	// Server
	Port        string        `mapstructure:"port"`
	HTTPTimeout time.Duration `mapstructure:"httptimeout"`
}

// envBindings maps config keys to environment variables.
var envBindings = map[string]string{
	"environment":         "WEBPACK_ENV",
	"devserverbaseurl":    "WEBPACK_DEV_SERVER_BASE_URL",
	"publicdevserverurl":  "WEBPACK_PUBLIC_DEV_SERVER_URL",
	"assetspublicpath":    "WEBPACK_ASSETS_PUBLIC_PATH",
	"manifestfile":        "WEBPACK_MANIFEST_FILE",
	"webrootpath":         "WEBPACK_WEB_ROOT_PATH",
	"assetsdirectorypath": "WEBPACK_ASSETS_DIRECTORY_PATH",
	"loglevel":            "WEBPACK_LOG_LEVEL",
	"logpretty":           "WEBPACK_LOG_PRETTY",
	"logfile":             "WEBPACK_LOG_FILE",
	"port":                "WEBPACK_PORT",
	"httptimeout":         "WEBPACK_HTTP_TIMEOUT",
}

// flagBindings maps config keys to command line flags.
var flagBindings = map[string]string{
	"environment":         "env",
	"devserverbaseurl":    "dev-server-url",
	"publicdevserverurl":  "public-dev-server-url",
	"assetspublicpath":    "public-path",
	"manifestfile":        "manifest",
	"webrootpath":         "web-root",
	"assetsdirectorypath": "assets-dir",
	"loglevel":            "log-level",
	"logpretty":           "log-pretty",
	"logfile":             "log-file",
	"port":                "port",
	"httptimeout":         "http-timeout",
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("env", "", "hosting environment (development uses the dev server)")
	fs.String("dev-server-url", "", "dev server base URL used to fetch the manifest")
	fs.String("public-dev-server-url", "", "dev server URL used in rendered tags")
	fs.String("public-path", "", "public path of the build output")
	fs.String("manifest", "", "manifest file name")
	fs.String("web-root", "", "web root directory")
	fs.String("assets-dir", "", "assets directory below the web root for inline styles")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.Bool("log-pretty", false, "human readable log output")
	fs.String("log-file", "", "write logs to a rotated file")
	fs.String("port", "", "HTTP listen port")
	fs.Duration("http-timeout", 0, "timeout for dev server requests")
}

// Load reads the configuration from defaults, environment variables and,
// when flags is non-nil, explicitly set command line flags.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("environment", Production)
	v.SetDefault("devserverbaseurl", "http://localhost:8080")
	v.SetDefault("publicdevserverurl", "")
	v.SetDefault("assetspublicpath", "/dist/")
	v.SetDefault("manifestfile", "manifest.json")
	v.SetDefault("webrootpath", "wwwroot")
	v.SetDefault("assetsdirectorypath", "")
	v.SetDefault("loglevel", "info")
	v.SetDefault("logpretty", false)
	v.SetDefault("logfile", "")
	v.SetDefault("port", "8080")
	v.SetDefault("httptimeout", 10*time.Second)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("config: bind env %s: %w", env, err)
		}
	}

	if flags != nil {
		for key, name := range flagBindings {
			// Only explicitly set flags override; pflag defaults are
			// empty and must not shadow the viper defaults above.
			flag := flags.Lookup(name)
			if flag == nil || !flag.Changed {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("config: bind flag %s: %w", name, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	if cfg.PublicDevServerURL == "" {
		cfg.PublicDevServerURL = cfg.DevServerBaseURL
	}
	if cfg.AssetsDirectoryPath == "" {
		cfg.AssetsDirectoryPath = cfg.AssetsPublicPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		Development: true,
		Production:  true,
		Test:        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	if c.ManifestFile == "" {
		return fmt.Errorf("manifest file is required")
	}

	if c.IsDevelopment() && c.DevServerBaseURL == "" {
		return fmt.Errorf("dev server base URL is required in development")
	}

	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http timeout must not be negative (got %s)", c.HTTPTimeout)
	}

	return nil
}

// IsDevelopment returns true if the environment is development.
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// Mode returns Dynamic in development and Static everywhere else.
func (c *Config) Mode() manifest.Mode {
	if c.IsDevelopment() {
		return manifest.Dynamic
	}
	return manifest.Static
}

// ManifestLocation returns the manifest URL (Dynamic) or file path (Static).
func (c *Config) ManifestLocation() string {
	if c.Mode() == manifest.Dynamic {
		return c.DevServerBaseURL + c.AssetsPublicPath + c.ManifestFile
	}
	return c.WebRootPath + c.AssetsPublicPath + c.ManifestFile
}

// AssetPath returns the prefix used in src and href attributes.
func (c *Config) AssetPath() string {
	if c.Mode() == manifest.Dynamic {
		return c.PublicDevServerURL + c.AssetsPublicPath
	}
	return c.AssetsPublicPath
}

// AssetBaseFilePath returns the prefix inline style content is read from.
func (c *Config) AssetBaseFilePath() string {
	if c.Mode() == manifest.Dynamic {
		return c.DevServerBaseURL + c.AssetsPublicPath
	}
	return c.WebRootPath + c.AssetsDirectoryPath
}

// Logging returns the logger settings for this configuration.
func (c *Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.LogLevel(c.LogLevel)
	cfg.Pretty = c.LogPretty
	cfg.File = c.LogFile
	return cfg
}
