// Package config loads runtime settings from the environment and an optional
// YAML file.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/git-pkgs/jsregistry/client"
	"github.com/git-pkgs/jsregistry/inspect"
	"github.com/git-pkgs/jsregistry/internal/core"
)

// EnvPrefix prefixes every environment variable, e.g. JSREGISTRY_TIMEOUT.
const EnvPrefix = "JSREGISTRY"

const (
	KeyDefaultRegistry = "default_registry"
	KeyTimeout         = "timeout"
	KeyBundleTimeout   = "bundle_timeout"
	KeyUserAgent       = "user_agent"
	KeyRateLimit       = "rate_limit"
	KeyLogLevel        = "log_level"
)

// MinTimeout is the shortest accepted timeout or bundle timeout.
const MinTimeout = 100 * time.Millisecond

// Config holds resolved settings.
type Config struct {
	// DefaultRegistry overrides detection when a call names no registry.
	// Empty means detect.
	DefaultRegistry core.Kind
	Timeout         time.Duration
	BundleTimeout   time.Duration
	UserAgent       string

	// RateLimit is requests per second across all upstream calls; 0 means
	// unlimited.
	RateLimit float64
	LogLevel  string

	// Warnings lists settings that were ignored.
	Warnings []string
}

// New returns a viper instance with defaults and environment bindings.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv(KeyDefaultRegistry, EnvPrefix+"_DEFAULT_REGISTRY", "DEFAULT_REGISTRY")

	v.SetDefault(KeyTimeout, client.DefaultTimeout)
	v.SetDefault(KeyBundleTimeout, inspect.DefaultBundleTimeout)
	v.SetDefault(KeyUserAgent, "jsregistry")
	v.SetDefault(KeyRateLimit, 0)
	v.SetDefault(KeyLogLevel, "info")
	return v
}

// ReadFile reads path, or when path is empty the first jsregistry.yaml found
// in the working directory or $HOME/.config/jsregistry. A missing default file
// is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("jsregistry")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/jsregistry")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}

// Load resolves the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	timeout, err := duration(v, KeyTimeout)
	if err != nil {
		return nil, err
	}
	bundleTimeout, err := duration(v, KeyBundleTimeout)
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		Timeout:       timeout,
		BundleTimeout: bundleTimeout,
		UserAgent:     v.GetString(KeyUserAgent),
		RateLimit:     v.GetFloat64(KeyRateLimit),
		LogLevel:      strings.ToLower(v.GetString(KeyLogLevel)),
	}

	if raw := v.GetString(KeyDefaultRegistry); raw != "" {
		kind, err := core.ParseKind(raw)
		if err != nil || kind == core.Unknown {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("ignoring default registry %q: want npm, jsr or deno", raw))
		} else {
			cfg.DefaultRegistry = kind
		}
	}

	if cfg.RateLimit < 0 {
		return nil, fmt.Errorf("%s must not be negative, got %g", KeyRateLimit, cfg.RateLimit)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "jsregistry"
	}
	return cfg, nil
}

// duration reads a timeout setting. A bare number has no unit and is
// rejected rather than read as nanoseconds.
func duration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if _, err := strconv.ParseFloat(raw, 64); err == nil {
		return 0, fmt.Errorf("%s %q has no unit, e.g. %ss", key, raw, raw)
	}
	d := v.GetDuration(key)
	if d < MinTimeout {
		return 0, fmt.Errorf("%s must be at least %s, got %s", key, MinTimeout, d)
	}
	return d, nil
}

// Client builds the HTTP client every upstream call goes through.
func (c *Config) Client() *client.Client {
	opts := []client.Option{
		client.WithTimeout(c.Timeout),
		client.WithUserAgent(c.UserAgent),
	}
	if c.RateLimit > 0 {
		opts = append(opts, client.WithRateLimiter(rate.NewLimiter(rate.Limit(c.RateLimit), 1)))
	}
	return client.NewClient(opts...)
}

// InspectOptions returns the inspector settings derived from c.
func (c *Config) InspectOptions() []inspect.Option {
	return []inspect.Option{inspect.WithBundleTimeout(c.BundleTimeout)}
}
