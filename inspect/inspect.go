// Package inspect reports on a single package: its first-level dependencies,
// known vulnerabilities and bundle size.
package inspect

import (
	"time"

	"github.com/git-pkgs/jsregistry/client"
	"github.com/git-pkgs/jsregistry/internal/core"
)

const (
	// DefaultBundleURL is the bundle-size analysis API.
	DefaultBundleURL = "https://bundlephobia.com/api/size"

	// DefaultBundleTimeout bounds the bundle-size request.
	DefaultBundleTimeout = 15 * time.Second
)

// Inspector answers dependency, vulnerability and bundle-size queries.
type Inspector struct {
	registries    *core.Aggregator
	client        *client.Client
	bundleURL     string
	bundleTimeout time.Duration
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithBundleURL overrides the bundle-size API endpoint.
func WithBundleURL(u string) Option {
	return func(i *Inspector) {
		i.bundleURL = u
	}
}

// WithBundleTimeout overrides the bundle-size request timeout.
func WithBundleTimeout(d time.Duration) Option {
	return func(i *Inspector) {
		i.bundleTimeout = d
	}
}

// New creates an Inspector that reads registry metadata through registries
// and calls the bundle-size API with c.
func New(registries *core.Aggregator, c *client.Client, opts ...Option) *Inspector {
	if c == nil {
		c = client.DefaultClient()
	}
	i := &Inspector{
		registries:    registries,
		client:        c,
		bundleURL:     DefaultBundleURL,
		bundleTimeout: DefaultBundleTimeout,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Inspector) registry(kind core.Kind) core.Registry {
	if i.registries == nil {
		return nil
	}
	reg, ok := i.registries.Registry(kind)
	if !ok {
		return nil
	}
	return reg
}
