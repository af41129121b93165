// Package jsregistry searches and inspects JavaScript packages across npm,
// JSR and deno.land/x.
//
// Basic usage:
//
//	import (
//		"context"
//		"github.com/git-pkgs/jsregistry"
//		_ "github.com/git-pkgs/jsregistry/all"
//	)
//
//	agg, err := jsregistry.NewDefaultAggregator(jsregistry.DefaultClient())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for _, out := range agg.SearchAll(context.Background(), "path", 10) {
//		fmt.Println(out.Registry, len(out.Packages), out.Error)
//	}
//
// Registry clients register themselves when imported; the all subpackage
// imports every one of them.
package jsregistry

import (
	"fmt"

	"github.com/git-pkgs/purl"

	"github.com/git-pkgs/jsregistry/client"
	"github.com/git-pkgs/jsregistry/internal/core"
)

// Re-export types from internal/core
type (
	// Registry is the interface implemented by every registry client.
	Registry = core.Registry

	// Kind identifies a registry: npm, jsr, deno or unknown.
	Kind = core.Kind

	// PackageSummary is one package in a search result.
	PackageSummary = core.PackageSummary

	// SearchOutcome is the result of searching one registry.
	SearchOutcome = core.SearchOutcome

	// DependencyNode holds a package's first-level dependencies.
	DependencyNode = core.DependencyNode

	// Info describes a registry's endpoints.
	Info = core.Info

	// Aggregator routes searches to registry clients.
	Aggregator = core.Aggregator

	// PackageRef is a package named by a PURL.
	PackageRef = core.PackageRef
)

// Re-export types from client
type (
	// Client is the HTTP client used for every upstream call.
	Client = client.Client

	// URLBuilder constructs URLs for a registry.
	URLBuilder = client.URLBuilder

	// RateLimiter controls request pacing.
	RateLimiter = client.RateLimiter
)

// Registry kinds.
const (
	NPM     = core.NPM
	JSR     = core.JSR
	Deno    = core.Deno
	Unknown = core.Unknown

	DefaultLimit = core.DefaultLimit
)

// Re-export errors
var (
	ErrNotFound     = client.ErrNotFound
	ErrRateLimited  = client.ErrRateLimited
	ErrUpstreamDown = client.ErrUpstreamDown
)

// Error types
type (
	HTTPError     = client.HTTPError
	NotFoundError = client.NotFoundError
	TimeoutError  = client.TimeoutError
)

// New creates a registry client. Unknown resolves to npm.
// If baseURL is empty, the default registry URL is used.
// If c is nil, DefaultClient() is used.
func New(kind Kind, baseURL string, c *Client) (Registry, error) {
	return core.New(kind, baseURL, c)
}

// NewAggregator creates an aggregator over the given registries.
func NewAggregator(regs ...Registry) *Aggregator {
	return core.NewAggregator(regs...)
}

// NewDefaultAggregator creates an aggregator over npm, JSR and Deno at their
// default URLs.
func NewDefaultAggregator(c *Client) (*Aggregator, error) {
	return core.NewDefaultAggregator(c)
}

// DefaultClient returns a client with sensible defaults:
// - 10s timeout per request
// - no retries
// - per-host circuit breaking
func DefaultClient() *Client {
	return client.DefaultClient()
}

// NewClient creates a new client with the given options.
func NewClient(opts ...Option) *Client {
	return client.NewClient(opts...)
}

// Option configures a Client.
type Option = client.Option

// WithTimeout sets the per-request timeout.
var WithTimeout = client.WithTimeout

// WithRateLimiter paces every request through l.
var WithRateLimiter = client.WithRateLimiter

// SupportedRegistries returns the registered registries.
// Note: registries must be imported to be registered.
func SupportedRegistries() []Kind {
	return core.SupportedKinds()
}

// DefaultURL returns the default API base URL for a registry.
func DefaultURL(kind Kind) string {
	return core.DefaultURL(kind)
}

// ParseKind parses a registry name.
func ParseKind(s string) (Kind, error) {
	return core.ParseKind(s)
}

// Detect guesses the registry a package name belongs to.
func Detect(name string) Kind {
	return core.Detect(name)
}

// Lookup returns the catalog entry for kind.
func Lookup(kind Kind) Info {
	return core.Lookup(kind)
}

// BuildURLs returns a map of all non-empty URLs for a package.
// Keys are "page", "download", "docs", and "purl".
func BuildURLs(urls URLBuilder, name, version string) map[string]string {
	return client.BuildURLs(urls, name, version)
}

// PURL represents a parsed Package URL.
type PURL = purl.PURL

// ParsePURL parses a Package URL string into its components.
// Supports both package PURLs (pkg:npm/lodash) and version PURLs (pkg:npm/lodash@4.17.21).
func ParsePURL(purlStr string) (*PURL, error) {
	return purl.Parse(purlStr)
}

// ParsePackageRef reads a PURL naming an npm, JSR or Deno package.
func ParsePackageRef(s string) (PackageRef, bool) {
	return core.ParsePackageRef(s)
}

// NewFromPURL creates the registry client for a PURL and returns it with the
// package name and version (empty if not in the PURL).
func NewFromPURL(purlStr string, c *Client) (Registry, string, string, error) {
	ref, ok := core.ParsePackageRef(purlStr)
	if !ok {
		return nil, "", "", fmt.Errorf("not an npm, jsr or deno package URL: %q", purlStr)
	}
	reg, err := core.New(ref.Registry, "", c)
	if err != nil {
		return nil, "", "", err
	}
	return reg, ref.Name, ref.Version, nil
}
