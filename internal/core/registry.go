package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Registry is the interface implemented by all registry search clients.
type Registry interface {
	// Kind returns the registry this client talks to.
	Kind() Kind

	// Search queries the registry's public search endpoint. Failures are
	// reported in the outcome's Error field, never returned.
	Search(ctx context.Context, query string, limit int) *SearchOutcome

	// URLs returns the URL builder for this registry.
	URLs() URLBuilder
}

// DependencyFetcher is implemented by registries that expose per-version
// dependency manifests.
type DependencyFetcher interface {
	FetchDependencies(ctx context.Context, name, version string) (*DependencyNode, error)
}

// PeerDependencyFetcher is implemented by registries that can report peer dependencies.
type PeerDependencyFetcher interface {
	FetchPeerDependencies(ctx context.Context, name string) (map[string]string, error)
}

// ExistenceChecker is implemented by registries that can cheaply verify a package exists.
type ExistenceChecker interface {
	Exists(ctx context.Context, name string) error
}

// Factory creates a registry instance for a given base URL.
type Factory func(baseURL string, client *Client) Registry

var (
	factories = make(map[Kind]Factory)
	defaults  = make(map[Kind]string)
	builders  = make(map[Kind]URLBuilder)
	mu        sync.RWMutex
)

// Register adds a registry factory to the global registry.
// defaultURL is the default API base URL for the registry.
func Register(kind Kind, defaultURL string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = factory
	defaults[kind] = defaultURL
}

// RegisterURLs records the URL builder used for a registry's package links
// when no client instance is at hand.
func RegisterURLs(kind Kind, urls URLBuilder) {
	mu.Lock()
	defer mu.Unlock()
	builders[kind] = urls
}

// URLsFor returns the URL builder registered for kind.
func URLsFor(kind Kind) (URLBuilder, bool) {
	mu.RLock()
	defer mu.RUnlock()
	urls, ok := builders[kind]
	return urls, ok
}

// New creates a new registry client for kind. Unknown resolves to npm.
// If baseURL is empty, the default registry URL is used.
func New(kind Kind, baseURL string, client *Client) (Registry, error) {
	kind = kind.Resolve()

	mu.RLock()
	factory, ok := factories[kind]
	defaultURL := defaults[kind]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown registry: %s", kind)
	}

	if baseURL == "" {
		baseURL = defaultURL
	}

	if client == nil {
		client = DefaultClient()
	}

	return factory(baseURL, client), nil
}

// SupportedKinds returns all registered registries in sorted order.
func SupportedKinds() []Kind {
	mu.RLock()
	defer mu.RUnlock()

	kinds := make([]Kind, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// DefaultURL returns the default API base URL for a registry.
func DefaultURL(kind Kind) string {
	mu.RLock()
	defer mu.RUnlock()
	return defaults[kind.Resolve()]
}
