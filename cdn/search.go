package cdn

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/git-pkgs/jsregistry/client"
	"github.com/git-pkgs/jsregistry/internal/core"
)

// DefaultCdnjsURL is the cdnjs library search API.
const DefaultCdnjsURL = "https://api.cdnjs.com/libraries"

// SearchProviders is the fixed order of SearchAll results.
var SearchProviders = []Provider{Cdnjs, Unpkg, JSDelivr, Skypack, EsmSh}

// npmMirrors are CDNs that serve the npm namespace without a search API of
// their own. %s is name@version.
var npmMirrors = map[Provider]string{
	Unpkg:    "https://unpkg.com/%s",
	JSDelivr: "https://cdn.jsdelivr.net/npm/%s",
	Skypack:  "https://cdn.skypack.dev/%s",
	EsmSh:    "https://esm.sh/%s",
}

// Package is one search hit on a CDN.
type Package struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	Homepage    string `json:"homepage,omitempty"`
	License     string `json:"license,omitempty"`
}

// SearchResult is the outcome of searching one provider.
type SearchResult struct {
	Provider Provider  `json:"provider"`
	Query    string    `json:"query"`
	Packages []Package `json:"packages"`
	Total    int       `json:"total,omitempty"`
	Error    string    `json:"error,omitempty"`
}

func failed(provider Provider, query, msg string) *SearchResult {
	return &SearchResult{Provider: provider, Query: query, Packages: []Package{}, Error: msg}
}

// Searcher queries cdnjs directly and the npm mirrors through npm search.
type Searcher struct {
	client   *client.Client
	npm      core.Registry
	cdnjsURL string
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher)

// WithCdnjsURL overrides the cdnjs API endpoint.
func WithCdnjsURL(u string) SearcherOption {
	return func(s *Searcher) {
		s.cdnjsURL = strings.TrimSuffix(u, "/")
	}
}

// NewSearcher creates a Searcher. npm is the registry the mirror providers
// proxy through.
func NewSearcher(c *client.Client, npm core.Registry, opts ...SearcherOption) *Searcher {
	if c == nil {
		c = client.DefaultClient()
	}
	s := &Searcher{
		client:   c,
		npm:      npm,
		cdnjsURL: DefaultCdnjsURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseProvider parses a search provider name. "all" is not a provider.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SearchProviders {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unsupported CDN provider: %q", s)
}

// Search queries a single provider.
func (s *Searcher) Search(ctx context.Context, provider Provider, query string, limit int) *SearchResult {
	if limit <= 0 {
		limit = core.DefaultLimit
	}
	if provider == Cdnjs {
		return s.searchCdnjs(ctx, query, limit)
	}
	tmpl, ok := npmMirrors[provider]
	if !ok {
		return failed(provider, query, fmt.Sprintf("unsupported CDN provider: %q", provider))
	}
	return s.searchNPMMirror(ctx, provider, tmpl, query, limit)
}

// SearchAll queries every provider concurrently and returns one result per
// provider in SearchProviders order.
func (s *Searcher) SearchAll(ctx context.Context, query string, limit int) []SearchResult {
	results := make([]SearchResult, len(SearchProviders))

	var g errgroup.Group
	for i, provider := range SearchProviders {
		g.Go(func() error {
			results[i] = *s.Search(ctx, provider, query, limit)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

type cdnjsResponse struct {
	Results []cdnjsLibrary `json:"results"`
	Total   int            `json:"total"`
}

type cdnjsLibrary struct {
	Name        string      `json:"name"`
	Latest      string      `json:"latest"`
	Version     string      `json:"version"`
	Description string      `json:"description"`
	Homepage    string      `json:"homepage"`
	License     interface{} `json:"license"`
}

func (s *Searcher) searchCdnjs(ctx context.Context, query string, limit int) *SearchResult {
	u := fmt.Sprintf("%s?search=%s&limit=%d&fields=version,description,homepage,license",
		s.cdnjsURL, url.QueryEscape(query), limit)

	var resp cdnjsResponse
	if err := s.client.GetJSON(ctx, u, &resp); err != nil {
		return failed(Cdnjs, query, fmt.Sprintf("cdnjs search failed: %s", core.Describe(err)))
	}

	res := &SearchResult{Provider: Cdnjs, Query: query, Packages: []Package{}, Total: resp.Total}
	for _, lib := range resp.Results {
		if lib.Name == "" {
			continue
		}
		link := lib.Latest
		if link == "" {
			link = "https://cdnjs.com/libraries/" + lib.Name
		}
		license, _ := lib.License.(string)
		res.Packages = append(res.Packages, Package{
			Name:        lib.Name,
			Version:     lib.Version,
			Description: lib.Description,
			URL:         link,
			Homepage:    lib.Homepage,
			License:     license,
		})
	}
	return res
}

func (s *Searcher) searchNPMMirror(ctx context.Context, provider Provider, tmpl, query string, limit int) *SearchResult {
	if s.npm == nil {
		return failed(provider, query, "npm registry is not available")
	}

	out := s.npm.Search(ctx, query, limit)
	if out.Error != "" {
		return failed(provider, query, fmt.Sprintf("%s search failed: %s", provider, out.Error))
	}

	res := &SearchResult{Provider: provider, Query: query, Packages: make([]Package, 0, len(out.Packages)), Total: out.Total}
	for _, p := range out.Packages {
		res.Packages = append(res.Packages, Package{
			Name:        p.Name,
			Version:     p.Version,
			Description: p.Description,
			URL:         fmt.Sprintf(tmpl, withVersion(p.Name, p.Version)),
			Homepage:    p.Homepage,
			License:     p.License,
		})
	}
	return res
}
