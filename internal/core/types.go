// Package core provides shared types, registry detection and the registry system.
package core

import (
	"fmt"
	"strings"
)

// Kind identifies a package registry.
type Kind string

const (
	NPM     Kind = "npm"
	JSR     Kind = "jsr"
	Deno    Kind = "deno"
	Unknown Kind = "unknown"
)

// DefaultLimit is the number of search results requested when the caller gives none.
const DefaultLimit = 20

// ParseKind parses a registry name. Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case NPM, JSR, Deno, Unknown:
		return k, nil
	}
	return "", fmt.Errorf("unsupported registry: %q", s)
}

// Resolve maps Unknown (and the empty kind) to npm. Every registry-specific
// branch in this module goes through Resolve.
func (k Kind) Resolve() Kind {
	if k == "" || k == Unknown {
		return NPM
	}
	return k
}

func (k Kind) String() string {
	return string(k)
}

// PackageSummary is the normalized view of one package in a search result.
type PackageSummary struct {
	Name         string            `json:"name"`
	Version      string            `json:"version,omitempty"`
	Description  string            `json:"description,omitempty"`
	Author       string            `json:"author,omitempty"`
	License      string            `json:"license,omitempty"`
	LicenseValid bool              `json:"licenseValid,omitempty"` // license is a valid SPDX expression
	Repository   string            `json:"repository,omitempty"`
	Homepage     string            `json:"homepage,omitempty"`
	Keywords     []string          `json:"keywords,omitempty"`
	Registry     Kind              `json:"registry"`
	URL          string            `json:"url"`
	PURL         string            `json:"purl,omitempty"`
	PublishedAt  string            `json:"publishedAt,omitempty"`
	Downloads    int64             `json:"downloads,omitempty"`
	Stars        int64             `json:"stars,omitempty"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// SearchOutcome is the result of one registry search. Packages keep the
// upstream relevance order. When Error is set Packages is empty and Total is zero.
type SearchOutcome struct {
	Query    string           `json:"query"`
	Registry Kind             `json:"registry"`
	Packages []PackageSummary `json:"packages"`
	Total    int              `json:"total,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// NewSearchOutcome returns an empty successful outcome.
func NewSearchOutcome(query string, kind Kind) *SearchOutcome {
	return &SearchOutcome{
		Query:    query,
		Registry: kind,
		Packages: []PackageSummary{},
	}
}

// FailedSearch returns an outcome carrying only an error.
func FailedSearch(query string, kind Kind, msg string) *SearchOutcome {
	out := NewSearchOutcome(query, kind)
	out.Error = msg
	return out
}

// DependencyNode holds one package's first-level dependencies. Nested
// dependencies are never expanded.
type DependencyNode struct {
	Name                 string            `json:"name"`
	Version              string            `json:"version"`
	Registry             Kind              `json:"registry"`
	PURL                 string            `json:"purl,omitempty"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
	Error                string            `json:"error,omitempty"`
}

// NewDependencyNode returns a node with empty, non-nil mappings.
func NewDependencyNode(name, version string, kind Kind) *DependencyNode {
	return &DependencyNode{
		Name:                 name,
		Version:              version,
		Registry:             kind,
		Dependencies:         map[string]string{},
		DevDependencies:      map[string]string{},
		PeerDependencies:     map[string]string{},
		OptionalDependencies: map[string]string{},
	}
}
