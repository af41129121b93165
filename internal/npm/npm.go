// Package npm provides a registry client for npmjs.com.
package npm

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Masterminds/semver"

	"github.com/git-pkgs/jsregistry/internal/core"
)

const (
	DefaultURL = "https://registry.npmjs.org"
	ecosystem  = "npm"
)

func init() {
	core.Register(core.NPM, DefaultURL, func(baseURL string, client *core.Client) core.Registry {
		return New(baseURL, client)
	})
	core.RegisterURLs(core.NPM, &URLs{baseURL: DefaultURL})
}

type Registry struct {
	baseURL string
	client  *core.Client
	urls    *URLs
}

func New(baseURL string, client *core.Client) *Registry {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if client == nil {
		client = core.DefaultClient()
	}
	r := &Registry{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
	r.urls = &URLs{baseURL: r.baseURL}
	return r
}

func (r *Registry) Kind() core.Kind {
	return core.NPM
}

func (r *Registry) URLs() core.URLBuilder {
	return r.urls
}

type searchResponse struct {
	Objects []searchObject `json:"objects"`
	Total   int            `json:"total"`
}

type searchObject struct {
	Package   searchPackage `json:"package"`
	Downloads downloads     `json:"downloads"`
}

type searchPackage struct {
	Name        string      `json:"name"`
	Version     string      `json:"version"`
	Description string      `json:"description"`
	Keywords    interface{} `json:"keywords"`
	Date        string      `json:"date"`
	License     interface{} `json:"license"`
	Author      interface{} `json:"author"`
	Publisher   interface{} `json:"publisher"`
	Links       links       `json:"links"`
}

type links struct {
	NPM        string `json:"npm"`
	Homepage   string `json:"homepage"`
	Repository string `json:"repository"`
}

type downloads struct {
	Total   int64 `json:"total"`
	Monthly int64 `json:"monthly"`
	Weekly  int64 `json:"weekly"`
}

func (d downloads) count() int64 {
	switch {
	case d.Total > 0:
		return d.Total
	case d.Monthly > 0:
		return d.Monthly
	}
	return d.Weekly
}

// Search queries the registry's /-/v1/search endpoint.
func (r *Registry) Search(ctx context.Context, query string, limit int) *core.SearchOutcome {
	if limit <= 0 {
		limit = core.DefaultLimit
	}
	u := fmt.Sprintf("%s/-/v1/search?text=%s&size=%d", r.baseURL, url.QueryEscape(query), limit)

	var resp searchResponse
	if err := r.client.GetJSON(ctx, u, &resp); err != nil {
		return core.FailedSearch(query, core.NPM, fmt.Sprintf("npm search failed: %s", core.Describe(err)))
	}

	out := core.NewSearchOutcome(query, core.NPM)
	out.Total = resp.Total
	for _, obj := range resp.Objects {
		if obj.Package.Name == "" {
			continue
		}
		out.Packages = append(out.Packages, r.summary(obj))
	}
	return out
}

func (r *Registry) summary(obj searchObject) core.PackageSummary {
	p := obj.Package
	license := extractLicense(p.License)
	pageURL := p.Links.NPM
	if pageURL == "" {
		pageURL = r.urls.Registry(p.Name, "")
	}
	return core.PackageSummary{
		Name:         p.Name,
		Version:      p.Version,
		Description:  p.Description,
		Author:       coalesceString(extractPerson(p.Author), extractPerson(p.Publisher)),
		License:      license,
		LicenseValid: core.ValidLicense(license),
		Repository:   normalizeGitURL(p.Links.Repository),
		Homepage:     p.Links.Homepage,
		Keywords:     extractKeywords(p.Keywords),
		Registry:     core.NPM,
		URL:          pageURL,
		PURL:         r.urls.PURL(p.Name, p.Version),
		PublishedAt:  p.Date,
		Downloads:    obj.Downloads.count(),
	}
}

type packageResponse struct {
	Name     string                 `json:"name"`
	Versions map[string]versionInfo `json:"versions"`
	DistTags map[string]string      `json:"dist-tags"`
}

type versionInfo struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies"`
	DevDeps      map[string]string `json:"devDependencies"`
	PeerDeps     map[string]string `json:"peerDependencies"`
	OptionalDeps map[string]string `json:"optionalDependencies"`
}

func (r *Registry) fetchDocument(ctx context.Context, name string) (*packageResponse, error) {
	u := fmt.Sprintf("%s/%s", r.baseURL, escapeName(name))

	var resp packageResponse
	if err := r.client.GetJSON(ctx, u, &resp); err != nil {
		if core.IsNotFound(err) {
			return nil, &core.NotFoundError{Ecosystem: ecosystem, Name: name}
		}
		return nil, err
	}
	return &resp, nil
}

// FetchDependencies returns the first-level dependencies of one version. An
// empty version means the "latest" dist-tag; other dist-tags and semver
// ranges resolve to the matching published version.
func (r *Registry) FetchDependencies(ctx context.Context, name, version string) (*core.DependencyNode, error) {
	doc, err := r.fetchDocument(ctx, name)
	if err != nil {
		return nil, err
	}

	resolved, ok := resolveVersion(doc, version)
	if !ok {
		return nil, &core.NotFoundError{Ecosystem: ecosystem, Name: name, Version: version}
	}
	v := doc.Versions[resolved]

	node := core.NewDependencyNode(name, resolved, core.NPM)
	node.PURL = r.urls.PURL(name, resolved)
	copyDeps(node.Dependencies, v.Dependencies)
	copyDeps(node.DevDependencies, v.DevDeps)
	copyDeps(node.PeerDependencies, v.PeerDeps)
	copyDeps(node.OptionalDependencies, v.OptionalDeps)
	return node, nil
}

// FetchPeerDependencies returns the peer dependencies of the latest version.
func (r *Registry) FetchPeerDependencies(ctx context.Context, name string) (map[string]string, error) {
	node, err := r.FetchDependencies(ctx, name, "")
	if err != nil {
		return nil, err
	}
	return node.PeerDependencies, nil
}

// Exists issues a HEAD request for the package document.
func (r *Registry) Exists(ctx context.Context, name string) error {
	u := fmt.Sprintf("%s/%s", r.baseURL, escapeName(name))
	if err := r.client.Head(ctx, u); err != nil {
		if core.IsNotFound(err) {
			return &core.NotFoundError{Ecosystem: ecosystem, Name: name}
		}
		return err
	}
	return nil
}

func resolveVersion(doc *packageResponse, version string) (string, bool) {
	if version == "" {
		version = "latest"
	}
	if _, ok := doc.Versions[version]; ok {
		return version, true
	}
	if tagged, ok := doc.DistTags[version]; ok {
		_, exists := doc.Versions[tagged]
		return tagged, exists
	}

	constraint, err := semver.NewConstraint(version)
	if err != nil {
		return "", false
	}
	var best *semver.Version
	var bestRaw string
	for raw := range doc.Versions {
		v, err := semver.NewVersion(raw)
		if err != nil || !constraint.Check(v) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best, bestRaw = v, raw
		}
	}
	return bestRaw, best != nil
}

func copyDeps(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}

// escapeName encodes a scoped name as "@scope%2fname".
func escapeName(name string) string {
	if scope, pkg, ok := core.SplitScoped(name); ok {
		return "@" + url.PathEscape(scope) + "%2f" + url.PathEscape(pkg)
	}
	return url.PathEscape(name)
}

func extractPerson(v interface{}) string {
	switch p := v.(type) {
	case string:
		name, _, _ := strings.Cut(p, " <")
		return strings.TrimSpace(name)
	case map[string]interface{}:
		if name, ok := p["name"].(string); ok && name != "" {
			return name
		}
		if name, ok := p["username"].(string); ok {
			return name
		}
	}
	return ""
}

func normalizeGitURL(u string) string {
	u = strings.TrimPrefix(u, "git+")
	u = strings.TrimPrefix(u, "git://")
	u = strings.TrimSuffix(u, ".git")
	if strings.HasPrefix(u, "github.com/") {
		u = "https://" + u
	}
	return u
}

func extractLicense(v interface{}) string {
	switch l := v.(type) {
	case string:
		return l
	case map[string]interface{}:
		if t, ok := l["type"].(string); ok {
			return t
		}
	case []interface{}:
		var licenses []string
		for _, item := range l {
			switch li := item.(type) {
			case string:
				licenses = append(licenses, li)
			case map[string]interface{}:
				if t, ok := li["type"].(string); ok {
					licenses = append(licenses, t)
				}
			}
		}
		if len(licenses) > 1 {
			return "(" + strings.Join(licenses, " OR ") + ")"
		}
		return strings.Join(licenses, "")
	}
	return ""
}

func extractKeywords(v interface{}) []string {
	switch k := v.(type) {
	case []interface{}:
		keywords := make([]string, 0, len(k))
		for _, item := range k {
			if s, ok := item.(string); ok && s != "" {
				keywords = append(keywords, s)
			}
		}
		return keywords
	case string:
		if k == "" {
			return nil
		}
		return strings.Split(k, ",")
	}
	return nil
}

func coalesceString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

type URLs struct {
	baseURL string
}

func (u *URLs) Registry(name, version string) string {
	if version != "" {
		return fmt.Sprintf("https://www.npmjs.com/package/%s/v/%s", name, version)
	}
	return fmt.Sprintf("https://www.npmjs.com/package/%s", name)
}

func (u *URLs) Download(name, version string) string {
	if version == "" {
		return ""
	}
	shortName := name
	if _, pkg, ok := core.SplitScoped(name); ok {
		shortName = pkg
	}
	return fmt.Sprintf("%s/%s/-/%s-%s.tgz", u.baseURL, name, shortName, version)
}

func (u *URLs) Documentation(name, version string) string {
	return u.Registry(name, version)
}

func (u *URLs) PURL(name, version string) string {
	return core.BuildPURL(core.NPM, name, version)
}
