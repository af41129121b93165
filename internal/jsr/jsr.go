// Package jsr provides a registry client for jsr.io.
package jsr

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/git-pkgs/jsregistry/internal/core"
)

const (
	DefaultURL = "https://api.jsr.io"
	ecosystem  = "jsr"
)

func init() {
	core.Register(core.JSR, DefaultURL, func(baseURL string, client *core.Client) core.Registry {
		return New(baseURL, client)
	})
	core.RegisterURLs(core.JSR, &URLs{})
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
	r.urls = &URLs{}
	return r
}

func (r *Registry) Kind() core.Kind {
	return core.JSR
}

func (r *Registry) URLs() core.URLBuilder {
	return r.urls
}

type searchResponse struct {
	Items []packageItem `json:"items"`
	Total int           `json:"total"`
}

type packageItem struct {
	Scope            string            `json:"scope"`
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	LatestVersion    string            `json:"latestVersion"`
	UpdatedAt        string            `json:"updatedAt"`
	GithubRepository *githubRepository `json:"githubRepository"`
}

type githubRepository struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

func (p packageItem) fullName() string {
	return fmt.Sprintf("@%s/%s", p.Scope, p.Name)
}

// Search queries the /packages endpoint.
func (r *Registry) Search(ctx context.Context, query string, limit int) *core.SearchOutcome {
	if limit <= 0 {
		limit = core.DefaultLimit
	}
	u := fmt.Sprintf("%s/packages?query=%s&limit=%d", r.baseURL, url.QueryEscape(query), limit)

	var resp searchResponse
	if err := r.client.GetJSON(ctx, u, &resp); err != nil {
		return core.FailedSearch(query, core.JSR, fmt.Sprintf("JSR search failed: %s", core.Describe(err)))
	}

	out := core.NewSearchOutcome(query, core.JSR)
	out.Total = resp.Total
	for _, item := range resp.Items {
		if item.Scope == "" || item.Name == "" {
			continue
		}
		out.Packages = append(out.Packages, r.summary(item))
	}
	return out
}

func (r *Registry) summary(item packageItem) core.PackageSummary {
	name := item.fullName()
	var repository string
	if gh := item.GithubRepository; gh != nil && gh.Owner != "" && gh.Name != "" {
		repository = fmt.Sprintf("https://github.com/%s/%s", gh.Owner, gh.Name)
	}
	return core.PackageSummary{
		Name:        name,
		Version:     item.LatestVersion,
		Description: item.Description,
		Author:      item.Scope,
		Repository:  repository,
		Registry:    core.JSR,
		URL:         r.urls.Registry(name, ""),
		PURL:        r.urls.PURL(name, item.LatestVersion),
		PublishedAt: item.UpdatedAt,
	}
}

type versionResponse struct {
	Version          string            `json:"version"`
	PeerDependencies map[string]string `json:"peerDependencies"`
}

// FetchPeerDependencies resolves the latest version of the package and reads
// that version's peer dependencies. Either fetch failing yields an error and
// no partial data.
func (r *Registry) FetchPeerDependencies(ctx context.Context, name string) (map[string]string, error) {
	scope, pkg, ok := core.SplitScoped(core.StripSpecifier(name))
	if !ok {
		return nil, fmt.Errorf("jsr: %q is not a scoped package name", name)
	}
	base := fmt.Sprintf("%s/scopes/%s/packages/%s", r.baseURL, url.PathEscape(scope), url.PathEscape(pkg))

	var info packageItem
	if err := r.client.GetJSON(ctx, base, &info); err != nil {
		if core.IsNotFound(err) {
			return nil, &core.NotFoundError{Ecosystem: ecosystem, Name: name}
		}
		return nil, err
	}
	if info.LatestVersion == "" {
		return nil, &core.NotFoundError{Ecosystem: ecosystem, Name: name, Version: "latest"}
	}

	var version versionResponse
	if err := r.client.GetJSON(ctx, base+"/versions/"+url.PathEscape(info.LatestVersion), &version); err != nil {
		if core.IsNotFound(err) {
			return nil, &core.NotFoundError{Ecosystem: ecosystem, Name: name, Version: info.LatestVersion}
		}
		return nil, err
	}

	peers := make(map[string]string, len(version.PeerDependencies))
	for k, v := range version.PeerDependencies {
		peers[k] = v
	}
	return peers, nil
}

type URLs struct{}

func (u *URLs) Registry(name, version string) string {
	if version != "" {
		return fmt.Sprintf("https://jsr.io/%s@%s", name, version)
	}
	return fmt.Sprintf("https://jsr.io/%s", name)
}

func (u *URLs) Download(name, version string) string {
	return ""
}

func (u *URLs) Documentation(name, version string) string {
	if version != "" {
		return fmt.Sprintf("https://jsr.io/%s@%s/doc", name, version)
	}
	return fmt.Sprintf("https://jsr.io/%s/doc", name)
}

func (u *URLs) PURL(name, version string) string {
	return core.BuildPURL(core.JSR, name, version)
}
