// Package deno provides a registry client for Deno third-party modules.
package deno

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/git-pkgs/jsregistry/internal/core"
)

const (
	DefaultURL = "https://apiland.deno.dev"
)

func init() {
	core.Register(core.Deno, DefaultURL, func(baseURL string, client *core.Client) core.Registry {
		return New(baseURL, client)
	})
	core.RegisterURLs(core.Deno, &URLs{})
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
	return core.Deno
}

func (r *Registry) URLs() core.URLBuilder {
	return r.urls
}

type searchResponse struct {
	Items []moduleResponse `json:"items"`
	Total int              `json:"total"`
}

type moduleResponse struct {
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	LatestVersion string        `json:"latest_version"`
	StarCount     int64         `json:"star_count"`
	Stars         int64         `json:"stars"`
	Tags          []moduleTag   `json:"tags"`
	UploadOptions uploadOptions `json:"upload_options"`
}

type moduleTag struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type uploadOptions struct {
	Type       string `json:"type"`
	Repository string `json:"repository"`
}

// Search queries the /v2/modules endpoint.
func (r *Registry) Search(ctx context.Context, query string, limit int) *core.SearchOutcome {
	if limit <= 0 {
		limit = core.DefaultLimit
	}
	u := fmt.Sprintf("%s/v2/modules?query=%s&limit=%d", r.baseURL, url.QueryEscape(query), limit)

	var resp searchResponse
	if err := r.client.GetJSON(ctx, u, &resp); err != nil {
		return core.FailedSearch(query, core.Deno, fmt.Sprintf("Deno search failed: %s", core.Describe(err)))
	}

	out := core.NewSearchOutcome(query, core.Deno)
	out.Total = resp.Total
	for _, m := range resp.Items {
		if m.Name == "" {
			continue
		}
		out.Packages = append(out.Packages, r.summary(m))
	}
	return out
}

func (r *Registry) summary(m moduleResponse) core.PackageSummary {
	repository := ""
	if m.UploadOptions.Type == "github" && m.UploadOptions.Repository != "" {
		repository = "https://github.com/" + m.UploadOptions.Repository
	}

	stars := m.StarCount
	if stars == 0 {
		stars = m.Stars
	}

	var keywords []string
	for _, tag := range m.Tags {
		if tag.Value != "" {
			keywords = append(keywords, tag.Value)
		}
	}

	return core.PackageSummary{
		Name:        m.Name,
		Version:     m.LatestVersion,
		Description: m.Description,
		Repository:  repository,
		Keywords:    keywords,
		Registry:    core.Deno,
		URL:         r.urls.Registry(m.Name, ""),
		PURL:        r.urls.PURL(m.Name, m.LatestVersion),
		Stars:       stars,
	}
}

type URLs struct{}

func (u *URLs) Registry(name, version string) string {
	if version != "" {
		return fmt.Sprintf("https://deno.land/x/%s@%s", name, version)
	}
	return fmt.Sprintf("https://deno.land/x/%s", name)
}

func (u *URLs) Download(name, version string) string {
	if version == "" {
		return ""
	}
	return fmt.Sprintf("https://deno.land/x/%s@%s/mod.ts", name, version)
}

func (u *URLs) Documentation(name, version string) string {
	if version != "" {
		return fmt.Sprintf("https://doc.deno.land/https://deno.land/x/%s@%s/mod.ts", name, version)
	}
	return fmt.Sprintf("https://doc.deno.land/https://deno.land/x/%s/mod.ts", name)
}

func (u *URLs) PURL(name, version string) string {
	return core.BuildPURL(core.Deno, name, version)
}
