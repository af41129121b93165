package inspect

import (
	"context"
	"fmt"
	"net/url"

	"github.com/git-pkgs/jsregistry/client"
	"github.com/git-pkgs/jsregistry/internal/core"
)

// BundleSizeInfo holds the byte counts of a package's production bundle.
type BundleSizeInfo struct {
	Name            string    `json:"name"`
	Version         string    `json:"version,omitempty"`
	Registry        core.Kind `json:"registry"`
	Size            int64     `json:"size"`
	Gzip            int64     `json:"gzip"`
	Brotli          int64     `json:"brotli,omitempty"`
	DependencyCount int       `json:"dependencyCount"`
	HasSideEffects  bool      `json:"hasSideEffects,omitempty"`
	Error           string    `json:"error,omitempty"`
}

type bundleResponse struct {
	Name            string      `json:"name"`
	Version         string      `json:"version"`
	Size            int64       `json:"size"`
	Gzip            int64       `json:"gzip"`
	Brotli          int64       `json:"brotli"`
	DependencyCount int         `json:"dependencyCount"`
	HasSideEffects  interface{} `json:"hasSideEffects"`
}

// Size asks the bundle-size API for name at version. Only npm packages are
// supported.
func (i *Inspector) Size(ctx context.Context, name, version string, kind core.Kind) *BundleSizeInfo {
	kind = kind.Resolve()
	res := &BundleSizeInfo{Name: name, Version: version, Registry: kind}

	if kind != core.NPM {
		res.Error = fmt.Sprintf("bundle size is not available for %s packages", kind)
		return res
	}

	spec := name
	if version != "" {
		spec += "@" + version
	}
	u := fmt.Sprintf("%s?package=%s", i.bundleURL, url.QueryEscape(spec))

	var resp bundleResponse
	if err := i.client.WithTimeout(i.bundleTimeout).GetJSON(ctx, u, &resp); err != nil {
		if client.IsTimeout(err) {
			res.Error = fmt.Sprintf("bundle size request timed out after %s", i.bundleTimeout)
		} else {
			res.Error = fmt.Sprintf("bundle size lookup failed: %s", core.Describe(err))
		}
		return res
	}

	if resp.Version != "" {
		res.Version = resp.Version
	}
	res.Size = resp.Size
	res.Gzip = resp.Gzip
	res.Brotli = resp.Brotli
	res.DependencyCount = resp.DependencyCount
	switch v := resp.HasSideEffects.(type) {
	case bool:
		res.HasSideEffects = v
	case []interface{}:
		res.HasSideEffects = len(v) > 0
	}
	return res
}
