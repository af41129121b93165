// Package cdn builds browser import URLs for packages and searches the CDNs
// that serve them.
package cdn

import (
	"fmt"
	"strings"

	"github.com/git-pkgs/jsregistry/internal/core"
)

// Provider identifies a CDN or registry that serves importable modules.
type Provider string

const (
	Unpkg    Provider = "unpkg"
	JSDelivr Provider = "jsdelivr"
	Skypack  Provider = "skypack"
	EsmSh    Provider = "esm.sh"
	Cdnjs    Provider = "cdnjs"
	DenoLand Provider = "deno.land"
	JSRIO    Provider = "jsr.io"
)

// Format is the module format a URL serves.
type Format string

const (
	ESM  Format = "esm"
	UMD  Format = "umd"
	CJS  Format = "cjs"
	IIFE Format = "iife"
)

// Entry is one importable URL for a package.
type Entry struct {
	Provider    Provider `json:"provider"`
	URL         string   `json:"url"`
	Format      Format   `json:"format"`
	Minified    bool     `json:"minified"`
	Description string   `json:"description"`
}

// Info lists the import URLs generated for a package.
type Info struct {
	Name        string    `json:"name"`
	Version     string    `json:"version,omitempty"`
	Registry    core.Kind `json:"registry"`
	Entries     []Entry   `json:"entries"`
	Recommended *Entry    `json:"recommended,omitempty"`
}

type template struct {
	provider    Provider
	url         string // %[1]s is name[@version], %[2]s is the unscoped name
	format      Format
	minified    bool
	description string
}

var npmTemplates = []template{
	{Unpkg, "https://unpkg.com/%[1]s", UMD, false, "unpkg default entry point"},
	{Unpkg, "https://unpkg.com/%[1]s/dist/%[2]s.min.js", UMD, true, "unpkg minified UMD build"},
	{Unpkg, "https://unpkg.com/%[1]s?module", ESM, false, "unpkg ES module entry point"},
	{JSDelivr, "https://cdn.jsdelivr.net/npm/%[1]s", UMD, false, "jsDelivr default entry point"},
	{JSDelivr, "https://cdn.jsdelivr.net/npm/%[1]s/+esm", ESM, true, "jsDelivr ES module build"},
	{JSDelivr, "https://cdn.jsdelivr.net/npm/%[1]s/dist/%[2]s.min.js", UMD, true, "jsDelivr minified UMD build"},
	{Skypack, "https://cdn.skypack.dev/%[1]s", ESM, false, "Skypack ES module"},
	{Skypack, "https://cdn.skypack.dev/%[1]s?min", ESM, true, "Skypack minified ES module"},
	{EsmSh, "https://esm.sh/%[1]s", ESM, false, "esm.sh ES module"},
	{EsmSh, "https://esm.sh/%[1]s?bundle", ESM, true, "esm.sh bundled ES module"},
}

// Generate builds import URLs for name without any network call. Unknown is
// treated as npm.
func Generate(name, version string, kind core.Kind) *Info {
	kind = kind.Resolve()
	name = core.StripSpecifier(name)

	info := &Info{Name: name, Version: version, Registry: kind}
	var preferred []Provider
	switch kind {
	case core.JSR:
		info.Entries = jsrEntries(name, version)
		preferred = []Provider{JSRIO}
	case core.Deno:
		info.Entries = denoEntries(name, version)
		preferred = []Provider{DenoLand}
	default:
		info.Entries = npmEntries(name, version)
		preferred = []Provider{Skypack, EsmSh}
	}
	if info.Entries == nil {
		info.Entries = []Entry{}
	}
	info.Recommended = recommend(info.Entries, preferred)
	return info
}

func npmEntries(name, version string) []Entry {
	spec := withVersion(name, version)
	base := name
	if _, pkg, ok := core.SplitScoped(name); ok {
		base = pkg
	}

	entries := make([]Entry, 0, len(npmTemplates))
	for _, t := range npmTemplates {
		entries = append(entries, Entry{
			Provider:    t.provider,
			URL:         fmt.Sprintf(t.url, spec, base),
			Format:      t.format,
			Minified:    t.minified,
			Description: t.description,
		})
	}
	return entries
}

func jsrEntries(name, version string) []Entry {
	path := name
	if scope, pkg, ok := core.SplitScoped(name); ok {
		path = fmt.Sprintf("@%s/%s", scope, pkg)
	}
	spec := withVersion(path, version)

	return []Entry{
		{
			Provider:    JSRIO,
			URL:         "https://jsr.io/" + spec,
			Format:      ESM,
			Description: "JSR direct import",
		},
		{
			Provider:    EsmSh,
			URL:         "https://esm.sh/jsr/" + spec,
			Format:      ESM,
			Description: "esm.sh JSR proxy",
		},
	}
}

func denoEntries(name, version string) []Entry {
	var entries []Entry
	module := name
	if strings.HasPrefix(name, "https://deno.land") {
		entries = append(entries, Entry{
			Provider:    DenoLand,
			URL:         name,
			Format:      ESM,
			Description: "deno.land module",
		})
		module = moduleFromURL(name)
	}
	entries = append(entries, Entry{
		Provider:    EsmSh,
		URL:         "https://esm.sh/" + withVersion(module, version),
		Format:      ESM,
		Description: "esm.sh proxy",
	})
	return entries
}

// moduleFromURL extracts "oak" from "https://deno.land/x/oak@v12.6.1/mod.ts".
func moduleFromURL(u string) string {
	rest := strings.TrimPrefix(u, "https://deno.land/")
	rest = strings.TrimPrefix(rest, "x/")
	module, _, _ := strings.Cut(rest, "/")
	module, _, _ = strings.Cut(module, "@")
	return module
}

func withVersion(name, version string) string {
	if version == "" {
		return name
	}
	return name + "@" + version
}

func recommend(entries []Entry, preferred []Provider) *Entry {
	for i := range entries {
		for _, p := range preferred {
			if entries[i].Provider == p {
				e := entries[i]
				return &e
			}
		}
	}
	if len(entries) == 0 {
		return nil
	}
	e := entries[0]
	return &e
}
