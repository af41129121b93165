package core

// Info describes a registry's public endpoints.
type Info struct {
	Registry    Kind   `json:"registry"`
	DisplayName string `json:"displayName"`
	BaseURL     string `json:"baseUrl"`
	SearchURL   string `json:"searchUrl"`
}

// PageURL returns the registry's web page for a package, or "" when the
// registry has no URL builder registered.
func (i Info) PageURL(name string) string {
	urls, ok := URLsFor(i.Registry)
	if !ok || name == "" {
		return ""
	}
	return urls.Registry(name, "")
}

// Links returns the page, download, docs and purl URLs known for a package,
// keyed as BuildURLs keys them. It is nil when the registry has no URL
// builder registered.
func (i Info) Links(name, version string) map[string]string {
	urls, ok := URLsFor(i.Registry)
	if !ok || name == "" {
		return nil
	}
	return BuildURLs(urls, name, version)
}

var catalog = map[Kind]Info{
	NPM: {
		Registry:    NPM,
		DisplayName: "npm",
		BaseURL:     "https://registry.npmjs.org",
		SearchURL:   "https://registry.npmjs.org/-/v1/search",
	},
	JSR: {
		Registry:    JSR,
		DisplayName: "JSR",
		BaseURL:     "https://jsr.io",
		SearchURL:   "https://api.jsr.io/packages",
	},
	Deno: {
		Registry:    Deno,
		DisplayName: "Deno",
		BaseURL:     "https://deno.land",
		SearchURL:   "https://apiland.deno.dev/v2/modules",
	},
	Unknown: {
		Registry: Unknown,
	},
}

// Lookup returns the catalog entry for kind. Kinds outside the catalog get
// the Unknown entry.
func Lookup(kind Kind) Info {
	if info, ok := catalog[kind]; ok {
		return info
	}
	return catalog[Unknown]
}
