package core

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		kind        Kind
		displayName string
		baseURL     string
		searchURL   string
	}{
		{NPM, "npm", "https://registry.npmjs.org", "https://registry.npmjs.org/-/v1/search"},
		{JSR, "JSR", "https://jsr.io", "https://api.jsr.io/packages"},
		{Deno, "Deno", "https://deno.land", "https://apiland.deno.dev/v2/modules"},
		{Unknown, "", "", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			info := Lookup(tt.kind)
			if info.Registry != tt.kind {
				t.Errorf("Registry = %q, want %q", info.Registry, tt.kind)
			}
			if info.DisplayName != tt.displayName {
				t.Errorf("DisplayName = %q, want %q", info.DisplayName, tt.displayName)
			}
			if info.BaseURL != tt.baseURL {
				t.Errorf("BaseURL = %q, want %q", info.BaseURL, tt.baseURL)
			}
			if info.SearchURL != tt.searchURL {
				t.Errorf("SearchURL = %q, want %q", info.SearchURL, tt.searchURL)
			}
		})
	}
}

type exampleURLs struct{}

func (exampleURLs) Registry(name, version string) string { return "https://example.com/" + name }

func (exampleURLs) Download(name, version string) string {
	if version == "" {
		return ""
	}
	return "https://example.com/" + name + "-" + version + ".tgz"
}

func (exampleURLs) Documentation(name, version string) string { return "" }
func (exampleURLs) PURL(name, version string) string          { return "" }

func TestInfoLinksUseRegisteredURLs(t *testing.T) {
	const kind Kind = "example"
	RegisterURLs(kind, exampleURLs{})
	t.Cleanup(func() {
		mu.Lock()
		delete(builders, kind)
		mu.Unlock()
	})

	info := Info{Registry: kind}
	if got := info.PageURL("left-pad"); got != "https://example.com/left-pad" {
		t.Errorf("PageURL = %q", got)
	}
	if got := info.PageURL(""); got != "" {
		t.Errorf("PageURL(\"\") = %q, want empty", got)
	}

	links := info.Links("left-pad", "1.3.0")
	if links["download"] != "https://example.com/left-pad-1.3.0.tgz" {
		t.Errorf("download = %q", links["download"])
	}
	if links["docs"] != "https://example.com/left-pad" {
		t.Errorf("docs should fall back to the page, got %q", links["docs"])
	}
	if _, ok := info.Links("left-pad", "")["download"]; ok {
		t.Error("download should be omitted without a version")
	}
}

func TestLookupOutsideCatalog(t *testing.T) {
	info := Lookup("cargo")
	if info.Registry != Unknown {
		t.Errorf("Registry = %q, want %q", info.Registry, Unknown)
	}
	if info.PageURL("serde") != "" {
		t.Error("expected empty page URL")
	}
	if info.Links("serde", "1.0.0") != nil {
		t.Error("expected no links")
	}
}
