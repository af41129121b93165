package format

import (
	"strings"
	"testing"
	"time"

	_ "github.com/git-pkgs/jsregistry/all"
	"github.com/git-pkgs/jsregistry/cdn"
	"github.com/git-pkgs/jsregistry/inspect"
	"github.com/git-pkgs/jsregistry/internal/core"
	"github.com/git-pkgs/jsregistry/pm"
)

func TestSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{-5, "0 B"},
		{1, "1.00 B"},
		{1023, "1023.00 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1048576, "1.00 MB"},
		{1073741824, "1.00 GB"},
		{5 * 1099511627776, "5120.00 GB"},
	}

	for _, tt := range tests {
		if got := Size(tt.in); got != tt.want {
			t.Errorf("Size(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSearch(t *testing.T) {
	out := core.NewSearchOutcome("react", core.NPM)
	out.Total = 1500
	out.Packages = append(out.Packages, core.PackageSummary{
		Name:         "react",
		Version:      "18.3.1",
		Description:  "UI library",
		License:      "MIT",
		LicenseValid: true,
		Downloads:    1234567,
		URL:          "https://www.npmjs.com/package/react",
		PublishedAt:  time.Now().Add(-50 * time.Hour).Format(time.RFC3339),
	})

	got := Search(out)
	for _, want := range []string{
		"📦 npm results for \"react\" (1 of 1,500)",
		"• react@18.3.1",
		"UI library",
		"1,234,567",
		"⚖️ MIT",
		"2 days ago",
		"🔗 https://www.npmjs.com/package/react",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestSearchNonSPDXLicense(t *testing.T) {
	out := core.NewSearchOutcome("x", core.NPM)
	out.Packages = append(out.Packages, core.PackageSummary{Name: "x", License: "Custom"})
	if got := Search(out); !strings.Contains(got, "Custom (non-SPDX)") {
		t.Errorf("expected non-SPDX marker:\n%s", got)
	}
}

func TestSearchError(t *testing.T) {
	got := Search(core.FailedSearch("react", core.JSR, "503 Service Unavailable"))
	if !strings.Contains(got, "❌ Error: 503 Service Unavailable") {
		t.Errorf("expected error marker:\n%s", got)
	}
}

func TestSearchEmpty(t *testing.T) {
	got := Search(core.NewSearchOutcome("zzz", core.Deno))
	if !strings.Contains(got, "No packages found.") {
		t.Errorf("expected empty message:\n%s", got)
	}
	if !strings.HasPrefix(got, "🦕") {
		t.Errorf("expected deno emoji:\n%s", got)
	}
}

func TestSearchAll(t *testing.T) {
	npm := core.NewSearchOutcome("path", core.NPM)
	npm.Packages = append(npm.Packages, core.PackageSummary{Name: "path"})
	jsr := core.NewSearchOutcome("path", core.JSR)
	jsr.Packages = append(jsr.Packages, core.PackageSummary{Name: "@std/path"})
	deno := core.FailedSearch("path", core.Deno, "timeout")

	got := SearchAll([]core.SearchOutcome{*npm, *jsr, *deno})
	for _, want := range []string{"Found 2 packages", "• path", "• @std/path", "❌ Error: timeout"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestDetection(t *testing.T) {
	got := Detection("@std/path", core.JSR)
	if !strings.Contains(got, "JSR package") || !strings.Contains(got, "https://jsr.io/@std/path") {
		t.Errorf("unexpected detection output:\n%s", got)
	}
}

func TestRegistryInfo(t *testing.T) {
	info := core.Lookup(core.NPM)
	got := RegistryInfo(info, info.Links("lodash", "4.17.21"))
	for _, want := range []string{
		"npm registry",
		"https://registry.npmjs.org",
		"• Package page: https://www.npmjs.com/package/lodash/v/4.17.21",
		"• Download: https://registry.npmjs.org/lodash/-/lodash-4.17.21.tgz",
		"• Package URL: pkg:npm/lodash@4.17.21",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(RegistryInfo(info, nil), "Package page") {
		t.Error("links rendered without a package")
	}
	if got := RegistryInfo(core.Lookup(core.Unknown), nil); !strings.Contains(got, "No endpoints") {
		t.Errorf("unexpected unknown output:\n%s", got)
	}
}

func TestDependencyTree(t *testing.T) {
	node := core.NewDependencyNode("express", "4.19.0", core.NPM)
	node.Dependencies["cookie"] = "0.6.0"
	node.Dependencies["body-parser"] = "1.20.2"

	got := DependencyTree(node)
	if !strings.Contains(got, "Dependencies (2)") {
		t.Errorf("missing count:\n%s", got)
	}
	if strings.Index(got, "body-parser") > strings.Index(got, "cookie") {
		t.Errorf("dependencies not sorted:\n%s", got)
	}
	if !strings.Contains(got, "Dev dependencies (0)") {
		t.Errorf("missing empty group:\n%s", got)
	}

	node.Error = "npm: package express not found"
	if got := DependencyTree(node); !strings.Contains(got, "❌ Error:") {
		t.Errorf("missing error marker:\n%s", got)
	}
}

func TestAnalysis(t *testing.T) {
	got := Analysis(&inspect.DependencyAnalysis{
		Name:               "react-dom",
		Version:            "18.3.1",
		DirectDependencies: 2,
		PeerDependencies:   1,
		TotalDependencies:  3,
	})
	if !strings.Contains(got, "Total (first level): 3") {
		t.Errorf("unexpected output:\n%s", got)
	}
}

func TestVulnerabilities(t *testing.T) {
	got := Vulnerabilities(&inspect.VulnerabilityResult{
		Name:            "lodash",
		Registry:        core.NPM,
		Vulnerabilities: []inspect.VulnerabilityFinding{},
		Recommendation:  "run `npm audit`",
	})
	for _, want := range []string{"Critical: 0", "High: 0", "Moderate: 0", "Low: 0", "No known vulnerabilities", "npm audit"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	failed := Vulnerabilities(&inspect.VulnerabilityResult{Name: "nope", Error: "package not found"})
	if !strings.Contains(failed, "❌ Error: package not found") {
		t.Errorf("missing error:\n%s", failed)
	}
}

func TestBundleSize(t *testing.T) {
	got := BundleSize(&inspect.BundleSizeInfo{Name: "react", Version: "18.3.1", Size: 6451, Gzip: 2623})
	for _, want := range []string{"react@18.3.1", "Minified: 6.30 KB", "Gzipped: 2.56 KB"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Brotli") {
		t.Errorf("unexpected brotli line:\n%s", got)
	}
}

func TestCDNImports(t *testing.T) {
	got := CDNImports(cdn.Generate("lodash", "4.17.21", core.NPM))
	if !strings.Contains(got, "⭐ Recommended (skypack): https://cdn.skypack.dev/lodash@4.17.21") {
		t.Errorf("missing recommendation:\n%s", got)
	}
	if strings.Count(got, "\n• ") != 10 {
		t.Errorf("expected 10 entries:\n%s", got)
	}
}

func TestCDNSearchAll(t *testing.T) {
	got := CDNSearchAll([]cdn.SearchResult{
		{Provider: cdn.Cdnjs, Query: "lodash", Packages: []cdn.Package{{Name: "lodash.js", URL: "https://cdnjs.example/lodash.js"}}},
		{Provider: cdn.Unpkg, Query: "lodash", Packages: []cdn.Package{}, Error: "unpkg search failed: 503 Service Unavailable"},
	})
	if !strings.Contains(got, "• lodash.js") || !strings.Contains(got, "❌ Error: unpkg search failed") {
		t.Errorf("unexpected output:\n%s", got)
	}
}

func TestCommand(t *testing.T) {
	got := Command(pm.Install(pm.Options{PackageName: "lodash", Registry: "npm"}, false))
	if !strings.Contains(got, "$ npm install lodash --save") {
		t.Errorf("unexpected output:\n%s", got)
	}

	failed := Command(pm.Install(pm.Options{PackageName: "serde", Registry: "cargo"}, false))
	if !strings.HasPrefix(failed, "❌ Error:") {
		t.Errorf("expected error marker:\n%s", failed)
	}
}
