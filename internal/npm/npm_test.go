package npm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/git-pkgs/jsregistry/internal/core"
)

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/-/v1/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("text"); got != "react hooks" {
			t.Errorf("text = %q, want %q", got, "react hooks")
		}
		if got := r.URL.Query().Get("size"); got != "5" {
			t.Errorf("size = %q, want %q", got, "5")
		}

		resp := map[string]interface{}{
			"total": 1234,
			"objects": []interface{}{
				map[string]interface{}{
					"package": map[string]interface{}{
						"name":        "react",
						"version":     "18.3.1",
						"description": "React is a JavaScript library for building user interfaces.",
						"keywords":    []string{"react"},
						"date":        "2024-04-26T16:42:00.000Z",
						"license":     "MIT",
						"author":      map[string]string{"name": "Meta"},
						"links": map[string]string{
							"npm":        "https://www.npmjs.com/package/react",
							"homepage":   "https://react.dev/",
							"repository": "git+https://github.com/facebook/react.git",
						},
					},
					"downloads": map[string]int64{"monthly": 100000000, "weekly": 25000000},
				},
				map[string]interface{}{
					"package": map[string]interface{}{
						"name":      "use-thing",
						"version":   "0.1.0",
						"publisher": map[string]string{"username": "someone"},
						"license":   "SEE LICENSE IN LICENSE",
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	reg := New(server.URL, core.DefaultClient())
	out := reg.Search(context.Background(), "react hooks", 5)

	if out.Error != "" {
		t.Fatalf("unexpected error: %s", out.Error)
	}
	if out.Registry != core.NPM {
		t.Errorf("Registry = %q, want %q", out.Registry, core.NPM)
	}
	if out.Total != 1234 {
		t.Errorf("Total = %d, want 1234", out.Total)
	}
	if len(out.Packages) != 2 {
		t.Fatalf("got %d packages, want 2", len(out.Packages))
	}

	want := core.PackageSummary{
		Name:         "react",
		Version:      "18.3.1",
		Description:  "React is a JavaScript library for building user interfaces.",
		Author:       "Meta",
		License:      "MIT",
		LicenseValid: true,
		Repository:   "https://github.com/facebook/react",
		Homepage:     "https://react.dev/",
		Keywords:     []string{"react"},
		Registry:     core.NPM,
		URL:          "https://www.npmjs.com/package/react",
		PURL:         "pkg:npm/react@18.3.1",
		PublishedAt:  "2024-04-26T16:42:00.000Z",
		Downloads:    100000000,
	}
	if diff := cmp.Diff(want, out.Packages[0]); diff != "" {
		t.Errorf("first package mismatch (-want +got):\n%s", diff)
	}

	second := out.Packages[1]
	if second.Author != "someone" {
		t.Errorf("Author = %q, want publisher fallback %q", second.Author, "someone")
	}
	if second.URL != "https://www.npmjs.com/package/use-thing" {
		t.Errorf("URL = %q, want package page", second.URL)
	}
	if second.LicenseValid {
		t.Error("expected non-SPDX license to be invalid")
	}
}

func TestSearchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	reg := New(server.URL, core.DefaultClient())
	out := reg.Search(context.Background(), "react", 5)

	if !strings.Contains(out.Error, "Service Unavailable") {
		t.Errorf("Error = %q, want status text", out.Error)
	}
	if out.Packages == nil || len(out.Packages) != 0 {
		t.Errorf("Packages = %v, want empty", out.Packages)
	}
	if out.Total != 0 {
		t.Errorf("Total = %d, want 0", out.Total)
	}
}

func TestSearchTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	reg := New(url, core.DefaultClient())
	out := reg.Search(context.Background(), "react", 5)
	if out.Error == "" {
		t.Error("expected error for closed server")
	}
	if out.Query != "react" {
		t.Errorf("Query = %q, want %q", out.Query, "react")
	}
}

func versionDocument() map[string]interface{} {
	return map[string]interface{}{
		"name":      "express",
		"dist-tags": map[string]string{"latest": "4.19.0", "next": "5.0.0-beta.1"},
		"versions": map[string]interface{}{
			"4.18.2": map[string]interface{}{
				"dependencies": map[string]string{"body-parser": "1.20.1"},
			},
			"4.19.0": map[string]interface{}{
				"dependencies": map[string]string{
					"body-parser": "1.20.2",
					"cookie":      "0.6.0",
				},
				"devDependencies":      map[string]string{"mocha": "10.4.0"},
				"peerDependencies":     map[string]string{"typescript": ">=4"},
				"optionalDependencies": map[string]string{"fsevents": "2.3.3"},
			},
			"5.0.0-beta.1": map[string]interface{}{
				"dependencies": map[string]string{"body-parser": "2.0.0"},
			},
		},
	}
}

func documentServer(t *testing.T, doc map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimPrefix(r.URL.Path, "/") != doc["name"] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	}))
}

func TestFetchDependencies(t *testing.T) {
	server := documentServer(t, versionDocument())
	defer server.Close()

	reg := New(server.URL, core.DefaultClient())
	node, err := reg.FetchDependencies(context.Background(), "express", "")
	if err != nil {
		t.Fatalf("FetchDependencies failed: %v", err)
	}

	if node.Version != "4.19.0" {
		t.Errorf("Version = %q, want latest 4.19.0", node.Version)
	}
	if node.PURL != "pkg:npm/express@4.19.0" {
		t.Errorf("PURL = %q", node.PURL)
	}
	wantDeps := map[string]string{"body-parser": "1.20.2", "cookie": "0.6.0"}
	if diff := cmp.Diff(wantDeps, node.Dependencies); diff != "" {
		t.Errorf("Dependencies mismatch (-want +got):\n%s", diff)
	}
	if len(node.DevDependencies) != 1 || len(node.PeerDependencies) != 1 || len(node.OptionalDependencies) != 1 {
		t.Errorf("unexpected dependency groups: %+v", node)
	}
}

func TestFetchDependenciesResolvesVersion(t *testing.T) {
	server := documentServer(t, versionDocument())
	defer server.Close()

	reg := New(server.URL, core.DefaultClient())

	tests := []struct {
		requested string
		want      string
	}{
		{"4.18.2", "4.18.2"},
		{"latest", "4.19.0"},
		{"next", "5.0.0-beta.1"},
		{"^4.0.0", "4.19.0"},
		{"~4.18.0", "4.18.2"},
		{"4.x", "4.19.0"},
	}

	for _, tt := range tests {
		t.Run(tt.requested, func(t *testing.T) {
			node, err := reg.FetchDependencies(context.Background(), "express", tt.requested)
			if err != nil {
				t.Fatalf("FetchDependencies(%q) failed: %v", tt.requested, err)
			}
			if node.Version != tt.want {
				t.Errorf("Version = %q, want %q", node.Version, tt.want)
			}
		})
	}
}

func TestFetchDependenciesUnknownVersion(t *testing.T) {
	server := documentServer(t, versionDocument())
	defer server.Close()

	reg := New(server.URL, core.DefaultClient())
	for _, version := range []string{"9.9.9", "^9.0.0", "not-a-version"} {
		_, err := reg.FetchDependencies(context.Background(), "express", version)
		if !core.IsNotFound(err) {
			t.Errorf("FetchDependencies(%q) error = %v, want not found", version, err)
		}
	}
}

func TestFetchDependenciesNotFound(t *testing.T) {
	server := documentServer(t, versionDocument())
	defer server.Close()

	reg := New(server.URL, core.DefaultClient())
	_, err := reg.FetchDependencies(context.Background(), "missing", "")
	if !core.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !strings.Contains(err.Error(), "missing") {
		t.Errorf("error %q should name the package", err)
	}
}

func TestFetchPeerDependencies(t *testing.T) {
	server := documentServer(t, versionDocument())
	defer server.Close()

	reg := New(server.URL, core.DefaultClient())
	peers, err := reg.FetchPeerDependencies(context.Background(), "express")
	if err != nil {
		t.Fatalf("FetchPeerDependencies failed: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"typescript": ">=4"}, peers); diff != "" {
		t.Errorf("peers mismatch (-want +got):\n%s", diff)
	}
}

func TestExists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("Method = %s, want HEAD", r.Method)
		}
		if r.URL.Path != "/lodash" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
	}))
	defer server.Close()

	reg := New(server.URL, core.DefaultClient())
	if err := reg.Exists(context.Background(), "lodash"); err != nil {
		t.Errorf("Exists(lodash) = %v, want nil", err)
	}
	if err := reg.Exists(context.Background(), "nope"); !core.IsNotFound(err) {
		t.Errorf("Exists(nope) = %v, want not found", err)
	}
}

func TestScopedPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/@babel/core" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.RawPath != "" && r.URL.RawPath != "/@babel%2fcore" && r.URL.RawPath != "/@babel%2Fcore" {
			t.Errorf("unexpected raw path: %s", r.URL.RawPath)
		}
		_, _ = w.Write([]byte(`{"name":"@babel/core"}`))
	}))
	defer server.Close()

	reg := New(server.URL, core.DefaultClient())
	if err := reg.Exists(context.Background(), "@babel/core"); err != nil {
		t.Errorf("Exists failed: %v", err)
	}
}

func TestURLBuilder(t *testing.T) {
	reg := New("https://registry.npmjs.org", nil)
	urls := reg.URLs()

	tests := []struct {
		name     string
		fn       func() string
		expected string
	}{
		{"registry", func() string { return urls.Registry("lodash", "4.17.21") }, "https://www.npmjs.com/package/lodash/v/4.17.21"},
		{"registry latest", func() string { return urls.Registry("lodash", "") }, "https://www.npmjs.com/package/lodash"},
		{"download", func() string { return urls.Download("lodash", "4.17.21") }, "https://registry.npmjs.org/lodash/-/lodash-4.17.21.tgz"},
		{"scoped download", func() string { return urls.Download("@babel/core", "7.24.0") }, "https://registry.npmjs.org/@babel/core/-/core-7.24.0.tgz"},
		{"no version download", func() string { return urls.Download("lodash", "") }, ""},
		{"purl", func() string { return urls.PURL("lodash", "4.17.21") }, "pkg:npm/lodash@4.17.21"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestExtractLicense(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"string", "MIT", "MIT"},
		{"object", map[string]interface{}{"type": "ISC"}, "ISC"},
		{"array", []interface{}{"MIT", map[string]interface{}{"type": "Apache-2.0"}}, "(MIT OR Apache-2.0)"},
		{"single array", []interface{}{"MIT"}, "MIT"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractLicense(tt.in); got != tt.want {
				t.Errorf("extractLicense = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractPerson(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{"Jane Doe <jane@example.com>", "Jane Doe"},
		{map[string]interface{}{"name": "Meta"}, "Meta"},
		{map[string]interface{}{"username": "jdalton"}, "jdalton"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := extractPerson(tt.in); got != tt.want {
			t.Errorf("extractPerson(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
