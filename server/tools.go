package server

import (
	"context"
	"strings"

	"github.com/git-pkgs/jsregistry/cdn"
	"github.com/git-pkgs/jsregistry/internal/core"
)

// ParamType is the JSON type of a tool argument.
type ParamType string

const (
	StringParam  ParamType = "string"
	NumberParam  ParamType = "number"
	BooleanParam ParamType = "boolean"
)

// Param describes one tool argument.
type Param struct {
	Name        string    `json:"name"`
	Type        ParamType `json:"type"`
	Description string    `json:"description"`
	Required    bool      `json:"required,omitempty"`
	Enum        []string  `json:"enum,omitempty"`
}

// handlerFunc runs a tool. It returns the structured result and its rendered
// text. An error means the call itself was invalid.
type handlerFunc func(ctx context.Context, a args) (any, string, error)

// Tool is one named operation of the server.
type Tool struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Params      []Param `json:"params"`

	handler handlerFunc
}

// toolRegistry stores tools by name and keeps registration order.
type toolRegistry struct {
	tools map[string]*Tool
	order []*Tool
}

func newToolRegistry() *toolRegistry {
	return &toolRegistry{tools: make(map[string]*Tool)}
}

func (r *toolRegistry) register(t *Tool) {
	if t == nil || t.Name == "" || t.handler == nil {
		return
	}
	if _, exists := r.tools[t.Name]; !exists {
		r.order = append(r.order, t)
	}
	r.tools[t.Name] = t
}

func (r *toolRegistry) get(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

var (
	registryNames     = []string{"npm", "jsr", "deno"}
	registryInfoNames = []string{"npm", "jsr", "deno", "unknown"}
)

func queryParam() Param {
	return Param{Name: "query", Type: StringParam, Description: "Search query", Required: true}
}

func limitParam() Param {
	return Param{Name: "limit", Type: NumberParam, Description: "Maximum number of results (default 20)"}
}

func packageParam(required bool) Param {
	return Param{
		Name:        "packageName",
		Type:        StringParam,
		Description: "Package name, e.g. lodash, @std/path or pkg:npm/lodash@4.17.21",
		Required:    required,
	}
}

func versionParam() Param {
	return Param{Name: "version", Type: StringParam, Description: "Package version, dist-tag or range (default latest)"}
}

func registryParam() Param {
	return Param{
		Name:        "registry",
		Type:        StringParam,
		Description: "Registry to use; detected from the package name when omitted",
		Enum:        registryNames,
	}
}

func workspaceParam() Param {
	return Param{Name: "workspace", Type: StringParam, Description: "Directory to run the command in"}
}

func providerParam() Param {
	enum := []string{"all"}
	for _, p := range cdn.SearchProviders {
		enum = append(enum, string(p))
	}
	return Param{
		Name:        "provider",
		Type:        StringParam,
		Description: "CDN to search: all, " + strings.Join(enum[1:], ", ") + " (default all)",
		Enum:        enum,
	}
}

// buildTools wires every tool to its handler.
func (s *Server) buildTools() *toolRegistry {
	r := newToolRegistry()
	add := func(name, desc string, h handlerFunc, params ...Param) {
		r.register(&Tool{Name: name, Description: desc, Params: params, handler: h})
	}

	add("search_packages", "Search the registry detected from the query (or the configured default registry)",
		s.searchPackages, queryParam(), limitParam())
	add("search_all_registries", "Search npm, JSR and deno.land/x at the same time",
		s.searchAllRegistries, queryParam(), limitParam())
	add("search_npm", "Search the npm registry", s.searchRegistry(core.NPM), queryParam(), limitParam())
	add("search_jsr", "Search the JSR registry", s.searchRegistry(core.JSR), queryParam(), limitParam())
	add("search_deno", "Search deno.land/x third-party modules", s.searchRegistry(core.Deno), queryParam(), limitParam())
	add("detect_registry", "Detect which registry a package name belongs to",
		s.detectRegistry, packageParam(true))
	add("get_registry_info", "Show a registry's endpoints and optionally a package's page, docs and download URLs",
		s.registryInfo,
		Param{Name: "registry", Type: StringParam, Description: "Registry name", Required: true, Enum: registryInfoNames},
		packageParam(false), versionParam())
	add("check_bundle_size", "Report minified, gzip and brotli bundle sizes of an npm package",
		s.bundleSize, packageParam(true), versionParam(), registryParam())
	add("check_vuln", "Check a package for known vulnerabilities",
		s.checkVuln, packageParam(true), registryParam())
	add("install", "Build the command that installs a package",
		s.install, packageParam(true), versionParam(),
		Param{Name: "dev", Type: BooleanParam, Description: "Install as a development dependency"},
		registryParam(), workspaceParam())
	add("remove", "Build the command that removes a package",
		s.remove, packageParam(true), registryParam(), workspaceParam())
	add("update", "Build the command that updates one or all packages",
		s.update, packageParam(false), registryParam(),
		Param{Name: "latest", Type: BooleanParam, Description: "Update past the declared range (npm only)"},
		workspaceParam())
	add("check_outdated", "Build the command that lists outdated packages",
		s.outdated, registryParam(), workspaceParam())
	add("peer_deps", "List a package's peer dependencies",
		s.peerDeps, packageParam(true), registryParam())
	add("dependency_tree", "List a package's first-level dependencies",
		s.dependencyTree, packageParam(true), versionParam(), registryParam())
	add("analyze_dependency", "Count a package's first-level dependencies by kind",
		s.analyzeDependency, packageParam(true), registryParam())
	add("ci", "Build the clean-install command for a project",
		s.ci, registryParam(), workspaceParam())
	add("get_cdn_imports", "Generate CDN import URLs for a package",
		s.cdnImports, packageParam(true), versionParam(), registryParam())
	add("search_cdn", "Search packages on CDNs",
		s.searchCDN, queryParam(), providerParam(), limitParam())

	return r
}
