package server

import (
	"context"
	"strings"

	"github.com/git-pkgs/jsregistry/cdn"
	"github.com/git-pkgs/jsregistry/client"
	"github.com/git-pkgs/jsregistry/format"
	"github.com/git-pkgs/jsregistry/internal/core"
	"github.com/git-pkgs/jsregistry/pm"
)

// Detection is the result of detect_registry.
type Detection struct {
	PackageName string    `json:"packageName"`
	Registry    core.Kind `json:"registry"`
	Info        core.Info `json:"info"`
}

// RegistryInfo is the result of get_registry_info. Links holds the page,
// docs, download and purl URLs of the named package.
type RegistryInfo struct {
	core.Info
	PackageURL string            `json:"packageUrl,omitempty"`
	Links      map[string]string `json:"links,omitempty"`
}

func (s *Server) searchPackages(ctx context.Context, a args) (any, string, error) {
	query, err := a.required("query")
	if err != nil {
		return nil, "", err
	}
	limit, err := a.limit()
	if err != nil {
		return nil, "", err
	}
	out := s.registries.Search(ctx, query, limit, s.defaultRegistry)
	return out, format.Search(out), nil
}

func (s *Server) searchAllRegistries(ctx context.Context, a args) (any, string, error) {
	query, err := a.required("query")
	if err != nil {
		return nil, "", err
	}
	limit, err := a.limit()
	if err != nil {
		return nil, "", err
	}
	outs := s.registries.SearchAll(ctx, query, limit)
	return outs, format.SearchAll(outs), nil
}

func (s *Server) searchRegistry(kind core.Kind) handlerFunc {
	return func(ctx context.Context, a args) (any, string, error) {
		query, err := a.required("query")
		if err != nil {
			return nil, "", err
		}
		limit, err := a.limit()
		if err != nil {
			return nil, "", err
		}
		out := s.registries.Search(ctx, query, limit, kind)
		return out, format.Search(out), nil
	}
}

func (s *Server) detectRegistry(_ context.Context, a args) (any, string, error) {
	name, err := a.required("packageName")
	if err != nil {
		return nil, "", err
	}
	display, kind := name, core.Detect(name)
	if ref, ok := core.ParsePackageRef(name); ok {
		display, kind = ref.Name, ref.Registry
	}
	d := &Detection{PackageName: name, Registry: kind, Info: core.Lookup(kind)}
	return d, format.Detection(display, kind), nil
}

func (s *Server) registryInfo(_ context.Context, a args) (any, string, error) {
	r, err := a.required("registry")
	if err != nil {
		return nil, "", err
	}
	kind, err := core.ParseKind(r)
	if err != nil {
		return nil, "", err
	}
	info := &RegistryInfo{Info: core.Lookup(kind)}
	if name := core.StripSpecifier(a.str("packageName")); name != "" {
		info.Links = info.Info.Links(name, a.str("version"))
		info.PackageURL = info.Links[client.LinkPage]
	}
	return info, format.RegistryInfo(info.Info, info.Links), nil
}

func (s *Server) bundleSize(ctx context.Context, a args) (any, string, error) {
	t, err := s.packageTarget(a, "packageName")
	if err != nil {
		return nil, "", err
	}
	res := s.inspector.Size(ctx, t.Name, t.Version, t.Registry)
	return res, format.BundleSize(res), nil
}

func (s *Server) checkVuln(ctx context.Context, a args) (any, string, error) {
	t, err := s.packageTarget(a, "packageName")
	if err != nil {
		return nil, "", err
	}
	res := s.inspector.Check(ctx, t.Name, t.Registry)
	return res, format.Vulnerabilities(res), nil
}

func (s *Server) peerDeps(ctx context.Context, a args) (any, string, error) {
	t, err := s.packageTarget(a, "packageName")
	if err != nil {
		return nil, "", err
	}
	res := s.inspector.PeerDependencies(ctx, t.Name, t.Registry)
	return res, format.PeerDependencies(res), nil
}

func (s *Server) dependencyTree(ctx context.Context, a args) (any, string, error) {
	t, err := s.packageTarget(a, "packageName")
	if err != nil {
		return nil, "", err
	}
	node := s.inspector.DependencyTree(ctx, t.Name, t.Version, t.Registry)
	return node, format.DependencyTree(node), nil
}

func (s *Server) analyzeDependency(ctx context.Context, a args) (any, string, error) {
	t, err := s.packageTarget(a, "packageName")
	if err != nil {
		return nil, "", err
	}
	res := s.inspector.Analyze(ctx, t.Name, t.Registry)
	return res, format.Analysis(res), nil
}

func (s *Server) cdnImports(_ context.Context, a args) (any, string, error) {
	t, err := s.packageTarget(a, "packageName")
	if err != nil {
		return nil, "", err
	}
	info := cdn.Generate(t.Name, t.Version, t.Registry)
	return info, format.CDNImports(info), nil
}

func (s *Server) searchCDN(ctx context.Context, a args) (any, string, error) {
	query, err := a.required("query")
	if err != nil {
		return nil, "", err
	}
	limit, err := a.limit()
	if err != nil {
		return nil, "", err
	}
	provider := a.str("provider")
	if provider == "" || strings.EqualFold(provider, "all") {
		results := s.cdn.SearchAll(ctx, query, limit)
		return results, format.CDNSearchAll(results), nil
	}
	p, err := cdn.ParseProvider(provider)
	if err != nil {
		return nil, "", err
	}
	res := s.cdn.Search(ctx, p, query, limit)
	return res, format.CDNSearch(res), nil
}

// pmOptions reads the command-builder arguments. A PURL package name supplies
// the version and registry when they are not given; a "jsr:" or "npm:" prefix
// picks the registry and is dropped from the name.
func (s *Server) pmOptions(a args) pm.Options {
	opts := pm.Options{
		PackageName: a.str("packageName"),
		Version:     a.str("version"),
		Dev:         a.boolean("dev"),
		Latest:      a.boolean("latest"),
		Workspace:   a.str("workspace"),
	}
	var ref *core.PackageRef
	if r, ok := core.ParsePackageRef(opts.PackageName); ok {
		ref = &r
		opts.PackageName = r.Name
		if opts.Version == "" {
			opts.Version = r.Version
		}
	}
	opts.Registry = s.commandRegistry(a, ref)
	if bare := core.StripSpecifier(opts.PackageName); bare != opts.PackageName {
		if opts.Registry == "" {
			opts.Registry = core.Detect(opts.PackageName).String()
		}
		opts.PackageName = bare
	}
	return opts
}

func (s *Server) install(_ context.Context, a args) (any, string, error) {
	if _, err := a.required("packageName"); err != nil {
		return nil, "", err
	}
	res := pm.Install(s.pmOptions(a), true)
	return res, format.Command(res), nil
}

func (s *Server) remove(_ context.Context, a args) (any, string, error) {
	if _, err := a.required("packageName"); err != nil {
		return nil, "", err
	}
	res := pm.Remove(s.pmOptions(a), true)
	return res, format.Command(res), nil
}

func (s *Server) update(_ context.Context, a args) (any, string, error) {
	res := pm.Update(s.pmOptions(a), true)
	return res, format.Command(res), nil
}

func (s *Server) outdated(_ context.Context, a args) (any, string, error) {
	res := pm.Outdated(s.commandRegistry(a, nil), a.str("workspace"))
	return res, format.Command(res), nil
}

func (s *Server) ci(_ context.Context, a args) (any, string, error) {
	res := pm.CI(s.commandRegistry(a, nil), a.str("workspace"))
	return res, format.Command(res), nil
}
