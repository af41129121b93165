package inspect

import (
	"context"
	"fmt"

	"github.com/git-pkgs/jsregistry/internal/core"
)

// PeerResult holds a package's peer dependencies.
type PeerResult struct {
	Name             string            `json:"name"`
	Registry         core.Kind         `json:"registry"`
	PeerDependencies map[string]string `json:"peerDependencies"`
	Error            string            `json:"error,omitempty"`
}

// DependencyAnalysis counts a package's first-level dependencies.
// TotalDependencies is the sum of the four groups, not a transitive count.
type DependencyAnalysis struct {
	Name                 string    `json:"name"`
	Version              string    `json:"version,omitempty"`
	Registry             core.Kind `json:"registry"`
	DirectDependencies   int       `json:"directDependencies"`
	DevDependencies      int       `json:"devDependencies"`
	PeerDependencies     int       `json:"peerDependencies"`
	OptionalDependencies int       `json:"optionalDependencies"`
	TotalDependencies    int       `json:"totalDependencies"`
	Error                string    `json:"error,omitempty"`
}

// DependencyTree returns the first-level dependencies of name at version
// ("latest" when empty). Registries without per-version manifests get a stub
// node carrying an error.
func (i *Inspector) DependencyTree(ctx context.Context, name, version string, kind core.Kind) *core.DependencyNode {
	kind = kind.Resolve()
	requested := version
	if requested == "" {
		requested = "latest"
	}

	fetcher, ok := i.registry(kind).(core.DependencyFetcher)
	if !ok {
		node := core.NewDependencyNode(name, requested, kind)
		node.Error = fmt.Sprintf("dependency tree is not supported for %s packages", kind)
		return node
	}

	node, err := fetcher.FetchDependencies(ctx, name, version)
	if err != nil {
		node = core.NewDependencyNode(name, requested, kind)
		node.Error = core.Describe(err)
		return node
	}
	return node
}

// PeerDependencies returns the peer dependencies of the latest version of
// name. On failure the mapping is empty.
func (i *Inspector) PeerDependencies(ctx context.Context, name string, kind core.Kind) *PeerResult {
	kind = kind.Resolve()
	res := &PeerResult{
		Name:             name,
		Registry:         kind,
		PeerDependencies: map[string]string{},
	}

	fetcher, ok := i.registry(kind).(core.PeerDependencyFetcher)
	if !ok {
		res.Error = fmt.Sprintf("peer dependencies are not supported for %s packages", kind)
		return res
	}

	peers, err := fetcher.FetchPeerDependencies(ctx, name)
	if err != nil {
		res.Error = core.Describe(err)
		return res
	}
	for k, v := range peers {
		res.PeerDependencies[k] = v
	}
	return res
}

// Analyze counts the dependency groups of the latest version of name.
func (i *Inspector) Analyze(ctx context.Context, name string, kind core.Kind) *DependencyAnalysis {
	kind = kind.Resolve()
	res := &DependencyAnalysis{Name: name, Registry: kind}

	if _, ok := i.registry(kind).(core.DependencyFetcher); !ok {
		res.Error = fmt.Sprintf("dependency analysis is not supported for %s packages", kind)
		return res
	}

	node := i.DependencyTree(ctx, name, "", kind)
	if node.Error != "" {
		res.Error = node.Error
		return res
	}

	res.Version = node.Version
	res.DirectDependencies = len(node.Dependencies)
	res.DevDependencies = len(node.DevDependencies)
	res.PeerDependencies = len(node.PeerDependencies)
	res.OptionalDependencies = len(node.OptionalDependencies)
	res.TotalDependencies = res.DirectDependencies + res.DevDependencies + res.PeerDependencies + res.OptionalDependencies
	return res
}
