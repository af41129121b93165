package format

import (
	"fmt"
	"strings"

	"github.com/git-pkgs/jsregistry/inspect"
	"github.com/git-pkgs/jsregistry/internal/core"
)

// DependencyTree renders a package's first-level dependencies.
func DependencyTree(node *core.DependencyNode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s@%s dependencies", emoji(node.Registry), node.Name, node.Version)
	if node.Error != "" {
		fmt.Fprintf(&b, "\n%s", errorLine(node.Error))
		return b.String()
	}
	b.WriteString("\n")

	groups := []struct {
		title string
		deps  map[string]string
	}{
		{"Dependencies", node.Dependencies},
		{"Dev dependencies", node.DevDependencies},
		{"Peer dependencies", node.PeerDependencies},
		{"Optional dependencies", node.OptionalDependencies},
	}
	for _, g := range groups {
		writeDeps(&b, g.title, g.deps)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeDeps(b *strings.Builder, title string, deps map[string]string) {
	fmt.Fprintf(b, "\n%s (%d)\n", title, len(deps))
	if len(deps) == 0 {
		b.WriteString("  none\n")
		return
	}
	for _, name := range sortedKeys(deps) {
		fmt.Fprintf(b, "• %s: %s\n", name, deps[name])
	}
}

// PeerDependencies renders a peer dependency lookup.
func PeerDependencies(res *inspect.PeerResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s peer dependencies", emoji(res.Registry), res.Name)
	if res.Error != "" {
		fmt.Fprintf(&b, "\n%s", errorLine(res.Error))
		return b.String()
	}
	if len(res.PeerDependencies) == 0 {
		b.WriteString("\nNo peer dependencies.")
		return b.String()
	}
	b.WriteString("\n")
	for _, name := range sortedKeys(res.PeerDependencies) {
		fmt.Fprintf(&b, "\n• %s: %s", name, res.PeerDependencies[name])
	}
	return b.String()
}

// Analysis renders dependency counts.
func Analysis(res *inspect.DependencyAnalysis) string {
	var b strings.Builder
	name := res.Name
	if res.Version != "" {
		name += "@" + res.Version
	}
	fmt.Fprintf(&b, "📊 Dependency analysis for %s", name)
	if res.Error != "" {
		fmt.Fprintf(&b, "\n%s", errorLine(res.Error))
		return b.String()
	}
	fmt.Fprintf(&b, "\n• Direct: %d", res.DirectDependencies)
	fmt.Fprintf(&b, "\n• Dev: %d", res.DevDependencies)
	fmt.Fprintf(&b, "\n• Peer: %d", res.PeerDependencies)
	fmt.Fprintf(&b, "\n• Optional: %d", res.OptionalDependencies)
	fmt.Fprintf(&b, "\n• Total (first level): %d", res.TotalDependencies)
	return b.String()
}

// Vulnerabilities renders a vulnerability check.
func Vulnerabilities(res *inspect.VulnerabilityResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🛡️ Vulnerability check for %s (%s)", res.Name, res.Registry)
	if res.Error != "" {
		fmt.Fprintf(&b, "\n%s", errorLine(res.Error))
		return b.String()
	}
	s := res.Summary
	fmt.Fprintf(&b, "\n🔴 Critical: %d\n🟠 High: %d\n🟡 Moderate: %d\n🟢 Low: %d", s.Critical, s.High, s.Moderate, s.Low)
	if len(res.Vulnerabilities) == 0 {
		b.WriteString("\n\n✅ No known vulnerabilities.")
	}
	for _, v := range res.Vulnerabilities {
		fmt.Fprintf(&b, "\n• [%s] %s %s", v.Severity, v.ID, v.Title)
		if v.URL != "" {
			fmt.Fprintf(&b, "\n  🔗 %s", v.URL)
		}
	}
	if res.Recommendation != "" {
		fmt.Fprintf(&b, "\n💡 %s", res.Recommendation)
	}
	return b.String()
}

// BundleSize renders bundle byte counts.
func BundleSize(res *inspect.BundleSizeInfo) string {
	var b strings.Builder
	name := res.Name
	if res.Version != "" {
		name += "@" + res.Version
	}
	fmt.Fprintf(&b, "📏 Bundle size for %s", name)
	if res.Error != "" {
		fmt.Fprintf(&b, "\n%s", errorLine(res.Error))
		return b.String()
	}
	fmt.Fprintf(&b, "\n• Minified: %s", Size(res.Size))
	fmt.Fprintf(&b, "\n• Gzipped: %s", Size(res.Gzip))
	if res.Brotli > 0 {
		fmt.Fprintf(&b, "\n• Brotli: %s", Size(res.Brotli))
	}
	fmt.Fprintf(&b, "\n• Dependencies: %d", res.DependencyCount)
	return b.String()
}
