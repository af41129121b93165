package core

import (
	"strings"

	packageurl "github.com/package-url/packageurl-go"
)

// BuildPURL returns the Package URL for a package, or "" when the name can't
// be expressed as one (Deno URL imports).
func BuildPURL(kind Kind, name, version string) string {
	kind = kind.Resolve()
	name = StripSpecifier(name)
	if name == "" || strings.Contains(name, "://") {
		return ""
	}

	namespace := ""
	pkgName := name
	if scope, pkg, ok := SplitScoped(name); ok {
		namespace = "@" + scope
		pkgName = pkg
	}

	return packageurl.NewPackageURL(string(kind), namespace, pkgName, version, nil, "").ToString()
}

// PackageRef is a package reference parsed from a PURL argument.
type PackageRef struct {
	Registry Kind
	Name     string
	Version  string
}

// ParsePackageRef parses "pkg:npm/lodash@4.17.21" style references. ok is
// false when s is not a PURL or names a registry outside npm, JSR and Deno.
func ParsePackageRef(s string) (PackageRef, bool) {
	if !strings.HasPrefix(s, "pkg:") {
		return PackageRef{}, false
	}
	p, err := packageurl.FromString(s)
	if err != nil {
		return PackageRef{}, false
	}
	kind, err := ParseKind(p.Type)
	if err != nil || kind == Unknown {
		return PackageRef{}, false
	}
	name := p.Name
	if p.Namespace != "" {
		name = p.Namespace + "/" + p.Name
	}
	return PackageRef{
		Registry: kind,
		Name:     name,
		Version:  p.Version,
	}, true
}
