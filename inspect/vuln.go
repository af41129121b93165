package inspect

import (
	"context"

	"github.com/git-pkgs/jsregistry/internal/core"
)

// VulnerabilityFinding is one advisory affecting a package.
type VulnerabilityFinding struct {
	ID                 string `json:"id"`
	Severity           string `json:"severity"`
	Title              string `json:"title"`
	URL                string `json:"url,omitempty"`
	VulnerableVersions string `json:"vulnerableVersions,omitempty"`
}

// VulnerabilitySummary buckets findings by severity.
type VulnerabilitySummary struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Moderate int `json:"moderate"`
	Low      int `json:"low"`
	Total    int `json:"total"`
}

// VulnerabilityResult is the outcome of a vulnerability check.
type VulnerabilityResult struct {
	Name            string                 `json:"name"`
	Registry        core.Kind              `json:"registry"`
	Summary         VulnerabilitySummary   `json:"summary"`
	Vulnerabilities []VulnerabilityFinding `json:"vulnerabilities"`
	Recommendation  string                 `json:"recommendation,omitempty"`
	Error           string                 `json:"error,omitempty"`
}

var recommendations = map[core.Kind]string{
	core.NPM:  "run `npm audit` in your project for a full report",
	core.JSR:  "review the package's advisories on jsr.io",
	core.Deno: "review the module's repository for security advisories",
}

// Check verifies the package exists where the registry supports it. No
// advisory source is consulted, so the finding list is always empty.
func (i *Inspector) Check(ctx context.Context, name string, kind core.Kind) *VulnerabilityResult {
	kind = kind.Resolve()
	res := &VulnerabilityResult{
		Name:            name,
		Registry:        kind,
		Vulnerabilities: []VulnerabilityFinding{},
		Recommendation:  recommendations[kind],
	}

	checker, ok := i.registry(kind).(core.ExistenceChecker)
	if !ok {
		return res
	}
	if err := checker.Exists(ctx, name); err != nil {
		if core.IsNotFound(err) {
			res.Error = "package not found"
		} else {
			res.Error = core.Describe(err)
		}
	}
	return res
}

