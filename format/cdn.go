package format

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/git-pkgs/jsregistry/cdn"
)

// CDNImports renders generated import URLs.
func CDNImports(info *cdn.Info) string {
	var b strings.Builder
	name := info.Name
	if info.Version != "" {
		name += "@" + info.Version
	}
	fmt.Fprintf(&b, "🌐 CDN imports for %s (%s)\n", name, info.Registry)
	if len(info.Entries) == 0 {
		b.WriteString("No CDN URLs available.")
		return b.String()
	}
	if r := info.Recommended; r != nil {
		fmt.Fprintf(&b, "\n⭐ Recommended (%s): %s\n", r.Provider, r.URL)
	}
	for _, e := range info.Entries {
		flags := string(e.Format)
		if e.Minified {
			flags += ", minified"
		}
		fmt.Fprintf(&b, "\n• %s [%s] %s\n  %s", e.Provider, flags, e.Description, e.URL)
	}
	return b.String()
}

// CDNSearch renders one provider's search results.
func CDNSearch(res *cdn.SearchResult) string {
	var b strings.Builder
	writeCDNSearch(&b, res)
	return strings.TrimRight(b.String(), "\n")
}

// CDNSearchAll renders search results from every provider.
func CDNSearchAll(results []cdn.SearchResult) string {
	var b strings.Builder
	for i := range results {
		writeCDNSearch(&b, &results[i])
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeCDNSearch(b *strings.Builder, res *cdn.SearchResult) {
	fmt.Fprintf(b, "🌐 %s results for %q", res.Provider, res.Query)
	if res.Error != "" {
		fmt.Fprintf(b, "\n%s\n", errorLine(res.Error))
		return
	}
	count := len(res.Packages)
	if res.Total > count {
		fmt.Fprintf(b, " (%d of %s)\n", count, humanize.Comma(int64(res.Total)))
	} else {
		fmt.Fprintf(b, " (%d)\n", count)
	}
	if count == 0 {
		b.WriteString("No packages found.\n")
		return
	}
	for _, p := range res.Packages {
		b.WriteString("• " + p.Name)
		if p.Version != "" {
			b.WriteString("@" + p.Version)
		}
		b.WriteString("\n")
		if p.Description != "" {
			fmt.Fprintf(b, "  %s\n", p.Description)
		}
		fmt.Fprintf(b, "  🔗 %s\n", p.URL)
	}
}
