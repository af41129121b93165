// Package format renders results as annotated text for humans. The structured
// result is always returned alongside it.
package format

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/git-pkgs/jsregistry/client"
	"github.com/git-pkgs/jsregistry/internal/core"
)

var registryEmoji = map[core.Kind]string{
	core.NPM:     "📦",
	core.JSR:     "🟨",
	core.Deno:    "🦕",
	core.Unknown: "❓",
}

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// Size converts a byte count to B/KB/MB/GB using base 1024 and two decimals.
func Size(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	v := float64(bytes)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", v, sizeUnits[i])
}

func emoji(kind core.Kind) string {
	if e, ok := registryEmoji[kind]; ok {
		return e
	}
	return registryEmoji[core.Unknown]
}

func errorLine(msg string) string {
	return "❌ Error: " + msg
}

// Search renders one registry search.
func Search(out *core.SearchOutcome) string {
	var b strings.Builder
	writeSearch(&b, out)
	return strings.TrimRight(b.String(), "\n")
}

// SearchAll renders a search across every registry.
func SearchAll(outs []core.SearchOutcome) string {
	var b strings.Builder
	found := 0
	for i := range outs {
		found += len(outs[i].Packages)
	}
	query := ""
	if len(outs) > 0 {
		query = outs[0].Query
	}
	fmt.Fprintf(&b, "🔍 Found %d packages for %q across %d registries\n\n", found, query, len(outs))
	for i := range outs {
		writeSearch(&b, &outs[i])
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeSearch(b *strings.Builder, out *core.SearchOutcome) {
	name := core.Lookup(out.Registry).DisplayName
	if name == "" {
		name = string(out.Registry)
	}
	fmt.Fprintf(b, "%s %s results for %q", emoji(out.Registry), name, out.Query)
	if out.Error != "" {
		fmt.Fprintf(b, "\n%s\n", errorLine(out.Error))
		return
	}
	count := len(out.Packages)
	if out.Total > count {
		fmt.Fprintf(b, " (%d of %s)\n", count, humanize.Comma(int64(out.Total)))
	} else {
		fmt.Fprintf(b, " (%d)\n", count)
	}
	if count == 0 {
		b.WriteString("No packages found.\n")
		return
	}
	for _, p := range out.Packages {
		writePackage(b, p)
	}
}

func writePackage(b *strings.Builder, p core.PackageSummary) {
	b.WriteString("• ")
	b.WriteString(p.Name)
	if p.Version != "" {
		b.WriteString("@" + p.Version)
	}
	b.WriteString("\n")
	if p.Description != "" {
		fmt.Fprintf(b, "  %s\n", p.Description)
	}
	var meta []string
	if p.License != "" {
		if p.LicenseValid {
			meta = append(meta, "⚖️ "+p.License)
		} else {
			meta = append(meta, "⚖️ "+p.License+" (non-SPDX)")
		}
	}
	if p.Downloads > 0 {
		meta = append(meta, "⬇️ "+humanize.Comma(p.Downloads))
	}
	if p.Stars > 0 {
		meta = append(meta, "⭐ "+humanize.Comma(p.Stars))
	}
	if when := published(p.PublishedAt); when != "" {
		meta = append(meta, "🕒 "+when)
	}
	if len(meta) > 0 {
		fmt.Fprintf(b, "  %s\n", strings.Join(meta, " · "))
	}
	if p.URL != "" {
		fmt.Fprintf(b, "  🔗 %s\n", p.URL)
	}
}

func published(ts string) string {
	if ts == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return humanize.Time(t)
}

// Detection renders a registry detection.
func Detection(name string, kind core.Kind) string {
	info := core.Lookup(kind)
	var b strings.Builder
	fmt.Fprintf(&b, "%s %q looks like a %s package", emoji(kind), name, displayName(kind))
	if page := info.PageURL(core.StripSpecifier(name)); page != "" && kind != core.Deno {
		fmt.Fprintf(&b, "\n🔗 %s", page)
	}
	return b.String()
}

var linkLabels = []struct{ key, label string }{
	{client.LinkPage, "Package page"},
	{client.LinkDocs, "Documentation"},
	{client.LinkDownload, "Download"},
	{client.LinkPURL, "Package URL"},
}

// RegistryInfo renders a catalog entry followed by any package links, as
// returned by core.Info.Links.
func RegistryInfo(info core.Info, links map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s registry\n", emoji(info.Registry), displayName(info.Registry))
	if info.BaseURL == "" {
		b.WriteString("No endpoints are known for this registry.")
		return b.String()
	}
	fmt.Fprintf(&b, "• Base URL: %s\n", info.BaseURL)
	fmt.Fprintf(&b, "• Search API: %s", info.SearchURL)
	for _, l := range linkLabels {
		if v := links[l.key]; v != "" {
			fmt.Fprintf(&b, "\n• %s: %s", l.label, v)
		}
	}
	return b.String()
}

func displayName(kind core.Kind) string {
	if n := core.Lookup(kind).DisplayName; n != "" {
		return n
	}
	return string(kind)
}

// sortedKeys returns the keys of m in lexical order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
