package client

// URLBuilder produces the public URLs of a package on one registry. Methods
// return "" for links the registry does not have.
type URLBuilder interface {
	// Registry returns the package page, pinned to version when one is given.
	Registry(name, version string) string
	// Download returns the tarball or entrypoint of a published version.
	Download(name, version string) string
	Documentation(name, version string) string
	PURL(name, version string) string
}

// Link keys used by BuildURLs.
const (
	LinkPage     = "page"
	LinkDocs     = "docs"
	LinkDownload = "download"
	LinkPURL     = "purl"
)

// LinkKeys lists the BuildURLs keys in display order.
var LinkKeys = []string{LinkPage, LinkDocs, LinkDownload, LinkPURL}

// BuildURLs collects the non-empty links of a package. Documentation falls
// back to the package page.
func BuildURLs(urls URLBuilder, name, version string) map[string]string {
	links := map[string]string{
		LinkPage:     urls.Registry(name, version),
		LinkDocs:     urls.Documentation(name, version),
		LinkDownload: urls.Download(name, version),
		LinkPURL:     urls.PURL(name, version),
	}
	if links[LinkDocs] == "" {
		links[LinkDocs] = links[LinkPage]
	}
	for k, v := range links {
		if v == "" {
			delete(links, k)
		}
	}
	return links
}
