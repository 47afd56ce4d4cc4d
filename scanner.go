package extractfavicon

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// iconLinkRels are the <link> relations that declare a favicon. The list is
// exhaustive coverage, not a ranking. Matching is case-insensitive on the
// whole rel value.
var iconLinkRels = map[string]bool{
	"icon":                         true,
	"shortcut icon":                true,
	"apple-touch-icon":             true,
	"apple-touch-icon-precomposed": true,
	"mask-icon":                    true,
}

// iconMetaNames are the <meta> names that declare a tile or logo image for
// IE/Windows pinned sites. Keys are lowercase; matching is case-insensitive.
var iconMetaNames = map[string]bool{
	"msapplication-tileimage":         true,
	"msapplication-square70x70logo":   true,
	"msapplication-square150x150logo": true,
	"msapplication-wide310x150logo":   true,
	"msapplication-square310x310logo": true,
}

// fallbackPaths are conventional icon locations browsers check without any
// markup declaration, ordered by platform preference. Dimensions are never
// inferred for fallbacks; names encode candidate sizes the server may or
// may not honor.
var fallbackPaths = []string{
	"favicon.ico",
	"apple-touch-icon.png",
	"apple-touch-icon-180x180.png",
	"apple-touch-icon-167x167.png",
	"apple-touch-icon-152x152.png",
	"apple-touch-icon-120x120.png",
	"apple-touch-icon-114x114.png",
	"apple-touch-icon-80x80.png",
	"apple-touch-icon-87x87.png",
	"apple-touch-icon-76x76.png",
	"apple-touch-icon-58x58.png",
	"apple-touch-icon-precomposed.png",
}

// iconTag is one matched declaration before URL resolution: the href or
// content value plus the sizes attribute for link tags.
type iconTag struct {
	ref   string
	sizes string
}

// FromHTML extracts all favicon candidates declared in the given markup.
//
// rootURL resolves relative references; when empty, the markup's first
// <base href> is used instead, and without either, relative candidates are
// returned as-is. When includeFallbacks is true and the markup declares no
// icons, the conventional fallback catalog is returned in priority order.
//
// The result is deduplicated by structural equality and preserves document
// order. Tags with empty or whitespace-only href/content are skipped
// silently.
func FromHTML(r io.Reader, rootURL string, includeFallbacks bool) ([]Favicon, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var tags []iconTag
	var baseHref string

	// Single DOM pass. Each physical tag is visited once, so a tag can
	// never produce more than one candidate.
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "base":
				if baseHref == "" {
					baseHref = strings.TrimSpace(getAttr(n, "href"))
				}
			case "link":
				if iconLinkRels[strings.ToLower(getAttr(n, "rel"))] {
					if href := getAttr(n, "href"); strings.TrimSpace(href) != "" {
						tags = append(tags, iconTag{ref: href, sizes: getAttr(n, "sizes")})
					}
				}
			case "meta":
				if iconMetaNames[strings.ToLower(getAttr(n, "name"))] {
					if content := getAttr(n, "content"); strings.TrimSpace(content) != "" {
						tags = append(tags, iconTag{ref: content})
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	// An explicit caller-supplied root always wins over <base href>.
	if rootURL == "" {
		rootURL = baseHref
	}

	favicons := make([]Favicon, 0, len(tags))
	seen := make(map[Favicon]struct{}, len(tags))
	for _, tag := range tags {
		ref, ok := resolveRef(tag.ref, rootURL)
		if !ok {
			continue
		}

		var fav Favicon
		if ref.isData {
			// Inline payloads are not decoded at discovery time;
			// dimensions stay 0 until probing.
			fav = Favicon{URL: ref.url, Format: ref.format}
		} else {
			width, height := inferSize(tag.sizes, tag.ref)
			fav = Favicon{URL: ref.url, Format: ref.format, Width: width, Height: height}
		}

		if _, dup := seen[fav]; dup {
			continue
		}
		seen[fav] = struct{}{}
		favicons = append(favicons, fav)
	}

	if includeFallbacks && len(favicons) == 0 {
		favicons = fallbacks(rootURL)
	}
	return favicons, nil
}

// fallbacks builds the conventional icon candidates, joined against the
// root URL when one is known. Dimensions are always 0: a fallback's name is
// a hint, not a declaration.
func fallbacks(rootURL string) []Favicon {
	favicons := make([]Favicon, 0, len(fallbackPaths))
	for _, p := range fallbackPaths {
		ref, ok := resolveRef(p, rootURL)
		if !ok {
			continue
		}
		favicons = append(favicons, Favicon{URL: ref.url, Format: ref.format})
	}
	return favicons
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
