package extractfavicon

import (
	"net/url"
	"path"
	"strings"
)

// resolvedRef is the outcome of normalizing one raw href/content value.
// Either a network URL (url + format) or an inline data URI (payload set).
type resolvedRef struct {
	// url is the reassembled absolute URL, or the full data URI.
	url string

	// format is the lowercase path extension or MIME subtype.
	format string

	// isData marks an inline data URI.
	isData bool

	// payload is the base64 payload of a data URI, without the metadata
	// prefix. Empty for network references.
	payload string
}

// resolveRef turns a raw href/content string plus an optional root URL into
// an absolute URL or an inline data-URI reference. The boolean result is
// false when the value is empty or unparseable and the caller should skip
// the item.
//
// Rules, in order:
//   - data: URIs are classified, never joined against the root.
//   - Without a root, the value is parsed as-is and may stay relative.
//   - A value that already has a host is used verbatim; anything else is
//     joined against the root.
//   - Scheme-relative results ("//cdn.example.com/icon.png") inherit the
//     root's scheme.
func resolveRef(raw, rootURL string) (resolvedRef, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return resolvedRef{}, false
	}

	if strings.HasPrefix(raw, dataURIPrefix) {
		return resolveDataURI(raw)
	}

	if rootURL == "" {
		u, err := url.Parse(raw)
		if err != nil {
			return resolvedRef{}, false
		}
		return resolvedRef{url: u.String(), format: pathExtension(u.Path)}, true
	}

	root, err := url.Parse(rootURL)
	if err != nil {
		return resolvedRef{}, false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return resolvedRef{}, false
	}

	// A host component means the value is already absolute; use it
	// verbatim. Everything else resolves relative to the root.
	if u.Host == "" {
		u = root.ResolveReference(u)
	}

	// Repair scheme-relative forms by inheriting the root's scheme.
	if u.Scheme == "" {
		u.Scheme = root.Scheme
	}

	return resolvedRef{url: u.String(), format: pathExtension(u.Path)}, true
}

// resolveDataURI splits an inline data URI into its normalized MIME subtype
// and base64 payload. The subtype drops the ";base64" marker and the
// "image/" type, and maps "svg+xml" to "svg".
func resolveDataURI(raw string) (resolvedRef, bool) {
	meta, payload, found := strings.Cut(raw, ",")
	if !found {
		return resolvedRef{}, false
	}

	suffix := strings.TrimPrefix(meta, dataURIPrefix)
	suffix = strings.ReplaceAll(suffix, ";base64", "")
	suffix = strings.ReplaceAll(suffix, "image", "")
	suffix = strings.ReplaceAll(suffix, "/", "")
	suffix = strings.ToLower(suffix)
	if suffix == "svg+xml" {
		suffix = "svg"
	}

	return resolvedRef{url: raw, format: suffix, isData: true, payload: payload}, true
}

// dataURIPayload extracts the base64 payload from a full data URI.
func dataURIPayload(uri string) (string, bool) {
	_, payload, found := strings.Cut(uri, ",")
	return payload, found
}

// pathExtension returns the lowercased file extension of a URL path
// without the leading dot, or "" when the path has none.
func pathExtension(p string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
}
