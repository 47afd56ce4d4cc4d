package extractfavicon

import "strings"

// dataURIPrefix marks an inline base64 image embedded directly in markup.
const dataURIPrefix = "data:"

// Reachability records what is known about a URL's availability.
// A candidate starts out unknown; a network attempt settles it one way or
// the other. The three states matter because an icon that was never tried
// must not be confused with one that failed.
type Reachability int

const (
	// ReachabilityUnknown means no network attempt has been made yet.
	ReachabilityUnknown Reachability = iota

	// Reachable means the last attempt received a success response.
	Reachable

	// Unreachable means the last attempt failed or returned a non-success
	// status code.
	Unreachable
)

// String returns a human-readable name for the reachability state.
func (r Reachability) String() string {
	switch r {
	case Reachable:
		return "reachable"
	case Unreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// Favicon is a discovered, not-yet-downloaded icon reference.
//
// It is an immutable value type: all fields are comparable, equality is
// structural, and candidate sets deduplicate with a plain map key. A width
// or height of 0 means "unknown", never negative.
type Favicon struct {
	// URL is the absolute icon URL, or the full inline data URI.
	URL string `json:"url"`

	// Format is the lowercase file extension or MIME subtype
	// ("png", "ico", "svg", ...). Empty when unknown.
	Format string `json:"format"`

	// Width is the declared or probed width in pixels. 0 means unknown.
	Width int `json:"width"`

	// Height is the declared or probed height in pixels. 0 means unknown.
	Height int `json:"height"`
}

// Area returns the pixel area used for ranking. Icons with unknown
// dimensions have area 0 and therefore sort below any sized icon.
func (f Favicon) Area() int {
	return f.Width * f.Height
}

// HasSize reports whether both dimensions are known.
func (f Favicon) HasSize() bool {
	return f.Width != 0 && f.Height != 0
}

// IsDataURI reports whether the candidate is an inline data URI rather
// than a network reference.
func (f Favicon) IsDataURI() bool {
	return strings.HasPrefix(f.URL, dataURIPrefix)
}

// withSize returns a copy with refined dimensions. Zero components are
// ignored so probing can only refine a declared size, never degrade it.
func (f Favicon) withSize(width, height int) Favicon {
	if width > 0 && height > 0 {
		f.Width = width
		f.Height = height
	}
	return f
}

// ResolvedIcon is the outcome of one resolution attempt for a Favicon.
//
// Like Favicon it is an immutable value: every attempt yields a fresh
// record. The invariant Valid => Reachable holds for all records produced
// by this package.
type ResolvedIcon struct {
	Favicon

	// Reachable records the result of the last network attempt.
	Reachable Reachability `json:"reachable"`

	// Valid reports whether the response carried actual image data.
	Valid bool `json:"valid"`

	// FinalURL is the URL after following redirects. Empty before any
	// network attempt.
	FinalURL string `json:"final_url,omitempty"`

	// Redirected reports whether the request was redirected.
	Redirected bool `json:"redirected"`

	// StatusCode is the last HTTP status code, 0 before any attempt and
	// -1 when the request failed below the HTTP layer.
	StatusCode int `json:"status_code"`
}

// NewResolvedIcon wraps a candidate prior to any network attempt.
func NewResolvedIcon(f Favicon) ResolvedIcon {
	return ResolvedIcon{Favicon: f, Reachable: ReachabilityUnknown}
}
