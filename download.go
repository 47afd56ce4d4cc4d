package extractfavicon

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Mode selects which candidates Download resolves.
type Mode string

const (
	// ModeAll probes every surviving candidate in list order.
	ModeAll Mode = "all"

	// ModeLargest sorts by declared pixel area descending and probes
	// only the first candidate.
	ModeLargest Mode = "largest"

	// ModeSmallest sorts by declared pixel area ascending and probes
	// only the first candidate.
	ModeSmallest Mode = "smallest"
)

// ParseMode converts a string to a Mode, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case ModeAll:
		return ModeAll, nil
	case ModeLargest:
		return ModeLargest, nil
	case ModeSmallest:
		return ModeSmallest, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want all, largest, or smallest)", s)
	}
}

// SortOrder is the pixel-area ordering of a final result list.
type SortOrder string

const (
	// SortAscending orders smallest area first.
	SortAscending SortOrder = "asc"

	// SortDescending orders largest area first.
	SortDescending SortOrder = "desc"
)

// ParseSortOrder converts a string to a SortOrder, case-insensitively.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(s)) {
	case SortAscending:
		return SortAscending, nil
	case SortDescending:
		return SortDescending, nil
	default:
		return "", fmt.Errorf("unknown sort order %q (want asc or desc)", s)
	}
}

// Download resolves previously discovered candidates and returns the ones
// that turned out to be real, reachable images.
//
// Candidates with unknown dimensions are dropped up front unless
// WithIncludeUnknown(true) (the default) keeps them. In largest/smallest
// mode only the extreme candidate is probed; everything else is skipped
// without network activity. Inline data URIs bypass the network entirely.
//
// The result contains only icons with Reachable && Valid, sorted by pixel
// area per WithSortOrder, independent of the mode-driven selection.
func Download(ctx context.Context, c *Client, favicons []Favicon, opts ...Option) []ResolvedIcon {
	o := options{
		byteBudget:     DefaultByteBudget,
		chunkSize:      DefaultChunkSize,
		sleep:          2 * time.Second,
		mode:           ModeAll,
		includeUnknown: true,
		sortOrder:      SortAscending,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if c == nil {
		c = NewClient()
	}

	toProcess := make([]Favicon, 0, len(favicons))
	for _, fav := range favicons {
		if !o.includeUnknown && !fav.HasSize() {
			continue
		}
		toProcess = append(toProcess, fav)
	}

	switch o.mode {
	case ModeLargest:
		sortByArea(toProcess, SortDescending)
	case ModeSmallest:
		sortByArea(toProcess, SortAscending)
	}

	resolved := make([]ResolvedIcon, 0, len(toProcess))
	for i, fav := range toProcess {
		if ctx.Err() != nil {
			break
		}

		var icon ResolvedIcon
		if fav.IsDataURI() {
			icon = decodeDataIcon(NewResolvedIcon(fav))
		} else {
			// Force: even candidates with declared sizes need their
			// reachability and validity settled, and probing can only
			// refine dimensions, never degrade them.
			icon = GuessSize(ctx, c, NewResolvedIcon(fav),
				WithForce(true),
				WithByteBudget(o.byteBudget),
				WithChunkSize(o.chunkSize))
		}

		if icon.Reachable == Reachable && icon.Valid {
			resolved = append(resolved, icon)
		}

		// Early-exit modes only ever wanted the extreme candidate.
		if o.mode == ModeLargest || o.mode == ModeSmallest {
			break
		}
		if !fav.IsDataURI() && i < len(toProcess)-1 {
			sleepBetween(ctx, o.sleep)
		}
	}

	sortResolvedByArea(resolved, o.sortOrder)
	return resolved
}

// GuessMissingSizes probes each candidate whose dimensions are unknown and
// returns one ResolvedIcon per input, in order. Inline data URIs are left
// untouched unless WithLoadBase64(true) asks for local decoding.
func GuessMissingSizes(ctx context.Context, c *Client, favicons []Favicon, opts ...Option) []ResolvedIcon {
	o := options{
		byteBudget: DefaultByteBudget,
		chunkSize:  DefaultChunkSize,
		sleep:      1 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if c == nil {
		c = NewClient()
	}

	icons := make([]ResolvedIcon, 0, len(favicons))
	for i, fav := range favicons {
		icon := NewResolvedIcon(fav)
		if ctx.Err() != nil {
			// Cancelled: remaining icons stay untried rather than
			// being misreported as unreachable.
			icons = append(icons, icon)
			continue
		}
		if fav.IsDataURI() {
			if o.loadBase64 {
				icon = decodeDataIcon(icon)
			}
			icons = append(icons, icon)
			continue
		}

		icon = GuessSize(ctx, c, icon,
			WithByteBudget(o.byteBudget),
			WithChunkSize(o.chunkSize),
			WithForce(o.force))
		icons = append(icons, icon)

		if i < len(favicons)-1 {
			sleepBetween(ctx, o.sleep)
		}
	}
	return icons
}

// CheckAvailability issues a lightweight existence check (no body download)
// for each icon not already known reachable. Redirects replace the icon's
// URL with the final one. Data-URI entries are trivially reachable without
// network activity. WithForce re-checks icons already known reachable.
func CheckAvailability(ctx context.Context, c *Client, icons []ResolvedIcon, opts ...Option) []ResolvedIcon {
	o := options{sleep: 1 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}
	if c == nil {
		c = NewClient()
	}

	out := make([]ResolvedIcon, 0, len(icons))
	for i, icon := range icons {
		if ctx.Err() != nil {
			// Cancelled: remaining icons stay untried rather than
			// being misreported as unreachable.
			out = append(out, icon)
			continue
		}
		if icon.Reachable == Reachable && !o.force {
			out = append(out, icon)
			continue
		}
		if icon.IsDataURI() {
			icon.Reachable = Reachable
			out = append(out, icon)
			continue
		}

		result := c.Check(ctx, icon.URL, true)
		icon.StatusCode = result.StatusCode
		icon.FinalURL = result.FinalURL
		icon.Redirected = result.Redirected
		if result.Success {
			icon.Reachable = Reachable
		} else {
			icon.Reachable = Unreachable
			icon.Valid = false
		}
		if result.Redirected {
			icon.URL = result.FinalURL
		}
		out = append(out, icon)

		if i < len(icons)-1 {
			sleepBetween(ctx, o.sleep)
		}
	}
	return out
}

// sortByArea orders candidates by declared pixel area. The sort is stable
// so candidates with equal area keep their discovery order.
func sortByArea(favicons []Favicon, order SortOrder) {
	sort.SliceStable(favicons, func(i, j int) bool {
		if order == SortDescending {
			return favicons[i].Area() > favicons[j].Area()
		}
		return favicons[i].Area() < favicons[j].Area()
	})
}

// sortResolvedByArea orders resolved icons by (possibly probed) pixel area.
func sortResolvedByArea(icons []ResolvedIcon, order SortOrder) {
	sort.SliceStable(icons, func(i, j int) bool {
		if order == SortDescending {
			return icons[i].Area() > icons[j].Area()
		}
		return icons[i].Area() < icons[j].Area()
	})
}
