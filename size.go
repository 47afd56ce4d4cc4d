package extractfavicon

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// filenameSizeRegex matches dimensions embedded in icon filenames, such as
// "apple-touch-icon-180x180.png". Two to four digits per component keeps
// version numbers like "2x3" cache busters out of the match.
var filenameSizeRegex = regexp.MustCompile(`(?i)(\d{2,4})x(\d{2,4})`)

// sizeSeparatorRegex splits a WxH token on the ASCII "x" or the Unicode
// multiplication sign, case-insensitively.
var sizeSeparatorRegex = regexp.MustCompile(`(?i)[x×]`)

// inferSize extracts declared dimensions from a sizes attribute, falling
// back to a WxH pattern in the filename. Missing or malformed components
// come back as 0.
//
// Token selection from the sizes attribute is lexicographic, not numeric:
// "16x16 32x32 64x64" picks "64x64", but "9x9 10x10" picks "9x9" because
// the string "9x9" sorts after "10x10". This quirk is part of the published
// contract and is pinned by tests; keep it as-is.
func inferSize(sizesAttr, filename string) (width, height int) {
	if sizesAttr != "" && sizesAttr != "any" {
		tokens := strings.Fields(sizesAttr)
		if len(tokens) == 0 {
			return 0, 0
		}
		sort.Sort(sort.Reverse(sort.StringSlice(tokens)))

		parts := sizeSeparatorRegex.Split(tokens[0], -1)
		if len(parts) != 2 {
			return 0, 0
		}
		return sanitizeDimension(parts[0]), sanitizeDimension(parts[1])
	}

	m := filenameSizeRegex.FindStringSubmatch(filename)
	if m == nil {
		return 0, 0
	}
	return sanitizeDimension(m[1]), sanitizeDimension(m[2])
}

// sanitizeDimension converts one extracted component to a pixel count,
// discarding non-digit characters first. Attribute values in the wild
// carry junk like "192x192+"; anything left empty converts to 0.
func sanitizeDimension(s string) int {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return n
}
