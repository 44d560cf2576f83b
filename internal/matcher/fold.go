package matcher

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// newFoldTransformer decomposes runes (NFD) and drops combining marks,
// collapsing accented Latin letters onto their ASCII base letter — e.g.
// "café" -> "cafe" (§4.2.1). A chained Transformer keeps internal
// buffers, so each Fold call builds its own instead of sharing one across
// goroutines.
func newFoldTransformer() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Fold strips diacritics from s. Pure-ASCII input is returned unchanged
// without running the transform, since the scorer only needs folding when
// a byte falls outside ASCII. Letters with no canonical decomposition
// (e.g. "ø", "ß", "æ") are kept as they are, so the result is not always
// pure ASCII.
func Fold(s string) string {
	if isASCII(s) {
		return s
	}
	folded, _, err := transform.String(newFoldTransformer(), s)
	if err != nil {
		return s
	}
	return folded
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// foldKey returns the lowercase ASCII-folded form used for case-insensitive
// scoring. Folding happens once at injection time for dictionary entries and
// once per query at match time (§4.2.1).
func foldKey(s string) string {
	return strings.ToLower(Fold(s))
}
