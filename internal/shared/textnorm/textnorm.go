// Package textnorm cleans free text arriving from messaging channels before
// it is matched against keywords or stored.
package textnorm

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

var strict = bluemonday.StrictPolicy()

// Clean composes Hangul (NFC), folds full-width ASCII such as "０１０" to
// its narrow form, strips any markup and trims surrounding space.
func Clean(s string) string {
	s = norm.NFC.String(s)
	s = width.Fold.String(s)
	if strings.ContainsAny(s, "<>&") {
		s = html.UnescapeString(strict.Sanitize(s))
	}
	return strings.TrimSpace(s)
}
