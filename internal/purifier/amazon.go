package purifier

import (
	"strings"

	"github.com/aleister1102/urlpurifier/internal/asin"
	"github.com/aleister1102/urlpurifier/internal/urlhandler"
)

// NormalizeAmazon rewrites u to /dp/{ASIN} and drops the entire query when
// an ASIN can be found. Without an ASIN u is left untouched. It reports
// whether the path changed.
func NormalizeAmazon(u *urlhandler.ParsedURL) bool {
	id, ok := asin.Extract(u)
	if !ok {
		return false
	}

	before := u.EscapedPath()
	u.SetEscapedPath("/dp/" + strings.ToUpper(id))
	u.ClearQuery()
	return u.EscapedPath() != before
}
