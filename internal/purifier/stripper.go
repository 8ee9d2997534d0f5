package purifier

import (
	"strings"

	"github.com/aleister1102/urlpurifier/internal/blocklist"
	"github.com/aleister1102/urlpurifier/internal/urlhandler"
)

// StripParams removes every blocklisted query parameter from u in place and
// returns how many parameters were dropped. Keys are compared lowercased;
// values are never inspected, and every occurrence of a repeated key goes.
func StripParams(u *urlhandler.ParsedURL, cfg ModeConfig) int {
	removal := blocklist.RemovalSet(cfg.blocklistMode())
	return u.RemoveParams(func(key string) bool {
		lower := strings.ToLower(key)
		if blocklist.HasBlockedPrefix(lower, cfg.AmazonMode) {
			return true
		}
		_, blocked := removal[lower]
		return blocked
	})
}
