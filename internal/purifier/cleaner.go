// Package purifier removes tracking parameters from URLs and canonicalizes
// Amazon product links. Cleaning never fails with a Go error: every line
// produces a CleanResult, and parse failures are reported in it.
package purifier

import (
	"strings"

	"github.com/aleister1102/urlpurifier/internal/blocklist"
	"github.com/aleister1102/urlpurifier/internal/urlhandler"
)

// CleanOne cleans a single line of input.
func CleanOne(raw string, cfg ModeConfig) CleanResult {
	input := strings.TrimSpace(raw)
	if input == "" {
		return CleanResult{}
	}

	// Free text is passed through without an attempt to parse it.
	if !urlhandler.LooksLikeURL(input) {
		return CleanResult{Cleaned: input, Original: input}
	}

	u, err := urlhandler.Parse(urlhandler.EnsureScheme(input))
	if err != nil {
		return CleanResult{Cleaned: input, Original: input, Error: ErrInvalidURLFormat}
	}

	originalURL := u.String()
	originalParamCount := u.ParamCount()
	isAmazon := blocklist.IsAmazonHost(u.Hostname())

	StripParams(u, cfg)

	amazonNormalized := false
	if cfg.AmazonMode && isAmazon {
		amazonNormalized = NormalizeAmazon(u)
	}

	trimTrailingSlashes(u)

	cleanedURL := u.String()
	return CleanResult{
		Cleaned:  cleanedURL,
		Original: originalURL,
		Changed:  originalURL != cleanedURL || amazonNormalized,
		Stats: &LineStats{
			ParamsRemoved:    originalParamCount - u.ParamCount(),
			AmazonNormalized: amazonNormalized,
		},
	}
}

// trimTrailingSlashes drops trailing slashes from a non-root path, but only
// when no query remains.
func trimTrailingSlashes(u *urlhandler.ParsedURL) {
	if u.HasQuery() {
		return
	}
	path := u.EscapedPath()
	if path == "/" || !strings.HasSuffix(path, "/") {
		return
	}
	u.SetEscapedPath(strings.TrimRight(path, "/"))
}
