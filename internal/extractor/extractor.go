// Package extractor pulls link targets out of HTML documents so they can be cleaned like plain input lines.
package extractor

import (
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/aleister1102/urlpurifier/internal/common/errorwrapper"
)

// linkSelector matches every element whose href is a navigable link
const linkSelector = "a[href], area[href]"

// skippedSchemes are hrefs that never carry tracking parameters worth cleaning
var skippedSchemes = []string{"javascript:", "mailto:", "tel:", "data:"}

// LinkExtractor extracts anchor hrefs in document order
type LinkExtractor struct {
	logger zerolog.Logger
	unique bool
}

// NewLinkExtractor creates a new link extractor
func NewLinkExtractor(logger zerolog.Logger) *LinkExtractor {
	return &LinkExtractor{
		logger: logger.With().Str("component", "LinkExtractor").Logger(),
	}
}

// WithUnique drops repeated hrefs, keeping the first occurrence
func (le *LinkExtractor) WithUnique(unique bool) *LinkExtractor {
	le.unique = unique
	return le
}

// Extract parses the HTML in r and returns its link targets.
// Relative hrefs are resolved against an absolute <base href> when the document has one.
func (le *LinkExtractor) Extract(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to parse HTML content")
	}

	base := le.documentBase(doc)
	links := make([]string, 0, 32)
	seen := make(map[string]struct{})

	doc.Find(linkSelector).Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if !isCleanable(href) {
			return
		}
		if base != nil {
			if resolved, err := base.Parse(href); err == nil {
				href = resolved.String()
			}
		}
		if le.unique {
			if _, dup := seen[href]; dup {
				return
			}
			seen[href] = struct{}{}
		}
		links = append(links, href)
	})

	le.logger.Debug().Int("links", len(links)).Bool("has_base", base != nil).Msg("Extracted links from HTML")
	return links, nil
}

// documentBase returns the first absolute <base href>, or nil
func (le *LinkExtractor) documentBase(doc *goquery.Document) *url.URL {
	href, ok := doc.Find("base[href]").First().Attr("href")
	if !ok {
		return nil
	}
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil || !u.IsAbs() {
		le.logger.Debug().Str("base", href).Msg("Ignoring non-absolute base href")
		return nil
	}
	return u
}

func isCleanable(href string) bool {
	if href == "" || strings.HasPrefix(href, "#") {
		return false
	}
	lower := strings.ToLower(href)
	for _, scheme := range skippedSchemes {
		if strings.HasPrefix(lower, scheme) {
			return false
		}
	}
	return true
}
