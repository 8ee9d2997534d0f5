// Package blocklist holds the query parameter names and prefixes that are
// removed while cleaning URLs. All data is fixed at process start and never
// mutated afterwards.
package blocklist

import (
	"regexp"
	"strings"
)

// Mode selects which blocklist tiers are active.
type Mode struct {
	Strong bool
	Amazon bool
}

// AmazonPrefix is blocked only when Amazon mode is on.
const AmazonPrefix = "pf_rd_"

var (
	commonPrefixes = []string{
		"utm_",  // utm_source, utm_medium, utm_campaign, ...
		"vero_", // mailing platforms
		"pk_",   // Matomo
	}

	commonExact = []string{
		"fbclid", "gclid", "dclid", "msclkid",
		"mc_cid", "mc_eid", "_hsenc", "_hsmi",
		"igshid", "spm", "scid",
		"yclid", "gbraid", "wbraid",
	}

	strongExact = []string{
		"sr_share", "ttclid", "twclid", "li_fat_id",
		"ef_id", "cmpid", "campaign", "camp", "adgroup", "adid", "creative",
		"ref_src", "ref_url",
	}

	// creative and camp also appear in strongExact. Removal is idempotent so
	// the overlap is kept as is.
	amazonExact = []string{
		"tag", "ref", "linkCode", "creative", "creativeASIN", "ascsubtag",
		"psc", "th", "smid", "keywords", "qid", "language", "camp",
	}

	amazonHostRegex = regexp.MustCompile(`(?i)(^|\.)amazon\.(com|co\.jp|co\.uk|de|fr|it|es|ca|com\.mx|com\.au|nl|sg|in|ae|sa|se|pl|eg|tr)$`)

	commonSet = toLowerSet(commonExact)
	strongSet = toLowerSet(strongExact)
	amazonSet = toLowerSet(amazonExact)
)

func toLowerSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	return set
}

// RemovalSet returns the lowercase exact-match names active for mode. The
// returned map is freshly built and may be modified by the caller.
func RemovalSet(mode Mode) map[string]struct{} {
	set := make(map[string]struct{}, len(commonSet)+len(strongSet)+len(amazonSet))
	for k := range commonSet {
		set[k] = struct{}{}
	}
	if mode.Strong {
		for k := range strongSet {
			set[k] = struct{}{}
		}
	}
	if mode.Amazon {
		for k := range amazonSet {
			set[k] = struct{}{}
		}
	}
	return set
}

// HasBlockedPrefix reports whether name starts with one of the common
// prefixes, or with AmazonPrefix when amazonMode is set.
func HasBlockedPrefix(name string, amazonMode bool) bool {
	lower := strings.ToLower(name)
	for _, p := range commonPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return amazonMode && strings.HasPrefix(lower, AmazonPrefix)
}

// IsBlocked reports whether a parameter name is removed under mode.
func IsBlocked(name string, mode Mode) bool {
	lower := strings.ToLower(name)
	if _, ok := commonSet[lower]; ok {
		return true
	}
	if mode.Strong {
		if _, ok := strongSet[lower]; ok {
			return true
		}
	}
	if mode.Amazon {
		if _, ok := amazonSet[lower]; ok {
			return true
		}
	}
	return HasBlockedPrefix(lower, mode.Amazon)
}

// IsAmazonHost reports whether hostname is amazon.<tld> or a subdomain of
// it for one of the supported country TLDs.
func IsAmazonHost(hostname string) bool {
	return amazonHostRegex.MatchString(strings.ToLower(hostname))
}

// CommonPrefixes returns a copy of the common prefix list.
func CommonPrefixes() []string { return clone(commonPrefixes) }

// CommonNames returns a copy of the common exact-match list.
func CommonNames() []string { return clone(commonExact) }

// StrongNames returns a copy of the strong exact-match list.
func StrongNames() []string { return clone(strongExact) }

// AmazonNames returns a copy of the Amazon exact-match list.
func AmazonNames() []string { return clone(amazonExact) }

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
