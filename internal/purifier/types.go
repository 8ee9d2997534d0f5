package purifier

import "github.com/aleister1102/urlpurifier/internal/blocklist"

// ModeConfig gates which blocklist tiers and rewrites are active. It is
// passed by value and never mutated.
type ModeConfig struct {
	// StrongBlocklist enables the strong exact-match list.
	StrongBlocklist bool `json:"strong_blocklist" yaml:"strong_blocklist"`
	// AmazonMode enables the Amazon exact-match list, the pf_rd_ prefix and
	// /dp/{ASIN} canonicalization on Amazon hosts.
	AmazonMode bool `json:"amazon_mode" yaml:"amazon_mode"`
}

func (m ModeConfig) blocklistMode() blocklist.Mode {
	return blocklist.Mode{Strong: m.StrongBlocklist, Amazon: m.AmazonMode}
}

// ErrorKind names a per-line failure. The zero value means no error.
type ErrorKind string

const (
	// ErrNone means the line did not fail.
	ErrNone ErrorKind = ""
	// ErrInvalidURLFormat marks URL-shaped input the parser rejected. The
	// line is echoed back trimmed but otherwise untouched.
	ErrInvalidURLFormat ErrorKind = "invalid URL format"
)

// LineStats describes what cleaning did to one URL.
type LineStats struct {
	ParamsRemoved    int  `json:"params_removed"`
	AmazonNormalized bool `json:"amazon_normalized"`
}

// CleanResult is the outcome of cleaning one input line. Stats is nil for
// blank lines, non-URL text and parse failures.
type CleanResult struct {
	Cleaned  string     `json:"cleaned"`
	Original string     `json:"original"`
	Error    ErrorKind  `json:"error,omitempty"`
	Changed  bool       `json:"changed"`
	Stats    *LineStats `json:"stats,omitempty"`
}

// HasError reports whether the line failed to parse.
func (r CleanResult) HasError() bool { return r.Error != ErrNone }

// IsBlank reports whether the input line was empty after trimming.
func (r CleanResult) IsBlank() bool { return r.Original == "" }

// BatchStats aggregates the results of one batch.
type BatchStats struct {
	TotalURLs          int `json:"total_urls"`
	TotalChanged       int `json:"total_changed"`
	TotalParamsRemoved int `json:"total_params_removed"`
	TotalErrors        int `json:"total_errors"`
}

// Add folds one result into the stats.
func (s *BatchStats) Add(r CleanResult) {
	if !r.IsBlank() {
		s.TotalURLs++
	}
	if r.Changed {
		s.TotalChanged++
	}
	if r.Stats != nil {
		s.TotalParamsRemoved += r.Stats.ParamsRemoved
	}
	if r.HasError() {
		s.TotalErrors++
	}
}

// BatchResult holds per-line results in input order plus their aggregate.
type BatchResult struct {
	Results []CleanResult `json:"results"`
	Stats   BatchStats    `json:"stats"`
}
