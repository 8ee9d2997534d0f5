package purifier

import (
	"regexp"
	"strings"
)

var lineBreakRegex = regexp.MustCompile(`\r?\n`)

// SplitLines splits text on LF or CRLF. The number of returned lines always
// equals the number of line breaks plus one, so blank lines survive.
func SplitLines(text string) []string {
	return lineBreakRegex.Split(text, -1)
}

// CleanBatch cleans every line of text independently and aggregates the
// results. len(Results) equals len(SplitLines(text)).
func CleanBatch(text string, cfg ModeConfig) BatchResult {
	return CleanLines(SplitLines(text), cfg)
}

// CleanLines cleans already split lines.
func CleanLines(lines []string, cfg ModeConfig) BatchResult {
	results := make([]CleanResult, len(lines))
	for i, line := range lines {
		results[i] = CleanOne(line, cfg)
	}
	return BatchResult{Results: results, Stats: Summarize(results)}
}

// Summarize folds results into BatchStats.
func Summarize(results []CleanResult) BatchStats {
	var stats BatchStats
	for _, r := range results {
		stats.Add(r)
	}
	return stats
}

// Output joins the cleaned lines with LF.
func (b BatchResult) Output() string {
	lines := make([]string, len(b.Results))
	for i, r := range b.Results {
		lines[i] = r.Cleaned
	}
	return strings.Join(lines, "\n")
}

// ChangedResults returns the results whose URL was modified, in order.
func (b BatchResult) ChangedResults() []CleanResult {
	var changed []CleanResult
	for _, r := range b.Results {
		if r.Changed {
			changed = append(changed, r)
		}
	}
	return changed
}
