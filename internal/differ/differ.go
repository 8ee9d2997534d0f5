// Package differ renders what cleaning removed from a URL.
package differ

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/aleister1102/urlpurifier/internal/purifier"
)

const (
	removedOpen  = "[-"
	removedClose = "-]"
	addedOpen    = "{+"
	addedClose   = "+}"

	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiReset = "\x1b[0m"
)

// URLDiff is the rendered change for one cleaned line
type URLDiff struct {
	Rendered string
	Stats    DiffStatistics
}

// URLDiffer renders original and cleaned URLs as a word-diff style string
type URLDiffer struct {
	processor *DiffProcessor
	config    DiffConfig
	logger    zerolog.Logger
}

// NewURLDiffer creates a new URL differ
func NewURLDiffer(config DiffConfig, logger zerolog.Logger) *URLDiffer {
	return &URLDiffer{
		processor: NewDiffProcessor(config),
		config:    config,
		logger:    logger.With().Str("component", "URLDiffer").Logger(),
	}
}

// Diff renders the change between original and cleaned
func (ud *URLDiffer) Diff(original, cleaned string) URLDiff {
	diffs := ud.processor.ProcessDiff(original, cleaned)
	return URLDiff{
		Rendered: ud.render(diffs),
		Stats:    CalculateStats(diffs),
	}
}

// DiffResult renders a CleanResult. ok is false for unchanged, failed or blank lines.
func (ud *URLDiffer) DiffResult(result purifier.CleanResult) (URLDiff, bool) {
	if !result.Changed || result.HasError() || result.IsBlank() {
		return URLDiff{}, false
	}
	d := ud.Diff(result.Original, result.Cleaned)
	ud.logger.Debug().Int("chars_removed", d.Stats.CharsRemoved).Int("chars_added", d.Stats.CharsAdded).Msg("Rendered URL diff")
	return d, true
}

func (ud *URLDiffer) render(diffs []diffmatchpatch.Diff) string {
	var sb strings.Builder
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffEqual:
			sb.WriteString(diff.Text)
		case diffmatchpatch.DiffDelete:
			ud.wrap(&sb, diff.Text, removedOpen, removedClose, ansiRed)
		case diffmatchpatch.DiffInsert:
			ud.wrap(&sb, diff.Text, addedOpen, addedClose, ansiGreen)
		}
	}
	return sb.String()
}

func (ud *URLDiffer) wrap(sb *strings.Builder, text, open, close, color string) {
	if ud.config.EnableColor {
		sb.WriteString(color)
		sb.WriteString(text)
		sb.WriteString(ansiReset)
		return
	}
	sb.WriteString(open)
	sb.WriteString(text)
	sb.WriteString(close)
}
