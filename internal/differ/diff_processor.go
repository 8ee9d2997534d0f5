package differ

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffProcessor handles the core diffing logic
type DiffProcessor struct {
	dmp    *diffmatchpatch.DiffMatchPatch
	config DiffConfig
}

// NewDiffProcessor creates a new diff processor
func NewDiffProcessor(config DiffConfig) *DiffProcessor {
	return &DiffProcessor{
		dmp:    diffmatchpatch.New(),
		config: config,
	}
}

// ProcessDiff generates a character level diff between two URLs
func (dp *DiffProcessor) ProcessDiff(original, cleaned string) []diffmatchpatch.Diff {
	diffs := dp.dmp.DiffMain(original, cleaned, false)

	if dp.config.EnableSemanticCleanup {
		diffs = dp.dmp.DiffCleanupSemantic(diffs)
	}

	return diffs
}

// DiffStatistics holds diff calculation results
type DiffStatistics struct {
	CharsRemoved int
	CharsAdded   int
	IsIdentical  bool
}

// CalculateStats computes statistics from diff results
func CalculateStats(diffs []diffmatchpatch.Diff) DiffStatistics {
	stats := DiffStatistics{IsIdentical: true}

	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			stats.CharsAdded += len([]rune(diff.Text))
			stats.IsIdentical = false
		case diffmatchpatch.DiffDelete:
			stats.CharsRemoved += len([]rune(diff.Text))
			stats.IsIdentical = false
		}
	}

	return stats
}
