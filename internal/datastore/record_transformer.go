package datastore

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/urlpurifier/internal/purifier"
	"github.com/aleister1102/urlpurifier/internal/urlhandler"
)

// RecordTransformer handles transformation of clean results into export records
type RecordTransformer struct {
	logger zerolog.Logger
}

// NewRecordTransformer creates a new RecordTransformer
func NewRecordTransformer(logger zerolog.Logger) *RecordTransformer {
	return &RecordTransformer{
		logger: logger.With().Str("component", "RecordTransformer").Logger(),
	}
}

// TransformToExportRecord converts one CleanResult at line index into an ExportRecord.
// Lines that failed to parse keep no URL text at all.
func (rt *RecordTransformer) TransformToExportRecord(runID string, index int, r purifier.CleanResult, exportTime time.Time) ExportRecord {
	record := ExportRecord{
		RunID:           runID,
		LineIndex:       int64(index),
		Changed:         r.Changed,
		ExportTimestamp: exportTime.UnixMilli(),
	}

	if r.HasError() {
		record.Error = StringPtrOrNil(string(r.Error))
		return record
	}

	record.CleanedURL = r.Cleaned
	record.RegistrableDomain = StringPtrOrNil(rt.registrableDomain(r.Cleaned))
	if r.Stats != nil {
		record.ParamsRemoved = int32(r.Stats.ParamsRemoved)
		record.AmazonNormalized = r.Stats.AmazonNormalized
	}
	return record
}

// TransformResults converts every non-blank result, keeping line indexes of the input
func (rt *RecordTransformer) TransformResults(runID string, results []purifier.CleanResult, exportTime time.Time) []ExportRecord {
	records := make([]ExportRecord, 0, len(results))
	for i, r := range results {
		if r.IsBlank() {
			continue
		}
		records = append(records, rt.TransformToExportRecord(runID, i, r, exportTime))
	}
	return records
}

func (rt *RecordTransformer) registrableDomain(cleaned string) string {
	if !urlhandler.LooksLikeURL(cleaned) {
		return ""
	}
	u, err := urlhandler.Parse(cleaned)
	if err != nil {
		rt.logger.Debug().Err(err).Msg("Cleaned value did not re-parse, skipping domain")
		return ""
	}
	return urlhandler.RegistrableDomain(u.Hostname())
}
