package datastore

// ExportRecord defines the parquet schema for one cleaned input line.
// It carries the cleaned form only; the pre-cleaning URL is never stored.
type ExportRecord struct {
	RunID             string  `parquet:"run_id"`
	LineIndex         int64   `parquet:"line_index"`
	CleanedURL        string  `parquet:"cleaned_url"`
	RegistrableDomain *string `parquet:"registrable_domain,optional"`
	ParamsRemoved     int32   `parquet:"params_removed"`
	AmazonNormalized  bool    `parquet:"amazon_normalized"`
	Changed           bool    `parquet:"changed"`
	Error             *string `parquet:"error,optional"`
	ExportTimestamp   int64   `parquet:"export_timestamp"` // UnixMilli
}
