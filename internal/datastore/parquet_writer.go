package datastore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"

	"github.com/aleister1102/urlpurifier/internal/common/errorwrapper"
	"github.com/aleister1102/urlpurifier/internal/purifier"
)

// ParquetWriterConfig holds configuration for ParquetWriter
type ParquetWriterConfig struct {
	CompressionType string
}

// DefaultParquetWriterConfig returns default configuration
func DefaultParquetWriterConfig() ParquetWriterConfig {
	return ParquetWriterConfig{
		CompressionType: "zstd",
	}
}

// ParquetWriter exports clean results to Parquet files.
type ParquetWriter struct {
	logger       zerolog.Logger
	writerConfig ParquetWriterConfig
	transformer  *RecordTransformer
	now          func() time.Time
}

// ParquetWriterBuilder provides a fluent interface for creating ParquetWriter
type ParquetWriterBuilder struct {
	logger       zerolog.Logger
	writerConfig ParquetWriterConfig
}

// NewParquetWriterBuilder creates a new ParquetWriterBuilder
func NewParquetWriterBuilder(logger zerolog.Logger) *ParquetWriterBuilder {
	return &ParquetWriterBuilder{
		logger:       logger.With().Str("component", "ParquetWriter").Logger(),
		writerConfig: DefaultParquetWriterConfig(),
	}
}

// WithCompression sets the compression codec by name
func (b *ParquetWriterBuilder) WithCompression(codec string) *ParquetWriterBuilder {
	if codec != "" {
		b.writerConfig.CompressionType = strings.ToLower(codec)
	}
	return b
}

// Build creates a new ParquetWriter instance
func (b *ParquetWriterBuilder) Build() (*ParquetWriter, error) {
	switch b.writerConfig.CompressionType {
	case "none", "snappy", "gzip", "zstd":
	default:
		return nil, errorwrapper.NewValidationError("compression_codec", b.writerConfig.CompressionType, "unsupported compression codec")
	}

	return &ParquetWriter{
		logger:       b.logger,
		writerConfig: b.writerConfig,
		transformer:  NewRecordTransformer(b.logger),
		now:          time.Now,
	}, nil
}

// NewParquetWriter creates a new ParquetWriter using builder pattern
func NewParquetWriter(codec string, logger zerolog.Logger) (*ParquetWriter, error) {
	return NewParquetWriterBuilder(logger).
		WithCompression(codec).
		Build()
}

// WriteResult contains the result of a write operation
type WriteResult struct {
	FilePath       string
	RecordsWritten int
	FileSize       int64
	WriteTime      time.Duration
}

// Write exports results of run runID to filePath, replacing any existing file
func (pw *ParquetWriter) Write(ctx context.Context, filePath, runID string, results []purifier.CleanResult) (*WriteResult, error) {
	startTime := time.Now()

	if strings.TrimSpace(filePath) == "" {
		return nil, errorwrapper.NewValidationError("export_path", filePath, "export path cannot be empty")
	}

	if err := pw.checkCancellation(ctx, "export start"); err != nil {
		return nil, err
	}

	records := pw.transformer.TransformResults(runID, results, pw.now())

	if err := pw.checkCancellation(ctx, "before parquet write"); err != nil {
		return nil, err
	}

	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errorwrapper.WrapError(err, "failed to create export directory: "+dir)
		}
	}

	recordsWritten, err := pw.writeToParquetFile(filePath, records)
	if err != nil {
		return nil, err
	}

	fileSize := int64(0)
	if info, statErr := os.Stat(filePath); statErr == nil {
		fileSize = info.Size()
	}

	result := &WriteResult{
		FilePath:       filePath,
		RecordsWritten: recordsWritten,
		FileSize:       fileSize,
		WriteTime:      time.Since(startTime),
	}

	pw.logger.Info().
		Str("file_path", result.FilePath).
		Int("records_written", result.RecordsWritten).
		Dur("write_time", result.WriteTime).
		Msg("Exported clean results to Parquet file")

	return result, nil
}

// writeToParquetFile writes the records to a Parquet file
func (pw *ParquetWriter) writeToParquetFile(filePath string, records []ExportRecord) (int, error) {
	file, err := os.Create(filePath)
	if err != nil {
		return 0, errorwrapper.WrapError(err, "failed to create/truncate parquet file: "+filePath)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[ExportRecord](file, pw.getCompressionOption())

	n, err := writer.Write(records)
	if err != nil {
		_ = writer.Close()
		return 0, errorwrapper.WrapError(err, "failed to write records to parquet file")
	}
	if err := writer.Close(); err != nil {
		return 0, errorwrapper.WrapError(err, "failed to finalize parquet file")
	}
	return n, nil
}

// getCompressionOption returns the compression option based on configuration
func (pw *ParquetWriter) getCompressionOption() parquet.WriterOption {
	switch pw.writerConfig.CompressionType {
	case "none":
		return parquet.Compression(&parquet.Uncompressed)
	case "gzip":
		return parquet.Compression(&parquet.Gzip)
	case "snappy":
		return parquet.Compression(&parquet.Snappy)
	default:
		return parquet.Compression(&parquet.Zstd)
	}
}

// checkCancellation checks for context cancellation
func (pw *ParquetWriter) checkCancellation(ctx context.Context, operation string) error {
	if result := CheckCancellationWithLog(ctx, pw.logger, operation); result.Cancelled {
		return result.Error
	}
	return nil
}
