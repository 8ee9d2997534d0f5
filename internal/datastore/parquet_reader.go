package datastore

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"

	"github.com/aleister1102/urlpurifier/internal/common/errorwrapper"
)

// readBatchSize is the number of rows pulled from the reader per call
const readBatchSize = 256

// ReadExport loads every record from an export file written by ParquetWriter
func ReadExport(ctx context.Context, filePath string, logger zerolog.Logger) ([]ExportRecord, error) {
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errorwrapper.WrapError(errorwrapper.ErrNotFound, "export file "+filePath)
		}
		return nil, errorwrapper.WrapError(err, "failed to open export file for reading: "+filePath)
	}
	defer file.Close()

	reader := parquet.NewGenericReader[ExportRecord](file)
	defer reader.Close()

	records := make([]ExportRecord, 0, reader.NumRows())
	for {
		if result := CheckCancellationWithLog(ctx, logger, "read export"); result.Cancelled {
			return nil, result.Error
		}

		// Fresh buffer per read so optional fields are not shared between rows
		batch := make([]ExportRecord, readBatchSize)
		n, err := reader.Read(batch)
		records = append(records, batch[:n]...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, errorwrapper.WrapError(err, "failed to read records from parquet file")
		}
	}

	logger.Debug().Int("records_read", len(records)).Str("file_path", filePath).Msg("Loaded export records")
	return records, nil
}
