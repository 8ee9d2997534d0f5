package datastore

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/urlpurifier/internal/common/errorwrapper"
	"github.com/aleister1102/urlpurifier/internal/purifier"
)

func sampleResults() purifier.BatchResult {
	input := strings.Join([]string{
		"https://www.example.co.uk/page?utm_source=x&id=5",
		"",
		"not a url at all",
		"https://www.amazon.com/Some-Product/dp/B08N5WRWNW/ref=sr_1_1?keywords=x",
		"https://example.com/",
	}, "\n")
	return purifier.CleanBatch(input, purifier.ModeConfig{AmazonMode: true})
}

func TestParquetWriter_RoundTrip(t *testing.T) {
	for _, codec := range []string{"zstd", "snappy", "gzip", "none"} {
		t.Run(codec, func(t *testing.T) {
			writer, err := NewParquetWriter(codec, zerolog.Nop())
			require.NoError(t, err)
			fixed := time.UnixMilli(1_700_000_000_000)
			writer.now = func() time.Time { return fixed }

			path := filepath.Join(t.TempDir(), "out", "export.parquet")
			batch := sampleResults()

			res, err := writer.Write(context.Background(), path, "run-1", batch.Results)
			require.NoError(t, err)
			assert.Equal(t, 4, res.RecordsWritten, "blank line skipped")
			assert.Positive(t, res.FileSize)

			records, err := ReadExport(context.Background(), path, zerolog.Nop())
			require.NoError(t, err)
			require.Len(t, records, 4)

			first := records[0]
			assert.Equal(t, "run-1", first.RunID)
			assert.Equal(t, int64(0), first.LineIndex)
			assert.Equal(t, "https://www.example.co.uk/page?id=5", first.CleanedURL)
			require.NotNil(t, first.RegistrableDomain)
			assert.Equal(t, "example.co.uk", *first.RegistrableDomain)
			assert.Equal(t, int32(1), first.ParamsRemoved)
			assert.True(t, first.Changed)
			assert.Nil(t, first.Error)
			assert.Equal(t, fixed.UnixMilli(), first.ExportTimestamp)

			text := records[1]
			assert.Equal(t, int64(2), text.LineIndex)
			assert.Equal(t, "not a url at all", text.CleanedURL)
			assert.Nil(t, text.RegistrableDomain)

			amazon := records[2]
			assert.Equal(t, "https://www.amazon.com/dp/B08N5WRWNW", amazon.CleanedURL)
			assert.True(t, amazon.AmazonNormalized)

			assert.False(t, records[3].Changed)
		})
	}
}

func TestParquetWriter_NeverStoresOriginals(t *testing.T) {
	writer, err := NewParquetWriter("", zerolog.Nop())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "export.parquet")

	_, err = writer.Write(context.Background(), path, "run-2", sampleResults().Results)
	require.NoError(t, err)

	records, err := ReadExport(context.Background(), path, zerolog.Nop())
	require.NoError(t, err)
	for _, r := range records {
		assert.NotContains(t, r.CleanedURL, "utm_source")
		assert.NotContains(t, r.CleanedURL, "ref=sr_1_1")
	}
}

func TestParquetWriter_ErrorLines(t *testing.T) {
	results := []purifier.CleanResult{
		{Cleaned: "http://exa mple.com/", Original: "http://exa mple.com/", Error: purifier.ErrInvalidURLFormat},
	}
	writer, err := NewParquetWriter("zstd", zerolog.Nop())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "export.parquet")

	_, err = writer.Write(context.Background(), path, "run-3", results)
	require.NoError(t, err)

	records, err := ReadExport(context.Background(), path, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].CleanedURL)
	require.NotNil(t, records[0].Error)
	assert.Equal(t, "invalid URL format", *records[0].Error)
}

func TestParquetWriter_Validation(t *testing.T) {
	_, err := NewParquetWriter("lz4", zerolog.Nop())
	assert.True(t, errors.Is(err, errorwrapper.ErrInvalidInput))

	writer, err := NewParquetWriter("zstd", zerolog.Nop())
	require.NoError(t, err)
	_, err = writer.Write(context.Background(), " ", "run", nil)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = writer.Write(ctx, filepath.Join(t.TempDir(), "x.parquet"), "run", nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestReadExport_Missing(t *testing.T) {
	_, err := ReadExport(context.Background(), filepath.Join(t.TempDir(), "none.parquet"), zerolog.Nop())
	assert.True(t, errors.Is(err, errorwrapper.ErrNotFound))
}
