package purifier

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/urlpurifier/internal/common/batchprocessor"
)

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{""}, SplitLines(""))
	assert.Equal(t, []string{"", ""}, SplitLines("\n"))
	assert.Equal(t, []string{"a", "b", "", "c"}, SplitLines("a\r\nb\n\nc"))
	assert.Equal(t, []string{"a\r"}, SplitLines("a\r"))
}

func TestCleanBatch(t *testing.T) {
	input := "https://a.com/?utm_source=1\n\nnot a url\r\nhttps://exa mple.com\nb.com/x/"

	got := CleanBatch(input, defaultMode)

	require.Len(t, got.Results, 5)
	assert.True(t, got.Results[1].IsBlank())
	assert.Equal(t, BatchStats{
		TotalURLs:          4,
		TotalChanged:       2,
		TotalParamsRemoved: 1,
		TotalErrors:        1,
	}, got.Stats)
	assert.Equal(t, "https://a.com/\n\nnot a url\nhttps://exa mple.com\nhttps://b.com/x", got.Output())

	changed := got.ChangedResults()
	require.Len(t, changed, 2)
	assert.Equal(t, "https://b.com/x", changed[1].Cleaned)
}

func TestCleanBatch_PreservesLineCount(t *testing.T) {
	inputs := []string{
		"",
		"\n",
		"\n\n\n",
		"a.com",
		"a.com\r\n\r\nb.com\r\n",
		"https://www.amazon.com/dp/B000000000?tag=x\n   \nhello world\n",
	}
	for _, input := range inputs {
		for _, cfg := range []ModeConfig{defaultMode, allModes} {
			got := CleanBatch(input, cfg)
			assert.Len(t, got.Results, len(SplitLines(input)), "input %q", input)
			assert.Equal(t, len(SplitLines(input)), strings.Count(got.Output(), "\n")+1, "input %q", input)
		}
	}
}

func TestCleanBatch_BlankLinesExcludedFromTotal(t *testing.T) {
	got := CleanBatch("\n  \nexample.com\n\t\n", defaultMode)

	assert.Equal(t, 1, got.Stats.TotalURLs)
	assert.Equal(t, "\n\nhttps://example.com/\n\n", got.Output())
}

func mixedInput(n int) string {
	samples := []string{
		"https://example.com/page?utm_source=x&id=%d",
		"",
		"https://www.amazon.com/gp/product/B00000000%d?ref=x",
		"not a url %d",
		"https://exa mple.com/%d",
		"site%d.example.org/path/?fbclid=1",
	}
	lines := make([]string, n)
	for i := range lines {
		sample := samples[i%len(samples)]
		if strings.Contains(sample, "%d") {
			lines[i] = fmt.Sprintf(sample, i%10)
		} else {
			lines[i] = sample
		}
	}
	return strings.Join(lines, "\n")
}

func TestPurifier_CleanBatchMatchesSequential(t *testing.T) {
	input := mixedInput(503)
	cfg := allModes
	p := New(cfg, batchprocessor.BatchProcessorConfig{
		BatchSize:          7,
		MaxConcurrentBatch: 4,
		ThresholdSize:      10,
	}, zerolog.Nop())

	var processed atomic.Int64
	got, err := p.CleanBatch(context.Background(), input, func(n int) {
		processed.Add(int64(n))
	})
	require.NoError(t, err)
	assert.Equal(t, int64(503), processed.Load())

	want := CleanBatch(input, cfg)
	assert.Equal(t, want, got)
	assert.Equal(t, cfg, p.Config())
}

func TestPurifier_LogsBatchCount(t *testing.T) {
	var buf bytes.Buffer
	p := New(defaultMode, batchprocessor.BatchProcessorConfig{
		BatchSize:          7,
		MaxConcurrentBatch: 2,
		ThresholdSize:      10,
	}, zerolog.New(&buf))

	_, err := p.CleanBatch(context.Background(), mixedInput(503), nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"batches":72`)

	buf.Reset()
	_, err = p.CleanBatch(context.Background(), mixedInput(5), nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"batches":1`)
}

func TestPurifier_CleanOne(t *testing.T) {
	p := New(amazonMode, batchprocessor.DefaultBatchProcessorConfig(), zerolog.Nop())

	got := p.CleanOne("https://www.amazon.co.jp/gp/product/B000000000/ref=abc?pf_rd_m=1")
	assert.Equal(t, "https://www.amazon.co.jp/dp/B000000000", got.Cleaned)
}

func TestPurifier_CleanBatchCancelled(t *testing.T) {
	p := New(defaultMode, batchprocessor.BatchProcessorConfig{
		BatchSize:          5,
		MaxConcurrentBatch: 2,
		ThresholdSize:      1,
	}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.CleanBatch(ctx, mixedInput(50), nil)
	assert.ErrorIs(t, err, context.Canceled)
}
