package purifier

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/urlpurifier/internal/common/batchprocessor"
)

// Purifier binds a mode configuration to a logger and a batch processor so
// large inputs can be cleaned in concurrent chunks.
type Purifier struct {
	cfg       ModeConfig
	processor *batchprocessor.BatchProcessor
	logger    zerolog.Logger
}

// New creates a Purifier.
func New(cfg ModeConfig, batchCfg batchprocessor.BatchProcessorConfig, logger zerolog.Logger) *Purifier {
	logger = logger.With().Str("component", "Purifier").Logger()
	return &Purifier{
		cfg:       cfg,
		processor: batchprocessor.NewBatchProcessor(batchCfg, logger),
		logger:    logger,
	}
}

// Config returns the mode configuration in use.
func (p *Purifier) Config() ModeConfig { return p.cfg }

// CleanOne cleans a single line.
func (p *Purifier) CleanOne(raw string) CleanResult {
	return CleanOne(raw, p.cfg)
}

// CleanBatch cleans multi-line text. The result is the same as
// CleanBatch(text, cfg); only the scheduling differs.
func (p *Purifier) CleanBatch(ctx context.Context, text string, onProgress batchprocessor.ProgressFunc) (BatchResult, error) {
	return p.CleanLines(ctx, SplitLines(text), onProgress)
}

// CleanLines cleans lines, splitting them into concurrently processed
// chunks once the input is large enough. Results stay in input order. On
// cancellation the partial result is discarded and the context error is
// returned.
func (p *Purifier) CleanLines(ctx context.Context, lines []string, onProgress batchprocessor.ProgressFunc) (BatchResult, error) {
	start := time.Now()
	results := make([]CleanResult, len(lines))

	batchResults, err := p.processor.ProcessBatches(ctx, lines,
		func(batchCtx context.Context, batch []string, _ int, offset int) error {
			for i, line := range batch {
				if i%256 == 0 {
					if err := batchCtx.Err(); err != nil {
						return err
					}
				}
				results[offset+i] = CleanOne(line, p.cfg)
			}
			return nil
		},
		onProgress,
	)
	if err != nil {
		p.logger.Warn().Err(err).Int("lines", len(lines)).Msg("Batch cleaning interrupted")
		return BatchResult{}, err
	}
	for _, r := range batchResults {
		if !r.Success {
			p.logger.Warn().Err(r.Error).Int("batch_index", r.BatchIndex).Msg("Batch cleaning failed")
			return BatchResult{}, r.Error
		}
	}

	batch := BatchResult{Results: results, Stats: Summarize(results)}
	batches, _ := p.processor.GetBatchingStats(len(lines))
	p.logger.Debug().
		Int("lines", len(lines)).
		Int("batches", batches).
		Int("total_urls", batch.Stats.TotalURLs).
		Int("total_changed", batch.Stats.TotalChanged).
		Int("total_params_removed", batch.Stats.TotalParamsRemoved).
		Int("total_errors", batch.Stats.TotalErrors).
		Dur("duration", time.Since(start)).
		Msg("Batch cleaned")
	return batch, nil
}
