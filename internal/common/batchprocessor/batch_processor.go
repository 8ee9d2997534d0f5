package batchprocessor

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// BatchProcessorConfig holds configuration for batch processing
type BatchProcessorConfig struct {
	BatchSize          int           // Max items per batch (default: 1000)
	MaxConcurrentBatch int           // Max concurrent batches (default: 4, 1 means sequential)
	BatchTimeout       time.Duration // Timeout per batch (default: 1 minute)
	ThresholdSize      int           // Minimum size to trigger batching (default: 5000)
}

// DefaultBatchProcessorConfig returns default configuration
func DefaultBatchProcessorConfig() BatchProcessorConfig {
	return BatchProcessorConfig{
		BatchSize:          1000,
		MaxConcurrentBatch: 4,
		BatchTimeout:       time.Minute,
		ThresholdSize:      5000,
	}
}

// BatchResult holds the result of a batch processing
type BatchResult struct {
	BatchIndex int
	Offset     int
	Success    bool
	Error      error
	Processed  int
	Timestamp  time.Time
}

// BatchProcessor handles splitting large inputs into smaller batches
type BatchProcessor struct {
	config BatchProcessorConfig
	logger zerolog.Logger
}

// NewBatchProcessor creates a new batch processor. Non-positive settings
// fall back to the defaults.
func NewBatchProcessor(config BatchProcessorConfig, logger zerolog.Logger) *BatchProcessor {
	defaults := DefaultBatchProcessorConfig()
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	if config.MaxConcurrentBatch <= 0 {
		config.MaxConcurrentBatch = 1
	}
	if config.BatchTimeout <= 0 {
		config.BatchTimeout = defaults.BatchTimeout
	}
	return &BatchProcessor{
		config: config,
		logger: logger.With().Str("component", "BatchProcessor").Logger(),
	}
}

// ProcessFunc processes one batch. offset is the index of batch[0] in the
// full input, so results can be written back in input order.
type ProcessFunc func(ctx context.Context, batch []string, batchIndex int, offset int) error

// ProgressFunc is called once per finished batch with the number of items
// it held. It may be called from several goroutines.
type ProgressFunc func(processed int)

// ShouldUseBatching determines if batching should be used based on input size
func (bp *BatchProcessor) ShouldUseBatching(inputSize int) bool {
	return bp.config.ThresholdSize > 0 && inputSize >= bp.config.ThresholdSize
}

// SplitIntoBatches splits a slice of strings into batches. The batches
// share the backing array of input.
func (bp *BatchProcessor) SplitIntoBatches(input []string) [][]string {
	if len(input) <= bp.config.BatchSize {
		return [][]string{input}
	}

	var batches [][]string
	for i := 0; i < len(input); i += bp.config.BatchSize {
		end := min(i+bp.config.BatchSize, len(input))
		batches = append(batches, input[i:end])
	}

	return batches
}

// ProcessBatches processes all batches sequentially or concurrently based on config
func (bp *BatchProcessor) ProcessBatches(
	ctx context.Context,
	input []string,
	processFunc ProcessFunc,
	onProgress ProgressFunc,
) ([]BatchResult, error) {
	if !bp.ShouldUseBatching(len(input)) {
		bp.logger.Debug().
			Int("input_size", len(input)).
			Int("threshold", bp.config.ThresholdSize).
			Msg("Input size below threshold, processing as single batch")

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		err := processFunc(ctx, input, 0, 0)
		notify(onProgress, len(input))
		result := BatchResult{
			BatchIndex: 0,
			Success:    err == nil,
			Error:      err,
			Processed:  len(input),
			Timestamp:  time.Now(),
		}
		return []BatchResult{result}, err
	}

	batches := bp.SplitIntoBatches(input)
	bp.logger.Info().
		Int("total_items", len(input)).
		Int("batch_count", len(batches)).
		Int("batch_size", bp.config.BatchSize).
		Int("max_concurrent", bp.config.MaxConcurrentBatch).
		Msg("Starting batch processing")

	if bp.config.MaxConcurrentBatch == 1 {
		return bp.processSequentially(ctx, batches, processFunc, onProgress)
	}

	return bp.processConcurrently(ctx, batches, processFunc, onProgress)
}

// processSequentially processes batches one by one
func (bp *BatchProcessor) processSequentially(
	ctx context.Context,
	batches [][]string,
	processFunc ProcessFunc,
	onProgress ProgressFunc,
) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(batches))

	for i, batch := range batches {
		select {
		case <-ctx.Done():
			bp.logger.Info().
				Int("completed_batches", i).
				Int("total_batches", len(batches)).
				Msg("Batch processing interrupted by context cancellation")
			return results, ctx.Err()
		default:
		}

		results = append(results, bp.runBatch(ctx, batch, i, i*bp.config.BatchSize, processFunc))
		notify(onProgress, len(batch))
	}

	return results, nil
}

// processConcurrently processes batches concurrently with limit
func (bp *BatchProcessor) processConcurrently(
	ctx context.Context,
	batches [][]string,
	processFunc ProcessFunc,
	onProgress ProgressFunc,
) ([]BatchResult, error) {
	semaphore := make(chan struct{}, bp.config.MaxConcurrentBatch)
	results := make([]BatchResult, len(batches))
	var wg sync.WaitGroup

	started := 0
	var cancelErr error
loop:
	for i, batch := range batches {
		if cancelErr = ctx.Err(); cancelErr == nil {
			select {
			case <-ctx.Done():
				cancelErr = ctx.Err()
			case semaphore <- struct{}{}:
			}
		}
		if cancelErr != nil {
			bp.logger.Info().
				Int("started_batches", i).
				Int("total_batches", len(batches)).
				Msg("Batch processing interrupted by context cancellation")
			break loop
		}

		started++
		wg.Add(1)
		go func(batchIndex int, batchData []string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			// Each goroutine owns results[batchIndex].
			results[batchIndex] = bp.runBatch(ctx, batchData, batchIndex, batchIndex*bp.config.BatchSize, processFunc)
			notify(onProgress, len(batchData))
		}(i, batch)
	}

	wg.Wait()
	return results[:started], cancelErr
}

func (bp *BatchProcessor) runBatch(ctx context.Context, batch []string, batchIndex, offset int, processFunc ProcessFunc) BatchResult {
	batchCtx, cancel := context.WithTimeout(ctx, bp.config.BatchTimeout)
	defer cancel()

	start := time.Now()
	err := processFunc(batchCtx, batch, batchIndex, offset)
	duration := time.Since(start)

	bp.logger.Debug().
		Int("batch_index", batchIndex).
		Bool("success", err == nil).
		Dur("duration", duration).
		Int("processed", len(batch)).
		Msg("Batch processing completed")

	if err != nil {
		bp.logger.Error().
			Err(err).
			Int("batch_index", batchIndex).
			Msg("Batch processing failed")
	}

	return BatchResult{
		BatchIndex: batchIndex,
		Offset:     offset,
		Success:    err == nil,
		Error:      err,
		Processed:  len(batch),
		Timestamp:  time.Now(),
	}
}

func notify(onProgress ProgressFunc, processed int) {
	if onProgress != nil {
		onProgress(processed)
	}
}

// GetBatchingStats returns statistics about batch processing
func (bp *BatchProcessor) GetBatchingStats(inputSize int) (batches int, remainingItems int) {
	if !bp.ShouldUseBatching(inputSize) {
		return 1, 0
	}

	batches = (inputSize + bp.config.BatchSize - 1) / bp.config.BatchSize
	remainingItems = inputSize % bp.config.BatchSize
	if remainingItems == 0 && inputSize > 0 {
		remainingItems = bp.config.BatchSize
	}

	return batches, remainingItems
}
