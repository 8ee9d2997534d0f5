package config

import (
	"time"

	"github.com/aleister1102/urlpurifier/internal/common/batchprocessor"
)

// BatchConfig defines how large inputs are chunked and cleaned concurrently
type BatchConfig struct {
	BatchSize          int `json:"batch_size,omitempty" yaml:"batch_size,omitempty" validate:"omitempty,min=1"`
	MaxConcurrentBatch int `json:"max_concurrent_batch,omitempty" yaml:"max_concurrent_batch,omitempty" validate:"omitempty,min=1,max=64"`
	BatchTimeoutSecs   int `json:"batch_timeout_secs,omitempty" yaml:"batch_timeout_secs,omitempty" validate:"omitempty,min=1"`
	ThresholdSize      int `json:"threshold_size,omitempty" yaml:"threshold_size,omitempty" validate:"omitempty,min=1"`
}

// NewDefaultBatchConfig creates default batch configuration
func NewDefaultBatchConfig() BatchConfig {
	return BatchConfig{
		BatchSize:          DefaultBatchSize,
		MaxConcurrentBatch: DefaultMaxConcurrentBatch,
		BatchTimeoutSecs:   DefaultBatchTimeoutSecs,
		ThresholdSize:      DefaultBatchThresholdSize,
	}
}

// ToBatchProcessorConfig converts BatchConfig to batchprocessor.BatchProcessorConfig
func (bc BatchConfig) ToBatchProcessorConfig() batchprocessor.BatchProcessorConfig {
	return batchprocessor.BatchProcessorConfig{
		BatchSize:          bc.BatchSize,
		MaxConcurrentBatch: bc.GetEffectiveMaxConcurrentBatch(),
		BatchTimeout:       time.Duration(bc.BatchTimeoutSecs) * time.Second,
		ThresholdSize:      bc.ThresholdSize,
	}
}

// GetEffectiveMaxConcurrentBatch returns the effective MaxConcurrentBatch value
func (bc BatchConfig) GetEffectiveMaxConcurrentBatch() int {
	if bc.MaxConcurrentBatch <= 0 {
		return 1
	}
	return bc.MaxConcurrentBatch
}
