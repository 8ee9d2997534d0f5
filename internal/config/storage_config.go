package config

// StorageConfig defines where run history is kept and how exports are compressed
type StorageConfig struct {
	HistoryDBPath    string `json:"history_db_path,omitempty" yaml:"history_db_path,omitempty" validate:"required"`
	HistoryLimit     int    `json:"history_limit,omitempty" yaml:"history_limit,omitempty" validate:"omitempty,min=1"`
	CompressionCodec string `json:"compression_codec,omitempty" yaml:"compression_codec,omitempty" validate:"omitempty,compression"`
}

// NewDefaultStorageConfig creates default storage configuration
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		HistoryDBPath:    DefaultStorageHistoryDBPath,
		HistoryLimit:     DefaultStorageHistoryLimit,
		CompressionCodec: DefaultStorageCompressionCodec,
	}
}
