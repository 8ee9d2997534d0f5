package config

const (
	// Mode Defaults
	DefaultStrongBlocklist = false
	DefaultAmazonMode      = false

	// Storage Defaults
	DefaultStorageHistoryDBPath    = "data/history.db"
	DefaultStorageCompressionCodec = "zstd"
	DefaultStorageHistoryLimit     = 20

	// Log Defaults
	DefaultLogLevel      = "warn"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// Batch Defaults
	DefaultBatchSize          = 1000
	DefaultMaxConcurrentBatch = 4
	DefaultBatchTimeoutSecs   = 60
	DefaultBatchThresholdSize = 5000

	// ConfigPathEnv overrides the config file search.
	ConfigPathEnv = "URLPURIFIER_CONFIG_PATH"
)
