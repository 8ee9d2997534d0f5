package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/urlpurifier/internal/common/errorwrapper"
)

func TestNewDefaultGlobalConfig(t *testing.T) {
	cfg := NewDefaultGlobalConfig()

	require.NotNil(t, cfg)
	assert.False(t, cfg.ModeConfig.StrongBlocklist)
	assert.False(t, cfg.ModeConfig.AmazonMode)
	assert.Equal(t, DefaultLogLevel, cfg.LogConfig.LogLevel)
	assert.Equal(t, DefaultBatchSize, cfg.BatchConfig.BatchSize)
	assert.Equal(t, DefaultStorageHistoryDBPath, cfg.StorageConfig.HistoryDBPath)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadGlobalConfig_NoConfigFile(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")
	chdir(t, t.TempDir())

	cfg, err := LoadGlobalConfig("")

	require.NoError(t, err)
	assert.Equal(t, NewDefaultGlobalConfig(), cfg)
}

func TestLoadGlobalConfig_NonExistentFile(t *testing.T) {
	cfg, err := LoadGlobalConfig("/nonexistent/config.json")

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config file does not exist")
	assert.True(t, errors.Is(err, errorwrapper.ErrInvalidInput))
}

func TestLoadGlobalConfig_JSONFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.json")
	configData := `{
		"mode_config": {"strong_blocklist": true},
		"log_config": {"log_level": "debug"},
		"batch_config": {"batch_size": 250}
	}`
	require.NoError(t, os.WriteFile(configFile, []byte(configData), 0644))

	cfg, err := LoadGlobalConfig(configFile)

	require.NoError(t, err)
	assert.True(t, cfg.ModeConfig.StrongBlocklist)
	assert.False(t, cfg.ModeConfig.AmazonMode)
	assert.Equal(t, "debug", cfg.LogConfig.LogLevel)
	assert.Equal(t, 250, cfg.BatchConfig.BatchSize)
	// Untouched sections keep their defaults
	assert.Equal(t, DefaultMaxConcurrentBatch, cfg.BatchConfig.MaxConcurrentBatch)
	assert.Equal(t, DefaultStorageCompressionCodec, cfg.StorageConfig.CompressionCodec)
}

func TestLoadGlobalConfig_YAMLFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	configData := `
mode_config:
  amazon_mode: true
log_config:
  log_format: json
storage_config:
  history_db_path: /tmp/purifier.db
  compression_codec: snappy
`
	require.NoError(t, os.WriteFile(configFile, []byte(configData), 0644))

	cfg, err := LoadGlobalConfig(configFile)

	require.NoError(t, err)
	assert.True(t, cfg.ModeConfig.AmazonMode)
	assert.Equal(t, "json", cfg.LogConfig.LogFormat)
	assert.Equal(t, "/tmp/purifier.db", cfg.StorageConfig.HistoryDBPath)
	assert.Equal(t, "snappy", cfg.StorageConfig.CompressionCodec)
}

func TestLoadGlobalConfig_InvalidContent(t *testing.T) {
	dir := t.TempDir()

	jsonFile := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte("{not json"), 0644))
	_, err := LoadGlobalConfig(jsonFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal JSON")

	yamlFile := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(yamlFile, []byte("log_config: [unterminated"), 0644))
	_, err = LoadGlobalConfig(yamlFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal YAML")
}

func TestGetConfigPath(t *testing.T) {
	dir := t.TempDir()
	flagFile := filepath.Join(dir, "flag.yaml")
	envFile := filepath.Join(dir, "env.yaml")
	require.NoError(t, os.WriteFile(flagFile, []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(envFile, []byte("{}"), 0644))

	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(ConfigPathEnv, envFile)
		assert.Equal(t, flagFile, GetConfigPath(flagFile))
	})

	t.Run("env used when flag missing", func(t *testing.T) {
		t.Setenv(ConfigPathEnv, envFile)
		assert.Equal(t, envFile, GetConfigPath(""))
	})

	t.Run("cwd config.yaml", func(t *testing.T) {
		t.Setenv(ConfigPathEnv, "")
		cwd := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(cwd, "config.yaml"), []byte("{}"), 0644))
		chdir(t, cwd)
		assert.Equal(t, "config.yaml", filepath.Base(GetConfigPath("")))
	})
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *GlobalConfig)
		wantErr string
	}{
		{
			name:   "defaults",
			mutate: func(cfg *GlobalConfig) {},
		},
		{
			name:    "bad log level",
			mutate:  func(cfg *GlobalConfig) { cfg.LogConfig.LogLevel = "loud" },
			wantErr: "LogConfig.LogLevel",
		},
		{
			name:    "bad log format",
			mutate:  func(cfg *GlobalConfig) { cfg.LogConfig.LogFormat = "xml" },
			wantErr: "rule 'logformat'",
		},
		{
			name:    "bad codec",
			mutate:  func(cfg *GlobalConfig) { cfg.StorageConfig.CompressionCodec = "lz4" },
			wantErr: "StorageConfig.CompressionCodec",
		},
		{
			name:    "missing history path",
			mutate:  func(cfg *GlobalConfig) { cfg.StorageConfig.HistoryDBPath = "" },
			wantErr: "rule 'required'",
		},
		{
			name:    "too much concurrency",
			mutate:  func(cfg *GlobalConfig) { cfg.BatchConfig.MaxConcurrentBatch = 65 },
			wantErr: "(expected: 64)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultGlobalConfig()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBatchConfig_ToBatchProcessorConfig(t *testing.T) {
	bc := BatchConfig{BatchSize: 10, MaxConcurrentBatch: 0, BatchTimeoutSecs: 5, ThresholdSize: 20}
	pc := bc.ToBatchProcessorConfig()

	assert.Equal(t, 10, pc.BatchSize)
	assert.Equal(t, 1, pc.MaxConcurrentBatch)
	assert.Equal(t, 5*time.Second, pc.BatchTimeout)
	assert.Equal(t, 20, pc.ThresholdSize)
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
