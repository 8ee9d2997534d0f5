package logger

import (
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/aleister1102/urlpurifier/internal/config"
)

// Logger represents the main logger with configuration
type Logger struct {
	zerolog zerolog.Logger
	config  LoggerConfig
	closers []io.Closer
}

// GetZerolog returns the underlying zerolog instance
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zerolog
}

// GetConfig returns the resolved configuration
func (l *Logger) GetConfig() LoggerConfig {
	return l.config
}

// Close releases any log files
func (l *Logger) Close() error {
	var errs []error
	for _, c := range l.closers {
		errs = append(errs, c.Close())
	}
	l.closers = nil
	return errors.Join(errs...)
}

// New creates a new logger instance from the application log config
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	logger, err := NewLoggerBuilder().WithConfig(cfg).Build()
	if err != nil {
		return zerolog.Logger{}, err
	}
	return *logger.GetZerolog(), nil
}

// NewWithRunID creates a logger that tags records with runID and writes files under runs/<runID>/
func NewWithRunID(cfg config.LogConfig, runID string) (*Logger, error) {
	return NewLoggerBuilder().
		WithConfig(cfg).
		WithRunID(runID).
		Build()
}
