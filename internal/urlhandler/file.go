package urlhandler

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Custom errors for file operations
var (
	ErrFileNotFound   = errors.New("input file not found")
	ErrFilePermission = errors.New("permission denied reading input file")
	ErrFileTooLarge   = errors.New("input file exceeds size limit")
	ErrReadingFile    = errors.New("error reading input file")
)

// MaxInputFileSize bounds how much text ReadInputFile loads into memory.
const MaxInputFileSize int64 = 64 * 1024 * 1024

// ReadInputFile returns the full text of a file of URLs. Line structure,
// blank lines included, is left untouched so batch output can mirror it.
func ReadInputFile(filePath string, logger zerolog.Logger) (string, error) {
	fileLogger := logger.With().Str("filePath", filePath).Logger()

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		fileLogger.Error().Err(err).Msg("Input file not found")
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
	}
	if err != nil {
		fileLogger.Error().Err(err).Msg("Error checking file stat")
		return "", fmt.Errorf("error checking file %s: %w", filePath, err)
	}
	if info.IsDir() {
		fileLogger.Error().Msg("Input path is a directory, not a file")
		return "", fmt.Errorf("input path is a directory, not a file: %s", filePath)
	}
	if info.Size() > MaxInputFileSize {
		fileLogger.Error().Int64("size", info.Size()).Msg("Input file too large")
		return "", fmt.Errorf("%w: %s (%d bytes)", ErrFileTooLarge, filePath, info.Size())
	}

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsPermission(err) {
			fileLogger.Error().Err(err).Msg("Permission denied reading input file")
			return "", fmt.Errorf("%w: %s", ErrFilePermission, filePath)
		}
		fileLogger.Error().Err(err).Msg("Error opening input file")
		return "", fmt.Errorf("%w: %s (cause: %v)", ErrReadingFile, filePath, err)
	}
	defer file.Close()

	return ReadInput(file, fileLogger)
}

// ReadInput reads all text from r, up to MaxInputFileSize.
func ReadInput(r io.Reader, logger zerolog.Logger) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputFileSize+1))
	if err != nil {
		logger.Error().Err(err).Msg("Error reading input")
		return "", fmt.Errorf("%w: %v", ErrReadingFile, err)
	}
	if int64(len(data)) > MaxInputFileSize {
		return "", ErrFileTooLarge
	}
	logger.Debug().Int("bytes", len(data)).Msg("Read input")
	return string(data), nil
}
