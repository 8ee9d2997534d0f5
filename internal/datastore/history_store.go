package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/aleister1102/urlpurifier/internal/common/errorwrapper"
	"github.com/aleister1102/urlpurifier/internal/purifier"
)

// RunRecord is one row of the run_history table. It holds counts only, never URLs.
type RunRecord struct {
	ID              int64
	RunID           string
	StartedAt       time.Time
	FinishedAt      time.Time
	Source          string
	StrongBlocklist bool
	AmazonMode      bool
	Stats           purifier.BatchStats
	ExportPath      sql.NullString
}

// HistoryStore wraps the SQL database connection and records cleaning runs.
type HistoryStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewHistoryStore initializes a new DB connection and ensures the schema is set up.
func NewHistoryStore(dataSourceName string, logger zerolog.Logger) (*HistoryStore, error) {
	logger = logger.With().Str("component", "HistoryStore").Logger()
	logger.Debug().Str("db_path", dataSourceName).Msg("Initializing history database connection")

	dbDir := filepath.Dir(dataSourceName)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error().Err(err).Str("directory", dbDir).Msg("Failed to create history database directory")
		return nil, fmt.Errorf("failed to create history database directory %s: %w: %w", dbDir, errorwrapper.ErrStorageUnavailable, err)
	}

	dbInstance, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		logger.Error().Err(err).Str("db_path", dataSourceName).Msg("Failed to open history database")
		return nil, fmt.Errorf("sql.Open failed for %s: %w: %w", dataSourceName, errorwrapper.ErrStorageUnavailable, err)
	}
	// One connection so that :memory: databases are shared by every query
	dbInstance.SetMaxOpenConns(1)

	store := &HistoryStore{
		db:     dbInstance,
		logger: logger,
	}

	if err := store.InitSchema(context.Background()); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w: %w", errorwrapper.ErrStorageUnavailable, err)
	}
	logger.Debug().Str("path", dataSourceName).Msg("History database initialized and schema verified")
	return store, nil
}

// Close closes the database connection.
func (s *HistoryStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitSchema creates the run_history table if it doesn't already exist.
func (s *HistoryStore) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS run_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT UNIQUE NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		source TEXT NOT NULL,
		strong_blocklist INTEGER NOT NULL DEFAULT 0,
		amazon_mode INTEGER NOT NULL DEFAULT 0,
		total_urls INTEGER NOT NULL DEFAULT 0,
		total_changed INTEGER NOT NULL DEFAULT 0,
		total_params_removed INTEGER NOT NULL DEFAULT 0,
		total_errors INTEGER NOT NULL DEFAULT 0,
		export_path TEXT
	);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		s.logger.Error().Err(err).Msg("Failed to initialize schema")
		return err
	}
	return nil
}

// RecordRun inserts a completed run and returns its row ID.
func (s *HistoryStore) RecordRun(ctx context.Context, run RunRecord) (int64, error) {
	if run.RunID == "" {
		return 0, errorwrapper.NewValidationError("run_id", run.RunID, "run id cannot be empty")
	}

	query := `INSERT INTO run_history (run_id, started_at, finished_at, source, strong_blocklist, amazon_mode,
		total_urls, total_changed, total_params_removed, total_errors, export_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := s.db.ExecContext(ctx, query,
		run.RunID,
		run.StartedAt.UnixMilli(),
		run.FinishedAt.UnixMilli(),
		run.Source,
		boolToInt(run.StrongBlocklist),
		boolToInt(run.AmazonMode),
		run.Stats.TotalURLs,
		run.Stats.TotalChanged,
		run.Stats.TotalParamsRemoved,
		run.Stats.TotalErrors,
		run.ExportPath,
	)
	if err != nil {
		s.logger.Error().Err(err).Str("run_id", run.RunID).Msg("Failed to record run")
		return 0, fmt.Errorf("failed to insert run record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	s.logger.Debug().Int64("db_id", id).Str("run_id", run.RunID).Msg("Recorded run in history")
	return id, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *HistoryStore) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		return nil, errorwrapper.NewValidationError("limit", limit, "limit must be positive")
	}

	query := `SELECT id, run_id, started_at, finished_at, source, strong_blocklist, amazon_mode,
		total_urls, total_changed, total_params_removed, total_errors, export_path
		FROM run_history ORDER BY started_at DESC, id DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to query run history")
		return nil, fmt.Errorf("failed to query run history: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var (
			run                 RunRecord
			startedMs, finishMs int64
			strong, amazon      int
		)
		if err := rows.Scan(
			&run.ID, &run.RunID, &startedMs, &finishMs, &run.Source, &strong, &amazon,
			&run.Stats.TotalURLs, &run.Stats.TotalChanged, &run.Stats.TotalParamsRemoved, &run.Stats.TotalErrors,
			&run.ExportPath,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run history row: %w", err)
		}
		run.StartedAt = time.UnixMilli(startedMs)
		run.FinishedAt = time.UnixMilli(finishMs)
		run.StrongBlocklist = strong != 0
		run.AmazonMode = amazon != 0
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate run history: %w", err)
	}
	return runs, nil
}

// GetRun looks up a run by its run ID.
func (s *HistoryStore) GetRun(ctx context.Context, runID string) (*RunRecord, error) {
	query := `SELECT id, started_at, finished_at, source, strong_blocklist, amazon_mode,
		total_urls, total_changed, total_params_removed, total_errors, export_path
		FROM run_history WHERE run_id = ?`
	run := RunRecord{RunID: runID}
	var (
		startedMs, finishMs int64
		strong, amazon      int
	)
	err := s.db.QueryRowContext(ctx, query, runID).Scan(
		&run.ID, &startedMs, &finishMs, &run.Source, &strong, &amazon,
		&run.Stats.TotalURLs, &run.Stats.TotalChanged, &run.Stats.TotalParamsRemoved, &run.Stats.TotalErrors,
		&run.ExportPath,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errorwrapper.WrapError(errorwrapper.ErrNotFound, "run "+runID)
		}
		return nil, fmt.Errorf("failed to query run %s: %w", runID, err)
	}
	run.StartedAt = time.UnixMilli(startedMs)
	run.FinishedAt = time.UnixMilli(finishMs)
	run.StrongBlocklist = strong != 0
	run.AmazonMode = amazon != 0
	return &run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
