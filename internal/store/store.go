// Package store persists completed sweep runs to sqlite so past experiments
// stay queryable after the batch process exits.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/efficiency.report/internal/config"
	"github.com/banshee-data/efficiency.report/internal/sweep"
)

type DB struct {
	*sql.DB
}

// Open opens (or creates) the sweep database at path and ensures the
// schema exists.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sweep_runs (
			run_id            TEXT PRIMARY KEY,
			exploration_type  TEXT,
			factor_mode       BOOLEAN,
			levels            BIGINT,
			completed         BIGINT,
			skipped           BIGINT,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS sweep_entries (
			run_id            TEXT,
			level_index       BIGINT,
			factor_value      DOUBLE,
			efficiency        DOUBLE,
			avg_output_power  DOUBLE,
			max_output_power  DOUBLE,
			data_status       TEXT,
			FOREIGN KEY(run_id) REFERENCES sweep_runs(run_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

// Run is one recorded batch.
type Run struct {
	RunID           string
	ExplorationType config.ExplorationType
	FactorMode      bool
	Levels          int
	Completed       int
	Skipped         int
	Timestamp       time.Time
}

// EntryRecord is one stored experiment level.
type EntryRecord struct {
	RunID          string
	LevelIndex     int
	FactorValue    float64
	Efficiency     float64
	AvgOutputPower float64
	MaxOutputPower float64
	DataStatus     string
}

// RecordRun stores a completed batch and its entries in one transaction and
// returns the generated run ID.
func (db *DB) RecordRun(r *sweep.Runner) (string, error) {
	runID := uuid.NewString()
	cfg := r.Config()

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO sweep_runs (run_id, exploration_type, factor_mode, levels, completed, skipped)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, string(cfg.ExplorationType), cfg.FactorMode,
		cfg.Levels(), len(r.Entries()), r.Skipped(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record sweep run: %w", err)
	}

	for _, e := range r.Entries() {
		_, err = tx.Exec(
			`INSERT INTO sweep_entries (run_id, level_index, factor_value, efficiency,
				avg_output_power, max_output_power, data_status)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, e.Index, e.FactorValue, e.Efficiency,
			e.AvgOutputPower, e.MaxOutputPower, e.DataStatus.String(),
		)
		if err != nil {
			return "", fmt.Errorf("failed to record entry %d: %w", e.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit sweep run: %w", err)
	}
	return runID, nil
}

// RecentRuns returns the most recent limit runs, newest first.
func (db *DB) RecentRuns(limit int) ([]Run, error) {
	rows, err := db.Query(
		`SELECT run_id, exploration_type, factor_mode, levels, completed, skipped, timestamp
		 FROM sweep_runs ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sweep runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var et string
		if err := rows.Scan(&r.RunID, &et, &r.FactorMode, &r.Levels, &r.Completed, &r.Skipped, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan sweep run: %w", err)
		}
		r.ExplorationType = config.ExplorationType(et)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunEntries returns a run's stored levels in level order.
func (db *DB) RunEntries(runID string) ([]EntryRecord, error) {
	rows, err := db.Query(
		`SELECT run_id, level_index, factor_value, efficiency,
			avg_output_power, max_output_power, data_status
		 FROM sweep_entries WHERE run_id = ? ORDER BY level_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sweep entries: %w", err)
	}
	defer rows.Close()

	var entries []EntryRecord
	for rows.Next() {
		var e EntryRecord
		if err := rows.Scan(&e.RunID, &e.LevelIndex, &e.FactorValue, &e.Efficiency,
			&e.AvgOutputPower, &e.MaxOutputPower, &e.DataStatus); err != nil {
			return nil, fmt.Errorf("failed to scan sweep entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
