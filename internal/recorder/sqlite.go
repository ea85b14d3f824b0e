package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/phuslu/log"
	_ "modernc.org/sqlite"

	"github.com/harryrigby/financial-dashboard/internal/model"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id           TEXT PRIMARY KEY,
			timestamp    INTEGER NOT NULL,
			symbol       TEXT NOT NULL,
			period       TEXT NOT NULL,
			duration_ms  INTEGER,
			bars         INTEGER,
			last_close   REAL,
			caption      TEXT,
			issues       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_symbol ON runs(symbol)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun inserts one run. A run with an existing ID replaces it.
func (r *SQLiteRecorder) RecordRun(run *Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	issues, err := json.Marshal(run.Issues)
	if err != nil {
		return fmt.Errorf("encode issues: %w", err)
	}
	var lastClose sql.NullFloat64
	if run.LastClose.Valid {
		lastClose = sql.NullFloat64{Float64: run.LastClose.Value, Valid: true}
	}

	_, err = r.db.Exec(`INSERT OR REPLACE INTO runs
		(id, timestamp, symbol, period, duration_ms, bars, last_close, caption, issues)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		run.ID, run.GeneratedAt.UnixMilli(), run.Symbol, string(run.Period),
		run.Duration.Milliseconds(), run.Bars, lastClose, run.Caption, string(issues),
	)
	return err
}

// Recent returns up to limit runs, newest first.
func (r *SQLiteRecorder) Recent(limit int) ([]Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`SELECT id, timestamp, symbol, period, duration_ms, bars, last_close, caption, issues
		FROM runs ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run       Run
			ts, durMS int64
			period    string
			lastClose sql.NullFloat64
			issues    sql.NullString
		)
		if err := rows.Scan(&run.ID, &ts, &run.Symbol, &period, &durMS, &run.Bars, &lastClose, &run.Caption, &issues); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.GeneratedAt = time.UnixMilli(ts).UTC()
		run.Period = model.Period(period)
		run.Duration = time.Duration(durMS) * time.Millisecond
		if lastClose.Valid {
			run.LastClose = model.Some(lastClose.Float64)
		}
		if issues.Valid && issues.String != "" {
			if err := json.Unmarshal([]byte(issues.String), &run.Issues); err != nil {
				return nil, fmt.Errorf("decode issues for %s: %w", run.ID, err)
			}
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Prune deletes runs generated before the cutoff and returns how many were removed.
func (r *SQLiteRecorder) Prune(before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.Exec(`DELETE FROM runs WHERE timestamp < ?`, before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
