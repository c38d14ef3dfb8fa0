package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"student-etl/internal/etl"
	"student-etl/internal/model"
)

// Runs tracks ETL run lifecycle and rejected-row feedback in sqlite.
type Runs struct {
	db *sql.DB
}

var _ etl.RunStore = (*Runs)(nil)

// OpenRuns opens (and if needed creates) the run-tracking database.
func OpenRuns(dbPath string) (*Runs, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Create tables if not exists
	runTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT,
		status TEXT,
		input_rows INTEGER DEFAULT 0,
		accepted INTEGER DEFAULT 0,
		rejected INTEGER DEFAULT 0,
		duplicates_removed INTEGER DEFAULT 0,
		inserted INTEGER DEFAULT 0,
		updated INTEGER DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	errorTable := `
	CREATE TABLE IF NOT EXISTS run_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		line INTEGER,
		error_message TEXT,
		created_at DATETIME
	);
	`

	if _, err := db.Exec(runTable); err != nil {
		return nil, err
	}
	if _, err := db.Exec(errorTable); err != nil {
		return nil, err
	}

	return &Runs{db: db}, nil
}

// Close releases the underlying database handle.
func (r *Runs) Close() error {
	return r.db.Close()
}

// CreateRun stores a new pending run.
func (r *Runs) CreateRun(runID, source string) error {
	now := time.Now().UTC()
	_, err := r.db.Exec(
		`INSERT INTO runs (id, source, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		runID, source, model.RunPending, now, now)
	return err
}

// UpdateRunStatus updates run status.
func (r *Runs) UpdateRunStatus(runID, status string) error {
	now := time.Now().UTC()
	_, err := r.db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`,
		status, now, runID)
	return err
}

// SaveRunCounts records the transform and load counters for a run.
func (r *Runs) SaveRunCounts(runID string, result model.TransformResult, load *model.LoadStats) error {
	inserted, updated := 0, 0
	if load != nil {
		inserted = load.StudentsInserted
		updated = load.StudentsUpdated
	}

	now := time.Now().UTC()
	_, err := r.db.Exec(`UPDATE runs SET
			input_rows = ?, accepted = ?, rejected = ?, duplicates_removed = ?,
			inserted = ?, updated = ?, updated_at = ?
		WHERE id = ?`,
		result.InputRows, len(result.Accepted), len(result.Rejected),
		result.DuplicatesRemoved, inserted, updated, now, runID)
	return err
}

// SaveRunError records one rejected-row message for a run.
func (r *Runs) SaveRunError(runID string, line int, message string) error {
	now := time.Now().UTC()
	_, err := r.db.Exec(
		`INSERT INTO run_errors (run_id, line, error_message, created_at) VALUES (?, ?, ?, ?)`,
		runID, line, message, now)
	return err
}

// ListRuns returns all runs, newest first.
func (r *Runs) ListRuns() ([]model.Run, error) {
	rows, err := r.db.Query(`SELECT id, source, status, input_rows, accepted, rejected,
			duplicates_removed, inserted, updated, created_at, updated_at
		FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var run model.Run
		if err := rows.Scan(&run.ID, &run.Source, &run.Status, &run.InputRows,
			&run.Accepted, &run.Rejected, &run.DuplicatesRemoved,
			&run.Inserted, &run.Updated, &run.CreatedAt, &run.UpdatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun fetches one run by ID.
func (r *Runs) GetRun(runID string) (model.Run, error) {
	var run model.Run
	err := r.db.QueryRow(`SELECT id, source, status, input_rows, accepted, rejected,
			duplicates_removed, inserted, updated, created_at, updated_at
		FROM runs WHERE id = ?`, runID).
		Scan(&run.ID, &run.Source, &run.Status, &run.InputRows,
			&run.Accepted, &run.Rejected, &run.DuplicatesRemoved,
			&run.Inserted, &run.Updated, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		return model.Run{}, fmt.Errorf("run %s: %w", runID, err)
	}
	return run, nil
}

// GetRunErrors returns the rejected-row messages recorded for a run, in
// insertion order.
func (r *Runs) GetRunErrors(runID string) ([]map[string]interface{}, error) {
	rows, err := r.db.Query(
		`SELECT line, error_message, created_at FROM run_errors WHERE run_id = ? ORDER BY id`,
		runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errs []map[string]interface{}
	for rows.Next() {
		var line int
		var message string
		var createdAt time.Time
		if err := rows.Scan(&line, &message, &createdAt); err != nil {
			return nil, err
		}
		errs = append(errs, map[string]interface{}{
			"line":      line,
			"error":     message,
			"createdAt": createdAt,
		})
	}
	return errs, rows.Err()
}
