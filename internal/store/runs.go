package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// InsertRun records a run with its hits and file errors in one transaction.
func (db *DB) InsertRun(run *Run, hits []Hit, fileErrors []FileError) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
		INSERT INTO runs (id, archive, query, started_at, elapsed_ms, files_scanned, file_errors, result_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Archive, run.Query, run.StartedAt, run.ElapsedMS, run.FilesScanned, run.FileErrors, run.ResultCount); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, h := range hits {
		if _, err := tx.Exec(`
			INSERT INTO hits (run_id, seq, display_name, snippet, path, variant)
			VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, i, h.DisplayName, h.Snippet, h.Path, h.Variant); err != nil {
			return fmt.Errorf("insert hit %d: %w", i, err)
		}
	}

	for _, fe := range fileErrors {
		if _, err := tx.Exec(`
			INSERT INTO run_file_errors (run_id, path, message) VALUES (?, ?, ?)`,
			run.ID, fe.Path, fe.Message); err != nil {
			return fmt.Errorf("insert file error: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

const runColumns = `id, archive, query, started_at, elapsed_ms, files_scanned, file_errors, result_count`

func scanRun(row interface{ Scan(...any) error }) (*Run, error) {
	var r Run
	if err := row.Scan(&r.ID, &r.Archive, &r.Query, &r.StartedAt, &r.ElapsedMS, &r.FilesScanned, &r.FileErrors, &r.ResultCount); err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRuns returns the most recent runs first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// GetRun returns a run by id, or nil if it does not exist.
func (db *DB) GetRun(id string) (*Run, error) {
	r, err := scanRun(db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return r, err
}

// FindRun resolves a full id or a unique id prefix.
func (db *DB) FindRun(prefix string) (*Run, error) {
	rows, err := db.Query(`SELECT `+runColumns+` FROM runs WHERE id LIKE ? || '%' LIMIT 2`, prefix)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var found []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("run id prefix %q is ambiguous", prefix)
	}
}

// ListHits returns the hits of a run in result order.
func (db *DB) ListHits(runID string) ([]Hit, error) {
	rows, err := db.Query(`
		SELECT run_id, seq, display_name, snippet, path, variant
		FROM hits WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var hits []Hit
	for rows.Next() {
		var h Hit
		if err := rows.Scan(&h.RunID, &h.Seq, &h.DisplayName, &h.Snippet, &h.Path, &h.Variant); err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// ListFileErrors returns the files a run could not read.
func (db *DB) ListFileErrors(runID string) ([]FileError, error) {
	rows, err := db.Query(`SELECT run_id, path, message FROM run_file_errors WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []FileError
	for rows.Next() {
		var fe FileError
		if err := rows.Scan(&fe.RunID, &fe.Path, &fe.Message); err != nil {
			return nil, err
		}
		out = append(out, fe)
	}
	return out, rows.Err()
}

// PruneRuns deletes all but the newest keep runs. Returns the number deleted.
func (db *DB) PruneRuns(keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := db.Exec(`
		DELETE FROM runs WHERE id NOT IN (
			SELECT id FROM runs ORDER BY started_at DESC, id LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}
