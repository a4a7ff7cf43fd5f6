package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Assignment is the membership of one document in one split of one fold.
type Assignment struct {
	Fold  string
	Index int
	DocID string
	Split string
}

const assignmentSchema = `
CREATE TABLE IF NOT EXISTS fold_assignments (
	run    TEXT    NOT NULL,
	fold   TEXT    NOT NULL,
	idx    INTEGER NOT NULL,
	doc_id TEXT    NOT NULL,
	split  TEXT    NOT NULL,
	PRIMARY KEY (run, fold, idx)
)`

// OpenSQLite opens (creating if needed) a SQLite database file.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return db, nil
}

// SQLiteStore keeps fold assignments in a SQLite database so that folds
// can be inspected with SQL.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore ensures the schema exists in db.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("storage: db is nil")
	}
	if _, err := db.ExecContext(ctx, assignmentSchema); err != nil {
		return nil, fmt.Errorf("create fold_assignments: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// SaveAssignments replaces the assignments of run in one transaction.
func (s *SQLiteStore) SaveAssignments(ctx context.Context, run string, assignments []Assignment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM fold_assignments WHERE run = ?`, run); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO fold_assignments(run, fold, idx, doc_id, split) VALUES(?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, a := range assignments {
		if _, err := stmt.ExecContext(ctx, run, a.Fold, a.Index, a.DocID, a.Split); err != nil {
			return fmt.Errorf("insert %s/%d: %w", a.Fold, a.Index, err)
		}
	}
	return tx.Commit()
}

// Assignments returns the assignments of run ordered by fold and index.
func (s *SQLiteStore) Assignments(ctx context.Context, run string) ([]Assignment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT fold, idx, doc_id, split FROM fold_assignments WHERE run = ? ORDER BY fold, idx`, run)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.Fold, &a.Index, &a.DocID, &a.Split); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
