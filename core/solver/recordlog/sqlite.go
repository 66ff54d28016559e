package recordlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists entries to a SQLite database. Parcel ids are indexed
// in a side table so parcel queries do not decode every record.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS solve_records (
    id TEXT PRIMARY KEY,
    ts INTEGER,
    solver TEXT,
    record TEXT
);
CREATE INDEX IF NOT EXISTS solve_records_ts ON solve_records (ts);
CREATE TABLE IF NOT EXISTS solve_record_parcels (
    record_id TEXT,
    parcel_id TEXT,
    PRIMARY KEY (record_id, parcel_id)
);`

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Append writes the entry and its parcel index in one transaction.
func (s *SQLiteStore) Append(ctx context.Context, e Entry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO solve_records (id, ts, solver, record) VALUES (?, ?, ?, ?)`,
		e.ID.String(), e.Timestamp.UnixNano(), e.Solver, string(b)); err != nil {
		return err
	}
	for _, p := range e.Input.Parcels {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO solve_record_parcels (record_id, parcel_id) VALUES (?, ?)`,
			e.ID.String(), p.ID.String()); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Query returns entries matching q ordered by time.
func (s *SQLiteStore) Query(ctx context.Context, q Query) ([]Entry, error) {
	var args []any
	query := `SELECT record FROM solve_records WHERE 1=1`
	if !q.Start.IsZero() {
		query += ` AND ts >= ?`
		args = append(args, q.Start.UnixNano())
	}
	if !q.End.IsZero() {
		query += ` AND ts <= ?`
		args = append(args, q.End.UnixNano())
	}
	if q.Solver != "" {
		query += ` AND solver = ?`
		args = append(args, q.Solver)
	}
	if q.ParcelID != uuid.Nil {
		query += ` AND id IN (SELECT record_id FROM solve_record_parcels WHERE parcel_id = ?)`
		args = append(args, q.ParcelID.String())
	}
	query += ` ORDER BY ts`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []Entry
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var e Entry
		if err := json.Unmarshal([]byte(data), &e); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		res = append(res, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
