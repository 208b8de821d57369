// Package archive is the durable record of completed cases. The chat flow
// keeps sessions in memory; only a finished intake, with its analysis and
// rendered report, is written here.
package archive

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("case not found")

// Record is one archived case.
type Record struct {
	CaseID      string
	CaseType    string
	Language    string
	ClientName  string
	Data        map[string]any
	Analysis    string
	Report      string
	CompletedAt time.Time
}

// Summary is the listing view: everything but the heavy payloads.
type Summary struct {
	CaseID      string
	CaseType    string
	ClientName  string
	CompletedAt time.Time
}

type Store struct {
	db *sqlx.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cases (
	case_id      TEXT PRIMARY KEY,
	case_type    TEXT NOT NULL,
	language     TEXT NOT NULL DEFAULT 'en',
	client_name  TEXT NOT NULL DEFAULT '',
	data_json    TEXT NOT NULL DEFAULT '{}',
	analysis     TEXT NOT NULL DEFAULT '',
	report       TEXT NOT NULL DEFAULT '',
	completed_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cases_completed_at ON cases (completed_at);
`

func Open(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts or replaces the archived case; re-archiving after a report
// rewrite is idempotent on case_id.
func (s *Store) Save(r Record) error {
	dataJSON, err := json.Marshal(r.Data)
	if err != nil {
		return fmt.Errorf("marshal case data: %w", err)
	}
	_, err = s.db.Exec(`INSERT OR REPLACE INTO cases (case_id, case_type, language, client_name, data_json, analysis, report, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.CaseID,
		r.CaseType,
		r.Language,
		r.ClientName,
		string(dataJSON),
		r.Analysis,
		r.Report,
		r.CompletedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (s *Store) Get(caseID string) (Record, error) {
	row := s.db.QueryRow(`SELECT case_id, case_type, language, client_name, data_json, analysis, report, completed_at
		FROM cases WHERE case_id = ?`, caseID)

	var r Record
	var dataJSON, completedAt string
	err := row.Scan(&r.CaseID, &r.CaseType, &r.Language, &r.ClientName, &dataJSON, &r.Analysis, &r.Report, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal([]byte(dataJSON), &r.Data); err != nil {
		return Record{}, fmt.Errorf("decode case data: %w", err)
	}
	r.CompletedAt, _ = time.Parse(time.RFC3339Nano, completedAt)
	return r, nil
}

// List returns archived cases newest first, capped at limit (0 means no cap).
func (s *Store) List(limit int) ([]Summary, error) {
	q := `SELECT case_id, case_type, client_name, completed_at FROM cases ORDER BY completed_at DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var completedAt string
		if err := rows.Scan(&sum.CaseID, &sum.CaseType, &sum.ClientName, &completedAt); err != nil {
			return nil, err
		}
		sum.CompletedAt, _ = time.Parse(time.RFC3339Nano, completedAt)
		out = append(out, sum)
	}
	return out, rows.Err()
}
