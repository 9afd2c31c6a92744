package audit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration
)

const schema = `
CREATE TABLE IF NOT EXISTS errors (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	occurred_at TEXT NOT NULL,
	hook        TEXT NOT NULL,
	request_id  TEXT,
	session_id  TEXT,
	error_type  TEXT,
	message     TEXT
);
CREATE INDEX IF NOT EXISTS idx_errors_hook ON errors(hook);
CREATE INDEX IF NOT EXISTS idx_errors_occurred_at ON errors(occurred_at);
`

// ErrorRecord is one row in the errors table.
type ErrorRecord struct {
	OccurredAt time.Time
	Hook       string
	RequestID  string
	SessionID  string
	ErrorType  string
	Message    string
}

// errorStore is the SQLite sink for error payloads.
type errorStore struct {
	db *sql.DB
}

// openStore opens the database at path with WAL and busy timeout applied,
// and migrates the schema.
func openStore(path string, wal bool, busyTimeout int) (*errorStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("audit: create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("audit: open %s: %w", path, err)
	}

	// SQLite handles one writer at a time; limit pool to 1 connection
	// so PRAGMAs apply consistently.
	db.SetMaxOpenConns(1)

	ctx := context.TODO()
	if wal {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("audit: enable WAL: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeout)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("audit: set busy_timeout: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("audit: migrate schema: %w", err)
	}

	return &errorStore{db: db}, nil
}

func (s *errorStore) insert(ctx context.Context, r ErrorRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO errors (occurred_at, hook, request_id, session_id, error_type, message)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.OccurredAt.UTC().Format(time.RFC3339Nano),
		r.Hook, r.RequestID, r.SessionID, r.ErrorType, r.Message,
	)
	if err != nil {
		return fmt.Errorf("audit: insert error record: %w", err)
	}
	return nil
}

// recent returns up to limit error records, newest first.
func (s *errorStore) recent(ctx context.Context, limit int) ([]ErrorRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT occurred_at, hook, request_id, session_id, error_type, message
		 FROM errors ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("audit: query errors: %w", err)
	}
	defer rows.Close()

	var out []ErrorRecord
	for rows.Next() {
		var r ErrorRecord
		var ts string
		if err := rows.Scan(&ts, &r.Hook, &r.RequestID, &r.SessionID, &r.ErrorType, &r.Message); err != nil {
			return nil, fmt.Errorf("audit: scan error record: %w", err)
		}
		r.OccurredAt, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *errorStore) close() error {
	return s.db.Close()
}
