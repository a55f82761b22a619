package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"veritas-hq/saturn/pkg/review"
)

// SQLiteStore archives review results in a SQLite database. Suitable
// for single-instance deployments that want terminal results to survive
// restarts and history pruning.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) the database at dbPath
// and ensures the schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS review_results (
		request_id   TEXT PRIMARY KEY,
		status       TEXT NOT NULL,
		completed_at INTEGER NOT NULL,
		payload      TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_review_results_completed_at
		ON review_results(completed_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Save(ctx context.Context, result *review.ReviewResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal review result: %w", err)
	}

	var completedAt int64
	if result.CompletedAt != nil {
		completedAt = result.CompletedAt.Unix()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO review_results (request_id, status, completed_at, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(request_id) DO UPDATE SET
			status = excluded.status,
			completed_at = excluded.completed_at,
			payload = excluded.payload`,
		result.RequestID, string(result.Status), completedAt, string(payload))
	if err != nil {
		return fmt.Errorf("save review result: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, requestID string) (*review.ReviewResult, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM review_results WHERE request_id = ?`,
		requestID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &review.NotFoundError{RequestID: requestID}
	}
	if err != nil {
		return nil, fmt.Errorf("load review result: %w", err)
	}

	var result review.ReviewResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("unmarshal review result: %w", err)
	}
	return &result, nil
}

func (s *SQLiteStore) Purge(ctx context.Context, olderThan time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM review_results WHERE completed_at > 0 AND completed_at < ?`,
		olderThan.Unix())
	if err != nil {
		return 0, fmt.Errorf("purge review results: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge review results: %w", err)
	}
	return int(affected), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
