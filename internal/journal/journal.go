// Package journal remembers which chat messages already produced a task so a
// redelivered update does not create a duplicate.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one created task.
type Entry struct {
	ChatID    int64
	MessageID int
	PageID    string
	Title     string
	Author    string
	CreatedAt time.Time
}

// Store is the SQLite-backed journal.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates or opens the journal database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal migration: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS created_tasks (
		chat_id     INTEGER NOT NULL,
		message_id  INTEGER NOT NULL,
		page_id     TEXT NOT NULL,
		title       TEXT NOT NULL,
		author      TEXT NOT NULL,
		created_at  DATETIME NOT NULL,
		PRIMARY KEY (chat_id, message_id)
	);`)
	return err
}

// Seen reports whether the message already produced a task.
func (s *Store) Seen(ctx context.Context, chatID int64, messageID int) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM created_tasks WHERE chat_id = ? AND message_id = ?`, chatID, messageID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query journal: %w", err)
	}
	return true, nil
}

// Record stores e; recording the same message twice keeps the first entry.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO created_tasks (chat_id, message_id, page_id, title, author, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ChatID, e.MessageID, e.PageID, e.Title, e.Author, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	s.logger.Debug("journal entry recorded", "chat_id", e.ChatID, "message_id", e.MessageID, "page_id", e.PageID)
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Nop is used when no journal path is configured.
type Nop struct{}

func (Nop) Seen(context.Context, int64, int) (bool, error) { return false, nil }
func (Nop) Record(context.Context, Entry) error            { return nil }
func (Nop) Close() error                                   { return nil }
