// Package history keeps finalized translation segments in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"voxbridge/internal/domain"
)

const defaultRecentLimit = 50

// Store implements ports.HistoryStore. A Store opened with an empty path is
// disabled and silently drops writes.
type Store struct {
	db    *sql.DB
	clock func() time.Time
}

// NewSessionID returns an identifier grouping the segments of one recording.
func NewSessionID() string {
	return uuid.NewString()
}

func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return &Store{clock: time.Now}, nil
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(2000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &Store{db: db, clock: time.Now}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS segments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    segment_index INTEGER NOT NULL,
    original TEXT NOT NULL,
    translated TEXT NOT NULL,
    source_lang TEXT NOT NULL,
    target_lang TEXT NOT NULL,
    created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_segments_created ON segments(created_at);
`
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

// Enabled reports whether writes are persisted.
func (s *Store) Enabled() bool {
	return s.db != nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Append(ctx context.Context, entry domain.HistoryEntry) error {
	if s.db == nil {
		return nil
	}
	if entry.CreatedAt == 0 {
		entry.CreatedAt = s.clock().UnixMilli()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO segments(session_id, segment_index, original, translated, source_lang, target_lang, created_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?)`,
		entry.SessionID, entry.Index, entry.Original, entry.Translated, entry.SourceLang, entry.TargetLang, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// Recent returns up to limit segments, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, segment_index, original, translated, source_lang, target_lang, created_at
		 FROM segments ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		if err := rows.Scan(&e.SessionID, &e.Index, &e.Original, &e.Translated, &e.SourceLang, &e.TargetLang, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
