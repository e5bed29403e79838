package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// фиксированная ширина, чтобы строки сравнивались как время
const timeLayout = "2006-01-02 15:04:05.000000000"

const schema = `
CREATE TABLE IF NOT EXISTS trigger_events (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  chat_id INTEGER NOT NULL,
  name TEXT NOT NULL,
  pattern TEXT NOT NULL CHECK (pattern <> ''),
  match_mode TEXT NOT NULL DEFAULT 'text',
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL,
  UNIQUE (chat_id, name)
);

CREATE TABLE IF NOT EXISTS trigger_answers (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  trigger_event_id INTEGER NOT NULL REFERENCES trigger_events(id) ON DELETE CASCADE,
  media_kind TEXT NOT NULL,
  media TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trigger_answers_event ON trigger_answers(trigger_event_id, media_kind);

CREATE TABLE IF NOT EXISTS conversation_states (
  state_key TEXT PRIMARY KEY,
  data BLOB NOT NULL,
  expires_at TEXT
);
`

// Store хранилище событий и ответов поверх SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open открывает (или создает) базу по пути.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// у SQLite один писатель, транзакции ротации не должны пересекаться
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// withTx выполняет fn в одной транзакции, откатывая ее при ошибке.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func parseTime(s string) time.Time {
	t, _ := time.ParseInLocation(timeLayout, s, time.UTC)
	return t
}
