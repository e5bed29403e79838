package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const eventColumns = `id, chat_id, name, pattern, match_mode, is_active, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*TriggerEvent, error) {
	var (
		e         TriggerEvent
		active    int
		createdAt string
	)
	if err := row.Scan(&e.ID, &e.ChatID, &e.Name, &e.Pattern, &e.MatchMode, &active, &createdAt); err != nil {
		return nil, err
	}
	e.IsActive = active != 0
	e.CreatedAt = parseTime(createdAt)
	return &e, nil
}

// GetEventByName ищет событие чата по имени. ErrNotFound если его нет.
func (s *Store) GetEventByName(ctx context.Context, chatID int64, name string, onlyActive bool) (*TriggerEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM trigger_events WHERE chat_id = ? AND name = ?`
	if onlyActive {
		query += ` AND is_active = 1`
	}

	e, err := scanEvent(s.db.QueryRowContext(ctx, query, chatID, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event %q: %w", name, err)
	}
	return e, nil
}

// ListActiveEvents активные события чата в порядке возрастания id.
func (s *Store) ListActiveEvents(ctx context.Context, chatID int64) ([]TriggerEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM trigger_events
		WHERE chat_id = ? AND is_active = 1
		ORDER BY id ASC`, chatID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []TriggerEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// UpsertEvent создает событие или обновляет шаблон и режим существующего с тем же именем.
func (s *Store) UpsertEvent(ctx context.Context, chatID int64, name, pattern string, mode MatchMode) (*TriggerEvent, error) {
	if pattern == "" {
		return nil, errors.New("empty pattern")
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown match mode: %s", mode)
	}

	e, err := scanEvent(s.db.QueryRowContext(ctx, `
		INSERT INTO trigger_events (chat_id, name, pattern, match_mode, is_active, created_at)
		VALUES (?, ?, ?, ?, 1, ?)
		ON CONFLICT(chat_id, name) DO UPDATE SET pattern = excluded.pattern, match_mode = excluded.match_mode
		RETURNING `+eventColumns,
		chatID, name, pattern, mode, s.now().UTC().Format(timeLayout),
	))
	if err != nil {
		return nil, fmt.Errorf("upsert event %q: %w", name, err)
	}
	return e, nil
}

// DeleteEventByName удаляет событие вместе с ответами. false если удалять было нечего.
func (s *Store) DeleteEventByName(ctx context.Context, chatID int64, name string) (bool, error) {
	deleted := false
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var id int64
		err := tx.QueryRowContext(ctx, `SELECT id FROM trigger_events WHERE chat_id = ? AND name = ?`, chatID, name).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM trigger_answers WHERE trigger_event_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM trigger_events WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		deleted = n > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete event %q: %w", name, err)
	}
	return deleted, nil
}
