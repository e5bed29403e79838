package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PutState сохраняет сериализованное состояние диалога, перезаписывая прежнее.
// Нулевой expiresAt - без срока.
func (s *Store) PutState(ctx context.Context, key string, data []byte, expiresAt time.Time) error {
	var exp any
	if !expiresAt.IsZero() {
		exp = expiresAt.UTC().Format(timeLayout)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversation_states (state_key, data, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(state_key) DO UPDATE SET data = excluded.data, expires_at = excluded.expires_at`,
		key, data, exp,
	)
	if err != nil {
		return fmt.Errorf("put state %s: %w", key, err)
	}
	return nil
}

// GetState возвращает ErrNotFound для отсутствующих и просроченных записей.
func (s *Store) GetState(ctx context.Context, key string) ([]byte, error) {
	var (
		data []byte
		exp  sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `SELECT data, expires_at FROM conversation_states WHERE state_key = ?`, key).Scan(&data, &exp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get state %s: %w", key, err)
	}
	if exp.Valid && !parseTime(exp.String).After(s.now()) {
		return nil, ErrNotFound
	}
	return data, nil
}

func (s *Store) DeleteState(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM conversation_states WHERE state_key = ?`, key); err != nil {
		return fmt.Errorf("delete state %s: %w", key, err)
	}
	return nil
}

// PurgeExpiredStates удаляет просроченные состояния, возвращает их количество.
func (s *Store) PurgeExpiredStates(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM conversation_states WHERE expires_at IS NOT NULL AND expires_at <= ?`,
		s.now().UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("purge states: %w", err)
	}
	return res.RowsAffected()
}
