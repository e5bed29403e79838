package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trigger-bot/internal/database"

	"github.com/allegro/bigcache/v3"
)

// Store хранилище состояний диалогов по ключу чат+пользователь.
// На один ключ хранится не более одного состояния, последняя запись побеждает.
type Store interface {
	Get(ctx context.Context, chatID, userID int64) (Chat, error)
	Set(ctx context.Context, chatID, userID int64, state Chat) error
	Clear(ctx context.Context, chatID, userID int64) error
}

func stateKey(chatID, userID int64) string {
	return fmt.Sprintf("%d:%d", chatID, userID)
}

func decode(b []byte) (Chat, error) {
	var chatState Chat
	if err := json.Unmarshal(b, &chatState); err != nil {
		return Idle(), fmt.Errorf("decode state: %w", err)
	}
	if chatState.Tag == "" {
		chatState.Tag = STATE_IDLE
	}
	return chatState, nil
}

// BigCacheStore состояния в памяти процесса.
type BigCacheStore struct {
	cache *bigcache.BigCache
	ttl   time.Duration
	now   func() time.Time
}

func NewBigCacheStore(cache *bigcache.BigCache, ttl time.Duration) *BigCacheStore {
	return &BigCacheStore{cache: cache, ttl: ttl, now: time.Now}
}

func (s *BigCacheStore) Get(ctx context.Context, chatID, userID int64) (Chat, error) {
	key := stateKey(chatID, userID)

	b, err := s.cache.Get(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return Idle(), nil
	}
	if err != nil {
		return Idle(), fmt.Errorf("read state %s: %w", key, err)
	}

	chatState, err := decode(b)
	if err != nil {
		return Idle(), err
	}
	if chatState.Expired(s.now(), s.ttl) {
		return Idle(), s.Clear(ctx, chatID, userID)
	}
	return chatState, nil
}

func (s *BigCacheStore) Set(_ context.Context, chatID, userID int64, state Chat) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	key := stateKey(chatID, userID)
	if err := s.cache.Set(key, data); err != nil {
		return fmt.Errorf("write state %s: %w", key, err)
	}
	return nil
}

func (s *BigCacheStore) Clear(_ context.Context, chatID, userID int64) error {
	err := s.cache.Delete(stateKey(chatID, userID))
	if err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		return err
	}
	return nil
}

// StateRows хранение сериализованных состояний в базе.
type StateRows interface {
	PutState(ctx context.Context, key string, data []byte, expiresAt time.Time) error
	GetState(ctx context.Context, key string) ([]byte, error)
	DeleteState(ctx context.Context, key string) error
}

// SQLStore состояния в базе, переживают перезапуск и общие для нескольких процессов.
type SQLStore struct {
	rows StateRows
	ttl  time.Duration
	now  func() time.Time
}

func NewSQLStore(rows StateRows, ttl time.Duration) *SQLStore {
	return &SQLStore{rows: rows, ttl: ttl, now: time.Now}
}

func (s *SQLStore) Get(ctx context.Context, chatID, userID int64) (Chat, error) {
	b, err := s.rows.GetState(ctx, stateKey(chatID, userID))
	if errors.Is(err, database.ErrNotFound) {
		return Idle(), nil
	}
	if err != nil {
		return Idle(), err
	}

	chatState, err := decode(b)
	if err != nil {
		return Idle(), err
	}
	if chatState.Expired(s.now(), s.ttl) {
		return Idle(), s.Clear(ctx, chatID, userID)
	}
	return chatState, nil
}

func (s *SQLStore) Set(ctx context.Context, chatID, userID int64, state Chat) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	var expiresAt time.Time
	if s.ttl > 0 && !state.ArmedAt.IsZero() {
		expiresAt = state.ArmedAt.Add(s.ttl)
	}
	return s.rows.PutState(ctx, stateKey(chatID, userID), data, expiresAt)
}

func (s *SQLStore) Clear(ctx context.Context, chatID, userID int64) error {
	return s.rows.DeleteState(ctx, stateKey(chatID, userID))
}
