package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const answerColumns = `id, trigger_event_id, media_kind, media, is_active, created_at`

func scanAnswer(row rowScanner) (*TriggerAnswer, error) {
	var (
		a         TriggerAnswer
		active    int
		createdAt string
	)
	if err := row.Scan(&a.ID, &a.TriggerEventID, &a.MediaKind, &a.Media, &active, &createdAt); err != nil {
		return nil, err
	}
	a.IsActive = active != 0
	a.CreatedAt = parseTime(createdAt)
	return &a, nil
}

// CreateAnswer добавляет активный ответ событию.
func (s *Store) CreateAnswer(ctx context.Context, eventID int64, kind MediaKind, media string) (*TriggerAnswer, error) {
	a, err := scanAnswer(s.db.QueryRowContext(ctx, `
		INSERT INTO trigger_answers (trigger_event_id, media_kind, media, is_active, created_at)
		VALUES (?, ?, ?, 1, ?)
		RETURNING `+answerColumns,
		eventID, kind, media, s.now().UTC().Format(timeLayout),
	))
	if err != nil {
		return nil, fmt.Errorf("create answer for event %d: %w", eventID, err)
	}
	return a, nil
}

// DeleteAnswer удаляет ответ по id. false если такого нет.
func (s *Store) DeleteAnswer(ctx context.Context, answerID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trigger_answers WHERE id = ?`, answerID)
	if err != nil {
		return false, fmt.Errorf("delete answer %d: %w", answerID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) CountAnswers(ctx context.Context, eventID int64, kind MediaKind) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT count(*) FROM trigger_answers WHERE trigger_event_id = ? AND media_kind = ?`,
		eventID, kind,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count answers: %w", err)
	}
	return n, nil
}

// ListAnswers страница ответов события заданного типа в порядке id.
func (s *Store) ListAnswers(ctx context.Context, eventID int64, kind MediaKind, offset, limit int) ([]TriggerAnswer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+answerColumns+`
		FROM trigger_answers
		WHERE trigger_event_id = ? AND media_kind = ?
		ORDER BY id ASC
		LIMIT ? OFFSET ?`, eventID, kind, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	var answers []TriggerAnswer
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, err
		}
		answers = append(answers, *a)
	}
	return answers, rows.Err()
}

// AnswerPool операции над ответами события внутри одной транзакции.
type AnswerPool interface {
	// RandomActive случайный еще не показанный ответ, ErrNotFound если таких нет
	RandomActive(eventID int64) (*TriggerAnswer, error)
	// ResetAll снова делает активными все ответы события
	ResetAll(eventID int64) (int64, error)
	MarkShown(answerID int64) error
}

type txPool struct {
	ctx context.Context
	tx  *sql.Tx
}

func (p txPool) RandomActive(eventID int64) (*TriggerAnswer, error) {
	a, err := scanAnswer(p.tx.QueryRowContext(p.ctx, `
		SELECT `+answerColumns+`
		FROM trigger_answers
		WHERE trigger_event_id = ? AND is_active = 1
		ORDER BY random()
		LIMIT 1`, eventID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

func (p txPool) ResetAll(eventID int64) (int64, error) {
	res, err := p.tx.ExecContext(p.ctx, `UPDATE trigger_answers SET is_active = 1 WHERE trigger_event_id = ?`, eventID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (p txPool) MarkShown(answerID int64) error {
	_, err := p.tx.ExecContext(p.ctx, `UPDATE trigger_answers SET is_active = 0 WHERE id = ?`, answerID)
	return err
}

// InAnswerTx выполняет fn в транзакции: проверка исчерпания, сброс и выбор не пересекаются с другими вызовами.
func (s *Store) InAnswerTx(ctx context.Context, fn func(pool AnswerPool) error) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return fn(txPool{ctx: ctx, tx: tx})
	})
}
