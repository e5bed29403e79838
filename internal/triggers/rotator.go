package triggers

import (
	"context"
	"errors"
	"fmt"

	"trigger-bot/internal/database"
)

type AnswerTxRunner interface {
	InAnswerTx(ctx context.Context, fn func(pool database.AnswerPool) error) error
}

// Rotator выдает ответы события так, чтобы каждый показывался один раз за круг.
type Rotator struct {
	store AnswerTxRunner
}

func NewRotator(store AnswerTxRunner) *Rotator {
	return &Rotator{store: store}
}

// PickAnswer выбирает случайный непоказанный ответ и помечает его показанным.
// Когда показаны все, пул сбрасывается в той же транзакции. ErrNoAnswers если ответов нет.
func (r *Rotator) PickAnswer(ctx context.Context, eventID int64) (*database.TriggerAnswer, error) {
	var picked *database.TriggerAnswer

	err := r.store.InAnswerTx(ctx, func(pool database.AnswerPool) error {
		a, err := pool.RandomActive(eventID)
		if errors.Is(err, database.ErrNotFound) {
			if _, err := pool.ResetAll(eventID); err != nil {
				return fmt.Errorf("reset answers: %w", err)
			}
			a, err = pool.RandomActive(eventID)
		}
		if errors.Is(err, database.ErrNotFound) {
			return ErrNoAnswers
		}
		if err != nil {
			return fmt.Errorf("pick answer: %w", err)
		}

		if err := pool.MarkShown(a.ID); err != nil {
			return fmt.Errorf("mark answer shown: %w", err)
		}
		a.IsActive = false
		picked = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return picked, nil
}
