package triggers

import (
	"context"
	"errors"
	"strconv"

	"trigger-bot/internal/database"
)

type AnswerPager interface {
	GetEventByName(ctx context.Context, chatID int64, name string, onlyActive bool) (*database.TriggerEvent, error)
	CountAnswers(ctx context.Context, eventID int64, kind database.MediaKind) (int, error)
	ListAnswers(ctx context.Context, eventID int64, kind database.MediaKind, offset, limit int) ([]database.TriggerAnswer, error)
}

// Paginator постраничный обход ответов события только вперед.
type Paginator struct {
	store AnswerPager
}

func NewPaginator(store AnswerPager) *Paginator {
	return &Paginator{store: store}
}

// ParseOffset пустая строка - начало списка.
func ParseOffset(offset string) (int, error) {
	if offset == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(offset)
	if err != nil || n < 0 {
		return 0, &InvalidCommandError{Reason: "bad offset " + strconv.Quote(offset)}
	}
	return n, nil
}

// NextOffset курсор следующей страницы, пустая строка если страниц больше нет.
func NextOffset(offset, pageSize, total int) string {
	next := offset + pageSize
	if next < total {
		return strconv.Itoa(next)
	}
	return ""
}

// Page возвращает курсор следующей страницы и ответы текущей.
func (p *Paginator) Page(ctx context.Context, eventName string, chatID int64, kind database.MediaKind, offset string, pageSize int) (string, []database.TriggerAnswer, error) {
	start, err := ParseOffset(offset)
	if err != nil {
		return "", nil, err
	}
	if pageSize <= 0 {
		return "", nil, &InvalidCommandError{Reason: "page size must be positive"}
	}

	event, err := p.store.GetEventByName(ctx, chatID, eventName, false)
	if errors.Is(err, database.ErrNotFound) {
		return "", nil, ErrEventNotFound
	}
	if err != nil {
		return "", nil, err
	}

	total, err := p.store.CountAnswers(ctx, event.ID, kind)
	if err != nil {
		return "", nil, err
	}

	items, err := p.store.ListAnswers(ctx, event.ID, kind, start, pageSize)
	if err != nil {
		return "", nil, err
	}
	return NextOffset(start, pageSize, total), items, nil
}
