package triggers

import (
	"context"
	"errors"
	"fmt"
	"html"

	"trigger-bot/internal/database"
	"trigger-bot/internal/logger"
	"trigger-bot/internal/texts"
)

type Store interface {
	EventLister
	AnswerTxRunner
	AnswerPager

	UpsertEvent(ctx context.Context, chatID int64, name, pattern string, mode database.MatchMode) (*database.TriggerEvent, error)
	DeleteEventByName(ctx context.Context, chatID int64, name string) (bool, error)
	CreateAnswer(ctx context.Context, eventID int64, kind database.MediaKind, media string) (*database.TriggerAnswer, error)
	DeleteAnswer(ctx context.Context, answerID int64) (bool, error)
}

// Service операции над триггерами для обработчиков бота.
// Ошибки превращаются в текст для пользователя, внутренние пишутся в лог.
type Service struct {
	store   Store
	matcher *Matcher
	rotator *Rotator
	pager   *Paginator
	texts   *texts.Holder
	log     *logger.Logger
}

func NewService(store Store, t *texts.Holder, log *logger.Logger) *Service {
	return &Service{
		store:   store,
		matcher: NewMatcher(store, log),
		rotator: NewRotator(store),
		pager:   NewPaginator(store),
		texts:   t,
		log:     log,
	}
}

func (s *Service) Texts() texts.Texts {
	return s.texts.Get()
}

// userMessage текст ошибки для ответа в чат.
func (s *Service) userMessage(err error, name string) string {
	t := s.texts.Get()
	name = html.EscapeString(name)

	var invalidErr *InvalidCommandError
	switch {
	case errors.As(err, &invalidErr):
		if invalidErr.Example != "" {
			return t.ErrorMessages.InvalidCommand + "\nExample: " + invalidErr.Example
		}
		return t.ErrorMessages.InvalidCommand
	case errors.Is(err, ErrEventNotFound):
		return fmt.Sprintf(t.ErrorMessages.NotFoundEvent, name)
	case errors.Is(err, ErrNoAnswers):
		s.log.Info("No answers for trigger event", name)
		return fmt.Sprintf(t.ErrorMessages.NotFoundAnswers, name)
	case errors.Is(err, ErrAnswerNotFound):
		return t.ErrorMessages.NotFoundAnswer
	}

	s.log.Warning(err)
	return t.ErrorMessages.ServerError
}

// PutEvent создает или обновляет событие по команде "/put_trigger_event".
func (s *Service) PutEvent(ctx context.Context, chatID int64, text string) string {
	t := s.texts.Get()

	name, pattern, mode, err := ParsePutEvent(text, t.Usage.PutEvent)
	if err != nil {
		return s.userMessage(err, "")
	}
	if mode == database.MATCH_REGEX {
		if _, err := CompilePattern(pattern); err != nil {
			s.log.Debug("Reject regex", pattern, err)
			return fmt.Sprintf(t.ErrorMessages.InvalidRegex, html.EscapeString(pattern))
		}
	}

	e, err := s.store.UpsertEvent(ctx, chatID, name, pattern, mode)
	if err != nil {
		return s.userMessage(err, name)
	}
	s.log.Info("Put trigger event", chatID, e.ID, e.Name, e.MatchMode)
	return fmt.Sprintf(t.PutEvent, html.EscapeString(e.Name), html.EscapeString(e.Pattern))
}

// DeleteEvent удаляет событие вместе с ответами по команде "/delete_trigger_event".
func (s *Service) DeleteEvent(ctx context.Context, chatID int64, text string) string {
	t := s.texts.Get()

	name, err := ParseEventArg(text, t.Usage.DeleteEvent)
	if err != nil {
		return s.userMessage(err, "")
	}

	ok, err := s.store.DeleteEventByName(ctx, chatID, name)
	if err != nil {
		return s.userMessage(err, name)
	}
	if !ok {
		return s.userMessage(ErrEventNotFound, name)
	}
	s.log.Info("Delete trigger event", chatID, name)
	return fmt.Sprintf(t.DeleteEvent, html.EscapeString(name))
}

// EventFromCommand событие из "/command name" вне зависимости от активности.
// Если события нет, второе значение - текст ошибки.
func (s *Service) EventFromCommand(ctx context.Context, chatID int64, text string) (*database.TriggerEvent, string) {
	name, err := ParseEventArg(text, s.texts.Get().Usage.EventArg)
	if err != nil {
		return nil, s.userMessage(err, "")
	}
	return s.Event(ctx, chatID, name)
}

func (s *Service) Event(ctx context.Context, chatID int64, name string) (*database.TriggerEvent, string) {
	e, err := s.store.GetEventByName(ctx, chatID, name, false)
	if errors.Is(err, database.ErrNotFound) {
		err = ErrEventNotFound
	}
	if err != nil {
		return nil, s.userMessage(err, name)
	}
	return e, ""
}

// Respond ответ на обычное сообщение чата.
// matched false если текст не триггер. Иначе либо answer, либо текст ошибки.
func (s *Service) Respond(ctx context.Context, chatID int64, text string) (answer *database.TriggerAnswer, msg string, matched bool) {
	e, err := s.matcher.FindMatchingEvent(ctx, text, chatID)
	if err != nil {
		s.log.Warning("Match triggers", chatID, err)
		return nil, "", false
	}
	if e == nil {
		return nil, "", false
	}

	a, err := s.rotator.PickAnswer(ctx, e.ID)
	if err != nil {
		return nil, s.userMessage(err, e.Name), true
	}
	s.log.Debug("Trigger answer", e.Name, a.ID)
	return a, "", true
}

// PutAnswer сохраняет ответ для события name.
func (s *Service) PutAnswer(ctx context.Context, chatID int64, name string, kind database.MediaKind, media string) (string, error) {
	e, err := s.store.GetEventByName(ctx, chatID, name, false)
	if errors.Is(err, database.ErrNotFound) {
		err = ErrEventNotFound
	}
	if err != nil {
		return s.userMessage(err, name), err
	}

	a, err := s.store.CreateAnswer(ctx, e.ID, kind, media)
	if err != nil {
		return s.userMessage(err, name), err
	}
	s.log.Info("Put trigger answer", chatID, e.Name, a.ID, a.MediaKind)
	return fmt.Sprintf(s.texts.Get().PutAnswer, html.EscapeString(e.Name)), nil
}

// DeleteAnswer удаляет ответ по id из кнопки.
func (s *Service) DeleteAnswer(ctx context.Context, answerID int64) string {
	ok, err := s.store.DeleteAnswer(ctx, answerID)
	if err != nil {
		return s.userMessage(err, "")
	}
	if !ok {
		return s.userMessage(ErrAnswerNotFound, "")
	}
	s.log.Info("Delete trigger answer", answerID)
	return s.texts.Get().DeleteAnswer
}

// Browse страница ответов для inline запроса. ok false если запрос не про триггеры.
func (s *Service) Browse(ctx context.Context, query, offset string, pageSize int) (q InlineQuery, next string, items []database.TriggerAnswer, ok bool) {
	q, ok = ParseInlineQuery(query)
	if !ok {
		return q, "", nil, false
	}

	next, items, err := s.pager.Page(ctx, q.EventName, q.ChatID, q.Kind, offset, pageSize)
	if err != nil {
		var invalidErr *InvalidCommandError
		if !errors.Is(err, ErrEventNotFound) && !errors.As(err, &invalidErr) {
			s.log.Warning("Browse answers", query, err)
		}
		return q, "", nil, true
	}
	return q, next, items, true
}
