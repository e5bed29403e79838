package triggers

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"trigger-bot/internal/database"
	"trigger-bot/internal/logger"
)

const maxCompiledPatterns = 1024

type EventLister interface {
	ListActiveEvents(ctx context.Context, chatID int64) ([]database.TriggerEvent, error)
}

// Matcher ищет активное событие чата, на которое отвечает текст.
type Matcher struct {
	store EventLister
	log   *logger.Logger

	mu       sync.Mutex
	compiled map[string]*regexp.Regexp
}

func NewMatcher(store EventLister, log *logger.Logger) *Matcher {
	return &Matcher{
		store:    store,
		log:      log,
		compiled: make(map[string]*regexp.Regexp),
	}
}

// CompilePattern регулярка события без учета регистра.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + pattern)
}

func (m *Matcher) regex(pattern string) (*regexp.Regexp, error) {
	m.mu.Lock()
	re, ok := m.compiled[pattern]
	m.mu.Unlock()
	if ok {
		return re, nil
	}

	re, err := CompilePattern(pattern)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if len(m.compiled) >= maxCompiledPatterns {
		m.compiled = make(map[string]*regexp.Regexp)
	}
	m.compiled[pattern] = re
	m.mu.Unlock()
	return re, nil
}

// Matches подходит ли текст под шаблон события.
func (m *Matcher) Matches(e database.TriggerEvent, text string) bool {
	switch e.MatchMode {
	case database.MATCH_LITERAL:
		return strings.Contains(strings.ToLower(text), strings.ToLower(e.Pattern))
	case database.MATCH_REGEX:
		re, err := m.regex(e.Pattern)
		if err != nil {
			m.log.Warning("Skip trigger event with broken regex", e.ID, e.Pattern, err)
			return false
		}
		return re.MatchString(text)
	}
	return false
}

// FindMatchingEvent первое по id подходящее событие, nil если текст не триггер.
func (m *Matcher) FindMatchingEvent(ctx context.Context, text string, chatID int64) (*database.TriggerEvent, error) {
	if text == "" {
		return nil, nil
	}

	events, err := m.store.ListActiveEvents(ctx, chatID)
	if err != nil {
		return nil, err
	}

	for i := range events {
		if m.Matches(events[i], text) {
			return &events[i], nil
		}
	}
	return nil, nil
}
