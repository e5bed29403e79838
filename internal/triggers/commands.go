package triggers

import (
	"strconv"
	"strings"
	"unicode"

	"trigger-bot/internal/database"
	"trigger-bot/internal/keyboards"
)

const (
	CMD_PUT_EVENT    = "put_trigger_event"
	CMD_DELETE_EVENT = "delete_trigger_event"
	CMD_PUT_ANSWER   = "put_trigger"
	CMD_BROWSE       = "trigger"

	regexSuffix = "regex"
)

// ParseCommand имя команды без слеша и @бота и остаток строки.
func ParseCommand(text string) (name string, args string, ok bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}

	head, rest, _ := strings.Cut(strings.TrimSpace(text[1:]), " ")
	if i := strings.IndexByte(head, '@'); i >= 0 {
		head = head[:i]
	}
	if head == "" {
		return "", "", false
	}
	return strings.ToLower(head), strings.TrimSpace(rest), true
}

// ParsePutEvent разбирает "/put_trigger_event name pattern [regex]".
// Слово regex в конце включает режим регулярки, если перед ним есть шаблон.
// Имя длиннее keyboards.MaxEventName байт не принимается.
func ParsePutEvent(text, usage string) (name, pattern string, mode database.MatchMode, err error) {
	_, rest := cutField(text)
	name, rest = cutField(rest)
	if name == "" || rest == "" || len(name) > keyboards.MaxEventName {
		return "", "", "", invalid(usage)
	}

	mode = database.MATCH_LITERAL
	fields := strings.Fields(rest)
	if last := fields[len(fields)-1]; len(fields) > 1 && strings.EqualFold(last, regexSuffix) {
		mode = database.MATCH_REGEX
		rest = strings.TrimSpace(rest[:len(rest)-len(last)])
	}
	return name, rest, mode, nil
}

func cutField(s string) (string, string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

// ParseEventArg имя события из "/command name".
func ParseEventArg(text, usage string) (string, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return "", invalid(usage)
	}
	return fields[1], nil
}

// InlineQuery запрос просмотра ответов вида "<chat_id>_<event>_<kind>".
type InlineQuery struct {
	ChatID    int64
	EventName string
	Kind      database.MediaKind
}

// ParseInlineQuery id чата может быть отрицательным, имя события может содержать "_".
func ParseInlineQuery(q string) (InlineQuery, bool) {
	first := strings.IndexByte(q, '_')
	last := strings.LastIndexByte(q, '_')
	if first <= 0 || last <= first+1 {
		return InlineQuery{}, false
	}

	chatID, err := strconv.ParseInt(q[:first], 10, 64)
	if err != nil {
		return InlineQuery{}, false
	}
	kind, ok := database.ParseMediaKind(q[last+1:])
	if !ok {
		return InlineQuery{}, false
	}
	return InlineQuery{ChatID: chatID, EventName: q[first+1 : last], Kind: kind}, true
}

// Query строка для кнопки switch_inline_query_current_chat.
func (q InlineQuery) Query() string {
	return strconv.FormatInt(q.ChatID, 10) + "_" + q.EventName + "_" + string(q.Kind)
}
