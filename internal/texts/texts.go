package texts

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/goccy/go-yaml"
)

// Texts все тексты, которые видит пользователь. Разметка HTML.
type Texts struct {
	PutEvent     string `yaml:"put_event"`
	DeleteEvent  string `yaml:"delete_event"`
	PutAnswer    string `yaml:"put_answer"`
	DeleteAnswer string `yaml:"delete_answer"`

	WaitingMedia     string `yaml:"waiting_media"`
	UnsupportedMedia string `yaml:"unsupported_media"`
	SelectMediaKind  string `yaml:"select_media_kind"`

	ErrorMessages ErrorMessages `yaml:"error_messages"`
	Usage         Usage         `yaml:"usage"`
	Buttons       Buttons       `yaml:"buttons"`
}

type ErrorMessages struct {
	// Incorrect bot command entered.
	InvalidCommand string `yaml:"invalid_command"`
	// Trigger event %s not found
	NotFoundEvent string `yaml:"not_found_event"`
	// No answers for trigger %s
	NotFoundAnswers string `yaml:"not_found_answers"`
	NotFoundAnswer  string `yaml:"not_found_answer"`
	InvalidRegex    string `yaml:"invalid_regex"`
	Forbidden       string `yaml:"forbidden"`
	NotYourPrompt   string `yaml:"not_your_prompt"`
	// ошибка сервера без подробностей
	ServerError string `yaml:"server_error"`
}

type Usage struct {
	PutEvent    string `yaml:"put_event"`
	DeleteEvent string `yaml:"delete_event"`
	EventArg    string `yaml:"event_arg"`
}

type Buttons struct {
	Cancel       string `yaml:"cancel"`
	AnotherOne   string `yaml:"another_one"`
	DeleteAnswer string `yaml:"delete_answer"`
}

func setDefaults(t *Texts) {
	if t.PutEvent == "" {
		t.PutEvent = "☑️put <code>%s</code>: <code>%s</code>"
	}
	if t.DeleteEvent == "" {
		t.DeleteEvent = "☑️delete: <code>%s</code>"
	}
	if t.PutAnswer == "" {
		t.PutAnswer = "☑️put <code>%s</code>"
	}
	if t.DeleteAnswer == "" {
		t.DeleteAnswer = "☑️delete"
	}
	if t.WaitingMedia == "" {
		t.WaitingMedia = "Waiting media for <code>%s</code>"
	}
	if t.UnsupportedMedia == "" {
		t.UnsupportedMedia = "<code>%s</code> is not a supported type for triggers. Try again."
	}
	if t.SelectMediaKind == "" {
		t.SelectMediaKind = "Select media type for trigger <code>%s</code>"
	}

	e := &t.ErrorMessages
	if e.InvalidCommand == "" {
		e.InvalidCommand = "Incorrect bot command entered."
	}
	if e.NotFoundEvent == "" {
		e.NotFoundEvent = "Trigger event <code>%s</code> not found"
	}
	if e.NotFoundAnswers == "" {
		e.NotFoundAnswers = "No answers for trigger <code>%s</code>"
	}
	if e.NotFoundAnswer == "" {
		e.NotFoundAnswer = "Answer not found"
	}
	if e.InvalidRegex == "" {
		e.InvalidRegex = "<code>%s</code> is not a valid regex"
	}
	if e.Forbidden == "" {
		e.Forbidden = "Only the bot owner can do this"
	}
	if e.NotYourPrompt == "" {
		e.NotYourPrompt = "This prompt belongs to someone else"
	}
	if e.ServerError == "" {
		e.ServerError = "Something went wrong. Try again later."
	}

	u := &t.Usage
	if u.PutEvent == "" {
		u.PutEvent = `<code>/put_trigger_event [name] [trigger] ["regex" if regex_mode]</code>`
	}
	if u.DeleteEvent == "" {
		u.DeleteEvent = "<code>/delete_trigger_event [name]</code>"
	}
	if u.EventArg == "" {
		u.EventArg = "<code>/command [trigger_event]</code>"
	}

	b := &t.Buttons
	if b.Cancel == "" {
		b.Cancel = "✖️cancel"
	}
	if b.AnotherOne == "" {
		b.AnotherOne = "🔄another one"
	}
	if b.DeleteAnswer == "" {
		b.DeleteAnswer = "❌delete_trigger_%s_%d"
	}
}

// Default тексты без файла настроек.
func Default() Texts {
	t := Texts{}
	setDefaults(&t)
	return t
}

func load(path string) (*Texts, error) {
	t := &Texts{}
	if path != "" {
		input, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read texts: %w", err)
		}
		if err := yaml.NewDecoder(bytes.NewBuffer(input)).Decode(t); err != nil && len(bytes.TrimSpace(input)) > 0 {
			return nil, fmt.Errorf("decode texts: %w", err)
		}
	}
	setDefaults(t)
	return t, nil
}

// Holder текущие тексты, безопасно перечитываются на лету.
type Holder struct {
	lock  sync.RWMutex
	texts *Texts
	path  string
}

// Load читает тексты из path. Пустой path - тексты по умолчанию.
func Load(path string) (*Holder, error) {
	t, err := load(path)
	if err != nil {
		return nil, err
	}
	return &Holder{texts: t, path: path}, nil
}

func Static(t Texts) *Holder {
	setDefaults(&t)
	return &Holder{texts: &t}
}

// Get снимок текстов.
func (h *Holder) Get() Texts {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return *h.texts
}

// Reload перечитывает файл. При ошибке прежние тексты остаются.
func (h *Holder) Reload() error {
	t, err := load(h.path)
	if err != nil {
		return err
	}
	h.lock.Lock()
	h.texts = t
	h.lock.Unlock()
	return nil
}

func (h *Holder) Path() string {
	return h.path
}
