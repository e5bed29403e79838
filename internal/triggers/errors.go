package triggers

import (
	"errors"
	"fmt"
)

var (
	ErrEventNotFound  = errors.New("trigger event not found")
	ErrNoAnswers      = errors.New("no answers for trigger event")
	ErrAnswerNotFound = errors.New("trigger answer not found")
)

// InvalidCommandError команда без нужных аргументов. Пользователь получает пример.
type InvalidCommandError struct {
	Example string
	Reason  string
}

func (e *InvalidCommandError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid command: %s", e.Reason)
	}
	return "invalid command"
}

func invalid(example string) error {
	return &InvalidCommandError{Example: example}
}
