package keyboards

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	PREFIX_CANCEL        = "cancel_rect"
	PREFIX_ANOTHER_ONE   = "put_trigger"
	PREFIX_DELETE_ANSWER = "delete_rect"
	MOCK                 = "mock"

	// Telegram ограничивает callback_data 64 байтами
	MAX_CALLBACK_DATA = 64
	// MaxEventName самое длинное имя события, с которым влезает кнопка "еще один"
	MaxEventName = MAX_CALLBACK_DATA - len(PREFIX_ANOTHER_ONE) - 1
)

// Callback данные кнопки. Варианты: Cancel, AnotherOne, DeleteAnswer, Mock.
type Callback interface {
	Data() string
}

type (
	// Cancel отмена ожидания ответа.
	// TriggerMessageID сообщение с командой, которое удаляется если DeleteTrigger.
	Cancel struct {
		TriggerMessageID int64
		DeleteTrigger    bool
	}

	// AnotherOne добавить еще один ответ к событию
	AnotherOne struct {
		EventName string
	}

	DeleteAnswer struct {
		AnswerID int64
	}

	// Mock кнопка-заголовок без действия
	Mock struct{}
)

func (c Cancel) Data() string {
	flag := 0
	if c.DeleteTrigger {
		flag = 1
	}
	return fmt.Sprintf("%s:%d:%d", PREFIX_CANCEL, c.TriggerMessageID, flag)
}

func (c AnotherOne) Data() string {
	return PREFIX_ANOTHER_ONE + ":" + c.EventName
}

func (c DeleteAnswer) Data() string {
	return PREFIX_DELETE_ANSWER + ":" + strconv.FormatInt(c.AnswerID, 10)
}

func (Mock) Data() string {
	return MOCK
}

// ParseCallback разбирает callback_data. false для чужих и поврежденных данных.
func ParseCallback(data string) (Callback, bool) {
	if data == MOCK {
		return Mock{}, true
	}

	prefix, rest, ok := strings.Cut(data, ":")
	if !ok {
		return nil, false
	}

	switch prefix {
	case PREFIX_CANCEL:
		msg, flag, ok := strings.Cut(rest, ":")
		if !ok || (flag != "0" && flag != "1") {
			return nil, false
		}
		id, err := strconv.ParseInt(msg, 10, 64)
		if err != nil {
			return nil, false
		}
		return Cancel{TriggerMessageID: id, DeleteTrigger: flag == "1"}, true

	case PREFIX_ANOTHER_ONE:
		if rest == "" {
			return nil, false
		}
		return AnotherOne{EventName: rest}, true

	case PREFIX_DELETE_ANSWER:
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return nil, false
		}
		return DeleteAnswer{AnswerID: id}, true
	}
	return nil, false
}
