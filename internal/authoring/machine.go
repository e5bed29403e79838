package authoring

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"trigger-bot/internal/cache"
	"trigger-bot/internal/database"
	"trigger-bot/internal/keyboards"
	"trigger-bot/internal/logger"
	"trigger-bot/internal/messenger/requests"
	"trigger-bot/internal/messenger/update"
	"trigger-bot/internal/texts"
)

var ErrUnsupportedMedia = errors.New("unsupported media kind")

type Messenger interface {
	SendMessage(ctx context.Context, chatID, replyTo int64, text string, keyboard *requests.InlineKeyboardMarkup) (int64, error)
	DeleteMessage(ctx context.Context, chatID, msgID int64) error
	RemoveKeyboard(ctx context.Context, chatID, msgID int64) error
}

type Triggers interface {
	Event(ctx context.Context, chatID int64, name string) (*database.TriggerEvent, string)
	EventFromCommand(ctx context.Context, chatID int64, text string) (*database.TriggerEvent, string)
	PutAnswer(ctx context.Context, chatID int64, name string, kind database.MediaKind, media string) (string, error)
	Texts() texts.Texts
}

// Machine ведет диалог добавления ответов к событию.
// Состояние хранится отдельно для каждой пары чат+пользователь.
type Machine struct {
	triggers  Triggers
	states    cache.Store
	messenger Messenger
	log       *logger.Logger
	now       func() time.Time
}

func New(triggers Triggers, states cache.Store, messenger Messenger, log *logger.Logger) *Machine {
	return &Machine{
		triggers:  triggers,
		states:    states,
		messenger: messenger,
		log:       log,
		now:       time.Now,
	}
}

// Accepts можно ли сохранить ответ такого вида
func Accepts(kind database.MediaKind) bool {
	switch kind {
	case database.MEDIA_TEXT, database.MEDIA_ANIMATION, database.MEDIA_STICKER:
		return true
	}
	return false
}

// ArmFromCommand обрабатывает "/put_trigger name".
func (m *Machine) ArmFromCommand(ctx context.Context, msg *update.Message) error {
	chatID := msg.Chat.ID

	e, errText := m.triggers.EventFromCommand(ctx, chatID, msg.Text)
	if e == nil {
		_, err := m.messenger.SendMessage(ctx, chatID, 0, errText, nil)
		return err
	}
	return m.arm(ctx, chatID, msg.UserID(), e.Name, msg.MessageID, msg.FromHuman())
}

// ArmAnother кнопка "еще один" под сообщением бота botMsgID.
func (m *Machine) ArmAnother(ctx context.Context, chatID, userID, botMsgID int64, eventName string) error {
	if err := m.messenger.RemoveKeyboard(ctx, chatID, botMsgID); err != nil {
		m.log.Warning("Error while remove keyboard", chatID, botMsgID, err)
	}

	e, errText := m.triggers.Event(ctx, chatID, eventName)
	if e == nil {
		_, err := m.messenger.SendMessage(ctx, chatID, 0, errText, nil)
		return err
	}
	// сообщение бота не удаляем при отмене
	return m.arm(ctx, chatID, userID, e.Name, botMsgID, false)
}

func (m *Machine) arm(ctx context.Context, chatID, userID int64, eventName string, triggerMsgID int64, deleteTrigger bool) error {
	t := m.triggers.Texts()

	cancel := keyboards.Cancel{TriggerMessageID: triggerMsgID, DeleteTrigger: deleteTrigger}
	promptID, err := m.messenger.SendMessage(ctx, chatID, 0, fmt.Sprintf(t.WaitingMedia, html.EscapeString(eventName)), keyboards.CancelKeyboard(t, cancel))
	if err != nil {
		return fmt.Errorf("send prompt: %w", err)
	}

	state := cache.Chat{
		Tag:              cache.STATE_AWAITING_MEDIA,
		EventName:        eventName,
		PromptMessageID:  promptID,
		TriggerMessageID: triggerMsgID,
		DeleteTrigger:    deleteTrigger,
		ArmedAt:          m.now(),
	}
	if err := m.states.Set(ctx, chatID, userID, state); err != nil {
		// без состояния приглашение с кнопкой отмены ни к чему
		if delErr := m.messenger.DeleteMessage(ctx, chatID, promptID); delErr != nil {
			m.log.Warning("Error while delete prompt", chatID, promptID, delErr)
		}
		return m.serverError(ctx, chatID, 0, "Save state", err)
	}

	m.log.Event("Awaiting media", chatID, userID, eventName)
	return nil
}

// State текущее состояние пользователя в чате.
func (m *Machine) State(ctx context.Context, chatID, userID int64) (cache.Chat, error) {
	return m.states.Get(ctx, chatID, userID)
}

// Consume принимает сообщение как ответ, если пользователь ждет медиа.
// false если пользователь не в режиме добавления и сообщение нужно обработать обычным путем.
func (m *Machine) Consume(ctx context.Context, msg *update.Message) (bool, error) {
	chatID, userID := msg.Chat.ID, msg.UserID()

	state, err := m.states.Get(ctx, chatID, userID)
	if err != nil {
		return true, m.serverError(ctx, chatID, msg.MessageID, "Load state", err)
	}
	if !state.IsAwaiting() {
		return false, nil
	}

	t := m.triggers.Texts()
	content := msg.Content()

	kind, media, ok := update.Stored(content)
	if !ok || !Accepts(kind) {
		// остаемся в ожидании, пользователь может прислать другое
		m.log.Debug(ErrUnsupportedMedia.Error(), content.Name())
		text := fmt.Sprintf(t.UnsupportedMedia, html.EscapeString(content.Name()))
		_, err := m.messenger.SendMessage(ctx, chatID, msg.MessageID, text, keyboards.AnotherOneKeyboard(t, state.EventName))
		return true, err
	}

	// сначала выходим из ожидания, иначе следующее сообщение сохранится повторно
	if err := m.states.Clear(ctx, chatID, userID); err != nil {
		return true, m.serverError(ctx, chatID, msg.MessageID, "Clear state", err)
	}

	reply, putErr := m.triggers.PutAnswer(ctx, chatID, state.EventName, kind, media)

	if state.PromptMessageID != 0 {
		if err := m.messenger.DeleteMessage(ctx, chatID, state.PromptMessageID); err != nil {
			m.log.Warning("Error while delete prompt", chatID, state.PromptMessageID, err)
		}
	}

	var kb *requests.InlineKeyboardMarkup
	if putErr == nil {
		kb = keyboards.AnotherOneKeyboard(t, state.EventName)
	}
	_, err = m.messenger.SendMessage(ctx, chatID, msg.MessageID, reply, kb)
	return true, err
}

// Cancel кнопка отмены под приглашением promptMsgID.
// Возвращает текст для ответа на нажатие, пустой если отмена прошла.
func (m *Machine) Cancel(ctx context.Context, chatID, userID, promptMsgID int64) (string, error) {
	state, err := m.states.Get(ctx, chatID, userID)
	if err != nil {
		return "", err
	}
	// кнопку нажал не тот, кто ждет медиа, или приглашение устарело
	if !state.IsAwaiting() || state.PromptMessageID != promptMsgID {
		return m.triggers.Texts().ErrorMessages.NotYourPrompt, nil
	}

	if err := m.states.Clear(ctx, chatID, userID); err != nil {
		return "", err
	}

	if state.DeleteTrigger && state.TriggerMessageID != 0 {
		if err := m.messenger.DeleteMessage(ctx, chatID, state.TriggerMessageID); err != nil {
			m.log.Warning("Error while delete trigger message", chatID, state.TriggerMessageID, err)
		}
	}
	if err := m.messenger.DeleteMessage(ctx, chatID, promptMsgID); err != nil {
		m.log.Warning("Error while delete prompt", chatID, promptMsgID, err)
	}

	m.log.Debug("Authoring canceled", chatID, userID, state.EventName)
	return "", nil
}

// serverError сбой хранилища состояний: пишем в лог, пользователю общий ответ
func (m *Machine) serverError(ctx context.Context, chatID, replyTo int64, op string, err error) error {
	m.log.Warning(op, chatID, err)
	_, sendErr := m.messenger.SendMessage(ctx, chatID, replyTo, m.triggers.Texts().ErrorMessages.ServerError, nil)
	return sendErr
}
