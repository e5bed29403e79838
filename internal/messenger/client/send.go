package client

import (
	"context"
	"encoding/json"
	"fmt"

	"trigger-bot/internal/database"
	"trigger-bot/internal/messenger/requests"
)

const PARSE_MODE_HTML = "HTML"

type sentMessage struct {
	MessageID int64 `json:"message_id"`
}

func messageID(raw json.RawMessage) (int64, error) {
	var m sentMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return 0, fmt.Errorf("decode sent message: %w", err)
	}
	return m.MessageID, nil
}

// SendMessage отправить текст в чат. replyTo 0 - без ответа на сообщение.
func (c *Client) SendMessage(ctx context.Context, chatID, replyTo int64, text string, keyboard *requests.InlineKeyboardMarkup) (int64, error) {
	return c.sendText(ctx, chatID, replyTo, text, PARSE_MODE_HTML, keyboard)
}

// parseMode "" - текст уходит как есть, без разметки
func (c *Client) sendText(ctx context.Context, chatID, replyTo int64, text, parseMode string, keyboard *requests.InlineKeyboardMarkup) (int64, error) {
	data := requests.MessageRequest{
		ChatID:           chatID,
		Text:             text,
		ParseMode:        parseMode,
		ReplyToMessageID: replyTo,
		ReplyMarkup:      keyboard,
	}

	r, err := c.Invoke(ctx, "sendMessage", data)
	if err != nil {
		return 0, err
	}
	return messageID(r)
}

var mediaMethods = map[database.MediaKind][2]string{
	database.MEDIA_PHOTO:     {"sendPhoto", "photo"},
	database.MEDIA_ANIMATION: {"sendAnimation", "animation"},
	database.MEDIA_STICKER:   {"sendSticker", "sticker"},
	database.MEDIA_VIDEO:     {"sendVideo", "video"},
	database.MEDIA_VOICE:     {"sendVoice", "voice"},
	database.MEDIA_AUDIO:     {"sendAudio", "audio"},
}

// SendMedia отправить сохраненный файл по file_id.
// Текст отправляется обычным сообщением без parse_mode: это сырой текст пользователя.
func (c *Client) SendMedia(ctx context.Context, chatID, replyTo int64, kind database.MediaKind, media string) (int64, error) {
	if kind == database.MEDIA_TEXT {
		return c.sendText(ctx, chatID, replyTo, media, "", nil)
	}

	m, ok := mediaMethods[kind]
	if !ok {
		return 0, fmt.Errorf("unsupported media kind: %s", kind)
	}

	data := map[string]any{
		"chat_id": chatID,
		m[1]:      media,
	}
	if replyTo != 0 {
		data["reply_to_message_id"] = replyTo
	}

	r, err := c.Invoke(ctx, m[0], data)
	if err != nil {
		return 0, err
	}
	return messageID(r)
}

func (c *Client) DeleteMessage(ctx context.Context, chatID, msgID int64) error {
	_, err := c.Invoke(ctx, "deleteMessage", requests.DeleteMessageRequest{ChatID: chatID, MessageID: msgID})
	return err
}

// RemoveKeyboard убрать инлайн клавиатуру у сообщения.
func (c *Client) RemoveKeyboard(ctx context.Context, chatID, msgID int64) error {
	_, err := c.Invoke(ctx, "editMessageReplyMarkup", requests.EditReplyMarkupRequest{ChatID: chatID, MessageID: msgID})
	return err
}

func (c *Client) SendChatAction(ctx context.Context, chatID int64, action string) error {
	_, err := c.Invoke(ctx, "sendChatAction", requests.ChatActionRequest{ChatID: chatID, Action: action})
	return err
}

func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string) error {
	_, err := c.Invoke(ctx, "answerCallbackQuery", requests.AnswerCallbackRequest{CallbackQueryID: callbackID, Text: text})
	return err
}

func (c *Client) AnswerInlineQuery(ctx context.Context, queryID string, results []any, nextOffset string, cacheTime int) error {
	data := requests.AnswerInlineQueryRequest{
		InlineQueryID: queryID,
		Results:       results,
		CacheTime:     cacheTime,
		NextOffset:    nextOffset,
	}
	_, err := c.Invoke(ctx, "answerInlineQuery", data)
	return err
}
