package bot

import (
	"context"
	"fmt"
	"html"

	"trigger-bot/internal/database"
	"trigger-bot/internal/keyboards"
	"trigger-bot/internal/messenger/update"
	"trigger-bot/internal/triggers"
)

var chatActions = map[database.MediaKind]string{
	database.MEDIA_TEXT:      "typing",
	database.MEDIA_STICKER:   "choose_sticker",
	database.MEDIA_PHOTO:     "upload_photo",
	database.MEDIA_VIDEO:     "upload_video",
	database.MEDIA_VOICE:     "record_voice",
	database.MEDIA_ANIMATION: "upload_document",
	database.MEDIA_AUDIO:     "upload_document",
}

func (b *Bot) processMessage(ctx context.Context, msg *update.Message) error {
	// сообщения каналов и других ботов не обрабатываем
	if !msg.FromHuman() {
		return nil
	}
	chatID := msg.Chat.ID

	cmd, _, isCmd := triggers.ParseCommand(msg.Text)

	// управление событиями работает и во время ожидания медиа
	if isCmd && (cmd == triggers.CMD_PUT_EVENT || cmd == triggers.CMD_DELETE_EVENT) {
		var reply string
		switch {
		case !b.allowed(msg.UserID()):
			reply = b.triggers.Texts().ErrorMessages.Forbidden
		case cmd == triggers.CMD_PUT_EVENT:
			reply = b.triggers.PutEvent(ctx, chatID, msg.Text)
		default:
			reply = b.triggers.DeleteEvent(ctx, chatID, msg.Text)
		}
		_, err := b.messenger.SendMessage(ctx, chatID, msg.MessageID, reply, nil)
		return err
	}

	handled, err := b.authoring.Consume(ctx, msg)
	if err != nil || handled {
		return err
	}

	if isCmd {
		switch cmd {
		case triggers.CMD_PUT_ANSWER:
			return b.authoring.ArmFromCommand(ctx, msg)
		case triggers.CMD_BROWSE:
			return b.browseCommand(ctx, msg)
		}
	}

	if msg.Text == "" {
		return nil
	}
	return b.reply(ctx, msg)
}

// reply ответ на сообщение, совпавшее с событием
func (b *Bot) reply(ctx context.Context, msg *update.Message) error {
	chatID := msg.Chat.ID

	answer, text, matched := b.triggers.Respond(ctx, chatID, msg.Text)
	if !matched {
		return nil
	}
	if answer == nil {
		_, err := b.messenger.SendMessage(ctx, chatID, 0, text, nil)
		return err
	}

	if action, ok := chatActions[answer.MediaKind]; ok {
		if err := b.messenger.SendChatAction(ctx, chatID, action); err != nil {
			b.log.Warning("Error while send chat action", chatID, err)
		}
	}
	_, err := b.messenger.SendMedia(ctx, chatID, msg.MessageID, answer.MediaKind, answer.Media)
	return err
}

// browseCommand "/trigger name" - кнопки просмотра ответов по видам
func (b *Bot) browseCommand(ctx context.Context, msg *update.Message) error {
	chatID := msg.Chat.ID

	e, errText := b.triggers.EventFromCommand(ctx, chatID, msg.Text)
	if e == nil {
		_, err := b.messenger.SendMessage(ctx, chatID, 0, errText, nil)
		return err
	}

	text := sprintfEscaped(b.triggers.Texts().SelectMediaKind, e.Name)
	_, err := b.messenger.SendMessage(ctx, chatID, 0, text, keyboards.BrowseKeyboard(chatID, e.Name))
	return err
}

func sprintfEscaped(format, name string) string {
	return fmt.Sprintf(format, html.EscapeString(name))
}
