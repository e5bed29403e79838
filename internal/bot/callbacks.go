package bot

import (
	"context"

	"trigger-bot/internal/keyboards"
	"trigger-bot/internal/messenger/update"
)

func (b *Bot) processCallback(ctx context.Context, cq *update.CallbackQuery) error {
	cb, ok := keyboards.ParseCallback(cq.Data)
	if !ok {
		b.log.Debug("Unknown callback data", cq.Data)
		return b.messenger.AnswerCallback(ctx, cq.ID, "")
	}

	switch cb := cb.(type) {
	case keyboards.Mock:
		return b.messenger.AnswerCallback(ctx, cq.ID, "")

	case keyboards.DeleteAnswer:
		text := b.triggers.Texts().ErrorMessages.Forbidden
		if b.allowed(cq.From.ID) {
			text = b.triggers.DeleteAnswer(ctx, cb.AnswerID)
		}
		return b.messenger.AnswerCallback(ctx, cq.ID, text)

	case keyboards.Cancel:
		if cq.Message == nil {
			return b.messenger.AnswerCallback(ctx, cq.ID, "")
		}
		text, err := b.authoring.Cancel(ctx, cq.Message.Chat.ID, cq.From.ID, cq.Message.MessageID)
		if err != nil {
			text = b.triggers.Texts().ErrorMessages.ServerError
		}
		if answerErr := b.messenger.AnswerCallback(ctx, cq.ID, text); answerErr != nil {
			b.log.Warning("Error while answer callback", cq.ID, answerErr)
		}
		return err

	case keyboards.AnotherOne:
		if err := b.messenger.AnswerCallback(ctx, cq.ID, ""); err != nil {
			b.log.Warning("Error while answer callback", cq.ID, err)
		}
		if cq.Message == nil {
			return nil
		}
		return b.authoring.ArmAnother(ctx, cq.Message.Chat.ID, cq.From.ID, cq.Message.MessageID, cb.EventName)
	}
	return nil
}
