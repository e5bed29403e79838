package bot

import (
	"context"
	"fmt"

	"trigger-bot/internal/database"
	"trigger-bot/internal/keyboards"
	"trigger-bot/internal/messenger/requests"
	"trigger-bot/internal/messenger/update"
	"trigger-bot/internal/texts"
)

// processInline страница ответов события по запросу "<chat_id>_<event>_<kind>"
func (b *Bot) processInline(ctx context.Context, iq *update.InlineQuery) error {
	q, next, items, ok := b.triggers.Browse(ctx, iq.Query, iq.Offset, b.cnf.Triggers.PageSize)
	if !ok || len(items) == 0 {
		return nil
	}

	results := inlineResults(b.triggers.Texts(), q.EventName, items)
	if len(results) == 0 {
		return nil
	}
	return b.messenger.AnswerInlineQuery(ctx, iq.ID, results, next, b.cnf.Triggers.InlineCacheTime)
}

func inlineResults(t texts.Texts, eventName string, items []database.TriggerAnswer) []any {
	results := make([]any, 0, len(items))
	for _, a := range items {
		markup := keyboards.ManageAnswerKeyboard(t, eventName, a.ID)

		switch a.MediaKind {
		case database.MEDIA_TEXT:
			results = append(results, requests.NewArticle(fmt.Sprintf("trigger_%d", a.ID), a.Media, fmt.Sprintf("#%d", a.ID), a.Media, markup))
		case database.MEDIA_ANIMATION:
			results = append(results, requests.NewCachedGif(fmt.Sprintf("rect_%d", a.ID), a.Media, markup))
		case database.MEDIA_STICKER:
			results = append(results, requests.NewCachedSticker(fmt.Sprintf("rect_%d", a.ID), a.Media, markup))
		}
	}
	return results
}
