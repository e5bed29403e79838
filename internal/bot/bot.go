package bot

import (
	"context"
	"fmt"
	"net/http"

	"trigger-bot/internal/authoring"
	"trigger-bot/internal/config"
	"trigger-bot/internal/database"
	"trigger-bot/internal/logger"
	"trigger-bot/internal/messenger/update"
	"trigger-bot/internal/queue"
	"trigger-bot/internal/triggers"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const SECRET_HEADER = "X-Telegram-Bot-Api-Secret-Token"

type Messenger interface {
	authoring.Messenger
	SendMedia(ctx context.Context, chatID, replyTo int64, kind database.MediaKind, media string) (int64, error)
	SendChatAction(ctx context.Context, chatID int64, action string) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
	AnswerInlineQuery(ctx context.Context, queryID string, results []any, nextOffset string, cacheTime int) error
}

// Bot разбирает входящие обновления и раскладывает их по обработчикам.
type Bot struct {
	cnf       *config.Conf
	messenger Messenger
	triggers  *triggers.Service
	authoring *authoring.Machine
	queue     *queue.KeyQueue
	log       *logger.Logger

	// контекст задач очереди, отменяется при остановке
	ctx context.Context
}

func New(ctx context.Context, cnf *config.Conf, messenger Messenger, svc *triggers.Service, machine *authoring.Machine, q *queue.KeyQueue, log *logger.Logger) *Bot {
	return &Bot{
		cnf:       cnf,
		messenger: messenger,
		triggers:  svc,
		authoring: machine,
		queue:     q,
		log:       log,
		ctx:       ctx,
	}
}

// Receive обработчик вебхука. Обновление ставится в очередь, ответ сразу 200.
func (b *Bot) Receive(c *gin.Context) {
	cnf := c.MustGet("cnf").(*config.Conf)

	if cnf.Bot.WebhookSecret != "" && c.GetHeader(SECRET_HEADER) != cnf.Bot.WebhookSecret {
		b.log.Warning("Receive update with wrong secret from", c.ClientIP())
		c.Status(http.StatusUnauthorized)
		return
	}

	var upd update.Update
	if err := c.BindJSON(&upd); err != nil {
		b.log.Warning("Error while receive update", err)
		return
	}

	id := uuid.NewString()
	b.log.Debug("Receive update:", id, upd)

	b.queue.Enqueue(b.ctx, updateKey(&upd), func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, cnf.Queue.HandlerTimeout)
		defer cancel()

		if err := b.process(ctx, &upd); err != nil {
			b.log.Warning("Error while process update", id, upd.UpdateID, err)
		}
	})

	c.Status(http.StatusOK)
}

// updateKey обновления одного пользователя в одном чате обрабатываются по порядку
func updateKey(upd *update.Update) string {
	switch {
	case upd.Message != nil:
		return fmt.Sprintf("%d:%d", upd.Message.Chat.ID, upd.Message.UserID())
	case upd.CallbackQuery != nil:
		if m := upd.CallbackQuery.Message; m != nil {
			return fmt.Sprintf("%d:%d", m.Chat.ID, upd.CallbackQuery.From.ID)
		}
		return fmt.Sprintf("callback:%d", upd.CallbackQuery.From.ID)
	case upd.InlineQuery != nil:
		return fmt.Sprintf("inline:%d", upd.InlineQuery.From.ID)
	}
	return "other"
}

func (b *Bot) process(ctx context.Context, upd *update.Update) error {
	switch {
	case upd.Message != nil:
		return b.processMessage(ctx, upd.Message)
	case upd.CallbackQuery != nil:
		return b.processCallback(ctx, upd.CallbackQuery)
	case upd.InlineQuery != nil:
		return b.processInline(ctx, upd.InlineQuery)
	}
	return nil
}

// allowed может ли пользователь управлять событиями и ответами
func (b *Bot) allowed(userID int64) bool {
	return !b.cnf.Bot.SuperuserOnlyManagement || userID == b.cnf.Bot.SuperuserID
}
