package bot

import (
	"context"

	"github.com/gin-gonic/gin"
)

type Hooks interface {
	SetHook(ctx context.Context, hookAddr, secret string) error
	DeleteHook(ctx context.Context) error
}

func (b *Bot) InitHooks(ctx context.Context, app *gin.Engine, hooks Hooks) error {
	b.log.Info("Init receiving endpoint...", b.cnf.Bot.WebhookPath)

	app.POST(b.cnf.Bot.WebhookPath, b.Receive)

	if b.cnf.Server.Host == "" {
		b.log.Warning("server.host is empty, webhook is not registered")
		return nil
	}

	b.log.Info("Setup webhook", b.cnf.WebhookURL())
	return hooks.SetHook(ctx, b.cnf.WebhookURL(), b.cnf.Bot.WebhookSecret)
}

func (b *Bot) DestroyHooks(ctx context.Context, hooks Hooks) {
	if b.cnf.Server.Host == "" {
		return
	}

	b.log.Info("Destroy webhook...")
	if err := hooks.DeleteHook(ctx); err != nil {
		b.log.Warning("Error while delete hook:", err)
	}
}
