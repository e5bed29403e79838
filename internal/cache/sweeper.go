package cache

import (
	"context"
	"time"

	"trigger-bot/internal/logger"

	"github.com/robfig/cron/v3"
)

type Purger interface {
	PurgeExpiredStates(ctx context.Context) (int64, error)
}

// StartSweeper по расписанию удаляет просроченные состояния ожидания.
func StartSweeper(schedule string, purger Purger, log *logger.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		n, err := purger.PurgeExpiredStates(ctx)
		if err != nil {
			log.Warning("Error while purge expired states", err)
			return
		}
		if n > 0 {
			log.Debug("Purged expired states:", n)
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
