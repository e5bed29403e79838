package cache

import "time"

type StateTag string

const (
	STATE_IDLE StateTag = "idle"
	// ожидание медиа для события
	STATE_AWAITING_MEDIA StateTag = "awaiting_media"
)

type (
	// Chat состояние диалога одного пользователя в одном чате
	Chat struct {
		Tag StateTag `json:"tag"`

		// имя события, для которого ждем медиа
		EventName string `json:"event_name,omitempty"`
		// сообщение бота "жду медиа", удаляется после ответа или отмены
		PromptMessageID int64 `json:"prompt_message_id,omitempty"`
		// сообщение, запустившее ожидание
		TriggerMessageID int64 `json:"trigger_message_id,omitempty"`
		// удалять ли TriggerMessageID при отмене (его отправил человек, а не бот)
		DeleteTrigger bool `json:"delete_trigger,omitempty"`

		ArmedAt time.Time `json:"armed_at"`
	}
)

func Idle() Chat {
	return Chat{Tag: STATE_IDLE}
}

func (c Chat) IsAwaiting() bool {
	return c.Tag == STATE_AWAITING_MEDIA
}

// Expired истекло ли ожидание; ttl 0 - не истекает.
func (c Chat) Expired(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 || c.ArmedAt.IsZero() {
		return false
	}
	return now.Sub(c.ArmedAt) >= ttl
}
