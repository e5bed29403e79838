package database

import (
	"errors"
	"time"
)

type MatchMode string

const (
	// вхождение подстроки без учета регистра
	MATCH_LITERAL MatchMode = "text"
	// регулярное выражение без учета регистра
	MATCH_REGEX MatchMode = "regex"
)

type MediaKind string

const (
	MEDIA_TEXT      MediaKind = "text"
	MEDIA_PHOTO     MediaKind = "photo"
	MEDIA_ANIMATION MediaKind = "animation"
	MEDIA_STICKER   MediaKind = "sticker"
	MEDIA_VIDEO     MediaKind = "video"
	MEDIA_VOICE     MediaKind = "voice"
	MEDIA_AUDIO     MediaKind = "audio"
)

var ErrNotFound = errors.New("record not found")

func (m MatchMode) Valid() bool {
	return m == MATCH_LITERAL || m == MATCH_REGEX
}

func ParseMediaKind(s string) (MediaKind, bool) {
	k := MediaKind(s)
	switch k {
	case MEDIA_TEXT, MEDIA_PHOTO, MEDIA_ANIMATION, MEDIA_STICKER, MEDIA_VIDEO, MEDIA_VOICE, MEDIA_AUDIO:
		return k, true
	}
	return "", false
}

type (
	// TriggerEvent шаблон, на который бот отвечает в конкретном чате
	TriggerEvent struct {
		ID        int64     `json:"id"`
		ChatID    int64     `json:"chat_id"`
		Name      string    `json:"name"`
		Pattern   string    `json:"pattern"`
		MatchMode MatchMode `json:"match_mode"`
		IsActive  bool      `json:"is_active"`
		CreatedAt time.Time `json:"created_at"`
	}

	// TriggerAnswer один из ответов на событие.
	// IsActive сбрасывается в false после показа, пока не будут показаны все ответы события.
	TriggerAnswer struct {
		ID             int64     `json:"id"`
		TriggerEventID int64     `json:"trigger_event_id"`
		MediaKind      MediaKind `json:"media_kind"`
		// текст или file_id медиа
		Media     string    `json:"media"`
		IsActive  bool      `json:"is_active"`
		CreatedAt time.Time `json:"created_at"`
	}
)
