package update

import (
	"trigger-bot/internal/database"
)

type (
	// Update входящее событие вебхука
	Update struct {
		UpdateID      int64          `json:"update_id"`
		Message       *Message       `json:"message,omitempty"`
		CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
		InlineQuery   *InlineQuery   `json:"inline_query,omitempty"`
	}

	User struct {
		ID        int64  `json:"id"`
		IsBot     bool   `json:"is_bot"`
		FirstName string `json:"first_name"`
		Username  string `json:"username,omitempty"`
	}

	Chat struct {
		ID   int64  `json:"id"`
		Type string `json:"type"`
	}

	File struct {
		FileID       string `json:"file_id"`
		FileUniqueID string `json:"file_unique_id"`
	}

	Message struct {
		MessageID int64  `json:"message_id"`
		From      *User  `json:"from,omitempty"`
		Chat      Chat   `json:"chat"`
		Date      int64  `json:"date"`
		Text      string `json:"text,omitempty"`
		Caption   string `json:"caption,omitempty"`

		Animation *File  `json:"animation,omitempty"`
		Sticker   *File  `json:"sticker,omitempty"`
		Photo     []File `json:"photo,omitempty"`
		Video     *File  `json:"video,omitempty"`
		Voice     *File  `json:"voice,omitempty"`
		Audio     *File  `json:"audio,omitempty"`
		Document  *File  `json:"document,omitempty"`

		Location *struct{} `json:"location,omitempty"`
		Contact  *struct{} `json:"contact,omitempty"`
		Poll     *struct{} `json:"poll,omitempty"`
	}

	CallbackQuery struct {
		ID              string   `json:"id"`
		From            User     `json:"from"`
		Message         *Message `json:"message,omitempty"`
		InlineMessageID string   `json:"inline_message_id,omitempty"`
		Data            string   `json:"data"`
	}

	InlineQuery struct {
		ID     string `json:"id"`
		From   User   `json:"from"`
		Query  string `json:"query"`
		Offset string `json:"offset"`
	}
)

// UserID отправитель сообщения, 0 для сообщений канала.
func (m *Message) UserID() int64 {
	if m.From == nil {
		return 0
	}
	return m.From.ID
}

// FromHuman отправлено ли сообщение человеком.
func (m *Message) FromHuman() bool {
	return m.From != nil && !m.From.IsBot
}

// Content разбирает содержимое сообщения в один из вариантов.
func (m *Message) Content() Content {
	switch {
	// у анимации телеграм дублирует поле document
	case m.Animation != nil:
		return Media{MediaKind: database.MEDIA_ANIMATION, FileID: m.Animation.FileID}
	case m.Sticker != nil:
		return Media{MediaKind: database.MEDIA_STICKER, FileID: m.Sticker.FileID}
	case len(m.Photo) > 0:
		// последний размер самый большой
		return Media{MediaKind: database.MEDIA_PHOTO, FileID: m.Photo[len(m.Photo)-1].FileID}
	case m.Video != nil:
		return Media{MediaKind: database.MEDIA_VIDEO, FileID: m.Video.FileID}
	case m.Voice != nil:
		return Media{MediaKind: database.MEDIA_VOICE, FileID: m.Voice.FileID}
	case m.Audio != nil:
		return Media{MediaKind: database.MEDIA_AUDIO, FileID: m.Audio.FileID}
	case m.Document != nil:
		return Other{Kind: "document"}
	case m.Location != nil:
		return Other{Kind: "location"}
	case m.Contact != nil:
		return Other{Kind: "contact"}
	case m.Poll != nil:
		return Other{Kind: "poll"}
	case m.Text != "":
		return Text{Body: m.Text}
	}
	return Other{Kind: "unknown"}
}
