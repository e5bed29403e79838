package update

import "trigger-bot/internal/database"

// Content содержимое входящего сообщения. Варианты: Text, Media, Other.
type Content interface {
	// Name тип содержимого для сообщений пользователю
	Name() string
	isContent()
}

type (
	Text struct {
		Body string
	}

	// Media файл, хранимый мессенджером, доступен по FileID
	Media struct {
		MediaKind database.MediaKind
		FileID    string
	}

	// Other содержимое, которое бот не хранит
	Other struct {
		Kind string
	}
)

func (Text) Name() string    { return string(database.MEDIA_TEXT) }
func (m Media) Name() string { return string(m.MediaKind) }
func (o Other) Name() string { return o.Kind }

func (Text) isContent()  {}
func (Media) isContent() {}
func (Other) isContent() {}

// Stored тип и значение для хранения ответа; false если содержимое не хранится.
func Stored(c Content) (database.MediaKind, string, bool) {
	switch v := c.(type) {
	case Text:
		return database.MEDIA_TEXT, v.Body, true
	case Media:
		return v.MediaKind, v.FileID, true
	}
	return "", "", false
}
