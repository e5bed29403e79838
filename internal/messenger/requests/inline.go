package requests

type (
	InputTextMessageContent struct {
		MessageText string `json:"message_text"`
		ParseMode   string `json:"parse_mode,omitempty"`
	}

	InlineQueryResultArticle struct {
		Type                string                  `json:"type"`
		ID                  string                  `json:"id"`
		Title               string                  `json:"title"`
		Description         string                  `json:"description,omitempty"`
		InputMessageContent InputTextMessageContent `json:"input_message_content"`
		ReplyMarkup         *InlineKeyboardMarkup   `json:"reply_markup,omitempty"`
	}

	InlineQueryResultCachedGif struct {
		Type        string                `json:"type"`
		ID          string                `json:"id"`
		GifFileID   string                `json:"gif_file_id"`
		ReplyMarkup *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
	}

	InlineQueryResultCachedSticker struct {
		Type          string                `json:"type"`
		ID            string                `json:"id"`
		StickerFileID string                `json:"sticker_file_id"`
		ReplyMarkup   *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
	}
)

func NewArticle(id, title, description, text string, markup *InlineKeyboardMarkup) InlineQueryResultArticle {
	return InlineQueryResultArticle{
		Type:                "article",
		ID:                  id,
		Title:               title,
		Description:         description,
		InputMessageContent: InputTextMessageContent{MessageText: text},
		ReplyMarkup:         markup,
	}
}

func NewCachedGif(id, fileID string, markup *InlineKeyboardMarkup) InlineQueryResultCachedGif {
	return InlineQueryResultCachedGif{Type: "gif", ID: id, GifFileID: fileID, ReplyMarkup: markup}
}

func NewCachedSticker(id, fileID string, markup *InlineKeyboardMarkup) InlineQueryResultCachedSticker {
	return InlineQueryResultCachedSticker{Type: "sticker", ID: id, StickerFileID: fileID, ReplyMarkup: markup}
}
