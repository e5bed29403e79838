package requests

type (
	InlineKeyboardButton struct {
		Text                         string  `json:"text"`
		CallbackData                 string  `json:"callback_data,omitempty"`
		SwitchInlineQueryCurrentChat *string `json:"switch_inline_query_current_chat,omitempty"`
	}

	InlineKeyboardMarkup struct {
		InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
	}

	MessageRequest struct {
		ChatID           int64                 `json:"chat_id"`
		Text             string                `json:"text"`
		ParseMode        string                `json:"parse_mode,omitempty"`
		ReplyToMessageID int64                 `json:"reply_to_message_id,omitempty"`
		ReplyMarkup      *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
	}

	DeleteMessageRequest struct {
		ChatID    int64 `json:"chat_id"`
		MessageID int64 `json:"message_id"`
	}

	// без ReplyMarkup клавиатура убирается
	EditReplyMarkupRequest struct {
		ChatID      int64                 `json:"chat_id"`
		MessageID   int64                 `json:"message_id"`
		ReplyMarkup *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
	}

	ChatActionRequest struct {
		ChatID int64  `json:"chat_id"`
		Action string `json:"action"`
	}

	AnswerCallbackRequest struct {
		CallbackQueryID string `json:"callback_query_id"`
		Text            string `json:"text,omitempty"`
	}

	AnswerInlineQueryRequest struct {
		InlineQueryID string `json:"inline_query_id"`
		Results       []any  `json:"results"`
		CacheTime     int    `json:"cache_time"`
		NextOffset    string `json:"next_offset"`
		IsPersonal    bool   `json:"is_personal,omitempty"`
	}

	HookSetupRequest struct {
		Url            string   `json:"url"`
		SecretToken    string   `json:"secret_token,omitempty"`
		AllowedUpdates []string `json:"allowed_updates,omitempty"`
	}

	HookDeleteRequest struct {
		DropPendingUpdates bool `json:"drop_pending_updates"`
	}
)
