package keyboards

import (
	"fmt"

	"trigger-bot/internal/database"
	"trigger-bot/internal/messenger/requests"
	"trigger-bot/internal/texts"
)

// виды ответов, которые можно добавить и просмотреть
var BrowseKinds = []database.MediaKind{database.MEDIA_TEXT, database.MEDIA_ANIMATION, database.MEDIA_STICKER}

func single(text string, cb Callback) *requests.InlineKeyboardMarkup {
	return &requests.InlineKeyboardMarkup{
		InlineKeyboard: [][]requests.InlineKeyboardButton{{{Text: text, CallbackData: cb.Data()}}},
	}
}

// CancelKeyboard кнопка отмены под приглашением прислать ответ
func CancelKeyboard(t texts.Texts, cb Cancel) *requests.InlineKeyboardMarkup {
	return single(t.Buttons.Cancel, cb)
}

func AnotherOneKeyboard(t texts.Texts, eventName string) *requests.InlineKeyboardMarkup {
	return single(t.Buttons.AnotherOne, AnotherOne{EventName: eventName})
}

// BrowseKeyboard по кнопке на каждый вид ответа. Кнопка открывает inline запрос в текущем чате.
func BrowseKeyboard(chatID int64, eventName string) *requests.InlineKeyboardMarkup {
	row := make([]requests.InlineKeyboardButton, 0, len(BrowseKinds))
	for _, kind := range BrowseKinds {
		query := fmt.Sprintf("%d_%s_%s", chatID, eventName, kind)
		row = append(row, requests.InlineKeyboardButton{Text: string(kind), SwitchInlineQueryCurrentChat: &query})
	}
	return &requests.InlineKeyboardMarkup{InlineKeyboard: [][]requests.InlineKeyboardButton{row}}
}

// ManageAnswerKeyboard кнопка удаления под ответом в inline выдаче
func ManageAnswerKeyboard(t texts.Texts, eventName string, answerID int64) *requests.InlineKeyboardMarkup {
	return single(fmt.Sprintf(t.Buttons.DeleteAnswer, eventName, answerID), DeleteAnswer{AnswerID: answerID})
}
