package bot

import (
	"math/rand"
	"strings"

	"telegram_rps/internal/game"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	textChallenge      = "Вызов на камень-ножницы-бумага от %s"
	textAccept         = "Принять"
	textPickChoice     = "%s, какой твой выбор?"
	textNiceChoice     = "Отличный выбор "
	textNotFound       = "Игра не найдена или уже завершена"
	textDuplicate      = "Такая игра уже создана"
	textUnknownOption  = "Неизвестный вариант. Доступно: "
	textUnknownCommand = "Неизвестная команда, см. /help"
	textUnknownAction  = "Неизвестное действие"
	textRateLimited    = "Слишком часто, попробуй чуть позже"
	textInternal       = "Что-то пошло не так"
)

var emojis = []string{"😭", "😄", "😌", "🤓", "😎", "😤", "🤖", "😶‍🌫️", "🌏", "📸", "💿", "👋", "🌊", "✨"}

func randomEmoji() string {
	return emojis[rand.Intn(len(emojis))]
}

func helpMessage(c *game.Catalog) string {
	var sb strings.Builder
	sb.WriteString("Камень-ножницы-бумага на двоих\n\n")
	sb.WriteString("/challenge <вариант> - бросить вызов чату\n")
	sb.WriteString("/test - проверка связи\n\n")
	sb.WriteString("Варианты: ")
	sb.WriteString(optionList(c))
	return sb.String()
}

func optionList(c *game.Catalog) string {
	opts := c.Options()
	parts := make([]string, 0, len(opts))
	for _, o := range opts {
		parts = append(parts, o.Value+" ("+o.Label+")")
	}
	return strings.Join(parts, ", ")
}

// choiceKeyboard по кнопке в ряд, порядок уже перемешан сервисом
func choiceKeyboard(sessionID string, opts []game.Option) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(opts))
	for _, o := range opts {
		text := o.Label
		if o.Description != "" {
			text += " - " + o.Description
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(text, selectPrefix+sessionID+":"+o.Value),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
