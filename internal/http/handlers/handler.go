package handlers

import (
	"context"
	"time"

	"telegram_rps/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// UpdateHandler принимает обновления Telegram (реализует bot.Bot)
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update) error
}

type Handler struct {
	Games *service.GameService
	Bot   UpdateHandler

	// секрет в пути вебхука, пустой = вебхук выключен
	WebhookSecret string
	// если задан, /interactions требует подписанную init_data Telegram WebApp
	BotToken string

	Version string
	now     func() time.Time
}

func New(games *service.GameService, bot UpdateHandler, webhookSecret, botToken, version string) *Handler {
	return &Handler{
		Games:         games,
		Bot:           bot,
		WebhookSecret: webhookSecret,
		BotToken:      botToken,
		Version:       version,
		now:           time.Now,
	}
}
