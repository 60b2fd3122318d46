package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"telegram_rps/internal/logger"
	"telegram_rps/internal/metrics"
	"telegram_rps/internal/ratelimit"
	"telegram_rps/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender исходящая часть Bot API, *tgbotapi.BotAPI ей удовлетворяет
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot принимает команды и нажатия кнопок из Telegram и превращает их в игровые события
type Bot struct {
	api     *tgbotapi.BotAPI
	sender  Sender
	games   *service.GameService
	limiter ratelimit.Limiter
	metrics *metrics.Metrics
	stopCh  chan struct{}
	wg      sync.WaitGroup
	log     *slog.Logger
}

// New авторизуется в Bot API
func New(token string, games *service.GameService, limiter ratelimit.Limiter, m *metrics.Metrics) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("bot: authorize: %w", err)
	}

	b := NewWithSender(api, games, limiter, m)
	b.api = api
	b.log.Info("bot authorized", "username", api.Self.UserName)
	return b, nil
}

// NewWithSender бот без собственного подключения (вебхук, тесты)
func NewWithSender(sender Sender, games *service.GameService, limiter ratelimit.Limiter, m *metrics.Metrics) *Bot {
	if limiter == nil {
		limiter = ratelimit.Nop{}
	}
	if m == nil {
		m = metrics.New(nil)
	}
	return &Bot{
		sender:  sender,
		games:   games,
		limiter: limiter,
		metrics: m,
		stopCh:  make(chan struct{}),
		log:     logger.With("component", "bot"),
	}
}

// Start запускает long polling. Блокирует до Stop.
func (b *Bot) Start() error {
	if b.api == nil {
		return errors.New("bot: polling requires an authorized api client")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.log.Info("starting bot update loop")

	for {
		select {
		case <-b.stopCh:
			b.log.Info("stopping bot update loop")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}

			b.wg.Add(1)
			go func(update tgbotapi.Update) {
				defer b.wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := b.HandleUpdate(ctx, update); err != nil {
					b.log.Debug("update rejected", "update_id", update.UpdateID, "error", err)
				}
			}(update)
		}
	}
}

// Stop плавно останавливает бота
func (b *Bot) Stop() {
	b.log.Info("stopping bot...")
	close(b.stopCh)
	if b.api != nil {
		b.api.StopReceivingUpdates()
	}

	// ждем обработчики, но не дольше 10 секунд
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.log.Info("bot stopped gracefully")
	case <-time.After(10 * time.Second):
		b.log.Warn("bot shutdown timeout, some handlers may not have completed")
	}
}

// SetWebhook регистрирует URL вебхука в Telegram
func (b *Bot) SetWebhook(link string) error {
	wh, err := tgbotapi.NewWebhook(link)
	if err != nil {
		return fmt.Errorf("bot: webhook url: %w", err)
	}
	if _, err := b.sender.Request(wh); err != nil {
		return fmt.Errorf("bot: set webhook: %w", err)
	}
	b.log.Info("webhook registered")
	return nil
}

// HandleUpdate обрабатывает одно обновление. Ошибка означает, что событие отклонено,
// пользователю при этом уже отправлен ответ, если это возможно.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	switch {
	case update.CallbackQuery != nil:
		return b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		return b.handleCommand(ctx, update.Message)
	default:
		return fmt.Errorf("%w: update %d has no command or callback", service.ErrUnknownEvent, update.UpdateID)
	}
}
