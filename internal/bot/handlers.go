package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"telegram_rps/internal/game"
	"telegram_rps/internal/service"
	"telegram_rps/internal/session"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	acceptPrefix = "accept_button_"
	selectPrefix = "select_choice_"
)

var errRateLimited = errors.New("rate limited")

// handleCommand обрабатывает команды
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil || msg.Chat == nil {
		return fmt.Errorf("%w: command without sender", service.ErrUnknownEvent)
	}
	if !b.allow(ctx, msg.From.ID) {
		b.reply(msg, textRateLimited)
		return errRateLimited
	}

	switch msg.Command() {
	case "start", "help":
		b.reply(msg, helpMessage(b.games.Catalog()))
		return nil

	case "test":
		b.reply(msg, "hello world "+randomEmoji())
		return nil

	case "challenge":
		return b.handleChallenge(ctx, msg)

	default:
		b.reply(msg, textUnknownCommand)
		return fmt.Errorf("%w: command %q", service.ErrUnknownEvent, msg.Command())
	}
}

// handleChallenge создает вызов. ID партии = чат + ID сообщения с командой.
func (b *Bot) handleChallenge(ctx context.Context, msg *tgbotapi.Message) error {
	catalog := b.games.Catalog()
	choice := matchOption(catalog, msg.CommandArguments())
	sessionID := sessionIDFor(msg.Chat.ID, msg.MessageID)

	_, err := b.games.Start(ctx, sessionID, userOf(msg.From), choice)
	if err != nil {
		b.reply(msg, errorText(err, catalog))
		return err
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(textChallenge, msg.From.String()))
	out.ReplyToMessageID = msg.MessageID
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(textAccept, acceptPrefix+sessionID),
		),
	)
	if _, err := b.sender.Send(out); err != nil {
		// партия уже создана, ошибка отправки на нее не влияет
		b.log.Error("failed to send challenge", "session_id", sessionID, "error", err)
	}
	return nil
}

// handleCallback обрабатывает нажатия inline-кнопок
func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) error {
	if cq.From == nil || cq.Message == nil || cq.Message.Chat == nil {
		b.answer(cq, textUnknownAction, false)
		return fmt.Errorf("%w: callback without sender or message", service.ErrUnknownEvent)
	}
	if !b.allow(ctx, cq.From.ID) {
		b.answer(cq, textRateLimited, true)
		return errRateLimited
	}

	switch {
	case strings.HasPrefix(cq.Data, acceptPrefix):
		return b.handleAccept(cq, strings.TrimPrefix(cq.Data, acceptPrefix))

	case strings.HasPrefix(cq.Data, selectPrefix):
		sessionID, choice, ok := strings.Cut(strings.TrimPrefix(cq.Data, selectPrefix), ":")
		if !ok {
			b.answer(cq, textUnknownAction, false)
			return fmt.Errorf("%w: malformed callback %q", service.ErrUnknownEvent, cq.Data)
		}
		return b.handleSelect(ctx, cq, sessionID, choice)

	default:
		b.answer(cq, textUnknownAction, false)
		return fmt.Errorf("%w: callback %q", service.ErrUnknownEvent, cq.Data)
	}
}

// handleAccept показывает варианты в случайном порядке и убирает сообщение с вызовом
func (b *Bot) handleAccept(cq *tgbotapi.CallbackQuery, sessionID string) error {
	if sessionID == "" {
		b.answer(cq, textUnknownAction, false)
		return fmt.Errorf("%w: empty session id", service.ErrUnknownEvent)
	}
	b.answer(cq, "", false)

	chatID := cq.Message.Chat.ID
	out := tgbotapi.NewMessage(chatID, fmt.Sprintf(textPickChoice, cq.From.String()))
	out.ReplyMarkup = choiceKeyboard(sessionID, b.games.Options())

	if _, err := b.sender.Send(out); err != nil {
		b.log.Error("failed to send choices", "session_id", sessionID, "error", err)
		return nil
	}

	if _, err := b.sender.Request(tgbotapi.NewDeleteMessage(chatID, cq.Message.MessageID)); err != nil {
		b.log.Warn("failed to delete challenge message", "session_id", sessionID, "error", err)
	}
	return nil
}

// handleSelect второй игрок сделал выбор, разыгрываем партию
func (b *Bot) handleSelect(ctx context.Context, cq *tgbotapi.CallbackQuery, sessionID, choice string) error {
	outcome, err := b.games.Join(ctx, sessionID, userOf(cq.From), choice)
	if err != nil {
		b.answer(cq, errorText(err, b.games.Catalog()), true)
		return err
	}
	b.answer(cq, "", false)

	chatID := cq.Message.Chat.ID
	if _, err := b.sender.Send(tgbotapi.NewMessage(chatID, outcome.Text)); err != nil {
		b.log.Error("failed to send result", "session_id", sessionID, "error", err)
	}

	// без reply_markup Telegram убирает клавиатуру
	edit := tgbotapi.NewEditMessageText(chatID, cq.Message.MessageID, textNiceChoice+randomEmoji())
	if _, err := b.sender.Send(edit); err != nil {
		b.log.Warn("failed to update choice message", "session_id", sessionID, "error", err)
	}
	return nil
}

func (b *Bot) allow(ctx context.Context, userID int64) bool {
	ok, err := b.limiter.Allow(ctx, "tg:"+strconv.FormatInt(userID, 10))
	if err != nil {
		// лимитер не должен ломать игру
		b.log.Warn("rate limiter failed, allowing", "user_id", userID, "error", err)
		return true
	}
	if !ok {
		b.metrics.RateLimited.Inc()
	}
	return ok
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ReplyToMessageID = msg.MessageID
	if _, err := b.sender.Send(out); err != nil {
		b.log.Error("failed to send reply", "chat_id", msg.Chat.ID, "error", err)
	}
}

func (b *Bot) answer(cq *tgbotapi.CallbackQuery, text string, alert bool) {
	cfg := tgbotapi.NewCallback(cq.ID, text)
	cfg.ShowAlert = alert
	if _, err := b.sender.Request(cfg); err != nil {
		b.log.Warn("failed to answer callback", "callback_id", cq.ID, "error", err)
	}
}

func sessionIDFor(chatID int64, messageID int) string {
	return strconv.FormatInt(chatID, 10) + "_" + strconv.Itoa(messageID)
}

func userOf(u *tgbotapi.User) service.User {
	return service.User{ID: strconv.FormatInt(u.ID, 10), Name: u.String()}
}

// matchOption принимает значение или подпись варианта без учета регистра
func matchOption(c *game.Catalog, arg string) string {
	arg = strings.TrimSpace(arg)
	for _, opt := range c.Options() {
		if strings.EqualFold(arg, opt.Value) || strings.EqualFold(arg, opt.Label) {
			return opt.Value
		}
	}
	return arg
}

// errorText у каждой ошибки свой ответ пользователю
func errorText(err error, c *game.Catalog) string {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return textNotFound
	case errors.Is(err, session.ErrDuplicateSession):
		return textDuplicate
	case errors.Is(err, game.ErrUnknownOption):
		return textUnknownOption + optionList(c)
	case errors.Is(err, service.ErrUnknownEvent):
		return textUnknownAction
	default:
		return textInternal
	}
}
