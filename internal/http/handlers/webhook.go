package handlers

import (
	"crypto/subtle"
	"net/http"

	"telegram_rps/internal/logger"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const secretHeader = "X-Telegram-Bot-Api-Secret-Token"

// TelegramWebhook принимает обновления от Telegram.
// Отклоненное событие (неизвестная команда, сыгранная партия) все равно 200,
// иначе Telegram будет повторять доставку.
func (h *Handler) TelegramWebhook(c *gin.Context) {
	if h.Bot == nil || !h.webhookAuthorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if err := h.Bot.HandleUpdate(c.Request.Context(), update); err != nil {
		logger.Debug("telegram update rejected", "update_id", update.UpdateID, "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) webhookAuthorized(c *gin.Context) bool {
	if h.WebhookSecret == "" {
		return false
	}
	secret := []byte(h.WebhookSecret)
	if subtle.ConstantTimeCompare([]byte(c.Param("secret")), secret) == 1 {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(c.GetHeader(secretHeader)), secret) == 1
}

// Health проверка живости
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.Version,
	})
}
