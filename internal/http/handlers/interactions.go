package handlers

import (
	"errors"
	"net/http"

	"telegram_rps/internal/game"
	"telegram_rps/internal/logger"
	"telegram_rps/internal/service"
	"telegram_rps/internal/session"

	"github.com/gin-gonic/gin"
)

const initDataHeader = "X-Telegram-Init-Data"

type interactionRequest struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Choice    string `json:"choice"`
}

// Interactions единая точка входа для событий вне Telegram-бота.
// ping -> pong, start создает вызов, join разыгрывает его.
func (h *Handler) Interactions(c *gin.Context) {
	var req interactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	logger.Debug("interaction received", "type", req.Type, "session_id", req.SessionID)

	if req.Type == "ping" {
		c.JSON(http.StatusOK, gin.H{"type": "pong"})
		return
	}

	user := service.User{ID: req.UserID, Name: req.UserName}
	if h.BotToken != "" {
		verified, err := service.ValidateTelegramInitData(c.GetHeader(initDataHeader), h.BotToken, h.now())
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid init data"})
			return
		}
		user = verified
	}

	res, err := h.Games.Handle(c.Request.Context(), service.Event{
		Kind:      service.EventKind(req.Type),
		SessionID: req.SessionID,
		User:      user,
		Choice:    req.Choice,
	})
	if err != nil {
		status, msg := errorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	switch res.Kind {
	case service.EventStart:
		c.JSON(http.StatusCreated, gin.H{
			"session_id": res.Session.ID,
			"state":      res.Session.State.String(),
			"options":    h.Games.Options(),
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"winner_user_id": res.Outcome.WinnerUserID,
			"tie":            res.Outcome.IsTie(),
			"text":           res.Outcome.Text,
			"first":          res.Outcome.First,
			"second":         res.Outcome.Second,
		})
	}
}

// Options варианты в случайном порядке
func (h *Handler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"catalog": h.Games.Catalog().Name(),
		"options": h.Games.Options(),
	})
}

// errorStatus у каждого класса ошибки свой код ответа
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound, "session not found or already finished"
	case errors.Is(err, session.ErrDuplicateSession):
		return http.StatusConflict, "session already exists"
	case errors.Is(err, session.ErrInvalidSession):
		return http.StatusBadRequest, "session_id and user_id are required"
	case errors.Is(err, game.ErrUnknownOption):
		return http.StatusBadRequest, "unknown option"
	case errors.Is(err, service.ErrUnknownEvent):
		return http.StatusBadRequest, "unknown interaction type"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
