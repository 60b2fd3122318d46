package http

import (
	"telegram_rps/internal/http/handlers"
	"telegram_rps/internal/http/middleware"
	"telegram_rps/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// NewRouter gin с recovery и access log
func NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	return r
}

// RegisterRoutes регистрирует игровые маршруты
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, limiter ratelimit.Limiter) {
	if limiter == nil {
		limiter = ratelimit.Nop{}
	}

	r.GET("/healthz", h.Health)
	r.GET("/options", h.Options)
	r.POST("/interactions", middleware.RateLimit(limiter), h.Interactions)

	// вебхук только при заданном секрете
	if h.WebhookSecret != "" {
		r.POST("/telegram/webhook", h.TelegramWebhook)
		r.POST("/telegram/webhook/:secret", h.TelegramWebhook)
	}
}
