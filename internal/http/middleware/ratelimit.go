package middleware

import (
	"net/http"

	"telegram_rps/internal/logger"
	"telegram_rps/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimit ограничивает запросы по IP клиента. Ошибка лимитера пропускает запрос.
func RateLimit(l ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := l.Allow(c.Request.Context(), "ip:"+c.ClientIP())
		if err != nil {
			logger.Warn("rate limiter failed, allowing", "error", err)
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
