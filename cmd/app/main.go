package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"telegram_rps/internal/bot"
	"telegram_rps/internal/config"
	"telegram_rps/internal/game"
	httpServer "telegram_rps/internal/http"
	"telegram_rps/internal/http/handlers"
	"telegram_rps/internal/logger"
	"telegram_rps/internal/metrics"
	"telegram_rps/internal/ratelimit"
	"telegram_rps/internal/service"
	"telegram_rps/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Version устанавливается при сборке
var Version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid config", "error", err)
	}

	logger.Init(cfg.LogLevel, cfg.JSONLogs())
	log := logger.Get()

	catalog, err := game.CatalogByName(cfg.GameCatalog)
	if err != nil {
		logger.Fatal("invalid game catalog", "error", err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	store := session.NewStore(session.WithTTL(cfg.SessionTTL))
	metrics.RegisterActiveSessions(prometheus.DefaultRegisterer, store.Len)
	games := service.NewGameService(store, game.NewEngine(catalog), m)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.SessionTTL > 0 {
		go games.RunJanitor(ctx, cfg.SessionSweepInterval)
		log.Info("session janitor started", "ttl", cfg.SessionTTL, "interval", cfg.SessionSweepInterval)
	}

	// лимитер: Redis, если настроен, иначе в памяти
	var limiter ratelimit.Limiter = ratelimit.Nop{}
	if cfg.RateLimit > 0 {
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit, cfg.RateWindow)
		if cfg.RedisAddr != "" {
			rdb, err := ratelimit.Connect(cfg.RedisAddr, cfg.RedisPassword)
			if err != nil {
				log.Warn("redis unavailable, using in-memory rate limiter", "error", err)
			} else {
				defer rdb.Close()
				limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimit, cfg.RateWindow)
				log.Info("redis rate limiter enabled", "addr", cfg.RedisAddr)
			}
		}
	}

	// бот поднимаем до HTTP сервера, чтобы вебхук сразу было куда отдавать
	var tgBot *bot.Bot
	if cfg.BotMode != config.BotModeOff {
		tgBot, err = bot.New(cfg.BotToken, games, limiter, m)
		if err != nil {
			logger.Fatal("failed to start bot", "error", err)
		}
	}

	gin.SetMode(gin.ReleaseMode)
	r := httpServer.NewRouter()
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	verifyToken := ""
	if cfg.VerifyInitData {
		verifyToken = cfg.BotToken
	}
	h := handlers.New(games, nil, "", verifyToken, Version)
	if tgBot != nil && cfg.BotMode == config.BotModeWebhook {
		h.Bot = tgBot
		h.WebhookSecret = cfg.WebhookSecret
	}
	httpServer.RegisterRoutes(r, h, limiter)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Info("server started", "port", cfg.AppPort, "version", Version, "catalog", catalog.Name())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	if tgBot != nil {
		switch cfg.BotMode {
		case config.BotModePolling:
			go func() {
				if err := tgBot.Start(); err != nil {
					log.Error("bot polling stopped", "error", err)
				}
			}()
			log.Info("bot started", "mode", cfg.BotMode)
		case config.BotModeWebhook:
			if cfg.WebhookURL != "" {
				link := strings.TrimRight(cfg.WebhookURL, "/") + "/telegram/webhook/" + cfg.WebhookSecret
				if err := tgBot.SetWebhook(link); err != nil {
					log.Error("failed to register webhook", "error", err)
				}
			} else {
				log.Warn("WEBHOOK_URL not set - webhook must be registered manually")
			}
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	if tgBot != nil && cfg.BotMode == config.BotModePolling {
		tgBot.Stop()
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
