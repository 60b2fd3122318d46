package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	BotModeOff     = "off"
	BotModePolling = "polling"
	BotModeWebhook = "webhook"
)

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"3000"`

	BotToken      string `env:"BOT_TOKEN"`
	BotMode       string `env:"BOT_MODE" envDefault:"polling"`
	WebhookURL    string `env:"WEBHOOK_URL"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
	// проверять подпись init_data на /interactions
	VerifyInitData bool `env:"VERIFY_INIT_DATA" envDefault:"false"`

	GameCatalog          string        `env:"GAME_CATALOG" envDefault:"classic"`
	SessionTTL           time.Duration `env:"SESSION_TTL" envDefault:"0s"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RateLimit     int           `env:"RATE_LIMIT" envDefault:"20"`
	RateWindow    time.Duration `env:"RATE_WINDOW" envDefault:"1m"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load читает .env (если есть) и переменные окружения
func Load() (Config, error) {
	// .env не обязателен, в проде переменные приходят из окружения
	_ = godotenv.Load()
	return Parse()
}

// Parse только переменные окружения, без .env
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.BotMode {
	case BotModeOff:
	case BotModePolling:
		if c.BotToken == "" {
			return errors.New("config: BOT_TOKEN is required for polling mode")
		}
	case BotModeWebhook:
		if c.BotToken == "" || c.WebhookSecret == "" {
			return errors.New("config: BOT_TOKEN and WEBHOOK_SECRET are required for webhook mode")
		}
	default:
		return fmt.Errorf("config: unknown BOT_MODE %q", c.BotMode)
	}

	if c.VerifyInitData && c.BotToken == "" {
		return errors.New("config: VERIFY_INIT_DATA requires BOT_TOKEN")
	}
	if c.SessionTTL < 0 {
		return errors.New("config: SESSION_TTL must not be negative")
	}
	if c.RateLimit < 0 {
		return errors.New("config: RATE_LIMIT must not be negative")
	}
	return nil
}

func (c Config) JSONLogs() bool {
	return c.LogFormat == "json"
}
