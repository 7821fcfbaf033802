package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	DBFile      string   `env:"DB_FILE,required,notEmpty"` // sqlite path, postgres:// or mongodb:// url
	DBMaxConns  int      `env:"DB_MAX_CONNS" envDefault:"5"`
	APIPassword string   `env:"API_PASSWORD,required,notEmpty"`
	BotToken    string   `env:"BOT_TOKEN,required,notEmpty"`
	TelegramAPI string   `env:"TELEGRAM_API" envDefault:"https://api.telegram.org/bot%s/%s"` // bot api endpoint format
	HTTPAddr    string   `env:"HTTP_ADDR" envDefault:":3000"`
	RateLimit   int      `env:"RATE_LIMIT" envDefault:"120"` // requests per minute per IP
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
	NatsURL     string   `env:"NATS_URL"`
	NatsToken   string   `env:"NATS_TOKEN"`
	LogDir      string   `env:"LOG_DIR"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads the CARDBOT_* environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "CARDBOT_"}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBMaxConns <= 0 {
		return Config{}, fmt.Errorf("CARDBOT_DB_MAX_CONNS must be positive, got %d", cfg.DBMaxConns)
	}
	if cfg.RateLimit <= 0 {
		return Config{}, fmt.Errorf("CARDBOT_RATE_LIMIT must be positive, got %d", cfg.RateLimit)
	}
	return cfg, nil
}
