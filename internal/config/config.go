package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	CacheDriverLRU   = "lru"
	CacheDriverRedis = "redis"
	CacheDriverNone  = "none"
)

type Config struct {
	Environment   string `env:"ENV" envDefault:"development"`
	LogLevel      string `env:"LOG_LEVEL"` // пусто - уровень по окружению
	DBDSN         string `env:"DB_DSN,required"`
	TelegramToken string `env:"TELEGRAM_TOKEN"` // бот не запускается, если пусто
	Timezone      string `env:"TIMEZONE" envDefault:"Europe/Moscow"`

	HTTP struct {
		Addr           string   `env:"HTTP_ADDR" envDefault:":8080"`
		CORSOrigins    []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
		RateLimitRPS   float64  `env:"RATE_LIMIT_RPS" envDefault:"5"`
		RateLimitBurst int      `env:"RATE_LIMIT_BURST" envDefault:"10"`
	}

	Cache struct {
		Driver string        `env:"CACHE_DRIVER" envDefault:"lru"`
		Size   int           `env:"CACHE_SIZE" envDefault:"1024"`
		TTL    time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	}

	Redis struct {
		Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Cron struct {
		CompleteSpec  string `env:"CRON_COMPLETE_SPEC" envDefault:"@every 15m"`
		ReconcileSpec string `env:"CRON_RECONCILE_SPEC" envDefault:"0 3 * * *"`
	}

	// Горизонт запроса дат без указания месяца
	DatesHorizonDays int `env:"DATES_HORIZON_DAYS" envDefault:"90"`

	location *time.Location
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	} else {
		log.Println("Loaded configuration from .env file")
	}

	return Parse()
}

// Parse читает конфиг из переменных окружения и проверяет его
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.Environment = strings.ToLower(cfg.Environment)
	cfg.Cache.Driver = strings.ToLower(cfg.Cache.Driver)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required but not set")
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}
	c.location = loc

	switch c.Cache.Driver {
	case CacheDriverLRU, CacheDriverRedis, CacheDriverNone:
	default:
		return fmt.Errorf("CACHE_DRIVER must be one of lru, redis, none, got %q", c.Cache.Driver)
	}
	if c.Cache.Driver == CacheDriverLRU && c.Cache.Size <= 0 {
		return fmt.Errorf("CACHE_SIZE must be positive")
	}

	if c.HTTP.RateLimitRPS <= 0 || c.HTTP.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	if c.DatesHorizonDays <= 0 {
		return fmt.Errorf("DATES_HORIZON_DAYS must be positive")
	}

	return nil
}

// Location возвращает часовой пояс, в котором считаются даты расписания
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) BotEnabled() bool {
	return c.TelegramToken != ""
}
