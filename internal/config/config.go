package config

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config 运行配置，全部来自环境变量（可由 .env 提供）
type Config struct {
	Database DatabaseConfig
	HTTP     HTTPConfig
	Crawl    CrawlConfig

	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
}

type DatabaseConfig struct {
	Driver   string `env:"DB_DRIVER" env-default:"postgres"`
	URL      string `env:"DATABASE_URL" env-default:"host=localhost user=postgres password=postgres dbname=reddit_api port=5432 sslmode=disable"`
	MaxConns int    `env:"DB_MAX_CONNS" env-default:"10"`
}

type HTTPConfig struct {
	Port string `env:"PORT" env-default:"8080"`
}

type CrawlConfig struct {
	BaseURL        string        `env:"REDDIT_BASE_URL" env-default:"https://www.reddit.com"`
	UserAgent      string        `env:"REDDIT_USER_AGENT" env-default:"redditcrawl/1.0"`
	SubredditLimit int           `env:"CRAWL_SUBREDDIT_LIMIT" env-default:"40"`
	PostLimit      int           `env:"CRAWL_POST_LIMIT" env-default:"50"`
	UserPassword   string        `env:"CRAWL_USER_PASSWORD" env-default:"abc123"`
	Interval       time.Duration `env:"CRAWL_INTERVAL" env-default:"0s"`
	BcryptCost     int           `env:"BCRYPT_COST" env-default:"10"`
}

// Load 读取 .env（如存在）和环境变量
func Load() (*Config, error) {
	const op = "config.Load"

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be positive, got %d", c.Database.MaxConns)
	}
	if c.Crawl.SubredditLimit < 1 || c.Crawl.PostLimit < 1 {
		return fmt.Errorf("crawl limits must be positive")
	}
	return nil
}

// NewLogger 按 LOG_LEVEL 构建 slog 文本日志
func (c *Config) NewLogger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
