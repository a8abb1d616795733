// Пакет config — загрузка и валидация конфигурации сервиса
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config содержит все параметры конфигурации сервиса
type Config struct {
	// Addr — адрес HTTP-сервера (host:port)
	Addr string
	// BaseURL — внешний адрес сервиса, основа коротких ссылок
	BaseURL string
	// DBPath — путь к файлу SQLite
	DBPath string
	// SessionSecret — ключ подписи сессионных cookie (обязателен)
	SessionSecret string
	// SessionTTL — срок жизни сессии
	SessionTTL time.Duration
	// TokenMinLength — минимальная длина публичного токена
	TokenMinLength int
	// StoreTimeout — потолок на одну операцию с хранилищем
	StoreTimeout time.Duration
	// RateLimit — запросов на создание ссылки с одного IP за окно
	RateLimit int
	// RateWindow — окно rate limit
	RateWindow time.Duration
	// LogLevel — уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// LogFormat — формат логов (json, text)
	LogFormat string
}

// Load читает конфигурацию из переменных окружения SHORTSHARE_*
func Load() (*Config, error) {
	cfg := &Config{
		Addr:          getEnv("SHORTSHARE_ADDR", ":8080"),
		BaseURL:       getEnv("SHORTSHARE_BASE_URL", "http://127.0.0.1:8080"),
		DBPath:        getEnv("SHORTSHARE_DB_PATH", "shortshare.db"),
		SessionSecret: os.Getenv("SHORTSHARE_SESSION_SECRET"),
		LogFormat:     getEnv("SHORTSHARE_LOG_FORMAT", "text"),
	}

	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SHORTSHARE_SESSION_SECRET is required")
	}

	var err error
	if cfg.SessionTTL, err = getEnvDuration("SHORTSHARE_SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.StoreTimeout, err = getEnvDuration("SHORTSHARE_STORE_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.RateWindow, err = getEnvDuration("SHORTSHARE_RATE_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	if cfg.TokenMinLength, err = getEnvInt("SHORTSHARE_TOKEN_MIN_LENGTH", 6); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = getEnvInt("SHORTSHARE_RATE_LIMIT", 60); err != nil {
		return nil, err
	}

	if cfg.TokenMinLength < 1 {
		return nil, fmt.Errorf("SHORTSHARE_TOKEN_MIN_LENGTH must be positive")
	}

	level, err := parseLogLevel(getEnv("SHORTSHARE_LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("SHORTSHARE_LOG_FORMAT must be json or text, got %q", cfg.LogFormat)
	}

	return cfg, nil
}

// SetupLogger создает slog.Logger по настройкам конфигурации
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration (e.g. 5s), got %q", key, v)
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("SHORTSHARE_LOG_LEVEL must be debug, info, warn or error, got %q", s)
	}
}
