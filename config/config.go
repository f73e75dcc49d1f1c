package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contém as configurações da aplicação
type Config struct {
	Environment string
	Port        string

	DatabaseDriver string
	DatabaseURL    string

	NaverBaseURL      string
	NaverClientID     string
	NaverClientSecret string
	SearchTimeout     time.Duration

	SyncTime     string
	SyncInterval time.Duration

	RedisAddr      string
	SearchCacheTTL time.Duration

	TelegramBotToken string
	TelegramChatID   int64

	CORSOrigins []string
}

// IsDevelopment indica se a aplicação roda em desenvolvimento
func (c *Config) IsDevelopment() bool {
	return c.Environment == "dev"
}

// TelegramEnabled indica se os alertas do Telegram estão configurados
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}

// Load carrega as configurações das variáveis de ambiente
func Load() (*Config, error) {
	cfg := &Config{
		Environment:       getEnv("ENVIRONMENT", "dev"),
		Port:              getEnv("PORT", "8080"),
		DatabaseDriver:    getEnv("DATABASE_DRIVER", "sqlite3"),
		DatabaseURL:       getEnv("DATABASE_URL", "./selectshop.db"),
		NaverBaseURL:      getEnv("NAVER_BASE_URL", "https://openapi.naver.com"),
		NaverClientID:     os.Getenv("NAVER_CLIENT_ID"),
		NaverClientSecret: os.Getenv("NAVER_CLIENT_SECRET"),
		SearchTimeout:     5 * time.Second,
		SyncTime:          getEnv("SYNC_TIME", "01:00"),
		SyncInterval:      time.Second,
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		SearchCacheTTL:    5 * time.Minute,
		TelegramBotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		CORSOrigins:       []string{"http://localhost:3000"},
	}

	if cfg.NaverClientID == "" || cfg.NaverClientSecret == "" {
		return nil, fmt.Errorf("NAVER_CLIENT_ID e NAVER_CLIENT_SECRET precisam estar configurados")
	}

	if cfg.DatabaseDriver != "sqlite3" && cfg.DatabaseDriver != "pgx" {
		return nil, fmt.Errorf("DATABASE_DRIVER inválido: %q (use sqlite3 ou pgx)", cfg.DatabaseDriver)
	}

	if _, err := time.Parse("15:04", cfg.SyncTime); err != nil {
		return nil, fmt.Errorf("SYNC_TIME inválido: %q (use HH:MM)", cfg.SyncTime)
	}

	if v := os.Getenv("SEARCH_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.SearchTimeout = time.Duration(parsed) * time.Second
		}
	}

	// Intervalo entre chamadas à busca durante a sincronização
	if v := os.Getenv("SYNC_INTERVAL_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			cfg.SyncInterval = time.Duration(parsed) * time.Second
		}
	}

	if v := os.Getenv("SEARCH_CACHE_TTL_MINUTES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			cfg.SearchCacheTTL = time.Duration(parsed) * time.Minute
		}
	}

	// Chat ID é opcional; sem ele os alertas ficam desligados
	if chatIDStr := os.Getenv("TELEGRAM_CHAT_ID"); chatIDStr != "" {
		if chatID, err := strconv.ParseInt(chatIDStr, 10, 64); err == nil {
			cfg.TelegramChatID = chatID
		}
	}

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
