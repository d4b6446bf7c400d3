package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN       string `mapstructure:"DB_DSN"`
	Environment string `mapstructure:"ENV"`
	HTTPAddr    string `mapstructure:"HTTP_ADDR"`

	TelegramToken       string `mapstructure:"TELEGRAM_TOKEN"`
	TelegramAdminChatID int64  `mapstructure:"TELEGRAM_ADMIN_CHAT_ID"`

	KafkaBrokers []string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string   `mapstructure:"KAFKA_TOPIC"`

	MaterializeWeeksAhead int           `mapstructure:"MATERIALIZE_WEEKS_AHEAD"`
	MaterializeInterval   time.Duration `mapstructure:"MATERIALIZE_INTERVAL"`

	BlockedWords []string `mapstructure:"BLOCKED_WORDS"`
}

const (
	defaultEnvironment = "development"
	defaultHTTPAddr    = ":8080"
	defaultKafkaTopic  = "scheduler.events"
	defaultWeeksAhead  = 4
	defaultInterval    = 24 * time.Hour
)

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		return nil, err
	}

	log.Printf("Config loaded\n")

	return cfg, nil
}

// FromEnv собирает конфиг из переменных, читаемых через getenv
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DBDSN:         getenv("DB_DSN"),
		Environment:   getenv("ENV"),
		HTTPAddr:      getenv("HTTP_ADDR"),
		TelegramToken: getenv("TELEGRAM_TOKEN"),
		KafkaBrokers:  splitList(getenv("KAFKA_BROKERS")),
		KafkaTopic:    getenv("KAFKA_TOPIC"),
		BlockedWords:  splitList(getenv("BLOCKED_WORDS")),

		MaterializeWeeksAhead: defaultWeeksAhead,
		MaterializeInterval:   defaultInterval,
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = defaultEnvironment
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = defaultHTTPAddr
	}
	if cfg.KafkaTopic == "" {
		cfg.KafkaTopic = defaultKafkaTopic
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	if v := getenv("TELEGRAM_ADMIN_CHAT_ID"); v != "" {
		chatID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_ADMIN_CHAT_ID: %w", err)
		}
		cfg.TelegramAdminChatID = chatID
	}

	if v := getenv("MATERIALIZE_WEEKS_AHEAD"); v != "" {
		weeks, err := strconv.Atoi(v)
		if err != nil || weeks < 1 {
			return nil, fmt.Errorf("MATERIALIZE_WEEKS_AHEAD must be a positive integer, got %q", v)
		}
		cfg.MaterializeWeeksAhead = weeks
	}

	if v := getenv("MATERIALIZE_INTERVAL"); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil || interval <= 0 {
			return nil, fmt.Errorf("MATERIALIZE_INTERVAL must be a positive duration, got %q", v)
		}
		cfg.MaterializeInterval = interval
	}

	return cfg, nil
}

// TelegramEnabled проверяет что заданы токен и чат для уведомлений
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramAdminChatID != 0
}

// KafkaEnabled проверяет что заданы брокеры
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
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
