package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN             string
	Environment       string
	HTTPAddr          string
	MigrationsDir     string
	RejectedBlocksNew bool
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		DBDSN:             os.Getenv("DB_DSN"),
		Environment:       os.Getenv("ENV"),
		HTTPAddr:          os.Getenv("HTTP_ADDR"),
		MigrationsDir:     os.Getenv("MIGRATIONS_DIR"),
		RejectedBlocksNew: true,
	}

	// Дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.MigrationsDir == "" {
		cfg.MigrationsDir = "migrations"
	}

	// Политика: блокирует ли отклонённая заявка повторную (исторически да)
	if raw := os.Getenv("REJECTED_BLOCKS_NEW_REQUESTS"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("REJECTED_BLOCKS_NEW_REQUESTS must be a bool, got %q", raw)
		}
		cfg.RejectedBlocksNew = v
	}

	// Обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}
