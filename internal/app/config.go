package app

import (
	"fmt"
	"os"
	"strconv"
)

// Хранилища, поддерживаемые SALES_STORAGE.
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config описывает настройки запуска приложения.
type Config struct {
	// DataDir — каталог файлов данных при файловом хранилище.
	DataDir string
	// Storage — file, postgres или memory.
	Storage string
	// PostgresDSN обязателен при Storage = postgres.
	PostgresDSN string
	// MetricsAddr — адрес HTTP-метрик и health-ручек; пустая строка отключает сервер.
	MetricsAddr string
	// DefaultReorderLevel действует для товаров без индивидуального порога.
	DefaultReorderLevel int32
	LogLevel            string
}

// DefaultConfig возвращает конфигурацию локального запуска.
func DefaultConfig() Config {
	return Config{
		DataDir:             "data",
		Storage:             StorageFile,
		MetricsAddr:         "",
		DefaultReorderLevel: 5,
		LogLevel:            "info",
	}
}

// FromEnv накладывает переменные окружения SALES_* на конфигурацию по умолчанию.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()
	if v := os.Getenv("SALES_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("SALES_STORAGE"); v != "" {
		cfg.Storage = v
	}
	if v := os.Getenv("SALES_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("SALES_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("SALES_DEFAULT_REORDER_LEVEL"); v != "" {
		level, err := strconv.ParseInt(v, 10, 32)
		if err != nil || level < 0 {
			return cfg, fmt.Errorf("SALES_DEFAULT_REORDER_LEVEL: неотрицательное число, получено %q", v)
		}
		cfg.DefaultReorderLevel = int32(level)
	}
	if v := os.Getenv("SALES_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return cfg, cfg.Validate()
}

// Validate проверяет согласованность конфигурации.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageFile:
		if c.DataDir == "" {
			return fmt.Errorf("файловое хранилище требует каталог данных")
		}
	case StoragePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("хранилище postgres требует SALES_POSTGRES_DSN")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("неизвестное хранилище %q", c.Storage)
	}
	return nil
}
