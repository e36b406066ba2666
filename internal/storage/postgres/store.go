// Package postgres реализует репозитории системы продаж поверх PostgreSQL.
// Альтернативный бэкенд хранения с тем же контрактом, что и файловый:
// снимки каталога/пользователей/порогов и append-only журналы заказов и закупок.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	defaultConnTimeout     = 5 * time.Second
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 10
	defaultConnMaxLifetime = 30 * time.Minute

	opTimeout = 5 * time.Second
)

// Store оборачивает SQL-подключение к PostgreSQL.
type Store struct {
	db *sql.DB
}

// Open открывает подключение и проверяет доступность базы.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}
	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Store{db: db}, nil
}

// DB возвращает raw SQL DB, когда нужен низкоуровневый доступ.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping проверяет доступность подключения.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("postgres store is not initialized")
	}
	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	return s.db.PingContext(pingCtx)
}

// EnsureSchema создаёт таблицы, если их ещё нет.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			price_minor BIGINT NOT NULL,
			stock INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS order_log (
			record_id BIGSERIAL PRIMARY KEY,
			order_id BIGINT NOT NULL,
			status TEXT NOT NULL,
			item_count INTEGER NOT NULL,
			total_minor BIGINT NOT NULL,
			created_at BIGINT NOT NULL,
			paid_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS order_log_items (
			record_id BIGINT NOT NULL REFERENCES order_log(record_id),
			position INTEGER NOT NULL,
			product_id BIGINT NOT NULL,
			qty INTEGER NOT NULL,
			unit_price_minor BIGINT NOT NULL,
			line_total_minor BIGINT NOT NULL,
			PRIMARY KEY (record_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS reorder_levels (
			product_id BIGINT PRIMARY KEY,
			level INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS purchases (
			id BIGINT PRIMARY KEY,
			product_id BIGINT NOT NULL,
			qty INTEGER NOT NULL,
			unit_cost_minor BIGINT NOT NULL,
			created_at BIGINT NOT NULL
		)`,
	}

	for _, stmt := range ddl {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Close закрывает подключение к БД.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
