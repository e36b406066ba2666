package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/sales/internal/domain"
	"github.com/vladislavdragonenkov/sales/internal/storage/file"
	"github.com/vladislavdragonenkov/sales/internal/storage/memory"
	"github.com/vladislavdragonenkov/sales/internal/storage/postgres"
)

// Имена файлов данных при файловом хранилище.
const (
	productsFile = "products.csv"
	ordersFile   = "orders.log"
	reorderFile  = "reorder_levels.csv"
	usersFile    = "users.csv"
	purchaseFile = "purchases.csv"
)

// Dependencies содержит репозитории приложения и ресурсы, которые нужно
// закрыть при остановке.
type Dependencies struct {
	Products  domain.ProductRepository
	OrderLog  domain.OrderLogRepository
	Reorder   domain.ReorderRepository
	Users     domain.UserRepository
	Purchases domain.PurchaseRepository

	store  *postgres.Store
	Logger *log.Entry
}

// NewDependencies собирает репозитории для выбранного хранилища.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}
	deps := &Dependencies{Logger: logger}

	switch cfg.Storage {
	case StorageFile:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		deps.Products = file.NewProductRepository(filepath.Join(cfg.DataDir, productsFile))
		deps.OrderLog = file.NewOrderLogRepository(filepath.Join(cfg.DataDir, ordersFile))
		deps.Reorder = file.NewReorderRepository(filepath.Join(cfg.DataDir, reorderFile))
		deps.Users = file.NewUserRepository(filepath.Join(cfg.DataDir, usersFile))
		deps.Purchases = file.NewPurchaseRepository(filepath.Join(cfg.DataDir, purchaseFile))
		logger.WithField("data_dir", cfg.DataDir).Info("файловое хранилище готово")

	case StoragePostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		deps.store = store
		deps.Products = postgres.NewProductRepository(store)
		deps.OrderLog = postgres.NewOrderLogRepository(store)
		deps.Reorder = postgres.NewReorderRepository(store)
		deps.Users = postgres.NewUserRepository(store)
		deps.Purchases = postgres.NewPurchaseRepository(store)
		logger.Info("хранилище postgres готово")

	case StorageMemory:
		deps.Products = memory.NewProductRepository()
		deps.OrderLog = memory.NewOrderLogRepository()
		deps.Reorder = memory.NewReorderRepository()
		deps.Users = memory.NewUserRepository()
		deps.Purchases = memory.NewPurchaseRepository()
		logger.Warn("хранилище в памяти: данные не переживут перезапуск")

	default:
		return nil, fmt.Errorf("неизвестное хранилище %q", cfg.Storage)
	}

	return deps, nil
}

// PingStore проверяет доступность базы; для прочих хранилищ всегда успех.
func (d *Dependencies) PingStore(ctx context.Context) error {
	if d.store == nil {
		return nil
	}
	return d.store.Ping(ctx)
}

// Close освобождает внешние ресурсы хранилища.
func (d *Dependencies) Close() error {
	if d.store == nil {
		return nil
	}
	return d.store.Close()
}
