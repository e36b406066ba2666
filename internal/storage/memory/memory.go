// Package memory реализует репозитории в памяти процесса: для тестов и
// эфемерных сессий без сохранения между запусками.
package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/sales/internal/domain"
)

// ProductRepository хранит последний сохранённый снимок каталога.
type ProductRepository struct {
	mu       sync.RWMutex
	products []domain.Product
}

// NewProductRepository возвращает in-memory репозиторий каталога.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

func (r *ProductRepository) Load() ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copySlice(r.products), nil
}

func (r *ProductRepository) Save(products []domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = copySlice(products)
	return nil
}

// OrderLogRepository накапливает снимки заказов в порядке добавления.
type OrderLogRepository struct {
	mu      sync.RWMutex
	records []domain.OrderRecord
}

// NewOrderLogRepository возвращает in-memory журнал заказов.
func NewOrderLogRepository() *OrderLogRepository {
	return &OrderLogRepository{}
}

func (r *OrderLogRepository) Append(rec domain.OrderRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Копируем позиции, чтобы журнал не алиасил срезы вызывающей стороны.
	rec.Items = copySlice(rec.Items)
	r.records = append(r.records, rec)
	return nil
}

func (r *OrderLogRepository) Load() ([]domain.OrderRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copySlice(r.records), nil
}

// ReorderRepository хранит последний сохранённый снимок порогов.
type ReorderRepository struct {
	mu     sync.RWMutex
	levels []domain.ReorderLevel
}

// NewReorderRepository возвращает in-memory репозиторий порогов.
func NewReorderRepository() *ReorderRepository {
	return &ReorderRepository{}
}

func (r *ReorderRepository) Load() ([]domain.ReorderLevel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copySlice(r.levels), nil
}

func (r *ReorderRepository) Save(levels []domain.ReorderLevel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels = copySlice(levels)
	return nil
}

// UserRepository хранит последний сохранённый снимок пользователей.
type UserRepository struct {
	mu    sync.RWMutex
	users []domain.User
}

// NewUserRepository возвращает in-memory репозиторий пользователей.
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) Load() ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copySlice(r.users), nil
}

func (r *UserRepository) Save(users []domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = copySlice(users)
	return nil
}

// PurchaseRepository накапливает закупки в порядке добавления.
type PurchaseRepository struct {
	mu        sync.RWMutex
	purchases []domain.Purchase
}

// NewPurchaseRepository возвращает in-memory журнал закупок.
func NewPurchaseRepository() *PurchaseRepository {
	return &PurchaseRepository{}
}

func (r *PurchaseRepository) Append(p domain.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purchases = append(r.purchases, p)
	return nil
}

func (r *PurchaseRepository) Load() ([]domain.Purchase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copySlice(r.purchases), nil
}

func copySlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
