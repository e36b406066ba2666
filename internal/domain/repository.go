package domain

import "time"

// OrderRecord — неизменяемый снимок заказа, дописанный в журнал при смене
// состояния. Журнал может содержать несколько записей одного заказа;
// актуальна последняя.
type OrderRecord struct {
	OrderID    int64
	Status     OrderStatus
	ItemCount  int
	TotalMinor int64
	CreatedAt  time.Time
	// PaidAt нулевое, если на момент записи заказ не был оплачен.
	PaidAt time.Time
	Items  []OrderItem
}

// Snapshot строит журнальную запись по текущему состоянию заказа.
func (o *Order) Snapshot() OrderRecord {
	items := make([]OrderItem, len(o.Items))
	copy(items, o.Items)
	return OrderRecord{
		OrderID:    o.ID,
		Status:     o.Status,
		ItemCount:  len(o.Items),
		TotalMinor: o.TotalMinor,
		CreatedAt:  o.CreatedAt,
		PaidAt:     o.PaidAt,
		Items:      items,
	}
}

// ProductRepository описывает требования к хранилищу каталога.
// Загрузка и сохранение идут целиком: в памяти каталог — источник истины,
// персистентность подключается на границе сессии.
type ProductRepository interface {
	// Load возвращает товары в сохранённом порядке; отсутствие данных — пустой срез.
	Load() ([]Product, error)
	Save(products []Product) error
}

// OrderLogRepository описывает append-only журнал заказов.
type OrderLogRepository interface {
	// Append дописывает снимок заказа; вызывается при каждой смене состояния.
	Append(record OrderRecord) error
	// Load возвращает все записи журнала в порядке добавления.
	Load() ([]OrderRecord, error)
}

// ReorderRepository описывает хранилище порогов дозаказа.
type ReorderRepository interface {
	Load() ([]ReorderLevel, error)
	Save(levels []ReorderLevel) error
}

// UserRepository описывает хранилище учётных записей.
type UserRepository interface {
	Load() ([]User, error)
	Save(users []User) error
}

// PurchaseRepository описывает append-only журнал закупок.
type PurchaseRepository interface {
	Append(p Purchase) error
	Load() ([]Purchase, error)
}
