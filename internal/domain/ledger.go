package domain

import (
	"errors"
	"time"
)

// Ledger — append-only реестр заказов одной сессии: выдача идентификаторов,
// поиск и межкомпонентные проверки. Заказы из реестра не удаляются.
type Ledger struct {
	orders []*Order
	nextID int64
}

// NewLedger создаёт пустой реестр.
func NewLedger() *Ledger {
	return &Ledger{nextID: 1}
}

// Create выдаёт следующий монотонный идентификатор и добавляет пустой заказ.
func (l *Ledger) Create(now time.Time) *Order {
	o := NewOrder(l.nextID, now)
	l.nextID++
	l.orders = append(l.orders, o)
	return o
}

// Find возвращает заказ по идентификатору или ErrOrderNotFound.
func (l *Ledger) Find(id int64) (*Order, error) {
	for _, o := range l.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, ErrOrderNotFound
}

// All возвращает заказы в порядке создания.
func (l *Ledger) All() []*Order {
	out := make([]*Order, len(l.orders))
	copy(out, l.orders)
	return out
}

// Len возвращает число заказов в реестре.
func (l *Ledger) Len() int {
	return len(l.orders)
}

// CancelAndRestore отменяет заказ и возвращает в каталог сток каждой позиции —
// единственное место, где компенсируются списания отменяемого заказа.
// Если товар позиции уже удалён из каталога, возврат этой позиции пропускается
// и её единицы теряются для каталога; история заказа не меняется, так как
// позиции — снимки. Возвращает число возвращённых единиц и число пропущенных позиций.
func (l *Ledger) CancelAndRestore(order *Order, catalog *Catalog) (restored int64, skipped int, err error) {
	if err := order.Cancel(); err != nil {
		return 0, 0, err
	}
	for _, item := range order.Items {
		if incErr := catalog.IncreaseStock(item.ProductID, item.Qty); incErr != nil {
			if errors.Is(incErr, ErrProductNotFound) {
				skipped++
				continue
			}
			// IncreaseStock с qty > 0 по живому товару не отказывает;
			// сюда попадает только некорректная позиция.
			return restored, skipped, incErr
		}
		restored += int64(item.Qty)
	}
	return restored, skipped, nil
}

// ProductReferencedByActiveOrder сообщает, упоминается ли товар в позициях
// хотя бы одного неотменённого заказа. Используется как защита удаления из каталога.
func (l *Ledger) ProductReferencedByActiveOrder(productID int64) bool {
	for _, o := range l.orders {
		if o.Status == OrderStatusCancelled {
			continue
		}
		for _, item := range o.Items {
			if item.ProductID == productID {
				return true
			}
		}
	}
	return false
}
