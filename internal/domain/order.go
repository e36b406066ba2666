package domain

import "time"

// OrderStatus описывает жизненный цикл заказа.
// Переходы односторонние: CREATED -> PAID | CANCELLED; PAID и CANCELLED терминальны.
type OrderStatus string

const (
	// OrderStatusCreated — заказ создан и ещё может пополняться позициями.
	OrderStatusCreated OrderStatus = "CREATED"
	// OrderStatusPaid — заказ оплачен; дальнейшие переходы запрещены.
	OrderStatusPaid OrderStatus = "PAID"
	// OrderStatusCancelled — заказ отменён; сток позиций подлежит возврату вызывающей стороной.
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Terminal сообщает, является ли статус конечным.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusPaid || s == OrderStatusCancelled
}

// OrderItem — одна позиция заказа. Это снимок, а не живая ссылка:
// товар может быть позже удалён из каталога, историю заказа это не трогает.
type OrderItem struct {
	// ProductID — идентификатор товара на момент добавления.
	ProductID int64
	// Qty — количество единиц, уже списанных со склада до добавления позиции.
	Qty int32
	// UnitPriceMinor — цена за единицу, зафиксированная в момент добавления.
	UnitPriceMinor int64
	// LineTotalMinor = Qty * UnitPriceMinor.
	LineTotalMinor int64
}

// Order агрегирует позиции и статус заказа.
type Order struct {
	ID int64
	// Items хранятся в порядке добавления; порядок добавления = порядок отображения.
	Items []OrderItem
	// TotalMinor поддерживается инкрементально при каждом AddItem
	// и никогда не пересчитывается с нуля.
	TotalMinor int64
	Status     OrderStatus
	CreatedAt  time.Time
	// PaidAt нулевое, пока заказ не оплачен.
	PaidAt time.Time
}

// NewOrder создаёт пустой заказ в статусе CREATED.
func NewOrder(id int64, now time.Time) *Order {
	return &Order{
		ID:        id,
		Status:    OrderStatusCreated,
		CreatedAt: now,
	}
}

// AddItem добавляет позицию, фиксируя цену товара на текущий момент,
// и увеличивает сумму заказа. Списание остатка в каталоге должно быть
// выполнено вызывающей стороной до этого вызова; сток здесь не перепроверяется.
// Это единственный мутатор TotalMinor.
func (o *Order) AddItem(p Product, qty int32) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if o.Status != OrderStatusCreated {
		return ErrInvalidTransition
	}
	item := OrderItem{
		ProductID:      p.ID,
		Qty:            qty,
		UnitPriceMinor: p.PriceMinor,
		LineTotalMinor: int64(qty) * p.PriceMinor,
	}
	o.Items = append(o.Items, item)
	o.TotalMinor += item.LineTotalMinor
	return nil
}

// MarkPaid переводит заказ в PAID и фиксирует время оплаты.
// Для заказа вне CREATED возвращает ErrInvalidTransition, ничего не меняя:
// вызывающая сторона сообщает об этом как о no-op.
func (o *Order) MarkPaid(now time.Time) error {
	if o.Status != OrderStatusCreated {
		return ErrInvalidTransition
	}
	o.Status = OrderStatusPaid
	o.PaidAt = now
	return nil
}

// Cancel переводит заказ в CANCELLED. Сток здесь не возвращается:
// возврат остатков — протокол реестра заказов (CancelAndRestore),
// заказ про каталог не знает.
func (o *Order) Cancel() error {
	if o.Status != OrderStatusCreated {
		return ErrInvalidTransition
	}
	o.Status = OrderStatusCancelled
	return nil
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	var calc int64
	for _, item := range o.Items {
		if item.Qty <= 0 {
			errs = append(errs, ErrInvalidQuantity)
		}
		if item.UnitPriceMinor < 0 {
			errs = append(errs, ErrPriceNegative)
		}
		calc += item.LineTotalMinor
	}
	if calc != o.TotalMinor {
		errs = append(errs, ErrTotalMismatch)
	}

	return errs
}
