package domain

import "errors"

var (
	// Ошибка некорректного количества (<= 0) в любой операции со стоком или позициями.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	// Ошибка списания, которое увело бы остаток в минус.
	ErrInsufficientStock = errors.New("insufficient stock")
	// Ошибка отсутствующего имени товара.
	ErrNameRequired = errors.New("product name is required")
	// Ошибка отрицательной цены товара.
	ErrPriceNegative = errors.New("price must be non-negative")
	// Ошибка отрицательного начального остатка.
	ErrStockNegative = errors.New("stock must be non-negative")
	// ErrProductNotFound возвращается, если товар не найден в каталоге.
	ErrProductNotFound = errors.New("product not found")
	// ErrOrderNotFound возвращается, если заказ не найден в реестре.
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidTransition — попытка перевести заказ из терминального статуса.
	ErrInvalidTransition = errors.New("order is in a terminal status")
	// ErrProductInUse — товар упоминается в активном заказе и не может быть удалён.
	ErrProductInUse = errors.New("product is referenced by an active order")
	// Ошибка несоответствия суммы заказа и сумм позиций.
	ErrTotalMismatch = errors.New("order total does not match items sum")
	// Ошибка регистрации пользователя с занятым именем.
	ErrUserExists = errors.New("username already taken")
	// Ошибка пустого имени пользователя или пароля.
	ErrCredentialsRequired = errors.New("username and password are required")
	// ErrAuthFailed — пользователь не найден или пароль не совпал.
	ErrAuthFailed = errors.New("unknown user or wrong password")
)

// IsTerminalStatus проверяет, является ли ошибка отказом терминального статуса.
func IsTerminalStatus(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}
