package domain

// ReorderLevel — порог дозаказа для конкретного товара.
type ReorderLevel struct {
	ProductID int64
	Level     int32
}

// ReorderTable хранит пороги дозаказа по товарам.
// Товары без записи получают глобальный порог по умолчанию.
type ReorderTable struct {
	levels []ReorderLevel
}

// NewReorderTable создаёт пустую таблицу порогов.
func NewReorderTable() *ReorderTable {
	return &ReorderTable{}
}

// Restore заменяет содержимое таблицы загруженными записями.
func (t *ReorderTable) Restore(levels []ReorderLevel) {
	t.levels = append(t.levels[:0], levels...)
}

// Level возвращает порог товара или def, если записи нет.
func (t *ReorderTable) Level(productID int64, def int32) int32 {
	for _, l := range t.levels {
		if l.ProductID == productID {
			return l.Level
		}
	}
	return def
}

// Set записывает порог товара (upsert).
func (t *ReorderTable) Set(productID int64, level int32) {
	for i := range t.levels {
		if t.levels[i].ProductID == productID {
			t.levels[i].Level = level
			return
		}
	}
	t.levels = append(t.levels, ReorderLevel{ProductID: productID, Level: level})
}

// Remove удаляет запись товара; отсутствие записи не ошибка.
func (t *ReorderTable) Remove(productID int64) {
	for i := range t.levels {
		if t.levels[i].ProductID == productID {
			t.levels = append(t.levels[:i], t.levels[i+1:]...)
			return
		}
	}
}

// Levels возвращает копию записей в порядке добавления.
func (t *ReorderTable) Levels() []ReorderLevel {
	out := make([]ReorderLevel, len(t.levels))
	copy(out, t.levels)
	return out
}

// ReplenishSuggestion — предложение пополнить товар до порога.
type ReplenishSuggestion struct {
	Product Product
	// Need — дефицит до порога; всегда >= 1.
	Need int32
}

// LowStock возвращает товары с остатком строго ниже действующего порога.
// Чистая функция над снимком каталога, без побочных эффектов.
func LowStock(products []Product, t *ReorderTable, def int32) []Product {
	var out []Product
	for _, p := range products {
		if p.Stock < t.Level(p.ID, def) {
			out = append(out, p)
		}
	}
	return out
}

// Replenish возвращает предложения пополнения: need = порог - остаток, need > 0.
// Состав совпадает с LowStock: строгое < и положительный дефицит отбирают одни
// и те же товары.
func Replenish(products []Product, t *ReorderTable, def int32) []ReplenishSuggestion {
	var out []ReplenishSuggestion
	for _, p := range products {
		need := t.Level(p.ID, def) - p.Stock
		if need > 0 {
			out = append(out, ReplenishSuggestion{Product: p, Need: need})
		}
	}
	return out
}
