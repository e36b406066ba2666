package domain

// Product — карточка товара в каталоге.
type Product struct {
	// ID — положительный монотонный идентификатор; никогда не переиспользуется.
	ID int64
	// Name — отображаемое имя товара.
	Name string
	// PriceMinor — цена за единицу в минимальных денежных единицах (например, копейки).
	PriceMinor int64
	// Stock — остаток на складе; никогда не уходит в минус.
	Stock int32
}

// Catalog владеет товарами и монотонным счётчиком идентификаторов.
// Рассчитан на одного актора: записи мутируются по живой ссылке из Find.
type Catalog struct {
	products []Product
	nextID   int64
}

// NewCatalog создаёт пустой каталог.
func NewCatalog() *Catalog {
	return &Catalog{nextID: 1}
}

// Restore заполняет каталог загруженными товарами и возобновляет счётчик
// идентификаторов с максимального загруженного ID + 1.
func (c *Catalog) Restore(products []Product) {
	c.products = append(c.products[:0], products...)
	c.nextID = 1
	for _, p := range c.products {
		if p.ID >= c.nextID {
			c.nextID = p.ID + 1
		}
	}
}

// Add добавляет товар и возвращает присвоенный идентификатор.
func (c *Catalog) Add(name string, priceMinor int64, stock int32) (int64, error) {
	if name == "" {
		return 0, ErrNameRequired
	}
	if priceMinor < 0 {
		return 0, ErrPriceNegative
	}
	if stock < 0 {
		return 0, ErrStockNegative
	}
	id := c.nextID
	c.nextID++
	c.products = append(c.products, Product{
		ID:         id,
		Name:       name,
		PriceMinor: priceMinor,
		Stock:      stock,
	})
	return id, nil
}

// Find возвращает живую запись товара или ErrProductNotFound.
func (c *Catalog) Find(id int64) (*Product, error) {
	for i := range c.products {
		if c.products[i].ID == id {
			return &c.products[i], nil
		}
	}
	return nil, ErrProductNotFound
}

// Modify обновляет поля товара. Пустое имя и отрицательная цена/остаток
// означают «оставить как есть».
func (c *Catalog) Modify(id int64, name string, priceMinor int64, stock int32) error {
	p, err := c.Find(id)
	if err != nil {
		return err
	}
	if name != "" {
		p.Name = name
	}
	if priceMinor >= 0 {
		p.PriceMinor = priceMinor
	}
	if stock >= 0 {
		p.Stock = stock
	}
	return nil
}

// Delete удаляет товар из каталога, сохраняя порядок остальных записей.
// Проверку ссылок из активных заказов выполняет вызывающая сторона.
func (c *Catalog) Delete(id int64) error {
	for i := range c.products {
		if c.products[i].ID == id {
			c.products = append(c.products[:i], c.products[i+1:]...)
			return nil
		}
	}
	return ErrProductNotFound
}

// DeductStock списывает qty единиц товара. При нехватке остатка или
// некорректном количестве остаток не меняется.
func (c *Catalog) DeductStock(id int64, qty int32) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	p, err := c.Find(id)
	if err != nil {
		return err
	}
	if p.Stock < qty {
		return ErrInsufficientStock
	}
	p.Stock -= qty
	return nil
}

// IncreaseStock увеличивает остаток товара. Один и тот же примитив обслуживает
// и приёмку закупки, и возврат стока при отмене заказа; причину изменения
// хранилище остатков не знает.
func (c *Catalog) IncreaseStock(id int64, qty int32) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	p, err := c.Find(id)
	if err != nil {
		return err
	}
	p.Stock += qty
	return nil
}

// List возвращает копию товаров в порядке добавления.
func (c *Catalog) List() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len возвращает число товаров в каталоге.
func (c *Catalog) Len() int {
	return len(c.products)
}
