// Package sales реализует протокол согласованности заказов и склада:
// списание стока при наборе позиций, компенсацию при отмене, защиту удаления
// товара и приёмку закупок. Каждая смена состояния заказа дописывается
// в журнал заказов.
package sales

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/sales/internal/domain"
	"github.com/vladislavdragonenkov/sales/internal/metrics"
)

// Service связывает каталог, реестр заказов, пороги дозаказа и журналы.
// Одноакторная модель: методы не защищены блокировками и не должны
// вызываться конкурентно.
type Service struct {
	catalog *domain.Catalog
	ledger  *domain.Ledger
	reorder *domain.ReorderTable
	users   *domain.UserList

	orderLog     domain.OrderLogRepository
	purchaseRepo domain.PurchaseRepository
	userRepo     domain.UserRepository

	purchases      []domain.Purchase
	nextPurchaseID int64

	defaultReorderLevel int32

	logger  *log.Entry
	metrics *metrics.SalesMetrics
	now     func() time.Time
}

// NewService создаёт рабочий экземпляр сервиса с метриками.
func NewService(
	catalog *domain.Catalog,
	ledger *domain.Ledger,
	reorder *domain.ReorderTable,
	users *domain.UserList,
	orderLog domain.OrderLogRepository,
	purchaseRepo domain.PurchaseRepository,
	userRepo domain.UserRepository,
	defaultReorderLevel int32,
	logger *log.Entry,
) *Service {
	s := newService(catalog, ledger, reorder, users, orderLog, purchaseRepo, userRepo, defaultReorderLevel, logger)
	s.metrics = metrics.NewSalesMetrics()
	return s
}

// NewServiceWithoutMetrics создаёт сервис без метрик (для тестов).
func NewServiceWithoutMetrics(
	catalog *domain.Catalog,
	ledger *domain.Ledger,
	reorder *domain.ReorderTable,
	users *domain.UserList,
	orderLog domain.OrderLogRepository,
	purchaseRepo domain.PurchaseRepository,
	userRepo domain.UserRepository,
	defaultReorderLevel int32,
	logger *log.Entry,
) *Service {
	return newService(catalog, ledger, reorder, users, orderLog, purchaseRepo, userRepo, defaultReorderLevel, logger)
}

func newService(
	catalog *domain.Catalog,
	ledger *domain.Ledger,
	reorder *domain.ReorderTable,
	users *domain.UserList,
	orderLog domain.OrderLogRepository,
	purchaseRepo domain.PurchaseRepository,
	userRepo domain.UserRepository,
	defaultReorderLevel int32,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "sales")
	}
	return &Service{
		catalog:             catalog,
		ledger:              ledger,
		reorder:             reorder,
		users:               users,
		orderLog:            orderLog,
		purchaseRepo:        purchaseRepo,
		userRepo:            userRepo,
		nextPurchaseID:      1,
		defaultReorderLevel: defaultReorderLevel,
		logger:              logger,
		now:                 func() time.Time { return time.Now().UTC() },
	}
}

// RestorePurchases загружает журнал закупок и возобновляет счётчик идентификаторов.
func (s *Service) RestorePurchases(purchases []domain.Purchase) {
	s.purchases = append(s.purchases[:0], purchases...)
	s.nextPurchaseID = domain.NextPurchaseID(purchases)
}

/* -------- Каталог -------- */

// AddProduct добавляет товар в каталог.
func (s *Service) AddProduct(name string, priceMinor int64, stock int32) (int64, error) {
	id, err := s.catalog.Add(name, priceMinor, stock)
	if err != nil {
		return 0, err
	}
	s.logger.WithFields(log.Fields{
		"product_id": id,
		"name":       name,
	}).Info("product added")
	return id, nil
}

// ModifyProduct обновляет поля товара; сентинелы «оставить как есть»
// те же, что в Catalog.Modify.
func (s *Service) ModifyProduct(id int64, name string, priceMinor int64, stock int32) error {
	if err := s.catalog.Modify(id, name, priceMinor, stock); err != nil {
		return err
	}
	s.logger.WithField("product_id", id).Info("product modified")
	return nil
}

// DeleteProduct удаляет товар, если его не упоминает ни один активный заказ.
func (s *Service) DeleteProduct(id int64) error {
	if _, err := s.catalog.Find(id); err != nil {
		return err
	}
	if s.ledger.ProductReferencedByActiveOrder(id) {
		return domain.ErrProductInUse
	}
	if err := s.catalog.Delete(id); err != nil {
		return err
	}
	s.logger.WithField("product_id", id).Info("product deleted")
	return nil
}

// Product возвращает живую запись товара.
func (s *Service) Product(id int64) (*domain.Product, error) {
	return s.catalog.Find(id)
}

// Products возвращает снимок каталога в порядке добавления.
func (s *Service) Products() []domain.Product {
	return s.catalog.List()
}

/* -------- Заказы -------- */

// CreateOrder открывает новый пустой заказ.
func (s *Service) CreateOrder() *domain.Order {
	o := s.ledger.Create(s.now())
	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}
	s.logger.WithField("order_id", o.ID).Info("order created")
	return o
}

// AddOrderItem списывает сток и добавляет позицию в заказ — два шага одного
// протокола. Если позиция не принимается, списание компенсируется сразу,
// чтобы отказ не оставил частичного эффекта.
func (s *Service) AddOrderItem(o *domain.Order, productID int64, qty int32) error {
	p, err := s.catalog.Find(productID)
	if err != nil {
		return err
	}
	snapshot := *p
	if err := s.catalog.DeductStock(productID, qty); err != nil {
		return err
	}
	if err := o.AddItem(snapshot, qty); err != nil {
		if incErr := s.catalog.IncreaseStock(productID, qty); incErr != nil {
			s.logger.WithError(incErr).WithField("product_id", productID).
				Error("failed to roll back stock deduction")
		}
		return err
	}
	if s.metrics != nil {
		s.metrics.RecordStockDeducted(int64(qty))
	}
	s.logger.WithFields(log.Fields{
		"order_id":   o.ID,
		"product_id": productID,
		"qty":        qty,
	}).Debug("order item added")
	return nil
}

// FinalizeOrder завершает интерактивный набор позиций: пустой заказ
// отменяется автоматически, снимок заказа дописывается в журнал.
func (s *Service) FinalizeOrder(o *domain.Order) error {
	if len(o.Items) == 0 && o.Status == domain.OrderStatusCreated {
		if _, _, err := s.ledger.CancelAndRestore(o, s.catalog); err != nil {
			return err
		}
		if s.metrics != nil {
			s.metrics.RecordOrderCancelled()
		}
		s.logger.WithField("order_id", o.ID).Info("empty order auto-cancelled")
	}
	return s.appendOrderRecord(o)
}

// PayOrder переводит заказ в PAID и фиксирует снимок в журнале.
// Для заказа вне CREATED возвращает ErrInvalidTransition, не меняя состояния.
func (s *Service) PayOrder(id int64) (*domain.Order, error) {
	o, err := s.ledger.Find(id)
	if err != nil {
		return nil, err
	}
	if err := o.MarkPaid(s.now()); err != nil {
		return o, err
	}
	if s.metrics != nil {
		s.metrics.RecordOrderPaid()
	}
	s.logger.WithFields(log.Fields{
		"order_id":    o.ID,
		"total_minor": o.TotalMinor,
	}).Info("order paid")
	return o, s.appendOrderRecord(o)
}

// CancelOrder отменяет заказ и возвращает сток всех его позиций в каталог.
// Позиции удалённых товаров пропускаются: их единицы потеряны для каталога.
func (s *Service) CancelOrder(id int64) (*domain.Order, error) {
	o, err := s.ledger.Find(id)
	if err != nil {
		return nil, err
	}
	restored, skipped, err := s.ledger.CancelAndRestore(o, s.catalog)
	if err != nil {
		return o, err
	}
	if s.metrics != nil {
		s.metrics.RecordOrderCancelled()
		s.metrics.RecordStockRestored(restored)
		s.metrics.RecordStockRestoreSkipped(skipped)
	}
	entry := s.logger.WithFields(log.Fields{
		"order_id":       o.ID,
		"restored_units": restored,
	})
	if skipped > 0 {
		entry.WithField("skipped_items", skipped).
			Warn("order cancelled; some items reference deleted products, their stock is lost")
	} else {
		entry.Info("order cancelled, stock restored")
	}
	return o, s.appendOrderRecord(o)
}

// Order возвращает заказ по идентификатору.
func (s *Service) Order(id int64) (*domain.Order, error) {
	return s.ledger.Find(id)
}

// Orders возвращает заказы в порядке создания.
func (s *Service) Orders() []*domain.Order {
	return s.ledger.All()
}

func (s *Service) appendOrderRecord(o *domain.Order) error {
	if err := s.orderLog.Append(o.Snapshot()); err != nil {
		return fmt.Errorf("append order record: %w", err)
	}
	return nil
}

/* -------- Закупки -------- */

// ReceivePurchase принимает закупку: увеличивает сток товара и дописывает
// запись в журнал закупок.
func (s *Service) ReceivePurchase(productID int64, qty int32, unitCostMinor int64) (domain.Purchase, error) {
	if _, err := s.catalog.Find(productID); err != nil {
		return domain.Purchase{}, err
	}
	if unitCostMinor < 0 {
		return domain.Purchase{}, domain.ErrPriceNegative
	}
	if err := s.catalog.IncreaseStock(productID, qty); err != nil {
		return domain.Purchase{}, err
	}

	p := domain.Purchase{
		ID:            s.nextPurchaseID,
		ProductID:     productID,
		Qty:           qty,
		UnitCostMinor: unitCostMinor,
		CreatedAt:     s.now(),
	}
	s.nextPurchaseID++
	s.purchases = append(s.purchases, p)

	if s.metrics != nil {
		s.metrics.RecordStockReceived(int64(qty))
	}
	s.logger.WithFields(log.Fields{
		"purchase_id": p.ID,
		"product_id":  productID,
		"qty":         qty,
	}).Info("purchase received")

	if err := s.purchaseRepo.Append(p); err != nil {
		// Сток уже увеличен; потеря записи — best-effort ограничение персистентности.
		return p, fmt.Errorf("purchase applied but not persisted: %w", err)
	}
	return p, nil
}

// Purchases возвращает журнал закупок текущего процесса в порядке приёмки.
func (s *Service) Purchases() []domain.Purchase {
	out := make([]domain.Purchase, len(s.purchases))
	copy(out, s.purchases)
	return out
}

// PurchaseSummary агрегирует журнал закупок по товарам.
func (s *Service) PurchaseSummary() []domain.PurchaseSummary {
	return domain.SummarizePurchases(s.purchases)
}

/* -------- Пороги дозаказа -------- */

// SetReorderLevel записывает порог товара.
func (s *Service) SetReorderLevel(productID int64, level int32) error {
	if _, err := s.catalog.Find(productID); err != nil {
		return err
	}
	if level < 0 {
		return domain.ErrInvalidQuantity
	}
	s.reorder.Set(productID, level)
	s.logger.WithFields(log.Fields{
		"product_id": productID,
		"level":      level,
	}).Info("reorder level set")
	return nil
}

// RemoveReorderLevel убирает индивидуальный порог товара.
func (s *Service) RemoveReorderLevel(productID int64) {
	s.reorder.Remove(productID)
}

// ReorderLevelFor возвращает действующий порог товара.
func (s *Service) ReorderLevelFor(productID int64) int32 {
	return s.reorder.Level(productID, s.defaultReorderLevel)
}

// LowStock возвращает товары с остатком ниже действующего порога
// и обновляет соответствующий gauge.
func (s *Service) LowStock() []domain.Product {
	low := domain.LowStock(s.catalog.List(), s.reorder, s.defaultReorderLevel)
	if s.metrics != nil {
		s.metrics.SetLowStockProducts(len(low))
	}
	return low
}

// ReplenishList возвращает предложения пополнения до порога.
func (s *Service) ReplenishList() []domain.ReplenishSuggestion {
	return domain.Replenish(s.catalog.List(), s.reorder, s.defaultReorderLevel)
}

/* -------- Пользователи -------- */

// RegisterUser регистрирует оператора и сразу сохраняет список пользователей.
func (s *Service) RegisterUser(username, password string) (domain.User, error) {
	u, err := s.users.Register(username, password)
	if err != nil {
		return domain.User{}, err
	}
	s.logger.WithFields(log.Fields{
		"user_id":  u.ID,
		"username": u.Username,
	}).Info("user registered")
	if err := s.userRepo.Save(s.users.All()); err != nil {
		return u, fmt.Errorf("user registered but not persisted: %w", err)
	}
	return u, nil
}

// Login проверяет учётные данные оператора.
func (s *Service) Login(username, password string) (domain.User, error) {
	u, err := s.users.Authenticate(username, password)
	if err != nil {
		s.logger.WithField("username", username).Warn("login failed")
		return domain.User{}, err
	}
	s.logger.WithField("username", username).Info("login ok")
	return u, nil
}
