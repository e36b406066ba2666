package sales_test

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/sales/internal/domain"
	"github.com/vladislavdragonenkov/sales/internal/service/sales"
	"github.com/vladislavdragonenkov/sales/internal/storage/memory"
)

type testEnv struct {
	svc       *sales.Service
	catalog   *domain.Catalog
	ledger    *domain.Ledger
	orderLog  *memory.OrderLogRepository
	purchases *memory.PurchaseRepository
	userRepo  *memory.UserRepository
}

// newTestEnv поднимает сервис на in-memory хранилищах с каталогом
// A(stock=10, 100) и B(stock=5, 200) и порогом по умолчанию 10.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel) // уменьшаем шум в тестах
	logger := baseLogger.WithField("component", "sales-test")

	catalog := domain.NewCatalog()
	_, err := catalog.Add("A", 100, 10)
	require.NoError(t, err)
	_, err = catalog.Add("B", 200, 5)
	require.NoError(t, err)

	env := &testEnv{
		catalog:   catalog,
		ledger:    domain.NewLedger(),
		orderLog:  memory.NewOrderLogRepository(),
		purchases: memory.NewPurchaseRepository(),
		userRepo:  memory.NewUserRepository(),
	}
	env.svc = sales.NewServiceWithoutMetrics(
		catalog,
		env.ledger,
		domain.NewReorderTable(),
		domain.NewUserList(),
		env.orderLog,
		env.purchases,
		env.userRepo,
		10,
		logger,
	)
	return env
}

func (e *testEnv) stock(t *testing.T, id int64) int32 {
	t.Helper()
	p, err := e.catalog.Find(id)
	require.NoError(t, err)
	return p.Stock
}

func TestAddOrderItem_DeductsStockAndRecordsSnapshot(t *testing.T) {
	env := newTestEnv(t)
	o := env.svc.CreateOrder()

	require.NoError(t, env.svc.AddOrderItem(o, 1, 3))
	require.NoError(t, env.svc.AddOrderItem(o, 2, 2))

	require.EqualValues(t, 7, env.stock(t, 1))
	require.EqualValues(t, 3, env.stock(t, 2))
	require.EqualValues(t, 700, o.TotalMinor)
	require.Len(t, o.Items, 2)
	require.Empty(t, o.ValidateInvariants())
}

func TestAddOrderItem_InsufficientStockLeavesNoTrace(t *testing.T) {
	env := newTestEnv(t)
	o := env.svc.CreateOrder()

	err := env.svc.AddOrderItem(o, 2, 6)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	require.EqualValues(t, 5, env.stock(t, 2))
	require.Empty(t, o.Items)
	require.Zero(t, o.TotalMinor)
}

func TestAddOrderItem_TerminalOrderRollsBackDeduction(t *testing.T) {
	env := newTestEnv(t)
	o := env.svc.CreateOrder()
	require.NoError(t, env.svc.AddOrderItem(o, 1, 1))
	_, err := env.svc.PayOrder(o.ID)
	require.NoError(t, err)

	err = env.svc.AddOrderItem(o, 1, 4)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	// Списание под отклонённую позицию компенсировано.
	require.EqualValues(t, 9, env.stock(t, 1))
	require.Len(t, o.Items, 1)
}

func TestPayOrder_AppendsPaidSnapshot(t *testing.T) {
	env := newTestEnv(t)
	o := env.svc.CreateOrder()
	require.NoError(t, env.svc.AddOrderItem(o, 1, 2))
	require.NoError(t, env.svc.FinalizeOrder(o))

	paid, err := env.svc.PayOrder(o.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusPaid, paid.Status)
	require.False(t, paid.PaidAt.IsZero())

	records, err := env.orderLog.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, domain.OrderStatusCreated, records[0].Status)
	require.Equal(t, domain.OrderStatusPaid, records[1].Status)
	require.EqualValues(t, 200, records[1].TotalMinor)
}

func TestCancelOrder_RestoresStock(t *testing.T) {
	env := newTestEnv(t)
	o := env.svc.CreateOrder()
	require.NoError(t, env.svc.AddOrderItem(o, 1, 3))
	require.NoError(t, env.svc.AddOrderItem(o, 2, 2))

	cancelled, err := env.svc.CancelOrder(o.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
	require.EqualValues(t, 10, env.stock(t, 1))
	require.EqualValues(t, 5, env.stock(t, 2))

	records, err := env.orderLog.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, domain.OrderStatusCancelled, records[0].Status)
}

func TestCancelOrder_PaidOrderIsReportedNoOp(t *testing.T) {
	env := newTestEnv(t)
	o := env.svc.CreateOrder()
	require.NoError(t, env.svc.AddOrderItem(o, 1, 3))
	_, err := env.svc.PayOrder(o.ID)
	require.NoError(t, err)

	_, err = env.svc.CancelOrder(o.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	require.Equal(t, domain.OrderStatusPaid, o.Status)
	// Отказ перехода не трогает сток и не пишет в журнал.
	require.EqualValues(t, 7, env.stock(t, 1))
	records, err := env.orderLog.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestFinalizeOrder_EmptyOrderAutoCancelled(t *testing.T) {
	env := newTestEnv(t)
	o := env.svc.CreateOrder()

	require.NoError(t, env.svc.FinalizeOrder(o))
	require.Equal(t, domain.OrderStatusCancelled, o.Status)

	records, err := env.orderLog.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, domain.OrderStatusCancelled, records[0].Status)
	require.Zero(t, records[0].ItemCount)
}

func TestDeleteProduct_GuardedByActiveOrders(t *testing.T) {
	env := newTestEnv(t)
	o := env.svc.CreateOrder()
	require.NoError(t, env.svc.AddOrderItem(o, 1, 1))

	// CREATED блокирует удаление.
	require.ErrorIs(t, env.svc.DeleteProduct(1), domain.ErrProductInUse)

	_, err := env.svc.PayOrder(o.ID)
	require.NoError(t, err)
	// PAID тоже блокирует.
	require.ErrorIs(t, env.svc.DeleteProduct(1), domain.ErrProductInUse)

	second := env.svc.CreateOrder()
	require.NoError(t, env.svc.AddOrderItem(second, 2, 1))
	_, err = env.svc.CancelOrder(second.ID)
	require.NoError(t, err)
	// Товар только из отменённого заказа удалить можно.
	require.NoError(t, env.svc.DeleteProduct(2))

	require.ErrorIs(t, env.svc.DeleteProduct(99), domain.ErrProductNotFound)
}

func TestDeleteProduct_AllowedAfterAllReferencesCancelled(t *testing.T) {
	env := newTestEnv(t)

	first := env.svc.CreateOrder()
	require.NoError(t, env.svc.AddOrderItem(first, 2, 1))
	second := env.svc.CreateOrder()
	require.NoError(t, env.svc.AddOrderItem(second, 2, 2))

	_, err := env.svc.CancelOrder(first.ID)
	require.NoError(t, err)
	// Вторая ссылка ещё активна.
	require.ErrorIs(t, env.svc.DeleteProduct(2), domain.ErrProductInUse)

	_, err = env.svc.CancelOrder(second.ID)
	require.NoError(t, err)
	require.NoError(t, env.svc.DeleteProduct(2))

	products := env.svc.Products()
	require.Len(t, products, 1)
	require.EqualValues(t, 1, products[0].ID)
}

func TestReceivePurchase_IncreasesStockAndAppendsLog(t *testing.T) {
	env := newTestEnv(t)

	p1, err := env.svc.ReceivePurchase(1, 5, 80)
	require.NoError(t, err)
	require.EqualValues(t, 1, p1.ID)
	require.EqualValues(t, 15, env.stock(t, 1))

	p2, err := env.svc.ReceivePurchase(2, 3, 150)
	require.NoError(t, err)
	require.EqualValues(t, 2, p2.ID)

	persisted, err := env.purchases.Load()
	require.NoError(t, err)
	require.Equal(t, []domain.Purchase{p1, p2}, persisted)

	sum := env.svc.PurchaseSummary()
	require.Len(t, sum, 2)
	require.EqualValues(t, 5, sum[0].TotalQty)

	_, err = env.svc.ReceivePurchase(99, 1, 10)
	require.ErrorIs(t, err, domain.ErrProductNotFound)
	_, err = env.svc.ReceivePurchase(1, 0, 10)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestRestorePurchases_ResumesIDs(t *testing.T) {
	env := newTestEnv(t)
	env.svc.RestorePurchases([]domain.Purchase{{ID: 7, ProductID: 1, Qty: 1}})

	p, err := env.svc.ReceivePurchase(1, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 8, p.ID)
}

func TestReorderLevels_ThroughService(t *testing.T) {
	env := newTestEnv(t)

	// Остатки 10 и 5 при пороге по умолчанию 10: только B ниже порога.
	low := env.svc.LowStock()
	require.Len(t, low, 1)
	require.EqualValues(t, 2, low[0].ID)

	repl := env.svc.ReplenishList()
	require.Len(t, repl, 1)
	require.EqualValues(t, 5, repl[0].Need)

	require.NoError(t, env.svc.SetReorderLevel(1, 20))
	require.EqualValues(t, 20, env.svc.ReorderLevelFor(1))
	require.Len(t, env.svc.LowStock(), 2)

	env.svc.RemoveReorderLevel(1)
	require.EqualValues(t, 10, env.svc.ReorderLevelFor(1))

	require.ErrorIs(t, env.svc.SetReorderLevel(99, 5), domain.ErrProductNotFound)
	require.ErrorIs(t, env.svc.SetReorderLevel(1, -1), domain.ErrInvalidQuantity)
}

func TestRegisterUser_PersistsImmediately(t *testing.T) {
	env := newTestEnv(t)

	u, err := env.svc.RegisterUser("alice", "secret")
	require.NoError(t, err)

	saved, err := env.userRepo.Load()
	require.NoError(t, err)
	require.Equal(t, []domain.User{u}, saved)

	_, err = env.svc.Login("alice", "secret")
	require.NoError(t, err)
	_, err = env.svc.Login("alice", "nope")
	require.ErrorIs(t, err, domain.ErrAuthFailed)
}
