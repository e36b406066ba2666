package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// SalesMetrics содержит метрики жизненного цикла заказов и движения стока.
type SalesMetrics struct {
	// Счётчики заказов
	ordersCreated   prometheus.Counter
	ordersPaid      prometheus.Counter
	ordersCancelled prometheus.Counter

	// Счётчики единиц стока
	stockDeducted prometheus.Counter
	stockRestored prometheus.Counter
	stockReceived prometheus.Counter
	// Единицы, потерянные при отмене из-за удалённого товара
	stockRestoreSkipped prometheus.Counter

	// Gauge товаров ниже порога дозаказа
	lowStockProducts prometheus.Gauge
}

// NewSalesMetrics создаёт метрики на DefaultRegisterer.
func NewSalesMetrics() *SalesMetrics {
	return newSalesMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newSalesMetricsWithRegisterer(registerer prometheus.Registerer) *SalesMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &SalesMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "sales_orders_created_total",
			Help: "Total number of orders created",
		}),
		ordersPaid: registerCounter(registerer, prometheus.CounterOpts{
			Name: "sales_orders_paid_total",
			Help: "Total number of orders paid",
		}),
		ordersCancelled: registerCounter(registerer, prometheus.CounterOpts{
			Name: "sales_orders_cancelled_total",
			Help: "Total number of orders cancelled",
		}),
		stockDeducted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "sales_stock_deducted_units_total",
			Help: "Total stock units deducted for order items",
		}),
		stockRestored: registerCounter(registerer, prometheus.CounterOpts{
			Name: "sales_stock_restored_units_total",
			Help: "Total stock units restored on order cancellation",
		}),
		stockReceived: registerCounter(registerer, prometheus.CounterOpts{
			Name: "sales_stock_received_units_total",
			Help: "Total stock units received from purchases",
		}),
		stockRestoreSkipped: registerCounter(registerer, prometheus.CounterOpts{
			Name: "sales_stock_restore_skipped_items_total",
			Help: "Order items whose stock restoration was skipped because the product was deleted",
		}),
		lowStockProducts: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "sales_low_stock_products",
			Help: "Number of products currently below their reorder threshold",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *SalesMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}

// RecordOrderPaid увеличивает счётчик оплаченных заказов.
func (m *SalesMetrics) RecordOrderPaid() {
	m.ordersPaid.Inc()
}

// RecordOrderCancelled увеличивает счётчик отменённых заказов.
func (m *SalesMetrics) RecordOrderCancelled() {
	m.ordersCancelled.Inc()
}

// RecordStockDeducted учитывает списанные единицы.
func (m *SalesMetrics) RecordStockDeducted(units int64) {
	m.stockDeducted.Add(float64(units))
}

// RecordStockRestored учитывает возвращённые при отмене единицы.
func (m *SalesMetrics) RecordStockRestored(units int64) {
	m.stockRestored.Add(float64(units))
}

// RecordStockReceived учитывает единицы, принятые по закупке.
func (m *SalesMetrics) RecordStockReceived(units int64) {
	m.stockReceived.Add(float64(units))
}

// RecordStockRestoreSkipped учитывает позиции, возврат которых пропущен.
func (m *SalesMetrics) RecordStockRestoreSkipped(items int) {
	m.stockRestoreSkipped.Add(float64(items))
}

// SetLowStockProducts обновляет gauge товаров ниже порога.
func (m *SalesMetrics) SetLowStockProducts(n int) {
	m.lowStockProducts.Set(float64(n))
}
