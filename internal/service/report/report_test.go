package report_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/sales/internal/domain"
	"github.com/vladislavdragonenkov/sales/internal/service/report"
)

func rec(orderID int64, status domain.OrderStatus, total int64, created time.Time, items ...domain.OrderItem) domain.OrderRecord {
	return domain.OrderRecord{
		OrderID:    orderID,
		Status:     status,
		ItemCount:  len(items),
		TotalMinor: total,
		CreatedAt:  created,
		Items:      items,
	}
}

func TestSalesSummary_LatestRecordWins(t *testing.T) {
	created := time.Date(2026, 7, 10, 9, 0, 0, 0, time.UTC)
	records := []domain.OrderRecord{
		// Заказ 1: CREATED, потом PAID — считается один раз как оплаченный.
		rec(1, domain.OrderStatusCreated, 500, created),
		rec(1, domain.OrderStatusPaid, 500, created),
		// Заказ 2: CREATED, потом CANCELLED.
		rec(2, domain.OrderStatusCreated, 300, created),
		rec(2, domain.OrderStatusCancelled, 300, created),
		// Заказ 3: только CREATED.
		rec(3, domain.OrderStatusCreated, 700, created),
		// Заказ 4: оплачен.
		rec(4, domain.OrderStatusPaid, 1500, created),
	}

	s := report.SalesSummary(records)
	if s.Orders != 4 {
		t.Fatalf("expected 4 orders, got %d", s.Orders)
	}
	if s.PaidOrders != 2 {
		t.Fatalf("expected 2 paid orders, got %d", s.PaidOrders)
	}
	if s.RevenueMinor != 2000 {
		t.Fatalf("expected revenue 2000, got %d", s.RevenueMinor)
	}
	if s.AvgPaidMinor != 1000 {
		t.Fatalf("expected avg 1000, got %d", s.AvgPaidMinor)
	}
}

func TestSalesSummary_Empty(t *testing.T) {
	s := report.SalesSummary(nil)
	if s.Orders != 0 || s.PaidOrders != 0 || s.RevenueMinor != 0 || s.AvgPaidMinor != 0 {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}

func TestMonthlySummary(t *testing.T) {
	july := time.Date(2026, 7, 10, 9, 0, 0, 0, time.UTC)
	august := time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)
	records := []domain.OrderRecord{
		rec(1, domain.OrderStatusPaid, 500, july),
		rec(2, domain.OrderStatusCancelled, 300, july),
		rec(3, domain.OrderStatusPaid, 900, august),
	}

	months := report.MonthlySummary(records)
	if len(months) != 2 {
		t.Fatalf("expected 2 months, got %d", len(months))
	}
	if months[0].Month != "2026-07" || months[0].Orders != 2 || months[0].PaidOrders != 1 || months[0].RevenueMinor != 500 {
		t.Fatalf("unexpected july: %+v", months[0])
	}
	if months[1].Month != "2026-08" || months[1].Orders != 1 || months[1].RevenueMinor != 900 {
		t.Fatalf("unexpected august: %+v", months[1])
	}
}

func TestTopProducts(t *testing.T) {
	created := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	records := []domain.OrderRecord{
		rec(1, domain.OrderStatusPaid, 0, created,
			domain.OrderItem{ProductID: 1, Qty: 3},
			domain.OrderItem{ProductID: 2, Qty: 5},
		),
		rec(2, domain.OrderStatusPaid, 0, created,
			domain.OrderItem{ProductID: 1, Qty: 4},
		),
		// Неоплаченные заказы в рейтинг не входят.
		rec(3, domain.OrderStatusCreated, 0, created,
			domain.OrderItem{ProductID: 3, Qty: 100},
		),
	}
	products := []domain.Product{{ID: 1, Name: "espresso"}, {ID: 2, Name: "latte"}}

	top := report.TopProducts(records, products, 10)
	if len(top) != 2 {
		t.Fatalf("expected 2 products, got %d", len(top))
	}
	if top[0].ProductID != 1 || top[0].Qty != 7 || top[0].Name != "espresso" {
		t.Fatalf("unexpected leader: %+v", top[0])
	}
	if top[1].ProductID != 2 || top[1].Qty != 5 {
		t.Fatalf("unexpected runner-up: %+v", top[1])
	}

	if got := report.TopProducts(records, products, 1); len(got) != 1 {
		t.Fatalf("topN must cap the list, got %d entries", len(got))
	}
}

func TestTopProducts_DeletedProductKeepsRank(t *testing.T) {
	created := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	records := []domain.OrderRecord{
		rec(1, domain.OrderStatusPaid, 0, created, domain.OrderItem{ProductID: 42, Qty: 2}),
	}

	top := report.TopProducts(records, nil, 5)
	if len(top) != 1 || top[0].ProductID != 42 || top[0].Name != "" {
		t.Fatalf("deleted product must stay ranked without a name: %+v", top)
	}
}
