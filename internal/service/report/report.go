// Package report строит отчёты по журналу заказов. Журнал содержит снимок
// заказа на каждую смену состояния, поэтому перед агрегацией берётся
// последняя запись каждого заказа.
package report

import (
	"sort"

	"github.com/vladislavdragonenkov/sales/internal/domain"
)

// Summary — сводка продаж по всему журналу.
type Summary struct {
	Orders       int
	PaidOrders   int
	RevenueMinor int64
	// AvgPaidMinor — средний чек оплаченного заказа; 0, если оплат нет.
	AvgPaidMinor int64
}

// MonthlySales — продажи за один календарный месяц (по дате создания заказа).
type MonthlySales struct {
	// Month в формате YYYY-MM.
	Month        string
	Orders       int
	PaidOrders   int
	RevenueMinor int64
}

// TopProduct — товар в рейтинге продаж по количеству.
type TopProduct struct {
	ProductID int64
	// Name пустое, если товара уже нет в каталоге.
	Name string
	Qty  int64
}

// latestPerOrder сводит журнал к актуальному снимку каждого заказа,
// сохраняя порядок первого появления.
func latestPerOrder(records []domain.OrderRecord) []domain.OrderRecord {
	var out []domain.OrderRecord
	index := make(map[int64]int)
	for _, rec := range records {
		if i, ok := index[rec.OrderID]; ok {
			out[i] = rec
			continue
		}
		index[rec.OrderID] = len(out)
		out = append(out, rec)
	}
	return out
}

// SalesSummary считает сводку: все заказы, оплаченные и выручка по оплаченным.
func SalesSummary(records []domain.OrderRecord) Summary {
	latest := latestPerOrder(records)

	s := Summary{Orders: len(latest)}
	for _, rec := range latest {
		if rec.Status != domain.OrderStatusPaid {
			continue
		}
		s.PaidOrders++
		s.RevenueMinor += rec.TotalMinor
	}
	if s.PaidOrders > 0 {
		s.AvgPaidMinor = s.RevenueMinor / int64(s.PaidOrders)
	}
	return s
}

// MonthlySummary группирует заказы по месяцу создания, месяцы по возрастанию.
func MonthlySummary(records []domain.OrderRecord) []MonthlySales {
	latest := latestPerOrder(records)

	byMonth := make(map[string]*MonthlySales)
	for _, rec := range latest {
		if rec.CreatedAt.IsZero() {
			continue
		}
		month := rec.CreatedAt.Format("2006-01")
		m, ok := byMonth[month]
		if !ok {
			m = &MonthlySales{Month: month}
			byMonth[month] = m
		}
		m.Orders++
		if rec.Status == domain.OrderStatusPaid {
			m.PaidOrders++
			m.RevenueMinor += rec.TotalMinor
		}
	}

	out := make([]MonthlySales, 0, len(byMonth))
	for _, m := range byMonth {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// TopProducts возвращает topN товаров по проданному количеству в оплаченных
// заказах. Имена подставляются из снимка каталога; удалённый товар остаётся
// в рейтинге без имени.
func TopProducts(records []domain.OrderRecord, products []domain.Product, topN int) []TopProduct {
	latest := latestPerOrder(records)

	qtyByProduct := make(map[int64]int64)
	for _, rec := range latest {
		if rec.Status != domain.OrderStatusPaid {
			continue
		}
		for _, item := range rec.Items {
			qtyByProduct[item.ProductID] += int64(item.Qty)
		}
	}

	names := make(map[int64]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	out := make([]TopProduct, 0, len(qtyByProduct))
	for id, qty := range qtyByProduct {
		out = append(out, TopProduct{ProductID: id, Name: names[id], Qty: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Qty != out[j].Qty {
			return out[i].Qty > out[j].Qty
		}
		return out[i].ProductID < out[j].ProductID
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}
