package domain

import "time"

// Purchase — приёмка товара от поставщика. Журнал закупок append-only.
type Purchase struct {
	ID            int64
	ProductID     int64
	Qty           int32
	UnitCostMinor int64
	CreatedAt     time.Time
}

// PurchaseSummary — агрегат закупок по одному товару.
type PurchaseSummary struct {
	ProductID      int64
	Receipts       int
	TotalQty       int64
	TotalCostMinor int64
}

// SummarizePurchases группирует закупки по товару в порядке первого появления.
func SummarizePurchases(purchases []Purchase) []PurchaseSummary {
	var out []PurchaseSummary
	index := make(map[int64]int)
	for _, p := range purchases {
		i, ok := index[p.ProductID]
		if !ok {
			i = len(out)
			index[p.ProductID] = i
			out = append(out, PurchaseSummary{ProductID: p.ProductID})
		}
		out[i].Receipts++
		out[i].TotalQty += int64(p.Qty)
		out[i].TotalCostMinor += int64(p.Qty) * p.UnitCostMinor
	}
	return out
}

// NextPurchaseID возвращает следующий идентификатор закупки по загруженному журналу.
func NextPurchaseID(purchases []Purchase) int64 {
	var max int64
	for _, p := range purchases {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}
