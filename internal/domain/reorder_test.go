package domain_test

import (
	"testing"

	"github.com/vladislavdragonenkov/sales/internal/domain"
)

func TestReorderTable_LevelFallback(t *testing.T) {
	tbl := domain.NewReorderTable()
	tbl.Set(1, 20)

	if got := tbl.Level(1, 10); got != 20 {
		t.Fatalf("expected override 20, got %d", got)
	}
	if got := tbl.Level(2, 10); got != 10 {
		t.Fatalf("expected default 10, got %d", got)
	}

	tbl.Set(1, 15) // upsert
	if got := tbl.Level(1, 10); got != 15 {
		t.Fatalf("expected updated level 15, got %d", got)
	}
	if got := len(tbl.Levels()); got != 1 {
		t.Fatalf("upsert must not duplicate entries, got %d", got)
	}

	tbl.Remove(1)
	if got := tbl.Level(1, 10); got != 10 {
		t.Fatalf("expected default after remove, got %d", got)
	}
	tbl.Remove(1) // повторное удаление не ошибка
}

func TestLowStockAndReplenish_Agree(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Name: "below", Stock: 4},
		{ID: 2, Name: "at threshold", Stock: 10},
		{ID: 3, Name: "above", Stock: 11},
		{ID: 4, Name: "override", Stock: 2},
	}
	tbl := domain.NewReorderTable()
	tbl.Set(4, 3)

	low := domain.LowStock(products, tbl, 10)
	if len(low) != 2 || low[0].ID != 1 || low[1].ID != 4 {
		t.Fatalf("unexpected low-stock set: %+v", low)
	}

	repl := domain.Replenish(products, tbl, 10)
	if len(repl) != len(low) {
		t.Fatalf("replenish membership must match low-stock: %+v vs %+v", repl, low)
	}
	if repl[0].Product.ID != 1 || repl[0].Need != 6 {
		t.Fatalf("expected need 6 for product 1, got %+v", repl[0])
	}
	if repl[1].Product.ID != 4 || repl[1].Need != 1 {
		t.Fatalf("expected need 1 for product 4, got %+v", repl[1])
	}
}

func TestReplenish_StockAtThresholdExcluded(t *testing.T) {
	products := []domain.Product{{ID: 1, Stock: 10}}
	tbl := domain.NewReorderTable()

	if low := domain.LowStock(products, tbl, 10); len(low) != 0 {
		t.Fatalf("stock == threshold must not be low: %+v", low)
	}
	if repl := domain.Replenish(products, tbl, 10); len(repl) != 0 {
		t.Fatalf("stock == threshold must not need replenishment: %+v", repl)
	}
}
