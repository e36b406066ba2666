package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/sales/internal/domain"
)

func TestOrderAddItem_MaintainsTotal(t *testing.T) {
	now := time.Now().UTC()
	o := domain.NewOrder(1, now)

	items := []struct {
		product domain.Product
		qty     int32
	}{
		{domain.Product{ID: 1, Name: "a", PriceMinor: 250}, 3},
		{domain.Product{ID: 2, Name: "b", PriceMinor: 400}, 2},
		{domain.Product{ID: 1, Name: "a", PriceMinor: 250}, 1},
	}
	for _, it := range items {
		if err := o.AddItem(it.product, it.qty); err != nil {
			t.Fatalf("add item: %v", err)
		}
	}

	// Сумма всегда равна сумме позиций.
	var want int64
	for _, item := range o.Items {
		want += int64(item.Qty) * item.UnitPriceMinor
	}
	if o.TotalMinor != want {
		t.Fatalf("expected total %d, got %d", want, o.TotalMinor)
	}
	if errs := o.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no invariant violations, got %v", errs)
	}
	if len(o.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(o.Items))
	}
}

func TestOrderAddItem_CapturesPriceSnapshot(t *testing.T) {
	o := domain.NewOrder(1, time.Now().UTC())
	p := domain.Product{ID: 5, Name: "seasonal", PriceMinor: 1000}
	if err := o.AddItem(p, 2); err != nil {
		t.Fatalf("add item: %v", err)
	}

	// Позднее изменение цены товара не трогает записанную позицию.
	p.PriceMinor = 9999
	if o.Items[0].UnitPriceMinor != 1000 || o.Items[0].LineTotalMinor != 2000 {
		t.Fatalf("snapshot price lost: %+v", o.Items[0])
	}
}

func TestOrderAddItem_Validation(t *testing.T) {
	o := domain.NewOrder(1, time.Now().UTC())
	p := domain.Product{ID: 1, PriceMinor: 100}

	if err := o.AddItem(p, 0); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if o.TotalMinor != 0 || len(o.Items) != 0 {
		t.Fatalf("failed add must not mutate order: %+v", o)
	}

	if err := o.MarkPaid(time.Now().UTC()); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if err := o.AddItem(p, 1); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestOrderTransitions_TerminalStatesAbsorb(t *testing.T) {
	cases := []struct {
		name  string
		setup func(o *domain.Order)
		op    func(o *domain.Order) error
		want  domain.OrderStatus
	}{
		{
			name:  "pay then cancel keeps paid",
			setup: func(o *domain.Order) { _ = o.MarkPaid(time.Now().UTC()) },
			op:    func(o *domain.Order) error { return o.Cancel() },
			want:  domain.OrderStatusPaid,
		},
		{
			name:  "cancel then pay keeps cancelled",
			setup: func(o *domain.Order) { _ = o.Cancel() },
			op:    func(o *domain.Order) error { return o.MarkPaid(time.Now().UTC()) },
			want:  domain.OrderStatusCancelled,
		},
		{
			name:  "double pay",
			setup: func(o *domain.Order) { _ = o.MarkPaid(time.Now().UTC()) },
			op:    func(o *domain.Order) error { return o.MarkPaid(time.Now().UTC()) },
			want:  domain.OrderStatusPaid,
		},
		{
			name:  "double cancel",
			setup: func(o *domain.Order) { _ = o.Cancel() },
			op:    func(o *domain.Order) error { return o.Cancel() },
			want:  domain.OrderStatusCancelled,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := domain.NewOrder(1, time.Now().UTC())
			tc.setup(o)
			if err := tc.op(o); !errors.Is(err, domain.ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition, got %v", err)
			}
			if o.Status != tc.want {
				t.Fatalf("expected status %s, got %s", tc.want, o.Status)
			}
		})
	}
}

func TestOrderMarkPaid_RecordsTimestamp(t *testing.T) {
	o := domain.NewOrder(1, time.Now().UTC())
	if !o.PaidAt.IsZero() {
		t.Fatal("paidAt must be zero before payment")
	}
	paidAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	if err := o.MarkPaid(paidAt); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if !o.PaidAt.Equal(paidAt) {
		t.Fatalf("expected paidAt %v, got %v", paidAt, o.PaidAt)
	}
}

func TestOrderValidateInvariants_DetectsDrift(t *testing.T) {
	o := domain.NewOrder(1, time.Now().UTC())
	if err := o.AddItem(domain.Product{ID: 1, PriceMinor: 100}, 2); err != nil {
		t.Fatalf("add item: %v", err)
	}
	o.TotalMinor = 999

	errs := o.ValidateInvariants()
	if len(errs) != 1 || !errors.Is(errs[0], domain.ErrTotalMismatch) {
		t.Fatalf("expected ErrTotalMismatch, got %v", errs)
	}
}

func TestOrderSnapshot_IsDetachedCopy(t *testing.T) {
	o := domain.NewOrder(4, time.Now().UTC())
	if err := o.AddItem(domain.Product{ID: 1, PriceMinor: 150}, 2); err != nil {
		t.Fatalf("add item: %v", err)
	}

	rec := o.Snapshot()
	if rec.OrderID != 4 || rec.ItemCount != 1 || rec.TotalMinor != 300 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	rec.Items[0].Qty = 99
	if o.Items[0].Qty != 2 {
		t.Fatal("snapshot must not alias order items")
	}
}
