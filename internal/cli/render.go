package cli

import (
	"fmt"

	"github.com/vladislavdragonenkov/sales/internal/domain"
)

func (s *Session) listProducts() {
	products := s.svc.Products()
	if len(products) == 0 {
		fmt.Fprintln(s.out, "No products found.")
		return
	}
	fmt.Fprintln(s.out, "=== Product List ===")
	fmt.Fprintf(s.out, "%-6s %-20s %-10s %-8s %-8s\n", "ID", "Name", "Price", "Stock", "Reorder")
	for _, p := range products {
		fmt.Fprintf(s.out, "%-6d %-20s %-10s %-8d %-8d\n",
			p.ID, p.Name, formatMoney(p.PriceMinor), p.Stock, s.svc.ReorderLevelFor(p.ID))
	}
}

func (s *Session) printOrder(o *domain.Order) {
	fmt.Fprintf(s.out, "=== Order %d ===\n", o.ID)
	fmt.Fprintf(s.out, "Status:  %s\n", o.Status)
	fmt.Fprintf(s.out, "Created: %s\n", o.CreatedAt.Format("2006-01-02 15:04:05"))
	if !o.PaidAt.IsZero() {
		fmt.Fprintf(s.out, "Paid:    %s\n", o.PaidAt.Format("2006-01-02 15:04:05"))
	}
	if len(o.Items) > 0 {
		fmt.Fprintf(s.out, "%-10s %-8s %-10s %-10s\n", "ProductID", "Qty", "Unit", "Line")
		for _, it := range o.Items {
			fmt.Fprintf(s.out, "%-10d %-8d %-10s %-10s\n",
				it.ProductID, it.Qty, formatMoney(it.UnitPriceMinor), formatMoney(it.LineTotalMinor))
		}
	}
	fmt.Fprintf(s.out, "Total:   %s\n", formatMoney(o.TotalMinor))
}

func (s *Session) listPurchases() {
	purchases := s.svc.Purchases()
	if len(purchases) == 0 {
		fmt.Fprintln(s.out, "No purchases recorded.")
		return
	}
	fmt.Fprintln(s.out, "=== Purchase Log ===")
	fmt.Fprintf(s.out, "%-6s %-10s %-8s %-10s %-20s\n", "ID", "ProductID", "Qty", "UnitCost", "Received")
	for _, p := range purchases {
		fmt.Fprintf(s.out, "%-6d %-10d %-8d %-10s %-20s\n",
			p.ID, p.ProductID, p.Qty, formatMoney(p.UnitCostMinor), p.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}

func (s *Session) printPurchaseSummary() {
	summary := s.svc.PurchaseSummary()
	if len(summary) == 0 {
		fmt.Fprintln(s.out, "No purchases recorded.")
		return
	}
	fmt.Fprintln(s.out, "=== Purchases by Product ===")
	fmt.Fprintf(s.out, "%-10s %-10s %-10s %-12s\n", "ProductID", "Receipts", "TotalQty", "TotalCost")
	for _, row := range summary {
		fmt.Fprintf(s.out, "%-10d %-10d %-10d %-12s\n",
			row.ProductID, row.Receipts, row.TotalQty, formatMoney(row.TotalCostMinor))
	}
}

func (s *Session) printLowStock() {
	low := s.svc.LowStock()
	if len(low) == 0 {
		fmt.Fprintln(s.out, "No products below reorder level.")
		return
	}
	fmt.Fprintln(s.out, "=== Low Stock ===")
	fmt.Fprintf(s.out, "%-6s %-20s %-8s %-8s\n", "ID", "Name", "Stock", "Level")
	for _, p := range low {
		fmt.Fprintf(s.out, "%-6d %-20s %-8d %-8d\n", p.ID, p.Name, p.Stock, s.svc.ReorderLevelFor(p.ID))
	}
}

func (s *Session) printReplenishList() {
	suggestions := s.svc.ReplenishList()
	if len(suggestions) == 0 {
		fmt.Fprintln(s.out, "Nothing to replenish.")
		return
	}
	fmt.Fprintln(s.out, "=== Replenishment List ===")
	fmt.Fprintf(s.out, "%-6s %-20s %-8s %-8s\n", "ID", "Name", "Stock", "Need")
	for _, sg := range suggestions {
		fmt.Fprintf(s.out, "%-6d %-20s %-8d %-8d\n", sg.Product.ID, sg.Product.Name, sg.Product.Stock, sg.Need)
	}
}
