// Package cli реализует интерактивную консоль системы продаж: меню,
// ввод операторских команд и отображение результатов. Мутирующие операции
// доступны только после входа.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/sales/internal/domain"
	"github.com/vladislavdragonenkov/sales/internal/service/report"
	"github.com/vladislavdragonenkov/sales/internal/service/sales"
)

// operator — вошедший пользователь с токеном сессии.
type operator struct {
	user      domain.User
	token     string
	startedAt time.Time
}

// Session держит состояние одной интерактивной сессии.
type Session struct {
	svc      *sales.Service
	orderLog domain.OrderLogRepository

	in     *bufio.Scanner
	out    io.Writer
	logger *log.Entry

	current *operator
}

// NewSession создаёт сессию поверх источника команд и приёмника вывода.
func NewSession(svc *sales.Service, orderLog domain.OrderLogRepository, in io.Reader, out io.Writer, logger *log.Entry) *Session {
	if logger == nil {
		logger = log.New().WithField("component", "cli")
	}
	return &Session{
		svc:      svc,
		orderLog: orderLog,
		in:       newScanner(in),
		out:      out,
		logger:   logger,
	}
}

func (s *Session) printMenu() {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "===== Sales System =====")
	fmt.Fprintln(s.out, "[Product]")
	fmt.Fprintln(s.out, " 1. List products")
	fmt.Fprintln(s.out, " 2. Add product (login required)")
	fmt.Fprintln(s.out, " 3. Modify product (login required)")
	fmt.Fprintln(s.out, " 4. Delete product (login required)")
	fmt.Fprintln(s.out, "[Order]")
	fmt.Fprintln(s.out, " 5. Create order (login required)")
	fmt.Fprintln(s.out, " 6. List orders")
	fmt.Fprintln(s.out, " 7. Pay order (login required)")
	fmt.Fprintln(s.out, " 8. Cancel order (login required)")
	fmt.Fprintln(s.out, "[Inventory]")
	fmt.Fprintln(s.out, " 9. Receive purchase (login required)")
	fmt.Fprintln(s.out, "10. Purchase log")
	fmt.Fprintln(s.out, "11. Purchase summary by product")
	fmt.Fprintln(s.out, "[Reorder]")
	fmt.Fprintln(s.out, "12. Low stock list")
	fmt.Fprintln(s.out, "13. Replenishment list")
	fmt.Fprintln(s.out, "14. Set reorder level (login required)")
	fmt.Fprintln(s.out, "15. Remove reorder level (login required)")
	fmt.Fprintln(s.out, "[Reports]")
	fmt.Fprintln(s.out, "16. Sales summary")
	fmt.Fprintln(s.out, "17. Monthly sales")
	fmt.Fprintln(s.out, "18. Top products")
	fmt.Fprintln(s.out, "[User]")
	fmt.Fprintln(s.out, "19. Register")
	fmt.Fprintln(s.out, "20. Login")
	fmt.Fprintln(s.out, "21. Logout")
	fmt.Fprintln(s.out, " 0. Exit")
}

// Run крутит цикл меню до выхода оператора, конца ввода или отмены контекста.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.printMenu()
		choice, err := s.readInt64("Select: ")
		if err != nil {
			if errors.Is(err, errInputClosed) {
				return nil
			}
			return err
		}

		var handlerErr error
		switch choice {
		case 0:
			fmt.Fprintln(s.out, "Bye.")
			return nil
		case 1:
			s.listProducts()
		case 2:
			handlerErr = s.withLogin(s.handleAddProduct)
		case 3:
			handlerErr = s.withLogin(s.handleModifyProduct)
		case 4:
			handlerErr = s.withLogin(s.handleDeleteProduct)
		case 5:
			handlerErr = s.withLogin(s.handleCreateOrder)
		case 6:
			handlerErr = s.handleListOrders()
		case 7:
			handlerErr = s.withLogin(s.handlePayOrder)
		case 8:
			handlerErr = s.withLogin(s.handleCancelOrder)
		case 9:
			handlerErr = s.withLogin(s.handleReceivePurchase)
		case 10:
			s.listPurchases()
		case 11:
			s.printPurchaseSummary()
		case 12:
			s.printLowStock()
		case 13:
			s.printReplenishList()
		case 14:
			handlerErr = s.withLogin(s.handleSetReorderLevel)
		case 15:
			handlerErr = s.withLogin(s.handleRemoveReorderLevel)
		case 16:
			handlerErr = s.printSalesSummary()
		case 17:
			handlerErr = s.printMonthlySales()
		case 18:
			handlerErr = s.printTopProducts()
		case 19:
			handlerErr = s.handleRegister()
		case 20:
			handlerErr = s.handleLogin()
		case 21:
			s.handleLogout()
		default:
			fmt.Fprintln(s.out, "Invalid option.")
		}

		if handlerErr != nil {
			if errors.Is(handlerErr, errInputClosed) {
				return nil
			}
			return handlerErr
		}
	}
}

// withLogin пропускает обработчик только для вошедшего оператора.
func (s *Session) withLogin(fn func() error) error {
	if s.current == nil {
		fmt.Fprintln(s.out, "Please login first.")
		return nil
	}
	return fn()
}

/* -------- Пользователи -------- */

func (s *Session) handleRegister() error {
	username, err := s.readLine("New username: ")
	if err != nil {
		return err
	}
	password, err := s.readLine("Password: ")
	if err != nil {
		return err
	}
	u, err := s.svc.RegisterUser(username, password)
	if err != nil {
		s.reportError(err)
		return nil
	}
	fmt.Fprintf(s.out, "Registration successful. UserID=%d\n", u.ID)
	return nil
}

func (s *Session) handleLogin() error {
	if s.current != nil {
		fmt.Fprintf(s.out, "Already logged in as %s. Logout first to switch user.\n", s.current.user.Username)
		return nil
	}
	username, err := s.readLine("Username: ")
	if err != nil {
		return err
	}
	password, err := s.readLine("Password: ")
	if err != nil {
		return err
	}
	u, err := s.svc.Login(username, password)
	if err != nil {
		s.reportError(err)
		return nil
	}
	s.current = &operator{
		user:      u,
		token:     uuid.NewString(),
		startedAt: time.Now().UTC(),
	}
	s.logger.WithFields(log.Fields{
		"username":      u.Username,
		"session_token": s.current.token,
	}).Info("operator session started")
	fmt.Fprintf(s.out, "Welcome, %s.\n", u.Username)
	return nil
}

func (s *Session) handleLogout() {
	if s.current == nil {
		fmt.Fprintln(s.out, "No user is logged in.")
		return
	}
	s.logger.WithFields(log.Fields{
		"session_token": s.current.token,
		"duration":      time.Since(s.current.startedAt).Round(time.Second).String(),
	}).Info("operator session closed")
	fmt.Fprintf(s.out, "User %s logged out.\n", s.current.user.Username)
	s.current = nil
}

/* -------- Товары -------- */

func (s *Session) handleAddProduct() error {
	name, err := s.readLine("Product name: ")
	if err != nil {
		return err
	}
	price, err := s.readMoney("Product price: ")
	if err != nil {
		return err
	}
	stock, err := s.readInt32("Initial stock: ")
	if err != nil {
		return err
	}
	id, err := s.svc.AddProduct(name, price, stock)
	if err != nil {
		s.reportError(err)
		return nil
	}
	fmt.Fprintf(s.out, "Added. ID=%d\n", id)
	return nil
}

func (s *Session) handleModifyProduct() error {
	id, err := s.readInt64("Product ID to modify: ")
	if err != nil {
		return err
	}
	p, err := s.svc.Product(id)
	if err != nil {
		s.reportError(err)
		return nil
	}
	fmt.Fprintf(s.out, "Current: Name=%s Price=%s Stock=%d\n", p.Name, formatMoney(p.PriceMinor), p.Stock)

	name, err := s.readLine("New name (empty to keep): ")
	if err != nil {
		return err
	}
	price, err := s.readMoneyOrKeep("New price (empty to keep): ")
	if err != nil {
		return err
	}
	stock, err := s.readInt32OrKeep("New stock (empty to keep): ")
	if err != nil {
		return err
	}
	if err := s.svc.ModifyProduct(id, name, price, stock); err != nil {
		s.reportError(err)
		return nil
	}
	fmt.Fprintln(s.out, "Modify success.")
	return nil
}

func (s *Session) handleDeleteProduct() error {
	id, err := s.readInt64("Product ID to delete: ")
	if err != nil {
		return err
	}
	if err := s.svc.DeleteProduct(id); err != nil {
		s.reportError(err)
		return nil
	}
	fmt.Fprintln(s.out, "Delete success.")
	return nil
}

/* -------- Заказы -------- */

func (s *Session) handleCreateOrder() error {
	o := s.svc.CreateOrder()
	fmt.Fprintf(s.out, "Creating new order. OrderID=%d\n", o.ID)
	for {
		pid, err := s.readInt64("Enter product ID (0 to finish): ")
		if err != nil {
			return err
		}
		if pid == 0 {
			break
		}
		p, err := s.svc.Product(pid)
		if err != nil {
			s.reportError(err)
			continue
		}
		fmt.Fprintf(s.out, "Product: %s Price: %s Stock: %d\n", p.Name, formatMoney(p.PriceMinor), p.Stock)
		qty, err := s.readInt32("Quantity: ")
		if err != nil {
			return err
		}
		if err := s.svc.AddOrderItem(o, pid, qty); err != nil {
			s.reportError(err)
			continue
		}
		fmt.Fprintln(s.out, "Added to order.")
	}
	if err := s.svc.FinalizeOrder(o); err != nil {
		s.reportError(err)
	}
	if o.Status == domain.OrderStatusCancelled && len(o.Items) == 0 {
		fmt.Fprintln(s.out, "Empty order. Auto-cancelled.")
	}
	s.printOrder(o)
	return nil
}

func (s *Session) handleListOrders() error {
	orders := s.svc.Orders()
	if len(orders) == 0 {
		fmt.Fprintln(s.out, "No orders found.")
		return nil
	}
	fmt.Fprintln(s.out, "=== Order List ===")
	fmt.Fprintf(s.out, "%-6s %-10s %-10s %-10s\n", "ID", "Status", "Items", "Total")
	for _, o := range orders {
		fmt.Fprintf(s.out, "%-6d %-10s %-10d %-10s\n", o.ID, o.Status, len(o.Items), formatMoney(o.TotalMinor))
	}

	detailID, err := s.readInt64("Enter order ID to view details (0 to skip): ")
	if err != nil {
		return err
	}
	if detailID == 0 {
		return nil
	}
	o, err := s.svc.Order(detailID)
	if err != nil {
		s.reportError(err)
		return nil
	}
	s.printOrder(o)
	return nil
}

func (s *Session) handlePayOrder() error {
	id, err := s.readInt64("Order ID to pay: ")
	if err != nil {
		return err
	}
	o, err := s.svc.PayOrder(id)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			fmt.Fprintf(s.out, "Order is %s, cannot pay.\n", o.Status)
			return nil
		}
		s.reportError(err)
		return nil
	}
	s.printOrder(o)
	fmt.Fprintln(s.out, "Payment accepted.")
	return nil
}

func (s *Session) handleCancelOrder() error {
	id, err := s.readInt64("Order ID to cancel: ")
	if err != nil {
		return err
	}
	o, err := s.svc.CancelOrder(id)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			fmt.Fprintf(s.out, "Order is %s, cannot cancel.\n", o.Status)
			return nil
		}
		s.reportError(err)
		return nil
	}
	s.printOrder(o)
	fmt.Fprintln(s.out, "Order cancelled and stock restored.")
	return nil
}

/* -------- Закупки и пороги -------- */

func (s *Session) handleReceivePurchase() error {
	pid, err := s.readInt64("Product ID: ")
	if err != nil {
		return err
	}
	qty, err := s.readInt32("Quantity received: ")
	if err != nil {
		return err
	}
	cost, err := s.readMoney("Unit cost: ")
	if err != nil {
		return err
	}
	p, err := s.svc.ReceivePurchase(pid, qty, cost)
	if err != nil {
		s.reportError(err)
		return nil
	}
	fmt.Fprintf(s.out, "Purchase recorded. PurchaseID=%d\n", p.ID)
	return nil
}

func (s *Session) handleSetReorderLevel() error {
	pid, err := s.readInt64("Product ID: ")
	if err != nil {
		return err
	}
	level, err := s.readInt32("Reorder level: ")
	if err != nil {
		return err
	}
	if err := s.svc.SetReorderLevel(pid, level); err != nil {
		s.reportError(err)
		return nil
	}
	fmt.Fprintln(s.out, "Reorder level saved.")
	return nil
}

func (s *Session) handleRemoveReorderLevel() error {
	pid, err := s.readInt64("Product ID: ")
	if err != nil {
		return err
	}
	s.svc.RemoveReorderLevel(pid)
	fmt.Fprintln(s.out, "Reorder level removed (default applies).")
	return nil
}

/* -------- Ошибки -------- */

// reportError переводит доменные ошибки в понятные оператору сообщения.
func (s *Session) reportError(err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		fmt.Fprintln(s.out, "Product not found.")
	case errors.Is(err, domain.ErrOrderNotFound):
		fmt.Fprintln(s.out, "Order not found.")
	case errors.Is(err, domain.ErrInsufficientStock):
		fmt.Fprintln(s.out, "Insufficient stock.")
	case errors.Is(err, domain.ErrInvalidQuantity):
		fmt.Fprintln(s.out, "Invalid quantity.")
	case errors.Is(err, domain.ErrProductInUse):
		fmt.Fprintln(s.out, "Product appears in active orders. Deletion denied.")
	case errors.Is(err, domain.ErrUserExists):
		fmt.Fprintln(s.out, "Username already exists.")
	case errors.Is(err, domain.ErrCredentialsRequired):
		fmt.Fprintln(s.out, "Username or password empty.")
	case errors.Is(err, domain.ErrAuthFailed):
		fmt.Fprintln(s.out, "Login failed: user not found or wrong password.")
	default:
		fmt.Fprintf(s.out, "Operation failed: %v\n", err)
	}
}

/* -------- Отчёты -------- */

func (s *Session) printSalesSummary() error {
	records, err := s.orderLog.Load()
	if err != nil {
		s.reportError(err)
		return nil
	}
	sum := report.SalesSummary(records)
	fmt.Fprintln(s.out, "=== Sales Summary ===")
	fmt.Fprintf(s.out, "Orders:       %d\n", sum.Orders)
	fmt.Fprintf(s.out, "Paid orders:  %d\n", sum.PaidOrders)
	fmt.Fprintf(s.out, "Revenue:      %s\n", formatMoney(sum.RevenueMinor))
	fmt.Fprintf(s.out, "Avg paid:     %s\n", formatMoney(sum.AvgPaidMinor))
	return nil
}

func (s *Session) printMonthlySales() error {
	records, err := s.orderLog.Load()
	if err != nil {
		s.reportError(err)
		return nil
	}
	months := report.MonthlySummary(records)
	if len(months) == 0 {
		fmt.Fprintln(s.out, "No data.")
		return nil
	}
	fmt.Fprintln(s.out, "=== Monthly Sales ===")
	fmt.Fprintf(s.out, "%-8s %-8s %-8s %-10s\n", "Month", "Orders", "Paid", "Revenue")
	for _, m := range months {
		fmt.Fprintf(s.out, "%-8s %-8d %-8d %-10s\n", m.Month, m.Orders, m.PaidOrders, formatMoney(m.RevenueMinor))
	}
	return nil
}

func (s *Session) printTopProducts() error {
	n, err := s.readInt64("Top N (default 5): ")
	if err != nil {
		return err
	}
	if n <= 0 {
		n = 5
	}
	records, loadErr := s.orderLog.Load()
	if loadErr != nil {
		s.reportError(loadErr)
		return nil
	}
	top := report.TopProducts(records, s.svc.Products(), int(n))
	if len(top) == 0 {
		fmt.Fprintln(s.out, "No paid orders yet.")
		return nil
	}
	fmt.Fprintln(s.out, "=== Top Products ===")
	fmt.Fprintf(s.out, "%-6s %-20s %-8s\n", "ID", "Name", "Qty")
	for _, tp := range top {
		name := tp.Name
		if name == "" {
			name = "(deleted)"
		}
		fmt.Fprintf(s.out, "%-6d %-20s %-8d\n", tp.ProductID, name, tp.Qty)
	}
	return nil
}
