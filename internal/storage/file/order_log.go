package file

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/sales/internal/domain"
)

// OrderLogRepository дописывает снимки заказов в текстовый журнал.
// Формат записи:
//
//	ORDER,<id>,STATUS,<name>,ITEMS,<n>,TOTAL,<minor>,CREATED,<epoch>,PAID,<epoch>
//	  ITEM,<product_id>,QTY,<qty>,UNIT,<minor>,LINE,<minor>
//
// Журнал только растёт; заказ может встречаться несколько раз,
// по разу на каждую смену состояния.
type OrderLogRepository struct {
	path string
}

// NewOrderLogRepository создаёт файловый журнал заказов.
func NewOrderLogRepository(path string) *OrderLogRepository {
	return &OrderLogRepository{path: path}
}

// Append дописывает один снимок заказа.
func (r *OrderLogRepository) Append(rec domain.OrderRecord) error {
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open order log: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "ORDER,%d,STATUS,%s,ITEMS,%d,TOTAL,%d,CREATED,%d,PAID,%d\n",
		rec.OrderID, rec.Status, rec.ItemCount, rec.TotalMinor,
		epoch(rec.CreatedAt), epoch(rec.PaidAt))
	for _, item := range rec.Items {
		fmt.Fprintf(w, "  ITEM,%d,QTY,%d,UNIT,%d,LINE,%d\n",
			item.ProductID, item.Qty, item.UnitPriceMinor, item.LineTotalMinor)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("append order record: %w", err)
	}
	return nil
}

// Load читает журнал целиком в порядке записи. Отсутствующий файл — пустой
// журнал; нераспознанные строки пропускаются.
func (r *OrderLogRepository) Load() ([]domain.OrderRecord, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open order log: %w", err)
	}
	defer f.Close()

	var records []domain.OrderRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "ORDER,"):
			rec, ok := parseOrderLine(line)
			if !ok {
				continue
			}
			records = append(records, rec)
		case strings.HasPrefix(line, "ITEM,"):
			if len(records) == 0 {
				continue
			}
			item, ok := parseItemLine(line)
			if !ok {
				continue
			}
			last := &records[len(records)-1]
			last.Items = append(last.Items, item)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read order log: %w", err)
	}
	return records, nil
}

func parseOrderLine(line string) (domain.OrderRecord, bool) {
	fields := strings.Split(line, ",")
	if len(fields) != 12 {
		return domain.OrderRecord{}, false
	}
	orderID, err1 := strconv.ParseInt(fields[1], 10, 64)
	itemCount, err2 := strconv.Atoi(fields[5])
	total, err3 := strconv.ParseInt(fields[7], 10, 64)
	created, err4 := strconv.ParseInt(fields[9], 10, 64)
	paid, err5 := strconv.ParseInt(fields[11], 10, 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return domain.OrderRecord{}, false
	}
	return domain.OrderRecord{
		OrderID:    orderID,
		Status:     domain.OrderStatus(fields[3]),
		ItemCount:  itemCount,
		TotalMinor: total,
		CreatedAt:  fromEpoch(created),
		PaidAt:     fromEpoch(paid),
	}, true
}

func parseItemLine(line string) (domain.OrderItem, bool) {
	fields := strings.Split(line, ",")
	if len(fields) != 8 {
		return domain.OrderItem{}, false
	}
	productID, err1 := strconv.ParseInt(fields[1], 10, 64)
	qty, err2 := strconv.ParseInt(fields[3], 10, 32)
	unit, err3 := strconv.ParseInt(fields[5], 10, 64)
	lineTotal, err4 := strconv.ParseInt(fields[7], 10, 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return domain.OrderItem{}, false
	}
	return domain.OrderItem{
		ProductID:      productID,
		Qty:            int32(qty),
		UnitPriceMinor: unit,
		LineTotalMinor: lineTotal,
	}, true
}

// epoch кодирует нулевое время как 0, чтобы неоплаченный заказ читался обратно.
func epoch(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func fromEpoch(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
