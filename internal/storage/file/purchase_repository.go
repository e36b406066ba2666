package file

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/vladislavdragonenkov/sales/internal/domain"
)

// PurchaseRepository дописывает закупки в purchases.csv
// (#id,product_id,qty,unit_cost_minor,created_at).
type PurchaseRepository struct {
	path string
}

// NewPurchaseRepository создаёт файловый журнал закупок.
func NewPurchaseRepository(path string) *PurchaseRepository {
	return &PurchaseRepository{path: path}
}

// Append дописывает одну закупку; при первом обращении создаёт файл с заголовком.
func (r *PurchaseRepository) Append(p domain.Purchase) error {
	_, statErr := os.Stat(r.path)
	fresh := os.IsNotExist(statErr)

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open purchase log: %w", err)
	}
	defer f.Close()

	if fresh {
		if _, err := fmt.Fprintln(f, "#id,product_id,qty,unit_cost_minor,created_at"); err != nil {
			return fmt.Errorf("write purchase header: %w", err)
		}
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{
		strconv.FormatInt(p.ID, 10),
		strconv.FormatInt(p.ProductID, 10),
		strconv.FormatInt(int64(p.Qty), 10),
		strconv.FormatInt(p.UnitCostMinor, 10),
		strconv.FormatInt(epoch(p.CreatedAt), 10),
	}); err != nil {
		return fmt.Errorf("append purchase: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("append purchase: %w", err)
	}
	return nil
}

func (r *PurchaseRepository) Load() ([]domain.Purchase, error) {
	records, err := readCSV(r.path)
	if err != nil {
		return nil, fmt.Errorf("load purchases: %w", err)
	}

	var purchases []domain.Purchase
	for _, rec := range records {
		if len(rec) != 5 {
			continue
		}
		id, err1 := strconv.ParseInt(rec[0], 10, 64)
		productID, err2 := strconv.ParseInt(rec[1], 10, 64)
		qty, err3 := strconv.ParseInt(rec[2], 10, 32)
		cost, err4 := strconv.ParseInt(rec[3], 10, 64)
		created, err5 := strconv.ParseInt(rec[4], 10, 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			continue
		}
		purchases = append(purchases, domain.Purchase{
			ID:            id,
			ProductID:     productID,
			Qty:           int32(qty),
			UnitCostMinor: cost,
			CreatedAt:     fromEpoch(created),
		})
	}
	return purchases, nil
}
