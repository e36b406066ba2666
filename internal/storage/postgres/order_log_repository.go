package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/sales/internal/domain"
)

type orderLogRepository struct {
	db *sql.DB
}

// NewOrderLogRepository создаёт PostgreSQL-реализацию OrderLogRepository.
func NewOrderLogRepository(store *Store) domain.OrderLogRepository {
	return &orderLogRepository{db: store.DB()}
}

func (r *orderLogRepository) Append(rec domain.OrderRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var recordID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO order_log (order_id, status, item_count, total_minor, created_at, paid_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING record_id
	`,
		rec.OrderID, string(rec.Status), rec.ItemCount, rec.TotalMinor,
		toEpoch(rec.CreatedAt), toEpoch(rec.PaidAt),
	).Scan(&recordID)
	if err != nil {
		return fmt.Errorf("insert order record: %w", err)
	}

	for i, item := range rec.Items {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO order_log_items (record_id, position, product_id, qty, unit_price_minor, line_total_minor)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, recordID, i, item.ProductID, item.Qty, item.UnitPriceMinor, item.LineTotalMinor); err != nil {
			return fmt.Errorf("insert order record item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit order record: %w", err)
	}
	return nil
}

func (r *orderLogRepository) Load() ([]domain.OrderRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT record_id, order_id, status, item_count, total_minor, created_at, paid_at
		FROM order_log
		ORDER BY record_id
	`)
	if err != nil {
		return nil, fmt.Errorf("select order log: %w", err)
	}
	defer rows.Close()

	var records []domain.OrderRecord
	var recordIDs []int64
	for rows.Next() {
		var rec domain.OrderRecord
		var recordID, created, paid int64
		var status string
		if err := rows.Scan(&recordID, &rec.OrderID, &status, &rec.ItemCount,
			&rec.TotalMinor, &created, &paid); err != nil {
			return nil, fmt.Errorf("scan order record: %w", err)
		}
		rec.Status = domain.OrderStatus(status)
		rec.CreatedAt = fromEpoch(created)
		rec.PaidAt = fromEpoch(paid)
		records = append(records, rec)
		recordIDs = append(recordIDs, recordID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order log: %w", err)
	}

	for i, recordID := range recordIDs {
		items, err := r.loadItems(ctx, recordID)
		if err != nil {
			return nil, err
		}
		records[i].Items = items
	}
	return records, nil
}

func (r *orderLogRepository) loadItems(ctx context.Context, recordID int64) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, qty, unit_price_minor, line_total_minor
		FROM order_log_items
		WHERE record_id = $1
		ORDER BY position
	`, recordID)
	if err != nil {
		return nil, fmt.Errorf("select order record items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Qty, &item.UnitPriceMinor, &item.LineTotalMinor); err != nil {
			return nil, fmt.Errorf("scan order record item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order record items: %w", err)
	}
	return items, nil
}

func toEpoch(t time.Time) int64 {
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
