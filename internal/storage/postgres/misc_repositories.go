package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/sales/internal/domain"
)

type reorderRepository struct {
	db *sql.DB
}

// NewReorderRepository создаёт PostgreSQL-реализацию ReorderRepository.
func NewReorderRepository(store *Store) domain.ReorderRepository {
	return &reorderRepository{db: store.DB()}
}

func (r *reorderRepository) Load() ([]domain.ReorderLevel, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, level FROM reorder_levels ORDER BY product_id
	`)
	if err != nil {
		return nil, fmt.Errorf("select reorder levels: %w", err)
	}
	defer rows.Close()

	var levels []domain.ReorderLevel
	for rows.Next() {
		var l domain.ReorderLevel
		if err := rows.Scan(&l.ProductID, &l.Level); err != nil {
			return nil, fmt.Errorf("scan reorder level: %w", err)
		}
		levels = append(levels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reorder levels: %w", err)
	}
	return levels, nil
}

func (r *reorderRepository) Save(levels []domain.ReorderLevel) error {
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

	if _, err = tx.ExecContext(ctx, `DELETE FROM reorder_levels`); err != nil {
		return fmt.Errorf("clear reorder levels: %w", err)
	}
	for _, l := range levels {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO reorder_levels (product_id, level) VALUES ($1,$2)
		`, l.ProductID, l.Level); err != nil {
			return fmt.Errorf("insert reorder level: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save reorder levels: %w", err)
	}
	return nil
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository создаёт PostgreSQL-реализацию UserRepository.
func NewUserRepository(store *Store) domain.UserRepository {
	return &userRepository{db: store.DB()}
}

func (r *userRepository) Load() ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, username, password FROM users ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Password); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (r *userRepository) Save(users []domain.User) error {
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

	if _, err = tx.ExecContext(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("clear users: %w", err)
	}
	for _, u := range users {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO users (id, username, password) VALUES ($1,$2,$3)
		`, u.ID, u.Username, u.Password); err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save users: %w", err)
	}
	return nil
}

type purchaseRepository struct {
	db *sql.DB
}

// NewPurchaseRepository создаёт PostgreSQL-реализацию PurchaseRepository.
func NewPurchaseRepository(store *Store) domain.PurchaseRepository {
	return &purchaseRepository{db: store.DB()}
}

func (r *purchaseRepository) Append(p domain.Purchase) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO purchases (id, product_id, qty, unit_cost_minor, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, p.ID, p.ProductID, p.Qty, p.UnitCostMinor, toEpoch(p.CreatedAt)); err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

func (r *purchaseRepository) Load() ([]domain.Purchase, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, qty, unit_cost_minor, created_at
		FROM purchases
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("select purchases: %w", err)
	}
	defer rows.Close()

	var purchases []domain.Purchase
	for rows.Next() {
		var p domain.Purchase
		var created int64
		if err := rows.Scan(&p.ID, &p.ProductID, &p.Qty, &p.UnitCostMinor, &created); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		p.CreatedAt = fromEpoch(created)
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchases: %w", err)
	}
	return purchases, nil
}
