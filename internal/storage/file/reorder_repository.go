package file

import (
	"fmt"
	"strconv"

	"github.com/vladislavdragonenkov/sales/internal/domain"
)

// ReorderRepository хранит пороги дозаказа в reorder_levels.csv (product_id,level).
type ReorderRepository struct {
	path string
}

// NewReorderRepository создаёт файловый репозиторий порогов.
func NewReorderRepository(path string) *ReorderRepository {
	return &ReorderRepository{path: path}
}

func (r *ReorderRepository) Load() ([]domain.ReorderLevel, error) {
	records, err := readCSV(r.path)
	if err != nil {
		return nil, fmt.Errorf("load reorder levels: %w", err)
	}

	var levels []domain.ReorderLevel
	for _, rec := range records {
		if len(rec) != 2 {
			continue
		}
		productID, err1 := strconv.ParseInt(rec[0], 10, 64)
		level, err2 := strconv.ParseInt(rec[1], 10, 32)
		if err1 != nil || err2 != nil {
			continue
		}
		levels = append(levels, domain.ReorderLevel{ProductID: productID, Level: int32(level)})
	}
	return levels, nil
}

func (r *ReorderRepository) Save(levels []domain.ReorderLevel) error {
	rows := make([][]string, 0, len(levels))
	for _, l := range levels {
		rows = append(rows, []string{
			strconv.FormatInt(l.ProductID, 10),
			strconv.FormatInt(int64(l.Level), 10),
		})
	}
	if err := writeCSV(r.path, "#product_id,level", rows); err != nil {
		return fmt.Errorf("save reorder levels: %w", err)
	}
	return nil
}
