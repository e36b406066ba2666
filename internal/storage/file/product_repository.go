// Package file реализует репозитории поверх плоских файлов: CSV-снимки
// для каталога, пользователей и порогов дозаказа плюс append-only журналы
// заказов и закупок. Запись «best effort», без транзакционных гарантий.
package file

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/vladislavdragonenkov/sales/internal/domain"
)

// ProductRepository хранит каталог в products.csv (#id,name,price_minor,stock).
type ProductRepository struct {
	path string
}

// NewProductRepository создаёт файловый репозиторий каталога.
func NewProductRepository(path string) *ProductRepository {
	return &ProductRepository{path: path}
}

// Load читает товары в сохранённом порядке. Отсутствующий файл — пустой каталог.
// Некорректные строки пропускаются, чтобы повреждённая строка не теряла файл целиком.
func (r *ProductRepository) Load() ([]domain.Product, error) {
	records, err := readCSV(r.path)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	var products []domain.Product
	for _, rec := range records {
		if len(rec) != 4 {
			continue
		}
		id, err1 := strconv.ParseInt(rec[0], 10, 64)
		price, err2 := strconv.ParseInt(rec[2], 10, 64)
		stock, err3 := strconv.ParseInt(rec[3], 10, 32)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		products = append(products, domain.Product{
			ID:         id,
			Name:       rec[1],
			PriceMinor: price,
			Stock:      int32(stock),
		})
	}
	return products, nil
}

// Save перезаписывает файл каталога целиком.
func (r *ProductRepository) Save(products []domain.Product) error {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			strconv.FormatInt(p.PriceMinor, 10),
			strconv.FormatInt(int64(p.Stock), 10),
		})
	}
	if err := writeCSV(r.path, "#id,name,price_minor,stock", rows); err != nil {
		return fmt.Errorf("save products: %w", err)
	}
	return nil
}

// readCSV возвращает записи CSV-файла, пропуская строки-комментарии.
// Отсутствующий файл не считается ошибкой.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// writeCSV перезаписывает файл: строка-комментарий с заголовком, затем записи.
func writeCSV(path, header string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, header); err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
