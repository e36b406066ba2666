package file

import (
	"fmt"
	"strconv"

	"github.com/vladislavdragonenkov/sales/internal/domain"
)

// UserRepository хранит учётные записи в users.csv (#id,username,password).
type UserRepository struct {
	path string
}

// NewUserRepository создаёт файловый репозиторий пользователей.
func NewUserRepository(path string) *UserRepository {
	return &UserRepository{path: path}
}

func (r *UserRepository) Load() ([]domain.User, error) {
	records, err := readCSV(r.path)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	var users []domain.User
	for _, rec := range records {
		if len(rec) != 3 {
			continue
		}
		id, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			continue
		}
		users = append(users, domain.User{ID: id, Username: rec[1], Password: rec[2]})
	}
	return users, nil
}

func (r *UserRepository) Save(users []domain.User) error {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			strconv.FormatInt(u.ID, 10),
			u.Username,
			u.Password,
		})
	}
	if err := writeCSV(r.path, "#id,username,password", rows); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}
