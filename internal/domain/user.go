package domain

// User — учётная запись оператора. Пароль хранится открытым текстом:
// защита учётных данных вне рамок системы.
type User struct {
	ID       int64
	Username string
	Password string
}

// UserList владеет учётными записями и монотонным счётчиком идентификаторов.
type UserList struct {
	users  []User
	nextID int64
}

// NewUserList создаёт пустой список пользователей.
func NewUserList() *UserList {
	return &UserList{nextID: 1}
}

// Restore заполняет список загруженными записями и возобновляет счётчик
// с максимального загруженного ID + 1.
func (l *UserList) Restore(users []User) {
	l.users = append(l.users[:0], users...)
	l.nextID = 1
	for _, u := range l.users {
		if u.ID >= l.nextID {
			l.nextID = u.ID + 1
		}
	}
}

// Register создаёт учётную запись с уникальным именем.
func (l *UserList) Register(username, password string) (User, error) {
	if username == "" || password == "" {
		return User{}, ErrCredentialsRequired
	}
	if _, err := l.FindByName(username); err == nil {
		return User{}, ErrUserExists
	}
	u := User{ID: l.nextID, Username: username, Password: password}
	l.nextID++
	l.users = append(l.users, u)
	return u, nil
}

// Authenticate проверяет имя и пароль.
func (l *UserList) Authenticate(username, password string) (User, error) {
	u, err := l.FindByName(username)
	if err != nil || u.Password != password {
		return User{}, ErrAuthFailed
	}
	return u, nil
}

// FindByName возвращает пользователя по имени.
func (l *UserList) FindByName(username string) (User, error) {
	for _, u := range l.users {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, ErrAuthFailed
}

// All возвращает копию учётных записей в порядке регистрации.
func (l *UserList) All() []User {
	out := make([]User, len(l.users))
	copy(out, l.users)
	return out
}
