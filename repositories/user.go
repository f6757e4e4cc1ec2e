//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"chatterbox/domain"
	"chatterbox/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

const (
	userKeyPrefix = "user:"
	emailIdxKey   = "idx:email:"
)

type IUserRepository interface {
	CreateUser(user User) error
	GetUserByEmail(email string) (User, bool, error)
	GetUserByID(id string) (User, bool, error)
	ListUsers() ([]User, error)
	CountUsers() (int, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// User is the storage representation of an account. PasswordHash never
// leaves the repository/service boundary; ToDomain drops it.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Avatar       string    `json:"avatar"`
	PasswordHash string    `json:"password_hash,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u User) ToDomain() domain.User {
	return domain.User{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Avatar: u.Avatar,
	}
}

func ToDomainUsers(users []User) []domain.User {
	return lo.Map(users, func(u User, _ int) domain.User {
		return u.ToDomain()
	})
}

// CreateUser persists the account under "user:{id}" and maintains the
// "idx:email:{email}" index used by the login lookup. The index write
// doubles as the uniqueness check: an occupied slot rejects the signup.
func (u *UserRepository) CreateUser(user User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	return u.db.Update(func(txn *badger.Txn) error {
		idxKey := []byte(emailIdxKey + user.Email)
		if _, err := txn.Get(idxKey); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if err := txn.Set(idxKey, []byte(user.ID)); err != nil {
			return err
		}
		return txn.Set([]byte(userKeyPrefix+user.ID), data)
	})
}

// GetUserByEmail resolves the email index first, then loads the record.
// A missing email is not an error: the caller decides whether absence
// is an auth failure or an empty read.
func (u *UserRepository) GetUserByEmail(email string) (User, bool, error) {
	var id string
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(emailIdxKey + email))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, err
	}
	return u.GetUserByID(id)
}

func (u *UserRepository) GetUserByID(id string) (User, bool, error) {
	var user User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userKeyPrefix + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		})
	})
	if err == badger.ErrKeyNotFound {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, err
	}
	return user, true, nil
}

// ListUsers scans the "user:" prefix. Records sort by id, which is
// opaque; callers needing a display order sort themselves.
func (u *UserRepository) ListUsers() ([]User, error) {
	var users []User
	err := u.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(userKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var user User
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &user)
			})
			if err != nil {
				return err
			}
			users = append(users, user)
		}
		return nil
	})
	return users, err
}

func (u *UserRepository) CountUsers() (int, error) {
	count := 0
	err := u.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		prefix := []byte(userKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
