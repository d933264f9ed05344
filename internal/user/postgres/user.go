package postgres

import (
	"errors"
	"strings"

	"github.com/prasetya/requisition-tracker/internal/user"
	"gorm.io/gorm"
)

// UserRepository implements user.RepositoryAPI using GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetAll() ([]*user.User, error) {
	var users []*user.User
	err := r.db.Preload("Profile").Order("id").Find(&users).Error
	return users, err
}

func (r *UserRepository) GetByID(id int64) (*user.User, error) {
	var u user.User
	err := r.db.Preload("Profile").Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateWithProfile inserts the account and its profile together, so a
// failed profile insert never leaves a profileless account behind.
func (r *UserRepository) CreateWithProfile(u *user.User) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(u).Error
	})
	if err != nil && isUniqueViolation(err) {
		return user.ErrDuplicateEmail
	}
	return err
}

func (r *UserRepository) Update(u *user.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Profile").Save(u).Error; err != nil {
			return err
		}
		if u.Profile != nil {
			u.Profile.UserID = u.ID
			if err := tx.Save(u.Profile).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UserRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&user.Profile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user.User{}, id).Error
	})
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
