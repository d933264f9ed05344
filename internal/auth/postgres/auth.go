package postgres

import (
	"errors"

	"github.com/prasetya/requisition-tracker/internal/auth"
	"gorm.io/gorm"
)

type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) auth.RepositoryAPI {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) GetCredentialsByEmail(email string) (string, int64, error) {
	var row struct {
		ID           int64
		PasswordHash string
		IsActive     bool
	}

	err := r.db.Table("users").
		Select("id, password_hash, is_active").
		Where("email = ?", email).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", 0, auth.ErrInvalidCredentials
		}
		return "", 0, err
	}

	if !row.IsActive {
		return "", 0, auth.ErrUserInactive
	}

	return row.PasswordHash, row.ID, nil
}

func (r *AuthRepository) GetActorByID(userID int64) (*auth.Actor, error) {
	var row struct {
		ID       int64
		Email    string
		Name     string
		Role     string
		IsActive bool
	}

	err := r.db.Table("users").
		Select("id, email, name, role, is_active").
		Where("id = ?", userID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}

	if !row.IsActive {
		return nil, auth.ErrUserInactive
	}

	return &auth.Actor{
		ID:    row.ID,
		Email: row.Email,
		Name:  row.Name,
		Role:  auth.Role(row.Role),
	}, nil
}
