package user

import (
	"errors"
	"time"

	"github.com/prasetya/requisition-tracker/internal/auth"
)

// User is an account that can request equipment; staff accounts also
// manage inventory, users and requisitions. Role is the single source of
// privilege; there are no separate superuser/staff booleans to keep in
// sync.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"not null;uniqueIndex"`
	Name         string    `json:"name" gorm:"not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	Role         auth.Role `json:"role" gorm:"default:user"`
	IsActive     bool      `json:"is_active" gorm:"column:is_active;default:true"`
	Profile      *Profile  `json:"profile,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsStaff() bool {
	return u.Role == auth.RoleStaff
}

// Profile carries per-user workplace metadata. Every user has exactly
// one; it is created in the same step as the account.
type Profile struct {
	ID         int64  `json:"id" gorm:"primaryKey"`
	UserID     int64  `json:"user_id" gorm:"column:user_id;not null;uniqueIndex"`
	Company    string `json:"company"`
	Branch     string `json:"branch"`
	Department string `json:"department"`
	EmployeeID string `json:"employee_id" gorm:"column:employee_id"`
}

func (Profile) TableName() string {
	return "user_profiles"
}

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
)
