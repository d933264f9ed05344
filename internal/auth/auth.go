package auth

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the closed set of privilege levels an actor can hold. The staff
// role is the single elevated role: it gates every mutating transition on
// requisitions as well as inventory and user management.
type Role string

const (
	RoleUser  Role = "user"
	RoleStaff Role = "staff"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleStaff
}

// Actor is the authenticated identity attached to every inbound request.
type Actor struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// IsStaff is the access-policy predicate consulted before any staff-only
// state change.
func (a *Actor) IsStaff() bool {
	return a.Role == RoleStaff
}

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (dto LoginDTO) Validate() error {
	if strings.TrimSpace(dto.Email) == "" {
		return errors.New("email is required")
	}
	if dto.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

type RefreshDTO struct {
	RefreshToken string `json:"refresh_token"`
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
)
