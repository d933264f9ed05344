package user

import (
	"errors"
	"strings"

	"github.com/prasetya/requisition-tracker/internal/auth"
)

type CreateUserDTO struct {
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Password   string    `json:"password"`
	Role       auth.Role `json:"role"`
	Company    string    `json:"company"`
	Branch     string    `json:"branch"`
	Department string    `json:"department"`
	EmployeeID string    `json:"employee_id"`
}

func (dto CreateUserDTO) Validate() error {
	if strings.TrimSpace(dto.Email) == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(dto.Email, "@") {
		return errors.New("email is invalid")
	}
	if strings.TrimSpace(dto.Name) == "" {
		return errors.New("name is required")
	}
	if len(dto.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if dto.Role != "" && !dto.Role.Valid() {
		return errors.New("invalid role")
	}
	return nil
}

// UpdateUserDTO edits an account. Password is only changed when
// provided.
type UpdateUserDTO struct {
	Name       string    `json:"name"`
	Password   string    `json:"password,omitempty"`
	Role       auth.Role `json:"role"`
	IsActive   *bool     `json:"is_active,omitempty"`
	Company    string    `json:"company"`
	Branch     string    `json:"branch"`
	Department string    `json:"department"`
	EmployeeID string    `json:"employee_id"`
}

func (dto UpdateUserDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return errors.New("name is required")
	}
	if dto.Password != "" && len(dto.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if dto.Role != "" && !dto.Role.Valid() {
		return errors.New("invalid role")
	}
	return nil
}
