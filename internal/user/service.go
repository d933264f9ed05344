package user

import (
	"log/slog"
	"time"

	"github.com/prasetya/requisition-tracker/internal/auth"
)

type RepositoryAPI interface {
	GetAll() ([]*User, error)
	GetByID(id int64) (*User, error)
	CreateWithProfile(u *User) error
	Update(u *User) error
	Delete(id int64) error
}

// PasswordHasher is satisfied by the auth service.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type Service struct {
	repo   RepositoryAPI
	hasher PasswordHasher
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}
}

func (s *Service) ListUsers() ([]*User, error) {
	users, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, err
	}
	return users, nil
}

func (s *Service) GetUser(id int64) (*User, error) {
	return s.repo.GetByID(id)
}

// CreateUser creates the account and its profile in one step. The
// profile always exists, so no later code path has to repair a missing
// one.
func (s *Service) CreateUser(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return nil, err
	}

	role := dto.Role
	if role == "" {
		role = auth.RoleUser
	}

	now := time.Now()
	u := &User{
		Email:        dto.Email,
		Name:         dto.Name,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		Profile: &Profile{
			Company:    dto.Company,
			Branch:     dto.Branch,
			Department: dto.Department,
			EmployeeID: dto.EmployeeID,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateWithProfile(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, err
	}

	s.logger.Info("user created", "user_id", u.ID, "email", u.Email, "role", u.Role)
	return u, nil
}

func (s *Service) UpdateUser(id int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	u.Name = dto.Name
	if dto.Role != "" {
		u.Role = dto.Role
	}
	if dto.IsActive != nil {
		u.IsActive = *dto.IsActive
	}
	if dto.Password != "" {
		hash, err := s.hasher.HashPassword(dto.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}

	if u.Profile == nil {
		u.Profile = &Profile{UserID: u.ID}
	}
	u.Profile.Company = dto.Company
	u.Profile.Branch = dto.Branch
	u.Profile.Department = dto.Department
	u.Profile.EmployeeID = dto.EmployeeID
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, err
	}

	s.logger.Info("user updated", "user_id", id, "role", u.Role)
	return u, nil
}

func (s *Service) DeleteUser(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", id)
		return err
	}

	s.logger.Info("user deleted", "user_id", id)
	return nil
}
