package category

import (
	"log/slog"
)

type RepositoryAPI interface {
	GetAll() ([]*Category, error)
	GetByID(id int64) (*Category, error)
	Create(category *Category) error
	Update(category *Category) error
	Delete(id int64) error
	CountEquipment(id int64) (int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetAllCategories() ([]*Category, error) {
	categories, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to get categories from repository", "error", err)
		return nil, err
	}
	return categories, nil
}

func (s *Service) CreateCategory(dto UpsertCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	cat := NewCategory(dto.Name)
	cat.Description = dto.Description
	if err := s.repo.Create(cat); err != nil {
		s.logger.Error("failed to create category", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("category created", "category_id", cat.ID, "name", cat.Name)
	return cat, nil
}

func (s *Service) UpdateCategory(id int64, dto UpsertCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	cat, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	cat.Name = dto.Name
	cat.Description = dto.Description
	if err := s.repo.Update(cat); err != nil {
		s.logger.Error("failed to update category", "error", err, "category_id", id)
		return nil, err
	}

	return cat, nil
}

// DeleteCategory removes a category. Categories still referenced by
// equipment cannot be deleted; reassign or delete the equipment first.
func (s *Service) DeleteCategory(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}

	attached, err := s.repo.CountEquipment(id)
	if err != nil {
		return err
	}
	if attached > 0 {
		s.logger.Warn("refusing to delete category with equipment",
			"category_id", id,
			"equipment_count", attached)
		return ErrCategoryInUse
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete category", "error", err, "category_id", id)
		return err
	}

	s.logger.Info("category deleted", "category_id", id)
	return nil
}
