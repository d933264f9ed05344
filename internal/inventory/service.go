package inventory

import (
	"io"
	"log/slog"
	"time"
)

type RepositoryAPI interface {
	GetAll() ([]*EquipmentItem, error)
	GetByID(id int64) (*EquipmentItem, error)
	Search(query string, limit, offset int) ([]*EquipmentItem, int64, error)
	Create(item *EquipmentItem) error
	Update(item *EquipmentItem) error
	Delete(id int64) error
	CountOpenRequisitions(equipmentID int64) (int64, error)
}

const (
	defaultSearchPageSize = 8
	maxImageBytes         = 5 << 20
)

// Service handles equipment management. Stock mutations do not happen
// here; they go through the Ledger from the requisition transitions.
type Service struct {
	repo   RepositoryAPI
	files  FileStore
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, files FileStore, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		files:  files,
		logger: logger,
	}
}

func (s *Service) ListEquipment() ([]*EquipmentItem, error) {
	items, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list equipment", "error", err)
		return nil, err
	}
	return items, nil
}

func (s *Service) GetEquipment(id int64) (*EquipmentItem, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// SearchEquipment matches name, serial number and category name,
// paginated for the search-as-you-type browser.
func (s *Service) SearchEquipment(query string, page, perPage int) (*SearchPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultSearchPageSize
	}

	items, total, err := s.repo.Search(query, perPage, (page-1)*perPage)
	if err != nil {
		s.logger.Error("equipment search failed", "error", err, "query", query)
		return nil, err
	}

	numPages := int((total + int64(perPage) - 1) / int64(perPage))
	if numPages < 1 {
		numPages = 1
	}
	if page > numPages {
		page = numPages
	}

	return &SearchPage{
		Results:     items,
		HasNext:     page < numPages,
		HasPrevious: page > 1,
		NumPages:    numPages,
		CurrentPage: page,
	}, nil
}

// CreateEquipment adds a new item; availability starts at capacity.
func (s *Service) CreateEquipment(dto CreateEquipmentDTO) (*EquipmentItem, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	status := dto.Status
	if status == "" {
		status = StatusAvailable
	}

	now := time.Now()
	item := &EquipmentItem{
		Name:              dto.Name,
		CategoryID:        dto.CategoryID,
		TotalQuantity:     dto.TotalQuantity,
		AvailableQuantity: dto.TotalQuantity,
		Description:       dto.Description,
		SerialNumber:      dto.SerialNumber,
		ImagePath:         dto.ImagePath,
		Status:            status,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Create(item); err != nil {
		s.logger.Error("failed to create equipment", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("equipment created",
		"equipment_id", item.ID,
		"name", item.Name,
		"total_quantity", item.TotalQuantity)

	return item, nil
}

// UpdateEquipment edits item metadata. The old image file is removed once
// a different one is stored. Available quantity is not edited here; it
// only moves through the ledger.
func (s *Service) UpdateEquipment(id int64, dto UpdateEquipmentDTO) (*EquipmentItem, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	oldImage := item.ImagePath

	item.Name = dto.Name
	item.CategoryID = dto.CategoryID
	item.TotalQuantity = dto.TotalQuantity
	if item.AvailableQuantity > item.TotalQuantity {
		item.AvailableQuantity = item.TotalQuantity
	}
	item.Description = dto.Description
	item.SerialNumber = dto.SerialNumber
	item.ImagePath = dto.ImagePath
	if dto.Status != "" {
		item.Status = dto.Status
	}
	item.UpdatedAt = time.Now()

	if err := s.repo.Update(item); err != nil {
		s.logger.Error("failed to update equipment", "error", err, "equipment_id", id)
		return nil, err
	}

	if oldImage != nil && (dto.ImagePath == nil || *dto.ImagePath != *oldImage) {
		if err := s.files.Remove(*oldImage); err != nil {
			s.logger.Warn("failed to remove replaced image", "error", err, "path", *oldImage)
		}
	}

	return item, nil
}

// AttachImage stores an uploaded image for the item and drops the
// previous one once the new path is persisted.
func (s *Service) AttachImage(id int64, originalName string, contents io.Reader, size int64) (*EquipmentItem, error) {
	if size > maxImageBytes {
		return nil, ErrImageTooLarge
	}

	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	path, err := s.files.Save(originalName, contents)
	if err != nil {
		s.logger.Error("failed to store equipment image", "error", err, "equipment_id", id)
		return nil, err
	}

	oldImage := item.ImagePath
	item.ImagePath = &path
	item.UpdatedAt = time.Now()

	if err := s.repo.Update(item); err != nil {
		if rmErr := s.files.Remove(path); rmErr != nil {
			s.logger.Warn("failed to remove orphaned image", "error", rmErr, "path", path)
		}
		return nil, err
	}

	if oldImage != nil {
		if err := s.files.Remove(*oldImage); err != nil {
			s.logger.Warn("failed to remove replaced image", "error", err, "path", *oldImage)
		}
	}

	s.logger.Info("equipment image attached", "equipment_id", id, "path", path)
	return item, nil
}

// DeleteEquipment removes an item and its stored image. Items with a
// PENDING or APPROVED requisition still hold debited stock and cannot be
// deleted; terminal-history requisitions go with the item via FK cascade.
func (s *Service) DeleteEquipment(id int64) error {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	open, err := s.repo.CountOpenRequisitions(id)
	if err != nil {
		return err
	}
	if open > 0 {
		s.logger.Warn("refusing to delete equipment with open requisitions",
			"equipment_id", id,
			"open_requisitions", open)
		return ErrEquipmentInUse
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete equipment", "error", err, "equipment_id", id)
		return err
	}

	if item.ImagePath != nil {
		if err := s.files.Remove(*item.ImagePath); err != nil {
			s.logger.Warn("failed to remove image of deleted equipment", "error", err, "path", *item.ImagePath)
		}
	}

	s.logger.Info("equipment deleted", "equipment_id", id, "name", item.Name)
	return nil
}
