package inventory

import (
	"errors"
	"strings"
)

type CreateEquipmentDTO struct {
	Name          string  `json:"name"`
	CategoryID    int64   `json:"category_id"`
	TotalQuantity int     `json:"total_quantity"`
	Description   string  `json:"description"`
	SerialNumber  *string `json:"serial_number,omitempty"`
	ImagePath     *string `json:"image_path,omitempty"`
	Status        string  `json:"status"`
}

func (dto CreateEquipmentDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return errors.New("name is required")
	}
	if dto.CategoryID <= 0 {
		return errors.New("category is required")
	}
	if dto.TotalQuantity < 0 {
		return errors.New("total quantity cannot be negative")
	}
	if dto.Status != "" && !ValidStatus(dto.Status) {
		return errors.New("invalid status")
	}
	return nil
}

type UpdateEquipmentDTO struct {
	Name          string  `json:"name"`
	CategoryID    int64   `json:"category_id"`
	TotalQuantity int     `json:"total_quantity"`
	Description   string  `json:"description"`
	SerialNumber  *string `json:"serial_number,omitempty"`
	ImagePath     *string `json:"image_path,omitempty"`
	Status        string  `json:"status"`
}

func (dto UpdateEquipmentDTO) Validate() error {
	return CreateEquipmentDTO(dto).Validate()
}

// SearchPage mirrors the paginated search payload the item browser
// consumes while the user types.
type SearchPage struct {
	Results     []*EquipmentItem `json:"results"`
	HasNext     bool             `json:"has_next"`
	HasPrevious bool             `json:"has_previous"`
	NumPages    int              `json:"num_pages"`
	CurrentPage int              `json:"current_page"`
}
