package inventory

import (
	"errors"
	"time"

	"github.com/prasetya/requisition-tracker/internal/category"
)

// EquipmentItem is a stock-keeping unit. TotalQuantity is capacity,
// AvailableQuantity the units currently loanable; the ledger keeps
// 0 <= available <= total.
type EquipmentItem struct {
	ID                int64              `json:"id" gorm:"primaryKey"`
	Name              string             `json:"name" gorm:"not null"`
	CategoryID        int64              `json:"category_id" gorm:"column:category_id;not null"`
	Category          *category.Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	TotalQuantity     int                `json:"total_quantity" gorm:"column:total_quantity;not null;default:0"`
	AvailableQuantity int                `json:"available_quantity" gorm:"column:available_quantity;not null;default:0"`
	Description       string             `json:"description"`
	SerialNumber      *string            `json:"serial_number,omitempty" gorm:"column:serial_number;uniqueIndex"`
	ImagePath         *string            `json:"image_path,omitempty" gorm:"column:image_path"`
	Status            string             `json:"status" gorm:"default:AVAILABLE"`
	CreatedAt         time.Time          `json:"created_at" gorm:"column:created_at"`
	UpdatedAt         time.Time          `json:"updated_at" gorm:"column:updated_at"`
}

func (EquipmentItem) TableName() string {
	return "equipment_items"
}

const (
	StatusAvailable   = "AVAILABLE"
	StatusMaintenance = "MAINTENANCE"
	StatusLost        = "LOST"
	StatusDamaged     = "DAMAGED"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusAvailable, StatusMaintenance, StatusLost, StatusDamaged:
		return true
	}
	return false
}

var (
	ErrEquipmentNotFound = errors.New("equipment not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEquipmentInUse    = errors.New("equipment has open requisitions")
	ErrDuplicateSerial   = errors.New("serial number already in use")
	ErrImageTooLarge     = errors.New("image exceeds the size limit")
)
