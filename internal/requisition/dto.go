package requisition

import (
	"errors"
	"time"
)

type CreateRequisitionDTO struct {
	EquipmentID int64      `json:"equipment_id"`
	Quantity    int        `json:"quantity"`
	Reason      string     `json:"reason,omitempty"`
	ReturnDate  *time.Time `json:"return_date,omitempty"`
}

func (dto CreateRequisitionDTO) Validate() error {
	if dto.EquipmentID <= 0 {
		return errors.New("equipment is required")
	}
	if dto.Quantity < 1 {
		return errors.New("quantity must be at least 1")
	}
	return nil
}

type RejectRequisitionDTO struct {
	Reason string `json:"reason"`
}

func (dto RejectRequisitionDTO) Validate() error {
	if dto.Reason == "" {
		return errors.New("reason is required when rejecting a requisition")
	}
	return nil
}
