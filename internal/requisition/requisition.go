package requisition

import (
	"errors"
	"time"

	"github.com/prasetya/requisition-tracker/internal/inventory"
)

// Requisition is one loan request moving through a fixed lifecycle:
//
//	PENDING -> APPROVED -> RETURNED
//	PENDING -> REJECTED
//
// REJECTED and RETURNED are terminal. Stock is debited when the
// requisition is created and credited back exactly once, on reject or on
// return.
type Requisition struct {
	ID               int64                    `json:"id" gorm:"primaryKey"`
	UserID           int64                    `json:"user_id" gorm:"column:user_id;not null"`
	EquipmentID      int64                    `json:"equipment_id" gorm:"column:equipment_id;not null"`
	Equipment        *inventory.EquipmentItem `json:"equipment,omitempty" gorm:"foreignKey:EquipmentID"`
	Quantity         int                      `json:"quantity" gorm:"not null;default:1"`
	Status           string                   `json:"status" gorm:"default:PENDING"`
	Reason           string                   `json:"reason"`
	RequestedAt      time.Time                `json:"requested_at" gorm:"column:requested_at"`
	ReturnDate       *time.Time               `json:"return_date,omitempty" gorm:"column:return_date"`
	ActualReturnDate *time.Time               `json:"actual_return_date,omitempty" gorm:"column:actual_return_date"`
	ApprovedAt       *time.Time               `json:"approved_at,omitempty" gorm:"column:approved_at"`
	RejectedAt       *time.Time               `json:"rejected_at,omitempty" gorm:"column:rejected_at"`
	RejectReason     string                   `json:"reject_reason,omitempty" gorm:"column:reject_reason"`
}

func (Requisition) TableName() string {
	return "requisitions"
}

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusReturned = "RETURNED"
)

func (r *Requisition) CanBeApproved() bool {
	return r.Status == StatusPending
}

func (r *Requisition) CanBeRejected() bool {
	return r.Status == StatusPending
}

func (r *Requisition) CanBeReceived() bool {
	return r.Status == StatusApproved
}

// Overdue reports whether an approved loan has passed its due date.
func (r *Requisition) Overdue(now time.Time) bool {
	return r.Status == StatusApproved && r.ReturnDate != nil && now.After(*r.ReturnDate)
}

var ErrRequisitionNotFound = errors.New("requisition not found")
