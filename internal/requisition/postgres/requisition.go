package postgres

import (
	"errors"
	"time"

	inventorypg "github.com/prasetya/requisition-tracker/internal/inventory/postgres"
	"github.com/prasetya/requisition-tracker/internal/requisition"
	"gorm.io/gorm"
)

// RequisitionRepository implements requisition.RepositoryAPI. Every
// transition runs inside one gorm transaction; a partial transition
// (ledger moved but status unchanged, or the reverse) is never visible.
type RequisitionRepository struct {
	db *gorm.DB
}

func NewRequisitionRepository(db *gorm.DB) requisition.RepositoryAPI {
	return &RequisitionRepository{db: db}
}

// CreateWithDebit debits the equipment and inserts the PENDING row
// together. The debit is a conditional UPDATE, so concurrent creates
// cannot overdraw the item.
func (r *RequisitionRepository) CreateWithDebit(req *requisition.Requisition) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := inventorypg.DebitTx(tx, req.EquipmentID, req.Quantity); err != nil {
			return err
		}
		return tx.Create(req).Error
	})
}

func (r *RequisitionRepository) GetByID(id int64) (*requisition.Requisition, error) {
	var req requisition.Requisition
	err := r.db.Preload("Equipment").Preload("Equipment.Category").
		Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, requisition.ErrRequisitionNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *RequisitionRepository) GetByRequester(userID int64) ([]*requisition.Requisition, error) {
	var reqs []*requisition.Requisition
	err := r.db.Preload("Equipment").
		Where("user_id = ?", userID).
		Order("requested_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *RequisitionRepository) GetAll() ([]*requisition.Requisition, error) {
	var reqs []*requisition.Requisition
	err := r.db.Preload("Equipment").
		Order("requested_at DESC").
		Find(&reqs).Error
	return reqs, err
}

// ApproveIfPending flips PENDING to APPROVED. The status test rides in
// the WHERE clause, so a stale duplicate click matches zero rows and
// changes nothing.
func (r *RequisitionRepository) ApproveIfPending(id int64, now time.Time) (bool, error) {
	res := r.db.Model(&requisition.Requisition{}).
		Where("id = ? AND status = ?", id, requisition.StatusPending).
		Updates(map[string]interface{}{
			"status":      requisition.StatusApproved,
			"approved_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, r.exists(id)
	}
	return true, nil
}

// RejectIfPendingWithCredit flips PENDING to REJECTED and restores the
// debited stock in the same transaction.
func (r *RequisitionRepository) RejectIfPendingWithCredit(id int64, reason string, now time.Time) (bool, error) {
	changed := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var req requisition.Requisition
		if err := tx.Where("id = ?", id).First(&req).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return requisition.ErrRequisitionNotFound
			}
			return err
		}

		res := tx.Model(&requisition.Requisition{}).
			Where("id = ? AND status = ?", id, requisition.StatusPending).
			Updates(map[string]interface{}{
				"status":        requisition.StatusRejected,
				"rejected_at":   now,
				"reject_reason": reason,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		if err := inventorypg.CreditTx(tx, req.EquipmentID, req.Quantity); err != nil {
			return err
		}

		changed = true
		return nil
	})
	return changed, err
}

// ReceiveIfApprovedWithCredit flips APPROVED to RETURNED and restores
// the stock in the same transaction.
func (r *RequisitionRepository) ReceiveIfApprovedWithCredit(id int64, now time.Time) (bool, error) {
	changed := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var req requisition.Requisition
		if err := tx.Where("id = ?", id).First(&req).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return requisition.ErrRequisitionNotFound
			}
			return err
		}

		res := tx.Model(&requisition.Requisition{}).
			Where("id = ? AND status = ?", id, requisition.StatusApproved).
			Updates(map[string]interface{}{
				"status":             requisition.StatusReturned,
				"actual_return_date": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		if err := inventorypg.CreditTx(tx, req.EquipmentID, req.Quantity); err != nil {
			return err
		}

		changed = true
		return nil
	})
	return changed, err
}

func (r *RequisitionRepository) exists(id int64) error {
	var count int64
	if err := r.db.Model(&requisition.Requisition{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return requisition.ErrRequisitionNotFound
	}
	return nil
}
