package requisition

import (
	"log/slog"
	"time"

	"github.com/prasetya/requisition-tracker/internal"
	"github.com/prasetya/requisition-tracker/internal/auth"
)

// RepositoryAPI groups each transition's mutations into one atomic unit:
// the ledger movement and the status fields commit together or not at
// all. The *IfStatus methods report false, nil when the precondition did
// not hold, leaving everything untouched.
type RepositoryAPI interface {
	CreateWithDebit(req *Requisition) error
	GetByID(id int64) (*Requisition, error)
	GetByRequester(userID int64) ([]*Requisition, error)
	GetAll() ([]*Requisition, error)
	ApproveIfPending(id int64, now time.Time) (bool, error)
	RejectIfPendingWithCredit(id int64, reason string, now time.Time) (bool, error)
	ReceiveIfApprovedWithCredit(id int64, now time.Time) (bool, error)
}

// Service is the requisition state machine.
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

// CreateRequisition debits the ledger and opens a PENDING requisition in
// a single transaction. Insufficient stock comes back as an error the
// boundary can attach to the quantity field.
func (s *Service) CreateRequisition(actor *auth.Actor, dto CreateRequisitionDTO) (*Requisition, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("requisition validation failed", "error", err, "user_id", actor.ID)
		return nil, err
	}

	req := &Requisition{
		UserID:      actor.ID,
		EquipmentID: dto.EquipmentID,
		Quantity:    dto.Quantity,
		Reason:      dto.Reason,
		ReturnDate:  dto.ReturnDate,
		Status:      StatusPending,
		RequestedAt: time.Now(),
	}

	if err := s.repo.CreateWithDebit(req); err != nil {
		s.logger.Warn("failed to create requisition",
			"error", err,
			"user_id", actor.ID,
			"equipment_id", dto.EquipmentID,
			"quantity", dto.Quantity)
		return nil, err
	}

	s.logger.Info("requisition created",
		"requisition_id", req.ID,
		"user_id", actor.ID,
		"equipment_id", req.EquipmentID,
		"quantity", req.Quantity)

	return req, nil
}

func (s *Service) GetRequisition(actor *auth.Actor, id int64) (*Requisition, error) {
	req, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	// Requesters only see their own records.
	if !actor.IsStaff() && req.UserID != actor.ID {
		return nil, ErrRequisitionNotFound
	}

	return req, nil
}

func (s *Service) MyRequisitions(actor *auth.Actor) ([]*Requisition, error) {
	return s.repo.GetByRequester(actor.ID)
}

func (s *Service) AllRequisitions(actor *auth.Actor) ([]*Requisition, error) {
	if !actor.IsStaff() {
		return nil, internal.ErrStaffRequired
	}
	return s.repo.GetAll()
}

// ApproveRequisition marks a pending requisition approved. Stock was
// already debited at creation, so approval has no ledger effect. A
// requisition that is no longer pending is left untouched; the duplicate
// click simply reflects the current record back.
func (s *Service) ApproveRequisition(actor *auth.Actor, id int64) (*Requisition, error) {
	if !actor.IsStaff() {
		return nil, internal.ErrStaffRequired
	}

	changed, err := s.repo.ApproveIfPending(id, time.Now())
	if err != nil {
		s.logger.Error("failed to approve requisition", "error", err, "requisition_id", id)
		return nil, err
	}

	if !changed {
		s.logger.Warn("approve skipped: requisition not pending", "requisition_id", id)
	} else {
		s.logger.Info("requisition approved", "requisition_id", id, "staff_id", actor.ID)
	}

	return s.repo.GetByID(id)
}

// RejectRequisition credits the debited stock back and marks the
// requisition rejected, in one transaction. Not-pending records are a
// no-op so a duplicate click cannot double-credit.
func (s *Service) RejectRequisition(actor *auth.Actor, id int64, dto RejectRequisitionDTO) (*Requisition, error) {
	if !actor.IsStaff() {
		return nil, internal.ErrStaffRequired
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	changed, err := s.repo.RejectIfPendingWithCredit(id, dto.Reason, time.Now())
	if err != nil {
		s.logger.Error("failed to reject requisition", "error", err, "requisition_id", id)
		return nil, err
	}

	if !changed {
		s.logger.Warn("reject skipped: requisition not pending", "requisition_id", id)
	} else {
		s.logger.Info("requisition rejected",
			"requisition_id", id,
			"staff_id", actor.ID,
			"reason", dto.Reason)
	}

	return s.repo.GetByID(id)
}

// ReceiveRequisition marks an approved loan returned and credits the
// stock back, in one transaction. Idempotent in the same way as reject.
func (s *Service) ReceiveRequisition(actor *auth.Actor, id int64) (*Requisition, error) {
	if !actor.IsStaff() {
		return nil, internal.ErrStaffRequired
	}

	changed, err := s.repo.ReceiveIfApprovedWithCredit(id, time.Now())
	if err != nil {
		s.logger.Error("failed to receive requisition", "error", err, "requisition_id", id)
		return nil, err
	}

	if !changed {
		s.logger.Warn("receive skipped: requisition not approved", "requisition_id", id)
	} else {
		s.logger.Info("requisition returned", "requisition_id", id, "staff_id", actor.ID)
	}

	return s.repo.GetByID(id)
}
