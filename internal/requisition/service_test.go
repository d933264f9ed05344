package requisition_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/prasetya/requisition-tracker/internal"
	"github.com/prasetya/requisition-tracker/internal/auth"
	"github.com/prasetya/requisition-tracker/internal/inventory"
	"github.com/prasetya/requisition-tracker/internal/requisition"
)

func TestRequisitionService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "RequisitionService Suite")
}

// Mock repository for testing. Stock is tracked per equipment ID so the
// debit/credit pairing of each transition can be asserted.
type mockRequisitionRepository struct {
	requisitions map[int64]*requisition.Requisition
	stock        map[int64]int
	capacity     map[int64]int
	createError  error
	getError     error
	nextID       int64
}

func newMockRequisitionRepository() *mockRequisitionRepository {
	return &mockRequisitionRepository{
		requisitions: make(map[int64]*requisition.Requisition),
		stock:        make(map[int64]int),
		capacity:     make(map[int64]int),
		nextID:       1,
	}
}

func (m *mockRequisitionRepository) addEquipment(id int64, available, total int) {
	m.stock[id] = available
	m.capacity[id] = total
}

func (m *mockRequisitionRepository) CreateWithDebit(req *requisition.Requisition) error {
	if m.createError != nil {
		return m.createError
	}
	available, exists := m.stock[req.EquipmentID]
	if !exists {
		return inventory.ErrEquipmentNotFound
	}
	if available < req.Quantity {
		return inventory.ErrInsufficientStock
	}
	m.stock[req.EquipmentID] = available - req.Quantity

	req.ID = m.nextID
	m.nextID++
	m.requisitions[req.ID] = req
	return nil
}

func (m *mockRequisitionRepository) GetByID(id int64) (*requisition.Requisition, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	req, exists := m.requisitions[id]
	if !exists {
		return nil, requisition.ErrRequisitionNotFound
	}
	return req, nil
}

func (m *mockRequisitionRepository) GetByRequester(userID int64) ([]*requisition.Requisition, error) {
	var out []*requisition.Requisition
	for _, req := range m.requisitions {
		if req.UserID == userID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (m *mockRequisitionRepository) GetAll() ([]*requisition.Requisition, error) {
	var out []*requisition.Requisition
	for _, req := range m.requisitions {
		out = append(out, req)
	}
	return out, nil
}

func (m *mockRequisitionRepository) ApproveIfPending(id int64, now time.Time) (bool, error) {
	req, exists := m.requisitions[id]
	if !exists {
		return false, requisition.ErrRequisitionNotFound
	}
	if req.Status != requisition.StatusPending {
		return false, nil
	}
	req.Status = requisition.StatusApproved
	req.ApprovedAt = &now
	return true, nil
}

func (m *mockRequisitionRepository) RejectIfPendingWithCredit(id int64, reason string, now time.Time) (bool, error) {
	req, exists := m.requisitions[id]
	if !exists {
		return false, requisition.ErrRequisitionNotFound
	}
	if req.Status != requisition.StatusPending {
		return false, nil
	}
	req.Status = requisition.StatusRejected
	req.RejectedAt = &now
	req.RejectReason = reason
	m.credit(req.EquipmentID, req.Quantity)
	return true, nil
}

func (m *mockRequisitionRepository) ReceiveIfApprovedWithCredit(id int64, now time.Time) (bool, error) {
	req, exists := m.requisitions[id]
	if !exists {
		return false, requisition.ErrRequisitionNotFound
	}
	if req.Status != requisition.StatusApproved {
		return false, nil
	}
	req.Status = requisition.StatusReturned
	req.ActualReturnDate = &now
	m.credit(req.EquipmentID, req.Quantity)
	return true, nil
}

func (m *mockRequisitionRepository) credit(equipmentID int64, qty int) {
	m.stock[equipmentID] += qty
	if m.stock[equipmentID] > m.capacity[equipmentID] {
		m.stock[equipmentID] = m.capacity[equipmentID]
	}
}

var _ = Describe("RequisitionService", func() {
	var (
		service  *requisition.Service
		mockRepo *mockRequisitionRepository
		logger   *slog.Logger

		requester *auth.Actor
		staff     *auth.Actor
	)

	BeforeEach(func() {
		mockRepo = newMockRequisitionRepository()
		mockRepo.addEquipment(10, 5, 5)
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = requisition.NewService(mockRepo, logger)

		requester = &auth.Actor{ID: 1, Email: "bagus@mail.com", Name: "Bagus", Role: auth.RoleUser}
		staff = &auth.Actor{ID: 2, Email: "dina@mail.com", Name: "Dina", Role: auth.RoleStaff}
	})

	createPending := func(qty int) *requisition.Requisition {
		req, err := service.CreateRequisition(requester, requisition.CreateRequisitionDTO{
			EquipmentID: 10,
			Quantity:    qty,
			Reason:      "field work",
		})
		Expect(err).ToNot(HaveOccurred())
		return req
	}

	Describe("CreateRequisition", func() {
		It("should open a pending requisition and debit stock", func() {
			req := createPending(3)

			Expect(req.ID).To(BeNumerically(">", 0))
			Expect(req.Status).To(Equal(requisition.StatusPending))
			Expect(req.UserID).To(Equal(requester.ID))
			Expect(req.RequestedAt).ToNot(BeZero())
			Expect(req.ApprovedAt).To(BeNil())
			Expect(mockRepo.stock[10]).To(Equal(2))
		})

		It("should reject a quantity below one", func() {
			_, err := service.CreateRequisition(requester, requisition.CreateRequisitionDTO{
				EquipmentID: 10,
				Quantity:    0,
			})
			Expect(err).To(HaveOccurred())
			Expect(mockRepo.stock[10]).To(Equal(5))
		})

		It("should surface insufficient stock without creating a record", func() {
			_, err := service.CreateRequisition(requester, requisition.CreateRequisitionDTO{
				EquipmentID: 10,
				Quantity:    6,
			})
			Expect(err).To(MatchError(inventory.ErrInsufficientStock))
			Expect(mockRepo.requisitions).To(BeEmpty())
			Expect(mockRepo.stock[10]).To(Equal(5))
		})
	})

	Describe("GetRequisition", func() {
		It("should let the requester read their own record", func() {
			req := createPending(1)

			got, err := service.GetRequisition(requester, req.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(got.ID).To(Equal(req.ID))
		})

		It("should hide other users' records from non-staff", func() {
			req := createPending(1)

			other := &auth.Actor{ID: 99, Role: auth.RoleUser}
			_, err := service.GetRequisition(other, req.ID)
			Expect(err).To(MatchError(requisition.ErrRequisitionNotFound))
		})

		It("should let staff read any record", func() {
			req := createPending(1)

			got, err := service.GetRequisition(staff, req.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(got.ID).To(Equal(req.ID))
		})
	})

	Describe("AllRequisitions", func() {
		It("should refuse non-staff", func() {
			_, err := service.AllRequisitions(requester)
			Expect(err).To(MatchError(internal.ErrStaffRequired))
		})

		It("should list everything for staff", func() {
			createPending(1)
			createPending(2)

			all, err := service.AllRequisitions(staff)
			Expect(err).ToNot(HaveOccurred())
			Expect(all).To(HaveLen(2))
		})
	})

	Describe("ApproveRequisition", func() {
		It("should refuse non-staff", func() {
			req := createPending(1)

			_, err := service.ApproveRequisition(requester, req.ID)
			Expect(err).To(MatchError(internal.ErrStaffRequired))
		})

		It("should mark a pending requisition approved without touching stock", func() {
			req := createPending(3)

			got, err := service.ApproveRequisition(staff, req.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(got.Status).To(Equal(requisition.StatusApproved))
			Expect(got.ApprovedAt).ToNot(BeNil())
			Expect(mockRepo.stock[10]).To(Equal(2))
		})

		It("should leave a rejected requisition untouched", func() {
			req := createPending(1)
			_, err := service.RejectRequisition(staff, req.ID, requisition.RejectRequisitionDTO{Reason: "no budget"})
			Expect(err).ToNot(HaveOccurred())

			got, err := service.ApproveRequisition(staff, req.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(got.Status).To(Equal(requisition.StatusRejected))
			Expect(got.ApprovedAt).To(BeNil())
		})
	})

	Describe("RejectRequisition", func() {
		It("should require a reason", func() {
			req := createPending(1)

			_, err := service.RejectRequisition(staff, req.ID, requisition.RejectRequisitionDTO{})
			Expect(err).To(HaveOccurred())
			Expect(mockRepo.requisitions[req.ID].Status).To(Equal(requisition.StatusPending))
		})

		It("should credit the stock back and record the reason", func() {
			req := createPending(3)
			Expect(mockRepo.stock[10]).To(Equal(2))

			got, err := service.RejectRequisition(staff, req.ID, requisition.RejectRequisitionDTO{Reason: "no budget"})
			Expect(err).ToNot(HaveOccurred())
			Expect(got.Status).To(Equal(requisition.StatusRejected))
			Expect(got.RejectedAt).ToNot(BeNil())
			Expect(got.RejectReason).To(Equal("no budget"))
			Expect(mockRepo.stock[10]).To(Equal(5))
		})

		It("should not credit twice on a duplicate reject", func() {
			req := createPending(3)

			_, err := service.RejectRequisition(staff, req.ID, requisition.RejectRequisitionDTO{Reason: "no budget"})
			Expect(err).ToNot(HaveOccurred())
			_, err = service.RejectRequisition(staff, req.ID, requisition.RejectRequisitionDTO{Reason: "again"})
			Expect(err).ToNot(HaveOccurred())

			Expect(mockRepo.stock[10]).To(Equal(5))
			Expect(mockRepo.requisitions[req.ID].RejectReason).To(Equal("no budget"))
		})
	})

	Describe("ReceiveRequisition", func() {
		It("should only apply to approved requisitions", func() {
			req := createPending(2)

			got, err := service.ReceiveRequisition(staff, req.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(got.Status).To(Equal(requisition.StatusPending))
			Expect(got.ActualReturnDate).To(BeNil())
			Expect(mockRepo.stock[10]).To(Equal(3))
		})

		It("should close the loan and restore stock", func() {
			req := createPending(2)
			_, err := service.ApproveRequisition(staff, req.ID)
			Expect(err).ToNot(HaveOccurred())

			got, err := service.ReceiveRequisition(staff, req.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(got.Status).To(Equal(requisition.StatusReturned))
			Expect(got.ActualReturnDate).ToNot(BeNil())
			Expect(mockRepo.stock[10]).To(Equal(5))
		})

		It("should not credit twice on a duplicate receive", func() {
			req := createPending(2)
			_, err := service.ApproveRequisition(staff, req.ID)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.ReceiveRequisition(staff, req.ID)
			Expect(err).ToNot(HaveOccurred())
			_, err = service.ReceiveRequisition(staff, req.ID)
			Expect(err).ToNot(HaveOccurred())

			Expect(mockRepo.stock[10]).To(Equal(5))
		})
	})

	Describe("repository failures", func() {
		It("should propagate create errors", func() {
			mockRepo.createError = errors.New("db down")

			_, err := service.CreateRequisition(requester, requisition.CreateRequisitionDTO{
				EquipmentID: 10,
				Quantity:    1,
			})
			Expect(err).To(MatchError("db down"))
		})
	})
})
