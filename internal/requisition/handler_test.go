package requisition_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/prasetya/requisition-tracker/internal"
	"github.com/prasetya/requisition-tracker/internal/auth"
	"github.com/prasetya/requisition-tracker/internal/inventory"
	"github.com/prasetya/requisition-tracker/internal/requisition"
)

// Mock service for handler tests
type mockRequisitionService struct {
	req         *requisition.Requisition
	createError error
	getError    error
	approveErr  error
}

func (m *mockRequisitionService) CreateRequisition(actor *auth.Actor, dto requisition.CreateRequisitionDTO) (*requisition.Requisition, error) {
	if m.createError != nil {
		return nil, m.createError
	}
	return m.req, nil
}

func (m *mockRequisitionService) GetRequisition(actor *auth.Actor, id int64) (*requisition.Requisition, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	return m.req, nil
}

func (m *mockRequisitionService) MyRequisitions(actor *auth.Actor) ([]*requisition.Requisition, error) {
	return []*requisition.Requisition{m.req}, nil
}

func (m *mockRequisitionService) AllRequisitions(actor *auth.Actor) ([]*requisition.Requisition, error) {
	if !actor.IsStaff() {
		return nil, internal.ErrStaffRequired
	}
	return []*requisition.Requisition{m.req}, nil
}

func (m *mockRequisitionService) ApproveRequisition(actor *auth.Actor, id int64) (*requisition.Requisition, error) {
	if m.approveErr != nil {
		return nil, m.approveErr
	}
	return m.req, nil
}

func (m *mockRequisitionService) RejectRequisition(actor *auth.Actor, id int64, dto requisition.RejectRequisitionDTO) (*requisition.Requisition, error) {
	return m.req, nil
}

func (m *mockRequisitionService) ReceiveRequisition(actor *auth.Actor, id int64) (*requisition.Requisition, error) {
	return m.req, nil
}

var _ = Describe("Requisition Handler", func() {
	var (
		handler *requisition.Handler
		mockSvc *mockRequisitionService
		actor   *auth.Actor
	)

	withActor := func(r *http.Request) *http.Request {
		return r.WithContext(auth.ContextWithActor(r.Context(), actor))
	}

	withURLParam := func(r *http.Request, key, value string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add(key, value)
		return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}

	BeforeEach(func() {
		mockSvc = &mockRequisitionService{
			req: &requisition.Requisition{ID: 7, UserID: 1, EquipmentID: 10, Quantity: 2, Status: requisition.StatusPending},
		}
		handler = requisition.NewHandler(mockSvc)
		actor = &auth.Actor{ID: 1, Role: auth.RoleUser}
	})

	Describe("CreateRequisition", func() {
		It("should return 201 with the created requisition", func() {
			body := strings.NewReader(`{"equipment_id": 10, "quantity": 2}`)
			req := withActor(httptest.NewRequest(http.MethodPost, "/requisitions", body))
			w := httptest.NewRecorder()

			handler.CreateRequisition(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))

			var got requisition.Requisition
			Expect(json.NewDecoder(w.Body).Decode(&got)).To(Succeed())
			Expect(got.ID).To(Equal(int64(7)))
		})

		It("should return 401 without an actor", func() {
			req := httptest.NewRequest(http.MethodPost, "/requisitions", strings.NewReader(`{}`))
			w := httptest.NewRecorder()

			handler.CreateRequisition(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should attach insufficient stock to the quantity field", func() {
			mockSvc.createError = inventory.ErrInsufficientStock

			body := strings.NewReader(`{"equipment_id": 10, "quantity": 99}`)
			req := withActor(httptest.NewRequest(http.MethodPost, "/requisitions", body))
			w := httptest.NewRecorder()

			handler.CreateRequisition(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("quantity"))
			Expect(w.Body.String()).To(ContainSubstring("exceeds availability"))
		})

		It("should return 404 for unknown equipment", func() {
			mockSvc.createError = inventory.ErrEquipmentNotFound

			body := strings.NewReader(`{"equipment_id": 999, "quantity": 1}`)
			req := withActor(httptest.NewRequest(http.MethodPost, "/requisitions", body))
			w := httptest.NewRecorder()

			handler.CreateRequisition(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("AllRequisitions", func() {
		It("should return 403 for non-staff", func() {
			req := withActor(httptest.NewRequest(http.MethodGet, "/requisitions", nil))
			w := httptest.NewRecorder()

			handler.AllRequisitions(w, req)

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("should return the list for staff", func() {
			actor = &auth.Actor{ID: 2, Role: auth.RoleStaff}
			req := withActor(httptest.NewRequest(http.MethodGet, "/requisitions", nil))
			w := httptest.NewRecorder()

			handler.AllRequisitions(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
		})
	})

	Describe("ApproveRequisition", func() {
		It("should return 403 when the service refuses non-staff", func() {
			mockSvc.approveErr = internal.ErrStaffRequired

			req := withActor(httptest.NewRequest(http.MethodPatch, "/requisitions/7/approve", nil))
			req = withURLParam(req, "id", "7")
			w := httptest.NewRecorder()

			handler.ApproveRequisition(w, req)

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("should return 404 for a missing requisition", func() {
			mockSvc.approveErr = requisition.ErrRequisitionNotFound

			req := withActor(httptest.NewRequest(http.MethodPatch, "/requisitions/42/approve", nil))
			req = withURLParam(req, "id", "42")
			w := httptest.NewRecorder()

			handler.ApproveRequisition(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("should return 400 for a malformed ID", func() {
			req := withActor(httptest.NewRequest(http.MethodPatch, "/requisitions/abc/approve", nil))
			req = withURLParam(req, "id", "abc")
			w := httptest.NewRecorder()

			handler.ApproveRequisition(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should echo the current record on success", func() {
			req := withActor(httptest.NewRequest(http.MethodPatch, "/requisitions/7/approve", nil))
			req = withURLParam(req, "id", "7")
			w := httptest.NewRecorder()

			handler.ApproveRequisition(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
		})
	})

	Describe("RejectRequisition", func() {
		It("should pass the reason through", func() {
			body := strings.NewReader(`{"reason": "no budget"}`)
			req := withActor(httptest.NewRequest(http.MethodPatch, "/requisitions/7/reject", body))
			req = withURLParam(req, "id", "7")
			w := httptest.NewRecorder()

			handler.RejectRequisition(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
		})
	})
})
