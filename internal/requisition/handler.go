package requisition

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prasetya/requisition-tracker/internal"
	"github.com/prasetya/requisition-tracker/internal/auth"
	"github.com/prasetya/requisition-tracker/internal/inventory"
	"github.com/prasetya/requisition-tracker/internal/transport"
	"github.com/prasetya/requisition-tracker/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateRequisition(actor *auth.Actor, dto CreateRequisitionDTO) (*Requisition, error)
	GetRequisition(actor *auth.Actor, id int64) (*Requisition, error)
	MyRequisitions(actor *auth.Actor) ([]*Requisition, error)
	AllRequisitions(actor *auth.Actor) ([]*Requisition, error)
	ApproveRequisition(actor *auth.Actor, id int64) (*Requisition, error)
	RejectRequisition(actor *auth.Actor, id int64, dto RejectRequisitionDTO) (*Requisition, error)
	ReceiveRequisition(actor *auth.Actor, id int64) (*Requisition, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) CreateRequisition(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateRequisitionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Service.CreateRequisition(actor, dto)
	if err != nil {
		switch err {
		case inventory.ErrInsufficientStock:
			// Field-level error: the client re-renders the quantity input.
			h.WriteAppError(w, internal.NewValidationFieldError(
				"quantity", "requested quantity exceeds availability", internal.ErrCodeInsufficientStock))
		case inventory.ErrEquipmentNotFound:
			h.WriteError(w, http.StatusNotFound, "equipment not found")
		default:
			h.WriteError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.Logger.Info("CreateRequisition: created",
		"requisition_id", req.ID,
		"user_id", actor.ID,
		"quantity", req.Quantity)

	h.WriteJSON(w, http.StatusCreated, req)
}

func (h *Handler) GetRequisition(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid requisition ID")
		return
	}

	req, err := h.Service.GetRequisition(actor, id)
	if err != nil {
		switch err {
		case ErrRequisitionNotFound:
			h.WriteError(w, http.StatusNotFound, "requisition not found")
		default:
			h.WriteError(w, http.StatusInternalServerError, "failed to get requisition")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) MyRequisitions(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	reqs, err := h.Service.MyRequisitions(actor)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "failed to get requisitions")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"requisitions": reqs})
}

func (h *Handler) AllRequisitions(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	reqs, err := h.Service.AllRequisitions(actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"requisitions": reqs})
}

func (h *Handler) ApproveRequisition(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(actor *auth.Actor, id int64) (*Requisition, error) {
		return h.Service.ApproveRequisition(actor, id)
	})
}

func (h *Handler) RejectRequisition(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid requisition ID")
		return
	}

	var dto RejectRequisitionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Service.RejectRequisition(actor, id, dto)
	if err != nil {
		h.writeTransitionError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) ReceiveRequisition(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(actor *auth.Actor, id int64) (*Requisition, error) {
		return h.Service.ReceiveRequisition(actor, id)
	})
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn func(*auth.Actor, int64) (*Requisition, error)) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid requisition ID")
		return
	}

	req, err := fn(actor, id)
	if err != nil {
		h.writeTransitionError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) writeTransitionError(w http.ResponseWriter, err error) {
	switch err {
	case ErrRequisitionNotFound:
		h.WriteError(w, http.StatusNotFound, "requisition not found")
	case internal.ErrStaffRequired:
		h.WriteError(w, http.StatusForbidden, "staff role required")
	default:
		if appErr, ok := internal.IsAppError(err); ok {
			h.WriteAppError(w, appErr)
			return
		}
		h.WriteError(w, http.StatusBadRequest, err.Error())
	}
}
