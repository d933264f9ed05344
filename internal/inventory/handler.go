package inventory

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prasetya/requisition-tracker/internal/transport"
	"github.com/prasetya/requisition-tracker/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListEquipment() ([]*EquipmentItem, error)
	GetEquipment(id int64) (*EquipmentItem, error)
	SearchEquipment(query string, page, perPage int) (*SearchPage, error)
	CreateEquipment(dto CreateEquipmentDTO) (*EquipmentItem, error)
	UpdateEquipment(id int64, dto UpdateEquipmentDTO) (*EquipmentItem, error)
	AttachImage(id int64, originalName string, contents io.Reader, size int64) (*EquipmentItem, error)
	DeleteEquipment(id int64) error
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

func (h *Handler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListEquipment()
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "failed to list equipment")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"equipment": items})
}

func (h *Handler) SearchEquipment(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	perPage := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			perPage = l
		}
	}

	result, err := h.Service.SearchEquipment(query, page, perPage)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "equipment search failed")
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) GetEquipment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid equipment ID")
		return
	}

	item, err := h.Service.GetEquipment(id)
	if err != nil {
		switch err {
		case ErrEquipmentNotFound:
			h.WriteError(w, http.StatusNotFound, "equipment not found")
		default:
			h.WriteError(w, http.StatusInternalServerError, "failed to get equipment")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	var dto CreateEquipmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Service.CreateEquipment(dto)
	if err != nil {
		switch err {
		case ErrDuplicateSerial:
			h.WriteError(w, http.StatusConflict, "serial number already in use")
		default:
			h.WriteError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.Logger.Info("CreateEquipment: created", "equipment_id", item.ID)
	h.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid equipment ID")
		return
	}

	var dto UpdateEquipmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Service.UpdateEquipment(id, dto)
	if err != nil {
		switch err {
		case ErrEquipmentNotFound:
			h.WriteError(w, http.StatusNotFound, "equipment not found")
		case ErrDuplicateSerial:
			h.WriteError(w, http.StatusConflict, "serial number already in use")
		default:
			h.WriteError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) UploadEquipmentImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid equipment ID")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	item, err := h.Service.AttachImage(id, header.Filename, file, header.Size)
	if err != nil {
		switch err {
		case ErrEquipmentNotFound:
			h.WriteError(w, http.StatusNotFound, "equipment not found")
		case ErrImageTooLarge:
			h.WriteError(w, http.StatusRequestEntityTooLarge, "image exceeds the size limit")
		default:
			h.WriteError(w, http.StatusInternalServerError, "failed to store image")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) DeleteEquipment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid equipment ID")
		return
	}

	if err := h.Service.DeleteEquipment(id); err != nil {
		switch err {
		case ErrEquipmentNotFound:
			h.WriteError(w, http.StatusNotFound, "equipment not found")
		case ErrEquipmentInUse:
			h.WriteError(w, http.StatusConflict, "equipment has open requisitions")
		default:
			h.WriteError(w, http.StatusInternalServerError, "failed to delete equipment")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
