package report

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prasetya/requisition-tracker/internal/auth"
	"github.com/prasetya/requisition-tracker/internal/transport"
	"github.com/prasetya/requisition-tracker/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(service *Service) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

const dateLayout = "2006-01-02"

// RequisitionReport serves the filtered history as JSON, or as a CSV or
// XLSX attachment when export=csv|xlsx.
func (h *Handler) RequisitionReport(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.Service.Rows(filter)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	switch r.URL.Query().Get("export") {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="requisition_report.csv"`)
		if err := h.Service.WriteCSV(w, rows); err != nil {
			h.Logger.Error("csv export failed", "error", err)
		}
	case "xlsx":
		buf, err := h.Service.BuildXLSX(rows)
		if err != nil {
			h.Logger.Error("xlsx export failed", "error", err)
			h.WriteError(w, http.StatusInternalServerError, "failed to build spreadsheet")
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="requisition_report.xlsx"`)
		w.Write(buf.Bytes())
	default:
		h.WriteJSON(w, http.StatusOK, map[string]interface{}{"rows": rows})
	}
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	counts, err := h.Service.Dashboard(actor.ID)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	h.WriteJSON(w, http.StatusOK, counts)
}

func parseFilter(r *http.Request) (Filter, error) {
	var filter Filter
	q := r.URL.Query()

	if v := q.Get("start_date"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return filter, err
		}
		filter.StartDate = &t
	}
	if v := q.Get("end_date"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return filter, err
		}
		filter.EndDate = &t
	}
	if v := q.Get("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, err
		}
		filter.CategoryID = &id
	}

	return filter, nil
}
