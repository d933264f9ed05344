package postgres

import (
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prasetya/requisition-tracker/internal/report"
)

// ReportRepository reads the requisition history through plain SQL; the
// report never needs the write models.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) report.RepositoryAPI {
	return &ReportRepository{db: db}
}

const baseQuery = `
SELECT r.id,
       e.name  AS equipment,
       r.quantity,
       u.name  AS user_name,
       r.requested_at,
       r.approved_at,
       r.rejected_at,
       r.actual_return_date,
       r.status
FROM requisitions r
JOIN equipment_items e ON e.id = r.equipment_id
JOIN users u ON u.id = r.user_id`

func (r *ReportRepository) Rows(f report.Filter) ([]report.Row, error) {
	var conds []string
	var args []interface{}

	// Inclusive day-precision bounds on requested_at.
	if f.StartDate != nil {
		conds = append(conds, "r.requested_at >= ?")
		args = append(args, startOfDay(*f.StartDate))
	}
	if f.EndDate != nil {
		conds = append(conds, "r.requested_at < ?")
		args = append(args, startOfDay(*f.EndDate).AddDate(0, 0, 1))
	}
	if f.CategoryID != nil {
		conds = append(conds, "e.category_id = ?")
		args = append(args, *f.CategoryID)
	}

	query := baseQuery
	if len(conds) > 0 {
		query += "\nWHERE " + strings.Join(conds, " AND ")
	}
	query += "\nORDER BY r.requested_at DESC"

	rows := []report.Row{}
	err := r.db.Select(&rows, r.db.Rebind(query), args...)
	return rows, err
}

func (r *ReportRepository) Counts(userID int64) (report.DashboardCounts, error) {
	var counts report.DashboardCounts

	if err := r.db.Get(&counts.EquipmentCount, "SELECT COUNT(*) FROM equipment_items"); err != nil {
		return counts, err
	}
	if err := r.db.Get(&counts.RequisitionCount, "SELECT COUNT(*) FROM requisitions"); err != nil {
		return counts, err
	}
	if err := r.db.Get(&counts.PendingCount,
		"SELECT COUNT(*) FROM requisitions WHERE status = 'PENDING'"); err != nil {
		return counts, err
	}
	err := r.db.Get(&counts.MyPendingCount,
		r.db.Rebind("SELECT COUNT(*) FROM requisitions WHERE status = 'PENDING' AND user_id = ?"), userID)
	return counts, err
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
