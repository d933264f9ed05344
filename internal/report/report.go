package report

import (
	"strconv"
	"time"
)

// Filter narrows the requisition history. Dates are inclusive and
// compared at day precision against requested_at; a nil field imposes no
// constraint.
type Filter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID *int64
}

// Row is one line of the requisition report, newest first.
type Row struct {
	ID          int64      `json:"id" db:"id"`
	Equipment   string     `json:"equipment" db:"equipment"`
	Quantity    int        `json:"quantity" db:"quantity"`
	User        string     `json:"user" db:"user_name"`
	RequestedAt time.Time  `json:"requested_at" db:"requested_at"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty" db:"approved_at"`
	RejectedAt  *time.Time `json:"rejected_at,omitempty" db:"rejected_at"`
	ReturnedAt  *time.Time `json:"returned_at,omitempty" db:"actual_return_date"`
	Status      string     `json:"status" db:"status"`
}

// ExportHeader is the fixed column set of the tabular export.
var ExportHeader = []string{
	"ID", "Equipment", "Quantity", "User",
	"Request Date", "Approve Date", "Reject Date", "Returned Date", "Status",
}

const timestampLayout = "2006-01-02 15:04"
const missingPlaceholder = "-"

var statusDisplay = map[string]string{
	"PENDING":  "Pending",
	"APPROVED": "Approved",
	"REJECTED": "Rejected",
	"RETURNED": "Returned",
}

// Columns renders the row in export order; absent timestamps become "-".
func (r Row) Columns() []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.Equipment,
		strconv.Itoa(r.Quantity),
		r.User,
		r.RequestedAt.Format(timestampLayout),
		formatOptional(r.ApprovedAt),
		formatOptional(r.RejectedAt),
		formatOptional(r.ReturnedAt),
		displayStatus(r.Status),
	}
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return missingPlaceholder
	}
	return t.Format(timestampLayout)
}

func displayStatus(status string) string {
	if display, ok := statusDisplay[status]; ok {
		return display
	}
	return status
}

// DashboardCounts backs the landing page summary.
type DashboardCounts struct {
	EquipmentCount   int64 `json:"equipment_count"`
	RequisitionCount int64 `json:"requisition_count"`
	PendingCount     int64 `json:"pending_count"`
	MyPendingCount   int64 `json:"my_pending_count"`
}
