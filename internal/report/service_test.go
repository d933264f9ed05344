package report_test

import (
	"bytes"
	"encoding/csv"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/prasetya/requisition-tracker/internal/report"
)

func TestReportService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ReportService Suite")
}

// Mock repository for testing
type mockReportRepository struct {
	rows       []report.Row
	counts     report.DashboardCounts
	lastFilter report.Filter
	lastUserID int64
	rowsError  error
}

func (m *mockReportRepository) Rows(f report.Filter) ([]report.Row, error) {
	m.lastFilter = f
	if m.rowsError != nil {
		return nil, m.rowsError
	}
	return m.rows, nil
}

func (m *mockReportRepository) Counts(userID int64) (report.DashboardCounts, error) {
	m.lastUserID = userID
	return m.counts, nil
}

var _ = Describe("ReportService", func() {
	var (
		service  *report.Service
		mockRepo *mockReportRepository
		logger   *slog.Logger

		requestedAt time.Time
		approvedAt  time.Time
	)

	BeforeEach(func() {
		mockRepo = &mockReportRepository{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = report.NewService(mockRepo, logger)

		requestedAt = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
		approvedAt = time.Date(2025, 3, 11, 14, 5, 0, 0, time.UTC)
	})

	Describe("Rows", func() {
		It("should pass the filter through to the repository", func() {
			start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
			catID := int64(4)

			_, err := service.Rows(report.Filter{StartDate: &start, CategoryID: &catID})
			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.lastFilter.StartDate).To(Equal(&start))
			Expect(mockRepo.lastFilter.EndDate).To(BeNil())
			Expect(mockRepo.lastFilter.CategoryID).To(Equal(&catID))
		})

		It("should propagate repository errors", func() {
			mockRepo.rowsError = errors.New("db down")

			_, err := service.Rows(report.Filter{})
			Expect(err).To(MatchError("db down"))
		})
	})

	Describe("Dashboard", func() {
		It("should return the caller's counts", func() {
			mockRepo.counts = report.DashboardCounts{
				EquipmentCount:   7,
				RequisitionCount: 12,
				PendingCount:     3,
				MyPendingCount:   1,
			}

			counts, err := service.Dashboard(42)
			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.lastUserID).To(Equal(int64(42)))
			Expect(counts.PendingCount).To(Equal(int64(3)))
			Expect(counts.MyPendingCount).To(Equal(int64(1)))
		})
	})

	Describe("Row.Columns", func() {
		It("should format timestamps to the minute and map status labels", func() {
			row := report.Row{
				ID:          5,
				Equipment:   "ThinkPad T14",
				Quantity:    2,
				User:        "Bagus",
				RequestedAt: requestedAt,
				ApprovedAt:  &approvedAt,
				Status:      "APPROVED",
			}

			cols := row.Columns()
			Expect(cols).To(HaveLen(len(report.ExportHeader)))
			Expect(cols[0]).To(Equal("5"))
			Expect(cols[4]).To(Equal("2025-03-10 09:30"))
			Expect(cols[5]).To(Equal("2025-03-11 14:05"))
			Expect(cols[8]).To(Equal("Approved"))
		})

		It("should render absent timestamps as a dash", func() {
			row := report.Row{
				ID:          6,
				Equipment:   "Epson EB-X06",
				Quantity:    1,
				User:        "Bagus",
				RequestedAt: requestedAt,
				Status:      "PENDING",
			}

			cols := row.Columns()
			Expect(cols[5]).To(Equal("-"))
			Expect(cols[6]).To(Equal("-"))
			Expect(cols[7]).To(Equal("-"))
			Expect(cols[8]).To(Equal("Pending"))
		})
	})

	Describe("WriteCSV", func() {
		It("should emit the header and one line per row", func() {
			rows := []report.Row{
				{ID: 1, Equipment: "ThinkPad T14", Quantity: 2, User: "Bagus", RequestedAt: requestedAt, Status: "PENDING"},
				{ID: 2, Equipment: "Epson EB-X06", Quantity: 1, User: "Dina", RequestedAt: requestedAt, ApprovedAt: &approvedAt, Status: "APPROVED"},
			}

			var buf bytes.Buffer
			Expect(service.WriteCSV(&buf, rows)).To(Succeed())

			records, err := csv.NewReader(&buf).ReadAll()
			Expect(err).ToNot(HaveOccurred())
			Expect(records).To(HaveLen(3))
			Expect(records[0]).To(Equal(report.ExportHeader))
			Expect(records[1][1]).To(Equal("ThinkPad T14"))
			Expect(records[2][8]).To(Equal("Approved"))
		})

		It("should emit only the header for an empty report", func() {
			var buf bytes.Buffer
			Expect(service.WriteCSV(&buf, nil)).To(Succeed())

			records, err := csv.NewReader(&buf).ReadAll()
			Expect(err).ToNot(HaveOccurred())
			Expect(records).To(HaveLen(1))
		})
	})

	Describe("BuildXLSX", func() {
		It("should build a readable workbook with the export columns", func() {
			rows := []report.Row{
				{ID: 1, Equipment: "ThinkPad T14", Quantity: 2, User: "Bagus", RequestedAt: requestedAt, Status: "PENDING"},
			}

			buf, err := service.BuildXLSX(rows)
			Expect(err).ToNot(HaveOccurred())

			f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
			Expect(err).ToNot(HaveOccurred())
			defer f.Close()

			cells, err := f.GetRows("Requisition Report")
			Expect(err).ToNot(HaveOccurred())
			Expect(cells).To(HaveLen(2))
			Expect(cells[0]).To(Equal(report.ExportHeader))
			Expect(cells[1][1]).To(Equal("ThinkPad T14"))
		})
	})
})
