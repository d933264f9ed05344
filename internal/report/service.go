package report

import (
	"bytes"
	"encoding/csv"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"
)

type RepositoryAPI interface {
	Rows(f Filter) ([]Row, error)
	Counts(userID int64) (DashboardCounts, error)
}

// Service is a read-only projection over requisition history. It never
// mutates state or touches the ledger.
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

func (s *Service) Rows(f Filter) ([]Row, error) {
	rows, err := s.repo.Rows(f)
	if err != nil {
		s.logger.Error("failed to build report", "error", err)
		return nil, err
	}

	s.logger.Info("report built", "rows", len(rows))
	return rows, nil
}

func (s *Service) Dashboard(userID int64) (DashboardCounts, error) {
	counts, err := s.repo.Counts(userID)
	if err != nil {
		s.logger.Error("failed to compute dashboard counts", "error", err)
		return DashboardCounts{}, err
	}
	return counts, nil
}

// WriteCSV streams the rows as a CSV document.
func (s *Service) WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row.Columns()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// BuildXLSX renders the rows as a spreadsheet with a bold header row.
func (s *Service) BuildXLSX(rows []Row) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Requisition Report"
	f.SetSheetName("Sheet1", sheet)

	header := make([]interface{}, len(ExportHeader))
	for i, h := range ExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		lastCol, _ := excelize.CoordinatesToCellName(len(ExportHeader), 1)
		f.SetCellStyle(sheet, "A1", lastCol, style)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		cols := row.Columns()
		values := make([]interface{}, len(cols))
		for j, c := range cols {
			values[j] = c
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
	}

	return f.WriteToBuffer()
}
