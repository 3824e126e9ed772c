package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/mgodoy/bookkeeper-api/internal/jobs"
	"github.com/mgodoy/bookkeeper-api/internal/repository"
	"github.com/mgodoy/bookkeeper-api/internal/storage"
	"github.com/mgodoy/bookkeeper-api/pkg/logger"
	"github.com/xuri/excelize/v2"
)

type ExportService struct {
	repos        *repository.Repositories
	depreciation *DepreciationService
	storage      *storage.LocalStorage
	worker       *jobs.Worker
}

func NewExportService(repos *repository.Repositories, depreciation *DepreciationService, store *storage.LocalStorage, worker *jobs.Worker) *ExportService {
	return &ExportService{repos: repos, depreciation: depreciation, storage: store, worker: worker}
}

// ExportLedgerXLSX writes the filtered ledger to a spreadsheet
func (s *ExportService) ExportLedgerXLSX(ctx context.Context, filter repository.TransactionFilter) ([]byte, string, error) {
	txs, err := s.repos.Transaction.List(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Ledger"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	headers := []string{"ID", "Date", "Description", "Debit Account", "Credit Account", "Amount", "Source"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, t := range txs {
		values := []interface{}{
			t.ID,
			t.Date.Format("2006-01-02"),
			t.Description,
			t.DebitAccount.Name,
			t.CreditAccount.Name,
			t.Amount.StringFixed(2),
			string(t.Source),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ledger_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportScheduleXLSX writes an asset's depreciation schedule to a spreadsheet
func (s *ExportService) ExportScheduleXLSX(ctx context.Context, assetID uint) ([]byte, string, error) {
	asset, err := s.repos.Asset.FindByID(ctx, assetID)
	if err != nil {
		return nil, "", ErrNotFound
	}
	entries, err := s.depreciation.Schedule(ctx, assetID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Depreciation"
	_ = f.SetSheetName("Sheet1", sheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", asset.Name)
	_ = f.SetCellStyle(sheet, "A1", "A1", titleStyle)
	_ = f.SetCellValue(sheet, "A2", fmt.Sprintf("Method: %s", asset.Method))

	headers := []string{"Period", "Start", "End", "Expense", "Accumulated", "Book Value"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 4)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, e := range entries {
		values := []interface{}{
			e.Period,
			e.PeriodStart.Format("2006-01-02"),
			e.PeriodEnd.Format("2006-01-02"),
			e.Expense.StringFixed(2),
			e.AccumulatedDepreciation.StringFixed(2),
			e.BookValue.StringFixed(2),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+5)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("depreciation_%d_%s.xlsx", assetID, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportSchedulePDF writes an asset's depreciation schedule as a PDF table
func (s *ExportService) ExportSchedulePDF(ctx context.Context, assetID uint) ([]byte, string, error) {
	asset, err := s.repos.Asset.FindByID(ctx, assetID)
	if err != nil {
		return nil, "", ErrNotFound
	}
	entries, err := s.depreciation.Schedule(ctx, assetID)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Depreciation Schedule")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(40, 8, fmt.Sprintf("%s (%s)", asset.Name, asset.Method))
	pdf.Ln(6)
	pdf.Cell(40, 8, fmt.Sprintf("Cost %s, salvage %s", asset.OriginalCost.StringFixed(2), asset.SalvageValue.StringFixed(2)))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(15, 7, "Period", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 7, "Start", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 7, "End", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 7, "Expense", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 7, "Accumulated", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 7, "Book Value", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, e := range entries {
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", e.Period), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, e.PeriodStart.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, e.PeriodEnd.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, e.Expense.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, e.AccumulatedDepreciation.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, e.BookValue.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("depreciation_%d_%s.pdf", assetID, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ArchiveScheduleAsync generates an asset's schedule spreadsheet in the
// background and saves it under storage. The handler returns immediately.
func (s *ExportService) ArchiveScheduleAsync(assetID uint) {
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		data, filename, err := s.ExportScheduleXLSX(ctx, assetID)
		if err != nil {
			return err
		}
		path, err := s.storage.UploadFromBytes(data, filename, "exports")
		if err != nil {
			return err
		}
		logger.Info(fmt.Sprintf("[Export] Archived depreciation schedule for asset %d at %s", assetID, path))
		return nil
	})
}
