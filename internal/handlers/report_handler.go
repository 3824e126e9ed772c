package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mgodoy/bookkeeper-api/internal/models"
	"github.com/mgodoy/bookkeeper-api/internal/repository"
	"github.com/mgodoy/bookkeeper-api/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
	exportService *services.ExportService
}

func NewReportHandler(reportService *services.ReportService, exportService *services.ExportService) *ReportHandler {
	return &ReportHandler{reportService: reportService, exportService: exportService}
}

func transactionFilterFromQuery(c *gin.Context) repository.TransactionFilter {
	filter := repository.TransactionFilter{
		Source: models.TransactionSource(c.Query("source")),
	}
	if accountID, err := strconv.ParseUint(c.Query("account_id"), 10, 32); err == nil {
		filter.AccountID = uint(accountID)
	}
	if start, err := time.Parse("2006-01-02", c.Query("start_date")); err == nil {
		filter.StartDate = &start
	}
	if end, err := time.Parse("2006-01-02", c.Query("end_date")); err == nil {
		filter.EndDate = &end
	}
	return filter
}

// @Summary Ledger CSV
// @Description Download the filtered ledger as CSV
// @Tags Reports
// @Produce text/csv
// @Param account_id query int false "Filter by account"
// @Param source query string false "Filter by source"
// @Param start_date query string false "Posted on or after (YYYY-MM-DD)"
// @Param end_date query string false "Posted on or before (YYYY-MM-DD)"
// @Success 200 {file} file "ledger.csv"
// @Security BearerAuth
// @Router /reports/ledger_csv [get]
func (h *ReportHandler) LedgerCSV(c *gin.Context) {
	buf, err := h.reportService.GenerateLedgerCSV(c.Request.Context(), transactionFilterFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=ledger.csv")
	c.String(http.StatusOK, buf.String())
}

// @Summary Trial Balance CSV
// @Description Download the trial balance as CSV
// @Tags Reports
// @Produce text/csv
// @Success 200 {file} file "trial_balance.csv"
// @Security BearerAuth
// @Router /reports/trial_balance_csv [get]
func (h *ReportHandler) TrialBalanceCSV(c *gin.Context) {
	buf, err := h.reportService.GenerateTrialBalanceCSV(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=trial_balance.csv")
	c.String(http.StatusOK, buf.String())
}

// @Summary Account Statement PDF
// @Description Download an account statement with a running balance as PDF
// @Tags Reports
// @Produce application/pdf
// @Param account_id query int true "Account ID"
// @Success 200 {file} file "statement.pdf"
// @Security BearerAuth
// @Router /reports/account_statement_pdf [get]
func (h *ReportHandler) AccountStatementPDF(c *gin.Context) {
	accountID, _ := strconv.ParseUint(c.Query("account_id"), 10, 32)
	if accountID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account_id is required"})
		return
	}

	buf, err := h.reportService.GenerateAccountStatementPDF(c.Request.Context(), uint(accountID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=statement_%d.pdf", accountID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// @Summary Ledger XLSX
// @Description Download the filtered ledger as a spreadsheet
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param account_id query int false "Filter by account"
// @Param source query string false "Filter by source"
// @Success 200 {file} file "ledger.xlsx"
// @Security BearerAuth
// @Router /reports/ledger_xlsx [get]
func (h *ReportHandler) LedgerXLSX(c *gin.Context) {
	data, filename, err := h.exportService.ExportLedgerXLSX(c.Request.Context(), transactionFilterFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// @Summary Depreciation Schedule XLSX
// @Description Download an asset's depreciation schedule as a spreadsheet
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param asset_id query int true "Asset ID"
// @Success 200 {file} file "depreciation.xlsx"
// @Security BearerAuth
// @Router /reports/depreciation_xlsx [get]
func (h *ReportHandler) ScheduleXLSX(c *gin.Context) {
	assetID, _ := strconv.ParseUint(c.Query("asset_id"), 10, 32)
	if assetID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asset_id is required"})
		return
	}

	data, filename, err := h.exportService.ExportScheduleXLSX(c.Request.Context(), uint(assetID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// @Summary Depreciation Schedule PDF
// @Description Download an asset's depreciation schedule as PDF
// @Tags Reports
// @Produce application/pdf
// @Param asset_id query int true "Asset ID"
// @Success 200 {file} file "depreciation.pdf"
// @Security BearerAuth
// @Router /reports/depreciation_pdf [get]
func (h *ReportHandler) SchedulePDF(c *gin.Context) {
	assetID, _ := strconv.ParseUint(c.Query("asset_id"), 10, 32)
	if assetID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asset_id is required"})
		return
	}

	data, filename, err := h.exportService.ExportSchedulePDF(c.Request.Context(), uint(assetID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// @Summary Archive Depreciation Schedule
// @Description Generate an asset's schedule spreadsheet in the background and keep it under storage
// @Tags Reports
// @Accept json
// @Produce json
// @Param asset_id query int true "Asset ID"
// @Success 202 {object} map[string]string
// @Security BearerAuth
// @Router /reports/archive_depreciation [post]
func (h *ReportHandler) ArchiveSchedule(c *gin.Context) {
	assetID, _ := strconv.ParseUint(c.Query("asset_id"), 10, 32)
	if assetID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asset_id is required"})
		return
	}

	h.exportService.ArchiveScheduleAsync(uint(assetID))
	c.JSON(http.StatusAccepted, gin.H{"message": "archive queued"})
}
