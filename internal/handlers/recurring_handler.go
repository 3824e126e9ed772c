package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mgodoy/bookkeeper-api/internal/models"
	"github.com/mgodoy/bookkeeper-api/internal/services"
	"github.com/shopspring/decimal"
)

type RecurringHandler struct {
	recurringService *services.RecurringTransactionService
}

func NewRecurringHandler(recurringService *services.RecurringTransactionService) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService}
}

// @Summary List Recurring Transactions
// @Description Get all recurring transaction definitions
// @Tags Recurring
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /recurring_transactions [get]
func (h *RecurringHandler) Index(c *gin.Context) {
	defs, err := h.recurringService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, d := range defs {
		responses = append(responses, d.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"recurring_transactions": responses})
}

// @Summary Get Recurring Transaction
// @Description Get a recurring transaction definition by ID
// @Tags Recurring
// @Accept json
// @Produce json
// @Param recurring_id path int true "Recurring Transaction ID"
// @Success 200 {object} models.RecurringTransactionResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /recurring_transactions/{recurring_id} [get]
func (h *RecurringHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("recurring_id"), 10, 32)
	def, err := h.recurringService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recurring_transaction": def.ToResponse()})
}

type RecurringRequest struct {
	Description     string          `json:"description"`
	DebitAccountID  uint            `json:"debit_account_id" binding:"required"`
	CreditAccountID uint            `json:"credit_account_id" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Frequency       string          `json:"frequency" binding:"required"`
	IntervalDays    *int            `json:"interval_days"`
	StartDate       string          `json:"start_date" binding:"required"`
	EndDate         *string         `json:"end_date"`
}

// @Summary Create Recurring Transaction
// @Description Define a recurring transaction. Its occurrences are expanded into pending scheduled transactions immediately.
// @Tags Recurring
// @Accept json
// @Produce json
// @Param request body RecurringRequest true "Recurring Transaction Data"
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /recurring_transactions [post]
func (h *RecurringHandler) Create(c *gin.Context) {
	var req RecurringRequest
	if err := BindNestedOrFlat(c, "recurring_transaction", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date, expected YYYY-MM-DD"})
		return
	}

	var endDate *time.Time
	if req.EndDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date, expected YYYY-MM-DD"})
			return
		}
		endDate = &parsed
	}

	def := &models.RecurringTransaction{
		Description:     req.Description,
		DebitAccountID:  req.DebitAccountID,
		CreditAccountID: req.CreditAccountID,
		Amount:          req.Amount,
		Frequency:       models.Frequency(req.Frequency),
		IntervalDays:    req.IntervalDays,
		StartDate:       startDate,
		EndDate:         endDate,
	}

	entries, err := h.recurringService.Create(c.Request.Context(), def)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"recurring_transaction": def.ToResponse(),
		"scheduled_count":       len(entries),
	})
}

// @Summary Delete Recurring Transaction
// @Description Remove a definition and all of its still-pending scheduled transactions. Posted occurrences stay in the ledger.
// @Tags Recurring
// @Accept json
// @Produce json
// @Param recurring_id path int true "Recurring Transaction ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /recurring_transactions/{recurring_id} [delete]
func (h *RecurringHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("recurring_id"), 10, 32)
	if err := h.recurringService.Delete(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recurring transaction deleted"})
}
