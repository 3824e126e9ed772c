package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mgodoy/bookkeeper-api/internal/services"
	"github.com/shopspring/decimal"
)

type ScheduledHandler struct {
	scheduledService *services.ScheduledTransactionService
}

func NewScheduledHandler(scheduledService *services.ScheduledTransactionService) *ScheduledHandler {
	return &ScheduledHandler{scheduledService: scheduledService}
}

// asOfDate reads the as_of query param, defaulting to today
func asOfDate(c *gin.Context) time.Time {
	if asOf, err := time.Parse("2006-01-02", c.Query("as_of")); err == nil {
		return asOf
	}
	return time.Now()
}

// @Summary List Scheduled Transactions
// @Description Get scheduled transactions, optionally filtered by status
// @Tags Scheduled
// @Accept json
// @Produce json
// @Param status query string false "pending, posted or deleted"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /scheduled_transactions [get]
func (h *ScheduledHandler) Index(c *gin.Context) {
	entries, err := h.scheduledService.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, e := range entries {
		responses = append(responses, e.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"scheduled_transactions": responses})
}

// @Summary List Due Entries
// @Description Get pending entries due on or before the given date
// @Tags Scheduled
// @Accept json
// @Produce json
// @Param as_of query string false "Cutoff date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /scheduled_transactions/due [get]
func (h *ScheduledHandler) Due(c *gin.Context) {
	entries, err := h.scheduledService.Due(c.Request.Context(), asOfDate(c))
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, e := range entries {
		responses = append(responses, e.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"scheduled_transactions": responses})
}

type ScheduledRequest struct {
	Description     string          `json:"description"`
	DebitAccountID  uint            `json:"debit_account_id" binding:"required"`
	CreditAccountID uint            `json:"credit_account_id" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
}

// @Summary Edit Scheduled Transaction
// @Description Edit a pending entry in place. It stays pending and keeps its due date.
// @Tags Scheduled
// @Accept json
// @Produce json
// @Param scheduled_id path int true "Scheduled Transaction ID"
// @Param request body ScheduledRequest true "Scheduled Transaction Data"
// @Success 200 {object} models.ScheduledTransactionResponse
// @Security BearerAuth
// @Router /scheduled_transactions/{scheduled_id} [put]
func (h *ScheduledHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("scheduled_id"), 10, 32)
	var req ScheduledRequest
	if err := BindNestedOrFlat(c, "scheduled_transaction", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.scheduledService.Edit(c.Request.Context(), uint(id), services.ScheduledFields{
		Description:     req.Description,
		DebitAccountID:  req.DebitAccountID,
		CreditAccountID: req.CreditAccountID,
		Amount:          req.Amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"scheduled_transaction": entry.ToResponse()})
}

type PostponeRequest struct {
	DueDate string `json:"due_date" binding:"required"`
}

// @Summary Postpone Scheduled Transaction
// @Description Move a pending entry's due date into the future. The entry stays pending.
// @Tags Scheduled
// @Accept json
// @Produce json
// @Param scheduled_id path int true "Scheduled Transaction ID"
// @Param request body PostponeRequest true "New Due Date"
// @Success 200 {object} models.ScheduledTransactionResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /scheduled_transactions/{scheduled_id}/postpone [post]
func (h *ScheduledHandler) Postpone(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("scheduled_id"), 10, 32)
	var req PostponeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date, expected YYYY-MM-DD"})
		return
	}

	entry, err := h.scheduledService.Postpone(c.Request.Context(), uint(id), asOfDate(c), newDate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"scheduled_transaction": entry.ToResponse()})
}

// @Summary Delete Scheduled Transaction
// @Description Drop a pending entry. It will never be posted.
// @Tags Scheduled
// @Accept json
// @Produce json
// @Param scheduled_id path int true "Scheduled Transaction ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /scheduled_transactions/{scheduled_id} [delete]
func (h *ScheduledHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("scheduled_id"), 10, 32)
	if err := h.scheduledService.Delete(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "scheduled transaction deleted"})
}

// @Summary Process Due Entries
// @Description Post every pending entry due as of the cutoff date. Each entry is its own atomic unit; failures are reported per entry and do not stop the sweep.
// @Tags Scheduled
// @Accept json
// @Produce json
// @Param as_of query string false "Cutoff date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} services.BatchResult
// @Security BearerAuth
// @Router /scheduled_transactions/process_due [post]
func (h *ScheduledHandler) ProcessDue(c *gin.Context) {
	result, err := h.scheduledService.ProcessDue(c.Request.Context(), asOfDate(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
