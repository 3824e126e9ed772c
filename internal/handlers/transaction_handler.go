package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mgodoy/bookkeeper-api/internal/models"
	"github.com/mgodoy/bookkeeper-api/internal/repository"
	"github.com/mgodoy/bookkeeper-api/internal/services"
	"github.com/shopspring/decimal"
)

type TransactionHandler struct {
	ledgerService *services.LedgerService
}

func NewTransactionHandler(ledgerService *services.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledgerService: ledgerService}
}

type TransactionRequest struct {
	Date            string          `json:"date" binding:"required"`
	Description     string          `json:"description"`
	DebitAccountID  uint            `json:"debit_account_id" binding:"required"`
	CreditAccountID uint            `json:"credit_account_id" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
}

func (r *TransactionRequest) toFields() (services.TransactionFields, error) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return services.TransactionFields{}, err
	}
	return services.TransactionFields{
		Date:            date,
		Description:     r.Description,
		DebitAccountID:  r.DebitAccountID,
		CreditAccountID: r.CreditAccountID,
		Amount:          r.Amount,
	}, nil
}

// @Summary List Transactions
// @Description Get posted transactions, newest first
// @Tags Transactions
// @Accept json
// @Produce json
// @Param account_id query int false "Filter by account"
// @Param source query string false "Filter by source"
// @Param start_date query string false "Posted on or after (YYYY-MM-DD)"
// @Param end_date query string false "Posted on or before (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /transactions [get]
func (h *TransactionHandler) Index(c *gin.Context) {
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

	txs, err := h.ledgerService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, t := range txs {
		responses = append(responses, t.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"transactions": responses})
}

// @Summary Get Transaction
// @Description Get a posted transaction by ID
// @Tags Transactions
// @Accept json
// @Produce json
// @Param transaction_id path int true "Transaction ID"
// @Success 200 {object} models.TransactionResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /transactions/{transaction_id} [get]
func (h *TransactionHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("transaction_id"), 10, 32)
	tx, err := h.ledgerService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": tx.ToResponse()})
}

// @Summary Post Transaction
// @Description Post a manual transaction to the ledger
// @Tags Transactions
// @Accept json
// @Produce json
// @Param request body TransactionRequest true "Transaction Data"
// @Success 201 {object} models.TransactionResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req TransactionRequest
	if err := BindNestedOrFlat(c, "transaction", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields, err := req.toFields()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	tx, err := h.ledgerService.Post(c.Request.Context(), fields, models.SourceGeneral)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": tx.ToResponse()})
}

// @Summary Edit Transaction
// @Description Replace a posted transaction. The original effect is reversed and the new values applied as one unit. Only manually posted transactions can be edited.
// @Tags Transactions
// @Accept json
// @Produce json
// @Param transaction_id path int true "Transaction ID"
// @Param request body TransactionRequest true "Transaction Data"
// @Success 200 {object} models.TransactionResponse
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /transactions/{transaction_id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("transaction_id"), 10, 32)
	var req TransactionRequest
	if err := BindNestedOrFlat(c, "transaction", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields, err := req.toFields()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	tx, err := h.ledgerService.Edit(c.Request.Context(), uint(id), fields, models.SourceGeneral)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": tx.ToResponse()})
}

// @Summary Delete Transaction
// @Description Reverse a posted transaction's balance effect and remove it. Only manually posted transactions can be deleted.
// @Tags Transactions
// @Accept json
// @Produce json
// @Param transaction_id path int true "Transaction ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /transactions/{transaction_id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("transaction_id"), 10, 32)
	if err := h.ledgerService.Delete(c.Request.Context(), uint(id), models.SourceGeneral); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction deleted"})
}

// @Summary Trial Balance
// @Description Every active account with its balance in the debit or credit column
// @Tags Transactions
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /transactions/trial_balance [get]
func (h *TransactionHandler) TrialBalance(c *gin.Context) {
	lines, err := h.ledgerService.TrialBalance(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trial_balance": lines})
}
