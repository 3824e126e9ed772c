package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mgodoy/bookkeeper-api/internal/models"
	"github.com/mgodoy/bookkeeper-api/internal/services"
)

type AccountHandler struct {
	accountService *services.AccountService
}

func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// @Summary List Accounts
// @Description Get the chart of accounts
// @Tags Accounts
// @Accept json
// @Produce json
// @Param active query bool false "Only active accounts" default(true)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /accounts [get]
func (h *AccountHandler) Index(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "true") == "true"

	accounts, err := h.accountService.List(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, a := range accounts {
		responses = append(responses, a.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"accounts": responses})
}

// @Summary Get Account
// @Description Get an account by ID
// @Tags Accounts
// @Accept json
// @Produce json
// @Param account_id path int true "Account ID"
// @Success 200 {object} models.AccountResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /accounts/{account_id} [get]
func (h *AccountHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("account_id"), 10, 32)
	account, err := h.accountService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account.ToResponse()})
}

// @Summary Create Account
// @Description Add an account to the chart of accounts
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body models.Account true "Account Data"
// @Success 201 {object} models.AccountResponse
// @Security BearerAuth
// @Router /accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	var account models.Account
	if err := BindNestedOrFlat(c, "account", &account); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accountService.Create(c.Request.Context(), &account); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"account": account.ToResponse()})
}

// @Summary Deactivate Account
// @Description Deactivate an unused account. Accounts with a balance or linked assets cannot be deactivated.
// @Tags Accounts
// @Accept json
// @Produce json
// @Param account_id path int true "Account ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /accounts/{account_id} [delete]
func (h *AccountHandler) Deactivate(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("account_id"), 10, 32)
	if err := h.accountService.Deactivate(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deactivated"})
}

// @Summary Verify Account Balance
// @Description Compare the stored balance against the sum derived from posted transactions
// @Tags Accounts
// @Accept json
// @Produce json
// @Param account_id path int true "Account ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /accounts/{account_id}/verify [get]
func (h *AccountHandler) Verify(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("account_id"), 10, 32)
	stored, derived, err := h.accountService.VerifyBalance(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"stored":     stored,
		"derived":    derived,
		"consistent": stored.Equal(derived),
	})
}
