package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mgodoy/bookkeeper-api/internal/services"
	"github.com/mgodoy/bookkeeper-api/internal/storage"
)

// Handlers holds all handler instances
type Handlers struct {
	Health      *HealthHandler
	Auth        *AuthHandler
	Account     *AccountHandler
	Transaction *TransactionHandler
	Scheduled   *ScheduledHandler
	Recurring   *RecurringHandler
	Asset       *AssetHandler
	Report      *ReportHandler
	Job         *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, store *storage.LocalStorage) *Handlers {
	return &Handlers{
		Health:      NewHealthHandler(),
		Auth:        NewAuthHandler(svcs.Auth),
		Account:     NewAccountHandler(svcs.Account),
		Transaction: NewTransactionHandler(svcs.Ledger),
		Scheduled:   NewScheduledHandler(svcs.Scheduled),
		Recurring:   NewRecurringHandler(svcs.Recurring),
		Asset:       NewAssetHandler(svcs.Asset, svcs.Depreciation, store),
		Report:      NewReportHandler(svcs.Report, svcs.Export),
		Job:         NewJobHandler(svcs.Job),
	}
}

// respondError maps service errors onto HTTP statuses
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrImmutableSource), errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidAccount),
		errors.Is(err, services.ErrInvalidPeriod),
		errors.Is(err, services.ErrInvalidMethod):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
