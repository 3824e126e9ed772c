package services

import (
	"github.com/mgodoy/bookkeeper-api/internal/config"
	"github.com/mgodoy/bookkeeper-api/internal/jobs"
	"github.com/mgodoy/bookkeeper-api/internal/repository"
	"github.com/mgodoy/bookkeeper-api/internal/storage"
)

// Services holds all service instances
type Services struct {
	Auth         *AuthService
	Account      *AccountService
	Ledger       *LedgerService
	Depreciation *DepreciationService
	Recurrence   *RecurrenceService
	Scheduled    *ScheduledTransactionService
	Recurring    *RecurringTransactionService
	Asset        *FixedAssetService
	Report       *ReportService
	Export       *ExportService
	Job          *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, store *storage.LocalStorage, cfg *config.Config) *Services {
	ledgerSvc := NewLedgerService(repos)
	depreciationSvc := NewDepreciationService(repos, cfg)
	recurrenceSvc := NewRecurrenceService()

	return &Services{
		Auth:         NewAuthService(cfg),
		Account:      NewAccountService(repos),
		Ledger:       ledgerSvc,
		Depreciation: depreciationSvc,
		Recurrence:   recurrenceSvc,
		Scheduled:    NewScheduledTransactionService(repos, ledgerSvc),
		Recurring:    NewRecurringTransactionService(repos, recurrenceSvc),
		Asset:        NewFixedAssetService(repos, ledgerSvc, depreciationSvc, cfg),
		Report:       NewReportService(repos, ledgerSvc),
		Export:       NewExportService(repos, depreciationSvc, store, worker),
		Job:          NewJobService(worker),
	}
}
