package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	db *gorm.DB

	Account     AccountRepository
	Transaction TransactionRepository
	Scheduled   ScheduledTransactionRepository
	Recurring   RecurringTransactionRepository
	Asset       FixedAssetRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:          db,
		Account:     NewAccountRepository(db),
		Transaction: NewTransactionRepository(db),
		Scheduled:   NewScheduledTransactionRepository(db),
		Recurring:   NewRecurringTransactionRepository(db),
		Asset:       NewFixedAssetRepository(db),
	}
}

// Atomic runs fn as one all-or-nothing unit against the store: every
// repository call made through the unit-scoped Repositories is rolled back
// if fn returns an error. Repositories built without a backing db (tests
// assembling mock fields directly) execute fn in place.
func (r *Repositories) Atomic(ctx context.Context, fn func(*Repositories) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
