package services

import (
	"context"
	"sort"
	"time"

	"github.com/mgodoy/bookkeeper-api/internal/models"
	"github.com/mgodoy/bookkeeper-api/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repositories for service tests. They mimic the store's
// semantics (copies in and out, gorm.ErrRecordNotFound for misses) and
// expose mock* func fields to override single calls, following the same
// pattern as the handler mocks.

type fakeAccountRepo struct {
	accounts map[uint]*models.Account
	nextID   uint

	mockAddToBalance func(ctx context.Context, id uint, delta decimal.Decimal) error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uint]*models.Account)}
}

func (f *fakeAccountRepo) Create(ctx context.Context, account *models.Account) error {
	f.nextID++
	account.ID = f.nextID
	stored := *account
	f.accounts[account.ID] = &stored
	return nil
}

func (f *fakeAccountRepo) FindByID(ctx context.Context, id uint) (*models.Account, error) {
	account, ok := f.accounts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *account
	return &out, nil
}

func (f *fakeAccountRepo) FindByCode(ctx context.Context, code string) (*models.Account, error) {
	for _, account := range f.accounts {
		if account.Code == code {
			out := *account
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAccountRepo) List(ctx context.Context, activeOnly bool) ([]models.Account, error) {
	var accounts []models.Account
	for _, account := range f.accounts {
		if activeOnly && !account.Active {
			continue
		}
		accounts = append(accounts, *account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts, nil
}

func (f *fakeAccountRepo) Update(ctx context.Context, account *models.Account) error {
	if _, ok := f.accounts[account.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *account
	f.accounts[account.ID] = &stored
	return nil
}

func (f *fakeAccountRepo) AddToBalance(ctx context.Context, id uint, delta decimal.Decimal) error {
	if f.mockAddToBalance != nil {
		return f.mockAddToBalance(ctx, id, delta)
	}
	account, ok := f.accounts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	account.Balance = account.Balance.Add(delta)
	return nil
}

// balance reads the stored balance column directly
func (f *fakeAccountRepo) balance(id uint) decimal.Decimal {
	return f.accounts[id].Balance
}

type fakeTransactionRepo struct {
	txs    map[uint]*models.Transaction
	nextID uint
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{txs: make(map[uint]*models.Transaction)}
}

func (f *fakeTransactionRepo) Create(ctx context.Context, tx *models.Transaction) error {
	f.nextID++
	tx.ID = f.nextID
	stored := *tx
	f.txs[tx.ID] = &stored
	return nil
}

func (f *fakeTransactionRepo) FindByID(ctx context.Context, id uint) (*models.Transaction, error) {
	tx, ok := f.txs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *tx
	return &out, nil
}

func (f *fakeTransactionRepo) List(ctx context.Context, filter repository.TransactionFilter) ([]models.Transaction, error) {
	var txs []models.Transaction
	for _, tx := range f.txs {
		if filter.AccountID != 0 && tx.DebitAccountID != filter.AccountID && tx.CreditAccountID != filter.AccountID {
			continue
		}
		if filter.Source != "" && tx.Source != filter.Source {
			continue
		}
		if filter.StartDate != nil && tx.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && tx.Date.After(*filter.EndDate) {
			continue
		}
		txs = append(txs, *tx)
	}
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.Before(txs[j].Date)
		}
		return txs[i].ID < txs[j].ID
	})
	return txs, nil
}

func (f *fakeTransactionRepo) Update(ctx context.Context, tx *models.Transaction) error {
	if _, ok := f.txs[tx.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *tx
	f.txs[tx.ID] = &stored
	return nil
}

func (f *fakeTransactionRepo) Delete(ctx context.Context, id uint) error {
	delete(f.txs, id)
	return nil
}

func (f *fakeTransactionRepo) NetBalance(ctx context.Context, accountID uint) (decimal.Decimal, error) {
	net := decimal.Zero
	for _, tx := range f.txs {
		if tx.DebitAccountID == accountID {
			net = net.Add(tx.Amount)
		}
		if tx.CreditAccountID == accountID {
			net = net.Sub(tx.Amount)
		}
	}
	return net, nil
}

type fakeScheduledRepo struct {
	entries map[uint]*models.ScheduledTransaction
	nextID  uint

	mockFindDue func(ctx context.Context, asOf time.Time) ([]models.ScheduledTransaction, error)
}

func newFakeScheduledRepo() *fakeScheduledRepo {
	return &fakeScheduledRepo{entries: make(map[uint]*models.ScheduledTransaction)}
}

func (f *fakeScheduledRepo) Create(ctx context.Context, entry *models.ScheduledTransaction) error {
	f.nextID++
	entry.ID = f.nextID
	stored := *entry
	f.entries[entry.ID] = &stored
	return nil
}

func (f *fakeScheduledRepo) CreateBatch(ctx context.Context, entries []models.ScheduledTransaction) error {
	for i := range entries {
		f.nextID++
		entries[i].ID = f.nextID
		stored := entries[i]
		f.entries[stored.ID] = &stored
	}
	return nil
}

func (f *fakeScheduledRepo) FindByID(ctx context.Context, id uint) (*models.ScheduledTransaction, error) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *entry
	return &out, nil
}

func (f *fakeScheduledRepo) FindDue(ctx context.Context, asOf time.Time) ([]models.ScheduledTransaction, error) {
	if f.mockFindDue != nil {
		return f.mockFindDue(ctx, asOf)
	}
	var due []models.ScheduledTransaction
	for _, entry := range f.entries {
		if entry.IsDue(asOf) {
			due = append(due, *entry)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].DueDate.Equal(due[j].DueDate) {
			return due[i].DueDate.Before(due[j].DueDate)
		}
		return due[i].ID < due[j].ID
	})
	return due, nil
}

func (f *fakeScheduledRepo) List(ctx context.Context, status string) ([]models.ScheduledTransaction, error) {
	var entries []models.ScheduledTransaction
	for _, entry := range f.entries {
		if status != "" && entry.Status != status {
			continue
		}
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].DueDate.Equal(entries[j].DueDate) {
			return entries[i].DueDate.Before(entries[j].DueDate)
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

func (f *fakeScheduledRepo) Update(ctx context.Context, entry *models.ScheduledTransaction) error {
	if _, ok := f.entries[entry.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *entry
	f.entries[entry.ID] = &stored
	return nil
}

func (f *fakeScheduledRepo) Delete(ctx context.Context, id uint) error {
	delete(f.entries, id)
	return nil
}

func (f *fakeScheduledRepo) DeleteByRecurring(ctx context.Context, recurringID uint) error {
	for id, entry := range f.entries {
		if entry.RecurringTransactionID != nil && *entry.RecurringTransactionID == recurringID &&
			entry.Status == models.ScheduledStatusPending {
			delete(f.entries, id)
		}
	}
	return nil
}

type fakeRecurringRepo struct {
	defs   map[uint]*models.RecurringTransaction
	nextID uint
}

func newFakeRecurringRepo() *fakeRecurringRepo {
	return &fakeRecurringRepo{defs: make(map[uint]*models.RecurringTransaction)}
}

func (f *fakeRecurringRepo) Create(ctx context.Context, def *models.RecurringTransaction) error {
	f.nextID++
	def.ID = f.nextID
	stored := *def
	f.defs[def.ID] = &stored
	return nil
}

func (f *fakeRecurringRepo) FindByID(ctx context.Context, id uint) (*models.RecurringTransaction, error) {
	def, ok := f.defs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *def
	return &out, nil
}

func (f *fakeRecurringRepo) List(ctx context.Context) ([]models.RecurringTransaction, error) {
	var defs []models.RecurringTransaction
	for _, def := range f.defs {
		defs = append(defs, *def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs, nil
}

func (f *fakeRecurringRepo) Delete(ctx context.Context, id uint) error {
	delete(f.defs, id)
	return nil
}

type fakeAssetRepo struct {
	assets      map[uint]*models.FixedAsset
	entries     []models.DepreciationEntry
	nextID      uint
	nextEntryID uint
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{assets: make(map[uint]*models.FixedAsset)}
}

func (f *fakeAssetRepo) Create(ctx context.Context, asset *models.FixedAsset) error {
	f.nextID++
	asset.ID = f.nextID
	stored := *asset
	f.assets[asset.ID] = &stored
	return nil
}

func (f *fakeAssetRepo) FindByID(ctx context.Context, id uint) (*models.FixedAsset, error) {
	asset, ok := f.assets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *asset
	return &out, nil
}

func (f *fakeAssetRepo) List(ctx context.Context) ([]models.FixedAsset, error) {
	var assets []models.FixedAsset
	for _, asset := range f.assets {
		assets = append(assets, *asset)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].ID < assets[j].ID })
	return assets, nil
}

func (f *fakeAssetRepo) Delete(ctx context.Context, id uint) error {
	delete(f.assets, id)
	return nil
}

func (f *fakeAssetRepo) CountByAccount(ctx context.Context, accountID uint) (int64, error) {
	var count int64
	for _, asset := range f.assets {
		if asset.AccountID == accountID {
			count++
		}
	}
	return count, nil
}

func (f *fakeAssetRepo) LastEntry(ctx context.Context, assetID uint) (*models.DepreciationEntry, error) {
	var last *models.DepreciationEntry
	for i := range f.entries {
		entry := &f.entries[i]
		if entry.FixedAssetID != assetID {
			continue
		}
		if last == nil || entry.Period > last.Period {
			last = entry
		}
	}
	if last == nil {
		return nil, nil
	}
	out := *last
	return &out, nil
}

func (f *fakeAssetRepo) ListEntries(ctx context.Context, assetID uint) ([]models.DepreciationEntry, error) {
	var entries []models.DepreciationEntry
	for _, entry := range f.entries {
		if entry.FixedAssetID == assetID {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Period < entries[j].Period })
	return entries, nil
}

func (f *fakeAssetRepo) CreateEntries(ctx context.Context, entries []models.DepreciationEntry) error {
	for i := range entries {
		f.nextEntryID++
		entries[i].ID = f.nextEntryID
		f.entries = append(f.entries, entries[i])
	}
	return nil
}

func (f *fakeAssetRepo) LinkEntryTransaction(ctx context.Context, scheduledID, transactionID uint) error {
	for i := range f.entries {
		entry := &f.entries[i]
		if entry.ScheduledTransactionID != nil && *entry.ScheduledTransactionID == scheduledID {
			entry.ScheduledTransactionID = nil
			txID := transactionID
			entry.TransactionID = &txID
		}
	}
	return nil
}

// repoFixture bundles the fakes with a Repositories built over them. The
// Repositories has no backing db, so Atomic runs its callback in place.
type repoFixture struct {
	repos     *repository.Repositories
	accounts  *fakeAccountRepo
	txs       *fakeTransactionRepo
	scheduled *fakeScheduledRepo
	recurring *fakeRecurringRepo
	assets    *fakeAssetRepo
}

func newRepoFixture() *repoFixture {
	fx := &repoFixture{
		accounts:  newFakeAccountRepo(),
		txs:       newFakeTransactionRepo(),
		scheduled: newFakeScheduledRepo(),
		recurring: newFakeRecurringRepo(),
		assets:    newFakeAssetRepo(),
	}
	fx.repos = &repository.Repositories{
		Account:     fx.accounts,
		Transaction: fx.txs,
		Scheduled:   fx.scheduled,
		Recurring:   fx.recurring,
		Asset:       fx.assets,
	}
	return fx
}

// addAccount seeds an active account and returns its ID
func (fx *repoFixture) addAccount(code string, accountType models.AccountType) uint {
	account := &models.Account{
		Code:          code,
		Name:          code,
		Type:          accountType,
		NormalBalance: accountType.DefaultNormalBalance(),
		Active:        true,
	}
	_ = fx.accounts.Create(context.Background(), account)
	return account.ID
}

// date builds a UTC date the way due dates and posting dates are stored
func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
