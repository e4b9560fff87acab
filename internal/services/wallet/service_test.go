package wallet

import (
	"context"
	"sync"
	"testing"
	"time"

	domainerrors "orus-wallet/internal/errors"
	"orus-wallet/internal/models"
	"orus-wallet/internal/repositories/memstore"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	mu      sync.Mutex
	wallets map[string]*models.Wallet
	adminID string
}

func newMemCache() *memCache {
	return &memCache{wallets: make(map[string]*models.Wallet)}
}

func (c *memCache) GetWalletByOwner(_ context.Context, ownerID string) (*models.Wallet, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, ok := c.wallets[ownerID]
	return w.Clone(), ok, nil
}

func (c *memCache) CacheWallet(_ context.Context, w *models.Wallet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.wallets[w.Owner()] = w.Clone()
	return nil
}

func (c *memCache) InvalidateWallet(_ context.Context, w *models.Wallet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.wallets, w.Owner())
	return nil
}

func (c *memCache) GetAdminWalletID(context.Context) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.adminID, c.adminID != "", nil
}

func (c *memCache) SetAdminWalletID(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adminID = id
	return nil
}

func (c *memCache) ClearAdminWalletID(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adminID = ""
	return nil
}

func newTestService(t *testing.T) (*Service, *memstore.WalletStore, *memCache) {
	t.Helper()
	store := memstore.NewWalletStore()
	cache := newMemCache()
	return NewService(store, cache, nil, nil, Config{}), store, cache
}

func fund(t *testing.T, s *Service, userID string, amount int64) {
	t.Helper()
	_, err := s.CreateWallet(context.Background(), userID, models.WalletTypeUser)
	require.NoError(t, err)
	if amount > 0 {
		_, _, err = s.CreditUser(context.Background(), userID, decimal.NewFromInt(amount), Credit{
			TransactionID: "seed-" + userID,
			Category:      models.CategoryWalletTopUp,
		})
		require.NoError(t, err)
	}
}

func TestEnsureAdminWallet_Idempotent(t *testing.T) {
	s, store, _ := newTestService(t)
	ctx := context.Background()

	first, err := s.EnsureAdminWallet(ctx)
	require.NoError(t, err)
	assert.True(t, first.Created)

	for i := 0; i < 5; i++ {
		report, err := s.EnsureAdminWallet(ctx)
		require.NoError(t, err)
		assert.False(t, report.Created)
		assert.Equal(t, first.WalletID, report.WalletID)
		assert.EqualValues(t, 1, report.AdminWallets)
	}

	n, err := store.CountAdmins(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestEnsureAdminWallet_BackfillsLegacyType(t *testing.T) {
	s, store, _ := newTestService(t)
	ctx := context.Background()

	legacy := models.NewWallet(nil, "", time.Now())
	legacy.Balance = decimal.NewFromInt(15)
	legacy.Transactions = models.Transactions{
		{TransactionID: "old", Amount: decimal.NewFromInt(15), Type: models.TransactionTypeCredit},
	}
	store.Put(legacy)

	report, err := s.EnsureAdminWallet(ctx)
	require.NoError(t, err)
	assert.False(t, report.Created)
	assert.True(t, report.TypeBackfilled)
	assert.Equal(t, legacy.ID, report.WalletID)
	assert.Equal(t, 1, report.LegacyTransactions)
	assert.EqualValues(t, 1, report.AdminWallets)

	stored, err := store.GetByID(ctx, legacy.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WalletTypeAdmin, stored.Type)
	assert.Empty(t, stored.Transactions[0].TransactionCategory, "bootstrap must not rewrite history")

	again, err := s.EnsureAdminWallet(ctx)
	require.NoError(t, err)
	assert.False(t, again.TypeBackfilled)
	assert.Equal(t, legacy.ID, again.WalletID)
}

func TestAdminWallet_StaleHintIsIgnored(t *testing.T) {
	s, _, cache := newTestService(t)
	ctx := context.Background()
	fund(t, s, "user-1", 0)
	userWallet, err := s.WalletForUpdate(ctx, "user-1")
	require.NoError(t, err)

	cache.adminID = userWallet.ID

	admin, err := s.AdminWallet(ctx)
	require.NoError(t, err)
	assert.True(t, admin.IsAdminPool())
	assert.NotEqual(t, userWallet.ID, admin.ID)
	assert.Equal(t, admin.ID, cache.adminID)
}

func TestAdminWallet_ConcurrentProvisioning(t *testing.T) {
	s, store, _ := newTestService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]string, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w, err := s.AdminWallet(ctx)
			if assert.NoError(t, err) {
				ids[i] = w.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	n, err := store.CountAdmins(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestCreateWallet(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	w, err := s.CreateWallet(ctx, "user-1", "")
	require.NoError(t, err)
	assert.Equal(t, models.WalletTypeUser, w.Type)
	assert.True(t, w.Balance.IsZero())

	_, err = s.CreateWallet(ctx, "user-1", models.WalletTypeUser)
	assert.ErrorIs(t, err, domainerrors.ErrWalletExists)

	_, err = s.CreateWallet(ctx, "user-2", models.WalletTypeAdmin)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestPay(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()
	fund(t, s, "user-1", 100)

	tx, err := s.Pay(ctx, "user-1", decimal.NewFromInt(30), "booking-9")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryWalletPayment, tx.TransactionCategory)
	assert.Equal(t, "booking-9", tx.BookingID)
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(-30)))

	w, err := s.WalletForUpdate(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(decimal.NewFromInt(70)))

	_, err = s.Pay(ctx, "user-1", decimal.NewFromInt(71), "booking-10")
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientFunds)

	_, err = s.Pay(ctx, "nobody", decimal.NewFromInt(1), "booking-11")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestCreditUser_Idempotent(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()
	fund(t, s, "user-1", 0)

	credit := Credit{TransactionID: "pi_123", Category: models.CategoryWalletTopUp}
	_, applied, err := s.CreditUser(ctx, "user-1", decimal.NewFromInt(25), credit)
	require.NoError(t, err)
	assert.True(t, applied)

	line, applied, err := s.CreditUser(ctx, "user-1", decimal.NewFromInt(25), credit)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, "pi_123", line.TransactionID)

	w, err := s.WalletForUpdate(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(decimal.NewFromInt(25)))
	assert.Len(t, w.Transactions, 1)
}

func TestGetWalletByOwner_UsesCache(t *testing.T) {
	s, _, cache := newTestService(t)
	ctx := context.Background()
	fund(t, s, "user-1", 10)

	_, err := s.GetWalletByOwner(ctx, "user-1")
	require.NoError(t, err)
	assert.Contains(t, cache.wallets, "user-1")

	_, err = s.Pay(ctx, "user-1", decimal.NewFromInt(5), "b-1")
	require.NoError(t, err)
	assert.NotContains(t, cache.wallets, "user-1", "writes must drop the snapshot")
}

func TestFindTransaction(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()
	fund(t, s, "user-1", 10)

	legs, err := s.FindTransaction(ctx, "seed-user-1")
	require.NoError(t, err)
	require.NotNil(t, legs.Credit)
	assert.Nil(t, legs.Debit)
	assert.True(t, legs.Amount.Equal(decimal.NewFromInt(10)))

	_, err = s.FindTransaction(ctx, "missing")
	assert.ErrorIs(t, err, domainerrors.ErrTransactionNotFound)
}

func TestPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetrics(reg)

	m.RecordTransaction(models.CategoryWalletTransfer, decimal.NewFromFloat(-12.5))
	m.RecordConflictRetry(OpTransfer)
	m.RecordOperationResult(OpTransfer, ResultSuccess)

	assert.Equal(t, 12.5, testutil.ToFloat64(m.transactionAmount.WithLabelValues(models.CategoryWalletTransfer)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.conflictRetries.WithLabelValues(OpTransfer)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationResults.WithLabelValues(OpTransfer, ResultSuccess)))
}
