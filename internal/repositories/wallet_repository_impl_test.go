package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"orus-wallet/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens DATABASE_URL inside a throwaway schema so tests never see
// each other's rows.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true}

	root, err := gorm.Open(postgres.Open(dsn), cfg)
	require.NoError(t, err)
	schema := "wallet_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	require.NoError(t, root.Exec("CREATE SCHEMA "+schema).Error)

	db, err := gorm.Open(postgres.Open(withSearchPath(dsn, schema)), cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = Close(db)
		_ = root.Exec("DROP SCHEMA " + schema + " CASCADE").Error
		_ = Close(root)
	})
	require.NoError(t, Migrate(db))
	return db
}

func withSearchPath(dsn, schema string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "search_path=" + schema
	}
	return dsn + " search_path=" + schema
}

func userWallet(t *testing.T, repo WalletRepository) *models.Wallet {
	t.Helper()
	owner := uuid.NewString()
	w := models.NewWallet(&owner, models.WalletTypeUser, time.Now().UTC())
	require.NoError(t, repo.Create(context.Background(), w))
	return w
}

func TestWalletRepository_CreateAndGet(t *testing.T) {
	repo := NewWalletRepository(newTestDB(t))
	ctx := context.Background()

	w := userWallet(t, repo)

	byID, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, *w.OwnerID, *byID.OwnerID)
	assert.True(t, byID.Balance.IsZero())
	assert.EqualValues(t, 0, byID.Version)

	byOwner, err := repo.GetByOwnerID(ctx, *w.OwnerID)
	require.NoError(t, err)
	assert.Equal(t, w.ID, byOwner.ID)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrWalletNotFound)
	_, err = repo.GetByOwnerID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestWalletRepository_UniqueOwnerAndAdmin(t *testing.T) {
	repo := NewWalletRepository(newTestDB(t))
	ctx := context.Background()

	w := userWallet(t, repo)
	dup := models.NewWallet(w.OwnerID, models.WalletTypeUser, time.Now().UTC())
	assert.ErrorIs(t, repo.Create(ctx, dup), ErrDuplicateWallet)

	require.NoError(t, repo.Create(ctx, models.NewWallet(nil, models.WalletTypeAdmin, time.Now().UTC())))
	err := repo.Create(ctx, models.NewWallet(nil, models.WalletTypeAdmin, time.Now().UTC()))
	assert.ErrorIs(t, err, ErrDuplicateWallet)

	n, err := repo.CountAdmins(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestWalletRepository_SaveDetectsStaleVersion(t *testing.T) {
	repo := NewWalletRepository(newTestDB(t))
	ctx := context.Background()
	w := userWallet(t, repo)

	first, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)

	first.Balance = decimal.NewFromInt(10)
	require.NoError(t, repo.Save(ctx, first))
	assert.EqualValues(t, 1, first.Version)

	second.Balance = decimal.NewFromInt(99)
	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.EqualValues(t, 0, second.Version)

	stored, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(decimal.NewFromInt(10)))
	assert.EqualValues(t, 1, stored.Version)
}

func TestWalletRepository_SaveIsAtomicAcrossWallets(t *testing.T) {
	repo := NewWalletRepository(newTestDB(t))
	ctx := context.Background()
	a, b := userWallet(t, repo), userWallet(t, repo)

	staleB, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	freshB, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, freshB))

	loadedA, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	loadedA.Balance = decimal.NewFromInt(50)
	staleB.Balance = decimal.NewFromInt(50)

	err = repo.Save(ctx, loadedA, staleB)
	assert.ErrorIs(t, err, ErrVersionConflict)

	storedA, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, storedA.Balance.IsZero(), "first wallet must roll back with the second")
	assert.EqualValues(t, 0, storedA.Version)
}

func TestWalletRepository_JSONBFilters(t *testing.T) {
	repo := NewWalletRepository(newTestDB(t))
	ctx := context.Background()
	sender, recipient, other := userWallet(t, repo), userWallet(t, repo), userWallet(t, repo)
	now := time.Now().UTC()

	sender.Balance = decimal.NewFromInt(5)
	sender.Transactions = append(sender.Transactions, models.Transaction{
		TransactionID: "tx-1", Amount: decimal.NewFromInt(-5), Type: models.TransactionTypeDebit,
		TransactionCategory: models.CategoryWalletTransfer, Timestamp: now,
	})
	sender.RefundRequests = append(sender.RefundRequests, models.RefundRequest{
		ID: "refund-1", Amount: decimal.NewFromInt(1), Reason: "late", Status: models.RefundStatusPending, RequestDate: now,
	})
	recipient.Balance = decimal.NewFromInt(5)
	recipient.Transactions = append(recipient.Transactions, models.Transaction{
		TransactionID: "tx-1", Amount: decimal.NewFromInt(5), Type: models.TransactionTypeCredit,
		TransactionCategory: models.CategoryWalletTransfer, Timestamp: now,
	})
	other.Transactions = append(other.Transactions, models.Transaction{
		TransactionID: "tx-2", Amount: decimal.Zero, Type: models.TransactionTypeCredit, Timestamp: now,
	})
	require.NoError(t, repo.Save(ctx, sender, recipient, other))

	legs, err := repo.FindByTransactionID(ctx, "tx-1")
	require.NoError(t, err)
	ids := []string{}
	for _, w := range legs {
		ids = append(ids, w.ID)
	}
	assert.ElementsMatch(t, []string{sender.ID, recipient.ID}, ids)

	none, err := repo.FindByTransactionID(ctx, `tx-1"}]`)
	require.NoError(t, err)
	assert.Empty(t, none)

	holder, err := repo.FindByRefundID(ctx, "refund-1")
	require.NoError(t, err)
	assert.Equal(t, sender.ID, holder.ID)
	_, err = repo.FindByRefundID(ctx, "refund-404")
	assert.ErrorIs(t, err, ErrWalletNotFound)

	pending, err := repo.FindByRefundStatus(ctx, models.RefundStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, sender.ID, pending[0].ID)
	approved, err := repo.FindByRefundStatus(ctx, models.RefundStatusApproved)
	require.NoError(t, err)
	assert.Empty(t, approved)
}

func TestWalletRepository_ExpiredContextIsTransient(t *testing.T) {
	repo := NewWalletRepository(newTestDB(t))
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrTransient)
}

func TestClassify(t *testing.T) {
	err := classify(fmt.Errorf("failed to save wallets: %w", context.DeadlineExceeded))
	assert.ErrorIs(t, err, ErrTransient)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	for _, plain := range []error{errors.New("boom"), context.Canceled, ErrWalletNotFound} {
		assert.NotErrorIs(t, classify(plain), ErrTransient, plain.Error())
	}
}

func TestContainsFilter(t *testing.T) {
	f, err := containsFilter("transactionId", "tx-1")
	require.NoError(t, err)
	assert.Equal(t, `[{"transactionId":"tx-1"}]`, f)

	f, err = containsFilter("id", `a"}],"x":[{"`)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a\"}],\"x\":[{\""}]`, f)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgUniqueViolation})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}
