package refund

import (
	"context"
	"testing"
	"time"

	domainerrors "orus-wallet/internal/errors"
	"orus-wallet/internal/models"
	"orus-wallet/internal/repositories/memstore"
	"orus-wallet/internal/services/ledger"
	"orus-wallet/internal/services/wallet"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store   *memstore.WalletStore
	wallets *wallet.Service
	svc     *Service
}

func newFixture(t *testing.T, userBalance, adminBalance int64) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.NewWalletStore()
	wallets := wallet.NewService(store, nil, nil, nil, wallet.Config{
		Now: func() time.Time { return time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC) },
	})

	_, err := wallets.CreateWallet(ctx, "user-1", models.WalletTypeUser)
	require.NoError(t, err)
	if userBalance > 0 {
		_, _, err = wallets.CreditUser(ctx, "user-1", decimal.NewFromInt(userBalance), wallet.Credit{
			TransactionID: "seed", Category: models.CategoryWalletTopUp,
		})
		require.NoError(t, err)
	}
	if adminBalance > 0 {
		admin, err := wallets.AdminWallet(ctx)
		require.NoError(t, err)
		_, err = ledger.Credit(admin, decimal.NewFromInt(adminBalance), models.CategoryWalletTopUp, ledger.Entry{})
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, admin))
	}
	return &fixture{store: store, wallets: wallets, svc: NewService(wallets, nil)}
}

func (f *fixture) balances(t *testing.T) (user, admin decimal.Decimal) {
	t.Helper()
	ctx := context.Background()
	u, err := f.wallets.WalletForUpdate(ctx, "user-1")
	require.NoError(t, err)
	a, err := f.wallets.AdminWallet(ctx)
	require.NoError(t, err)
	return u.Balance, a.Balance
}

func TestRefundApproval(t *testing.T) {
	f := newFixture(t, 50, 100)
	ctx := context.Background()

	r, err := f.svc.RequestRefund(ctx, "user-1", decimal.NewFromInt(20), "damaged item")
	require.NoError(t, err)
	assert.Equal(t, models.RefundStatusPending, r.Status)

	user, _ := f.balances(t)
	assert.True(t, user.Equal(decimal.NewFromInt(50)), "requesting does not move funds")

	out, err := f.svc.ProcessRefund(ctx, r.ID, "user-1", ActionApprove)
	require.NoError(t, err)
	assert.Equal(t, models.RefundStatusApproved, out.Refund.Status)
	assert.NotNil(t, out.Refund.AdminReviewedDate)
	require.NotNil(t, out.AdminBalance)

	user, admin := f.balances(t)
	assert.True(t, user.Equal(decimal.NewFromInt(70)))
	assert.True(t, admin.Equal(decimal.NewFromInt(80)))
	assert.True(t, out.AdminBalance.Equal(admin))

	userWallet, err := f.wallets.WalletForUpdate(ctx, "user-1")
	require.NoError(t, err)
	credit := userWallet.FindTransaction(out.TransactionID)
	require.NotNil(t, credit)
	assert.Equal(t, models.CategoryRefund, credit.TransactionCategory)
	adminWallet, err := f.wallets.AdminWallet(ctx)
	require.NoError(t, err)
	debit := adminWallet.FindTransaction(out.TransactionID)
	require.NotNil(t, debit)
	assert.Equal(t, models.TransactionTypeDebit, debit.Type)

	_, err = f.svc.ProcessRefund(ctx, r.ID, "user-1", ActionApprove)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidState)

	user, admin = f.balances(t)
	assert.True(t, user.Equal(decimal.NewFromInt(70)), "second approval moves nothing")
	assert.True(t, admin.Equal(decimal.NewFromInt(80)))
}

func TestRefundRejectionIsTerminal(t *testing.T) {
	f := newFixture(t, 0, 100)
	ctx := context.Background()

	r, err := f.svc.RequestRefund(ctx, "user-1", decimal.NewFromInt(20), "late delivery")
	require.NoError(t, err)

	out, err := f.svc.ProcessRefund(ctx, r.ID, "user-1", ActionReject)
	require.NoError(t, err)
	assert.Equal(t, models.RefundStatusRejected, out.Refund.Status)
	assert.Empty(t, out.TransactionID)

	_, err = f.svc.ProcessRefund(ctx, r.ID, "user-1", ActionApprove)
	assert.ErrorIs(t, err, domainerrors.ErrRefundProcessed)

	user, admin := f.balances(t)
	assert.True(t, user.IsZero())
	assert.True(t, admin.Equal(decimal.NewFromInt(100)))
}

func TestRefundApprovalNeedsAdminFunds(t *testing.T) {
	f := newFixture(t, 0, 0)
	ctx := context.Background()

	r, err := f.svc.RequestRefund(ctx, "user-1", decimal.NewFromInt(20), "damaged item")
	require.NoError(t, err)

	// The admin wallet does not exist yet; approval provisions it empty.
	_, err = f.svc.ProcessRefund(ctx, r.ID, "user-1", ActionApprove)
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientFunds)

	n, err := f.store.CountAdmins(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := f.svc.GetRefund(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RefundStatusPending, got.Refund.Status)
	assert.Equal(t, "user-1", got.UserID)
}

func TestProcessRefundErrors(t *testing.T) {
	f := newFixture(t, 0, 10)
	ctx := context.Background()

	_, err := f.svc.ProcessRefund(ctx, "missing", "user-1", ActionApprove)
	assert.ErrorIs(t, err, domainerrors.ErrRefundNotFound)

	_, err = f.svc.ProcessRefund(ctx, "missing", "ghost", ActionApprove)
	assert.ErrorIs(t, err, domainerrors.ErrWalletNotFound)

	_, err = f.svc.ProcessRefund(ctx, "missing", "user-1", "escalate")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = f.svc.RequestRefund(ctx, "user-1", decimal.Zero, "x")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidAmount)

	_, err = f.svc.RequestRefund(ctx, "user-1", decimal.NewFromInt(1), " ")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = f.svc.GetRefund(ctx, "missing")
	assert.ErrorIs(t, err, domainerrors.ErrRefundNotFound)
}

func TestListByStatus(t *testing.T) {
	f := newFixture(t, 0, 100)
	ctx := context.Background()

	first, err := f.svc.RequestRefund(ctx, "user-1", decimal.NewFromInt(5), "a")
	require.NoError(t, err)
	_, err = f.svc.RequestRefund(ctx, "user-1", decimal.NewFromInt(6), "b")
	require.NoError(t, err)
	_, err = f.svc.ProcessRefund(ctx, first.ID, "user-1", ActionApprove)
	require.NoError(t, err)

	pending, err := f.svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "b", pending[0].Refund.Reason)
	assert.Equal(t, "user-1", pending[0].UserID)

	approved, err := f.svc.ListByStatus(ctx, models.RefundStatusApproved)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, first.ID, approved[0].Refund.ID)

	_, err = f.svc.ListByStatus(ctx, "unknown")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestRequestRefund_RejectsSubCentAmount(t *testing.T) {
	f := newFixture(t, 10, 0)

	_, err := f.svc.RequestRefund(context.Background(), "user-1", decimal.RequireFromString("0.005"), "rounding")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidAmount)
}

func TestRequestRefund_NormalizesLegacyLines(t *testing.T) {
	f := newFixture(t, 10, 0)
	ctx := context.Background()

	w, err := f.wallets.WalletForUpdate(ctx, "user-1")
	require.NoError(t, err)
	w.Transactions[0].TransactionCategory = ""
	require.NoError(t, f.store.Save(ctx, w))

	_, err = f.svc.RequestRefund(ctx, "user-1", decimal.NewFromInt(2), "late cleaner")
	require.NoError(t, err)

	w, err = f.wallets.WalletForUpdate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryLegacy, w.Transactions[0].TransactionCategory)
	assert.True(t, w.Balance.Equal(decimal.NewFromInt(10)))
}
