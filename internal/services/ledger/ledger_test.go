package ledger

import (
	"testing"
	"time"

	domainerrors "orus-wallet/internal/errors"
	"orus-wallet/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWallet(balance string) *models.Wallet {
	owner := "user-1"
	w := models.NewWallet(&owner, models.WalletTypeUser, time.Now())
	if balance != "" {
		_, err := Credit(w, decimal.RequireFromString(balance), models.CategoryWalletTopUp, Entry{From: models.PartySystem})
		if err != nil {
			panic(err)
		}
	}
	return w
}

func TestCredit(t *testing.T) {
	w := newWallet("")

	tx, err := Credit(w, decimal.NewFromInt(25), models.CategoryWalletTransfer, Entry{TransactionID: "tx-1", From: "a", To: "b"})
	require.NoError(t, err)

	assert.True(t, w.Balance.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, "tx-1", tx.TransactionID)
	assert.Equal(t, models.TransactionTypeCredit, tx.Type)
	assert.Equal(t, models.TransactionStatusSuccess, tx.Status)
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(25)))
	assert.False(t, tx.Timestamp.IsZero())
	assert.Len(t, w.Transactions, 1)
}

func TestDebit(t *testing.T) {
	w := newWallet("100")

	tx, err := Debit(w, decimal.NewFromInt(40), models.CategoryWalletTransfer, Entry{})
	require.NoError(t, err)

	assert.True(t, w.Balance.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, models.TransactionTypeDebit, tx.Type)
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(-40)))
	assert.NotEmpty(t, tx.TransactionID)
	assert.NoError(t, Verify(w))
}

func TestDebitInsufficientBalance(t *testing.T) {
	w := newWallet("10")

	_, err := Debit(w, decimal.NewFromInt(11), models.CategoryWalletTransfer, Entry{})
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientFunds)
	assert.True(t, w.Balance.Equal(decimal.NewFromInt(10)))
	assert.Len(t, w.Transactions, 1)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		category string
		want     error
	}{
		{"zero amount", decimal.Zero, models.CategoryRefund, domainerrors.ErrInvalidAmount},
		{"negative amount", decimal.NewFromInt(-5), models.CategoryRefund, domainerrors.ErrInvalidAmount},
		{"sub-cent amount", decimal.RequireFromString("0.005"), models.CategoryRefund, domainerrors.ErrInvalidAmount},
		{"empty category", decimal.NewFromInt(5), "", domainerrors.ErrMissingCategory},
		{"blank category", decimal.NewFromInt(5), "  ", domainerrors.ErrMissingCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWallet("50")
			_, err := Credit(w, tt.amount, tt.category, Entry{})
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)

			_, err = Debit(w, tt.amount, tt.category, Entry{})
			assert.ErrorIs(t, err, tt.want)

			assert.True(t, w.Balance.Equal(decimal.NewFromInt(50)))
			assert.Len(t, w.Transactions, 1)
		})
	}
}

func TestValidateAmount(t *testing.T) {
	for _, ok := range []string{"0.01", "1.5", "1.500", "100"} {
		assert.NoError(t, ValidateAmount(decimal.RequireFromString(ok)), ok)
	}
	for _, bad := range []string{"0", "-1", "0.005", "10.001"} {
		assert.ErrorIs(t, ValidateAmount(decimal.RequireFromString(bad)), domainerrors.ErrInvalidAmount, bad)
	}
}

func TestSubCentTransfersCannotCreateMoney(t *testing.T) {
	sender, recipient := newWallet("100"), newWallet("")

	_, err := Debit(sender, decimal.RequireFromString("0.005"), models.CategoryWalletTransfer, Entry{})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidAmount)
	_, err = Credit(recipient, decimal.RequireFromString("0.005"), models.CategoryWalletTransfer, Entry{})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidAmount)

	assert.True(t, sender.Balance.Equal(decimal.NewFromInt(100)))
	assert.True(t, recipient.Balance.IsZero())
	assert.NoError(t, Verify(sender))
	assert.NoError(t, Verify(recipient))
}

func TestEveryAppendedLineIsCategorized(t *testing.T) {
	w := newWallet("100")
	_, err := Debit(w, decimal.NewFromInt(30), models.CategoryWithdrawal, Entry{})
	require.NoError(t, err)
	_, err = Credit(w, decimal.NewFromInt(5), models.CategoryRefund, Entry{})
	require.NoError(t, err)

	for _, tx := range w.Transactions {
		assert.NotEmpty(t, tx.TransactionCategory)
	}
	assert.NoError(t, Verify(w))
}

func TestNormalizeLegacyLines(t *testing.T) {
	w := newWallet("")
	w.Transactions = models.Transactions{
		{TransactionID: "old-1", Amount: decimal.NewFromInt(10), Type: models.TransactionTypeCredit},
		{TransactionID: "old-2", Amount: decimal.NewFromInt(-3), Type: models.TransactionTypeDebit},
	}
	w.Balance = decimal.NewFromInt(7)

	assert.Equal(t, models.CategoryLegacy, CategoryOf(w.Transactions[0]))
	assert.Equal(t, 2, CountUncategorized(w))

	_, err := Credit(w, decimal.NewFromInt(1), models.CategoryWalletTopUp, Entry{})
	require.NoError(t, err)

	assert.Equal(t, 0, CountUncategorized(w))
	assert.Equal(t, models.CategoryLegacy, w.Transactions[0].TransactionCategory)
	assert.Equal(t, models.CategoryLegacy, w.Transactions[1].TransactionCategory)
	assert.Equal(t, 0, Normalize(w))
}

func TestVerifyDetectsDrift(t *testing.T) {
	w := newWallet("20")
	w.Balance = decimal.NewFromInt(21)

	assert.ErrorIs(t, Verify(w), ErrBalanceDrift)
}

func TestCategorize(t *testing.T) {
	txs := []models.Transaction{
		{TransactionID: "1", Type: models.TransactionTypeDebit, TransactionCategory: models.CategoryWalletPayment},
		{TransactionID: "2", Type: models.TransactionTypeCredit, TransactionCategory: models.CategoryRefund},
		{TransactionID: "3", Type: models.TransactionTypeDebit, TransactionCategory: models.CategoryWalletTransfer},
		{TransactionID: "4", Type: models.TransactionTypeDebit, TransactionCategory: models.CategoryWithdrawal},
		{TransactionID: "5", Type: models.TransactionTypeCredit},
	}

	view := Categorize(txs)
	assert.Len(t, view.WalletPayments, 1)
	assert.Len(t, view.Refunds, 1)
	assert.Len(t, view.Transfers, 1)
	assert.Len(t, view.Debits, 1)
	require.Len(t, view.Credits, 1)
	assert.Equal(t, models.CategoryLegacy, view.Credits[0].TransactionCategory)
	assert.Empty(t, txs[4].TransactionCategory)

	groups := GroupByCategory(txs)
	assert.Len(t, groups[models.CategoryLegacy], 1)
	assert.Len(t, groups[models.CategoryWalletTransfer], 1)
}
