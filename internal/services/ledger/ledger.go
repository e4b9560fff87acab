// Package ledger holds the only code that appends to a wallet's transaction
// log or changes its balance. Functions here mutate the in-memory aggregate;
// persisting it is the caller's job.
package ledger

import (
	"fmt"
	"strings"
	"time"

	domainerrors "orus-wallet/internal/errors"
	"orus-wallet/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry carries the descriptive fields of a ledger line.
type Entry struct {
	// TransactionID is shared by both legs of a transfer. A new id is
	// generated when empty.
	TransactionID string
	From          string
	To            string
	Description   string
	BookingID     string
	Status        models.TransactionStatus
	Timestamp     time.Time
	Receipt       *models.ReceiptMeta
}

// Credit adds amount to the wallet and appends a credit line.
func Credit(w *models.Wallet, amount decimal.Decimal, category string, e Entry) (*models.Transaction, error) {
	if err := validate(amount, category); err != nil {
		return nil, err
	}
	Normalize(w)

	tx := newTransaction(amount, models.TransactionTypeCredit, category, e)
	w.Balance = w.Balance.Add(amount)
	w.Transactions = append(w.Transactions, tx)
	return &w.Transactions[len(w.Transactions)-1], nil
}

// Debit removes amount from the wallet and appends a debit line carrying the
// negated amount. The wallet balance must cover the amount.
func Debit(w *models.Wallet, amount decimal.Decimal, category string, e Entry) (*models.Transaction, error) {
	if err := validate(amount, category); err != nil {
		return nil, err
	}
	if w.Balance.LessThan(amount) {
		return nil, domainerrors.ErrInsufficientBalance
	}
	Normalize(w)

	tx := newTransaction(amount.Neg(), models.TransactionTypeDebit, category, e)
	w.Balance = w.Balance.Sub(amount)
	w.Transactions = append(w.Transactions, tx)
	return &w.Transactions[len(w.Transactions)-1], nil
}

// Normalize tags uncategorized lines as legacy and returns how many it
// rewrote. The rewrite is persisted by the next save of w.
func Normalize(w *models.Wallet) int {
	n := 0
	for i := range w.Transactions {
		if strings.TrimSpace(w.Transactions[i].TransactionCategory) == "" {
			w.Transactions[i].TransactionCategory = models.CategoryLegacy
			n++
		}
	}
	return n
}

// CountUncategorized reports lines that Normalize would rewrite.
func CountUncategorized(w *models.Wallet) int {
	n := 0
	for _, tx := range w.Transactions {
		if strings.TrimSpace(tx.TransactionCategory) == "" {
			n++
		}
	}
	return n
}

// CategoryOf returns the category of tx, "legacy" for records that predate
// categories. It never mutates.
func CategoryOf(tx models.Transaction) string {
	if strings.TrimSpace(tx.TransactionCategory) == "" {
		return models.CategoryLegacy
	}
	return tx.TransactionCategory
}

// Sum is the signed total of the log.
func Sum(txs []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.Amount)
	}
	return total
}

// Verify checks that the balance equals the signed sum of the log.
func Verify(w *models.Wallet) error {
	sum := Sum(w.Transactions)
	if !sum.Equal(w.Balance) {
		return fmt.Errorf("wallet %s: balance %s does not match ledger sum %s: %w",
			w.ID, w.Balance.StringFixed(2), sum.StringFixed(2), ErrBalanceDrift)
	}
	for _, tx := range w.Transactions {
		if (tx.Type == models.TransactionTypeDebit && tx.Amount.IsPositive()) ||
			(tx.Type == models.TransactionTypeCredit && tx.Amount.IsNegative()) {
			return fmt.Errorf("wallet %s: transaction %s sign disagrees with type %s: %w",
				w.ID, tx.TransactionID, tx.Type, ErrBalanceDrift)
		}
	}
	return nil
}

var ErrBalanceDrift = domainerrors.New("ledger drift")

// ValidateAmount accepts positive amounts with at most cent precision. The
// balance column stores two decimal places, so finer amounts would drift.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		return domainerrors.ErrInvalidAmount
	}
	return nil
}

func validate(amount decimal.Decimal, category string) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if strings.TrimSpace(category) == "" {
		return domainerrors.ErrMissingCategory
	}
	return nil
}

func newTransaction(amount decimal.Decimal, typ models.TransactionType, category string, e Entry) models.Transaction {
	id := e.TransactionID
	if id == "" {
		id = uuid.NewString()
	}
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	status := e.Status
	if status == "" {
		status = models.TransactionStatusSuccess
	}
	return models.Transaction{
		TransactionID:       id,
		Amount:              amount,
		From:                e.From,
		To:                  e.To,
		BookingID:           e.BookingID,
		Status:              status,
		Type:                typ,
		TransactionCategory: category,
		Description:         e.Description,
		Timestamp:           ts,
		Receipt:             e.Receipt,
	}
}
