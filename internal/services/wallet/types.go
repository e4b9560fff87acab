package wallet

import (
	"time"

	"orus-wallet/internal/models"

	"github.com/shopspring/decimal"
)

// Config tunes the service. Zero values pick defaults.
type Config struct {
	MaxAttempts int
	Now         func() time.Time
}

// BootstrapReport describes what EnsureAdminWallet found or changed.
type BootstrapReport struct {
	WalletID           string `json:"walletId"`
	Created            bool   `json:"created"`
	TypeBackfilled     bool   `json:"typeBackfilled"`
	LegacyTransactions int    `json:"legacyTransactions"`
	AdminWallets       int64  `json:"adminWallets"`
}

// Credit describes an externally sourced credit such as a card top-up.
type Credit struct {
	// TransactionID doubles as the idempotency key. Required.
	TransactionID string
	Category      string
	From          string
	Description   string
}

// TransactionLegs are the wallet lines sharing one transaction id.
type TransactionLegs struct {
	TransactionID string          `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
	Debit         *Leg            `json:"debit,omitempty"`
	Credit        *Leg            `json:"credit,omitempty"`
}

type Leg struct {
	WalletID string             `json:"walletId"`
	OwnerID  *string            `json:"ownerId,omitempty"`
	Line     models.Transaction `json:"line"`
}
