package transfer

import (
	"time"

	"orus-wallet/internal/models"

	"github.com/shopspring/decimal"
)

type Request struct {
	SenderUserID    string
	RecipientUserID string
	Amount          decimal.Decimal
	Note            string
}

// Result is returned once both wallets are committed. Receipt is nil and
// NotificationSent false when the matching side effect failed.
type Result struct {
	TransactionID     string                   `json:"transactionId"`
	SenderBalance     decimal.Decimal          `json:"senderWalletBalance"`
	RecipientBalance  decimal.Decimal          `json:"recipientWalletBalance"`
	Receipt           []byte                   `json:"receipt,omitempty"`
	NotificationSent  bool                     `json:"notificationSent"`
	AdvancedRecurring *models.RecurringPayment `json:"advancedRecurring,omitempty"`
	Timestamp         time.Time                `json:"timestamp"`
}

type Config struct {
	// SideEffectTimeout bounds receipt and notification work after commit.
	SideEffectTimeout time.Duration
}

const DefaultSideEffectTimeout = 10 * time.Second

// committed is what one successful attempt hands to the side effects.
type committed struct {
	transactionID   string
	timestamp       time.Time
	sender          *models.User
	recipient       *models.User
	senderWallet    *models.Wallet
	recipientWallet *models.Wallet
	advanced        *models.RecurringPayment
}
