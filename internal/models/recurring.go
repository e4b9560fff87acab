package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Frequency string

const (
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiWeekly Frequency = "bi-weekly"
	FrequencyMonthly  Frequency = "monthly"
)

type RecurringStatus string

const (
	RecurringStatusActive    RecurringStatus = "active"
	RecurringStatusCancelled RecurringStatus = "cancelled"
)

// RecurringPayment is a transfer template stored on the sender's wallet.
type RecurringPayment struct {
	ID              string          `json:"id"`
	SenderUserID    string          `json:"senderUserId"`
	RecipientUserID string          `json:"recipientUserId"`
	Amount          decimal.Decimal `json:"amount"`
	Note            string          `json:"note"`
	Frequency       Frequency       `json:"frequency"`
	StartDate       time.Time       `json:"startDate"`
	NextRun         time.Time       `json:"nextRun"`
	Status          RecurringStatus `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
}
