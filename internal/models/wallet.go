package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type WalletType string

const (
	WalletTypeUser            WalletType = "user"
	WalletTypeAdmin           WalletType = "admin"
	WalletTypePropertyManager WalletType = "property_manager"
)

func (t WalletType) Valid() bool {
	switch t {
	case WalletTypeUser, WalletTypeAdmin, WalletTypePropertyManager:
		return true
	}
	return false
}

// Wallet is the balance-holding aggregate. The transaction, refund and
// recurring logs are embedded and saved together with the balance.
type Wallet struct {
	ID                string            `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID           *string           `gorm:"type:uuid;uniqueIndex" json:"ownerId,omitempty"`
	Type              WalletType        `gorm:"type:varchar(32);index" json:"type"`
	Balance           decimal.Decimal   `gorm:"type:numeric(20,2);not null;default:0" json:"balance"`
	Transactions      Transactions      `gorm:"type:jsonb;not null;default:'[]'" json:"transactions"`
	RefundRequests    RefundRequests    `gorm:"type:jsonb;not null;default:'[]'" json:"refundRequests"`
	RecurringPayments RecurringPayments `gorm:"type:jsonb;not null;default:'[]'" json:"recurringPayments"`
	Version           int64             `gorm:"not null;default:0" json:"version"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// NewWallet returns an empty wallet. ownerID is nil for the admin wallet.
func NewWallet(ownerID *string, walletType WalletType, now time.Time) *Wallet {
	return &Wallet{
		ID:                uuid.NewString(),
		OwnerID:           ownerID,
		Type:              walletType,
		Balance:           decimal.Zero,
		Transactions:      Transactions{},
		RefundRequests:    RefundRequests{},
		RecurringPayments: RecurringPayments{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

// IsAdminPool reports whether w is the process-wide admin wallet.
func (w *Wallet) IsAdminPool() bool {
	return w.Type == WalletTypeAdmin && w.OwnerID == nil
}

// Owner returns the owner id or "" for the admin wallet.
func (w *Wallet) Owner() string {
	if w.OwnerID == nil {
		return ""
	}
	return *w.OwnerID
}

func (w *Wallet) FindRefund(id string) *RefundRequest {
	for i := range w.RefundRequests {
		if w.RefundRequests[i].ID == id {
			return &w.RefundRequests[i]
		}
	}
	return nil
}

func (w *Wallet) FindRecurring(id string) *RecurringPayment {
	for i := range w.RecurringPayments {
		if w.RecurringPayments[i].ID == id {
			return &w.RecurringPayments[i]
		}
	}
	return nil
}

func (w *Wallet) FindTransaction(transactionID string) *Transaction {
	for i := range w.Transactions {
		if w.Transactions[i].TransactionID == transactionID {
			return &w.Transactions[i]
		}
	}
	return nil
}

// Clone returns a copy that shares no slices with w.
func (w *Wallet) Clone() *Wallet {
	if w == nil {
		return nil
	}
	c := *w
	if w.OwnerID != nil {
		owner := *w.OwnerID
		c.OwnerID = &owner
	}
	c.Transactions = append(Transactions(nil), w.Transactions...)
	c.RefundRequests = append(RefundRequests(nil), w.RefundRequests...)
	c.RecurringPayments = append(RecurringPayments(nil), w.RecurringPayments...)
	for i := range c.RefundRequests {
		if t := c.RefundRequests[i].AdminReviewedDate; t != nil {
			reviewed := *t
			c.RefundRequests[i].AdminReviewedDate = &reviewed
		}
	}
	return &c
}

// WalletBalance is the admin listing row.
type WalletBalance struct {
	WalletID string          `json:"walletId"`
	OwnerID  *string         `json:"ownerId,omitempty"`
	Type     WalletType      `json:"type"`
	Balance  decimal.Decimal `json:"balance"`
}
