package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDebit  TransactionType = "debit"
	TransactionTypeCredit TransactionType = "credit"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusSuccess   TransactionStatus = "success"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCompleted TransactionStatus = "completed"
)

// Transaction categories
const (
	CategoryWalletTransfer = "wallet_transfer"
	CategoryRefund         = "refund"
	CategoryWithdrawal     = "withdrawal"
	CategoryWalletPayment  = "wallet_payment"
	CategoryWalletTopUp    = "wallet_topup"
	CategoryLegacy         = "legacy"
)

// Well-known counterparties that are not user ids.
const (
	PartySystem         = "SYSTEM"
	PartyAdmin          = "admin"
	PartyInternalWallet = "internal-wallet"
)

// Transaction is one immutable entry of a wallet's ledger. Amount is signed
// from the wallet's point of view.
type Transaction struct {
	TransactionID       string            `json:"transactionId"`
	Amount              decimal.Decimal   `json:"amount"`
	From                string            `json:"from"`
	To                  string            `json:"to"`
	BookingID           string            `json:"bookingId,omitempty"`
	Status              TransactionStatus `json:"status"`
	Type                TransactionType   `json:"type"`
	TransactionCategory string            `json:"transactionCategory"`
	Description         string            `json:"description"`
	Timestamp           time.Time         `json:"timestamp"`
	Receipt             *ReceiptMeta      `json:"receipt,omitempty"`
}

type ReceiptMeta struct {
	FileURL    string    `json:"fileUrl,omitempty"`
	UploadedAt time.Time `json:"uploadedAt,omitempty"`
	UploadedBy string    `json:"uploadedBy,omitempty"`
}
