package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RefundStatus string

const (
	RefundStatusPending  RefundStatus = "pending"
	RefundStatusApproved RefundStatus = "approved"
	RefundStatusRejected RefundStatus = "rejected"
)

func (s RefundStatus) Valid() bool {
	switch s {
	case RefundStatusPending, RefundStatusApproved, RefundStatusRejected:
		return true
	}
	return false
}

// RefundRequest is terminal once approved or rejected.
type RefundRequest struct {
	ID                string          `json:"id"`
	Amount            decimal.Decimal `json:"amount"`
	Reason            string          `json:"reason"`
	Status            RefundStatus    `json:"status"`
	RequestDate       time.Time       `json:"requestDate"`
	AdminReviewedDate *time.Time      `json:"adminReviewedDate,omitempty"`
}

// PendingRefund pairs a refund request with the wallet that holds it.
type PendingRefund struct {
	WalletID string        `json:"walletId"`
	UserID   string        `json:"userId"`
	Refund   RefundRequest `json:"refund"`
}
