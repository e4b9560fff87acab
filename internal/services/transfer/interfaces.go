package transfer

import (
	"context"

	"orus-wallet/internal/models"
	"orus-wallet/internal/services/notification"
	"orus-wallet/internal/services/receipt"
)

// UserDirectory is how the engine resolves sender and recipient.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// ReceiptGenerator renders the receipt returned with a transfer.
type ReceiptGenerator = receipt.Generator

// NotificationService is used to notify users about transfers.
type NotificationService = notification.Notifier
