// Package notification tells users about completed transfers.
package notification

import (
	"context"
	"time"

	"orus-wallet/internal/logger"
	"orus-wallet/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

// TransferNotice is what a user is told about a transfer.
type TransferNotice struct {
	TransactionID string          `json:"transactionId"`
	Direction     Direction       `json:"direction"`
	Amount        decimal.Decimal `json:"amount"`
	FromUserID    string          `json:"fromUserId"`
	ToUserID      string          `json:"toUserId"`
	Note          string          `json:"note,omitempty"`
	Balance       decimal.Decimal `json:"balance"`
	Timestamp     time.Time       `json:"timestamp"`
}

// Notifier delivers transfer notices. Errors are reported to the caller,
// which logs them; they never undo the transfer.
type Notifier interface {
	SendTransferNotification(ctx context.Context, user *models.User, notice TransferNotice) error
}

// LogNotifier writes notices to the log only.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.OrNop(log)}
}

func (n *LogNotifier) SendTransferNotification(ctx context.Context, user *models.User, notice TransferNotice) error {
	n.logger.Info("transfer notification",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email),
		zap.String("transaction_id", notice.TransactionID),
		zap.String("direction", string(notice.Direction)),
		zap.String("amount", notice.Amount.StringFixed(2)))
	return nil
}
