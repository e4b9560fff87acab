package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"orus-wallet/internal/logger"
	"orus-wallet/internal/models"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageWriter is the part of *kafka.Writer the notifier uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaNotifier publishes notices for the delivery service to pick up.
// Messages are keyed by user id so one user's notices stay ordered.
type KafkaNotifier struct {
	writer MessageWriter
	logger *zap.Logger
}

func NewKafkaNotifier(writer MessageWriter, log *zap.Logger) *KafkaNotifier {
	return &KafkaNotifier{writer: writer, logger: logger.OrNop(log)}
}

// NewKafkaWriter builds a synchronous writer so a failed publish is seen by
// the caller.
func NewKafkaWriter(brokers []string, topic string, log *zap.Logger) *kafka.Writer {
	log = logger.OrNop(log)
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Logger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			log.Debug(fmt.Sprintf(msg, args...))
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			log.Warn(fmt.Sprintf(msg, args...))
		}),
	}
}

type transferMessage struct {
	UserID   string         `json:"userId"`
	Email    string         `json:"email"`
	FullName string         `json:"fullName,omitempty"`
	Notice   TransferNotice `json:"notice"`
}

func (n *KafkaNotifier) SendTransferNotification(ctx context.Context, user *models.User, notice TransferNotice) error {
	data, err := json.Marshal(transferMessage{
		UserID:   user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Notice:   notice,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal transfer notice: %w", err)
	}

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(user.ID),
		Value: data,
		Time:  notice.Timestamp,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte("wallet.transfer." + string(notice.Direction))},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish transfer notice %s: %w", notice.TransactionID, err)
	}
	n.logger.Debug("transfer notice published",
		zap.String("user_id", user.ID),
		zap.String("transaction_id", notice.TransactionID))
	return nil
}
