package wallet

import (
	"context"
	"strings"
	"time"

	domainerrors "orus-wallet/internal/errors"
	"orus-wallet/internal/models"
	"orus-wallet/internal/services/ledger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Pay debits a user's wallet for a booking.
func (s *Service) Pay(ctx context.Context, userID string, amount decimal.Decimal, bookingID string) (*models.Transaction, error) {
	start := time.Now()
	tx, err := ledger.Retry(ctx, s.config.MaxAttempts, func(ctx context.Context, attempt int) (*models.Transaction, error) {
		w, err := s.WalletForUpdate(ctx, userID)
		if err != nil {
			return nil, err
		}
		tx, err := ledger.Debit(w, amount, models.CategoryWalletPayment, ledger.Entry{
			From:        userID,
			To:          models.PartyInternalWallet,
			BookingID:   bookingID,
			Description: "Wallet payment",
			Timestamp:   s.config.Now(),
		})
		if err != nil {
			return nil, err
		}
		line := *tx
		if err := s.Save(ctx, w); err != nil {
			s.noteRetry(OpPay, attempt, err)
			return nil, err
		}
		s.Invalidate(ctx, w)
		return &line, nil
	})
	if err != nil {
		s.RecordFailure(OpPay, err)
		return nil, err
	}

	s.metrics.RecordOperationDuration(OpPay, time.Since(start))
	s.metrics.RecordOperationResult(OpPay, ResultSuccess)
	s.metrics.RecordTransaction(models.CategoryWalletPayment, amount)
	s.logger.Info("wallet payment",
		zap.String("transaction_id", tx.TransactionID),
		zap.String("user_id", userID),
		zap.String("booking_id", bookingID),
		zap.String("amount", amount.StringFixed(2)))
	return tx, nil
}

// CreditUser credits a user's wallet from an external source. A transaction
// id already present on the wallet makes the call a no-op that returns the
// existing line.
func (s *Service) CreditUser(ctx context.Context, userID string, amount decimal.Decimal, c Credit) (*models.Transaction, bool, error) {
	if strings.TrimSpace(c.TransactionID) == "" {
		return nil, false, domainerrors.Validation("TRANSACTION_ID_REQUIRED", "transaction id is required")
	}
	if c.From == "" {
		c.From = models.PartySystem
	}

	type outcome struct {
		line    models.Transaction
		applied bool
	}
	res, err := ledger.Retry(ctx, s.config.MaxAttempts, func(ctx context.Context, attempt int) (outcome, error) {
		w, err := s.WalletForUpdate(ctx, userID)
		if err != nil {
			return outcome{}, err
		}
		if existing := w.FindTransaction(c.TransactionID); existing != nil {
			return outcome{line: *existing}, nil
		}
		tx, err := ledger.Credit(w, amount, c.Category, ledger.Entry{
			TransactionID: c.TransactionID,
			From:          c.From,
			To:            userID,
			Description:   c.Description,
			Timestamp:     s.config.Now(),
		})
		if err != nil {
			return outcome{}, err
		}
		line := *tx
		if err := s.Save(ctx, w); err != nil {
			s.noteRetry(OpCredit, attempt, err)
			return outcome{}, err
		}
		s.Invalidate(ctx, w)
		return outcome{line: line, applied: true}, nil
	})
	if err != nil {
		s.RecordFailure(OpCredit, err)
		return nil, false, err
	}

	if res.applied {
		s.metrics.RecordOperationResult(OpCredit, ResultSuccess)
		s.metrics.RecordTransaction(c.Category, amount)
		s.logger.Info("wallet credited",
			zap.String("transaction_id", c.TransactionID),
			zap.String("user_id", userID),
			zap.String("category", c.Category),
			zap.String("amount", amount.StringFixed(2)))
	}
	return &res.line, res.applied, nil
}

// NoteRetry is called by workflows when a save attempt failed.
func (s *Service) NoteRetry(operation string, attempt int, err error) {
	s.noteRetry(operation, attempt, err)
}

func (s *Service) noteRetry(operation string, attempt int, err error) {
	if !ledger.Retryable(err) {
		return
	}
	s.metrics.RecordConflictRetry(operation)
	s.logger.Debug("wallet save conflicted",
		zap.String("operation", operation),
		zap.Int("attempt", attempt),
		zap.Error(err))
}
