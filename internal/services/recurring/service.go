package recurring

import (
	"context"
	"strings"
	"time"

	domainerrors "orus-wallet/internal/errors"
	"orus-wallet/internal/logger"
	"orus-wallet/internal/models"
	"orus-wallet/internal/services/ledger"
	"orus-wallet/internal/services/wallet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ScheduleRequest struct {
	SenderUserID    string
	RecipientUserID string
	Amount          decimal.Decimal
	Note            string
	Frequency       models.Frequency
	StartDate       time.Time
}

type Service struct {
	wallets *wallet.Service
	users   wallet.UserDirectory
	logger  *zap.Logger
}

func NewService(wallets *wallet.Service, users wallet.UserDirectory, log *zap.Logger) *Service {
	return &Service{wallets: wallets, users: users, logger: logger.OrNop(log)}
}

// Schedule stores an active schedule on the sender's wallet. No money moves.
func (s *Service) Schedule(ctx context.Context, req ScheduleRequest) (*models.RecurringPayment, error) {
	if err := s.validate(ctx, req); err != nil {
		s.wallets.RecordFailure(wallet.OpRecurringSetup, err)
		return nil, err
	}
	note := strings.TrimSpace(req.Note)
	if note == "" {
		note = DefaultNote
	}

	p, err := ledger.Retry(ctx, s.wallets.MaxAttempts(), func(ctx context.Context, attempt int) (models.RecurringPayment, error) {
		w, err := s.wallets.WalletForUpdate(ctx, req.SenderUserID)
		if err != nil {
			return models.RecurringPayment{}, err
		}
		p := models.RecurringPayment{
			ID:              uuid.NewString(),
			SenderUserID:    req.SenderUserID,
			RecipientUserID: req.RecipientUserID,
			Amount:          req.Amount,
			Note:            note,
			Frequency:       req.Frequency,
			StartDate:       req.StartDate,
			NextRun:         req.StartDate,
			Status:          models.RecurringStatusActive,
			CreatedAt:       s.wallets.Now(),
		}
		w.RecurringPayments = append(w.RecurringPayments, p)
		if err := s.wallets.Save(ctx, w); err != nil {
			s.wallets.NoteRetry(wallet.OpRecurringSetup, attempt, err)
			return models.RecurringPayment{}, err
		}
		s.wallets.Invalidate(ctx, w)
		return p, nil
	})
	if err != nil {
		s.wallets.RecordFailure(wallet.OpRecurringSetup, err)
		return nil, err
	}

	s.wallets.Metrics().RecordOperationResult(wallet.OpRecurringSetup, wallet.ResultSuccess)
	s.logger.Info("recurring payment scheduled",
		zap.String("recurring_id", p.ID),
		zap.String("user_id", p.SenderUserID),
		zap.String("recipient_id", p.RecipientUserID),
		zap.String("frequency", string(p.Frequency)),
		zap.Time("next_run", p.NextRun))
	return &p, nil
}

func (s *Service) validate(ctx context.Context, req ScheduleRequest) error {
	if req.SenderUserID == "" || req.RecipientUserID == "" {
		return domainerrors.Validation("MISSING_PARTIES", "sender and recipient are required")
	}
	if req.SenderUserID == req.RecipientUserID {
		return domainerrors.ErrSelfTransfer
	}
	if err := ledger.ValidateAmount(req.Amount); err != nil {
		return err
	}
	if _, err := NextRun(req.StartDate, req.Frequency); err != nil {
		return err
	}
	if req.StartDate.IsZero() || !req.StartDate.After(s.wallets.Now()) {
		return domainerrors.Validation("START_DATE_NOT_FUTURE", "startDate must be in the future")
	}
	if _, err := s.users.GetByID(ctx, req.RecipientUserID); err != nil {
		return ledger.StoreError(err)
	}
	return nil
}

// Cancel marks a schedule cancelled. History is kept.
func (s *Service) Cancel(ctx context.Context, senderUserID, recurringID string) (*models.RecurringPayment, error) {
	p, err := ledger.Retry(ctx, s.wallets.MaxAttempts(), func(ctx context.Context, attempt int) (models.RecurringPayment, error) {
		w, err := s.wallets.WalletForUpdate(ctx, senderUserID)
		if err != nil {
			return models.RecurringPayment{}, err
		}
		p := w.FindRecurring(recurringID)
		if p == nil {
			return models.RecurringPayment{}, domainerrors.ErrRecurringNotFound
		}
		if p.Status == models.RecurringStatusCancelled {
			return models.RecurringPayment{}, domainerrors.ErrRecurringCancelled
		}
		p.Status = models.RecurringStatusCancelled
		out := *p
		if err := s.wallets.Save(ctx, w); err != nil {
			s.wallets.NoteRetry(wallet.OpRecurringStop, attempt, err)
			return models.RecurringPayment{}, err
		}
		s.wallets.Invalidate(ctx, w)
		return out, nil
	})
	if err != nil {
		s.wallets.RecordFailure(wallet.OpRecurringStop, err)
		return nil, err
	}

	s.wallets.Metrics().RecordOperationResult(wallet.OpRecurringStop, wallet.ResultSuccess)
	s.logger.Info("recurring payment cancelled",
		zap.String("recurring_id", p.ID),
		zap.String("user_id", senderUserID))
	return &p, nil
}

func (s *Service) List(ctx context.Context, senderUserID string) ([]models.RecurringPayment, error) {
	w, err := s.wallets.GetWalletByOwner(ctx, senderUserID)
	if err != nil {
		return nil, err
	}
	out := make([]models.RecurringPayment, len(w.RecurringPayments))
	copy(out, w.RecurringPayments)
	return out, nil
}
