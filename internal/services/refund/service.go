// Package refund runs the refund request workflow. A request is pending
// until an admin approves or rejects it; both outcomes are final.
package refund

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainerrors "orus-wallet/internal/errors"
	"orus-wallet/internal/logger"
	"orus-wallet/internal/models"
	"orus-wallet/internal/repositories"
	"orus-wallet/internal/services/ledger"
	"orus-wallet/internal/services/wallet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Outcome is the result of ProcessRefund. TransactionID and AdminBalance
// are only set for approvals.
type Outcome struct {
	Refund        models.RefundRequest `json:"refundRequest"`
	TransactionID string               `json:"transactionId,omitempty"`
	UserBalance   decimal.Decimal      `json:"userBalance"`
	AdminBalance  *decimal.Decimal     `json:"adminBalance,omitempty"`
}

type Service struct {
	wallets *wallet.Service
	logger  *zap.Logger
}

func NewService(wallets *wallet.Service, log *zap.Logger) *Service {
	return &Service{wallets: wallets, logger: logger.OrNop(log)}
}

// RequestRefund records a pending request on the user's wallet. The
// balance is not touched.
func (s *Service) RequestRefund(ctx context.Context, userID string, amount decimal.Decimal, reason string) (*models.RefundRequest, error) {
	reason = strings.TrimSpace(reason)
	if err := ledger.ValidateAmount(amount); err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, domainerrors.Validation("REASON_REQUIRED", "refund reason is required")
	}

	r, err := ledger.Retry(ctx, s.wallets.MaxAttempts(), func(ctx context.Context, attempt int) (models.RefundRequest, error) {
		w, err := s.wallets.WalletForUpdate(ctx, userID)
		if err != nil {
			return models.RefundRequest{}, err
		}
		r := models.RefundRequest{
			ID:          uuid.NewString(),
			Amount:      amount,
			Reason:      reason,
			Status:      models.RefundStatusPending,
			RequestDate: s.wallets.Now(),
		}
		w.RefundRequests = append(w.RefundRequests, r)
		if err := s.wallets.Save(ctx, w); err != nil {
			s.wallets.NoteRetry(wallet.OpRefundRequest, attempt, err)
			return models.RefundRequest{}, err
		}
		s.wallets.Invalidate(ctx, w)
		return r, nil
	})
	if err != nil {
		s.wallets.RecordFailure(wallet.OpRefundRequest, err)
		return nil, err
	}

	s.wallets.Metrics().RecordOperationResult(wallet.OpRefundRequest, wallet.ResultSuccess)
	s.logger.Info("refund requested",
		zap.String("refund_id", r.ID),
		zap.String("user_id", userID),
		zap.String("amount", amount.StringFixed(2)))
	return &r, nil
}

func (s *Service) ListPending(ctx context.Context) ([]models.PendingRefund, error) {
	return s.ListByStatus(ctx, models.RefundStatusPending)
}

// ListByStatus scans all wallets for requests in the given status.
func (s *Service) ListByStatus(ctx context.Context, status models.RefundStatus) ([]models.PendingRefund, error) {
	if !status.Valid() {
		return nil, domainerrors.Validation("INVALID_REFUND_STATUS", fmt.Sprintf("invalid refund status %q", status))
	}
	wallets, err := s.wallets.Repo().FindByRefundStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to scan refund requests: %w", err)
	}

	out := []models.PendingRefund{}
	for _, w := range wallets {
		for _, r := range w.RefundRequests {
			if r.Status == status {
				out = append(out, models.PendingRefund{WalletID: w.ID, UserID: w.Owner(), Refund: r})
			}
		}
	}
	return out, nil
}

func (s *Service) GetRefund(ctx context.Context, refundID string) (*models.PendingRefund, error) {
	w, err := s.wallets.Repo().FindByRefundID(ctx, refundID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, domainerrors.ErrRefundNotFound
		}
		return nil, fmt.Errorf("failed to find refund: %w", err)
	}
	r := w.FindRefund(refundID)
	if r == nil {
		return nil, domainerrors.ErrRefundNotFound
	}
	return &models.PendingRefund{WalletID: w.ID, UserID: w.Owner(), Refund: *r}, nil
}

// ProcessRefund approves or rejects a pending request. Approval moves the
// amount from the admin wallet to the user's wallet; both wallets and the
// request status are saved together.
func (s *Service) ProcessRefund(ctx context.Context, refundID, userID string, action Action) (*Outcome, error) {
	if refundID == "" || userID == "" {
		return nil, domainerrors.Validation("MISSING_REFUND_FIELDS", "refund id and user id are required")
	}
	if action != ActionApprove && action != ActionReject {
		return nil, domainerrors.Validation("INVALID_REFUND_ACTION", fmt.Sprintf("invalid refund action %q", action))
	}

	out, err := ledger.Retry(ctx, s.wallets.MaxAttempts(), func(ctx context.Context, attempt int) (*Outcome, error) {
		return s.process(ctx, refundID, userID, action, attempt)
	})
	if err != nil {
		s.wallets.RecordFailure(wallet.OpRefundProcess, err)
		s.logger.Warn("refund processing failed",
			zap.String("refund_id", refundID),
			zap.String("user_id", userID),
			zap.String("action", string(action)),
			zap.Error(err))
		return nil, err
	}

	s.wallets.Metrics().RecordOperationResult(wallet.OpRefundProcess, wallet.ResultSuccess)
	if action == ActionApprove {
		s.wallets.Metrics().RecordTransaction(models.CategoryRefund, out.Refund.Amount)
	}
	s.logger.Info("refund processed",
		zap.String("refund_id", refundID),
		zap.String("user_id", userID),
		zap.String("status", string(out.Refund.Status)),
		zap.String("transaction_id", out.TransactionID))
	return out, nil
}

func (s *Service) process(ctx context.Context, refundID, userID string, action Action, attempt int) (*Outcome, error) {
	userWallet, err := s.wallets.WalletForUpdate(ctx, userID)
	if err != nil {
		return nil, err
	}
	r := userWallet.FindRefund(refundID)
	if r == nil {
		return nil, domainerrors.ErrRefundNotFound
	}
	if r.Status != models.RefundStatusPending {
		return nil, domainerrors.ErrRefundProcessed
	}

	now := s.wallets.Now()
	out := &Outcome{}

	if action == ActionReject {
		r.Status = models.RefundStatusRejected
		r.AdminReviewedDate = &now
		if err := s.wallets.Save(ctx, userWallet); err != nil {
			s.wallets.NoteRetry(wallet.OpRefundProcess, attempt, err)
			return nil, err
		}
		out.Refund = *r
		out.UserBalance = userWallet.Balance
		s.wallets.Invalidate(ctx, userWallet)
		return out, nil
	}

	admin, err := s.wallets.AdminWallet(ctx)
	if err != nil {
		return nil, err
	}
	if !r.Amount.IsPositive() {
		return nil, domainerrors.ErrInvalidAmount
	}

	txID := uuid.NewString()
	if _, err := ledger.Debit(admin, r.Amount, models.CategoryRefund, ledger.Entry{
		TransactionID: txID,
		From:          models.PartyAdmin,
		To:            userID,
		Description:   fmt.Sprintf("Refund approved for user %s", userID),
		Status:        models.TransactionStatusCompleted,
		Timestamp:     now,
	}); err != nil {
		return nil, err
	}
	if _, err := ledger.Credit(userWallet, r.Amount, models.CategoryRefund, ledger.Entry{
		TransactionID: txID,
		From:          models.PartyAdmin,
		To:            userID,
		Description:   "Refund received from admin",
		Status:        models.TransactionStatusCompleted,
		Timestamp:     now,
	}); err != nil {
		return nil, err
	}
	r.Status = models.RefundStatusApproved
	r.AdminReviewedDate = &now

	if err := s.wallets.Save(ctx, admin, userWallet); err != nil {
		s.wallets.NoteRetry(wallet.OpRefundProcess, attempt, err)
		return nil, err
	}
	s.wallets.Invalidate(ctx, userWallet)

	adminBalance := admin.Balance
	out.Refund = *r
	out.TransactionID = txID
	out.UserBalance = userWallet.Balance
	out.AdminBalance = &adminBalance
	return out, nil
}
