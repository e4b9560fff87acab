// Package transfer moves money between two wallets as one unit of work.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainerrors "orus-wallet/internal/errors"
	"orus-wallet/internal/logger"
	"orus-wallet/internal/models"
	"orus-wallet/internal/services/ledger"
	"orus-wallet/internal/services/notification"
	"orus-wallet/internal/services/receipt"
	"orus-wallet/internal/services/recurring"
	"orus-wallet/internal/services/wallet"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	wallets  *wallet.Service
	users    UserDirectory
	receipts ReceiptGenerator
	notifier NotificationService
	logger   *zap.Logger
	config   Config
}

// NewService creates a new transfer service instance. receipts and notifier
// may be nil.
func NewService(
	wallets *wallet.Service,
	users UserDirectory,
	receipts ReceiptGenerator,
	notifier NotificationService,
	log *zap.Logger,
	config Config,
) *Service {
	if config.SideEffectTimeout <= 0 {
		config.SideEffectTimeout = DefaultSideEffectTimeout
	}
	return &Service{
		wallets:  wallets,
		users:    users,
		receipts: receipts,
		notifier: notifier,
		logger:   logger.OrNop(log),
		config:   config,
	}
}

// Transfer debits the sender and credits the recipient under one shared
// transaction id. Each attempt re-reads users and wallets; a version
// conflict on either wallet restarts the whole attempt.
func (s *Service) Transfer(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	if err := validate(req); err != nil {
		s.wallets.RecordFailure(wallet.OpTransfer, err)
		return nil, err
	}

	c, err := ledger.Retry(ctx, s.wallets.MaxAttempts(), func(ctx context.Context, attempt int) (*committed, error) {
		return s.attempt(ctx, req, attempt)
	})
	if err != nil {
		s.wallets.RecordFailure(wallet.OpTransfer, err)
		s.logger.Warn("transfer failed",
			zap.String("user_id", req.SenderUserID),
			zap.String("recipient_id", req.RecipientUserID),
			zap.String("amount", req.Amount.StringFixed(2)),
			zap.Error(err))
		return nil, err
	}

	m := s.wallets.Metrics()
	m.RecordOperationDuration(wallet.OpTransfer, time.Since(start))
	m.RecordOperationResult(wallet.OpTransfer, wallet.ResultSuccess)
	m.RecordTransaction(models.CategoryWalletTransfer, req.Amount)
	s.logger.Info("transfer committed",
		zap.String("transaction_id", c.transactionID),
		zap.String("user_id", req.SenderUserID),
		zap.String("recipient_id", req.RecipientUserID),
		zap.String("wallet_id", c.senderWallet.ID),
		zap.String("amount", req.Amount.StringFixed(2)))

	res := &Result{
		TransactionID:     c.transactionID,
		SenderBalance:     c.senderWallet.Balance,
		RecipientBalance:  c.recipientWallet.Balance,
		AdvancedRecurring: c.advanced,
		Timestamp:         c.timestamp,
	}
	s.afterCommit(ctx, req, c, res)
	return res, nil
}

func validate(req Request) error {
	if req.SenderUserID == "" || req.RecipientUserID == "" {
		return domainerrors.Validation("MISSING_PARTIES", "sender and recipient are required")
	}
	if req.SenderUserID == req.RecipientUserID {
		return domainerrors.ErrSelfTransfer
	}
	if err := ledger.ValidateAmount(req.Amount); err != nil {
		return err
	}
	return nil
}

func (s *Service) attempt(ctx context.Context, req Request, attempt int) (*committed, error) {
	sender, recipient, err := s.lookupUsers(ctx, req.SenderUserID, req.RecipientUserID)
	if err != nil {
		return nil, err
	}

	recipientWallet, err := s.wallets.WalletForUpdate(ctx, req.RecipientUserID)
	if err != nil {
		return nil, err
	}
	senderWallet, err := s.senderWallet(ctx, sender)
	if err != nil {
		return nil, err
	}
	if senderWallet.Balance.LessThan(req.Amount) {
		return nil, domainerrors.ErrInsufficientBalance
	}

	now := s.wallets.Now()
	txID := uuid.NewString()
	note := req.Note
	creditDescription := fmt.Sprintf("Transfer from user %s", req.SenderUserID)
	if note != "" {
		creditDescription += " - " + note
	}

	if _, err := ledger.Debit(senderWallet, req.Amount, models.CategoryWalletTransfer, ledger.Entry{
		TransactionID: txID,
		From:          req.SenderUserID,
		To:            req.RecipientUserID,
		Description:   note,
		Status:        models.TransactionStatusCompleted,
		Timestamp:     now,
	}); err != nil {
		return nil, err
	}
	if _, err := ledger.Credit(recipientWallet, req.Amount, models.CategoryWalletTransfer, ledger.Entry{
		TransactionID: txID,
		From:          req.SenderUserID,
		To:            req.RecipientUserID,
		Description:   creditDescription,
		Status:        models.TransactionStatusCompleted,
		Timestamp:     now,
	}); err != nil {
		return nil, err
	}
	advanced := recurring.AdvanceDue(senderWallet, req.RecipientUserID, req.Amount, now)

	if err := s.wallets.Save(ctx, senderWallet, recipientWallet); err != nil {
		s.wallets.NoteRetry(wallet.OpTransfer, attempt, err)
		return nil, err
	}

	return &committed{
		transactionID:   txID,
		timestamp:       now,
		sender:          sender,
		recipient:       recipient,
		senderWallet:    senderWallet,
		recipientWallet: recipientWallet,
		advanced:        advanced,
	}, nil
}

// lookupUsers fetches both users concurrently.
func (s *Service) lookupUsers(ctx context.Context, senderID, recipientID string) (*models.User, *models.User, error) {
	var sender, recipient *models.User
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.users.GetByID(gctx, senderID)
		if err != nil {
			return ledger.StoreError(err)
		}
		sender = u
		return nil
	})
	g.Go(func() error {
		u, err := s.users.GetByID(gctx, recipientID)
		if err != nil {
			return ledger.StoreError(err)
		}
		recipient = u
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return sender, recipient, nil
}

// senderWallet falls back to the admin wallet for admins without a wallet
// of their own.
func (s *Service) senderWallet(ctx context.Context, sender *models.User) (*models.Wallet, error) {
	w, err := s.wallets.WalletForUpdate(ctx, sender.ID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, domainerrors.ErrWalletNotFound) || !sender.IsAdmin() {
		return nil, err
	}
	return s.wallets.AdminWallet(ctx)
}

// afterCommit runs the receipt and notifications. Nothing here can fail the
// transfer.
func (s *Service) afterCommit(ctx context.Context, req Request, c *committed, res *Result) {
	s.wallets.Invalidate(ctx, c.senderWallet, c.recipientWallet)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.SideEffectTimeout)
	defer cancel()

	if s.receipts != nil {
		doc, err := s.receipts.GenerateTransferReceipt(ctx, receipt.TransferReceipt{
			TransactionID: c.transactionID,
			Amount:        req.Amount,
			From:          party(c.sender),
			To:            party(c.recipient),
			Timestamp:     c.timestamp,
			Note:          req.Note,
		})
		if err != nil {
			s.logger.Error("failed to generate transfer receipt",
				zap.String("transaction_id", c.transactionID), zap.Error(err))
		} else {
			res.Receipt = doc
		}
	}

	if s.notifier == nil {
		return
	}
	notice := notification.TransferNotice{
		TransactionID: c.transactionID,
		Amount:        req.Amount,
		FromUserID:    req.SenderUserID,
		ToUserID:      req.RecipientUserID,
		Note:          req.Note,
		Timestamp:     c.timestamp,
	}

	sent := notice
	sent.Direction = notification.DirectionSent
	sent.Balance = c.senderWallet.Balance
	if err := s.notifier.SendTransferNotification(ctx, c.sender, sent); err != nil {
		s.logger.Error("failed to notify sender",
			zap.String("transaction_id", c.transactionID),
			zap.String("user_id", c.sender.ID),
			zap.Error(err))
	} else {
		res.NotificationSent = true
	}

	received := notice
	received.Direction = notification.DirectionReceived
	received.Balance = c.recipientWallet.Balance
	if err := s.notifier.SendTransferNotification(ctx, c.recipient, received); err != nil {
		s.logger.Warn("failed to notify recipient",
			zap.String("transaction_id", c.transactionID),
			zap.String("user_id", c.recipient.ID),
			zap.Error(err))
	}
}

func party(u *models.User) receipt.Party {
	return receipt.Party{ID: u.ID, FullName: u.FullName, Email: u.Email}
}
