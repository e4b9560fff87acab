package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainerrors "orus-wallet/internal/errors"
	"orus-wallet/internal/logger"
	"orus-wallet/internal/models"
	"orus-wallet/internal/repositories"
	"orus-wallet/internal/repositories/cache"
	"orus-wallet/internal/services/ledger"

	"go.uber.org/zap"
)

type Service struct {
	repo    repositories.WalletRepository
	cache   Cache
	metrics MetricsCollector
	logger  *zap.Logger
	config  Config
}

// NewService creates a new wallet service. cache, metrics and log are
// optional.
func NewService(
	repo repositories.WalletRepository,
	c Cache,
	metrics MetricsCollector,
	log *zap.Logger,
	config Config,
) *Service {
	if repo == nil {
		panic("repo is required")
	}
	if c == nil {
		c = cache.NoopCache{}
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = ledger.DefaultAttempts
	}
	if config.Now == nil {
		config.Now = func() time.Time { return time.Now().UTC() }
	}

	return &Service{
		repo:    repo,
		cache:   c,
		metrics: metrics,
		logger:  logger.OrNop(log),
		config:  config,
	}
}

// Repo exposes the store to the workflow services built on top of wallets.
func (s *Service) Repo() repositories.WalletRepository { return s.repo }

// Save persists wallets through the versioned store. Legacy uncategorized
// lines are tagged first, so any write that touches a wallet normalizes it.
func (s *Service) Save(ctx context.Context, wallets ...*models.Wallet) error {
	for _, w := range wallets {
		if n := ledger.Normalize(w); n > 0 {
			s.logger.Info("normalized legacy transactions",
				zap.String("wallet_id", w.ID),
				zap.Int("count", n))
		}
	}
	return s.repo.Save(ctx, wallets...)
}

func (s *Service) Metrics() MetricsCollector { return s.metrics }

func (s *Service) MaxAttempts() int { return s.config.MaxAttempts }

func (s *Service) Now() time.Time { return s.config.Now() }

// CreateWallet creates the wallet paired with a user. The admin wallet is
// created through AdminWallet only.
func (s *Service) CreateWallet(ctx context.Context, ownerID string, walletType models.WalletType) (*models.Wallet, error) {
	if ownerID == "" {
		return nil, domainerrors.Validation("OWNER_REQUIRED", "wallet owner is required")
	}
	if walletType == "" {
		walletType = models.WalletTypeUser
	}
	if !walletType.Valid() || walletType == models.WalletTypeAdmin {
		return nil, domainerrors.Validation("INVALID_WALLET_TYPE", fmt.Sprintf("invalid wallet type %q", walletType))
	}

	start := time.Now()
	owner := ownerID
	w := models.NewWallet(&owner, walletType, s.config.Now())
	if err := s.repo.Create(ctx, w); err != nil {
		s.metrics.RecordOperationResult(OpCreateWallet, ResultFailure)
		if errors.Is(err, repositories.ErrDuplicateWallet) {
			return nil, domainerrors.ErrWalletExists
		}
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	s.metrics.RecordOperationDuration(OpCreateWallet, time.Since(start))
	s.metrics.RecordOperationResult(OpCreateWallet, ResultSuccess)

	s.logger.Info("wallet created",
		zap.String("wallet_id", w.ID),
		zap.String("user_id", ownerID),
		zap.String("type", string(walletType)))
	return w, nil
}

func (s *Service) GetWallet(ctx context.Context, walletID string) (*models.Wallet, error) {
	w, err := s.repo.GetByID(ctx, walletID)
	if err != nil {
		return nil, ledger.StoreError(err)
	}
	return w, nil
}

// GetWalletByOwner reads through the cache. The result is for display;
// mutations go through WalletForUpdate.
func (s *Service) GetWalletByOwner(ctx context.Context, ownerID string) (*models.Wallet, error) {
	if w, ok, err := s.cache.GetWalletByOwner(ctx, ownerID); err == nil && ok {
		s.metrics.RecordCacheHit(CacheKeyWallet)
		return w, nil
	} else if err != nil {
		s.logger.Warn("wallet cache read failed", zap.String("user_id", ownerID), zap.Error(err))
	}
	s.metrics.RecordCacheMiss(CacheKeyWallet)

	w, err := s.WalletForUpdate(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.CacheWallet(ctx, w); err != nil {
		s.logger.Warn("wallet cache write failed", zap.String("user_id", ownerID), zap.Error(err))
	}
	return w, nil
}

// WalletForUpdate always reads the store.
func (s *Service) WalletForUpdate(ctx context.Context, ownerID string) (*models.Wallet, error) {
	w, err := s.repo.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, ledger.StoreError(err)
	}
	return w, nil
}

func (s *Service) ListBalances(ctx context.Context) ([]models.WalletBalance, error) {
	wallets, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	out := make([]models.WalletBalance, 0, len(wallets))
	for _, w := range wallets {
		out = append(out, models.WalletBalance{
			WalletID: w.ID,
			OwnerID:  w.OwnerID,
			Type:     w.Type,
			Balance:  w.Balance,
		})
	}
	return out, nil
}

// FindTransaction returns both legs of a transaction.
func (s *Service) FindTransaction(ctx context.Context, transactionID string) (*TransactionLegs, error) {
	wallets, err := s.repo.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}

	legs := &TransactionLegs{TransactionID: transactionID}
	for _, w := range wallets {
		for _, tx := range w.Transactions {
			if tx.TransactionID != transactionID {
				continue
			}
			tx.TransactionCategory = ledger.CategoryOf(tx)
			leg := &Leg{WalletID: w.ID, OwnerID: w.OwnerID, Line: tx}
			if tx.Type == models.TransactionTypeDebit {
				legs.Debit = leg
			} else {
				legs.Credit = leg
			}
			legs.Amount = tx.Amount.Abs()
		}
	}
	if legs.Debit == nil && legs.Credit == nil {
		return nil, domainerrors.ErrTransactionNotFound
	}
	return legs, nil
}

// History returns the categorized view of a user's wallet.
func (s *Service) History(ctx context.Context, ownerID string) (*models.Wallet, ledger.Categorized, error) {
	w, err := s.GetWalletByOwner(ctx, ownerID)
	if err != nil {
		return nil, ledger.Categorized{}, err
	}
	return w, ledger.Categorize(w.Transactions), nil
}

// RecordFailure counts a failed operation under its domain error kind.
func (s *Service) RecordFailure(operation string, err error) {
	kind := "internal"
	if k, ok := domainerrors.KindOf(err); ok {
		kind = string(k)
	}
	s.metrics.RecordOperationResult(operation, ResultFailure)
	s.metrics.RecordError(operation, kind)
}
