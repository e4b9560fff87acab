package wallet

import (
	"context"
	"errors"
	"fmt"

	"orus-wallet/internal/models"
	"orus-wallet/internal/repositories"
	"orus-wallet/internal/services/ledger"

	"go.uber.org/zap"
)

// AdminWallet returns the admin wallet, creating it on first use. The cached
// id is only trusted after the stored wallet still matches the admin filter.
func (s *Service) AdminWallet(ctx context.Context) (*models.Wallet, error) {
	if id, ok, err := s.cache.GetAdminWalletID(ctx); err == nil && ok {
		w, err := s.repo.GetByID(ctx, id)
		if err == nil && w.IsAdminPool() {
			s.metrics.RecordCacheHit(CacheKeyAdminWallet)
			return w, nil
		}
		s.logger.Warn("stale admin wallet id in cache", zap.String("wallet_id", id))
		_ = s.cache.ClearAdminWalletID(ctx)
	}
	s.metrics.RecordCacheMiss(CacheKeyAdminWallet)

	w, err := s.repo.FindAdmin(ctx)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrWalletNotFound):
		w, err = s.createAdminWallet(ctx)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("failed to find admin wallet: %w", err)
	}

	s.rememberAdmin(ctx, w)
	return w, nil
}

// createAdminWallet inserts the admin wallet. Losing the insert race to
// another process is not an error; the winner is returned instead.
func (s *Service) createAdminWallet(ctx context.Context) (*models.Wallet, error) {
	w := models.NewWallet(nil, models.WalletTypeAdmin, s.config.Now())
	err := s.repo.Create(ctx, w)
	if err == nil {
		s.logger.Info("admin wallet created", zap.String("wallet_id", w.ID))
		return w, nil
	}
	if !errors.Is(err, repositories.ErrDuplicateWallet) {
		return nil, fmt.Errorf("failed to create admin wallet: %w", err)
	}

	existing, err := s.repo.FindAdmin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read admin wallet after create race: %w", err)
	}
	return existing, nil
}

// EnsureAdminWallet runs at process start. It creates the admin wallet when
// missing and backfills the type of a legacy ownerless wallet. Uncategorized
// transactions are reported, not rewritten. Safe to run on every start.
func (s *Service) EnsureAdminWallet(ctx context.Context) (*BootstrapReport, error) {
	report := &BootstrapReport{}

	candidates, err := s.repo.FindAdminCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for admin wallet: %w", err)
	}

	var typed, legacy *models.Wallet
	for _, c := range candidates {
		if c.Type == models.WalletTypeAdmin && typed == nil {
			typed = c
		}
		if c.Type == "" && legacy == nil {
			legacy = c
		}
	}

	var admin *models.Wallet
	switch {
	case typed != nil:
		admin = typed
	case legacy != nil:
		admin, err = s.backfillAdminType(ctx, legacy.ID)
		if err != nil {
			return nil, err
		}
		report.TypeBackfilled = true
	default:
		admin, err = s.createAdminWallet(ctx)
		if err != nil {
			return nil, err
		}
		report.Created = true
	}

	if extra := len(candidates) - 1; extra > 0 && !report.Created {
		s.logger.Warn("ownerless wallets besides the admin wallet",
			zap.String("wallet_id", admin.ID), zap.Int("count", extra))
	}

	report.AdminWallets, err = s.repo.CountAdmins(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count admin wallets: %w", err)
	}
	if report.AdminWallets > 1 {
		s.logger.Error("more than one admin wallet",
			zap.String("wallet_id", admin.ID), zap.Int64("count", report.AdminWallets))
	}

	report.WalletID = admin.ID
	report.LegacyTransactions = ledger.CountUncategorized(admin)
	if report.LegacyTransactions > 0 {
		s.logger.Warn("admin wallet has uncategorized transactions",
			zap.String("wallet_id", admin.ID),
			zap.Int("count", report.LegacyTransactions))
	}

	s.rememberAdmin(ctx, admin)
	s.logger.Info("admin wallet ready",
		zap.String("wallet_id", admin.ID),
		zap.Bool("created", report.Created),
		zap.Bool("type_backfilled", report.TypeBackfilled))
	return report, nil
}

func (s *Service) backfillAdminType(ctx context.Context, walletID string) (*models.Wallet, error) {
	return ledger.Retry(ctx, s.config.MaxAttempts, func(ctx context.Context, attempt int) (*models.Wallet, error) {
		w, err := s.repo.GetByID(ctx, walletID)
		if err != nil {
			return nil, ledger.StoreError(err)
		}
		if w.Type == models.WalletTypeAdmin {
			return w, nil
		}
		w.Type = models.WalletTypeAdmin
		if err := s.repo.Save(ctx, w); err != nil {
			if ledger.Retryable(err) {
				s.metrics.RecordConflictRetry(OpEnsureAdmin)
			}
			return nil, err
		}
		s.logger.Info("backfilled admin wallet type", zap.String("wallet_id", w.ID))
		return w, nil
	})
}

func (s *Service) rememberAdmin(ctx context.Context, w *models.Wallet) {
	if err := s.cache.SetAdminWalletID(ctx, w.ID); err != nil {
		s.logger.Warn("failed to cache admin wallet id", zap.Error(err))
	}
}
