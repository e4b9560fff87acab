package wallet

import (
	"context"

	"orus-wallet/internal/models"

	"go.uber.org/zap"
)

// Invalidate drops cached snapshots of the given wallets. Failures are
// logged; the store stays authoritative. The admin id hint survives since
// the admin wallet keeps its id.
func (s *Service) Invalidate(ctx context.Context, wallets ...*models.Wallet) {
	for _, w := range wallets {
		if w == nil || w.IsAdminPool() {
			continue
		}
		if err := s.cache.InvalidateWallet(ctx, w); err != nil {
			s.logger.Warn("failed to invalidate wallet cache",
				zap.String("wallet_id", w.ID), zap.Error(err))
		}
	}
}
