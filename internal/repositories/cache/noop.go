package cache

import (
	"context"

	"orus-wallet/internal/models"
)

// NoopCache is used when Redis is not configured. Every lookup misses.
type NoopCache struct{}

func (NoopCache) CacheWallet(context.Context, *models.Wallet) error { return nil }

func (NoopCache) GetWalletByOwner(context.Context, string) (*models.Wallet, bool, error) {
	return nil, false, nil
}

func (NoopCache) InvalidateWallet(context.Context, *models.Wallet) error { return nil }

func (NoopCache) GetAdminWalletID(context.Context) (string, bool, error) { return "", false, nil }

func (NoopCache) SetAdminWalletID(context.Context, string) error { return nil }

func (NoopCache) ClearAdminWalletID(context.Context) error { return nil }
