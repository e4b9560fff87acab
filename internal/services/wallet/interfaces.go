package wallet

import (
	"context"
	"time"

	"orus-wallet/internal/models"

	"github.com/shopspring/decimal"
)

// Cache is the read-side cache. Implementations: cache.CacheService and
// cache.NoopCache.
type Cache interface {
	GetWalletByOwner(ctx context.Context, ownerID string) (*models.Wallet, bool, error)
	CacheWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, wallet *models.Wallet) error

	GetAdminWalletID(ctx context.Context) (string, bool, error)
	SetAdminWalletID(ctx context.Context, id string) error
	ClearAdminWalletID(ctx context.Context) error
}

// MetricsCollector defines the interface for collecting wallet metrics
type MetricsCollector interface {
	// Operation metrics
	RecordOperationDuration(operation string, duration time.Duration)
	RecordOperationResult(operation, result string)

	// Cache metrics
	RecordCacheHit(key string)
	RecordCacheMiss(key string)

	// Error metrics
	RecordError(operation, errType string)

	// Transaction metrics
	RecordTransaction(category string, amount decimal.Decimal)
	RecordConflictRetry(operation string)
}

// UserDirectory resolves users for the wallet workflows.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}
