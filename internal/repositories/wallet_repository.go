package repositories

import (
	"context"
	"errors"

	"orus-wallet/internal/models"
)

var (
	ErrWalletNotFound  = errors.New("wallet not found")
	ErrDuplicateWallet = errors.New("wallet already exists")
	// ErrVersionConflict means the wallet row changed since it was read.
	ErrVersionConflict = errors.New("wallet version conflict")
	// ErrTransient marks store failures such as timeouts that are worth
	// retrying with a fresh read.
	ErrTransient = errors.New("transient store failure")
)

// WalletRepository persists wallet aggregates. Every read returns a fresh
// copy; Save applies optimistic concurrency on Wallet.Version.
type WalletRepository interface {
	Create(ctx context.Context, wallet *models.Wallet) error
	GetByID(ctx context.Context, id string) (*models.Wallet, error)
	GetByOwnerID(ctx context.Context, ownerID string) (*models.Wallet, error)

	// FindAdmin returns the wallet with type admin and no owner.
	FindAdmin(ctx context.Context) (*models.Wallet, error)
	// FindAdminCandidates also returns ownerless wallets whose type was never
	// set, which predate the type column.
	FindAdminCandidates(ctx context.Context) ([]*models.Wallet, error)
	CountAdmins(ctx context.Context) (int64, error)

	FindByRefundStatus(ctx context.Context, status models.RefundStatus) ([]*models.Wallet, error)
	FindByRefundID(ctx context.Context, refundID string) (*models.Wallet, error)
	FindByTransactionID(ctx context.Context, transactionID string) ([]*models.Wallet, error)
	List(ctx context.Context) ([]*models.Wallet, error)

	// Save writes all wallets in one unit of work. If any wallet's version is
	// stale nothing is written and ErrVersionConflict is returned. On success
	// each wallet's Version is incremented.
	Save(ctx context.Context, wallets ...*models.Wallet) error
}
