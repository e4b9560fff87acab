package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"orus-wallet/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{
		db: db,
	}
}

func (r *walletRepository) Create(ctx context.Context, wallet *models.Wallet) error {
	if err := r.db.WithContext(ctx).Create(wallet).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateWallet
		}
		return classify(fmt.Errorf("failed to create wallet: %w", err))
	}
	return nil
}

func (r *walletRepository) GetByID(ctx context.Context, id string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, classify(fmt.Errorf("failed to get wallet: %w", err))
	}
	return &wallet, nil
}

func (r *walletRepository) GetByOwnerID(ctx context.Context, ownerID string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, classify(fmt.Errorf("failed to get wallet: %w", err))
	}
	return &wallet, nil
}

func (r *walletRepository) FindAdmin(ctx context.Context) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.WithContext(ctx).
		Where("type = ? AND owner_id IS NULL", models.WalletTypeAdmin).
		Order("created_at ASC").
		First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, classify(fmt.Errorf("failed to find admin wallet: %w", err))
	}
	return &wallet, nil
}

func (r *walletRepository) FindAdminCandidates(ctx context.Context) ([]*models.Wallet, error) {
	var wallets []*models.Wallet
	err := r.db.WithContext(ctx).
		Where("owner_id IS NULL AND (type = ? OR type = '' OR type IS NULL)", models.WalletTypeAdmin).
		Order("created_at ASC").
		Find(&wallets).Error
	if err != nil {
		return nil, classify(fmt.Errorf("failed to find admin wallet candidates: %w", err))
	}
	return wallets, nil
}

func (r *walletRepository) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("type = ? AND owner_id IS NULL", models.WalletTypeAdmin).
		Count(&count).Error
	if err != nil {
		return 0, classify(fmt.Errorf("failed to count admin wallets: %w", err))
	}
	return count, nil
}

func (r *walletRepository) FindByRefundStatus(ctx context.Context, status models.RefundStatus) ([]*models.Wallet, error) {
	filter, err := containsFilter("status", string(status))
	if err != nil {
		return nil, err
	}
	var wallets []*models.Wallet
	if err := r.db.WithContext(ctx).Where("refund_requests @> ?::jsonb", filter).Find(&wallets).Error; err != nil {
		return nil, classify(fmt.Errorf("failed to find wallets by refund status: %w", err))
	}
	return wallets, nil
}

func (r *walletRepository) FindByRefundID(ctx context.Context, refundID string) (*models.Wallet, error) {
	filter, err := containsFilter("id", refundID)
	if err != nil {
		return nil, err
	}
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).Where("refund_requests @> ?::jsonb", filter).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, classify(fmt.Errorf("failed to find wallet by refund: %w", err))
	}
	return &wallet, nil
}

func (r *walletRepository) FindByTransactionID(ctx context.Context, transactionID string) ([]*models.Wallet, error) {
	filter, err := containsFilter("transactionId", transactionID)
	if err != nil {
		return nil, err
	}
	var wallets []*models.Wallet
	if err := r.db.WithContext(ctx).Where("transactions @> ?::jsonb", filter).Find(&wallets).Error; err != nil {
		return nil, classify(fmt.Errorf("failed to find wallets by transaction: %w", err))
	}
	return wallets, nil
}

func (r *walletRepository) List(ctx context.Context) ([]*models.Wallet, error) {
	var wallets []*models.Wallet
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&wallets).Error; err != nil {
		return nil, classify(fmt.Errorf("failed to list wallets: %w", err))
	}
	return wallets, nil
}

func (r *walletRepository) Save(ctx context.Context, wallets ...*models.Wallet) error {
	if len(wallets) == 0 {
		return nil
	}
	now := time.Now().UTC()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, w := range wallets {
			if err := saveVersioned(tx, w, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return err
		}
		return classify(fmt.Errorf("failed to save wallets: %w", err))
	}
	for _, w := range wallets {
		w.Version++
		w.UpdatedAt = now
	}
	return nil
}

func saveVersioned(tx *gorm.DB, w *models.Wallet, now time.Time) error {
	result := tx.Model(&models.Wallet{}).
		Where("id = ? AND version = ?", w.ID, w.Version).
		Updates(map[string]interface{}{
			"type":               w.Type,
			"balance":            w.Balance,
			"transactions":       w.Transactions,
			"refund_requests":    w.RefundRequests,
			"recurring_payments": w.RecurringPayments,
			"version":            gorm.Expr("version + 1"),
			"updated_at":         now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("wallet %s at version %d: %w", w.ID, w.Version, ErrVersionConflict)
	}
	return nil
}

// containsFilter builds a jsonb containment document matching an array
// element with field == value.
func containsFilter(field, value string) (string, error) {
	b, err := json.Marshal([]map[string]string{{field: value}})
	if err != nil {
		return "", fmt.Errorf("failed to build filter: %w", err)
	}
	return string(b), nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// classify tags timeouts as ErrTransient so callers retry them like a
// version conflict.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
	return err
}
