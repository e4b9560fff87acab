// Package memstore is an in-process implementation of the wallet and user
// repositories. It honours the same optimistic-version contract as the
// postgres store and backs local runs with STORE=memory.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"orus-wallet/internal/models"
	"orus-wallet/internal/repositories"

	"github.com/google/uuid"
)

type WalletStore struct {
	mu      sync.RWMutex
	wallets map[string]*models.Wallet
}

func NewWalletStore() *WalletStore {
	return &WalletStore{wallets: make(map[string]*models.Wallet)}
}

func (s *WalletStore) Create(ctx context.Context, wallet *models.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if wallet.ID == "" {
		wallet.ID = uuid.NewString()
	}
	if _, ok := s.wallets[wallet.ID]; ok {
		return repositories.ErrDuplicateWallet
	}
	for _, w := range s.wallets {
		if wallet.OwnerID != nil && w.OwnerID != nil && *w.OwnerID == *wallet.OwnerID {
			return repositories.ErrDuplicateWallet
		}
		if wallet.IsAdminPool() && w.IsAdminPool() {
			return repositories.ErrDuplicateWallet
		}
	}
	now := time.Now().UTC()
	if wallet.CreatedAt.IsZero() {
		wallet.CreatedAt = now
	}
	wallet.UpdatedAt = now
	s.wallets[wallet.ID] = wallet.Clone()
	return nil
}

func (s *WalletStore) GetByID(ctx context.Context, id string) (*models.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.wallets[id]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	return w.Clone(), nil
}

func (s *WalletStore) GetByOwnerID(ctx context.Context, ownerID string) (*models.Wallet, error) {
	found := s.find(func(w *models.Wallet) bool { return w.Owner() == ownerID && ownerID != "" })
	if len(found) == 0 {
		return nil, repositories.ErrWalletNotFound
	}
	return found[0], nil
}

func (s *WalletStore) FindAdmin(ctx context.Context) (*models.Wallet, error) {
	found := s.find(func(w *models.Wallet) bool { return w.IsAdminPool() })
	if len(found) == 0 {
		return nil, repositories.ErrWalletNotFound
	}
	return found[0], nil
}

func (s *WalletStore) FindAdminCandidates(ctx context.Context) ([]*models.Wallet, error) {
	return s.find(func(w *models.Wallet) bool {
		return w.OwnerID == nil && (w.Type == models.WalletTypeAdmin || w.Type == "")
	}), nil
}

func (s *WalletStore) CountAdmins(ctx context.Context) (int64, error) {
	return int64(len(s.find(func(w *models.Wallet) bool { return w.IsAdminPool() }))), nil
}

func (s *WalletStore) FindByRefundStatus(ctx context.Context, status models.RefundStatus) ([]*models.Wallet, error) {
	return s.find(func(w *models.Wallet) bool {
		for _, r := range w.RefundRequests {
			if r.Status == status {
				return true
			}
		}
		return false
	}), nil
}

func (s *WalletStore) FindByRefundID(ctx context.Context, refundID string) (*models.Wallet, error) {
	found := s.find(func(w *models.Wallet) bool { return w.FindRefund(refundID) != nil })
	if len(found) == 0 {
		return nil, repositories.ErrWalletNotFound
	}
	return found[0], nil
}

func (s *WalletStore) FindByTransactionID(ctx context.Context, transactionID string) ([]*models.Wallet, error) {
	return s.find(func(w *models.Wallet) bool { return w.FindTransaction(transactionID) != nil }), nil
}

func (s *WalletStore) List(ctx context.Context) ([]*models.Wallet, error) {
	return s.find(func(*models.Wallet) bool { return true }), nil
}

func (s *WalletStore) Save(ctx context.Context, wallets ...*models.Wallet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range wallets {
		stored, ok := s.wallets[w.ID]
		if !ok {
			return repositories.ErrWalletNotFound
		}
		if stored.Version != w.Version {
			return repositories.ErrVersionConflict
		}
	}
	now := time.Now().UTC()
	for _, w := range wallets {
		w.Version++
		w.UpdatedAt = now
		s.wallets[w.ID] = w.Clone()
	}
	return nil
}

// Put stores w as-is, bypassing validation. Used to seed legacy records.
func (s *WalletStore) Put(w *models.Wallet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets[w.ID] = w.Clone()
}

// find returns clones of matching wallets ordered by creation time.
func (s *WalletStore) find(match func(*models.Wallet) bool) []*models.Wallet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Wallet
	for _, w := range s.wallets {
		if match(w) {
			out = append(out, w.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

type UserStore struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]*models.User)}
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return repositories.ErrEmailTaken
		}
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

var (
	_ repositories.WalletRepository = (*WalletStore)(nil)
	_ repositories.UserRepository   = (*UserStore)(nil)
)
