package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"orus-wallet/internal/models"

	"github.com/redis/go-redis/v9"
)

const adminWalletKey = "wallet:admin:id"

// CacheService keeps wallet snapshots and the admin wallet id in Redis.
// Nothing read from it is trusted for writes; callers re-read the store
// before mutating.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// Wallet caching
func (s *CacheService) CacheWallet(ctx context.Context, wallet *models.Wallet) error {
	if wallet == nil || wallet.OwnerID == nil {
		return nil
	}
	return s.Set(ctx, GenerateKey("wallet", "owner", *wallet.OwnerID), wallet)
}

func (s *CacheService) GetWalletByOwner(ctx context.Context, ownerID string) (*models.Wallet, bool, error) {
	var wallet models.Wallet
	found, err := s.Get(ctx, GenerateKey("wallet", "owner", ownerID), &wallet)
	if err != nil || !found {
		return nil, false, err
	}
	return &wallet, true, nil
}

func (s *CacheService) InvalidateWallet(ctx context.Context, wallet *models.Wallet) error {
	if wallet == nil {
		return nil
	}
	if wallet.OwnerID == nil {
		return s.Delete(ctx, adminWalletKey)
	}
	return s.Delete(ctx, GenerateKey("wallet", "owner", *wallet.OwnerID))
}

// Admin wallet id hint
func (s *CacheService) GetAdminWalletID(ctx context.Context) (string, bool, error) {
	id, err := s.client.Get(ctx, adminWalletKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get admin wallet id: %w", err)
	}
	return id, true, nil
}

func (s *CacheService) SetAdminWalletID(ctx context.Context, id string) error {
	return s.client.Set(ctx, adminWalletKey, id, s.ttl).Err()
}

func (s *CacheService) ClearAdminWalletID(ctx context.Context) error {
	return s.Delete(ctx, adminWalletKey)
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
