package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"

	domainerrors "orus-wallet/internal/errors"
	"orus-wallet/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrySucceedsAfterConflict(t *testing.T) {
	calls := 0
	v, err := Retry(context.Background(), 3, func(ctx context.Context, attempt int) (string, error) {
		calls++
		if attempt < 3 {
			return "", fmt.Errorf("save: %w", repositories.ErrVersionConflict)
		}
		return "done", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "done", v)
	assert.Equal(t, 3, calls)
}

func TestRetryExhausted(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), 3, func(ctx context.Context, attempt int) (int, error) {
		calls++
		return 0, repositories.ErrTransient
	})

	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
	assert.ErrorIs(t, err, domainerrors.ErrRetriesExhausted)
	assert.ErrorIs(t, err, repositories.ErrTransient)
}

func TestRetryStopsOnDomainError(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), 3, func(ctx context.Context, attempt int) (int, error) {
		calls++
		return 0, domainerrors.ErrInsufficientBalance
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientFunds)
}

func TestRetryHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Retry(ctx, 3, func(ctx context.Context, attempt int) (int, error) {
		t.Fatal("fn must not run")
		return 0, nil
	})
	assert.True(t, errors.Is(err, context.Canceled))
}
