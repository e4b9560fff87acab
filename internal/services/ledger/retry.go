package ledger

import (
	"context"
	"errors"

	domainerrors "orus-wallet/internal/errors"
	"orus-wallet/internal/repositories"
)

const DefaultAttempts = 3

// Retryable reports whether err is worth a fresh read-modify-write.
func Retryable(err error) bool {
	return errors.Is(err, repositories.ErrVersionConflict) || errors.Is(err, repositories.ErrTransient)
}

// Retry runs fn up to attempts times while it fails with a retryable store
// error. fn must re-read everything it touches; nothing is carried between
// attempts. When attempts run out the last error is wrapped in a conflict.
func Retry[T any](ctx context.Context, attempts int, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	if attempts < 1 {
		attempts = DefaultAttempts
	}
	var zero T
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		v, err := fn(ctx, attempt)
		if err == nil {
			return v, nil
		}
		if !Retryable(err) {
			return zero, err
		}
		lastErr = err
	}
	return zero, domainerrors.Conflict(domainerrors.ErrRetriesExhausted.Code, domainerrors.ErrRetriesExhausted.Message, lastErr)
}

// StoreError maps repository sentinels onto domain errors. Retryable errors
// pass through untouched so Retry can see them.
func StoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrWalletNotFound):
		return domainerrors.ErrWalletNotFound
	case errors.Is(err, repositories.ErrUserNotFound):
		return domainerrors.ErrUserNotFound
	case errors.Is(err, repositories.ErrDuplicateWallet):
		return domainerrors.ErrWalletExists
	}
	return err
}
