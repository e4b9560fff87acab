/*
Package wallet owns wallet lookup and the admin wallet singleton.

The admin wallet is the pool every refund and admin-funded transfer draws
from. It is always located by the type=admin, no-owner filter; the id kept
in Redis only saves a query and is re-checked against the filter on use.

Usage:

	svc := wallet.NewService(repo, cacheService, metrics, logger, wallet.Config{})

	// At process start
	report, err := svc.EnsureAdminWallet(ctx)

	// Anywhere a refund or admin transfer needs the pool
	admin, err := svc.AdminWallet(ctx)

	// Wallet payments and idempotent credits
	tx, err := svc.Pay(ctx, userID, amount, bookingID)
	tx, err = svc.CreditUser(ctx, userID, amount, wallet.Credit{TransactionID: ref, Category: models.CategoryWalletTopUp})

Every mutating call is a read-modify-write retried on version conflicts up
to Config.MaxAttempts times.

Metrics:

The service reports through MetricsCollector:
- Operation durations and results
- Cache hits and misses
- Transaction amounts by category
- Optimistic-concurrency retries
*/
package wallet
