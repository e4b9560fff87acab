// Package payment credits wallets from settled Stripe payments.
package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	domainerrors "orus-wallet/internal/errors"
	"orus-wallet/internal/logger"
	"orus-wallet/internal/models"
	"orus-wallet/internal/services/wallet"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/paymentintent"
	"go.uber.org/zap"
)

// IntentFetcher is satisfied by *paymentintent.Client.
type IntentFetcher interface {
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// WalletCreditor is the wallet call a settled payment ends in.
type WalletCreditor interface {
	CreditUser(ctx context.Context, userID string, amount decimal.Decimal, c wallet.Credit) (*models.Transaction, bool, error)
}

// NewStripeIntents returns a PaymentIntent client bound to key.
func NewStripeIntents(key string) *paymentintent.Client {
	return &paymentintent.Client{B: stripe.GetBackend(stripe.APIBackend), Key: key}
}

type TopUpResult struct {
	Transaction models.Transaction `json:"transaction"`
	Amount      decimal.Decimal    `json:"amount"`
	// Applied is false when the intent had already been credited.
	Applied bool `json:"applied"`
}

var (
	ErrIntentNotSettled = domainerrors.InvalidState("PAYMENT_NOT_SUCCEEDED", "payment intent has not succeeded")
	ErrIntentOwner      = domainerrors.Validation("PAYMENT_OWNER_MISMATCH", "payment intent belongs to another user")
	ErrCurrency         = domainerrors.Validation("UNSUPPORTED_CURRENCY", "only USD payments can fund a wallet")
	ErrIntentNotFound   = domainerrors.NotFound("PAYMENT_NOT_FOUND", "payment intent not found")
)

type Service struct {
	intents IntentFetcher
	wallets WalletCreditor
	logger  *zap.Logger
}

func NewService(intents IntentFetcher, wallets WalletCreditor, log *zap.Logger) *Service {
	return &Service{intents: intents, wallets: wallets, logger: logger.OrNop(log)}
}

// TopUp credits the wallet of userID with a succeeded PaymentIntent. The
// intent id is the idempotency key, so replays credit once.
func (s *Service) TopUp(ctx context.Context, userID, intentID string) (*TopUpResult, error) {
	intentID = strings.TrimSpace(intentID)
	if intentID == "" {
		return nil, domainerrors.Validation("PAYMENT_INTENT_REQUIRED", "payment intent id is required")
	}

	pi, err := s.intents.Get(intentID, &stripe.PaymentIntentParams{})
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && se.HTTPStatusCode == http.StatusNotFound {
			return nil, ErrIntentNotFound
		}
		return nil, fmt.Errorf("failed to fetch payment intent %s: %w", intentID, err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, ErrIntentNotSettled
	}
	// Intents without an owner would be redeemable by any user, once each.
	if owner := pi.Metadata["user_id"]; owner == "" || owner != userID {
		return nil, ErrIntentOwner
	}
	if !strings.EqualFold(string(pi.Currency), string(stripe.CurrencyUSD)) {
		return nil, ErrCurrency
	}

	minor := pi.AmountReceived
	if minor == 0 {
		minor = pi.Amount
	}
	amount := decimal.New(minor, -2)

	tx, applied, err := s.wallets.CreditUser(ctx, userID, amount, wallet.Credit{
		TransactionID: pi.ID,
		Category:      models.CategoryWalletTopUp,
		From:          models.PartySystem,
		Description:   "Wallet top-up via card",
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("wallet top-up",
		zap.String("user_id", userID),
		zap.String("transaction_id", pi.ID),
		zap.String("amount", amount.StringFixed(2)),
		zap.Bool("applied", applied))
	return &TopUpResult{Transaction: *tx, Amount: amount, Applied: applied}, nil
}
