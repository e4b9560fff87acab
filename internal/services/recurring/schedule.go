// Package recurring stores repeating transfer templates on the sender's
// wallet. Schedules are not polled: a live transfer that matches a due
// schedule advances it by one period.
package recurring

import (
	"time"

	domainerrors "orus-wallet/internal/errors"
	"orus-wallet/internal/models"

	"github.com/shopspring/decimal"
)

const DefaultNote = "Recurring salary payment"

var ErrInvalidFrequency = domainerrors.Validation("INVALID_FREQUENCY", "frequency must be weekly, bi-weekly or monthly")

// NextRun returns the occurrence after from. Monthly schedules follow
// time.AddDate, so Jan 31 rolls into early March.
func NextRun(from time.Time, frequency models.Frequency) (time.Time, error) {
	switch frequency {
	case models.FrequencyWeekly:
		return from.AddDate(0, 0, 7), nil
	case models.FrequencyBiWeekly:
		return from.AddDate(0, 0, 14), nil
	case models.FrequencyMonthly:
		return from.AddDate(0, 1, 0), nil
	}
	return time.Time{}, ErrInvalidFrequency
}

// AdvanceDue moves the first active schedule on w that targets recipientID
// with exactly amount and is due at now. nextRun advances from its own
// value, not from now. Returns a copy of the advanced schedule or nil.
func AdvanceDue(w *models.Wallet, recipientID string, amount decimal.Decimal, now time.Time) *models.RecurringPayment {
	for i := range w.RecurringPayments {
		p := &w.RecurringPayments[i]
		if p.Status != models.RecurringStatusActive ||
			p.RecipientUserID != recipientID ||
			!p.Amount.Equal(amount) ||
			p.NextRun.IsZero() ||
			p.NextRun.After(now) {
			continue
		}
		next, err := NextRun(p.NextRun, p.Frequency)
		if err != nil {
			// A stored schedule with an unknown frequency cannot advance.
			return nil
		}
		p.NextRun = next
		out := *p
		return &out
	}
	return nil
}
