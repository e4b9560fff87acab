package recurring

import (
	"testing"
	"time"

	"orus-wallet/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextRun(t *testing.T) {
	base := time.Date(2025, time.January, 31, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		frequency models.Frequency
		want      time.Time
	}{
		{models.FrequencyWeekly, time.Date(2025, time.February, 7, 9, 0, 0, 0, time.UTC)},
		{models.FrequencyBiWeekly, time.Date(2025, time.February, 14, 9, 0, 0, 0, time.UTC)},
		{models.FrequencyMonthly, time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(string(tt.frequency), func(t *testing.T) {
			got, err := NextRun(base, tt.frequency)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := NextRun(base, "daily")
	assert.ErrorIs(t, err, ErrInvalidFrequency)
}

func TestAdvanceDueAdvancesFromNextRunNotNow(t *testing.T) {
	due := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	now := due.Add(72 * time.Hour)

	for _, f := range []models.Frequency{models.FrequencyWeekly, models.FrequencyBiWeekly, models.FrequencyMonthly} {
		t.Run(string(f), func(t *testing.T) {
			w := &models.Wallet{RecurringPayments: models.RecurringPayments{{
				ID:              "r1",
				RecipientUserID: "bob",
				Amount:          decimal.NewFromInt(50),
				Frequency:       f,
				NextRun:         due,
				Status:          models.RecurringStatusActive,
			}}}

			advanced := AdvanceDue(w, "bob", decimal.NewFromInt(50), now)
			require.NotNil(t, advanced)

			want, _ := NextRun(due, f)
			assert.Equal(t, want, advanced.NextRun)
			assert.Equal(t, want, w.RecurringPayments[0].NextRun)
		})
	}
}

func TestAdvanceDueMatching(t *testing.T) {
	now := time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	newWallet := func() *models.Wallet {
		return &models.Wallet{RecurringPayments: models.RecurringPayments{
			{ID: "cancelled", RecipientUserID: "bob", Amount: decimal.NewFromInt(50), Frequency: models.FrequencyWeekly, NextRun: past, Status: models.RecurringStatusCancelled},
			{ID: "not-due", RecipientUserID: "bob", Amount: decimal.NewFromInt(50), Frequency: models.FrequencyWeekly, NextRun: future, Status: models.RecurringStatusActive},
			{ID: "first", RecipientUserID: "bob", Amount: decimal.NewFromInt(50), Frequency: models.FrequencyWeekly, NextRun: past, Status: models.RecurringStatusActive},
			{ID: "second", RecipientUserID: "bob", Amount: decimal.NewFromInt(50), Frequency: models.FrequencyMonthly, NextRun: past, Status: models.RecurringStatusActive},
		}}
	}

	w := newWallet()
	advanced := AdvanceDue(w, "bob", decimal.RequireFromString("50.00"), now)
	require.NotNil(t, advanced)
	assert.Equal(t, "first", advanced.ID)
	assert.Equal(t, past, w.RecurringPayments[3].NextRun, "only the first match advances")

	assert.Nil(t, AdvanceDue(newWallet(), "bob", decimal.NewFromInt(49), now))
	assert.Nil(t, AdvanceDue(newWallet(), "carol", decimal.NewFromInt(50), now))

	exact := newWallet()
	exact.RecurringPayments = exact.RecurringPayments[1:2]
	assert.NotNil(t, AdvanceDue(exact, "bob", decimal.NewFromInt(50), future), "nextRun equal to now is due")
}
