package schedule

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"treasury-charts/models"
)

func TestEffectiveTaxRate(t *testing.T) {
	snapshots := []models.TaxSnapshot{
		{Start: 1000, CashOutTaxRateBps: 2000},
		{Start: 3000, CashOutTaxRateBps: 5000},
		{Start: 2000, CashOutTaxRateBps: 1000}, // deliberately out of order
	}

	tests := []struct {
		name string
		at   int64
		want uint64
	}{
		{"before all snapshots", 999, 0},
		{"exactly at first start", 1000, 2000},
		{"between first and second", 1500, 2000},
		{"middle snapshot wins after sorting", 2500, 1000},
		{"latest snapshot", 9999999, 5000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveTaxRate(snapshots, tt.at))
		})
	}

	t.Run("empty schedule resolves to zero", func(t *testing.T) {
		assert.Equal(t, uint64(0), EffectiveTaxRate(nil, 5000))
	})

	t.Run("caller slice is not reordered", func(t *testing.T) {
		EffectiveTaxRate(snapshots, 5000)
		assert.Equal(t, int64(3000), snapshots[1].Start)
	})

	t.Run("rate above domain is capped", func(t *testing.T) {
		over := []models.TaxSnapshot{{Start: 0, CashOutTaxRateBps: 12000}}
		assert.Equal(t, MaxTaxRateBps, EffectiveTaxRate(over, 10))
	})
}

func TestIssuancePrice(t *testing.T) {
	periods := []models.RulesetPeriod{
		{Start: 0, Weight: decimal.NewFromInt(1000)},
		{Start: 86400, Weight: decimal.NewFromInt(500)},
	}

	t.Run("price is one over weight", func(t *testing.T) {
		price, ok := IssuancePrice(periods, 100)
		assert.True(t, ok)
		assert.InDelta(t, 0.001, price, 1e-12)
	})

	t.Run("steps at ruleset boundary", func(t *testing.T) {
		price, ok := IssuancePrice(periods, 86400)
		assert.True(t, ok)
		assert.InDelta(t, 0.002, price, 1e-12)
	})

	t.Run("no schedule yields no point", func(t *testing.T) {
		_, ok := IssuancePrice(nil, 100)
		assert.False(t, ok)
	})

	t.Run("zero weight yields no point", func(t *testing.T) {
		_, ok := IssuancePrice([]models.RulesetPeriod{{Start: 0, Weight: decimal.Zero}}, 100)
		assert.False(t, ok)
	})

	t.Run("query before first period yields no point", func(t *testing.T) {
		later := []models.RulesetPeriod{{Start: 500, Weight: decimal.NewFromInt(10)}}
		_, ok := IssuancePrice(later, 100)
		assert.False(t, ok)
	})
}
