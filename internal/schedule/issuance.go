package schedule

import (
	"sort"

	"github.com/shopspring/decimal"

	"treasury-charts/models"
)

// EffectiveWeight returns the issuance weight (claim-tokens minted per unit
// paid in) effective at the query timestamp, using the same last-start-wins
// resolution as the tax schedule. Returns the zero decimal and false when no
// period has started yet.
func EffectiveWeight(periods []models.RulesetPeriod, at int64) (decimal.Decimal, bool) {
	if len(periods) == 0 {
		return decimal.Zero, false
	}
	sorted := make([]models.RulesetPeriod, len(periods))
	copy(sorted, periods)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	var (
		weight decimal.Decimal
		found  bool
	)
	for _, p := range sorted {
		if p.Start > at {
			break
		}
		weight = p.Weight
		found = true
	}
	return weight, found
}

// IssuancePrice returns the price implied by the issuance schedule at the
// query timestamp: 1 / weight, stepped at ruleset boundaries. A missing
// schedule or a zero weight yields false; the caller omits the point rather
// than emitting a division artifact.
func IssuancePrice(periods []models.RulesetPeriod, at int64) (float64, bool) {
	weight, ok := EffectiveWeight(periods, at)
	if !ok || weight.IsZero() {
		return 0, false
	}
	return decimal.NewFromInt(1).Div(weight).InexactFloat64(), true
}
