// Package schedule resolves piecewise schedules (cash-out tax, issuance weight)
// by start-time lookup: an entry is effective from its start until superseded
// by the next later-starting entry, with no explicit end.
package schedule

import (
	"sort"

	"treasury-charts/models"
)

// MaxTaxRateBps is the full-tax upper bound of the schedule domain
const MaxTaxRateBps uint64 = 10000

// EffectiveTaxRate returns the cash-out tax rate in basis points effective at
// the query timestamp. The caller-supplied order is not trusted; snapshots are
// stably sorted by start before scanning. An empty schedule, or a query before
// every snapshot's start, resolves to 0 (no tax yet), not an error.
func EffectiveTaxRate(snapshots []models.TaxSnapshot, at int64) uint64 {
	if len(snapshots) == 0 {
		return 0
	}
	sorted := make([]models.TaxSnapshot, len(snapshots))
	copy(sorted, snapshots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	var rate uint64
	for _, s := range sorted {
		if s.Start > at {
			break
		}
		rate = s.CashOutTaxRateBps
	}
	if rate > MaxTaxRateBps {
		rate = MaxTaxRateBps
	}
	return rate
}
