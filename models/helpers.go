package models

import (
	"sort"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// DecimalFromUint converts a 256-bit amount to a decimal without going through
// a float, so downstream ratios keep full precision until final display
func DecimalFromUint(u *uint256.Int) decimal.Decimal {
	if u == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(u.ToBig(), 0)
}

// CloneAmount returns an independent copy of an amount; nil stays nil
func CloneAmount(u *uint256.Int) *uint256.Int {
	if u == nil {
		return nil
	}
	return new(uint256.Int).Set(u)
}

// SortEventsByTime sorts a copy of events ascending by timestamp, preserving
// the arrival order of same-timestamp events. The input slice is not touched.
func SortEventsByTime(events []Event) []Event {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})
	return sorted
}
