package models

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// EventKind distinguishes the two financial actions that move a treasury balance
type EventKind int

const (
	Pay EventKind = iota
	CashOut
)

// String returns the string representation of the event kind
func (k EventKind) String() string {
	switch k {
	case Pay:
		return "pay"
	case CashOut:
		return "cashOut"
	default:
		return "unknown"
	}
}

// Event represents a single timestamped payment or cash-out, as supplied by the
// external indexer. Amounts are in the smallest token unit. Immutable.
type Event struct {
	Timestamp int64        `json:"timestamp"` // unix seconds
	Amount    *uint256.Int `json:"amount"`
	ChainID   uint64       `json:"chainId"`
	Kind      EventKind    `json:"kind"`
	From      string       `json:"from"` // payer / redeemer address
}

// Moment is a periodic snapshot of the aggregate cross-chain treasury state
// for one sucker group, supplied by the external indexer. Read-only.
type Moment struct {
	Timestamp   int64        `json:"timestamp"`
	Balance     *uint256.Int `json:"balance"`
	TokenSupply *uint256.Int `json:"tokenSupply"`
	GroupID     string       `json:"groupId"`
}

// TaxSnapshot is one entry of the cash-out tax schedule: the rate is effective
// from Start until superseded by the next later-starting snapshot.
type TaxSnapshot struct {
	Start             int64  `json:"start"`
	CashOutTaxRateBps uint64 `json:"cashOutTaxRate"` // basis points, 0..10000
}

// RulesetPeriod is one entry of the issuance schedule: Weight is the number of
// claim-tokens minted per unit paid in, effective from Start until superseded.
type RulesetPeriod struct {
	Start  int64           `json:"start"`
	Weight decimal.Decimal `json:"weight"`
}

// SeriesPoint is one day of a single-source series, before merging. Sources
// hand the aligner one SeriesPoint slice per series key.
type SeriesPoint struct {
	Day   int64   `json:"day"`
	Value float64 `json:"value"`
}

// DayPoint is the atomic unit of every output series: one UTC-midnight-aligned
// day with one value per series key ("combined", "chain-42161", ...).
// Within one series Day values are strictly increasing and unique.
type DayPoint struct {
	Day    int64              `json:"day"` // unix seconds at UTC midnight
	Values map[string]float64 `json:"values"`
}

// ChainVolume is the per-chain slice of one volume day
type ChainVolume struct {
	Count  int          `json:"count"`
	Volume *uint256.Int `json:"volume"`
}

// VolumeDayPoint is one calendar day of payment activity, including days with
// zero events. Volume is summed as uint256; no float accumulation.
type VolumeDayPoint struct {
	Day          int64                  `json:"day"`
	Count        int                    `json:"count"`
	Volume       *uint256.Int           `json:"volume"`
	UniquePayers int                    `json:"uniquePayers"` // HLL estimate
	PerChain     map[uint64]ChainVolume `json:"perChain,omitempty"`
}

// HolderShare is one normalized slice of the holder distribution. The synthetic
// "Others" remainder entry has an empty Address and a nil Balance.
type HolderShare struct {
	Address string       `json:"address"`
	Balance *uint256.Int `json:"balance,omitempty"`
	Percent float64      `json:"percent"`
	Chains  []uint64     `json:"chains,omitempty"`
}

// IsOthers reports whether this share is the synthetic remainder entry
func (h HolderShare) IsOthers() bool {
	return h.Address == ""
}

// ChainProject identifies one per-chain deployment of a multi-chain treasury
type ChainProject struct {
	ChainID   uint64 `json:"chainId"`
	ProjectID uint64 `json:"projectId"`
}

// Series keys used across merged chart series
const CombinedKey = "combined"

// ChainKey returns the series key for one chain, e.g. "chain-42161"
func ChainKey(chainID uint64) string {
	return fmt.Sprintf("chain-%d", chainID)
}
