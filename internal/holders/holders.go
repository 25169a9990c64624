// Package holders converts raw participant balances into percentage shares
// that always reconcile to 100, adding a synthetic remainder entry when the
// supplied list is a truncated top-N of the real holder set.
package holders

import (
	"errors"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"treasury-charts/models"
)

// ErrZeroSupply reports a distribution normalized against a zero total supply
var ErrZeroSupply = errors.New("holders: total supply is zero")

// othersThreshold: when the listed shares already cover at least 99.9% of the
// basis, the top-N is essentially the whole supply and no remainder is added
const othersThreshold = 99.9

// RawHolder is the unnormalized input shape supplied by the indexer
type RawHolder struct {
	Address string       `json:"address"`
	Balance *uint256.Int `json:"balance"`
	Chains  []uint64     `json:"chains,omitempty"`
}

var oneHundred = decimal.NewFromInt(100)

// Normalize computes percent shares against totalSupply. Percentages are
// derived through decimals from the uint256 inputs, so nothing is lost before
// the final float. When the listed shares sum below 99.9% a synthetic
// "Others" entry (empty address) is appended so the total is always 100.
func Normalize(raw []RawHolder, totalSupply *uint256.Int) ([]models.HolderShare, error) {
	if totalSupply == nil || totalSupply.IsZero() {
		return nil, ErrZeroSupply
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return normalizeAgainst(raw, models.DecimalFromUint(totalSupply)), nil
}

// FilterChains recomputes a distribution for a subset of chains. Filtering
// changes the percentage basis: shares are re-expressed against the filtered
// subtotal, not the original total supply, and the remainder entry is rebuilt
// for that subtotal. The synthetic entry of the input is discarded first since
// it has no chain identity.
func FilterChains(shares []models.HolderShare, chains []uint64) []models.HolderShare {
	if len(chains) == 0 {
		return nil
	}
	wanted := make(map[uint64]struct{}, len(chains))
	for _, c := range chains {
		wanted[c] = struct{}{}
	}

	var raw []RawHolder
	subtotal := decimal.Zero
	for _, s := range shares {
		if s.IsOthers() || s.Balance == nil {
			continue
		}
		if !onAnyChain(s.Chains, wanted) {
			continue
		}
		raw = append(raw, RawHolder{Address: s.Address, Balance: s.Balance, Chains: s.Chains})
		subtotal = subtotal.Add(models.DecimalFromUint(s.Balance))
	}
	if len(raw) == 0 || subtotal.IsZero() {
		return nil
	}
	return normalizeAgainst(raw, subtotal)
}

func onAnyChain(have []uint64, wanted map[uint64]struct{}) bool {
	for _, c := range have {
		if _, ok := wanted[c]; ok {
			return true
		}
	}
	return false
}

func normalizeAgainst(raw []RawHolder, basis decimal.Decimal) []models.HolderShare {
	shares := make([]models.HolderShare, 0, len(raw)+1)
	sum := decimal.Zero
	for _, h := range raw {
		pct := models.DecimalFromUint(h.Balance).Mul(oneHundred).Div(basis)
		sum = sum.Add(pct)
		shares = append(shares, models.HolderShare{
			Address: h.Address,
			Balance: models.CloneAmount(h.Balance),
			Percent: pct.InexactFloat64(),
			Chains:  h.Chains,
		})
	}
	if sum.LessThan(decimal.NewFromFloat(othersThreshold)) {
		shares = append(shares, models.HolderShare{
			Percent: oneHundred.Sub(sum).InexactFloat64(),
		})
	}
	return shares
}
