// Package curve evaluates the bonding-curve redemption formula that prices a
// project's claim-token against its treasury:
//
//	valuePerToken(x) = (1 - r) + r*x
//
// where r is the cash-out tax rate and x the fraction of supply redeemed at
// once. At r = 0 the curve degenerates to strict proportionality; at r = 1 a
// marginal cash-out yields nothing.
package curve

import (
	"errors"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"treasury-charts/internal/schedule"
	"treasury-charts/models"
)

// ErrZeroSupply reports a valuation against zero token supply, which is
// undefined; callers skip the point rather than divide by zero.
var ErrZeroSupply = errors.New("curve: token supply is zero")

// rateFraction converts basis points into the r of the curve formula, capped
// to the [0,1] domain
func rateFraction(rateBps uint64) decimal.Decimal {
	if rateBps > schedule.MaxTaxRateBps {
		rateBps = schedule.MaxTaxRateBps
	}
	return decimal.New(int64(rateBps), -4)
}

// ValuePerToken evaluates the normalized curve (1-r) + r*x for x in [0,1].
// Out-of-range x is clamped. The result is in [1-r, 1].
func ValuePerToken(x float64, rateBps uint64) float64 {
	if x < 0 {
		x = 0
	} else if x > 1 {
		x = 1
	}
	r := rateFraction(rateBps)
	xd := decimal.NewFromFloat(x)
	return decimal.NewFromInt(1).Sub(r).Add(r.Mul(xd)).InexactFloat64()
}

// FloorPrice returns the guaranteed minimum payout per token,
// (balance/supply)*(1-r): the value of the curve in the limit x -> 0. It is a
// conservative lower bound, not the value of redeeming the full supply.
// A zero supply is malformed input; a zero balance prices at 0.
func FloorPrice(balance, supply *uint256.Int, rateBps uint64) (float64, error) {
	if supply == nil || supply.IsZero() {
		return 0, ErrZeroSupply
	}
	if balance == nil || balance.IsZero() {
		return 0, nil
	}
	perToken := models.DecimalFromUint(balance).Div(models.DecimalFromUint(supply))
	oneMinusR := decimal.NewFromInt(1).Sub(rateFraction(rateBps))
	return perToken.Mul(oneMinusR).InexactFloat64(), nil
}

// Reclaim returns the absolute redemption amount for cashing out the fraction
// x of supply: (balance/supply) * x*supply * valuePerToken(x), simplified to
// balance * x * ((1-r) + r*x).
func Reclaim(balance, supply *uint256.Int, rateBps uint64, x float64) (float64, error) {
	if supply == nil || supply.IsZero() {
		return 0, ErrZeroSupply
	}
	if balance == nil || balance.IsZero() {
		return 0, nil
	}
	if x < 0 {
		x = 0
	} else if x > 1 {
		x = 1
	}
	xd := decimal.NewFromFloat(x)
	r := rateFraction(rateBps)
	perToken := decimal.NewFromInt(1).Sub(r).Add(r.Mul(xd))
	return models.DecimalFromUint(balance).Mul(xd).Mul(perToken).InexactFloat64(), nil
}

// ShapePoint is one sample of the normalized curve on the unit square
type ShapePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CurveShape samples valuePerToken at n+1 evenly spaced points on [0,1] for
// the illustrative redemption-curve visual. It carries no financial meaning
// beyond the shape. n < 1 falls back to a single segment.
func CurveShape(rateBps uint64, n int) []ShapePoint {
	if n < 1 {
		n = 1
	}
	points := make([]ShapePoint, 0, n+1)
	for i := 0; i <= n; i++ {
		x := float64(i) / float64(n)
		points = append(points, ShapePoint{X: x, Y: ValuePerToken(x, rateBps)})
	}
	return points
}
