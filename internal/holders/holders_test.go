package holders

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treasury-charts/models"
)

func sumPercent(shares []models.HolderShare) float64 {
	var s float64
	for _, h := range shares {
		s += h.Percent
	}
	return s
}

func TestNormalizeAddsOthersRemainder(t *testing.T) {
	// A holds 60%, B holds 30%: a truncated top-2 leaves 10% for Others
	raw := []RawHolder{
		{Address: "A", Balance: uint256.NewInt(600)},
		{Address: "B", Balance: uint256.NewInt(300)},
	}

	shares, err := Normalize(raw, uint256.NewInt(1000))
	require.NoError(t, err)
	require.Len(t, shares, 3)

	assert.InDelta(t, 60, shares[0].Percent, 1e-9)
	assert.InDelta(t, 30, shares[1].Percent, 1e-9)
	assert.True(t, shares[2].IsOthers())
	assert.InDelta(t, 10, shares[2].Percent, 1e-9)
	assert.InDelta(t, 100, sumPercent(shares), 0.1)
}

func TestNormalizeFullCoverageSkipsOthers(t *testing.T) {
	raw := []RawHolder{
		{Address: "A", Balance: uint256.NewInt(999)},
		{Address: "B", Balance: uint256.NewInt(1)},
	}

	shares, err := Normalize(raw, uint256.NewInt(1000))
	require.NoError(t, err)
	require.Len(t, shares, 2)
	assert.InDelta(t, 100, sumPercent(shares), 0.1)
}

func TestNormalizeAwkwardDivisions(t *testing.T) {
	// thirds do not divide evenly; the remainder absorbs the difference
	raw := []RawHolder{
		{Address: "A", Balance: uint256.NewInt(1)},
		{Address: "B", Balance: uint256.NewInt(1)},
	}

	shares, err := Normalize(raw, uint256.NewInt(3))
	require.NoError(t, err)
	require.Len(t, shares, 3)
	assert.InDelta(t, 100, sumPercent(shares), 0.1)
}

func TestNormalizeZeroSupplyIsMalformed(t *testing.T) {
	_, err := Normalize([]RawHolder{{Address: "A", Balance: uint256.NewInt(1)}}, uint256.NewInt(0))
	assert.ErrorIs(t, err, ErrZeroSupply)

	_, err = Normalize([]RawHolder{{Address: "A", Balance: uint256.NewInt(1)}}, nil)
	assert.ErrorIs(t, err, ErrZeroSupply)
}

func TestNormalizeEmptyInput(t *testing.T) {
	shares, err := Normalize(nil, uint256.NewInt(1000))
	require.NoError(t, err)
	assert.Nil(t, shares)
}

func TestFilterChainsRebasesPercentages(t *testing.T) {
	raw := []RawHolder{
		{Address: "A", Balance: uint256.NewInt(600), Chains: []uint64{1}},
		{Address: "B", Balance: uint256.NewInt(300), Chains: []uint64{42161}},
	}
	shares, err := Normalize(raw, uint256.NewInt(1000))
	require.NoError(t, err)

	filtered := FilterChains(shares, []uint64{1})
	require.Len(t, filtered, 1)
	assert.Equal(t, "A", filtered[0].Address)
	// basis is the filtered subtotal, not the original supply
	assert.InDelta(t, 100, filtered[0].Percent, 1e-9)
}

func TestFilterChainsDropsSyntheticEntry(t *testing.T) {
	raw := []RawHolder{
		{Address: "A", Balance: uint256.NewInt(500), Chains: []uint64{1}},
		{Address: "B", Balance: uint256.NewInt(250), Chains: []uint64{1, 10}},
	}
	shares, err := Normalize(raw, uint256.NewInt(1000))
	require.NoError(t, err)
	require.Len(t, shares, 3) // includes Others

	filtered := FilterChains(shares, []uint64{1, 10})
	require.Len(t, filtered, 2)
	assert.InDelta(t, 66.6667, filtered[0].Percent, 1e-3)
	assert.InDelta(t, 33.3333, filtered[1].Percent, 1e-3)
	assert.InDelta(t, 100, sumPercent(filtered), 0.1)
}

func TestFilterChainsNoMatches(t *testing.T) {
	shares := []models.HolderShare{
		{Address: "A", Balance: uint256.NewInt(1), Percent: 100, Chains: []uint64{1}},
	}
	assert.Nil(t, FilterChains(shares, []uint64{8453}))
	assert.Nil(t, FilterChains(shares, nil))
}
