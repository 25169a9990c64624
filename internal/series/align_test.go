package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treasury-charts/models"
)

const day = int64(86400)

func TestAlignSingleSourceRoundTrip(t *testing.T) {
	// a single source aligned over its exact dates comes back unchanged
	source := []models.SeriesPoint{
		{Day: 0, Value: 10},
		{Day: day, Value: 20},
		{Day: 3 * day, Value: 5},
	}

	merged := Align(map[string][]models.SeriesPoint{"a": source}, 0, 3*day)
	require.Len(t, merged, 3)
	assert.Equal(t, float64(10), merged[0].Values["a"])
	assert.Equal(t, float64(20), merged[1].Values["a"])
	assert.Equal(t, float64(5), merged[2].Values["a"])
}

func TestAlignForwardFillsGaps(t *testing.T) {
	sources := map[string][]models.SeriesPoint{
		"a": {{Day: 0, Value: 1}, {Day: 2 * day, Value: 3}},
		"b": {{Day: day, Value: 100}},
	}

	merged := Align(sources, 0, 2*day)
	require.Len(t, merged, 3)

	// "a" explicit, "b" not yet started
	assert.Equal(t, float64(1), merged[0].Values["a"])
	_, hasB := merged[0].Values["b"]
	assert.False(t, hasB, "no value may be fabricated before a series starts")

	// "a" carried forward, "b" explicit
	assert.Equal(t, float64(1), merged[1].Values["a"])
	assert.Equal(t, float64(100), merged[1].Values["b"])

	// "a" explicit again, "b" carried forward
	assert.Equal(t, float64(3), merged[2].Values["a"])
	assert.Equal(t, float64(100), merged[2].Values["b"])
}

func TestAlignNeverJumpsBack(t *testing.T) {
	sources := map[string][]models.SeriesPoint{
		"a": {{Day: 0, Value: 5}, {Day: day, Value: 9}},
		"b": {{Day: 0, Value: 1}, {Day: 2 * day, Value: 2}},
	}

	merged := Align(sources, 0, 2*day)
	require.Len(t, merged, 3)
	assert.Equal(t, float64(9), merged[1].Values["a"])
	assert.Equal(t, float64(9), merged[2].Values["a"], "updated value must persist")
}

func TestAlignSeedsFromBeforeRange(t *testing.T) {
	sources := map[string][]models.SeriesPoint{
		"a": {{Day: 0, Value: 7}, {Day: 5 * day, Value: 8}},
		"b": {{Day: 3 * day, Value: 1}},
	}

	merged := Align(sources, 2*day, 5*day)
	require.Len(t, merged, 2) // days 3 and 5 have explicit points in range
	assert.Equal(t, int64(3*day), merged[0].Day)
	assert.Equal(t, float64(7), merged[0].Values["a"], "pre-range point seeds the carry")
	assert.Equal(t, float64(8), merged[1].Values["a"])
}

func TestAlignTimelineIsStrictlyIncreasing(t *testing.T) {
	sources := map[string][]models.SeriesPoint{
		"a": {{Day: 2 * day, Value: 1}, {Day: 0, Value: 2}, {Day: day, Value: 3}},
	}

	merged := Align(sources, 0, 3*day)
	require.Len(t, merged, 3)
	for i := 1; i < len(merged); i++ {
		assert.Greater(t, merged[i].Day, merged[i-1].Day)
	}
}

func TestAlignEmptyInputs(t *testing.T) {
	assert.Nil(t, Align(nil, 0, day))
	assert.Nil(t, Align(map[string][]models.SeriesPoint{"a": nil}, 0, day))
	assert.Nil(t, Align(map[string][]models.SeriesPoint{"a": {{Day: 0, Value: 1}}}, day, 0))
}
