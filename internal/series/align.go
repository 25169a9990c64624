// Package series merges day-indexed series from independent sources onto one
// sorted timeline, forward-filling each key's gaps without disturbing the
// others.
package series

import (
	"sort"

	"treasury-charts/internal/timeutil"
	"treasury-charts/models"
)

// Align produces one unified series over the union of source days inside
// [rangeStart, rangeEnd]. Per key, an explicit value wins, otherwise the last
// known value is carried forward; before a key's first data point the key is
// simply absent, a gap is never zero-filled. A source point earlier than the
// range still seeds the carry, so a series that started before the window
// enters it at its last known value instead of vanishing.
func Align(sources map[string][]models.SeriesPoint, rangeStart, rangeEnd int64) []models.DayPoint {
	if len(sources) == 0 {
		return nil
	}
	first := timeutil.DayBoundary(rangeStart)
	last := timeutil.DayBoundary(rangeEnd)
	if first > last {
		return nil
	}

	// union of in-range days across all sources
	daySet := make(map[int64]struct{})
	ordered := make(map[string][]models.SeriesPoint, len(sources))
	for key, points := range sources {
		sorted := make([]models.SeriesPoint, len(points))
		copy(sorted, points)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Day < sorted[j].Day })
		ordered[key] = sorted
		for _, p := range sorted {
			if p.Day >= first && p.Day <= last {
				daySet[p.Day] = struct{}{}
			}
		}
	}
	if len(daySet) == 0 {
		return nil
	}
	days := make([]int64, 0, len(daySet))
	for d := range daySet {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	out := make([]models.DayPoint, len(days))
	for i, d := range days {
		out[i] = models.DayPoint{Day: d, Values: make(map[string]float64)}
	}

	for key, points := range ordered {
		var (
			lastKnown float64
			haveLast  bool
		)
		idx := 0
		// points before the window seed the carry-forward
		for idx < len(points) && points[idx].Day < days[0] {
			lastKnown = points[idx].Value
			haveLast = true
			idx++
		}
		for i, d := range days {
			for idx < len(points) && points[idx].Day <= d {
				lastKnown = points[idx].Value
				haveLast = true
				idx++
			}
			if haveLast {
				out[i].Values[key] = lastKnown
			}
		}
	}
	return out
}
