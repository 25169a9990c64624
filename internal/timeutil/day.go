package timeutil

// SecondsPerDay is the fixed length of a UTC day bucket
const SecondsPerDay int64 = 86400

// DayBoundary returns the UTC midnight of the day containing ts.
// This is the alignment key that lets events, snapshots and schedules from
// independently-clocked chains be compared positionally.
func DayBoundary(ts int64) int64 {
	if ts < 0 {
		return 0
	}
	return (ts / SecondsPerDay) * SecondsPerDay
}

// DayRange returns every day boundary from start to end inclusive, in
// ascending order. Both bounds are snapped to their day boundary first.
// An inverted range yields nil.
func DayRange(start, end int64) []int64 {
	first := DayBoundary(start)
	last := DayBoundary(end)
	if first > last {
		return nil
	}
	days := make([]int64, 0, (last-first)/SecondsPerDay+1)
	for d := first; d <= last; d += SecondsPerDay {
		days = append(days, d)
	}
	return days
}
