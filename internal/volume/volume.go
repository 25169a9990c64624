// Package volume buckets raw payment events into daily totals over a bounded
// date range, one point per calendar day including empty ones.
package volume

import (
	"errors"
	"fmt"

	"github.com/axiomhq/hyperloglog"
	"github.com/holiman/uint256"

	"treasury-charts/internal/timeutil"
	"treasury-charts/models"
)

// ErrNilAmount reports a payment with no amount, an upstream data bug
var ErrNilAmount = errors.New("volume: pay event has nil amount")

type dayBucket struct {
	count    int
	volume   *uint256.Int
	payers   *hyperloglog.Sketch
	perChain map[uint64]models.ChainVolume
}

// Aggregate sums payment counts and volumes per UTC day across
// [rangeStart, rangeEnd] inclusive. Amounts accumulate as uint256, never as
// floats. Days with no payments are emitted with zero count and volume so the
// output always has exactly one point per calendar day. Non-Pay events are
// ignored. Each day also carries a per-chain breakdown and a HyperLogLog
// estimate of distinct payer addresses.
func Aggregate(events []models.Event, rangeStart, rangeEnd int64) ([]models.VolumeDayPoint, error) {
	days := timeutil.DayRange(rangeStart, rangeEnd)
	if len(days) == 0 {
		return nil, nil
	}
	first, last := days[0], days[len(days)-1]

	buckets := make(map[int64]*dayBucket)
	for _, e := range events {
		if e.Kind != models.Pay {
			continue
		}
		day := timeutil.DayBoundary(e.Timestamp)
		if day < first || day > last {
			continue
		}
		if e.Amount == nil {
			return nil, fmt.Errorf("%w (chain %d, ts %d)", ErrNilAmount, e.ChainID, e.Timestamp)
		}

		b, ok := buckets[day]
		if !ok {
			b = &dayBucket{
				volume:   new(uint256.Int),
				payers:   hyperloglog.New16(),
				perChain: make(map[uint64]models.ChainVolume),
			}
			buckets[day] = b
		}
		b.count++
		b.volume.Add(b.volume, e.Amount)
		if e.From != "" {
			b.payers.Insert([]byte(e.From))
		}

		cv := b.perChain[e.ChainID]
		if cv.Volume == nil {
			cv.Volume = new(uint256.Int)
		}
		cv.Count++
		cv.Volume.Add(cv.Volume, e.Amount)
		b.perChain[e.ChainID] = cv
	}

	points := make([]models.VolumeDayPoint, 0, len(days))
	for _, day := range days {
		b, ok := buckets[day]
		if !ok {
			points = append(points, models.VolumeDayPoint{Day: day, Count: 0, Volume: new(uint256.Int)})
			continue
		}
		points = append(points, models.VolumeDayPoint{
			Day:          day,
			Count:        b.count,
			Volume:       b.volume,
			UniquePayers: int(b.payers.Estimate()),
			PerChain:     b.perChain,
		})
	}
	return points, nil
}
