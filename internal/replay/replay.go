// Package replay reconstructs a per-chain treasury balance series from the
// append-only payment / cash-out event log: an arena of immutable events and a
// pure fold, no shared mutable state.
package replay

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"treasury-charts/internal/timeutil"
	"treasury-charts/models"
)

var (
	// ErrNilAmount reports an event with no amount, an upstream data bug
	ErrNilAmount = errors.New("replay: event has nil amount")
	// ErrBalanceOverflow reports a pay total past 2^256, an upstream data bug
	ErrBalanceOverflow = errors.New("replay: running balance overflows uint256")
)

// Replay folds the events of one chain into a day-indexed balance series.
// Events of other chains are ignored; the remainder is sorted by timestamp
// (ties keep arrival order) and walked with a running balance that grows by
// Pay amounts and shrinks by CashOut amounts, clamped at zero. Within a day
// the last observed balance wins, matching "balance at end of day".
//
// No forward-fill happens here: gaps are filled by the series aligner once
// every source is merged onto the requested timeline.
func Replay(events []models.Event, chainID uint64) ([]models.SeriesPoint, error) {
	filtered := make([]models.Event, 0, len(events))
	for _, e := range events {
		if e.ChainID != chainID {
			continue
		}
		filtered = append(filtered, e)
	}
	return fold(filtered)
}

// ReplayAll folds the events of every chain into one combined balance series,
// with the same ordering, clamping and last-write-wins-per-day semantics as
// the per-chain replay.
func ReplayAll(events []models.Event) ([]models.SeriesPoint, error) {
	return fold(events)
}

func fold(events []models.Event) ([]models.SeriesPoint, error) {
	for _, e := range events {
		if e.Amount == nil {
			return nil, fmt.Errorf("%w (chain %d, ts %d)", ErrNilAmount, e.ChainID, e.Timestamp)
		}
	}
	if len(events) == 0 {
		return nil, nil
	}
	sorted := models.SortEventsByTime(events)

	balance := new(uint256.Int)
	byDay := make(map[int64]float64)
	days := make([]int64, 0, len(sorted))

	for _, e := range sorted {
		switch e.Kind {
		case models.Pay:
			sum, overflow := new(uint256.Int).AddOverflow(balance, e.Amount)
			if overflow {
				return nil, fmt.Errorf("%w (chain %d, ts %d)", ErrBalanceOverflow, e.ChainID, e.Timestamp)
			}
			balance = sum
		case models.CashOut:
			diff, underflow := new(uint256.Int).SubOverflow(balance, e.Amount)
			if underflow {
				// a cash-out past the reconstructed balance is a data anomaly,
				// never a negative balance downstream
				diff = new(uint256.Int)
			}
			balance = diff
		}

		day := timeutil.DayBoundary(e.Timestamp)
		if _, seen := byDay[day]; !seen {
			days = append(days, day)
		}
		byDay[day] = models.DecimalFromUint(balance).InexactFloat64()
	}

	// sorted input means days were appended in ascending order already
	points := make([]models.SeriesPoint, 0, len(days))
	for _, day := range days {
		points = append(points, models.SeriesPoint{Day: day, Value: byDay[day]})
	}
	return points, nil
}
