// Package source declares the boundary contracts of the reconstruction
// engine. The engine never fetches anything itself: the chat/dashboard
// application plugs in implementations backed by its indexer and subgraph
// clients, and the engine consumes already-fetched events and snapshots.
// Ordering of fetched data is not guaranteed by any source; the engine sorts.
// Retry policy belongs to implementations, never to the engine.
package source

import (
	"context"

	"github.com/holiman/uint256"

	"treasury-charts/internal/holders"
	"treasury-charts/models"
)

// PayEvent is a raw payment as supplied by the event source
type PayEvent struct {
	Timestamp int64        `json:"timestamp"`
	Amount    *uint256.Int `json:"amount"`
	From      string       `json:"from"`
}

// CashOutEvent is a raw redemption as supplied by the event source
type CashOutEvent struct {
	Timestamp     int64        `json:"timestamp"`
	ReclaimAmount *uint256.Int `json:"reclaimAmount"`
	From          string       `json:"from"`
}

// EventSource supplies the append-only payment / cash-out log per chain
type EventSource interface {
	PayEvents(ctx context.Context, projectID, chainID uint64) ([]PayEvent, error)
	CashOutEvents(ctx context.Context, projectID, chainID uint64) ([]CashOutEvent, error)
}

// SnapshotSource supplies the periodic cross-chain snapshots and the
// piecewise schedules of one sucker group
type SnapshotSource interface {
	GroupMoments(ctx context.Context, groupID string, limit int) ([]models.Moment, error)
	TaxSnapshots(ctx context.Context, groupID string) ([]models.TaxSnapshot, error)
	RulesetPeriods(ctx context.Context, groupID string) ([]models.RulesetPeriod, error)
}

// TopologySource discovers which per-chain project deployments belong to the
// same logical multi-chain treasury
type TopologySource interface {
	ConnectedChains(ctx context.Context, projectID, chainID uint64) ([]models.ChainProject, error)
}

// PoolPriceSource supplies an external secondary-market price series, when a
// pool exists. Optional: a nil source simply omits the pool price line.
type PoolPriceSource interface {
	PoolPrices(ctx context.Context, groupID string, rangeStart, rangeEnd int64) ([]models.SeriesPoint, error)
}

// HolderSource supplies the (possibly truncated) top-N holder balances
type HolderSource interface {
	TopHolders(ctx context.Context, groupID string, limit int) ([]holders.RawHolder, error)
}

// Events converts raw pays and cash-outs into the engine's event type,
// stamping every event with the chain it came from
func Events(pays []PayEvent, cashOuts []CashOutEvent, chainID uint64) []models.Event {
	events := make([]models.Event, 0, len(pays)+len(cashOuts))
	for _, p := range pays {
		events = append(events, models.Event{
			Timestamp: p.Timestamp,
			Amount:    p.Amount,
			ChainID:   chainID,
			Kind:      models.Pay,
			From:      p.From,
		})
	}
	for _, c := range cashOuts {
		events = append(events, models.Event{
			Timestamp: c.Timestamp,
			Amount:    c.ReclaimAmount,
			ChainID:   chainID,
			Kind:      models.CashOut,
			From:      c.From,
		})
	}
	return events
}
