// Package core orchestrates the pure reconstruction components into the
// series each dashboard chart needs: fetch inputs, compute, emit. All
// arithmetic lives in the internal packages; this layer only coordinates
// fetches, isolates per-chain failures and joins results.
package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"treasury-charts/config"
	"treasury-charts/internal/replay"
	"treasury-charts/internal/source"
	"treasury-charts/models"
	"treasury-charts/storage"
)

// ErrUnknownChain reports a requested chain that is not part of the
// treasury's connected-chain topology
var ErrUnknownChain = errors.New("core: chain is not part of this treasury")

// ErrAllChainsFailed reports that no chain produced any data
var ErrAllChainsFailed = errors.New("core: every connected chain failed to fetch")

// ProjectRef identifies one logical treasury: the project on its home chain
// plus the sucker group that ties its per-chain deployments together
type ProjectRef struct {
	ProjectID uint64 `json:"projectId"`
	ChainID   uint64 `json:"chainId"`
	GroupID   string `json:"groupId"`
}

// Sources bundles the boundary contracts the builder consumes. PoolPrices is
// optional; a nil source omits the pool price line.
type Sources struct {
	Events     source.EventSource
	Snapshots  source.SnapshotSource
	Topology   source.TopologySource
	PoolPrices source.PoolPriceSource
	Holders    source.HolderSource
}

// ChartBuilder assembles chart series from raw indexer data. Safe for
// concurrent use: every build takes immutable inputs and returns fresh
// output.
type ChartBuilder struct {
	cfg     *config.Config
	log     *zap.Logger
	sources Sources
	workers pond.Pool

	poolPrices *storage.Cache[[]models.SeriesPoint]
	topology   *storage.Cache[[]models.ChainProject]
}

// NewChartBuilder creates a builder. A nil config uses defaults; a nil logger
// logs nowhere.
func NewChartBuilder(cfg *config.Config, log *zap.Logger, sources Sources) *ChartBuilder {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ChartBuilder{
		cfg:        cfg,
		log:        log,
		sources:    sources,
		workers:    pond.NewPool(cfg.MaxWorkers),
		poolPrices: storage.NewCache[[]models.SeriesPoint](cfg.PoolPriceTTL, nil),
		topology:   storage.NewCache[[]models.ChainProject](cfg.TopologyTTL, nil),
	}
}

// Close stops the worker pool and waits for in-flight builds
func (b *ChartBuilder) Close() {
	b.workers.StopAndWait()
}

// connectedChains discovers the per-chain deployments of one treasury,
// cached by (chainId, projectId). A failed discovery degrades to the home
// chain alone rather than aborting the chart.
func (b *ChartBuilder) connectedChains(ctx context.Context, ref ProjectRef) []models.ChainProject {
	key := fmt.Sprintf("%d:%d", ref.ChainID, ref.ProjectID)
	if cached, ok := b.topology.Get(key); ok {
		return cached
	}

	chains, err := b.sources.Topology.ConnectedChains(ctx, ref.ProjectID, ref.ChainID)
	if err != nil {
		b.log.Warn("connected chain discovery failed, using home chain only",
			zap.Uint64("chainId", ref.ChainID),
			zap.Uint64("projectId", ref.ProjectID),
			zap.Error(err))
		return []models.ChainProject{{ChainID: ref.ChainID, ProjectID: ref.ProjectID}}
	}

	home := false
	for _, c := range chains {
		if c.ChainID == ref.ChainID {
			home = true
			break
		}
	}
	if !home {
		chains = append([]models.ChainProject{{ChainID: ref.ChainID, ProjectID: ref.ProjectID}}, chains...)
	}
	b.topology.Put(key, chains)
	return chains
}

// chainEvents is one chain's fetched and replayed slice of the treasury
type chainEvents struct {
	chain  models.ChainProject
	events []models.Event
	err    error
}

// fetchAllChains fans out one fetch per connected chain on the worker pool
// and joins the results. Each worker writes only its own slot; a failed chain
// carries its error in-slot and is handled by the caller.
func (b *ChartBuilder) fetchAllChains(ctx context.Context, chains []models.ChainProject) []chainEvents {
	results := make([]chainEvents, len(chains))
	group := b.workers.NewGroupContext(ctx)
	groupCtx := group.Context()

	for i, cp := range chains {
		i, cp := i, cp
		results[i].chain = cp
		group.Submit(func() {
			if err := groupCtx.Err(); err != nil {
				results[i].err = err
				return
			}
			pays, err := b.sources.Events.PayEvents(groupCtx, cp.ProjectID, cp.ChainID)
			if err != nil {
				results[i].err = fmt.Errorf("pay events: %w", err)
				return
			}
			cashOuts, err := b.sources.Events.CashOutEvents(groupCtx, cp.ProjectID, cp.ChainID)
			if err != nil {
				results[i].err = fmt.Errorf("cash out events: %w", err)
				return
			}
			results[i].events = source.Events(pays, cashOuts, cp.ChainID)
		})
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
		b.log.Warn("chain fan-out finished with errors", zap.Error(err))
	}

	for _, r := range results {
		if r.err != nil {
			b.log.Warn("chain fetch failed, excluding from merged result",
				zap.Uint64("chainId", r.chain.ChainID),
				zap.Uint64("projectId", r.chain.ProjectID),
				zap.Error(r.err))
		}
	}
	return results
}

// replayPerChain converts fetch results into per-chain balance series keyed
// for the aligner, plus the merged event set of the successful chains
func replayPerChain(results []chainEvents) (map[string][]models.SeriesPoint, []models.Event, error) {
	perChain := make(map[string][]models.SeriesPoint)
	var merged []models.Event
	var failures []error

	for _, r := range results {
		if r.err != nil {
			failures = append(failures, r.err)
			continue
		}
		points, err := replay.Replay(r.events, r.chain.ChainID)
		if err != nil {
			// malformed data is an upstream bug and must surface
			return nil, nil, err
		}
		if len(points) > 0 {
			perChain[models.ChainKey(r.chain.ChainID)] = points
		}
		merged = append(merged, r.events...)
	}

	if len(failures) == len(results) && len(results) > 0 {
		return nil, nil, fmt.Errorf("%w: %w", ErrAllChainsFailed, errors.Join(failures...))
	}
	return perChain, merged, nil
}
