package core

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"treasury-charts/internal/curve"
	"treasury-charts/internal/holders"
	"treasury-charts/internal/replay"
	"treasury-charts/internal/schedule"
	"treasury-charts/internal/series"
	"treasury-charts/internal/timeutil"
	"treasury-charts/internal/volume"
	"treasury-charts/models"
)

// Series keys of the merged price chart
const (
	KeyCashOutPrice  = "cashOutPrice"
	KeyIssuancePrice = "issuancePrice"
	KeyPoolPrice     = "poolPrice"
)

// BalanceOverTime reconstructs the treasury balance per connected chain plus
// a combined total, merged onto one forward-filled timeline. A chain whose
// fetch fails is logged and absent from the output; only all chains failing
// is an error.
func (b *ChartBuilder) BalanceOverTime(ctx context.Context, ref ProjectRef, rangeStart, rangeEnd int64) ([]models.DayPoint, error) {
	chains := b.connectedChains(ctx, ref)
	results := b.fetchAllChains(ctx, chains)

	perChain, merged, err := replayPerChain(results)
	if err != nil {
		return nil, err
	}
	if len(merged) > 0 {
		combined, err := replay.ReplayAll(merged)
		if err != nil {
			return nil, err
		}
		if len(combined) > 0 {
			perChain[models.CombinedKey] = combined
		}
	}
	return series.Align(perChain, rangeStart, rangeEnd), nil
}

// VolumeOverTime buckets payments into daily count and volume totals over the
// range, empty days included, with a per-chain breakdown on every point.
func (b *ChartBuilder) VolumeOverTime(ctx context.Context, ref ProjectRef, rangeStart, rangeEnd int64) ([]models.VolumeDayPoint, error) {
	chains := b.connectedChains(ctx, ref)
	results := b.fetchAllChains(ctx, chains)

	var merged []models.Event
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			continue
		}
		merged = append(merged, r.events...)
	}
	if failed == len(results) && len(results) > 0 {
		return nil, ErrAllChainsFailed
	}
	return volume.Aggregate(merged, rangeStart, rangeEnd)
}

// PriceOverTime builds the price chart lines: the cash-out floor price per
// Moment, the stepped issuance price, plus the external pool price when a
// source is wired. Lines are aligned so a gap in one is forward-filled
// without disturbing the others.
func (b *ChartBuilder) PriceOverTime(ctx context.Context, ref ProjectRef, rangeStart, rangeEnd int64) ([]models.DayPoint, error) {
	moments, err := b.sources.Snapshots.GroupMoments(ctx, ref.GroupID, b.cfg.MomentLimit)
	if err != nil {
		return nil, fmt.Errorf("group moments: %w", err)
	}
	taxes, err := b.sources.Snapshots.TaxSnapshots(ctx, ref.GroupID)
	if err != nil {
		return nil, fmt.Errorf("tax snapshots: %w", err)
	}
	rulesets, err := b.sources.Snapshots.RulesetPeriods(ctx, ref.GroupID)
	if err != nil {
		return nil, fmt.Errorf("ruleset periods: %w", err)
	}

	sorted := sortMoments(moments)

	lines := map[string][]models.SeriesPoint{}
	if floor := b.floorPriceSeries(sorted, taxes); len(floor) > 0 {
		lines[KeyCashOutPrice] = floor
	}
	if issuance := issuanceSeries(rulesets, sorted, rangeStart, rangeEnd); len(issuance) > 0 {
		lines[KeyIssuancePrice] = issuance
	}
	if pool := b.poolPriceSeries(ctx, ref, rangeStart, rangeEnd); len(pool) > 0 {
		lines[KeyPoolPrice] = pool
	}
	return series.Align(lines, rangeStart, rangeEnd), nil
}

// floorPriceSeries prices every Moment at the tax rate effective at its own
// timestamp. The rate is re-resolved per Moment, never memoized, because
// schedules are supplied per treasury per run. Moments with zero supply are
// skipped. Last Moment of a day wins.
func (b *ChartBuilder) floorPriceSeries(sorted []models.Moment, taxes []models.TaxSnapshot) []models.SeriesPoint {
	byDay := map[int64]float64{}
	var days []int64
	for _, m := range sorted {
		rate := schedule.EffectiveTaxRate(taxes, m.Timestamp)
		price, err := curve.FloorPrice(m.Balance, m.TokenSupply, rate)
		if err != nil {
			if errors.Is(err, curve.ErrZeroSupply) {
				continue
			}
			b.log.Warn("skipping unpriceable moment",
				zap.Int64("timestamp", m.Timestamp), zap.Error(err))
			continue
		}
		day := timeutil.DayBoundary(m.Timestamp)
		if _, seen := byDay[day]; !seen {
			days = append(days, day)
		}
		byDay[day] = price
	}
	points := make([]models.SeriesPoint, 0, len(days))
	for _, d := range days {
		points = append(points, models.SeriesPoint{Day: d, Value: byDay[d]})
	}
	return points
}

// issuanceSeries evaluates the stepped 1/weight price at every ruleset
// boundary inside the range and at every Moment timestamp, so the line both
// steps where rulesets change and extends alongside the other series
func issuanceSeries(rulesets []models.RulesetPeriod, sorted []models.Moment, rangeStart, rangeEnd int64) []models.SeriesPoint {
	stamps := make([]int64, 0, len(rulesets)+len(sorted))
	for _, p := range rulesets {
		if p.Start >= rangeStart && p.Start <= rangeEnd {
			stamps = append(stamps, p.Start)
		}
	}
	for _, m := range sorted {
		stamps = append(stamps, m.Timestamp)
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i] < stamps[j] })

	byDay := map[int64]float64{}
	var days []int64
	for _, ts := range stamps {
		price, ok := schedule.IssuancePrice(rulesets, ts)
		if !ok {
			continue
		}
		day := timeutil.DayBoundary(ts)
		if _, seen := byDay[day]; !seen {
			days = append(days, day)
		}
		byDay[day] = price
	}
	points := make([]models.SeriesPoint, 0, len(days))
	for _, d := range days {
		points = append(points, models.SeriesPoint{Day: d, Value: byDay[d]})
	}
	return points
}

// poolPriceSeries fetches the optional secondary-market price line through
// the TTL cache. Pool price failures only cost the pool line, never the
// chart.
func (b *ChartBuilder) poolPriceSeries(ctx context.Context, ref ProjectRef, rangeStart, rangeEnd int64) []models.SeriesPoint {
	if b.sources.PoolPrices == nil {
		return nil
	}
	key := fmt.Sprintf("%s:%d:%d", ref.GroupID, timeutil.DayBoundary(rangeStart), timeutil.DayBoundary(rangeEnd))
	if cached, ok := b.poolPrices.Get(key); ok {
		return cached
	}
	points, err := b.sources.PoolPrices.PoolPrices(ctx, ref.GroupID, rangeStart, rangeEnd)
	if err != nil {
		b.log.Warn("pool price fetch failed, omitting pool line",
			zap.String("groupId", ref.GroupID), zap.Error(err))
		return nil
	}
	b.poolPrices.Put(key, points)
	return points
}

// CashOutComparison builds one line per target chain valuing that chain's
// reconstructed balance against the shared cross-chain token supply and the
// resolved tax rate.
//
// This is a deliberately hypothetical comparison metric: it answers "what
// would a token be worth if the whole supply were redeemed against this one
// chain's balance". It is NOT a redeemable value on that chain and must not
// be presented as a real balance.
//
// An empty targetChains compares every connected chain; naming a chain
// outside the topology is an explicit failure.
func (b *ChartBuilder) CashOutComparison(ctx context.Context, ref ProjectRef, targetChains []uint64, rangeStart, rangeEnd int64) ([]models.DayPoint, error) {
	chains := b.connectedChains(ctx, ref)
	known := make(map[uint64]models.ChainProject, len(chains))
	for _, c := range chains {
		known[c.ChainID] = c
	}

	targets := chains
	if len(targetChains) > 0 {
		targets = targets[:0:0]
		for _, id := range targetChains {
			cp, ok := known[id]
			if !ok {
				return nil, fmt.Errorf("%w: %d", ErrUnknownChain, id)
			}
			targets = append(targets, cp)
		}
	}

	moments, err := b.sources.Snapshots.GroupMoments(ctx, ref.GroupID, b.cfg.MomentLimit)
	if err != nil {
		return nil, fmt.Errorf("group moments: %w", err)
	}
	taxes, err := b.sources.Snapshots.TaxSnapshots(ctx, ref.GroupID)
	if err != nil {
		return nil, fmt.Errorf("tax snapshots: %w", err)
	}
	supplyAt := supplyLookup(sortMoments(moments))

	results := b.fetchAllChains(ctx, targets)
	perChain, _, err := replayPerChain(results)
	if err != nil {
		return nil, err
	}

	valued := make(map[string][]models.SeriesPoint, len(perChain))
	for key, balances := range perChain {
		var points []models.SeriesPoint
		for _, p := range balances {
			supply, ok := supplyAt(p.Day)
			if !ok || supply == 0 {
				continue // no supply known yet; skip rather than divide by zero
			}
			rate := schedule.EffectiveTaxRate(taxes, p.Day)
			r := float64(rate) / float64(schedule.MaxTaxRateBps)
			points = append(points, models.SeriesPoint{
				Day:   p.Day,
				Value: p.Value / supply * (1 - r),
			})
		}
		if len(points) > 0 {
			valued[key] = points
		}
	}
	return series.Align(valued, rangeStart, rangeEnd), nil
}

// HolderPie normalizes the top-N holder balances against the latest known
// token supply, with the synthetic remainder entry when the list is
// truncated.
func (b *ChartBuilder) HolderPie(ctx context.Context, ref ProjectRef) ([]models.HolderShare, error) {
	raw, err := b.sources.Holders.TopHolders(ctx, ref.GroupID, b.cfg.TopHolderLimit)
	if err != nil {
		return nil, fmt.Errorf("top holders: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	moments, err := b.sources.Snapshots.GroupMoments(ctx, ref.GroupID, b.cfg.MomentLimit)
	if err != nil {
		return nil, fmt.Errorf("group moments: %w", err)
	}
	latest := latestMoment(moments)
	if latest == nil {
		return nil, nil // no snapshot yet: nothing to normalize against
	}
	shares, err := holders.Normalize(raw, latest.TokenSupply)
	if err != nil {
		return nil, fmt.Errorf("holder distribution: %w", err)
	}
	return shares, nil
}

// RedemptionCurve samples the normalized bonding curve at the tax rate
// effective at the given timestamp, for the illustrative curve visual
func (b *ChartBuilder) RedemptionCurve(ctx context.Context, ref ProjectRef, at int64) ([]curve.ShapePoint, error) {
	taxes, err := b.sources.Snapshots.TaxSnapshots(ctx, ref.GroupID)
	if err != nil {
		return nil, fmt.Errorf("tax snapshots: %w", err)
	}
	rate := schedule.EffectiveTaxRate(taxes, at)
	return curve.CurveShape(rate, b.cfg.CurveSamples), nil
}

// sortMoments returns a copy sorted ascending by timestamp
func sortMoments(moments []models.Moment) []models.Moment {
	sorted := make([]models.Moment, len(moments))
	copy(sorted, moments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})
	return sorted
}

// latestMoment returns the newest moment, or nil when there are none
func latestMoment(moments []models.Moment) *models.Moment {
	var latest *models.Moment
	for i := range moments {
		if latest == nil || moments[i].Timestamp > latest.Timestamp {
			latest = &moments[i]
		}
	}
	return latest
}

// supplyLookup builds a carry-forward day lookup of the cross-chain token
// supply from sorted moments: the supply at a day is the supply of the last
// moment on or before that day, false before the first one
func supplyLookup(sorted []models.Moment) func(day int64) (float64, bool) {
	type point struct {
		day    int64
		supply float64
	}
	var points []point
	for _, m := range sorted {
		day := timeutil.DayBoundary(m.Timestamp)
		supply := models.DecimalFromUint(m.TokenSupply).InexactFloat64()
		if n := len(points); n > 0 && points[n-1].day == day {
			points[n-1].supply = supply // last snapshot of a day wins
			continue
		}
		points = append(points, point{day: day, supply: supply})
	}
	return func(day int64) (float64, bool) {
		idx := sort.Search(len(points), func(i int) bool { return points[i].day > day })
		if idx == 0 {
			return 0, false
		}
		return points[idx-1].supply, true
	}
}
