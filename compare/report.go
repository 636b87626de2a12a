// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

package compare

import (
	"sort"
	"time"
)

// SourceStats aggregates one source's performance across every signature in
// a run's final report.
type SourceStats struct {
	Source       string
	Observations int
	Wins         int
	MeanGap      time.Duration
	P50Gap       time.Duration
	P90Gap       time.Duration
	P99Gap       time.Duration
}

// SignatureResult is one signature's cross-source breakdown.
type SignatureResult struct {
	Signature string
	Winner    string
	Gaps      map[string]time.Duration // source -> gap vs. winner, non-negative
	Missing   []string                 // sources that never observed this signature
}

// ComparisonReport is the deterministic, sorted-by-source-name end-of-run
// output of the Comparator.
type ComparisonReport struct {
	Sources    []SourceStats
	Signatures []SignatureResult
}

// Report computes the final cross-source latency comparison. It is called
// once, after every producer has exited and drained into the Comparator.
func (c *Comparator) Report() ComparisonReport {
	c.mu.Lock()
	defer c.mu.Unlock()

	allSources := make([]string, 0, len(c.sourcesSeen))
	for s := range c.sourcesSeen {
		allSources = append(allSources, s)
	}
	sort.Strings(allSources)

	gapsBySource := make(map[string][]time.Duration)
	observationsBySource := make(map[string]int)
	winsBySource := make(map[string]int)

	sigs := make([]string, 0, len(c.bySignature))
	for sig := range c.bySignature {
		sigs = append(sigs, sig)
	}
	sort.Strings(sigs)

	results := make([]SignatureResult, 0, len(sigs))
	for _, sig := range sigs {
		bySource := c.bySignature[sig]

		var winnerElapsed time.Duration
		first := true
		for _, tx := range bySource {
			if first || tx.ElapsedSinceStart < winnerElapsed {
				winnerElapsed = tx.ElapsedSinceStart
				first = false
			}
		}

		var winners []string
		for src, tx := range bySource {
			observationsBySource[src]++
			if tx.ElapsedSinceStart == winnerElapsed {
				winners = append(winners, src)
			}
		}
		sort.Strings(winners)
		for _, w := range winners {
			winsBySource[w]++
		}

		gaps := make(map[string]time.Duration, len(bySource))
		var missing []string
		for _, src := range allSources {
			tx, ok := bySource[src]
			if !ok {
				missing = append(missing, src)
				continue
			}
			gap := tx.ElapsedSinceStart - winnerElapsed
			gaps[src] = gap
			// A source's own wins (gap == 0) are excluded from its gap
			// distribution; only losses contribute to mean/percentile gap.
			if gap > 0 {
				gapsBySource[src] = append(gapsBySource[src], gap)
			}
		}

		winner := ""
		if len(winners) > 0 {
			winner = winners[0]
		}

		results = append(results, SignatureResult{
			Signature: sig,
			Winner:    winner,
			Gaps:      gaps,
			Missing:   missing,
		})
	}

	stats := make([]SourceStats, 0, len(allSources))
	for _, src := range allSources {
		gaps := gapsBySource[src]
		sort.Slice(gaps, func(i, j int) bool { return gaps[i] < gaps[j] })
		stats = append(stats, SourceStats{
			Source:       src,
			Observations: observationsBySource[src],
			Wins:         winsBySource[src],
			MeanGap:      meanDuration(gaps),
			P50Gap:       percentileDuration(gaps, 0.50),
			P90Gap:       percentileDuration(gaps, 0.90),
			P99Gap:       percentileDuration(gaps, 0.99),
		})
	}

	return ComparisonReport{Sources: stats, Signatures: results}
}

func meanDuration(ds []time.Duration) time.Duration {
	if len(ds) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range ds {
		sum += d
	}
	return sum / time.Duration(len(ds))
}

// percentileDuration assumes ds is sorted ascending.
func percentileDuration(ds []time.Duration, p float64) time.Duration {
	if len(ds) == 0 {
		return 0
	}
	idx := int(p * float64(len(ds)-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(ds) {
		idx = len(ds) - 1
	}
	return ds[idx]
}
