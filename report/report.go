// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

// Package report renders a compare.ComparisonReport as the textual stdout
// table spec.md §6 asks for: source, observations, wins, mean_gap_ms, p50,
// p90, p99.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/corvus-labs/geyserbench/compare"
)

var winnerColor = color.New(color.FgGreen)

// WriteTable prints r's per-source statistics as an aligned table. The
// source with the most wins is highlighted when stdout is a terminal.
func WriteTable(w io.Writer, r compare.ComparisonReport) {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "source\tobservations\twins\tmean_gap_ms\tp50\tp90\tp99")

	topWins := -1
	for _, s := range r.Sources {
		if s.Wins > topWins {
			topWins = s.Wins
		}
	}

	for _, s := range r.Sources {
		name := s.Source
		if s.Wins == topWins && topWins > 0 {
			name = winnerColor.Sprint(s.Source)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.3f\t%.3f\t%.3f\t%.3f\n",
			name, s.Observations, s.Wins,
			ms(s.MeanGap), ms(s.P50Gap), ms(s.P90Gap), ms(s.P99Gap))
	}
	tw.Flush()
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
