// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/corvus-labs/geyserbench/compare"
)

func TestWriteTableIncludesHeaderAndEachSource(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, compare.ComparisonReport{
		Sources: []compare.SourceStats{
			{Source: "A", Observations: 3, Wins: 3, MeanGap: 0},
			{Source: "B", Observations: 2, Wins: 0, MeanGap: 5 * time.Millisecond},
		},
	})
	out := buf.String()
	assert.Contains(t, out, "source")
	assert.Contains(t, out, "A")
	assert.Contains(t, out, "B")
}
