// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

package compare

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoteFirstSeenReturnsEnvelopeOnlyOnNewPair(t *testing.T) {
	c := NewComparator()

	_, isNew := c.NoteFirstSeen("A", "s1", TransactionData{ElapsedSinceStart: 10 * time.Millisecond}, 2)
	assert.True(t, isNew)

	_, isNew = c.NoteFirstSeen("A", "s1", TransactionData{ElapsedSinceStart: 12 * time.Millisecond}, 2)
	assert.False(t, isNew)

	envelope, isNew := c.NoteFirstSeen("B", "s1", TransactionData{ElapsedSinceStart: 15 * time.Millisecond}, 2)
	assert.True(t, isNew)
	assert.Equal(t, "s1", envelope.Signature)
	assert.Equal(t, "B", envelope.SourceName)
	assert.Equal(t, 2, envelope.TotalProducers)
}

func TestComparatorMonotonicity(t *testing.T) {
	c := NewComparator()
	c.NoteFirstSeen("A", "s1", TransactionData{ElapsedSinceStart: 20 * time.Millisecond}, 1)

	report := c.Report()
	stats := report.Sources[0]
	assert.Equal(t, 1, stats.Observations)

	// AddBatch merging an earlier observation must win.
	c.AddBatch("A", map[string]TransactionData{"s1": {ElapsedSinceStart: 5 * time.Millisecond}})
	report = c.Report()
	assert.Equal(t, time.Duration(0), report.Signatures[0].Gaps["A"])
}

func TestAddBatchIdempotent(t *testing.T) {
	c := NewComparator()
	batch := map[string]TransactionData{"s1": {ElapsedSinceStart: 10 * time.Millisecond}}
	c.AddBatch("A", batch)
	c.AddBatch("A", batch)

	report := c.Report()
	assert.Len(t, report.Signatures, 1)
	assert.Equal(t, 1, report.Sources[0].Observations)
}

func TestScenarioS2TwoSourcesInterleaved(t *testing.T) {
	c := NewComparator()
	c.NoteFirstSeen("A", "s1", TransactionData{ElapsedSinceStart: 10 * time.Millisecond}, 2)
	c.NoteFirstSeen("A", "s2", TransactionData{ElapsedSinceStart: 30 * time.Millisecond}, 2)
	c.NoteFirstSeen("B", "s1", TransactionData{ElapsedSinceStart: 15 * time.Millisecond}, 2)
	c.NoteFirstSeen("B", "s2", TransactionData{ElapsedSinceStart: 20 * time.Millisecond}, 2)
	c.NoteFirstSeen("B", "s3", TransactionData{ElapsedSinceStart: 25 * time.Millisecond}, 2)

	report := c.Report()
	var statsA, statsB SourceStats
	for _, s := range report.Sources {
		switch s.Source {
		case "A":
			statsA = s
		case "B":
			statsB = s
		}
	}
	assert.Equal(t, 1, statsA.Wins) // s1
	assert.Equal(t, 2, statsB.Wins) // s2, s3
	assert.Equal(t, 10*time.Millisecond, statsA.MeanGap)
	assert.Equal(t, 5*time.Millisecond, statsB.MeanGap)
}

func TestWinnersTiedCreditBoth(t *testing.T) {
	c := NewComparator()
	c.NoteFirstSeen("A", "s1", TransactionData{ElapsedSinceStart: 10 * time.Millisecond}, 2)
	c.NoteFirstSeen("B", "s1", TransactionData{ElapsedSinceStart: 10 * time.Millisecond}, 2)

	report := c.Report()
	for _, s := range report.Sources {
		assert.Equal(t, 1, s.Wins)
	}
}
