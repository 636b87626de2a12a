// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

package compare

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccumulatorRecordDedup(t *testing.T) {
	a := NewAccumulator()
	first := TransactionData{ElapsedSinceStart: 10 * time.Millisecond}
	second := TransactionData{ElapsedSinceStart: 12 * time.Millisecond}

	assert.True(t, a.Record("s1", first))
	assert.False(t, a.Record("s1", second))

	batch := a.Drain()
	assert.Equal(t, first, batch["s1"])
}

func TestAccumulatorDrainResets(t *testing.T) {
	a := NewAccumulator()
	a.Record("s1", TransactionData{})
	assert.Equal(t, 1, a.Len())

	batch := a.Drain()
	assert.Len(t, batch, 1)
	assert.Equal(t, 0, a.Len())
}

func TestAccumulatorIdempotentReplay(t *testing.T) {
	frames := []string{"s1", "s2", "s1", "s3"}

	runOnce := func() map[string]TransactionData {
		a := NewAccumulator()
		for i, sig := range frames {
			a.Record(sig, TransactionData{ElapsedSinceStart: time.Duration(i) * time.Millisecond})
		}
		return a.Drain()
	}

	first := runOnce()
	second := runOnce()
	assert.Equal(t, first, second)
}
