// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corvus-labs/geyserbench/compare"
)

func TestScenarioS4QueueFullDropsExcess(t *testing.T) {
	q := New(2)
	for i := 0; i < 5; i++ {
		q.TryPush(compare.SignatureEnvelope{SourceName: "A", Signature: "s"})
	}

	delivered := 0
	for {
		select {
		case <-q.Drain():
			delivered++
			continue
		default:
		}
		break
	}
	assert.Equal(t, 2, delivered)
}

func TestQueueDrainOrderFIFO(t *testing.T) {
	q := New(4)
	q.TryPush(compare.SignatureEnvelope{Signature: "s1"})
	q.TryPush(compare.SignatureEnvelope{Signature: "s2"})

	first := <-q.Drain()
	second := <-q.Drain()
	assert.Equal(t, "s1", first.Signature)
	assert.Equal(t, "s2", second.Signature)
}
