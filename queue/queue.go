// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

// Package queue implements the bounded, multi-producer/single-consumer
// handoff queue of signature envelopes described in spec.md §4.5: producers
// push without blocking, a full queue drops the envelope, and a single
// background drain loop owned by the supervisor consumes it.
package queue

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/corvus-labs/geyserbench/compare"
	gblog "github.com/corvus-labs/geyserbench/log"
	"github.com/corvus-labs/geyserbench/metrics"
)

var logger = gblog.NewModuleLogger("queue")

// dropWarnEvery bounds how often a "queue full" warning is logged per
// source; the spec leaves the choice of N to the implementer (spec.md §7).
const dropWarnEvery = 100

// Queue is a bounded envelope handoff queue backed by a buffered channel.
// Go channels are a natural MPSC/MPMC primitive here: concurrent sends from
// many producer goroutines are safe without extra locking, and a full
// buffer is detected with a non-blocking select instead of a custom
// lock-free ring buffer.
type Queue struct {
	ch        chan compare.SignatureEnvelope
	dropCount *lru.Cache // source name -> running drop count, so the warn-every-N throttle is per source
}

// New returns a queue with the given capacity.
func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	cache, _ := lru.New(64) // bounded number of distinct source names tracked
	return &Queue{
		ch:        make(chan compare.SignatureEnvelope, capacity),
		dropCount: cache,
	}
}

// TryPush attempts to enqueue an envelope without blocking. If the queue is
// full the envelope is dropped and a rate-limited warning is logged; this
// is the at-most-once, best-effort delivery the spec requires.
func (q *Queue) TryPush(e compare.SignatureEnvelope) {
	select {
	case q.ch <- e:
	default:
		metrics.RecordDrop()
		q.warnDrop(e.SourceName)
	}
}

func (q *Queue) warnDrop(source string) {
	var count int
	if v, ok := q.dropCount.Get(source); ok {
		count = v.(int)
	}
	count++
	q.dropCount.Add(source, count)
	if count%dropWarnEvery == 1 {
		logger.Warn("handoff queue full, dropping envelope", "source", source, "totalDropped", count)
	}
}

// Drain returns the receive-only channel the sink consumes from.
func (q *Queue) Drain() <-chan compare.SignatureEnvelope {
	return q.ch
}

// Close closes the underlying channel. Must only be called after every
// producer has stopped pushing.
func (q *Queue) Close() {
	close(q.ch)
}
