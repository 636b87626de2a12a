// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

package provider

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/corvus-labs/geyserbench/clock"
	"github.com/corvus-labs/geyserbench/compare"
	"github.com/corvus-labs/geyserbench/config"
	"github.com/corvus-labs/geyserbench/metrics"
	"github.com/corvus-labs/geyserbench/queue"
)

func newTestContext(target int) *Context {
	return &Context{
		Clock:              clock.New(),
		Comparator:         compare.NewComparator(),
		Queue:              queue.New(16),
		Progress:           metrics.NewProgressTracker(target),
		Shutdown:           NewShutdown(),
		SharedCounter:      atomic.NewInt64(0),
		ShuttingDown:       atomic.NewBool(false),
		TargetTransactions: target,
		TotalProducers:     1,
	}
}

func TestRunLoopQuotaTriggersShutdown(t *testing.T) {
	pctx := newTestContext(3)
	endpoint := config.Endpoint{Name: "A"}
	run := config.Run{Accounts: []string{"acct"}}

	worker, err := NewWorker(endpoint, run, pctx)
	require.NoError(t, err)
	worker.wantRaw = nil // disable the account filter for this synthetic test

	frames := make(chan Frame, 8)
	for _, sig := range []string{"s1", "s2", "s1", "s3", "s4"} {
		frames <- Frame{Signature: []byte(sig)}
	}
	close(frames)

	err = RunLoop(context.Background(), worker, frames)
	require.NoError(t, err)

	assert.True(t, pctx.ShuttingDown.Load())
	assert.GreaterOrEqual(t, pctx.SharedCounter.Load(), int64(3))
}

func TestRunLoopStopsOnShutdownBroadcast(t *testing.T) {
	pctx := newTestContext(0)
	endpoint := config.Endpoint{Name: "A"}
	run := config.Run{Accounts: []string{"acct"}}

	worker, err := NewWorker(endpoint, run, pctx)
	require.NoError(t, err)
	worker.wantRaw = nil

	frames := make(chan Frame)
	pctx.Shutdown.Broadcast()

	done := make(chan error, 1)
	go func() { done <- RunLoop(context.Background(), worker, frames) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("RunLoop did not observe the shutdown broadcast")
	}
}

func TestAccountFilterRequiresMatchingKey(t *testing.T) {
	want := [][]byte{[]byte("wanted")}
	assert.False(t, accountFilter(Frame{Signature: []byte("s")}, want))
	assert.False(t, accountFilter(Frame{Signature: []byte("s"), AccountKeys: [][]byte{[]byte("other")}}, want))
	assert.True(t, accountFilter(Frame{Signature: []byte("s"), AccountKeys: [][]byte{[]byte("wanted")}}, want))
}
