// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

// Package provider implements the six protocol-specific ingestion workers
// (spec.md §4.1/§4.2). Each concrete provider translates its wire protocol
// into the same sequence of (signature, account-key-set) frames and runs
// the identical producer loop in common.go; only connection setup and frame
// decoding differ between them.
package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/corvus-labs/geyserbench/clock"
	"github.com/corvus-labs/geyserbench/compare"
	"github.com/corvus-labs/geyserbench/metrics"
	"github.com/corvus-labs/geyserbench/queue"
)

// Provider is the capability every concrete wire-protocol worker
// implements: translate config into a subscription, decode frames, and run
// until shutdown or natural stream closure (spec.md §4.1).
type Provider interface {
	// Run connects, subscribes, and drives the producer loop until the
	// context is cancelled or the stream ends. A connection failure is
	// reported through the returned error and is fatal at the supervisor
	// level (spec.md §4.1, §7 condition 2).
	Run(ctx context.Context) error
}

// Context is the shared coordination handle cloned into every producer on
// spawn (spec.md §4.4). All pointer/interface fields are shared by
// reference; SharedCounter and ShuttingDown are atomics so every producer
// observes the same values without a lock.
type Context struct {
	Clock              *clock.Clock
	Comparator         *compare.Comparator
	Queue              *queue.Queue // nil when the backend is disabled
	Progress           *metrics.ProgressTracker
	Shutdown           *Shutdown
	SharedCounter      *atomic.Int64
	ShuttingDown       *atomic.Bool
	TargetTransactions int // <= 0 means unbounded
	TotalProducers     int
}

// Shutdown is a broadcast, one-shot stop signal (spec.md §4.4): closing the
// channel tells every receiver to stop, since Go has no native
// multi-receiver send.
type Shutdown struct {
	once sync.Once
	ch   chan struct{}
}

// NewShutdown returns an armed, not-yet-triggered shutdown signal.
func NewShutdown() *Shutdown {
	return &Shutdown{ch: make(chan struct{})}
}

// Broadcast trips the shutdown signal exactly once; subsequent calls are
// no-ops (spec.md §4.2 step 7b, §8 "Quota safety").
func (s *Shutdown) Broadcast() {
	s.once.Do(func() { close(s.ch) })
}

// Done returns a channel that is closed once Broadcast has been called. It
// is read in the producer loop's biased select (spec.md §4.2, §9).
func (s *Shutdown) Done() <-chan struct{} {
	return s.ch
}

// Triggered reports whether Broadcast has already fired. It is used for the
// loop's non-blocking pre-check: Go's select has no "biased" mode, so the
// bias toward shutdown is obtained by checking Done() with a non-blocking
// select before ever trying to read the stream (spec.md §9).
func (s *Shutdown) Triggered() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}

// ConnectError wraps a failure that occurred before a provider ever reached
// its producer loop: dialing, subscribing, or sending the initial filter.
// The supervisor treats this as fatal for the whole run (spec.md §4.1, §7
// condition 2), unlike a later stream error, which only ends that one
// producer.
type ConnectError struct {
	Endpoint string
	Err      error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("endpoint %s: connect: %v", e.Endpoint, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// Frame is the minimal shape every wire decoder reduces its protocol's
// message to before it reaches the shared producer loop: raw signature
// bytes and whatever account keys the message happened to carry (a
// Yellowstone transaction update carries its message's account keys, an
// account update carries the single updated pubkey, and a message with no
// keys carries none). Decoding protobuf/gRPC payloads
// into this shape is each provider's only protocol-specific job
// (spec.md §1 "the core only assumes each upstream yields ... events").
type Frame struct {
	Signature   []byte
	AccountKeys [][]byte
}

// accountFilter reports whether frame touches any of the configured
// accounts, applied as a belt-and-braces check on every frame regardless of
// server-side filtering (spec.md §4.2 step 2). With no configured accounts
// every signature passes through unfiltered.
func accountFilter(frame Frame, wantRaw [][]byte) bool {
	if len(frame.Signature) == 0 {
		return false
	}
	if len(wantRaw) == 0 {
		return true
	}
	for _, key := range frame.AccountKeys {
		for _, want := range wantRaw {
			if bytesEqual(key, want) {
				return true
			}
		}
	}
	return false
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// snapshot reads the shared clock once per frame.
func snapshot(ctx *Context) (elapsed time.Duration, wallclock float64) {
	return ctx.Clock.Elapsed(), ctx.Clock.WallclockNow()
}
