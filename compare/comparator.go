// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

package compare

import "sync"

// Comparator is the shared, thread-safe per-signature first-arrival
// registry. It is created once by the supervisor, handed to every producer,
// and becomes read-only once all producers have exited.
type Comparator struct {
	mu         sync.Mutex
	bySignature map[string]map[string]TransactionData
	sourcesSeen map[string]struct{}
}

// NewComparator returns an empty Comparator.
func NewComparator() *Comparator {
	return &Comparator{
		bySignature: make(map[string]map[string]TransactionData),
		sourcesSeen: make(map[string]struct{}),
	}
}

// AddBatch atomically merges a producer's entire local accumulator map. For
// a signature already on file, the incoming observation replaces the
// stored one for that source only if it arrived earlier.
func (c *Comparator) AddBatch(sourceName string, batch map[string]TransactionData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sourcesSeen[sourceName] = struct{}{}
	for sig, tx := range batch {
		c.mergeLocked(sourceName, sig, tx)
	}
}

// NoteFirstSeen is the hot-path call made by a producer the instant it
// records a brand-new local observation. It returns an envelope exactly
// when this call produced a new (signature, source) entry in the shared
// registry — i.e. the first time *any* producer, or this producer, reports
// this pair.
func (c *Comparator) NoteFirstSeen(sourceName, sig string, tx TransactionData, totalProducers int) (SignatureEnvelope, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sourcesSeen[sourceName] = struct{}{}
	isNew := c.mergeLocked(sourceName, sig, tx)
	if !isNew {
		return SignatureEnvelope{}, false
	}
	return SignatureEnvelope{
		Signature:         sig,
		SourceName:        sourceName,
		WallclockSecs:     tx.WallclockSecs,
		ElapsedSinceStart: tx.ElapsedSinceStart,
		TotalProducers:    totalProducers,
	}, true
}

// mergeLocked applies the compare-and-replace rule for one (source,
// signature) pair and reports whether a new entry was created. Caller must
// hold c.mu.
func (c *Comparator) mergeLocked(sourceName, sig string, tx TransactionData) bool {
	bySource, ok := c.bySignature[sig]
	if !ok {
		bySource = make(map[string]TransactionData)
		c.bySignature[sig] = bySource
	}
	existing, ok := bySource[sourceName]
	if !ok {
		bySource[sourceName] = tx
		return true
	}
	if tx.ElapsedSinceStart < existing.ElapsedSinceStart {
		bySource[sourceName] = tx
	}
	return false
}
