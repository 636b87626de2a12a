// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

package backend

import (
	"context"

	"github.com/corvus-labs/geyserbench/compare"
)

// Noop discards every envelope. It is the safe fallback whenever the
// configured backend cannot be constructed.
type Noop struct{}

// NewNoop returns a Sink that discards everything published to it.
func NewNoop() *Noop { return &Noop{} }

func (n *Noop) Publish(ctx context.Context, env compare.SignatureEnvelope) error { return nil }
func (n *Noop) Close() error                                                    { return nil }
