// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

package provider

import (
	"context"

	"github.com/corvus-labs/geyserbench/config"
	"github.com/corvus-labs/geyserbench/provider/rawstream"
)

// ShredstreamProvider decodes transactions reconstructed from shreds
// upstream of Shredstream; the reassembly itself happens server-side, so
// the frames this provider sees are identical in shape to the other
// rawstream-backed feeds.
type ShredstreamProvider struct {
	endpoint config.Endpoint
	run      config.Run
	ctx      *Context
}

func NewShredstreamProvider(endpoint config.Endpoint, run config.Run, pctx *Context) *ShredstreamProvider {
	return &ShredstreamProvider{endpoint: endpoint, run: run, ctx: pctx}
}

func (p *ShredstreamProvider) Run(ctx context.Context) error {
	worker, err := NewWorker(p.endpoint, p.run, p.ctx)
	if err != nil {
		return err
	}

	transport, err := rawstream.DialTransport(ctx, p.endpoint.URL, p.endpoint.XToken)
	if err != nil {
		return &ConnectError{Endpoint: p.endpoint.Name, Err: err}
	}
	defer transport.Close()

	accounts, err := decodeAccounts(p.run.Accounts)
	if err != nil {
		return err
	}

	frames, errs := transport.Subscribe(ctx, "/shredstream.Shredstream/SubscribeEntries", encodeAccountFilter(accounts), decodeFrame)
	go logStreamErrors(worker, errs)

	return RunLoop(ctx, worker, frames)
}
