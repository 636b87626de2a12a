// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

package provider

import (
	"context"

	"github.com/corvus-labs/geyserbench/config"
	"github.com/corvus-labs/geyserbench/provider/rawstream"
)

// JetstreamProvider subscribes with an account_required-style filter:
// unlike Arpc's account_include (any account in the list matches),
// Jetstream's server-side filter is advertised as requiring every listed
// account, so the worker's own any-match belt-and-braces check (spec.md
// §4.2 step 2) is what actually decides membership here.
type JetstreamProvider struct {
	endpoint config.Endpoint
	run      config.Run
	ctx      *Context
}

func NewJetstreamProvider(endpoint config.Endpoint, run config.Run, pctx *Context) *JetstreamProvider {
	return &JetstreamProvider{endpoint: endpoint, run: run, ctx: pctx}
}

func (p *JetstreamProvider) Run(ctx context.Context) error {
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

	frames, errs := transport.Subscribe(ctx, "/jetstream.Jetstream/SubscribeTransactions", encodeAccountFilter(accounts), decodeFrame)
	go logStreamErrors(worker, errs)

	return RunLoop(ctx, worker, frames)
}
