// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

package provider

import (
	"context"

	"github.com/corvus-labs/geyserbench/config"
	"github.com/corvus-labs/geyserbench/provider/rawstream"
)

// ShrederProvider subscribes to Shreder's pre-confirmation transaction feed.
type ShrederProvider struct {
	endpoint config.Endpoint
	run      config.Run
	ctx      *Context
}

func NewShrederProvider(endpoint config.Endpoint, run config.Run, pctx *Context) *ShrederProvider {
	return &ShrederProvider{endpoint: endpoint, run: run, ctx: pctx}
}

func (p *ShrederProvider) Run(ctx context.Context) error {
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

	frames, errs := transport.Subscribe(ctx, "/shreder.Shreder/SubscribeTransactions", encodeAccountFilter(accounts), decodeFrame)
	go logStreamErrors(worker, errs)

	return RunLoop(ctx, worker, frames)
}
