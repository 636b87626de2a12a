// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

package provider

import (
	"context"
	"fmt"

	"github.com/corvus-labs/geyserbench/config"
	"github.com/corvus-labs/geyserbench/provider/rawstream"
	"github.com/corvus-labs/geyserbench/signature"
)

// ArpcProvider subscribes with an account_include-style filter: transactions
// referencing any of the configured accounts are streamed server-side, on
// top of the worker's own belt-and-braces check.
type ArpcProvider struct {
	endpoint config.Endpoint
	run      config.Run
	ctx      *Context
}

func NewArpcProvider(endpoint config.Endpoint, run config.Run, pctx *Context) *ArpcProvider {
	return &ArpcProvider{endpoint: endpoint, run: run, ctx: pctx}
}

func (p *ArpcProvider) Run(ctx context.Context) error {
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

	frames, errs := transport.Subscribe(ctx, "/arpc.Arpc/SubscribeTransactions", encodeAccountFilter(accounts), decodeFrame)
	go logStreamErrors(worker, errs)

	return RunLoop(ctx, worker, frames)
}

func decodeAccounts(accounts []string) ([][]byte, error) {
	out := make([][]byte, 0, len(accounts))
	for _, a := range accounts {
		raw, err := signature.Decode(a)
		if err != nil {
			return nil, fmt.Errorf("invalid account %q: %w", a, err)
		}
		out = append(out, raw)
	}
	return out, nil
}
