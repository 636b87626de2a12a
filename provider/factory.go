// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

package provider

import (
	"fmt"

	"github.com/corvus-labs/geyserbench/config"
)

// New builds the concrete Provider for endpoint.Kind (spec.md §4.6 step 4:
// one provider per configured endpoint).
func New(endpoint config.Endpoint, run config.Run, pctx *Context) (Provider, error) {
	switch endpoint.Kind {
	case config.KindYellowstone:
		return NewYellowstoneProvider(endpoint, run, pctx), nil
	case config.KindArpc:
		return NewArpcProvider(endpoint, run, pctx), nil
	case config.KindThor:
		return NewThorProvider(endpoint, run, pctx), nil
	case config.KindShredstream:
		return NewShredstreamProvider(endpoint, run, pctx), nil
	case config.KindShreder:
		return NewShrederProvider(endpoint, run, pctx), nil
	case config.KindJetstream:
		return NewJetstreamProvider(endpoint, run, pctx), nil
	default:
		return nil, fmt.Errorf("endpoint %s: unknown kind %q", endpoint.Name, endpoint.Kind)
	}
}
