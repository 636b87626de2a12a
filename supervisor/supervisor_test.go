// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

package supervisor

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/corvus-labs/geyserbench/config"
	"github.com/corvus-labs/geyserbench/provider"
)

func baseConfig(endpointURL string) *config.Config {
	return &config.Config{
		Run: config.Run{
			Transactions: 1,
			Accounts:     []string{"pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA"},
			Commitment:   config.CommitmentProcessed,
		},
		Endpoints: []config.Endpoint{
			{Name: "arpc", URL: endpointURL, Kind: config.KindArpc},
		},
		Backend: config.Backend{Enabled: false},
		Admin:   config.Admin{Enabled: false},
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := baseConfig("127.0.0.1:1")
	cfg.Run.Accounts = nil

	_, err := Run(context.Background(), cfg)
	require.Error(t, err)
}

// TestRunFailsFastOnProducerConnectFailure exercises spec.md §7 condition 2:
// a dial failure against an unreachable endpoint is fatal for the whole run
// and Run returns the error instead of a (degraded) report.
func TestRunFailsFastOnProducerConnectFailure(t *testing.T) {
	cfg := baseConfig("127.0.0.1:1")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	done := make(chan struct{})
	var runErr error
	go func() {
		_, runErr = Run(ctx, cfg)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(15 * time.Second):
		t.Fatal("Run did not return after producer dial failure")
	}

	require.Error(t, runErr)
	var connErr *provider.ConnectError
	assert.True(t, errors.As(runErr, &connErr), "expected a *provider.ConnectError, got %v", runErr)
}

// newStubEndpoint starts a gRPC server that accepts any method and closes
// the stream immediately, standing in for a real upstream that this test
// doesn't need to exercise beyond "connect and subscribe succeeded".
func newStubEndpoint(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := grpc.NewServer(grpc.UnknownServiceHandler(func(srv interface{}, stream grpc.ServerStream) error {
		return nil
	}))
	go srv.Serve(ln)
	t.Cleanup(srv.Stop)

	return ln.Addr().String()
}

func TestRunWithAdminSurfaceEnabledCompletes(t *testing.T) {
	cfg := baseConfig(newStubEndpoint(t))
	cfg.Admin = config.Admin{Enabled: true, Addr: "127.0.0.1:0"}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	_, err := Run(ctx, cfg)
	require.NoError(t, err)
}
