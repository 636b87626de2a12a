// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

package adminhttp

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvus-labs/geyserbench/compare"
)

func startTestServer(t *testing.T) *Server {
	t.Helper()
	s := New("127.0.0.1:0", compare.NewComparator())
	require.NoError(t, s.Start())
	t.Cleanup(s.Stop)
	return s
}

func get(t *testing.T, addr, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(fmt.Sprintf("http://%s%s", addr, path))
	require.NoError(t, err)
	return resp
}

func TestHealthzUnreadyUntilMarkReady(t *testing.T) {
	s := startTestServer(t)

	resp := get(t, s.Addr(), "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	s.MarkReady()
	resp = get(t, s.Addr(), "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReportUnavailableUntilSet(t *testing.T) {
	s := startTestServer(t)

	resp := get(t, s.Addr(), "/report")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	s.SetReport(compare.ComparisonReport{Sources: []compare.SourceStats{{Source: "a"}}})
	resp = get(t, s.Addr(), "/report")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsServesPrometheusText(t *testing.T) {
	s := startTestServer(t)
	resp := get(t, s.Addr(), "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStopIsIdempotentAndFast(t *testing.T) {
	s := startTestServer(t)
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return in time")
	}
}
