// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvus-labs/geyserbench/compare"
	"github.com/corvus-labs/geyserbench/config"
)

func TestNewFallsBackToNoopWhenDisabled(t *testing.T) {
	sink := New(config.Backend{Enabled: false})
	_, ok := sink.(*Noop)
	assert.True(t, ok)
}

func TestNewFallsBackToNoopOnUnknownKind(t *testing.T) {
	sink := New(config.Backend{Enabled: true, Kind: "carrier-pigeon"})
	_, ok := sink.(*Noop)
	assert.True(t, ok)
}

func TestHTTPSinkPostsJSONBody(t *testing.T) {
	received := make(chan compare.SignatureEnvelope, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var env compare.SignatureEnvelope
		require.NoError(t, json.NewDecoder(r.Body).Decode(&env))
		received <- env
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sink := NewHTTP(server.URL)
	err := sink.Publish(context.Background(), compare.SignatureEnvelope{Signature: "s1", SourceName: "A"})
	require.NoError(t, err)

	env := <-received
	assert.Equal(t, "s1", env.Signature)
	assert.Equal(t, "A", env.SourceName)
}

func TestHTTPSinkReturnsErrorOnNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	sink := NewHTTP(server.URL)
	err := sink.Publish(context.Background(), compare.SignatureEnvelope{Signature: "s1"})
	assert.Error(t, err)
}
