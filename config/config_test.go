// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAcceptsPluralAccounts(t *testing.T) {
	path := writeTemp(t, `
[config]
transactions = 10
accounts = ["AAA", "BBB"]
commitment = "processed"

[[endpoint]]
name = "grpc"
url = "http://example.com"
kind = "yellowstone"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAA", "BBB"}, cfg.Run.Accounts)
}

func TestLoadAcceptsSingularAccount(t *testing.T) {
	path := writeTemp(t, `
[config]
transactions = 10
account = "AAA"
commitment = "processed"

[[endpoint]]
name = "grpc"
url = "http://example.com"
kind = "yellowstone"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAA"}, cfg.Run.Accounts)
}

func TestLoadRejectsEmptyAccounts(t *testing.T) {
	path := writeTemp(t, `
[config]
transactions = 10
commitment = "processed"

[[endpoint]]
name = "grpc"
url = "http://example.com"
kind = "yellowstone"
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsDuplicateEndpointNames(t *testing.T) {
	cfg := Default()
	cfg.Endpoints = []Endpoint{
		{Name: "a", URL: "http://x", Kind: KindYellowstone},
		{Name: "a", URL: "http://y", Kind: KindArpc},
	}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownEndpointKind(t *testing.T) {
	cfg := Default()
	cfg.Endpoints = []Endpoint{{Name: "a", URL: "http://x", Kind: "bogus"}}
	assert.Error(t, cfg.Validate())
}

func TestLoadOrCreateWritesDefaultWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, Default().Run.Transactions, cfg.Run.Transactions)

	cfg2, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Run.Accounts, cfg2.Run.Accounts)
}

func TestRunUnbounded(t *testing.T) {
	assert.True(t, Run{Transactions: 0}.Unbounded())
	assert.True(t, Run{Transactions: -1}.Unbounded())
	assert.False(t, Run{Transactions: 1}.Unbounded())
}
