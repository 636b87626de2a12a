// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

// Package config loads and validates the TOML run configuration: the
// [config]/[[endpoint]]/[backend]/[trace]/[admin] schema this tool needs,
// decoded with naoina/toml using pass-through field names.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"unicode"

	"github.com/naoina/toml"
)

const defaultAccount = "pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA"

// Commitment is the Solana commitment level a Yellowstone subscription is
// made at; other protocols ignore it (spec.md §4.1).
type Commitment string

const (
	CommitmentProcessed Commitment = "processed"
	CommitmentConfirmed Commitment = "confirmed"
	CommitmentFinalized Commitment = "finalized"
)

// EndpointKind selects which wire protocol a provider worker speaks.
type EndpointKind string

const (
	KindYellowstone EndpointKind = "yellowstone"
	KindArpc        EndpointKind = "arpc"
	KindThor        EndpointKind = "thor"
	KindShredstream EndpointKind = "shredstream"
	KindShreder     EndpointKind = "shreder"
	KindJetstream   EndpointKind = "jetstream"
)

// Run is the [config] section: the quota, the accounts to filter on, and
// the commitment level.
type Run struct {
	Transactions int        `toml:"transactions"`
	Accounts     []string   `toml:"accounts"`
	Commitment   Commitment `toml:"commitment"`
}

// Unbounded reports whether the configured quota means "run until the
// streams close or the process is signalled" (spec.md §9: transactions <= 0
// is treated as unbounded, not "stop immediately").
func (r Run) Unbounded() bool {
	return r.Transactions <= 0
}

// UnmarshalTOML accepts accounts as either the plural "accounts" array or a
// single "account" string (spec.md §6).
func (r *Run) UnmarshalTOML(unmarshal func(interface{}) error) error {
	type rawRun struct {
		Transactions int        `toml:"transactions"`
		Accounts     []string   `toml:"accounts,omitempty"`
		Account      string     `toml:"account,omitempty"`
		Commitment   Commitment `toml:"commitment"`
	}
	var raw rawRun
	if err := unmarshal(&raw); err != nil {
		return err
	}
	r.Transactions = raw.Transactions
	r.Commitment = raw.Commitment
	switch {
	case len(raw.Accounts) > 0:
		r.Accounts = raw.Accounts
	case raw.Account != "":
		r.Accounts = []string{raw.Account}
	default:
		r.Accounts = nil
	}
	return nil
}

// Endpoint is one [[endpoint]] table.
type Endpoint struct {
	Name   string       `toml:"name"`
	URL    string       `toml:"url"`
	XToken string       `toml:"x_token"`
	Kind   EndpointKind `toml:"kind"`
}

// KafkaBackend configures the Kafka sink implementation.
type KafkaBackend struct {
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

// RedisBackend configures the Redis pub/sub sink implementation.
type RedisBackend struct {
	Addr    string `toml:"addr"`
	Channel string `toml:"channel"`
}

// Backend is the [backend] section describing the downstream sink that
// drains the signature envelope queue.
type Backend struct {
	Enabled        bool         `toml:"enabled"`
	URL            string       `toml:"url"`
	Kind           string       `toml:"kind"` // http | kafka | redis | noop
	QueueCapacity  int          `toml:"queue_capacity"`
	Kafka          KafkaBackend `toml:"kafka"`
	Redis          RedisBackend `toml:"redis"`
}

// Trace is the [trace] section controlling optional S3 archival of
// per-endpoint trace logs.
type Trace struct {
	Enabled bool   `toml:"enabled"`
	Bucket  string `toml:"bucket"`
	Prefix  string `toml:"prefix"`
}

// Admin is the [admin] section controlling the optional local HTTP surface.
type Admin struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
}

// Config is the full TOML document.
type Config struct {
	Run       Run        `toml:"config"`
	Endpoints []Endpoint `toml:"endpoint"`
	Backend   Backend    `toml:"backend"`
	Trace     Trace      `toml:"trace"`
	Admin     Admin      `toml:"admin"`
}

// tomlSettings keeps TOML keys identical to the Go struct field names,
// with no case folding.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string { return key },
	FieldToKey:    func(rt reflect.Type, field string) string { return field },
	MissingField: func(rt reflect.Type, field string) error {
		link := ""
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see godoc for %s#%s", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// Load reads and parses the TOML config at path, then validates it.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	defer f.Close()

	cfg := Default()
	if err := tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg); err != nil {
		if lineErr, ok := err.(*toml.LineError); ok {
			return nil, fmt.Errorf("%s: %w", path, lineErr)
		}
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in default configuration: two endpoints (one
// Yellowstone, one Arpc), a quota of 1000, and the backend/trace/admin
// sections at their zero-ish safe defaults.
func Default() *Config {
	return &Config{
		Run: Run{
			Transactions: 1000,
			Accounts:     []string{defaultAccount},
			Commitment:   CommitmentProcessed,
		},
		Endpoints: []Endpoint{
			{Name: "grpc", URL: "http://fra.corvus-labs.io:10101", Kind: KindYellowstone},
			{Name: "arpc", URL: "http://fra.corvus-labs.io:20202", Kind: KindArpc},
		},
		Backend: Backend{
			Enabled:       true,
			Kind:          "http",
			QueueCapacity: 1024,
		},
		Admin: Admin{
			Addr: "127.0.0.1:9469",
		},
	}
}

// CreateDefault writes the default configuration to path and returns it.
func CreateDefault(path string) (*Config, error) {
	cfg := Default()
	out, err := tomlSettings.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize default config: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write default config %s: %w", path, err)
	}
	return cfg, nil
}

// WriteTOML serializes cfg and writes it to w, the way cmd/ranger's
// dumpconfig command does.
func WriteTOML(w io.Writer, cfg *Config) error {
	out, err := tomlSettings.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// LoadOrCreate loads path if it exists, otherwise writes and returns the
// default configuration (spec.md §6).
func LoadOrCreate(path string) (*Config, error) {
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}
	return CreateDefault(path)
}

// Validate enforces the invariants spec.md §4.6 asks the supervisor to
// check before spawning any producer: a non-empty account set and unique
// endpoint names.
func (c *Config) Validate() error {
	if len(c.Run.Accounts) == 0 {
		return errors.New("at least one account must be specified")
	}
	if len(c.Endpoints) == 0 {
		return errors.New("at least one endpoint must be configured")
	}
	seen := make(map[string]struct{}, len(c.Endpoints))
	for _, e := range c.Endpoints {
		if _, dup := seen[e.Name]; dup {
			return fmt.Errorf("duplicate endpoint name %q", e.Name)
		}
		seen[e.Name] = struct{}{}
		switch e.Kind {
		case KindYellowstone, KindArpc, KindThor, KindShredstream, KindShreder, KindJetstream:
		default:
			return fmt.Errorf("endpoint %q has unknown kind %q", e.Name, e.Kind)
		}
	}
	return nil
}
