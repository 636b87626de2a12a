// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

// Package backend drains the signature envelope queue into whichever
// downstream sink the [backend] config section selects: HTTP, Kafka,
// Redis, or a no-op fallback.
package backend

import (
	"context"

	"github.com/corvus-labs/geyserbench/compare"
	"github.com/corvus-labs/geyserbench/config"
	gblog "github.com/corvus-labs/geyserbench/log"
)

var logger = gblog.NewModuleLogger("backend")

// Sink publishes one signature envelope downstream.
type Sink interface {
	Publish(ctx context.Context, env compare.SignatureEnvelope) error
	Close() error
}

// New builds the sink selected by cfg.Kind. A disabled backend gets Noop. An
// enabled backend with no kind recognized, or missing the fields its kind
// needs, also falls back to Noop so the run's queue still drains (spec.md
// §9: a disabled/unreachable backend must not stall the comparator).
func New(cfg config.Backend) Sink {
	if !cfg.Enabled {
		logger.Info("backend disabled, draining to noop sink")
		return NewNoop()
	}
	switch cfg.Kind {
	case "http":
		if cfg.URL == "" {
			logger.Warn("http backend enabled without a url, falling back to noop")
			return NewNoop()
		}
		return NewHTTP(cfg.URL)
	case "kafka":
		if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.Topic == "" {
			logger.Warn("kafka backend enabled without brokers/topic, falling back to noop")
			return NewNoop()
		}
		sink, err := NewKafka(cfg.Kafka)
		if err != nil {
			logger.Error("failed to start kafka backend, falling back to noop", "err", err)
			return NewNoop()
		}
		return sink
	case "redis":
		if cfg.Redis.Addr == "" || cfg.Redis.Channel == "" {
			logger.Warn("redis backend enabled without addr/channel, falling back to noop")
			return NewNoop()
		}
		return NewRedis(cfg.Redis)
	case "noop", "":
		return NewNoop()
	default:
		logger.Warn("unknown backend kind, falling back to noop", "kind", cfg.Kind)
		return NewNoop()
	}
}

// Drain runs until ch is closed, publishing every envelope to sink. It is
// meant to be the supervisor's single consumer goroutine for the handoff
// queue (spec.md §4.5).
func Drain(ctx context.Context, sink Sink, ch <-chan compare.SignatureEnvelope) {
	for env := range ch {
		if err := sink.Publish(ctx, env); err != nil {
			logger.Warn("sink publish failed", "signature", env.Signature, "source", env.SourceName, "err", err)
		}
	}
}
