// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

package backend

import (
	"context"
	"encoding/json"

	redis "github.com/go-redis/redis/v7"

	"github.com/corvus-labs/geyserbench/compare"
	"github.com/corvus-labs/geyserbench/config"
)

// RedisSink publishes each envelope as a JSON payload on a fixed pub/sub
// channel.
type RedisSink struct {
	client  *redis.Client
	channel string
}

// NewRedis builds a sink against the given Redis server.
func NewRedis(cfg config.RedisBackend) *RedisSink {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr})
	return &RedisSink{client: client, channel: cfg.Channel}
}

func (r *RedisSink) Publish(ctx context.Context, env compare.SignatureEnvelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return r.client.Publish(r.channel, data).Err()
}

func (r *RedisSink) Close() error {
	return r.client.Close()
}
