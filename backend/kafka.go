// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

package backend

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Shopify/sarama"
	"github.com/hashicorp/go-uuid"

	"github.com/corvus-labs/geyserbench/compare"
	"github.com/corvus-labs/geyserbench/config"
)

// KafkaSink publishes each envelope as a JSON-encoded Sarama message
// through an async producer.
type KafkaSink struct {
	producer sarama.AsyncProducer
	topic    string
}

// NewKafka dials the configured broker list and returns a ready sink.
func NewKafka(cfg config.KafkaBackend) (*KafkaSink, error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.Producer.Return.Successes = false
	saramaCfg.Producer.Return.Errors = true
	saramaCfg.Producer.RequiredAcks = sarama.WaitForLocal

	id, _ := uuid.GenerateUUID()
	saramaCfg.ClientID = fmt.Sprintf("geyserbench-%s", id)

	producer, err := sarama.NewAsyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		return nil, err
	}

	sink := &KafkaSink{producer: producer, topic: cfg.Topic}
	go sink.drainErrors()
	return sink, nil
}

func (k *KafkaSink) drainErrors() {
	for err := range k.producer.Errors() {
		logger.Warn("kafka producer error", "err", err)
	}
}

func (k *KafkaSink) Publish(ctx context.Context, env compare.SignatureEnvelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(env.Signature),
		Value: sarama.ByteEncoder(data),
	}
	select {
	case k.producer.Input() <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (k *KafkaSink) Close() error {
	return k.producer.Close()
}
