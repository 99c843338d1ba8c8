// Copyright 2026 The chainsidecar Authors
// This file is part of the chainsidecar indexer.
//
// The chainsidecar indexer is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// The chainsidecar indexer is distributed in the hope that it will be
// useful, but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU Lesser
// General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the chainsidecar indexer. If not, see
// <http://www.gnu.org/licenses/>.

// Package ingest implements the Ingestion input of spec.md §6: a Kafka
// consumer group delivering the at-least-once batch stream of structured
// block messages. Grounded on the teacher's
// datasync/chaindatafetcher/kafka package (KafkaConfig, sarama usage) and
// kafka_client/main.go, but reversed: the teacher publishes chain events to
// Kafka, this consumes them, since here Kafka models the upstream node's
// event feed rather than a downstream export.
package ingest

import (
	"context"
	"encoding/json"

	"github.com/Shopify/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/chainsidecar/indexer/internal/decode"
	"github.com/chainsidecar/indexer/internal/indexer"
	"github.com/chainsidecar/indexer/internal/logging"
)

// Config mirrors the teacher's KafkaConfig shape
// (datasync/chaindatafetcher/kafka/config.go), trimmed to the consumer-side
// fields this sidecar needs.
type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

// DefaultSaramaConfig returns a sarama.Config tuned the way the teacher's
// GetDefaultKafkaConfig does, with the version pinned to the newest the
// client library knows about.
func DefaultSaramaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.MaxVersion
	cfg.Consumer.Return.Errors = true
	return cfg
}

// Consumer reads block messages from Kafka and drives them through the
// Decoder and Indexer, one at a time per partition-ordered delivery.
type Consumer struct {
	cfg     Config
	sarama  *sarama.Config
	decoder *decode.Decoder
	indexer *indexer.Indexer
	log     *zap.SugaredLogger
}

// New constructs a Consumer. saramaCfg may be nil to use DefaultSaramaConfig.
func New(cfg Config, saramaCfg *sarama.Config, dec *decode.Decoder, ix *indexer.Indexer) *Consumer {
	if saramaCfg == nil {
		saramaCfg = DefaultSaramaConfig()
	}
	return &Consumer{
		cfg:     cfg,
		sarama:  saramaCfg,
		decoder: dec,
		indexer: ix,
		log:     logging.New("ingest"),
	}
}

// Run joins the consumer group and blocks until ctx is cancelled or the
// consumer group returns a fatal error.
func (c *Consumer) Run(ctx context.Context) error {
	group, err := sarama.NewConsumerGroup(c.cfg.Brokers, c.cfg.GroupID, c.sarama)
	if err != nil {
		return errors.Wrap(err, "ingest: new consumer group")
	}
	defer group.Close()

	go func() {
		for err := range group.Errors() {
			c.log.Errorw("consumer group error", "err", err)
		}
	}()

	handler := &groupHandler{consumer: c}
	for {
		if err := group.Consume(ctx, []string{c.cfg.Topic}, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			return errors.Wrap(err, "ingest: consume")
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

type groupHandler struct {
	consumer *Consumer
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		h.consumer.handle(session.Context(), msg)
		session.MarkMessage(msg, "")
	}
	return nil
}

// handle decodes and ingests a single Kafka message. A malformed message is
// a DecodeError (§7): it is logged and dropped, never retried, since
// redelivery would hit the same malformed bytes.
func (c *Consumer) handle(ctx context.Context, msg *sarama.ConsumerMessage) {
	var raw decode.BlockMessage
	if err := json.Unmarshal(msg.Value, &raw); err != nil {
		c.log.Errorw("malformed ingestion message, dropping", "offset", msg.Offset, "partition", msg.Partition, "err", err)
		return
	}

	batch, err := c.decoder.DecodeBlockMessage(raw)
	if err != nil {
		c.log.Errorw("decode error, dropping message", "offset", msg.Offset, "partition", msg.Partition, "err", err)
		return
	}

	result, err := c.indexer.Ingest(ctx, batch)
	if err != nil {
		c.log.Errorw("ingest failed", "offset", msg.Offset, "partition", msg.Partition, "err", err)
		return
	}
	if result.NoOp {
		c.log.Debugw("duplicate delivery, no-op", "height", result.Block.BlockHeight)
		return
	}
	c.log.Infow("ingested block", "height", result.Block.BlockHeight, "txs", result.TxCount)
}
