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

package ingest

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"testing"

	"github.com/Shopify/sarama"
	"github.com/stretchr/testify/require"

	"github.com/chainsidecar/indexer/internal/chaintypes"
	"github.com/chainsidecar/indexer/internal/config"
	"github.com/chainsidecar/indexer/internal/decode"
	"github.com/chainsidecar/indexer/internal/indexer"
	"github.com/chainsidecar/indexer/internal/logging"
	"github.com/chainsidecar/indexer/internal/notify"
	"github.com/chainsidecar/indexer/internal/store"
)

func newTestConsumer(t *testing.T) *Consumer {
	t.Helper()
	host := os.Getenv("STORE_TEST_PG_HOST")
	if host == "" {
		t.Skip("STORE_TEST_PG_HOST not set, skipping ingest integration test")
	}

	cfg := config.Default()
	cfg.PGHost = host
	if v := os.Getenv("STORE_TEST_PG_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.PGPort = port
		}
	}
	if v := os.Getenv("STORE_TEST_PG_DATABASE"); v != "" {
		cfg.PGDatabase = v
	}
	if v := os.Getenv("STORE_TEST_PG_USER"); v != "" {
		cfg.PGUser = v
	}
	if v := os.Getenv("STORE_TEST_PG_PASSWORD"); v != "" {
		cfg.PGPassword = v
	}

	s, err := store.Open(cfg)
	require.NoError(t, err)
	tables := []string{
		"blocks", "txs", "stx_events", "ft_events", "nft_events",
		"contract_logs", "smart_contracts", "checkpoints",
	}
	for _, tbl := range tables {
		require.NoError(t, s.DB().Exec("TRUNCATE TABLE "+tbl+" CASCADE").Error)
	}
	t.Cleanup(func() { s.Close() })

	ix := indexer.New(s, notify.NewHub())
	return New(Config{Topic: "test"}, nil, decode.New(false), ix)
}

func TestHandle_MalformedJSONIsDroppedNotPanicked(t *testing.T) {
	c := &Consumer{
		cfg:     Config{Topic: "test"},
		sarama:  DefaultSaramaConfig(),
		decoder: decode.New(false),
		indexer: nil,
		log:     logging.New("ingest"),
	}
	c.handle(context.Background(), &sarama.ConsumerMessage{Value: []byte("not json")})
}

func TestHandle_DecodeErrorIsDroppedNotPanicked(t *testing.T) {
	c := &Consumer{
		cfg:     Config{Topic: "test"},
		sarama:  DefaultSaramaConfig(),
		decoder: decode.New(false),
		indexer: nil,
		log:     logging.New("ingest"),
	}

	raw := decode.BlockMessage{
		BlockHeight: 1,
		Txs: []decode.TxMessage{
			{RawTx: []byte{0xff}}, // too short to decode, triggers a decode error
		},
	}
	payload, err := json.Marshal(raw)
	require.NoError(t, err)

	c.handle(context.Background(), &sarama.ConsumerMessage{Value: payload})
}

func TestHandle_ValidMessageIngests(t *testing.T) {
	c := newTestConsumer(t)

	raw := decode.BlockMessage{
		BlockHash:      chaintypes.Hash{1},
		IndexBlockHash: chaintypes.Hash{1},
		BlockHeight:    1,
	}
	payload, err := json.Marshal(raw)
	require.NoError(t, err)

	c.handle(context.Background(), &sarama.ConsumerMessage{Value: payload})
}
