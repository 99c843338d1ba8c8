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

// Command indexer runs the chainsidecar ingestion process: it connects to
// Postgres, joins the configured Kafka consumer group, and decodes and
// commits each delivered block message, following the teacher's cmd/kcn
// pattern of a urfave/cli app wrapping a long-running node process.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"github.com/chainsidecar/indexer/internal/config"
	"github.com/chainsidecar/indexer/internal/decode"
	"github.com/chainsidecar/indexer/internal/indexer"
	"github.com/chainsidecar/indexer/internal/ingest"
	"github.com/chainsidecar/indexer/internal/logging"
	"github.com/chainsidecar/indexer/internal/notify"
	"github.com/chainsidecar/indexer/internal/store"
)

var configFileFlag = cli.StringFlag{
	Name:  "config",
	Usage: "path to a TOML configuration file",
}

var resetSchemaFlag = cli.BoolFlag{
	Name:  "reset-schema",
	Usage: "drop and recreate all tables before starting (requires a non-production node_env)",
}

func main() {
	app := cli.NewApp()
	app.Name = "indexer"
	app.Usage = "chain indexer sidecar: decodes and persists block messages"
	app.Flags = []cli.Flag{configFileFlag, resetSchemaFlag}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	log := logging.New("cmd")

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if c.Bool("reset-schema") {
		if !cfg.AllowDestructiveMigrations() {
			return fmt.Errorf("reset-schema requires a non-production node_env, got %q", cfg.NodeEnv)
		}
		log.Warnw("reset-schema requested: dropping and recreating all tables")
		if err := store.Reset(st.DB()); err != nil {
			return fmt.Errorf("reset schema: %w", err)
		}
	}

	checkpoint, err := store.ReadCheckpoint(st.DB())
	if err != nil {
		return fmt.Errorf("read checkpoint: %w", err)
	}
	log.Infow("resuming ingestion", "lastCheckpointHeight", checkpoint)

	hub := notify.NewHub()
	dec := decode.New(cfg.Testnet)
	ix := indexer.New(st, hub)

	consumer := ingest.New(ingest.Config{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
		GroupID: cfg.KafkaGroupID,
	}, nil, dec, ix)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Infow("shutdown signal received")
		cancel()
	}()

	log.Infow("starting ingestion", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("consumer run: %w", err)
	}
	return nil
}
