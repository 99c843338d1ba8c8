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

// Package config loads the indexer's connection and environment settings
// (spec.md §6), following the teacher's cmd/utils pattern of decoding a TOML
// file and then letting environment variables override individual fields.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/naoina/toml"
)

// Env is the NODE_ENV gate on destructive migrations (§6, §6 "migrations
// table... down-migrations are gated behind a non-production environment
// flag").
type Env string

const (
	EnvProduction  Env = "production"
	EnvDevelopment Env = "development"
	EnvTest        Env = "test"
)

// Config holds the recognized options of spec.md §6.
type Config struct {
	PGHost     string `toml:"pg_host"`
	PGPort     int    `toml:"pg_port"`
	PGDatabase string `toml:"pg_database"`
	PGUser     string `toml:"pg_user"`
	PGPassword string `toml:"pg_password"`
	PGSchema   string `toml:"pg_schema"`

	NodeEnv Env `toml:"node_env"`

	// ChainID is decoded from the config file but nothing reads it. Testnet
	// is what selects the address encoding: cmd/indexer passes it to
	// decode.New, which then derives addresses with testnet version bytes.
	// No well-known contract identifiers are configured.
	ChainID int  `toml:"chain_id"`
	Testnet bool `toml:"testnet"`

	NumHandlers int `toml:"num_handlers"`

	KafkaBrokers []string `toml:"kafka_brokers"`
	KafkaTopic   string   `toml:"kafka_topic"`
	KafkaGroupID string   `toml:"kafka_group_id"`
}

// DefaultPGPort is the store's conventional default, used when PG_PORT is
// unset (§6).
const DefaultPGPort = 5432

// Default returns a Config with the conventional defaults applied.
func Default() Config {
	return Config{
		PGHost:      "localhost",
		PGPort:      DefaultPGPort,
		PGDatabase:  "chainindexer",
		PGUser:      "postgres",
		PGSchema:    "public",
		NodeEnv:      EnvDevelopment,
		NumHandlers:  4,
		KafkaBrokers: []string{"localhost:9092"},
		KafkaTopic:   "chainsidecar-blocks",
		KafkaGroupID: "chainsidecar-indexer",
	}
}

// Load decodes path (if non-empty) as TOML over the defaults, then applies
// PG_*/NODE_ENV environment overrides, matching §6's recognized option list.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, err
		}
		defer f.Close()
		if err := toml.NewDecoder(f).Decode(&cfg); err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PG_HOST"); v != "" {
		c.PGHost = v
	}
	if v := os.Getenv("PG_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.PGPort = port
		}
	}
	if v := os.Getenv("PG_DATABASE"); v != "" {
		c.PGDatabase = v
	}
	if v := os.Getenv("PG_USER"); v != "" {
		c.PGUser = v
	}
	if v := os.Getenv("PG_PASSWORD"); v != "" {
		c.PGPassword = v
	}
	if v := os.Getenv("PG_SCHEMA"); v != "" {
		c.PGSchema = v
	}
	if v := os.Getenv("NODE_ENV"); v != "" {
		c.NodeEnv = Env(v)
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.KafkaBrokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.KafkaTopic = v
	}
}

// AllowDestructiveMigrations reports whether down-migrations may run, gated
// to non-production environments (§6).
func (c Config) AllowDestructiveMigrations() bool {
	return c.NodeEnv != EnvProduction
}
