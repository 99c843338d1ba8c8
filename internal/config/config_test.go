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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithNoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "localhost", cfg.PGHost)
	require.Equal(t, DefaultPGPort, cfg.PGPort)
	require.Equal(t, EnvDevelopment, cfg.NodeEnv)
	require.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
}

func TestLoad_TOMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
pg_host = "db.internal"
pg_port = 6543
node_env = "production"
kafka_topic = "custom-topic"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "db.internal", cfg.PGHost)
	require.Equal(t, 6543, cfg.PGPort)
	require.Equal(t, EnvProduction, cfg.NodeEnv)
	require.Equal(t, "custom-topic", cfg.KafkaTopic)
	require.False(t, cfg.AllowDestructiveMigrations())
}

func TestLoad_EnvOverridesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`pg_host = "from-toml"`), 0o644))

	t.Setenv("PG_HOST", "from-env")
	t.Setenv("KAFKA_BROKERS", "broker-a:9092,broker-b:9092")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.PGHost)
	require.Equal(t, []string{"broker-a:9092", "broker-b:9092"}, cfg.KafkaBrokers)
}

func TestLoad_MissingFileErrors(t *testing.T) {
	_, err := Load("/nonexistent/path/config.toml")
	require.Error(t, err)
}

func TestAllowDestructiveMigrations(t *testing.T) {
	cfg := Default()
	cfg.NodeEnv = EnvDevelopment
	require.True(t, cfg.AllowDestructiveMigrations())

	cfg.NodeEnv = EnvProduction
	require.False(t, cfg.AllowDestructiveMigrations())
}
