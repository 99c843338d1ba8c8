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

package store

import (
	"fmt"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/lib/pq" // registers the "postgres" gorm dialect driver
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/chainsidecar/indexer/internal/config"
	"github.com/chainsidecar/indexer/internal/logging"
)

// connectRetryBudget and connectRetryInterval implement §4.2's failure
// semantics: "Connection-establishment failures retry for up to ten seconds
// with a two-second backoff."
const (
	connectRetryBudget   = 10 * time.Second
	connectRetryInterval = 2 * time.Second
)

// Store is the transactional persistence abstraction of spec.md §4.2.
type Store struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

// Open connects to Postgres, retrying on connection-establishment failure
// per the budget above, then ensures the schema and migrations table exist.
func Open(cfg config.Config) (*Store, error) {
	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable search_path=%s",
		cfg.PGHost, cfg.PGPort, cfg.PGDatabase, cfg.PGUser, cfg.PGPassword, cfg.PGSchema)

	log := logging.New("store")
	deadline := time.Now().Add(connectRetryBudget)

	var db *gorm.DB
	var err error
	for attempt := 1; ; attempt++ {
		db, err = gorm.Open("postgres", dsn)
		if err == nil {
			err = db.DB().Ping()
		}
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			return nil, errors.Wrap(err, "store: exhausted connection retry budget")
		}
		log.Warnw("connection attempt failed, retrying", "attempt", attempt, "err", err)
		time.Sleep(connectRetryInterval)
	}

	s := &Store{db: db, log: log}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "store: migration failed")
	}
	return s, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying gorm handle so the Indexer can open and manage
// its own per-batch transaction (§4.3 step 1).
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) migrate() error {
	return migrateDB(s.db)
}

func migrateDB(db *gorm.DB) error {
	return db.AutoMigrate(
		&blockRow{},
		&txRow{},
		&stxEventRow{},
		&ftEventRow{},
		&nftEventRow{},
		&contractLogRow{},
		&smartContractRow{},
		&checkpointRow{},
		&migrationRow{},
	).Error
}

// Reset drops every table this Store manages and recreates them from
// scratch. It is the down-migration half of §6's "migrations are
// directional (up/down)... gated behind a non-production environment
// flag". Callers must check config.Config.AllowDestructiveMigrations
// before calling Reset, since it destroys all ingested data.
func Reset(db *gorm.DB) error {
	err := db.DropTableIfExists(
		&blockRow{},
		&txRow{},
		&stxEventRow{},
		&ftEventRow{},
		&nftEventRow{},
		&contractLogRow{},
		&smartContractRow{},
		&checkpointRow{},
		&migrationRow{},
	).Error
	if err != nil {
		return errors.Wrap(err, "store: drop schema")
	}
	return errors.Wrap(migrateDB(db), "store: recreate schema")
}
