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
	"os"
	"testing"

	"github.com/jinzhu/gorm"
	_ "github.com/lib/pq"
)

// openTestDB opens a throwaway connection against a real Postgres instance
// for the reorg/read tests below, the same way the teacher's
// integration-style tests reach out to a live backend rather than mocking
// the database layer. Set STORE_TEST_DSN to run these; they are skipped
// otherwise so `go test ./...` still passes with no Postgres available.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("STORE_TEST_DSN")
	if dsn == "" {
		t.Skip("STORE_TEST_DSN not set, skipping store integration test")
	}

	db, err := gorm.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.AutoMigrate(
		&blockRow{}, &txRow{}, &stxEventRow{}, &ftEventRow{}, &nftEventRow{},
		&contractLogRow{}, &smartContractRow{}, &checkpointRow{}, &migrationRow{},
	).Error; err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	truncateAll(t, db)
	t.Cleanup(func() { truncateAll(t, db) })
	return db
}

func truncateAll(t *testing.T, db *gorm.DB) {
	t.Helper()
	tables := []string{
		"blocks", "txs", "stx_events", "ft_events", "nft_events",
		"contract_logs", "smart_contracts", "checkpoints",
	}
	for _, tbl := range tables {
		if err := db.Exec("TRUNCATE TABLE " + tbl + " CASCADE").Error; err != nil {
			t.Fatalf("truncate %s: %v", tbl, err)
		}
	}
}
