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

// Package store implements the Store component of spec.md §4.2: a
// transactional persistence layer over gorm, owning the canonical-chain
// schema invariants and serving the read queries the HTTP layer (out of
// scope) is built on.
package store

import "github.com/chainsidecar/indexer/internal/chaintypes"

// The row types below mirror chaintypes' domain structs with gorm tags and
// nullable payload columns gated by type_id, per spec.md §9's design note:
// "the SQL layer continues to use nullable columns gated by type_id for
// query simplicity."

type blockRow struct {
	BlockHash            chaintypes.Hash `gorm:"type:bytea;not null"`
	IndexBlockHash       chaintypes.Hash `gorm:"type:bytea;primary_key"`
	ParentIndexBlockHash chaintypes.Hash `gorm:"type:bytea;not null;index"`
	ParentBlockHash      chaintypes.Hash `gorm:"type:bytea;not null"`
	ParentMicroblock     chaintypes.Hash `gorm:"type:bytea;not null"`
	BlockHeight          uint64          `gorm:"not null;index"`
	BurnBlockTime        int64           `gorm:"not null"`
	Canonical            bool            `gorm:"not null;index"`
}

func (blockRow) TableName() string { return "blocks" }

type txRow struct {
	TxID           chaintypes.Hash `gorm:"type:bytea;primary_key"`
	IndexBlockHash chaintypes.Hash `gorm:"type:bytea;primary_key;index"`
	TxIndex        uint32          `gorm:"not null"`
	BlockHash      chaintypes.Hash `gorm:"type:bytea;not null"`
	BlockHeight    uint64          `gorm:"not null;index"`
	BurnBlockTime  int64           `gorm:"not null"`

	TypeID    uint8 `gorm:"type:smallint;not null;index"`
	Status    uint8 `gorm:"type:smallint;not null"`
	Canonical bool  `gorm:"not null;index"`

	PostConditions []byte `gorm:"type:bytea"`
	FeeRate        uint64 `gorm:"type:bigint;not null"`
	SenderAddress  string `gorm:"not null;index"`
	OriginHashMode uint8  `gorm:"type:smallint;not null"`
	Sponsored      bool   `gorm:"not null"`
	SponsorAddress string `gorm:"index"`

	// TokenTransfer payload
	TokenTransferRecipient string `gorm:"index"`
	TokenTransferAmount    uint64 `gorm:"type:bigint"`
	TokenTransferMemo      []byte `gorm:"type:bytea"`

	// SmartContract / ContractCall payload (contract_id shared by both)
	ContractID   string `gorm:"index"`
	SourceCode   string
	FunctionName string
	Arguments    []byte `gorm:"type:bytea"`

	// Coinbase payload
	CoinbasePayload []byte `gorm:"type:bytea"`

	// PoisonMicroblock payload
	MicroblockHeader1 []byte `gorm:"type:bytea"`
	MicroblockHeader2 []byte `gorm:"type:bytea"`
}

func (txRow) TableName() string { return "txs" }

type stxEventRow struct {
	EventIndex      uint32          `gorm:"primary_key"`
	TxID            chaintypes.Hash `gorm:"type:bytea;primary_key"`
	IndexBlockHash  chaintypes.Hash `gorm:"type:bytea;primary_key;index"`
	TxIndex         uint32          `gorm:"not null"`
	BlockHeight     uint64          `gorm:"not null;index"`
	Canonical       bool            `gorm:"not null;index"`
	AssetEventType  uint8           `gorm:"type:smallint;not null"`
	Sender          string          `gorm:"index"`
	Recipient       string          `gorm:"index"`
	Amount          uint64          `gorm:"type:bigint;not null"`
}

func (stxEventRow) TableName() string { return "stx_events" }

type ftEventRow struct {
	EventIndex      uint32              `gorm:"primary_key"`
	TxID            chaintypes.Hash     `gorm:"type:bytea;primary_key"`
	IndexBlockHash  chaintypes.Hash     `gorm:"type:bytea;primary_key;index"`
	TxIndex         uint32              `gorm:"not null"`
	BlockHeight     uint64              `gorm:"not null;index"`
	Canonical       bool                `gorm:"not null;index"`
	AssetEventType  uint8               `gorm:"type:smallint;not null"`
	Sender          string              `gorm:"index"`
	Recipient       string              `gorm:"index"`
	AssetIdentifier string              `gorm:"index;not null"`
	Amount          chaintypes.Uint128  `gorm:"type:numeric(78,0);not null"`
}

func (ftEventRow) TableName() string { return "ft_events" }

type nftEventRow struct {
	EventIndex      uint32          `gorm:"primary_key"`
	TxID            chaintypes.Hash `gorm:"type:bytea;primary_key"`
	IndexBlockHash  chaintypes.Hash `gorm:"type:bytea;primary_key;index"`
	TxIndex         uint32          `gorm:"not null"`
	BlockHeight     uint64          `gorm:"not null;index"`
	Canonical       bool            `gorm:"not null;index"`
	AssetEventType  uint8           `gorm:"type:smallint;not null"`
	Sender          string          `gorm:"index"`
	Recipient       string          `gorm:"index"`
	AssetIdentifier string          `gorm:"index;not null"`
	Value           []byte          `gorm:"type:bytea"`
}

func (nftEventRow) TableName() string { return "nft_events" }

type contractLogRow struct {
	EventIndex         uint32          `gorm:"primary_key"`
	TxID               chaintypes.Hash `gorm:"type:bytea;primary_key"`
	IndexBlockHash     chaintypes.Hash `gorm:"type:bytea;primary_key;index"`
	TxIndex            uint32          `gorm:"not null"`
	BlockHeight        uint64          `gorm:"not null;index"`
	Canonical          bool            `gorm:"not null;index"`
	ContractIdentifier string          `gorm:"index;not null"`
	Topic              string          `gorm:"index"`
	Value              []byte          `gorm:"type:bytea"`
}

func (contractLogRow) TableName() string { return "contract_logs" }

type smartContractRow struct {
	TxID           chaintypes.Hash `gorm:"type:bytea;primary_key"`
	IndexBlockHash chaintypes.Hash `gorm:"type:bytea;primary_key;index"`
	ContractID     string          `gorm:"index;not null"`
	BlockHeight    uint64          `gorm:"not null;index"`
	SourceCode     string
	ABI            []byte `gorm:"type:bytea"`
	Canonical      bool   `gorm:"not null;index"`
}

func (smartContractRow) TableName() string { return "smart_contracts" }

// checkpointRow tracks the last canonical block height committed, so a
// restarted process can log its resume point without a full table scan;
// redelivery itself follows the Kafka consumer group's offsets (see
// SPEC_FULL.md "Checkpointing").
type checkpointRow struct {
	ID     uint8 `gorm:"primary_key"`
	Height int64 `gorm:"not null"`
}

func (checkpointRow) TableName() string { return "checkpoints" }

// migrationRow is the schema_migrations table (§6). migrateDB and Reset
// create it, but nothing in this package writes a version row into it.
type migrationRow struct {
	Version int64 `gorm:"primary_key"`
	Name    string
}

func (migrationRow) TableName() string { return "schema_migrations" }
