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
	"reflect"

	"github.com/jinzhu/gorm"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/chainsidecar/indexer/internal/chaintypes"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok {
		return pqErr.Code == uniqueViolation
	}
	return false
}

// idempotentCreate inserts row into tx, treating a unique-constraint
// violation as a successful no-op (rowsAffected == 0) rather than an error,
// per §4.2's "idempotent on <key>; on conflict, do nothing and return 0."
// row may be a struct value: it is copied into an addressable value, which
// gorm needs in order to scan the postgres RETURNING column back into it.
func idempotentCreate(tx *gorm.DB, row interface{}) (int64, error) {
	ptr := reflect.New(reflect.TypeOf(row))
	ptr.Elem().Set(reflect.ValueOf(row))
	result := tx.Create(ptr.Interface())
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return 0, nil
		}
		return 0, errors.Wrap(result.Error, "store: insert failed")
	}
	return result.RowsAffected, nil
}

// InsertBlock is idempotent on index_block_hash (§4.2).
func InsertBlock(tx *gorm.DB, b chaintypes.Block) (int64, error) {
	return idempotentCreate(tx, blockToRow(b))
}

// InsertTx is idempotent on (tx_id, index_block_hash).
func InsertTx(tx *gorm.DB, t chaintypes.Tx) (int64, error) {
	return idempotentCreate(tx, txToRow(t))
}

func InsertStxEvent(tx *gorm.DB, e chaintypes.StxEvent) (int64, error) {
	return idempotentCreate(tx, stxEventToRow(e))
}

func InsertFtEvent(tx *gorm.DB, e chaintypes.FtEvent) (int64, error) {
	return idempotentCreate(tx, ftEventToRow(e))
}

func InsertNftEvent(tx *gorm.DB, e chaintypes.NftEvent) (int64, error) {
	return idempotentCreate(tx, nftEventToRow(e))
}

func InsertContractLog(tx *gorm.DB, l chaintypes.ContractLog) (int64, error) {
	return idempotentCreate(tx, logToRow(l))
}

func InsertSmartContract(tx *gorm.DB, c chaintypes.SmartContract) (int64, error) {
	return idempotentCreate(tx, contractToRow(c))
}

// UpdatedCounts reports how many rows of each entity table flipped
// canonicality during a reorg or a MarkEntitiesCanonical call (§4.2, §4.3's
// reorg logging, and SPEC_FULL.md's consistently-named counters).
type UpdatedCounts struct {
	Blocks        int64
	Txs           int64
	StxEvents     int64
	FtEvents      int64
	NftEvents     int64
	ContractLogs  int64
	SmartContracts int64
}

func (u UpdatedCounts) add(o UpdatedCounts) UpdatedCounts {
	return UpdatedCounts{
		Blocks:         u.Blocks + o.Blocks,
		Txs:            u.Txs + o.Txs,
		StxEvents:      u.StxEvents + o.StxEvents,
		FtEvents:       u.FtEvents + o.FtEvents,
		NftEvents:      u.NftEvents + o.NftEvents,
		ContractLogs:   u.ContractLogs + o.ContractLogs,
		SmartContracts: u.SmartContracts + o.SmartContracts,
	}
}

// MarkEntitiesCanonical updates every entity row sharing indexBlockHash
// whose current canonical flag differs from canonical (§4.2, invariant I3).
func MarkEntitiesCanonical(tx *gorm.DB, indexBlockHash chaintypes.Hash, canonical bool) (UpdatedCounts, error) {
	var counts UpdatedCounts
	type flip struct {
		model interface{}
		dest  *int64
	}
	flips := []flip{
		{&blockRow{}, &counts.Blocks},
		{&txRow{}, &counts.Txs},
		{&stxEventRow{}, &counts.StxEvents},
		{&ftEventRow{}, &counts.FtEvents},
		{&nftEventRow{}, &counts.NftEvents},
		{&contractLogRow{}, &counts.ContractLogs},
		{&smartContractRow{}, &counts.SmartContracts},
	}
	for _, f := range flips {
		result := tx.Model(f.model).
			Where("index_block_hash = ? AND canonical <> ?", indexBlockHash[:], canonical).
			Update("canonical", canonical)
		if result.Error != nil {
			return counts, errors.Wrap(result.Error, "store: mark canonical failed")
		}
		*f.dest = result.RowsAffected
	}
	return counts, nil
}
