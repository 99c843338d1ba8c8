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
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"

	"github.com/chainsidecar/indexer/internal/chaintypes"
)

const checkpointID = 1

// ReadCheckpoint returns the last fully-committed block height, or 0 if
// none has been recorded yet, mirroring the teacher's
// ChainDataFetcher.checkpoint/ReadCheckpoint discipline so a restarted
// process can log its resume point without a full table scan. db may be
// the Store's own handle or a transaction, matching GetChainTip's shape.
func ReadCheckpoint(db *gorm.DB) (int64, error) {
	var row checkpointRow
	err := db.Where("id = ?", checkpointID).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "store: read checkpoint")
	}
	return row.Height, nil
}

// WriteCheckpoint persists the last fully-processed block height. It takes
// tx so the Indexer can advance the checkpoint inside the same transaction
// that writes the block, keeping the two consistent across a crash.
func WriteCheckpoint(tx *gorm.DB, height int64) error {
	row := checkpointRow{ID: checkpointID, Height: height}
	err := tx.Save(&row).Error
	return errors.Wrap(err, "store: write checkpoint")
}

// ChainTip is the current canonical chain tip the Indexer reads at the
// start of each ingestion transaction (§4.3 step 2).
type ChainTip struct {
	Height         uint64
	IndexBlockHash chaintypes.Hash
	Found          bool
}

// GetChainTip returns the max canonical block_height and its index_block_hash.
func GetChainTip(tx *gorm.DB) (ChainTip, error) {
	var row blockRow
	err := tx.Where("canonical = ?", true).Order("block_height DESC").First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return ChainTip{}, nil
	}
	if err != nil {
		return ChainTip{}, errors.Wrap(err, "store: get chain tip")
	}
	return ChainTip{Height: row.BlockHeight, IndexBlockHash: row.IndexBlockHash, Found: true}, nil
}
