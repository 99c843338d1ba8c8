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

// ErrBlockNotFound and ErrSchemaCorruption surface the fatal conditions
// RestoreOrphanedChain can hit (§4.2 step 1, §7 IngestError.SchemaCorruption).
var (
	ErrBlockNotFound     = errors.New("store: block not found")
	ErrSchemaCorruption  = errors.New("store: more than one block row matched a unique key")
)

// RestoreOrphanedChain is the reorg primitive of §4.2: it flips
// indexBlockHash and its ancestor chain back to canonical, orphaning
// whatever was canonical at each height along the way, and recurses up
// through however many ancestor blocks are themselves still orphaned.
func RestoreOrphanedChain(tx *gorm.DB, indexBlockHash chaintypes.Hash) (UpdatedCounts, error) {
	var total UpdatedCounts

	var rows []blockRow
	if err := tx.Where("index_block_hash = ?", indexBlockHash[:]).Find(&rows).Error; err != nil {
		return total, errors.Wrap(err, "store: lookup block for restoration")
	}
	if len(rows) == 0 {
		return total, ErrBlockNotFound
	}
	if len(rows) > 1 {
		return total, ErrSchemaCorruption
	}
	target := rows[0]

	// Step 1: the named block becomes canonical.
	if err := tx.Model(&blockRow{}).
		Where("index_block_hash = ?", indexBlockHash[:]).
		Update("canonical", true).Error; err != nil {
		return total, errors.Wrap(err, "store: set block canonical")
	}
	total.Blocks++

	// Step 2: find and orphan whatever else is canonical at this height.
	var siblings []blockRow
	if err := tx.Where("block_height = ? AND canonical = ? AND index_block_hash <> ?",
		target.BlockHeight, true, indexBlockHash[:]).Find(&siblings).Error; err != nil {
		return total, errors.Wrap(err, "store: lookup canonical sibling")
	}
	for _, sibling := range siblings {
		orphanCounts, err := MarkEntitiesCanonical(tx, sibling.IndexBlockHash, false)
		if err != nil {
			return total, err
		}
		total = total.add(orphanCounts)
	}

	// Step 3: flip every entity sharing indexBlockHash to canonical.
	selfCounts, err := MarkEntitiesCanonical(tx, indexBlockHash, true)
	if err != nil {
		return total, err
	}
	// selfCounts.Blocks was already counted by step 1's direct update above;
	// MarkEntitiesCanonical is a no-op there since the block is already
	// canonical, so selfCounts.Blocks is 0 and this add is exact.
	total = total.add(selfCounts)

	// Step 4: walk up to the parent if it exists and is non-canonical.
	if target.BlockHeight <= 1 {
		return total, nil
	}
	var parents []blockRow
	if err := tx.Where("block_height = ? AND index_block_hash = ?",
		target.BlockHeight-1, target.ParentIndexBlockHash[:]).Find(&parents).Error; err != nil {
		return total, errors.Wrap(err, "store: lookup parent block")
	}
	if len(parents) == 0 {
		return total, nil
	}
	if len(parents) > 1 {
		return total, ErrSchemaCorruption
	}
	parent := parents[0]
	if parent.Canonical {
		return total, nil
	}

	parentCounts, err := RestoreOrphanedChain(tx, parent.IndexBlockHash)
	if err != nil {
		return total, err
	}
	return total.add(parentCounts), nil
}
