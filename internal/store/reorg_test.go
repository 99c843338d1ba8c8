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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chainsidecar/indexer/internal/chaintypes"
)

func mkBlock(height uint64, indexHash, parentIndexHash byte, canonical bool) chaintypes.Block {
	return chaintypes.Block{
		BlockHash:            chaintypes.Hash{indexHash},
		IndexBlockHash:       chaintypes.Hash{indexHash},
		ParentIndexBlockHash: chaintypes.Hash{parentIndexHash},
		BlockHeight:          height,
		Canonical:            canonical,
	}
}

// TestLinearExtension implements spec.md §8 scenario 1.
func TestLinearExtension(t *testing.T) {
	db := openTestDB(t)

	for h := byte(1); h <= 3; h++ {
		parent := h - 1
		n, err := InsertBlock(db, mkBlock(uint64(h), h, parent, true))
		require.NoError(t, err)
		require.EqualValues(t, 1, n)
	}

	tip, err := GetChainTip(db)
	require.NoError(t, err)
	require.True(t, tip.Found)
	require.Equal(t, uint64(3), tip.Height)
}

// TestSiblingAtTip implements spec.md §8 scenario 2: a second block at
// height 2 with a different index_block_hash, parented on height 1, stored
// non-canonical alongside the first.
func TestSiblingAtTip(t *testing.T) {
	db := openTestDB(t)

	_, err := InsertBlock(db, mkBlock(1, 1, 0, true))
	require.NoError(t, err)
	_, err = InsertBlock(db, mkBlock(2, 2, 1, true))
	require.NoError(t, err)

	sibling := mkBlock(2, 20, 1, false)
	_, err = InsertBlock(db, sibling)
	require.NoError(t, err)

	var rows []blockRow
	require.NoError(t, db.Where("block_height = ?", 2).Find(&rows).Error)
	require.Len(t, rows, 2)

	canonicalCount := 0
	for _, r := range rows {
		if r.Canonical {
			canonicalCount++
		}
	}
	require.Equal(t, 1, canonicalCount)

	tip, err := GetChainTip(db)
	require.NoError(t, err)
	require.Equal(t, uint64(2), tip.Height)
}

// TestOneBlockForkVictory implements spec.md §8 scenario 3.
func TestOneBlockForkVictory(t *testing.T) {
	db := openTestDB(t)

	_, err := InsertBlock(db, mkBlock(1, 1, 0, true))
	require.NoError(t, err)
	_, err = InsertBlock(db, mkBlock(2, 2, 1, true))
	require.NoError(t, err)
	_, err = InsertBlock(db, mkBlock(2, 20, 1, false))
	require.NoError(t, err)

	_, err = RestoreOrphanedChain(db, chaintypes.Hash{20})
	require.NoError(t, err)

	var original, sibling blockRow
	require.NoError(t, db.Where("index_block_hash = ?", chaintypes.Hash{2}[:]).First(&original).Error)
	require.NoError(t, db.Where("index_block_hash = ?", chaintypes.Hash{20}[:]).First(&sibling).Error)

	require.False(t, original.Canonical)
	require.True(t, sibling.Canonical)
}

// TestDeepReorg implements spec.md §8 scenario 4: a linear chain 1..5, then
// a competing branch 2'..6' fed one block at a time; ingesting 6' should
// walk the restoration back through the whole competing branch.
func TestDeepReorg(t *testing.T) {
	db := openTestDB(t)

	_, err := InsertBlock(db, mkBlock(1, 1, 0, true))
	require.NoError(t, err)
	for h := byte(2); h <= 5; h++ {
		_, err := InsertBlock(db, mkBlock(uint64(h), h, h-1, true))
		require.NoError(t, err)
	}

	// Competing branch: 2'(idx 102) .. 6'(idx 106), each non-canonical on
	// arrival since it never passes the canonical tip until 6'.
	branchIdx := func(h byte) byte { return 100 + h }
	for h := byte(2); h <= 6; h++ {
		parentIdx := byte(1)
		if h > 2 {
			parentIdx = branchIdx(h - 1)
		}
		_, err := InsertBlock(db, mkBlock(uint64(h), branchIdx(h), parentIdx, false))
		require.NoError(t, err)
	}

	counts, err := RestoreOrphanedChain(db, chaintypes.Hash{branchIdx(6)})
	require.NoError(t, err)
	// 2',3',4',5',6' flip to canonical and 2,3,4,5 flip to non-canonical.
	require.EqualValues(t, 9, counts.Blocks)

	for h := byte(2); h <= 6; h++ {
		var row blockRow
		require.NoError(t, db.Where("index_block_hash = ?", chaintypes.Hash{branchIdx(h)}[:]).First(&row).Error)
		require.True(t, row.Canonical, "branch block at height %d should be canonical", h)
	}
	for h := byte(2); h <= 5; h++ {
		var row blockRow
		require.NoError(t, db.Where("index_block_hash = ?", chaintypes.Hash{h}[:]).First(&row).Error)
		require.False(t, row.Canonical, "original block at height %d should be orphaned", h)
	}
}

// TestIdempotentRedelivery implements spec.md §8 scenario 5: re-ingesting
// the same block commits zero additional writes.
func TestIdempotentRedelivery(t *testing.T) {
	db := openTestDB(t)

	b := mkBlock(1, 1, 0, true)
	n1, err := InsertBlock(db, b)
	require.NoError(t, err)
	require.EqualValues(t, 1, n1)

	n2, err := InsertBlock(db, b)
	require.NoError(t, err)
	require.EqualValues(t, 0, n2)

	var count int
	require.NoError(t, db.Model(&blockRow{}).Where("index_block_hash = ?", chaintypes.Hash{1}[:]).Count(&count).Error)
	require.Equal(t, 1, count)
}

// TestBalanceUnderReorg implements spec.md §8 scenario 6: a balance
// transitions back to zero after the block granting it is orphaned, with
// no row deletion.
func TestBalanceUnderReorg(t *testing.T) {
	db := openTestDB(t)

	_, err := InsertBlock(db, mkBlock(1, 1, 0, true))
	require.NoError(t, err)

	txID := chaintypes.Hash{0xaa}
	tx := chaintypes.Tx{
		TxID: txID, TxIndex: 0, IndexBlockHash: chaintypes.Hash{1},
		BlockHash: chaintypes.Hash{1}, BlockHeight: 1, TypeID: chaintypes.TxTypeTokenTransfer,
		Canonical: true,
	}
	_, err = InsertTx(db, tx)
	require.NoError(t, err)

	event := chaintypes.StxEvent{
		EventEnvelope: chaintypes.EventEnvelope{
			EventIndex: 0, TxID: txID, TxIndex: 0, BlockHeight: 1,
			IndexBlockHash: chaintypes.Hash{1}, Canonical: true,
		},
		AssetEventType: chaintypes.AssetEventTransfer,
		Sender:         "SENDER",
		Recipient:      "RECIPIENT",
		Amount:         100,
	}
	_, err = InsertStxEvent(db, event)
	require.NoError(t, err)

	bal, err := GetStxBalance(db, "RECIPIENT")
	require.NoError(t, err)
	require.EqualValues(t, 100, bal.Balance)

	// Orphan block 1 (simulating a reorg that replaces it with X' carrying
	// no such transfer): flip every entity to non-canonical directly,
	// exactly what MarkEntitiesCanonical does mid-reorg.
	_, err = MarkEntitiesCanonical(db, chaintypes.Hash{1}, false)
	require.NoError(t, err)

	bal, err = GetStxBalance(db, "RECIPIENT")
	require.NoError(t, err)
	require.EqualValues(t, 0, bal.Balance)

	var count int
	require.NoError(t, db.Model(&stxEventRow{}).Count(&count).Error)
	require.Equal(t, 1, count, "no row should be deleted")
}
