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

func mkTx(txID, indexBlockHash chaintypes.Hash, txIndex uint32, height uint64, typeID chaintypes.TxTypeID, sender string) chaintypes.Tx {
	return chaintypes.Tx{
		TxID: txID, IndexBlockHash: indexBlockHash, TxIndex: txIndex,
		BlockHash: indexBlockHash, BlockHeight: height, TypeID: typeID,
		SenderAddress: sender, Canonical: true,
	}
}

func TestGetBlockByHash_OnlyCanonical(t *testing.T) {
	db := openTestDB(t)

	_, err := InsertBlock(db, mkBlock(1, 1, 0, true))
	require.NoError(t, err)
	_, err = InsertBlock(db, mkBlock(1, 2, 0, false))
	require.NoError(t, err)

	// mkBlock sets BlockHash == IndexBlockHash, so two blocks that share a
	// block_hash across forks are constructed directly: a non-canonical one
	// whose index_block_hash sorts first, and the canonical one.
	orphan := chaintypes.Block{
		BlockHash: chaintypes.Hash{9}, IndexBlockHash: chaintypes.Hash{8},
		ParentIndexBlockHash: chaintypes.Hash{0}, BlockHeight: 4, Canonical: false,
	}
	_, err = InsertBlock(db, orphan)
	require.NoError(t, err)
	shared := chaintypes.Block{
		BlockHash: chaintypes.Hash{9}, IndexBlockHash: chaintypes.Hash{10},
		ParentIndexBlockHash: chaintypes.Hash{0}, BlockHeight: 5, Canonical: true,
	}
	_, err = InsertBlock(db, shared)
	require.NoError(t, err)

	got, err := GetBlockByHash(db, chaintypes.Hash{9})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, uint64(5), got.BlockHeight)

	miss, err := GetBlockByHash(db, chaintypes.Hash{99})
	require.NoError(t, err)
	require.Nil(t, miss)
}

func TestGetBlockByIndexHash(t *testing.T) {
	db := openTestDB(t)

	_, err := InsertBlock(db, mkBlock(3, 3, 2, false))
	require.NoError(t, err)

	got, err := GetBlockByIndexHash(db, chaintypes.Hash{3})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.False(t, got.Canonical)

	miss, err := GetBlockByIndexHash(db, chaintypes.Hash{250})
	require.NoError(t, err)
	require.Nil(t, miss)
}

func TestListBlocks_CanonicalNewestFirst(t *testing.T) {
	db := openTestDB(t)

	for h := byte(1); h <= 3; h++ {
		_, err := InsertBlock(db, mkBlock(uint64(h), h, h-1, true))
		require.NoError(t, err)
	}
	_, err := InsertBlock(db, mkBlock(2, 20, 1, false))
	require.NoError(t, err)

	got, err := ListBlocks(db, 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, uint64(3), got[0].BlockHeight)
	require.Equal(t, uint64(1), got[2].BlockHeight)
}

func TestGetBlockTxIDs_OrderedByTxIndex(t *testing.T) {
	db := openTestDB(t)

	idxHash := chaintypes.Hash{1}
	_, err := InsertBlock(db, mkBlock(1, 1, 0, true))
	require.NoError(t, err)

	_, err = InsertTx(db, mkTx(chaintypes.Hash{0xa, 1}, idxHash, 1, 1, chaintypes.TxTypeCoinbase, "A"))
	require.NoError(t, err)
	_, err = InsertTx(db, mkTx(chaintypes.Hash{0xa, 0}, idxHash, 0, 1, chaintypes.TxTypeCoinbase, "A"))
	require.NoError(t, err)

	ids, err := GetBlockTxIDs(db, idxHash)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	require.Equal(t, chaintypes.Hash{0xa, 0}, ids[0])
	require.Equal(t, chaintypes.Hash{0xa, 1}, ids[1])
}

func TestGetTxByID_OnlyCanonical(t *testing.T) {
	db := openTestDB(t)

	idxHash := chaintypes.Hash{1}
	_, err := InsertBlock(db, mkBlock(1, 1, 0, true))
	require.NoError(t, err)

	tx := mkTx(chaintypes.Hash{0xb}, idxHash, 0, 1, chaintypes.TxTypeCoinbase, "A")
	_, err = InsertTx(db, tx)
	require.NoError(t, err)

	got, err := GetTxByID(db, chaintypes.Hash{0xb})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "A", got.SenderAddress)

	miss, err := GetTxByID(db, chaintypes.Hash{0xff})
	require.NoError(t, err)
	require.Nil(t, miss)
}

func TestListTxs_FiltersByType(t *testing.T) {
	db := openTestDB(t)

	idxHash := chaintypes.Hash{1}
	_, err := InsertBlock(db, mkBlock(1, 1, 0, true))
	require.NoError(t, err)

	_, err = InsertTx(db, mkTx(chaintypes.Hash{1, 0}, idxHash, 0, 1, chaintypes.TxTypeCoinbase, "A"))
	require.NoError(t, err)
	_, err = InsertTx(db, mkTx(chaintypes.Hash{1, 1}, idxHash, 1, 1, chaintypes.TxTypeTokenTransfer, "B"))
	require.NoError(t, err)

	all, err := ListTxs(db, 10, 0, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)

	tt := chaintypes.TxTypeTokenTransfer
	filtered, err := ListTxs(db, 10, 0, &tt)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "B", filtered[0].SenderAddress)
}

func TestGetTxEvents_MergesAndSortsByEventIndex(t *testing.T) {
	db := openTestDB(t)

	idxHash := chaintypes.Hash{1}
	txID := chaintypes.Hash{0xcc}
	_, err := InsertBlock(db, mkBlock(1, 1, 0, true))
	require.NoError(t, err)
	_, err = InsertTx(db, mkTx(txID, idxHash, 0, 1, chaintypes.TxTypeContractCall, "A"))
	require.NoError(t, err)

	_, err = InsertStxEvent(db, chaintypes.StxEvent{
		EventEnvelope: chaintypes.EventEnvelope{EventIndex: 2, TxID: txID, IndexBlockHash: idxHash, BlockHeight: 1, Canonical: true},
		Sender:        "A", Recipient: "B", Amount: 10,
	})
	require.NoError(t, err)
	_, err = InsertFtEvent(db, chaintypes.FtEvent{
		EventEnvelope:   chaintypes.EventEnvelope{EventIndex: 0, TxID: txID, IndexBlockHash: idxHash, BlockHeight: 1, Canonical: true},
		Sender:          "A", Recipient: "B", AssetIdentifier: "token1",
		Amount: chaintypes.NewUint128(5),
	})
	require.NoError(t, err)
	_, err = InsertContractLog(db, chaintypes.ContractLog{
		EventIndex: 1, TxID: txID, IndexBlockHash: idxHash, BlockHeight: 1, Canonical: true,
		ContractIdentifier: "SP000.foo", Topic: "print",
	})
	require.NoError(t, err)

	events, err := GetTxEvents(db, txID, idxHash)
	require.NoError(t, err)
	require.Len(t, events, 3)
	require.Equal(t, "ft", events[0].Kind)
	require.Equal(t, "log", events[1].Kind)
	require.Equal(t, "stx", events[2].Kind)
}

func TestGetFtBalances_SumsPerAsset(t *testing.T) {
	db := openTestDB(t)

	idxHash := chaintypes.Hash{1}
	_, err := InsertBlock(db, mkBlock(1, 1, 0, true))
	require.NoError(t, err)

	_, err = InsertFtEvent(db, chaintypes.FtEvent{
		EventEnvelope:   chaintypes.EventEnvelope{EventIndex: 0, TxID: chaintypes.Hash{1}, IndexBlockHash: idxHash, BlockHeight: 1, Canonical: true},
		Sender:          "X", Recipient: "ADDR", AssetIdentifier: "token1",
		Amount: chaintypes.NewUint128(50),
	})
	require.NoError(t, err)
	_, err = InsertFtEvent(db, chaintypes.FtEvent{
		EventEnvelope:   chaintypes.EventEnvelope{EventIndex: 1, TxID: chaintypes.Hash{2}, IndexBlockHash: idxHash, BlockHeight: 1, Canonical: true},
		Sender:          "ADDR", Recipient: "Y", AssetIdentifier: "token1",
		Amount: chaintypes.NewUint128(20),
	})
	require.NoError(t, err)

	balances, err := GetFtBalances(db, "ADDR")
	require.NoError(t, err)
	require.Contains(t, balances, "token1")
	require.Equal(t, "30", balances["token1"].Balance.String())
}

func TestGetNftCounts_ReceivedMinusSent(t *testing.T) {
	db := openTestDB(t)

	idxHash := chaintypes.Hash{1}
	_, err := InsertBlock(db, mkBlock(1, 1, 0, true))
	require.NoError(t, err)

	for i := uint32(0); i < 3; i++ {
		_, err := InsertNftEvent(db, chaintypes.NftEvent{
			EventEnvelope:   chaintypes.EventEnvelope{EventIndex: i, TxID: chaintypes.Hash{byte(i)}, IndexBlockHash: idxHash, BlockHeight: 1, Canonical: true},
			Sender:          "X", Recipient: "ADDR", AssetIdentifier: "nft1",
		})
		require.NoError(t, err)
	}
	_, err = InsertNftEvent(db, chaintypes.NftEvent{
		EventEnvelope:   chaintypes.EventEnvelope{EventIndex: 9, TxID: chaintypes.Hash{9}, IndexBlockHash: idxHash, BlockHeight: 1, Canonical: true},
		Sender:          "ADDR", Recipient: "Y", AssetIdentifier: "nft1",
	})
	require.NoError(t, err)

	counts, err := GetNftCounts(db, "ADDR")
	require.NoError(t, err)
	require.EqualValues(t, 2, counts["nft1"].Count)
}

func TestGetAddressTxs_SenderOrTokenTransferRecipient(t *testing.T) {
	db := openTestDB(t)

	idxHash := chaintypes.Hash{1}
	_, err := InsertBlock(db, mkBlock(1, 1, 0, true))
	require.NoError(t, err)

	_, err = InsertTx(db, mkTx(chaintypes.Hash{1, 1}, idxHash, 0, 1, chaintypes.TxTypeCoinbase, "ADDR"))
	require.NoError(t, err)

	recvTx := mkTx(chaintypes.Hash{1, 2}, idxHash, 1, 1, chaintypes.TxTypeTokenTransfer, "OTHER")
	recvTx.TokenTransfer = &chaintypes.TokenTransferPayload{RecipientAddress: "ADDR", Amount: 7}
	_, err = InsertTx(db, recvTx)
	require.NoError(t, err)

	_, err = InsertTx(db, mkTx(chaintypes.Hash{1, 3}, idxHash, 2, 1, chaintypes.TxTypeCoinbase, "UNRELATED"))
	require.NoError(t, err)

	txs, total, err := GetAddressTxs(db, "ADDR", 10, 0)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, txs, 2)
}

func TestGetAddressAssetEvents_TotalCountAcrossKinds(t *testing.T) {
	db := openTestDB(t)

	idxHash := chaintypes.Hash{1}
	_, err := InsertBlock(db, mkBlock(1, 1, 0, true))
	require.NoError(t, err)

	_, err = InsertStxEvent(db, chaintypes.StxEvent{
		EventEnvelope: chaintypes.EventEnvelope{EventIndex: 0, TxID: chaintypes.Hash{1}, IndexBlockHash: idxHash, BlockHeight: 1, Canonical: true},
		Sender:        "X", Recipient: "ADDR", Amount: 1,
	})
	require.NoError(t, err)
	_, err = InsertFtEvent(db, chaintypes.FtEvent{
		EventEnvelope:   chaintypes.EventEnvelope{EventIndex: 1, TxID: chaintypes.Hash{2}, IndexBlockHash: idxHash, BlockHeight: 1, Canonical: true},
		Sender:          "X", Recipient: "ADDR", AssetIdentifier: "token1",
		Amount: chaintypes.NewUint128(1),
	})
	require.NoError(t, err)
	_, err = InsertNftEvent(db, chaintypes.NftEvent{
		EventEnvelope:   chaintypes.EventEnvelope{EventIndex: 2, TxID: chaintypes.Hash{3}, IndexBlockHash: idxHash, BlockHeight: 1, Canonical: true},
		Sender:          "X", Recipient: "ADDR", AssetIdentifier: "nft1",
	})
	require.NoError(t, err)

	events, total, err := GetAddressAssetEvents(db, "ADDR", 1, 0)
	require.NoError(t, err)
	require.EqualValues(t, 3, total, "total must reflect all matching events, not just the returned page")
	require.Len(t, events, 1, "page size honored")
}
