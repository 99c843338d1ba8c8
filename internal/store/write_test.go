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

func TestInsertTx_IdempotentOnTxIDAndIndexBlockHash(t *testing.T) {
	db := openTestDB(t)

	_, err := InsertBlock(db, mkBlock(1, 1, 0, true))
	require.NoError(t, err)

	tx := chaintypes.Tx{
		TxID: chaintypes.Hash{5}, TxIndex: 0, IndexBlockHash: chaintypes.Hash{1},
		BlockHash: chaintypes.Hash{1}, BlockHeight: 1, TypeID: chaintypes.TxTypeCoinbase,
		Canonical: true,
	}

	n1, err := InsertTx(db, tx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n1)

	n2, err := InsertTx(db, tx)
	require.NoError(t, err)
	require.EqualValues(t, 0, n2)
}

func TestMarkEntitiesCanonical_FlipsOnlyDiffering(t *testing.T) {
	db := openTestDB(t)

	_, err := InsertBlock(db, mkBlock(1, 1, 0, true))
	require.NoError(t, err)

	counts, err := MarkEntitiesCanonical(db, chaintypes.Hash{1}, true)
	require.NoError(t, err)
	require.EqualValues(t, 0, counts.Blocks, "already canonical, no row should flip")

	counts, err = MarkEntitiesCanonical(db, chaintypes.Hash{1}, false)
	require.NoError(t, err)
	require.EqualValues(t, 1, counts.Blocks)
}
