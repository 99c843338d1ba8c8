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

package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chainsidecar/indexer/internal/chaintypes"
)

func TestHub_PublishDeliversToSubscriber(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe(4, DropNewest)

	h.PublishBlock(chaintypes.Block{BlockHeight: 1})

	select {
	case ev := <-sub.Events:
		require.NotNil(t, ev.Block)
		require.Equal(t, uint64(1), ev.Block.Block.BlockHeight)
	case <-time.After(time.Second):
		t.Fatal("expected a delivered event")
	}
}

func TestHub_DropNewestWhenFull(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe(1, DropNewest)

	h.PublishBlock(chaintypes.Block{BlockHeight: 1})
	h.PublishBlock(chaintypes.Block{BlockHeight: 2}) // dropped: buffer full

	ev := <-sub.Events
	require.Equal(t, uint64(1), ev.Block.Block.BlockHeight)

	select {
	case <-sub.Events:
		t.Fatal("expected no second event under DropNewest")
	default:
	}
}

func TestHub_DropOldestEvictsForNewest(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe(1, DropOldest)

	h.PublishBlock(chaintypes.Block{BlockHeight: 1})
	h.PublishBlock(chaintypes.Block{BlockHeight: 2}) // evicts 1, keeps 2

	ev := <-sub.Events
	require.Equal(t, uint64(2), ev.Block.Block.BlockHeight)
}

func TestHub_CloseSubscriptionOnFull(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe(1, CloseSubscription)

	h.PublishBlock(chaintypes.Block{BlockHeight: 1})
	h.PublishBlock(chaintypes.Block{BlockHeight: 2}) // buffer full: subscription closed

	<-sub.Events // the first, already-buffered event

	_, ok := <-sub.Events
	require.False(t, ok, "channel should be closed after overflow")
}

func TestHub_Unsubscribe(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe(1, DropNewest)
	h.Unsubscribe(sub)

	_, ok := <-sub.Events
	require.False(t, ok)

	// Publishing after every subscriber unsubscribed must not panic.
	h.PublishBlock(chaintypes.Block{BlockHeight: 1})
}

func TestHub_PublishTx(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe(1, DropNewest)

	h.PublishTx(chaintypes.Tx{TxIndex: 5})

	ev := <-sub.Events
	require.NotNil(t, ev.Tx)
	require.Equal(t, uint32(5), ev.Tx.Tx.TxIndex)
}
