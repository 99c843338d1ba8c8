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

// Package notify implements the Notifier component of spec.md §4.4: a
// best-effort, in-process fan-out of block/tx update events to subscribers,
// grounded on the teacher's common.EventBroker Publish/Subscribe shape
// (datasync/chaindatafetcher/common/common.go, event/event.go) but replacing
// its Kafka-backed broker with an explicit publish interface that owns a set
// of bounded subscriber channels, per spec.md §9's redesign note.
package notify

import (
	"github.com/chainsidecar/indexer/internal/chaintypes"
	"github.com/chainsidecar/indexer/internal/logging"
)

var log = logging.New("notify")

// BlockUpdate and TxUpdate are the two event kinds the Indexer publishes
// after each commit (§4.4).
type BlockUpdate struct {
	Block chaintypes.Block
}

type TxUpdate struct {
	Tx chaintypes.Tx
}

// Event is the envelope delivered to subscribers; exactly one field is set.
type Event struct {
	Block *BlockUpdate
	Tx    *TxUpdate
}

// DropPolicy governs what happens when a subscriber's buffer is full: the
// Notifier must never suspend the ingestion path waiting on a slow
// subscriber (§4.4, §5).
type DropPolicy int

const (
	// DropOldest evicts the oldest buffered event to make room, so the
	// subscriber always sees the most recent activity even if it falls
	// behind.
	DropOldest DropPolicy = iota
	// DropNewest discards the event being published, leaving the
	// subscriber's backlog untouched.
	DropNewest
	// CloseSubscription closes the subscriber's channel and unregisters it,
	// for subscribers that would rather detect "I fell behind" than receive
	// a lossy stream.
	CloseSubscription
)

// Subscription is a bounded, per-subscriber delivery channel.
type Subscription struct {
	Events <-chan Event
	id     uint64
	ch     chan Event
	policy DropPolicy
	closed bool
}

// unsubscribeLocked closes the subscription's channel once; removing it from
// the Hub is left to Hub.Unsubscribe, which calls this with the lock held.
func (s *Subscription) unsubscribeLocked() {
	if !s.closed {
		close(s.ch)
		s.closed = true
	}
}

// Hub owns the set of subscriber channels and fans out published events to
// each, isolating slow subscribers from each other and from the publisher
// (§5 "delivery to each subscriber is isolated").
type Hub struct {
	mu        chanMutex
	nextID    uint64
	subs      map[uint64]*Subscription
}

// chanMutex is a channel-based mutex so Hub's critical sections never block
// on a contended sync.Mutex for longer than a publish step; it behaves
// exactly like sync.Mutex but keeps the package free of any blocking
// primitive beyond channels, matching the teacher's channel-first style in
// ChainDataFetcher.
type chanMutex chan struct{}

func newChanMutex() chanMutex {
	m := make(chanMutex, 1)
	m <- struct{}{}
	return m
}

func (m chanMutex) Lock()   { <-m }
func (m chanMutex) Unlock() { m <- struct{}{} }

// NewHub constructs an empty Hub.
func NewHub() *Hub {
	return &Hub{
		mu:   newChanMutex(),
		subs: make(map[uint64]*Subscription),
	}
}

// Subscribe registers a new subscriber with a bounded buffer of bufSize and
// the given drop policy.
func (h *Hub) Subscribe(bufSize int, policy DropPolicy) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, bufSize)
	h.nextID++
	sub := &Subscription{Events: ch, id: h.nextID, ch: ch, policy: policy}
	h.subs[sub.id] = sub
	return sub
}

// Unsubscribe removes sub from the hub.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub.id]; ok {
		delete(h.subs, sub.id)
		sub.unsubscribeLocked()
	}
}

// PublishBlock and PublishTx are never blocking relative to the ingestion
// path (§4.4): a full subscriber buffer is handled per its own drop policy,
// never by waiting.
func (h *Hub) PublishBlock(b chaintypes.Block) {
	h.publish(Event{Block: &BlockUpdate{Block: b}})
}

func (h *Hub) PublishTx(t chaintypes.Tx) {
	h.publish(Event{Tx: &TxUpdate{Tx: t}})
}

func (h *Hub) publish(ev Event) {
	h.mu.Lock()
	targets := make([]*Subscription, 0, len(h.subs))
	for _, sub := range h.subs {
		targets = append(targets, sub)
	}
	h.mu.Unlock()

	for _, sub := range targets {
		h.deliver(sub, ev)
	}
}

func (h *Hub) deliver(sub *Subscription, ev Event) {
	select {
	case sub.ch <- ev:
		return
	default:
	}

	switch sub.policy {
	case DropNewest:
		log.Warnw("subscriber buffer full, dropping event", "policy", "drop_newest")
	case CloseSubscription:
		log.Warnw("subscriber buffer full, closing subscription", "policy", "close")
		h.Unsubscribe(sub)
	case DropOldest:
		select {
		case <-sub.ch:
		default:
		}
		select {
		case sub.ch <- ev:
		default:
			log.Warnw("subscriber buffer full even after eviction, dropping event", "policy", "drop_oldest")
		}
	}
}
