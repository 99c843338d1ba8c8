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

// Package decode implements the Decoder component of spec.md §4.1: a pure,
// deterministic function from a raw node-event message to normalized block,
// transaction, and event records. It performs no I/O.
package decode

import "github.com/chainsidecar/indexer/internal/chaintypes"

// RawEvent is one execution-emitted event attached to a transaction in the
// incoming message, already separated by kind at the source (the execution
// engine, out of scope per spec.md §1) but not yet normalized into the
// Store's per-kind record shape.
type RawEvent struct {
	Kind            string // "stx", "ft", "nft", "log"
	AssetEventType  chaintypes.AssetEventType
	Sender          string
	Recipient       string
	AssetIdentifier string
	Amount          uint64 // interpreted per Kind: stx amount, or ft low 64 bits
	AmountHigh      uint64 // ft amount high 64 bits, for 128-bit totals
	Value           []byte // nft raw value, or contract log value

	ContractIdentifier string // log only
	Topic               string // log only
}

// TxMessage is one transaction within a BlockMessage (§6): event kind plus
// raw binary transaction bytes, a success flag, and its position in the
// block.
type TxMessage struct {
	RawTx     []byte
	Success   bool
	TxIndex   uint32
	RawEvents []RawEvent
	ABI       []byte // present only when RawTx decodes to a SmartContract payload
}

// BlockMessage is one ingestion input (§6): the block header fields plus its
// transactions.
type BlockMessage struct {
	BlockHash            chaintypes.Hash
	IndexBlockHash       chaintypes.Hash
	ParentIndexBlockHash chaintypes.Hash
	ParentBlockHash      chaintypes.Hash
	ParentMicroblock     chaintypes.Hash
	BlockHeight          uint64
	BurnBlockTime        int64
	Txs                  []TxMessage
}

// TxBatch groups one decoded transaction with its normalized events and any
// smart contract it deployed (§4.1's "(Block, [Tx × [Events, Contracts]])").
type TxBatch struct {
	Tx            chaintypes.Tx
	StxEvents     []chaintypes.StxEvent
	FtEvents      []chaintypes.FtEvent
	NftEvents     []chaintypes.NftEvent
	ContractLogs  []chaintypes.ContractLog
	SmartContract *chaintypes.SmartContract
}

// BlockBatch is decodeBlockMessage's output.
type BlockBatch struct {
	Block chaintypes.Block
	Txs   []TxBatch
}
