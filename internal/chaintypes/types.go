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

// Package chaintypes holds the data model of spec.md §3: blocks,
// transactions, and the three asset-event kinds plus contract logs and smart
// contracts. These are the in-memory records the Decoder produces and the
// Store persists; the type is a tagged sum over payload kind rather than an
// inheritance hierarchy, per the teacher's flat-struct-with-discriminator
// style (blockchain/types.Transaction).
package chaintypes

// Hash is a 32-byte content hash, used for block_hash, index_block_hash,
// parent_*_hash and tx_id alike.
type Hash [32]byte

// TxTypeID discriminates the transaction payload union.
type TxTypeID uint8

const (
	TxTypeTokenTransfer TxTypeID = iota
	TxTypeSmartContract
	TxTypeContractCall
	TxTypePoisonMicroblock
	TxTypeCoinbase
)

func (t TxTypeID) String() string {
	switch t {
	case TxTypeTokenTransfer:
		return "token_transfer"
	case TxTypeSmartContract:
		return "smart_contract"
	case TxTypeContractCall:
		return "contract_call"
	case TxTypePoisonMicroblock:
		return "poison_microblock"
	case TxTypeCoinbase:
		return "coinbase"
	default:
		return "unknown"
	}
}

// TxStatus is the execution outcome of a transaction.
type TxStatus uint8

const (
	TxStatusPending TxStatus = iota
	TxStatusSuccess
	TxStatusFailed
)

// AssetEventType discriminates the lifecycle of an asset movement.
type AssetEventType uint8

const (
	AssetEventTransfer AssetEventType = iota
	AssetEventMint
	AssetEventBurn
)

// Block is one row of the canonical-chain-tracked blocks table (§3).
type Block struct {
	BlockHash            Hash
	IndexBlockHash       Hash
	ParentIndexBlockHash Hash
	ParentBlockHash      Hash
	ParentMicroblock     Hash
	BlockHeight          uint64
	BurnBlockTime        int64
	Canonical            bool
}

// TokenTransferPayload is the TokenTransfer-specific tx payload (§4.1).
type TokenTransferPayload struct {
	RecipientAddress string
	Amount           uint64
	Memo             []byte // <= 34 bytes, arbitrary
}

// SmartContractPayload is the SmartContract-specific tx payload.
type SmartContractPayload struct {
	ContractID string
	SourceCode string
}

// ContractCallPayload is the ContractCall-specific tx payload.
type ContractCallPayload struct {
	ContractID   string
	FunctionName string
	Arguments    []byte // serialized argument bytes, opaque to the indexer
}

// CoinbasePayload is the Coinbase-specific tx payload.
type CoinbasePayload struct {
	Payload [32]byte
}

// PoisonMicroblockPayload captures the two conflicting microblock headers
// that prove a microblock-poisoning transaction.
type PoisonMicroblockPayload struct {
	MicroblockHeader1 []byte
	MicroblockHeader2 []byte
}

// Tx is one row of the txs table (§3). Exactly one of the payload pointers
// below is non-nil, selected by TypeID.
type Tx struct {
	TxID           Hash
	TxIndex        uint32
	IndexBlockHash Hash
	BlockHash      Hash
	BlockHeight    uint64
	BurnBlockTime  int64

	TypeID    TxTypeID
	Status    TxStatus
	Canonical bool

	PostConditions []byte
	FeeRate        uint64
	SenderAddress  string
	OriginHashMode uint8
	Sponsored      bool
	SponsorAddress string

	TokenTransfer    *TokenTransferPayload
	SmartContract    *SmartContractPayload
	ContractCall     *ContractCallPayload
	Coinbase         *CoinbasePayload
	PoisonMicroblock *PoisonMicroblockPayload
}

// EventEnvelope is the common prefix shared by all four event kinds (§3,
// §9 "Event polymorphism"): a sealed variant discriminated by kind, each
// variant holding its kind-specific fields alongside this envelope.
type EventEnvelope struct {
	EventIndex     uint32
	TxID           Hash
	TxIndex        uint32
	BlockHeight    uint64
	IndexBlockHash Hash
	Canonical      bool
}

// StxEvent records an STX transfer, mint, or burn.
type StxEvent struct {
	EventEnvelope
	AssetEventType AssetEventType
	Sender         string
	Recipient      string
	Amount         uint64
}

// FtEvent records a fungible-token transfer, mint, or burn. Amount is a
// 128-bit integer: FT supply can exceed a u64 (§9 "Decimal widths").
type FtEvent struct {
	EventEnvelope
	AssetEventType  AssetEventType
	Sender          string
	Recipient       string
	AssetIdentifier string
	Amount          Uint128
}

// NftEvent records a non-fungible-token transfer, mint, or burn.
type NftEvent struct {
	EventEnvelope
	AssetEventType  AssetEventType
	Sender          string
	Recipient       string
	AssetIdentifier string
	Value           []byte
}

// ContractLog is a smart-contract-emitted print/log event.
type ContractLog struct {
	EventIndex         uint32
	TxID               Hash
	TxIndex            uint32
	BlockHeight        uint64
	IndexBlockHash     Hash
	Canonical          bool
	ContractIdentifier string
	Topic              string
	Value              []byte
}

// SmartContract is a deployed contract's source and ABI.
type SmartContract struct {
	TxID           Hash
	ContractID     string
	BlockHeight    uint64
	IndexBlockHash Hash
	SourceCode     string
	ABI            []byte
	Canonical      bool
}

// AnyEvent is the merged view Store.GetTxEvents sorts by EventIndex: STX, FT,
// NFT and contract-log events share the EventIndex/TxID/Kind triple needed to
// order and label them uniformly regardless of underlying kind.
type AnyEvent struct {
	EventEnvelope
	Kind string // "stx", "ft", "nft", "log"
	Data interface{}
}
