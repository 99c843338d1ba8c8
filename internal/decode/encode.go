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

package decode

import "encoding/binary"

// TxInput is the pre-encoding description of one transaction, used by
// EncodeTx to build the raw bytes DecodeBlockMessage consumes. It exists so
// tests can assert the round-trip law of spec.md §8 R1 (Decoder ∘ Encoder
// identity) against literal test vectors, the way the teacher's own
// `_test.go` files construct fixtures by hand rather than via mocks.
type TxInput struct {
	TypeID chainTypeID

	Sponsored         bool
	OriginHashMode    byte
	OriginSignerHash  [20]byte
	FeeRate           uint64
	SponsorHashMode   byte
	SponsorSignerHash [20]byte

	// TokenTransfer
	RecipientHashMode byte
	RecipientHash     [20]byte
	Amount            uint64
	Memo              []byte

	// SmartContract
	ContractName string
	SourceCode   string

	// ContractCall
	CallContractHashMode byte
	CallContractHash     [20]byte
	CallContractName     string
	FunctionName         string
	Arguments            []byte

	// Coinbase
	CoinbasePayload [32]byte

	// PoisonMicroblock
	MicroblockHeader1 []byte
	MicroblockHeader2 []byte

	PostConditions []byte
}

// chainTypeID avoids importing chaintypes just for the discriminator value
// in struct-literal test vectors; it is defined identically.
type chainTypeID = uint8

const (
	TypeIDTokenTransfer     chainTypeID = 0
	TypeIDSmartContract     chainTypeID = 1
	TypeIDContractCall      chainTypeID = 2
	TypeIDPoisonMicroblock  chainTypeID = 3
	TypeIDCoinbase          chainTypeID = 4
)

// EncodeTx renders a TxInput into the raw binary format decodeTxBytes
// parses, the inverse operation spec.md §8's R1 checks against.
func EncodeTx(in TxInput) []byte {
	buf := []byte{0, in.TypeID}
	if in.Sponsored {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = append(buf, in.OriginHashMode)
	buf = append(buf, in.OriginSignerHash[:]...)
	feeRate := make([]byte, 8)
	binary.BigEndian.PutUint64(feeRate, in.FeeRate)
	buf = append(buf, feeRate...)

	if in.Sponsored {
		buf = append(buf, in.SponsorHashMode)
		buf = append(buf, in.SponsorSignerHash[:]...)
	}

	switch in.TypeID {
	case TypeIDTokenTransfer:
		buf = append(buf, in.RecipientHashMode)
		buf = append(buf, in.RecipientHash[:]...)
		amount := make([]byte, 8)
		binary.BigEndian.PutUint64(amount, in.Amount)
		buf = append(buf, amount...)
		buf = append(buf, byte(len(in.Memo)))
		buf = append(buf, in.Memo...)

	case TypeIDSmartContract:
		buf = appendString16(buf, in.ContractName)
		buf = appendString32(buf, in.SourceCode)

	case TypeIDContractCall:
		buf = append(buf, in.CallContractHashMode)
		buf = append(buf, in.CallContractHash[:]...)
		buf = appendString16(buf, in.CallContractName)
		buf = appendString16(buf, in.FunctionName)
		buf = appendBytes32(buf, in.Arguments)

	case TypeIDCoinbase:
		buf = append(buf, in.CoinbasePayload[:]...)

	case TypeIDPoisonMicroblock:
		buf = appendBytes16(buf, in.MicroblockHeader1)
		buf = appendBytes16(buf, in.MicroblockHeader2)
	}

	buf = appendBytes32(buf, in.PostConditions)
	return buf
}

func appendString16(buf []byte, s string) []byte { return appendBytes16(buf, []byte(s)) }
func appendString32(buf []byte, s string) []byte { return appendBytes32(buf, []byte(s)) }

func appendBytes16(buf []byte, b []byte) []byte {
	l := make([]byte, 2)
	binary.BigEndian.PutUint16(l, uint16(len(b)))
	buf = append(buf, l...)
	return append(buf, b...)
}

func appendBytes32(buf []byte, b []byte) []byte {
	l := make([]byte, 4)
	binary.BigEndian.PutUint32(l, uint32(len(b)))
	buf = append(buf, l...)
	return append(buf, b...)
}
