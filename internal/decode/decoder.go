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

import (
	"encoding/binary"
	"fmt"

	"github.com/chainsidecar/indexer/internal/address"
	"github.com/chainsidecar/indexer/internal/chaintypes"
)

// Decoder converts raw node-event messages into normalized records. It is
// parameterized only by the network flag that feeds address derivation
// (§6 "Chain identifier — selects address encoding"); it holds no other
// state and performs no I/O.
type Decoder struct {
	Testnet bool
}

// New returns a Decoder for the given network.
func New(testnet bool) *Decoder {
	return &Decoder{Testnet: testnet}
}

const maxMemoLen = 34

// DecodeBlockMessage parses one raw node-event message into a BlockBatch,
// per spec.md §4.1. It validates authorization type, origin hash mode, fee
// rate and payload type id for every transaction; any failure aborts the
// whole message with a positioned Error.
func (d *Decoder) DecodeBlockMessage(raw BlockMessage) (*BlockBatch, error) {
	block := chaintypes.Block{
		BlockHash:            raw.BlockHash,
		IndexBlockHash:       raw.IndexBlockHash,
		ParentIndexBlockHash: raw.ParentIndexBlockHash,
		ParentBlockHash:      raw.ParentBlockHash,
		ParentMicroblock:     raw.ParentMicroblock,
		BlockHeight:          raw.BlockHeight,
		BurnBlockTime:        raw.BurnBlockTime,
		Canonical:            true, // provisional; the Indexer decides the final value
	}

	batch := &BlockBatch{Block: block, Txs: make([]TxBatch, 0, len(raw.Txs))}
	for i, txMsg := range raw.Txs {
		txBatch, err := d.decodeTx(block, txMsg)
		if err != nil {
			return nil, fmt.Errorf("decode: tx %d: %w", i, err)
		}
		batch.Txs = append(batch.Txs, *txBatch)
	}
	return batch, nil
}

func (d *Decoder) decodeTx(block chaintypes.Block, msg TxMessage) (*TxBatch, error) {
	tx, txID, err := d.decodeTxBytes(msg.RawTx)
	if err != nil {
		return nil, err
	}
	tx.IndexBlockHash = block.IndexBlockHash
	tx.BlockHash = block.BlockHash
	tx.BlockHeight = block.BlockHeight
	tx.BurnBlockTime = block.BurnBlockTime
	tx.TxIndex = msg.TxIndex
	tx.Canonical = true
	if msg.Success {
		tx.Status = chaintypes.TxStatusSuccess
	} else {
		tx.Status = chaintypes.TxStatusFailed
	}

	batch := &TxBatch{Tx: tx}

	if tx.TypeID == chaintypes.TxTypeSmartContract && tx.SmartContract != nil {
		batch.SmartContract = &chaintypes.SmartContract{
			TxID:           txID,
			ContractID:     tx.SmartContract.ContractID,
			BlockHeight:    block.BlockHeight,
			IndexBlockHash: block.IndexBlockHash,
			SourceCode:     tx.SmartContract.SourceCode,
			ABI:            msg.ABI,
			Canonical:      true,
		}
	}

	for i, re := range msg.RawEvents {
		eventIndex := uint32(i)
		env := chaintypes.EventEnvelope{
			EventIndex:     eventIndex,
			TxID:           txID,
			TxIndex:        msg.TxIndex,
			BlockHeight:    block.BlockHeight,
			IndexBlockHash: block.IndexBlockHash,
			Canonical:      true,
		}
		switch re.Kind {
		case "stx":
			batch.StxEvents = append(batch.StxEvents, chaintypes.StxEvent{
				EventEnvelope:  env,
				AssetEventType: re.AssetEventType,
				Sender:         re.Sender,
				Recipient:      re.Recipient,
				Amount:         re.Amount,
			})
		case "ft":
			amount := chaintypes.NewUint128(re.Amount)
			if re.AmountHigh != 0 {
				high := chaintypes.NewUint128(re.AmountHigh)
				high.Int.Lsh(&high.Int, 64)
				amount = amount.Add(high)
			}
			batch.FtEvents = append(batch.FtEvents, chaintypes.FtEvent{
				EventEnvelope:   env,
				AssetEventType:  re.AssetEventType,
				Sender:          re.Sender,
				Recipient:       re.Recipient,
				AssetIdentifier: re.AssetIdentifier,
				Amount:          amount,
			})
		case "nft":
			batch.NftEvents = append(batch.NftEvents, chaintypes.NftEvent{
				EventEnvelope:   env,
				AssetEventType:  re.AssetEventType,
				Sender:          re.Sender,
				Recipient:       re.Recipient,
				AssetIdentifier: re.AssetIdentifier,
				Value:           re.Value,
			})
		case "log":
			batch.ContractLogs = append(batch.ContractLogs, chaintypes.ContractLog{
				EventIndex:          eventIndex,
				TxID:                txID,
				TxIndex:             msg.TxIndex,
				BlockHeight:         block.BlockHeight,
				IndexBlockHash:      block.IndexBlockHash,
				Canonical:           true,
				ContractIdentifier:  re.ContractIdentifier,
				Topic:               re.Topic,
				Value:               re.Value,
			})
		default:
			return nil, errAt(i, "unknown event kind %q", re.Kind)
		}
	}

	return batch, nil
}

// decodeTxBytes parses one transaction's raw binary payload (§4.1). The
// layout is:
//
//	[0]      format version
//	[1]      type_id
//	[2]      auth type: 0 = standard, 1 = sponsored
//	[3]      origin hash mode
//	[4:24]   origin signer hash (20 bytes)
//	[24:32]  fee rate, big-endian u64
//	if sponsored: [32] sponsor hash mode, [33:53] sponsor signer hash
//	then the type-discriminated payload
//	then [..:..+4] post_conditions length (u32 BE) + that many bytes
func (d *Decoder) decodeTxBytes(raw []byte) (chaintypes.Tx, chaintypes.Hash, error) {
	var tx chaintypes.Tx
	var txID chaintypes.Hash

	if len(raw) < 32 {
		return tx, txID, errAt(0, "transaction too short: %d bytes", len(raw))
	}

	typeID := chaintypes.TxTypeID(raw[1])
	if typeID > chaintypes.TxTypeCoinbase {
		return tx, txID, errAt(1, "unknown type_id %d", raw[1])
	}
	authType := raw[2]
	if authType > 1 {
		return tx, txID, errAt(2, "unknown auth type %d", authType)
	}
	hashMode := address.HashMode(raw[3])
	if hashMode > address.HashModeP2WSH {
		return tx, txID, errAt(3, "unknown origin hash mode %d", raw[3])
	}
	var signerHash [20]byte
	copy(signerHash[:], raw[4:24])
	feeRate := binary.BigEndian.Uint64(raw[24:32])

	tx.TypeID = typeID
	tx.OriginHashMode = uint8(hashMode)
	tx.FeeRate = feeRate
	tx.SenderAddress = address.Encode(address.VersionForHashMode(hashMode, d.Testnet), signerHash)

	cursor := 32
	if authType == 1 {
		if len(raw) < cursor+21 {
			return tx, txID, errAt(cursor, "truncated sponsor authorization")
		}
		tx.Sponsored = true
		sponsorMode := address.HashMode(raw[cursor])
		if sponsorMode > address.HashModeP2WSH {
			return tx, txID, errAt(cursor, "unknown sponsor hash mode %d", raw[cursor])
		}
		var sponsorHash [20]byte
		copy(sponsorHash[:], raw[cursor+1:cursor+21])
		tx.SponsorAddress = address.Encode(address.VersionForHashMode(sponsorMode, d.Testnet), sponsorHash)
		cursor += 21
	}

	var err error
	cursor, err = d.decodePayload(&tx, raw, cursor)
	if err != nil {
		return tx, txID, err
	}

	if len(raw) < cursor+4 {
		return tx, txID, errAt(cursor, "truncated post_conditions length")
	}
	pcLen := int(binary.BigEndian.Uint32(raw[cursor : cursor+4]))
	cursor += 4
	if len(raw) < cursor+pcLen {
		return tx, txID, errAt(cursor, "truncated post_conditions body")
	}
	tx.PostConditions = append([]byte{}, raw[cursor:cursor+pcLen]...)
	cursor += pcLen

	txID = computeTxID(raw[:cursor])
	tx.TxID = txID
	return tx, txID, nil
}

func (d *Decoder) decodePayload(tx *chaintypes.Tx, raw []byte, cursor int) (int, error) {
	switch tx.TypeID {
	case chaintypes.TxTypeTokenTransfer:
		if len(raw) < cursor+29 {
			return cursor, errAt(cursor, "truncated token transfer payload")
		}
		recipientMode := address.HashMode(raw[cursor])
		var recipientHash [20]byte
		copy(recipientHash[:], raw[cursor+1:cursor+21])
		amount := binary.BigEndian.Uint64(raw[cursor+21 : cursor+29])
		cursor += 29
		if len(raw) < cursor+1 {
			return cursor, errAt(cursor, "truncated memo length")
		}
		memoLen := int(raw[cursor])
		cursor++
		if memoLen > maxMemoLen {
			return cursor, errAt(cursor, "memo too long: %d bytes", memoLen)
		}
		if len(raw) < cursor+memoLen {
			return cursor, errAt(cursor, "truncated memo body")
		}
		memo := append([]byte{}, raw[cursor:cursor+memoLen]...)
		cursor += memoLen

		tx.TokenTransfer = &chaintypes.TokenTransferPayload{
			RecipientAddress: address.Encode(address.VersionForHashMode(recipientMode, d.Testnet), recipientHash),
			Amount:           amount,
			Memo:             memo,
		}
		return cursor, nil

	case chaintypes.TxTypeSmartContract:
		name, next, err := readString16(raw, cursor)
		if err != nil {
			return cursor, err
		}
		cursor = next
		source, next, err := readString32(raw, cursor)
		if err != nil {
			return cursor, err
		}
		cursor = next
		tx.SmartContract = &chaintypes.SmartContractPayload{
			ContractID: tx.SenderAddress + "." + name,
			SourceCode: source,
		}
		return cursor, nil

	case chaintypes.TxTypeContractCall:
		if len(raw) < cursor+21 {
			return cursor, errAt(cursor, "truncated contract call address")
		}
		contractMode := address.HashMode(raw[cursor])
		var contractHash [20]byte
		copy(contractHash[:], raw[cursor+1:cursor+21])
		cursor += 21
		contractAddr := address.Encode(address.VersionForHashMode(contractMode, d.Testnet), contractHash)

		name, next, err := readString16(raw, cursor)
		if err != nil {
			return cursor, err
		}
		cursor = next
		function, next, err := readString16(raw, cursor)
		if err != nil {
			return cursor, err
		}
		cursor = next
		args, next, err := readBytes32(raw, cursor)
		if err != nil {
			return cursor, err
		}
		cursor = next

		tx.ContractCall = &chaintypes.ContractCallPayload{
			ContractID:   contractAddr + "." + name,
			FunctionName: function,
			Arguments:    args,
		}
		return cursor, nil

	case chaintypes.TxTypeCoinbase:
		if len(raw) < cursor+32 {
			return cursor, errAt(cursor, "truncated coinbase payload")
		}
		var payload [32]byte
		copy(payload[:], raw[cursor:cursor+32])
		cursor += 32
		tx.Coinbase = &chaintypes.CoinbasePayload{Payload: payload}
		return cursor, nil

	case chaintypes.TxTypePoisonMicroblock:
		h1, next, err := readBytes16(raw, cursor)
		if err != nil {
			return cursor, err
		}
		cursor = next
		h2, next, err := readBytes16(raw, cursor)
		if err != nil {
			return cursor, err
		}
		cursor = next
		tx.PoisonMicroblock = &chaintypes.PoisonMicroblockPayload{
			MicroblockHeader1: h1,
			MicroblockHeader2: h2,
		}
		return cursor, nil

	default:
		return cursor, errAt(cursor, "unknown type_id %d", tx.TypeID)
	}
}

func readString16(raw []byte, cursor int) (string, int, error) {
	b, next, err := readBytes16(raw, cursor)
	return string(b), next, err
}

func readString32(raw []byte, cursor int) (string, int, error) {
	b, next, err := readBytes32(raw, cursor)
	return string(b), next, err
}

func readBytes16(raw []byte, cursor int) ([]byte, int, error) {
	if len(raw) < cursor+2 {
		return nil, cursor, errAt(cursor, "truncated 16-bit length prefix")
	}
	n := int(binary.BigEndian.Uint16(raw[cursor : cursor+2]))
	cursor += 2
	if len(raw) < cursor+n {
		return nil, cursor, errAt(cursor, "truncated body of length %d", n)
	}
	body := append([]byte{}, raw[cursor:cursor+n]...)
	return body, cursor + n, nil
}

func readBytes32(raw []byte, cursor int) ([]byte, int, error) {
	if len(raw) < cursor+4 {
		return nil, cursor, errAt(cursor, "truncated 32-bit length prefix")
	}
	n := int(binary.BigEndian.Uint32(raw[cursor : cursor+4]))
	cursor += 4
	if len(raw) < cursor+n {
		return nil, cursor, errAt(cursor, "truncated body of length %d", n)
	}
	body := append([]byte{}, raw[cursor:cursor+n]...)
	return body, cursor + n, nil
}
