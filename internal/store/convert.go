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

import "github.com/chainsidecar/indexer/internal/chaintypes"

func blockToRow(b chaintypes.Block) blockRow {
	return blockRow{
		BlockHash:            b.BlockHash,
		IndexBlockHash:       b.IndexBlockHash,
		ParentIndexBlockHash: b.ParentIndexBlockHash,
		ParentBlockHash:      b.ParentBlockHash,
		ParentMicroblock:     b.ParentMicroblock,
		BlockHeight:          b.BlockHeight,
		BurnBlockTime:        b.BurnBlockTime,
		Canonical:            b.Canonical,
	}
}

func rowToBlock(r blockRow) chaintypes.Block {
	return chaintypes.Block{
		BlockHash:            r.BlockHash,
		IndexBlockHash:       r.IndexBlockHash,
		ParentIndexBlockHash: r.ParentIndexBlockHash,
		ParentBlockHash:      r.ParentBlockHash,
		ParentMicroblock:     r.ParentMicroblock,
		BlockHeight:          r.BlockHeight,
		BurnBlockTime:        r.BurnBlockTime,
		Canonical:            r.Canonical,
	}
}

func txToRow(t chaintypes.Tx) txRow {
	row := txRow{
		TxID:           t.TxID,
		IndexBlockHash: t.IndexBlockHash,
		TxIndex:        t.TxIndex,
		BlockHash:      t.BlockHash,
		BlockHeight:    t.BlockHeight,
		BurnBlockTime:  t.BurnBlockTime,
		TypeID:         uint8(t.TypeID),
		Status:         uint8(t.Status),
		Canonical:      t.Canonical,
		PostConditions: t.PostConditions,
		FeeRate:        t.FeeRate,
		SenderAddress:  t.SenderAddress,
		OriginHashMode: t.OriginHashMode,
		Sponsored:      t.Sponsored,
		SponsorAddress: t.SponsorAddress,
	}
	switch {
	case t.TokenTransfer != nil:
		row.TokenTransferRecipient = t.TokenTransfer.RecipientAddress
		row.TokenTransferAmount = t.TokenTransfer.Amount
		row.TokenTransferMemo = t.TokenTransfer.Memo
	case t.SmartContract != nil:
		row.ContractID = t.SmartContract.ContractID
		row.SourceCode = t.SmartContract.SourceCode
	case t.ContractCall != nil:
		row.ContractID = t.ContractCall.ContractID
		row.FunctionName = t.ContractCall.FunctionName
		row.Arguments = t.ContractCall.Arguments
	case t.Coinbase != nil:
		row.CoinbasePayload = t.Coinbase.Payload[:]
	case t.PoisonMicroblock != nil:
		row.MicroblockHeader1 = t.PoisonMicroblock.MicroblockHeader1
		row.MicroblockHeader2 = t.PoisonMicroblock.MicroblockHeader2
	}
	return row
}

func rowToTx(r txRow) chaintypes.Tx {
	t := chaintypes.Tx{
		TxID:           r.TxID,
		IndexBlockHash: r.IndexBlockHash,
		TxIndex:        r.TxIndex,
		BlockHash:      r.BlockHash,
		BlockHeight:    r.BlockHeight,
		BurnBlockTime:  r.BurnBlockTime,
		TypeID:         chaintypes.TxTypeID(r.TypeID),
		Status:         chaintypes.TxStatus(r.Status),
		Canonical:      r.Canonical,
		PostConditions: r.PostConditions,
		FeeRate:        r.FeeRate,
		SenderAddress:  r.SenderAddress,
		OriginHashMode: r.OriginHashMode,
		Sponsored:      r.Sponsored,
		SponsorAddress: r.SponsorAddress,
	}
	switch t.TypeID {
	case chaintypes.TxTypeTokenTransfer:
		t.TokenTransfer = &chaintypes.TokenTransferPayload{
			RecipientAddress: r.TokenTransferRecipient,
			Amount:           r.TokenTransferAmount,
			Memo:             r.TokenTransferMemo,
		}
	case chaintypes.TxTypeSmartContract:
		t.SmartContract = &chaintypes.SmartContractPayload{
			ContractID: r.ContractID,
			SourceCode: r.SourceCode,
		}
	case chaintypes.TxTypeContractCall:
		t.ContractCall = &chaintypes.ContractCallPayload{
			ContractID:   r.ContractID,
			FunctionName: r.FunctionName,
			Arguments:    r.Arguments,
		}
	case chaintypes.TxTypeCoinbase:
		var payload [32]byte
		copy(payload[:], r.CoinbasePayload)
		t.Coinbase = &chaintypes.CoinbasePayload{Payload: payload}
	case chaintypes.TxTypePoisonMicroblock:
		t.PoisonMicroblock = &chaintypes.PoisonMicroblockPayload{
			MicroblockHeader1: r.MicroblockHeader1,
			MicroblockHeader2: r.MicroblockHeader2,
		}
	}
	return t
}

func stxEventToRow(e chaintypes.StxEvent) stxEventRow {
	return stxEventRow{
		EventIndex:     e.EventIndex,
		TxID:           e.TxID,
		IndexBlockHash: e.IndexBlockHash,
		TxIndex:        e.TxIndex,
		BlockHeight:    e.BlockHeight,
		Canonical:      e.Canonical,
		AssetEventType: uint8(e.AssetEventType),
		Sender:         e.Sender,
		Recipient:      e.Recipient,
		Amount:         e.Amount,
	}
}

func rowToStxEvent(r stxEventRow) chaintypes.StxEvent {
	return chaintypes.StxEvent{
		EventEnvelope: chaintypes.EventEnvelope{
			EventIndex:     r.EventIndex,
			TxID:           r.TxID,
			TxIndex:        r.TxIndex,
			BlockHeight:    r.BlockHeight,
			IndexBlockHash: r.IndexBlockHash,
			Canonical:      r.Canonical,
		},
		AssetEventType: chaintypes.AssetEventType(r.AssetEventType),
		Sender:         r.Sender,
		Recipient:      r.Recipient,
		Amount:         r.Amount,
	}
}

func ftEventToRow(e chaintypes.FtEvent) ftEventRow {
	return ftEventRow{
		EventIndex:      e.EventIndex,
		TxID:            e.TxID,
		IndexBlockHash:  e.IndexBlockHash,
		TxIndex:         e.TxIndex,
		BlockHeight:     e.BlockHeight,
		Canonical:       e.Canonical,
		AssetEventType:  uint8(e.AssetEventType),
		Sender:          e.Sender,
		Recipient:       e.Recipient,
		AssetIdentifier: e.AssetIdentifier,
		Amount:          e.Amount,
	}
}

func rowToFtEvent(r ftEventRow) chaintypes.FtEvent {
	return chaintypes.FtEvent{
		EventEnvelope: chaintypes.EventEnvelope{
			EventIndex:     r.EventIndex,
			TxID:           r.TxID,
			TxIndex:        r.TxIndex,
			BlockHeight:    r.BlockHeight,
			IndexBlockHash: r.IndexBlockHash,
			Canonical:      r.Canonical,
		},
		AssetEventType:  chaintypes.AssetEventType(r.AssetEventType),
		Sender:          r.Sender,
		Recipient:       r.Recipient,
		AssetIdentifier: r.AssetIdentifier,
		Amount:          r.Amount,
	}
}

func nftEventToRow(e chaintypes.NftEvent) nftEventRow {
	return nftEventRow{
		EventIndex:      e.EventIndex,
		TxID:            e.TxID,
		IndexBlockHash:  e.IndexBlockHash,
		TxIndex:         e.TxIndex,
		BlockHeight:     e.BlockHeight,
		Canonical:       e.Canonical,
		AssetEventType:  uint8(e.AssetEventType),
		Sender:          e.Sender,
		Recipient:       e.Recipient,
		AssetIdentifier: e.AssetIdentifier,
		Value:           e.Value,
	}
}

func rowToNftEvent(r nftEventRow) chaintypes.NftEvent {
	return chaintypes.NftEvent{
		EventEnvelope: chaintypes.EventEnvelope{
			EventIndex:     r.EventIndex,
			TxID:           r.TxID,
			TxIndex:        r.TxIndex,
			BlockHeight:    r.BlockHeight,
			IndexBlockHash: r.IndexBlockHash,
			Canonical:      r.Canonical,
		},
		AssetEventType:  chaintypes.AssetEventType(r.AssetEventType),
		Sender:          r.Sender,
		Recipient:       r.Recipient,
		AssetIdentifier: r.AssetIdentifier,
		Value:           r.Value,
	}
}

func logToRow(l chaintypes.ContractLog) contractLogRow {
	return contractLogRow{
		EventIndex:         l.EventIndex,
		TxID:               l.TxID,
		IndexBlockHash:      l.IndexBlockHash,
		TxIndex:            l.TxIndex,
		BlockHeight:        l.BlockHeight,
		Canonical:          l.Canonical,
		ContractIdentifier: l.ContractIdentifier,
		Topic:              l.Topic,
		Value:              l.Value,
	}
}

func rowToLog(r contractLogRow) chaintypes.ContractLog {
	return chaintypes.ContractLog{
		EventIndex:         r.EventIndex,
		TxID:               r.TxID,
		TxIndex:            r.TxIndex,
		BlockHeight:        r.BlockHeight,
		IndexBlockHash:     r.IndexBlockHash,
		Canonical:          r.Canonical,
		ContractIdentifier: r.ContractIdentifier,
		Topic:              r.Topic,
		Value:              r.Value,
	}
}

func contractToRow(c chaintypes.SmartContract) smartContractRow {
	return smartContractRow{
		TxID:           c.TxID,
		IndexBlockHash: c.IndexBlockHash,
		ContractID:     c.ContractID,
		BlockHeight:    c.BlockHeight,
		SourceCode:     c.SourceCode,
		ABI:            c.ABI,
		Canonical:      c.Canonical,
	}
}

func rowToContract(r smartContractRow) chaintypes.SmartContract {
	return chaintypes.SmartContract{
		TxID:           r.TxID,
		ContractID:     r.ContractID,
		BlockHeight:    r.BlockHeight,
		IndexBlockHash: r.IndexBlockHash,
		SourceCode:     r.SourceCode,
		ABI:            r.ABI,
		Canonical:      r.Canonical,
	}
}
