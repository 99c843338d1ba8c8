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
	"sort"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"

	"github.com/chainsidecar/indexer/internal/chaintypes"
)

// GetBlockByHash returns the canonical block with the given content hash
// (distinct forks can share a block_hash; only the canonical one is ever
// ambiguity-free, per §3's note that block_hash "can repeat across forks").
func GetBlockByHash(db *gorm.DB, blockHash chaintypes.Hash) (*chaintypes.Block, error) {
	var row blockRow
	err := db.Where("block_hash = ? AND canonical = ?", blockHash[:], true).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "store: get block by hash")
	}
	b := rowToBlock(row)
	return &b, nil
}

// FindBlocksAtParent returns every block row at height whose index_block_hash
// equals indexBlockHash — used by the Indexer's reorg detection to look up a
// candidate block's parent (§4.3). Ordinarily 0 or 1; more than 1 indicates
// SchemaCorruption.
func FindBlocksAtParent(db *gorm.DB, height uint64, indexBlockHash chaintypes.Hash) ([]chaintypes.Block, error) {
	var rows []blockRow
	if err := db.Where("block_height = ? AND index_block_hash = ?", height, indexBlockHash[:]).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "store: find block at parent")
	}
	out := make([]chaintypes.Block, len(rows))
	for i, r := range rows {
		out[i] = rowToBlock(r)
	}
	return out, nil
}

// GetBlockByIndexHash returns the (possibly non-canonical) block identified
// by its unique index_block_hash.
func GetBlockByIndexHash(db *gorm.DB, indexBlockHash chaintypes.Hash) (*chaintypes.Block, error) {
	var row blockRow
	err := db.Where("index_block_hash = ?", indexBlockHash[:]).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "store: get block by index hash")
	}
	b := rowToBlock(row)
	return &b, nil
}

// ListBlocks returns canonical blocks ordered newest-first.
func ListBlocks(db *gorm.DB, limit, offset int) ([]chaintypes.Block, error) {
	var rows []blockRow
	err := db.Where("canonical = ?", true).
		Order("block_height DESC").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "store: list blocks")
	}
	out := make([]chaintypes.Block, len(rows))
	for i, r := range rows {
		out[i] = rowToBlock(r)
	}
	return out, nil
}

// GetBlockTxIDs returns every tx_id stored under indexBlockHash, ordered by
// tx_index.
func GetBlockTxIDs(db *gorm.DB, indexBlockHash chaintypes.Hash) ([]chaintypes.Hash, error) {
	var rows []txRow
	err := db.Select("tx_id, tx_index").
		Where("index_block_hash = ?", indexBlockHash[:]).
		Order("tx_index ASC").Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "store: get block tx ids")
	}
	out := make([]chaintypes.Hash, len(rows))
	for i, r := range rows {
		out[i] = r.TxID
	}
	return out, nil
}

// GetTxByID returns the canonical transaction with the given tx_id.
func GetTxByID(db *gorm.DB, txID chaintypes.Hash) (*chaintypes.Tx, error) {
	var row txRow
	err := db.Where("tx_id = ? AND canonical = ?", txID[:], true).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "store: get tx by id")
	}
	t := rowToTx(row)
	return &t, nil
}

// ListTxs returns canonical transactions newest-first, optionally filtered
// by type.
func ListTxs(db *gorm.DB, limit, offset int, typeFilter *chaintypes.TxTypeID) ([]chaintypes.Tx, error) {
	q := db.Where("canonical = ?", true)
	if typeFilter != nil {
		q = q.Where("type_id = ?", uint8(*typeFilter))
	}
	var rows []txRow
	err := q.Order("block_height DESC, tx_index DESC").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "store: list txs")
	}
	out := make([]chaintypes.Tx, len(rows))
	for i, r := range rows {
		out[i] = rowToTx(r)
	}
	return out, nil
}

// GetTxEvents returns every STX, FT, NFT, and contract-log event belonging
// to (txID, indexBlockHash), merged and sorted by event_index (§4.2).
func GetTxEvents(db *gorm.DB, txID, indexBlockHash chaintypes.Hash) ([]chaintypes.AnyEvent, error) {
	var stxRows []stxEventRow
	if err := db.Where("tx_id = ? AND index_block_hash = ?", txID[:], indexBlockHash[:]).Find(&stxRows).Error; err != nil {
		return nil, errors.Wrap(err, "store: get tx stx events")
	}
	var ftRows []ftEventRow
	if err := db.Where("tx_id = ? AND index_block_hash = ?", txID[:], indexBlockHash[:]).Find(&ftRows).Error; err != nil {
		return nil, errors.Wrap(err, "store: get tx ft events")
	}
	var nftRows []nftEventRow
	if err := db.Where("tx_id = ? AND index_block_hash = ?", txID[:], indexBlockHash[:]).Find(&nftRows).Error; err != nil {
		return nil, errors.Wrap(err, "store: get tx nft events")
	}
	var logRows []contractLogRow
	if err := db.Where("tx_id = ? AND index_block_hash = ?", txID[:], indexBlockHash[:]).Find(&logRows).Error; err != nil {
		return nil, errors.Wrap(err, "store: get tx contract logs")
	}

	merged := make([]chaintypes.AnyEvent, 0, len(stxRows)+len(ftRows)+len(nftRows)+len(logRows))
	for _, r := range stxRows {
		e := rowToStxEvent(r)
		merged = append(merged, chaintypes.AnyEvent{EventEnvelope: e.EventEnvelope, Kind: "stx", Data: e})
	}
	for _, r := range ftRows {
		e := rowToFtEvent(r)
		merged = append(merged, chaintypes.AnyEvent{EventEnvelope: e.EventEnvelope, Kind: "ft", Data: e})
	}
	for _, r := range nftRows {
		e := rowToNftEvent(r)
		merged = append(merged, chaintypes.AnyEvent{EventEnvelope: e.EventEnvelope, Kind: "nft", Data: e})
	}
	for _, r := range logRows {
		l := rowToLog(r)
		merged = append(merged, chaintypes.AnyEvent{
			EventEnvelope: chaintypes.EventEnvelope{
				EventIndex:     l.EventIndex,
				TxID:           l.TxID,
				TxIndex:        l.TxIndex,
				BlockHeight:    l.BlockHeight,
				IndexBlockHash: l.IndexBlockHash,
				Canonical:      l.Canonical,
			},
			Kind: "log",
			Data: l,
		})
	}

	sort.Slice(merged, func(i, j int) bool { return merged[i].EventIndex < merged[j].EventIndex })
	return merged, nil
}

// StxBalance is getStxBalance's result shape (§4.2): balance = received - sent.
type StxBalance struct {
	Balance       int64
	TotalSent     uint64
	TotalReceived uint64
}

// GetStxBalance sums canonical STX events where address is sender or
// recipient (§4.2, §8 P3, I6).
func GetStxBalance(db *gorm.DB, address string) (StxBalance, error) {
	var sent, received uint64
	if err := db.Model(&stxEventRow{}).
		Where("canonical = ? AND sender = ?", true, address).
		Select("COALESCE(SUM(amount), 0)").Row().Scan(&sent); err != nil {
		return StxBalance{}, errors.Wrap(err, "store: sum stx sent")
	}
	if err := db.Model(&stxEventRow{}).
		Where("canonical = ? AND recipient = ?", true, address).
		Select("COALESCE(SUM(amount), 0)").Row().Scan(&received); err != nil {
		return StxBalance{}, errors.Wrap(err, "store: sum stx received")
	}
	return StxBalance{
		Balance:       int64(received) - int64(sent),
		TotalSent:     sent,
		TotalReceived: received,
	}, nil
}

// FtBalance is one entry of getFtBalances' per-asset_identifier map.
type FtBalance struct {
	Balance       chaintypes.Uint128
	TotalSent     chaintypes.Uint128
	TotalReceived chaintypes.Uint128
}

// GetFtBalances sums canonical FT events per asset_identifier for address.
func GetFtBalances(db *gorm.DB, address string) (map[string]FtBalance, error) {
	sent, err := sumFtByAsset(db, address, "sender")
	if err != nil {
		return nil, err
	}
	received, err := sumFtByAsset(db, address, "recipient")
	if err != nil {
		return nil, err
	}

	out := make(map[string]FtBalance)
	for asset, amount := range sent {
		out[asset] = FtBalance{TotalSent: amount}
	}
	for asset, amount := range received {
		b := out[asset]
		b.TotalReceived = amount
		out[asset] = b
	}
	for asset, b := range out {
		b.Balance = b.TotalReceived.Sub(b.TotalSent)
		out[asset] = b
	}
	return out, nil
}

func sumFtByAsset(db *gorm.DB, address, column string) (map[string]chaintypes.Uint128, error) {
	type row struct {
		AssetIdentifier string
		Total           chaintypes.Uint128
	}
	var rows []row
	err := db.Model(&ftEventRow{}).
		Select("asset_identifier, COALESCE(SUM(amount), 0) AS total").
		Where("canonical = ? AND "+column+" = ?", true, address).
		Group("asset_identifier").Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(err, "store: sum ft %s", column)
	}
	out := make(map[string]chaintypes.Uint128, len(rows))
	for _, r := range rows {
		out[r.AssetIdentifier] = r.Total
	}
	return out, nil
}

// NftCount is one entry of getNftCounts' per-asset_identifier map.
type NftCount struct {
	Count         int64
	TotalSent     int64
	TotalReceived int64
}

// GetNftCounts tallies canonical NFT events per asset_identifier for
// address; count = received - sent.
func GetNftCounts(db *gorm.DB, address string) (map[string]NftCount, error) {
	sent, err := countNftByAsset(db, address, "sender")
	if err != nil {
		return nil, err
	}
	received, err := countNftByAsset(db, address, "recipient")
	if err != nil {
		return nil, err
	}
	out := make(map[string]NftCount)
	for asset, n := range sent {
		out[asset] = NftCount{TotalSent: n}
	}
	for asset, n := range received {
		c := out[asset]
		c.TotalReceived = n
		out[asset] = c
	}
	for asset, c := range out {
		c.Count = c.TotalReceived - c.TotalSent
		out[asset] = c
	}
	return out, nil
}

func countNftByAsset(db *gorm.DB, address, column string) (map[string]int64, error) {
	type row struct {
		AssetIdentifier string
		N               int64
	}
	var rows []row
	err := db.Model(&nftEventRow{}).
		Select("asset_identifier, COUNT(*) AS n").
		Where("canonical = ? AND "+column+" = ?", true, address).
		Group("asset_identifier").Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(err, "store: count nft %s", column)
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.AssetIdentifier] = r.N
	}
	return out, nil
}

// GetAddressTxs returns canonical transactions where address is the sender
// or the recipient of a token transfer, newest-first, with a windowed total
// count (§4.2).
func GetAddressTxs(db *gorm.DB, address string, limit, offset int) ([]chaintypes.Tx, int64, error) {
	scope := db.Model(&txRow{}).Where(
		"canonical = ? AND (sender_address = ? OR (type_id = ? AND token_transfer_recipient = ?))",
		true, address, uint8(chaintypes.TxTypeTokenTransfer), address,
	)

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "store: count address txs")
	}

	var rows []txRow
	if err := scope.Order("block_height DESC, tx_index DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, errors.Wrap(err, "store: get address txs")
	}
	out := make([]chaintypes.Tx, len(rows))
	for i, r := range rows {
		out[i] = rowToTx(r)
	}
	return out, total, nil
}

// AddressAssetEvent is one entry of getAddressAssetEvents' result.
type AddressAssetEvent struct {
	chaintypes.AnyEvent
}

// GetAddressAssetEvents returns canonical STX/FT/NFT events touching
// address, newest-first, with a correct total count across all three kinds
// (§9's corrected contract for the bug where the source always returned
// total: 0).
func GetAddressAssetEvents(db *gorm.DB, address string, limit, offset int) ([]AddressAssetEvent, int64, error) {
	var stxRows []stxEventRow
	if err := db.Where("canonical = ? AND (sender = ? OR recipient = ?)", true, address, address).Find(&stxRows).Error; err != nil {
		return nil, 0, errors.Wrap(err, "store: get address stx events")
	}
	var ftRows []ftEventRow
	if err := db.Where("canonical = ? AND (sender = ? OR recipient = ?)", true, address, address).Find(&ftRows).Error; err != nil {
		return nil, 0, errors.Wrap(err, "store: get address ft events")
	}
	var nftRows []nftEventRow
	if err := db.Where("canonical = ? AND (sender = ? OR recipient = ?)", true, address, address).Find(&nftRows).Error; err != nil {
		return nil, 0, errors.Wrap(err, "store: get address nft events")
	}

	merged := make([]AddressAssetEvent, 0, len(stxRows)+len(ftRows)+len(nftRows))
	for _, r := range stxRows {
		e := rowToStxEvent(r)
		merged = append(merged, AddressAssetEvent{chaintypes.AnyEvent{EventEnvelope: e.EventEnvelope, Kind: "stx", Data: e}})
	}
	for _, r := range ftRows {
		e := rowToFtEvent(r)
		merged = append(merged, AddressAssetEvent{chaintypes.AnyEvent{EventEnvelope: e.EventEnvelope, Kind: "ft", Data: e}})
	}
	for _, r := range nftRows {
		e := rowToNftEvent(r)
		merged = append(merged, AddressAssetEvent{chaintypes.AnyEvent{EventEnvelope: e.EventEnvelope, Kind: "nft", Data: e}})
	}

	total := int64(len(merged))

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].BlockHeight != merged[j].BlockHeight {
			return merged[i].BlockHeight > merged[j].BlockHeight
		}
		return merged[i].EventIndex > merged[j].EventIndex
	})

	if offset > len(merged) {
		offset = len(merged)
	}
	end := offset + limit
	if end > len(merged) || limit <= 0 {
		end = len(merged)
	}
	return merged[offset:end], total, nil
}
