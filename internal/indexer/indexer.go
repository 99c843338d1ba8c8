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

// Package indexer implements the Indexer component of spec.md §4.3: it
// orchestrates one ingestion transaction per block, calling the Decoder's
// output into the Store, running reorg detection, committing, and then
// emitting notifications. Grounded on the teacher's ChainDataFetcher
// (datasync/chaindatafetcher/chaindata_fetcher.go): a single-writer loop
// over a request channel, retried inserts, and a checkpoint advanced only
// after a batch fully commits.
package indexer

import (
	"context"
	"time"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/chainsidecar/indexer/internal/chaintypes"
	"github.com/chainsidecar/indexer/internal/decode"
	"github.com/chainsidecar/indexer/internal/logging"
	"github.com/chainsidecar/indexer/internal/notify"
	"github.com/chainsidecar/indexer/internal/store"
)

// maxIngestAttempts bounds the exponential backoff retry of a transient
// failure before it is surfaced fatal (§7 IngestError.Transient).
const maxIngestAttempts = 5

const retryBaseInterval = 100 * time.Millisecond

// Indexer drives ingestion: one input message -> one committed batch -> one
// notification round (§4.3).
type Indexer struct {
	store *store.Store
	hub   *notify.Hub
	log   *zap.SugaredLogger
}

// New constructs an Indexer over s, publishing post-commit events to hub.
func New(s *store.Store, hub *notify.Hub) *Indexer {
	return &Indexer{store: s, hub: hub, log: logging.New("indexer")}
}

// IngestResult reports what Ingest did: a duplicate delivery is a no-op,
// not an error (§4.3 edge cases).
type IngestResult struct {
	NoOp     bool
	Block    chaintypes.Block
	TxCount  int
	Restored store.UpdatedCounts
}

// Ingest drives one ingestion transaction, retrying transient Store
// failures with exponential backoff up to maxIngestAttempts before
// surfacing a fatal IngestError (§7).
func (ix *Indexer) Ingest(ctx context.Context, batch *decode.BlockBatch) (*IngestResult, error) {
	var lastErr error
	for attempt := 1; attempt <= maxIngestAttempts; attempt++ {
		result, err := ix.ingestOnce(ctx, batch)
		if err == nil {
			return result, nil
		}

		var ingestErr *IngestError
		if errors.As(err, &ingestErr) && ingestErr.Kind != KindTransient {
			return nil, err
		}

		lastErr = err
		ingestRetryGauge.Update(int64(attempt))
		ix.log.Warnw("transient ingest failure, retrying", "attempt", attempt, "err", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryBaseInterval << uint(attempt-1)):
		}
	}
	return nil, lastErr
}

func (ix *Indexer) ingestOnce(ctx context.Context, batch *decode.BlockBatch) (*IngestResult, error) {
	start := time.Now()
	tx := ix.store.DB().Begin()
	if tx.Error != nil {
		return nil, transientErr(errors.Wrap(tx.Error, "indexer: begin transaction"))
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	tip, err := store.GetChainTip(tx)
	if err != nil {
		return nil, transientErr(err)
	}

	restored, err := ix.handleReorg(tx, batch.Block, tip)
	if err != nil {
		return nil, err
	}
	if restored.Blocks > 0 {
		reorgDepthGauge.Update(1)
		restoredBlocksGauge.Update(restored.Blocks)
		ix.log.Infow("restored orphaned chain",
			"blocks", restored.Blocks, "txs", restored.Txs,
			"stxEvents", restored.StxEvents, "ftEvents", restored.FtEvents,
			"nftEvents", restored.NftEvents, "contractLogs", restored.ContractLogs,
			"smartContracts", restored.SmartContracts)
	}

	work := batch
	if tip.Found && batch.Block.BlockHeight <= tip.Height {
		// A sibling of existing history: store it non-canonical (§4.3 step 4).
		work = siblingCopy(batch)
	}

	// A unique violation aborts a postgres transaction, so a duplicate block
	// is detected by lookup before the insert instead of by its conflict.
	existing, err := store.GetBlockByIndexHash(tx, work.Block.IndexBlockHash)
	if err != nil {
		return nil, transientErr(err)
	}
	var rowsAffected int64
	if existing == nil {
		rowsAffected, err = store.InsertBlock(tx, work.Block)
		if err != nil {
			return nil, transientErr(err)
		}
	}
	if rowsAffected == 0 {
		// Duplicate delivery: commit with nothing else written (§4.3 edge case).
		if err := tx.Commit().Error; err != nil {
			return nil, transientErr(errors.Wrap(err, "indexer: commit no-op"))
		}
		committed = true
		return &IngestResult{NoOp: true, Block: work.Block}, nil
	}

	for _, txBatch := range work.Txs {
		if _, err := store.InsertTx(tx, txBatch.Tx); err != nil {
			return nil, transientErr(err)
		}
		for _, e := range txBatch.StxEvents {
			if _, err := store.InsertStxEvent(tx, e); err != nil {
				return nil, transientErr(err)
			}
		}
		for _, e := range txBatch.FtEvents {
			if _, err := store.InsertFtEvent(tx, e); err != nil {
				return nil, transientErr(err)
			}
		}
		for _, e := range txBatch.NftEvents {
			if _, err := store.InsertNftEvent(tx, e); err != nil {
				return nil, transientErr(err)
			}
		}
		for _, l := range txBatch.ContractLogs {
			if _, err := store.InsertContractLog(tx, l); err != nil {
				return nil, transientErr(err)
			}
		}
		if txBatch.SmartContract != nil {
			if _, err := store.InsertSmartContract(tx, *txBatch.SmartContract); err != nil {
				return nil, transientErr(err)
			}
		}
	}

	if work.Block.Canonical {
		// Only a canonical extension of the tip advances the resume point;
		// a non-canonical sibling must not regress it.
		if err := store.WriteCheckpoint(tx, int64(work.Block.BlockHeight)); err != nil {
			return nil, transientErr(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, transientErr(errors.Wrap(err, "indexer: commit"))
	}
	committed = true

	commitLatencyMsGauge.Update(time.Since(start).Milliseconds())
	ingestedHeightGauge.Update(int64(work.Block.BlockHeight))

	ix.notify(work)

	return &IngestResult{Block: work.Block, TxCount: len(work.Txs), Restored: restored}, nil
}

// handleReorg implements §4.3's reorg algorithm.
func (ix *Indexer) handleReorg(tx *gorm.DB, block chaintypes.Block, tip store.ChainTip) (store.UpdatedCounts, error) {
	var zero store.UpdatedCounts
	if block.BlockHeight <= 1 {
		return zero, nil // genesis: the reorg step is skipped (§4.3 edge case).
	}

	parents, err := store.FindBlocksAtParent(tx, block.BlockHeight-1, block.ParentIndexBlockHash)
	if err != nil {
		return zero, transientErr(err)
	}
	if len(parents) == 0 {
		return zero, parentMissingErr()
	}
	if len(parents) > 1 {
		return zero, schemaCorruptionErr()
	}
	parent := parents[0]

	if parent.Canonical {
		return zero, nil
	}
	if !tip.Found || block.BlockHeight <= tip.Height {
		// Parent is non-canonical but this block doesn't extend past the
		// tip: proceed without restoration; it's written non-canonical.
		return zero, nil
	}

	restored, err := store.RestoreOrphanedChain(tx, parent.IndexBlockHash)
	if err != nil {
		if errors.Is(err, store.ErrSchemaCorruption) {
			return zero, schemaCorruptionErr()
		}
		return zero, transientErr(err)
	}
	return restored, nil
}

// siblingCopy returns a copy of batch with every canonical flag forced to
// false, for a block that arrives at or below the current tip height
// (§4.3 step 4, edge case "sibling at tip").
func siblingCopy(batch *decode.BlockBatch) *decode.BlockBatch {
	out := &decode.BlockBatch{Block: batch.Block}
	out.Block.Canonical = false

	out.Txs = make([]decode.TxBatch, len(batch.Txs))
	for i, txBatch := range batch.Txs {
		tb := txBatch
		tb.Tx.Canonical = false

		tb.StxEvents = append([]chaintypes.StxEvent{}, txBatch.StxEvents...)
		for j := range tb.StxEvents {
			tb.StxEvents[j].Canonical = false
		}
		tb.FtEvents = append([]chaintypes.FtEvent{}, txBatch.FtEvents...)
		for j := range tb.FtEvents {
			tb.FtEvents[j].Canonical = false
		}
		tb.NftEvents = append([]chaintypes.NftEvent{}, txBatch.NftEvents...)
		for j := range tb.NftEvents {
			tb.NftEvents[j].Canonical = false
		}
		tb.ContractLogs = append([]chaintypes.ContractLog{}, txBatch.ContractLogs...)
		for j := range tb.ContractLogs {
			tb.ContractLogs[j].Canonical = false
		}
		if txBatch.SmartContract != nil {
			sc := *txBatch.SmartContract
			sc.Canonical = false
			tb.SmartContract = &sc
		}
		out.Txs[i] = tb
	}
	return out
}

// notify emits block-then-tx notifications strictly after commit, txs in
// ascending tx_index (§4.4).
func (ix *Indexer) notify(batch *decode.BlockBatch) {
	ix.hub.PublishBlock(batch.Block)
	for _, txBatch := range batch.Txs {
		ix.hub.PublishTx(txBatch.Tx)
	}
}
