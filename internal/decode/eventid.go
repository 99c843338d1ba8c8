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
	"crypto/sha256"
	"encoding/binary"

	"github.com/chainsidecar/indexer/internal/chaintypes"
)

// ComputeEventID derives a stable 16-byte fingerprint for an event, per
// spec.md §4.1: sha256(uint32BE(event_index) || tx_id)[16:32].
func ComputeEventID(eventIndex uint32, txID chaintypes.Hash) [16]byte {
	var buf [4 + len(txID)]byte
	binary.BigEndian.PutUint32(buf[0:4], eventIndex)
	copy(buf[4:], txID[:])
	sum := sha256.Sum256(buf[:])

	var out [16]byte
	copy(out[:], sum[16:32])
	return out
}

// computeTxID derives a transaction's content hash from its encoded bytes.
// The wire format in this package has no independent signature field to
// serve as an identity, so the tx_id is the sha256 of everything decoded
// (the same determinism guarantee spec.md §8's P5 asks of ComputeEventID).
func computeTxID(encoded []byte) chaintypes.Hash {
	return chaintypes.Hash(sha256.Sum256(encoded))
}
