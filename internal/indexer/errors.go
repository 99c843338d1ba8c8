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

package indexer

import "github.com/pkg/errors"

// Kind discriminates the IngestError taxonomy of spec.md §7.
type Kind string

const (
	KindTransient        Kind = "transient"
	KindParentMissing    Kind = "parent_missing"
	KindSchemaCorruption Kind = "schema_corruption"
)

// IngestError wraps a failure from Ingest with the policy-relevant kind.
type IngestError struct {
	Kind Kind
	Err  error
}

func (e *IngestError) Error() string {
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *IngestError) Unwrap() error { return e.Err }

func transientErr(err error) error {
	return &IngestError{Kind: KindTransient, Err: err}
}

// ErrParentMissing indicates out-of-order delivery (§4.3, §7): the batch's
// parent block was never ingested. Upstream should replay.
var ErrParentMissing = errors.New("indexer: parent block is missing")

// ErrSchemaCorruption indicates duplicate rows where the schema guarantees
// uniqueness (§4.3, §7). Ingest returns it without retrying; it does not
// halt ingestion: internal/ingest logs the failure and goes on to the next
// message.
var ErrSchemaCorruption = errors.New("indexer: duplicate rows violate a unique invariant")

func parentMissingErr() error {
	return &IngestError{Kind: KindParentMissing, Err: ErrParentMissing}
}

func schemaCorruptionErr() error {
	return &IngestError{Kind: KindSchemaCorruption, Err: ErrSchemaCorruption}
}
