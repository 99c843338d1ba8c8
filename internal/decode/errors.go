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

import "fmt"

// Error is a DecodeError (spec.md §4.1, §7): the Decoder is pure, so any
// failure carries a position and the whole message is dropped without
// retry. Position is the byte offset in the raw transaction where parsing
// gave up, except for an unknown event kind, where it is the event's index
// within its transaction.
type Error struct {
	Reason   string
	Position int
}

func (e *Error) Error() string {
	return fmt.Sprintf("decode: %s (position %d)", e.Reason, e.Position)
}

func errAt(pos int, format string, args ...interface{}) error {
	return &Error{Reason: fmt.Sprintf(format, args...), Position: pos}
}
