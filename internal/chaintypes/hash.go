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

package chaintypes

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
)

// Value implements driver.Valuer, persisting a Hash as raw bytes in a
// binary column (§6 "binary columns for hashes and raw values").
func (h Hash) Value() (driver.Value, error) {
	return h[:], nil
}

// Scan implements sql.Scanner for the reverse direction.
func (h *Hash) Scan(src interface{}) error {
	b, ok := src.([]byte)
	if !ok {
		if src == nil {
			*h = Hash{}
			return nil
		}
		return fmt.Errorf("chaintypes: cannot scan %T into Hash", src)
	}
	if len(b) != len(h) {
		return fmt.Errorf("chaintypes: hash column has %d bytes, want %d", len(b), len(h))
	}
	copy(h[:], b)
	return nil
}

func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// HashFromHex parses a 0x-prefixed or bare hex string into a Hash.
func HashFromHex(s string) (Hash, error) {
	var h Hash
	if len(s) >= 2 && s[0:2] == "0x" {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, err
	}
	if len(b) != len(h) {
		return h, fmt.Errorf("chaintypes: expected %d bytes, got %d", len(h), len(b))
	}
	copy(h[:], b)
	return h, nil
}

func (h Hash) IsZero() bool {
	return h == Hash{}
}
