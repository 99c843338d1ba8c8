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
	"fmt"
	"math/big"
)

// Uint128 holds fungible-token amounts, which may exceed a u64 (§9 "Decimal
// widths"). It is persisted as numeric(78,0) and round-trips through
// database/sql via its decimal-string text form.
type Uint128 struct {
	big.Int
}

// NewUint128 builds a Uint128 from a uint64, the common case for test
// vectors and freshly decoded amounts that fit in 64 bits.
func NewUint128(v uint64) Uint128 {
	var u Uint128
	u.Int.SetUint64(v)
	return u
}

// ParseUint128 parses a base-10 string, as produced by Value() or by a
// numeric(78,0) column scan.
func ParseUint128(s string) (Uint128, error) {
	var u Uint128
	if _, ok := u.Int.SetString(s, 10); !ok {
		return Uint128{}, fmt.Errorf("chaintypes: invalid uint128 literal %q", s)
	}
	if u.Int.Sign() < 0 {
		return Uint128{}, fmt.Errorf("chaintypes: uint128 must be non-negative, got %q", s)
	}
	return u, nil
}

// Value implements driver.Valuer so gorm can write a Uint128 into a
// numeric(78,0) column as its decimal text form.
func (u Uint128) Value() (driver.Value, error) {
	return u.Int.String(), nil
}

// Scan implements sql.Scanner, accepting the string or []byte numeric
// representation Postgres returns for numeric(78,0) columns.
func (u *Uint128) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		u.Int.SetInt64(0)
		return nil
	case string:
		parsed, err := ParseUint128(v)
		if err != nil {
			return err
		}
		*u = parsed
		return nil
	case []byte:
		parsed, err := ParseUint128(string(v))
		if err != nil {
			return err
		}
		*u = parsed
		return nil
	case int64:
		u.Int.SetInt64(v)
		return nil
	default:
		return fmt.Errorf("chaintypes: cannot scan %T into Uint128", src)
	}
}

// Add returns a new Uint128 holding u+other, never mutating either operand.
func (u Uint128) Add(other Uint128) Uint128 {
	var out Uint128
	out.Int.Add(&u.Int, &other.Int)
	return out
}

// Sub returns a new Uint128 holding u-other; it may go negative when a
// balance computation (received - sent) has more spends than receipts
// visible, and the negative value is returned as is, not clamped.
func (u Uint128) Sub(other Uint128) Uint128 {
	var out Uint128
	out.Int.Sub(&u.Int, &other.Int)
	return out
}

func (u Uint128) String() string { return u.Int.String() }
