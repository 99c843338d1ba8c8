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

// Package address encapsulates the chain's address-encoding scheme (§9
// "Address derivation": version + bytes -> text, kept out of the Decoder so
// it carries its own test vectors). It is a c32check-style scheme: a
// version below 32 (one base32 digit) plus a 20-byte signer hash,
// base32-encoded over a digit/letter alphabet that omits visually ambiguous characters, with a
// double-SHA256 checksum the same way Bitcoin's base58check does.
package address

import (
	"crypto/sha256"
	"fmt"
	"math/big"
)

const alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// HashMode selects how the signer condition's hash was derived; it feeds
// into address derivation the way spec.md §4.1 describes ("sender_address
// from the origin condition's hash mode + version + signer bytes").
type HashMode uint8

const (
	HashModeP2PKH HashMode = iota
	HashModeP2SH
	HashModeP2WPKH
	HashModeP2WSH
)

// Version selects the network/account-kind byte embedded in the address.
type Version uint8

const (
	VersionMainnetSingleSig Version = 22
	VersionMainnetMultiSig  Version = 20
	VersionTestnetSingleSig Version = 26
	VersionTestnetMultiSig  Version = 21
)

func doubleSHA256(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}

// c32encode renders data as base32 text using alphabet, treating data as a
// big-endian unsigned integer the way base58check does, so leading zero
// bytes still produce leading "0" characters instead of being dropped.
func c32encode(data []byte) string {
	leadingZeros := 0
	for leadingZeros < len(data) && data[leadingZeros] == 0 {
		leadingZeros++
	}

	n := new(big.Int).SetBytes(data)
	base := big.NewInt(32)
	mod := new(big.Int)
	var digits []byte
	for n.Sign() > 0 {
		n.DivMod(n, base, mod)
		digits = append(digits, alphabet[mod.Int64()])
	}
	// digits were accumulated least-significant-first; reverse.
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}

	out := make([]byte, leadingZeros)
	for i := range out {
		out[i] = alphabet[0]
	}
	return string(out) + string(digits)
}

func c32decodeDigit(c byte) (int, error) {
	for i := 0; i < len(alphabet); i++ {
		if alphabet[i] == c {
			return i, nil
		}
	}
	return 0, fmt.Errorf("address: invalid c32 digit %q", c)
}

func c32decode(s string) ([]byte, error) {
	leadingZeros := 0
	for leadingZeros < len(s) && s[leadingZeros] == alphabet[0] {
		leadingZeros++
	}

	n := new(big.Int)
	base := big.NewInt(32)
	for i := 0; i < len(s); i++ {
		d, err := c32decodeDigit(s[i])
		if err != nil {
			return nil, err
		}
		n.Mul(n, base)
		n.Add(n, big.NewInt(int64(d)))
	}

	body := n.Bytes()
	out := make([]byte, leadingZeros+len(body))
	copy(out[leadingZeros:], body)
	return out, nil
}

// Encode renders version and a 20-byte signer hash as a textual address of
// the form "S" + c32(version) + c32(hash || checksum), matching the chain's
// address-encoding scheme referenced in spec.md §4.1 and §9.
func Encode(version Version, hash [20]byte) string {
	checksum := doubleSHA256(append([]byte{byte(version)}, hash[:]...))[:4]
	body := append(append([]byte{}, hash[:]...), checksum...)
	return "S" + c32encode([]byte{byte(version)}) + c32encode(body)
}

// Decode reverses Encode, verifying the embedded checksum.
func Decode(s string) (Version, [20]byte, error) {
	var hash [20]byte
	if len(s) < 2 || s[0] != 'S' {
		return 0, hash, fmt.Errorf("address: missing 'S' prefix in %q", s)
	}

	versionBytes, err := c32decode(s[1:2])
	if err != nil {
		return 0, hash, err
	}
	if len(versionBytes) == 0 {
		versionBytes = []byte{0}
	}
	version := Version(versionBytes[len(versionBytes)-1])

	body, err := c32decode(s[2:])
	if err != nil {
		return 0, hash, err
	}
	if len(body) < 24 {
		padded := make([]byte, 24)
		copy(padded[24-len(body):], body)
		body = padded
	}
	copy(hash[:], body[:20])
	checksum := body[20:24]

	want := doubleSHA256(append([]byte{byte(version)}, hash[:]...))[:4]
	for i := range checksum {
		if checksum[i] != want[i] {
			return 0, hash, fmt.Errorf("address: checksum mismatch in %q", s)
		}
	}
	return version, hash, nil
}

// VersionForHashMode maps a transaction's origin hash mode to the address
// version used to derive its sender_address (§4.1).
func VersionForHashMode(mode HashMode, testnet bool) Version {
	switch mode {
	case HashModeP2SH, HashModeP2WSH:
		if testnet {
			return VersionTestnetMultiSig
		}
		return VersionMainnetMultiSig
	default:
		if testnet {
			return VersionTestnetSingleSig
		}
		return VersionMainnetSingleSig
	}
}
