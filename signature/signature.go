// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

// Package signature renders raw Solana transaction signature bytes to their
// canonical base58 string form. The wire codecs that supply the raw bytes
// are out of scope (spec.md §1); this package owns the encode step every
// provider performs before handing a signature to the comparator, and the
// decode step used to turn configured accounts into raw bytes.
package signature

import "github.com/mr-tron/base58"

// Encode renders raw signature bytes as a base58 string. Equality on the
// Signature concept is defined on the underlying bytes; this string is the
// canonical key used everywhere above the provider layer.
func Encode(raw []byte) string {
	return base58.Encode(raw)
}

// Decode parses a base58-encoded public key or signature back to bytes. It
// is used when matching a configured account against account keys carried
// on the wire.
func Decode(s string) ([]byte, error) {
	return base58.Decode(s)
}
