// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

package provider

import (
	"encoding/binary"
	"errors"
)

// The five rawstream-backed protocols (Arpc, Thor, Shredstream, Shreder,
// Jetstream) don't have a vendored protobuf schema in this module (spec.md
// §1). Each still needs to put bytes on the wire and get bytes back, so
// requests and responses here use a minimal length-prefixed encoding local
// to this module rather than each protocol's real (private) schema. Every
// field a real schema would carry collapses to what the producer loop
// actually needs: the account filter going out, and a Frame coming back.

// encodeAccountFilter serializes a set of raw account pubkeys as a
// length-prefixed list, the request body sent to Subscribe.
func encodeAccountFilter(accounts [][]byte) []byte {
	buf := make([]byte, 0, 4+len(accounts)*36)
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(accounts)))
	buf = append(buf, n[:]...)
	for _, a := range accounts {
		binary.BigEndian.PutUint32(n[:], uint32(len(a)))
		buf = append(buf, n[:]...)
		buf = append(buf, a...)
	}
	return buf
}

// decodeFrame parses the length-prefixed wire shape shared by every
// rawstream provider: a signature, then zero or more account keys.
func decodeFrame(buf []byte) (Frame, error) {
	sig, rest, err := readChunk(buf)
	if err != nil {
		return Frame{}, err
	}
	var keys [][]byte
	for len(rest) > 0 {
		var key []byte
		key, rest, err = readChunk(rest)
		if err != nil {
			return Frame{}, err
		}
		keys = append(keys, key)
	}
	return Frame{Signature: sig, AccountKeys: keys}, nil
}

func readChunk(buf []byte) (chunk, rest []byte, err error) {
	if len(buf) < 4 {
		return nil, nil, errors.New("rawstream: truncated length prefix")
	}
	n := binary.BigEndian.Uint32(buf[:4])
	buf = buf[4:]
	if uint32(len(buf)) < n {
		return nil, nil, errors.New("rawstream: truncated chunk")
	}
	return buf[:n], buf[n:], nil
}
