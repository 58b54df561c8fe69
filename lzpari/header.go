// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package lzpari implements the LZP-ARI front end: a prediction-only
// match finder (three single-slot hash tables keyed by 2, 4, and 8
// preceding bytes) feeding a coder that never transmits a match
// position — the decoder recomputes the same candidate from its own
// reconstructed output and only the match length rides the wire.
package lzpari

import (
	"encoding/binary"

	"github.com/richox/comprox/internal/errors"
)

// firstBytesLen mirrors the original's nine-byte literal prefix: long
// enough to seed the 8-byte hash table before any prediction is
// possible, so those bytes are stored raw in the header instead of
// being coded through PPM.
const firstBytesLen = 9

const headerSize = 1 + 4 + 1 + firstBytesLen

type header struct {
	compressed   uint8
	originalSize uint32
	esc          uint8
	firstBytes   [firstBytesLen]byte
}

func (h header) marshal(buf []byte) []byte {
	var tmp [headerSize]byte
	tmp[0] = h.compressed
	binary.LittleEndian.PutUint32(tmp[1:5], h.originalSize)
	tmp[5] = h.esc
	copy(tmp[6:], h.firstBytes[:])
	return append(buf, tmp[:]...)
}

func unmarshalHeader(buf []byte) (h header, rest []byte) {
	if len(buf) < headerSize {
		errors.Panic(errors.Fmt(errors.Corrupted, "lzpari: truncated block header"))
	}
	h.compressed = buf[0]
	h.originalSize = binary.LittleEndian.Uint32(buf[1:5])
	h.esc = buf[5]
	copy(h.firstBytes[:], buf[6:headerSize])
	return h, buf[headerSize:]
}
