// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package lz77 implements the long-range LZ77 match finder and coder
// (spec sections 4.5 and 4.8): a hash-chain matcher feeding four
// interleaved range-coded streams (main, short positions, positions,
// lengths). cr-matcher.c/cr-coder.c's full two-pass bucket-sort index
// and parity-split worker threads were not present in the retrieval
// pack (roxmain/cr-matcher.c and cr-coder.c bodies); the matcher here
// is grounded on the specification's textual description of the same
// algorithm (repeat-offset cache, chain walk with a distance-price
// penalty, short-cache fallback, flexible/lazy parsing) rather than on
// a byte-for-byte port, and the container carries its own wire format
// rather than the original's (the specification explicitly does not
// require bit-exact compatibility with the source format).
package lz77

import (
	"encoding/binary"

	"github.com/richox/comprox/internal/errors"
)

const headerSize = 1 + 1 + 1 + 4 + 4 + 4 + 4

type header struct {
	compressed   uint8
	matchMin     uint8
	esc          uint8
	originalSize uint32
	// offsetPos, offsetLen, and offsetMain are byte offsets from the
	// start of this header into the payload where each stream begins;
	// the spos stream always starts right after the header, and each
	// stream runs up to the next one's offset (main runs to EOF).
	offsetPos  uint32
	offsetLen  uint32
	offsetMain uint32
}

func (h header) marshal(buf []byte) []byte {
	var tmp [headerSize]byte
	tmp[0] = h.compressed
	tmp[1] = h.matchMin
	tmp[2] = h.esc
	binary.LittleEndian.PutUint32(tmp[3:7], h.originalSize)
	binary.LittleEndian.PutUint32(tmp[7:11], h.offsetPos)
	binary.LittleEndian.PutUint32(tmp[11:15], h.offsetLen)
	binary.LittleEndian.PutUint32(tmp[15:19], h.offsetMain)
	return append(buf, tmp[:]...)
}

func unmarshalHeader(buf []byte) (h header, rest []byte) {
	if len(buf) < headerSize {
		errors.Panic(errors.Fmt(errors.Corrupted, "lz77: truncated block header"))
	}
	h.compressed = buf[0]
	h.matchMin = buf[1]
	h.esc = buf[2]
	h.originalSize = binary.LittleEndian.Uint32(buf[3:7])
	h.offsetPos = binary.LittleEndian.Uint32(buf[7:11])
	h.offsetLen = binary.LittleEndian.Uint32(buf[11:15])
	h.offsetMain = binary.LittleEndian.Uint32(buf[15:19])
	return h, buf[headerSize:]
}
