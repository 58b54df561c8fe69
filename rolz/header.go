// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package rolz

import (
	"encoding/binary"

	"github.com/richox/comprox/internal/errors"
)

// headerSize is the packed size of header on the wire (spec section 6,
// "ROLZ inner block"): first_byte, compressed, esc as u8, then three
// u32 fields.
const headerSize = 1 + 1 + 1 + 4 + 4 + 4

type header struct {
	firstByte    uint8
	compressed   uint8
	esc          uint8
	originalSize uint32
	numIdx       uint32
	offsetIdx    uint32
}

func (h header) marshal(buf []byte) []byte {
	var tmp [headerSize]byte
	tmp[0] = h.firstByte
	tmp[1] = h.compressed
	tmp[2] = h.esc
	binary.LittleEndian.PutUint32(tmp[3:7], h.originalSize)
	binary.LittleEndian.PutUint32(tmp[7:11], h.numIdx)
	binary.LittleEndian.PutUint32(tmp[11:15], h.offsetIdx)
	return append(buf, tmp[:]...)
}

func unmarshalHeader(buf []byte) (h header, rest []byte) {
	if len(buf) < headerSize {
		errors.Panic(errors.Fmt(errors.Corrupted, "rolz: truncated block header"))
	}
	h.firstByte = buf[0]
	h.compressed = buf[1]
	h.esc = buf[2]
	h.originalSize = binary.LittleEndian.Uint32(buf[3:7])
	h.numIdx = binary.LittleEndian.Uint32(buf[7:11])
	h.offsetIdx = binary.LittleEndian.Uint32(buf[11:15])
	return h, buf[headerSize:]
}
