// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package filter

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/richox/comprox/internal/testutil"
)

func TestTransformX86Roundtrip(t *testing.T) {
	rng := testutil.NewRand(1)
	data := rng.Bytes(4096)
	// Sprinkle in some E8/E9 opcodes with plausible operands.
	for i := 0; i+5 < len(data); i += 37 {
		data[i] = 0xE8
		binary.LittleEndian.PutUint32(data[i+1:i+5], uint32(rng.Int()))
	}

	orig := append([]byte(nil), data...)
	TransformX86(data, true)
	TransformX86(data, false)
	if !bytes.Equal(data, orig) {
		t.Fatalf("x86 filter did not round-trip")
	}
}

func TestTransformX86NoOpcodes(t *testing.T) {
	data := bytes.Repeat([]byte{0x90}, 256)
	orig := append([]byte(nil), data...)
	TransformX86(data, true)
	if !bytes.Equal(data, orig) {
		t.Fatalf("filter touched a buffer with no E8/E9 bytes")
	}
}

func makeBMP(width, height int, bpp uint16) []byte {
	rowSize := (int(bpp)*width + 31) / 32 * 4
	pixels := rowSize * height
	buf := make([]byte, bmpHeaderSize+pixels)
	binary.LittleEndian.PutUint16(buf[0:2], bmpMagic)
	binary.LittleEndian.PutUint32(buf[2:6], uint32(len(buf)))
	binary.LittleEndian.PutUint32(buf[10:14], bmpHeaderSize)
	binary.LittleEndian.PutUint32(buf[14:18], 40)
	binary.LittleEndian.PutUint32(buf[18:22], uint32(width))
	binary.LittleEndian.PutUint32(buf[22:26], uint32(height))
	binary.LittleEndian.PutUint16(buf[26:28], 1)
	binary.LittleEndian.PutUint16(buf[28:30], bpp)
	copy(buf[bmpHeaderSize:], testutil.NewRand(7).Bytes(len(buf)-bmpHeaderSize))
	return buf
}

func TestTransformBMPRoundtrip24(t *testing.T) {
	data := makeBMP(16, 10, 24)
	orig := append([]byte(nil), data...)
	if !TransformBMP(data, true) {
		t.Fatalf("TransformBMP rejected a well-formed 24bpp BMP")
	}
	if bytes.Equal(data[bmpHeaderSize:], orig[bmpHeaderSize:]) {
		t.Fatalf("encode did not change pixel data")
	}
	if !TransformBMP(data, false) {
		t.Fatalf("TransformBMP rejected its own encoded output")
	}
	if !bytes.Equal(data, orig) {
		t.Fatalf("BMP filter did not round-trip")
	}
}

func TestTransformBMPRoundtrip32(t *testing.T) {
	data := makeBMP(20, 8, 32)
	orig := append([]byte(nil), data...)
	TransformBMP(data, true)
	TransformBMP(data, false)
	if !bytes.Equal(data, orig) {
		t.Fatalf("BMP filter did not round-trip at 32bpp")
	}
}

func TestTransformBMPRejectsNonBMP(t *testing.T) {
	data := []byte("not a bitmap file at all, just some bytes")
	if TransformBMP(data, true) {
		t.Fatalf("TransformBMP accepted non-BMP data")
	}
}
