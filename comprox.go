// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package comprox implements a lossless byte-stream compressor: a
// shared range coder and PPM statistical model fed by one of three
// interchangeable LZ front ends (ROLZ, LZ77, LZP-ARI), preceded by an
// optional static-dictionary word substitution stage and a pair of
// bytewise content filters. Writer and Reader buffer and frame whole
// blocks the way bzip2.Writer and bzip2.Reader buffer one BWT block
// each; the three front ends live in the rolz, lz77, and lzpari
// packages and are selected by Variant.
package comprox

import (
	"github.com/richox/comprox/dict"
	"github.com/richox/comprox/filter"
	"github.com/richox/comprox/internal/errors"
	"github.com/richox/comprox/lz77"
	"github.com/richox/comprox/lzpari"
	"github.com/richox/comprox/rolz"
)

// Variant selects which LZ front end backs a Writer or Reader. Each
// carries its own 4-byte ASCII magic, written once at the start of the
// container so a Reader can recognize and reject a foreign stream
// before ever touching a block.
type Variant uint8

const (
	ROLZ Variant = iota
	LZ77
	LZPARI
)

func (v Variant) String() string {
	switch v {
	case ROLZ:
		return "rolz"
	case LZ77:
		return "lz77"
	case LZPARI:
		return "lzpari"
	default:
		return "invalid"
	}
}

var magics = map[Variant]string{
	ROLZ:   "CRZ1",
	LZ77:   "CRZ2",
	LZPARI: "CRZ3",
}

func (v Variant) magic() string {
	m, ok := magics[v]
	if !ok {
		errors.Panic(errors.Fmt(errors.Internal, "unknown variant: %d", v))
	}
	return m
}

func variantFromMagic(m string) (Variant, bool) {
	for v, mm := range magics {
		if mm == m {
			return v, true
		}
	}
	return 0, false
}

func (v Variant) encode(data []byte) []byte {
	switch v {
	case ROLZ:
		return rolz.Encode(data)
	case LZ77:
		return lz77.Encode(data)
	case LZPARI:
		return lzpari.Encode(data)
	default:
		errors.Panic(errors.Fmt(errors.Internal, "unknown variant: %d", v))
		panic("unreachable")
	}
}

func (v Variant) decode(payload []byte) []byte {
	switch v {
	case ROLZ:
		return rolz.Decode(payload)
	case LZ77:
		return lz77.Decode(payload)
	case LZPARI:
		return lzpari.Decode(payload)
	default:
		errors.Panic(errors.Fmt(errors.Internal, "unknown variant: %d", v))
		panic("unreachable")
	}
}

// defaultBlockSize matches spec section 6's CLI default: -b16, 16 MiB.
const defaultBlockSize = 16 << 20

// applyFilter runs whichever content filter, if any, recognizes buf:
// the BMP per-scanline delta if buf looks like an uncompressed BMP,
// else the x86 call/jmp address filter unconditionally (it is a no-op
// on data with no E8/E9 bytes, and harmlessly reversible either way).
// It reports nothing back to the caller, since "no recognizable
// structure" is itself a valid, still-reversible outcome of the x86
// filter.
func applyFilter(buf []byte, encode bool) {
	if filter.TransformBMP(buf, encode) {
		return
	}
	filter.TransformX86(buf, encode)
}

// dictOrEmpty returns d, or a Dict with no trained words if d is nil.
// An empty Dict still round-trips correctly; every byte simply takes
// the literal path (spec section 4.10's word-code scheme degenerates
// cleanly when the trie has no terminals).
func dictOrEmpty(d *dict.Dict) *dict.Dict {
	if d == nil {
		return dict.New(nil)
	}
	return d
}
