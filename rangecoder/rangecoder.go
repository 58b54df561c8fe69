// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package rangecoder implements the byte-granular, carry-propagating
// binary range coder shared by every LZ variant's entropy back end.
// It is a direct port of cr-rangecoder.c/.h: wrapping unsigned 32-bit
// arithmetic is part of the wire contract, so every operation below
// relies on Go's defined wraparound for unsigned integers rather than
// guarding against it.
package rangecoder

import "github.com/richox/comprox/internal/errors"

const (
	top       = uint32(1) << 24
	threshold = uint32(255) << 24
)

// Encoder is the encoding half of the range coder. Low, Range, Follow,
// Carry, and Cache mirror range_coder_t's fields exactly (spec section
// 3, "Range coder state").
type Encoder struct {
	low    uint32
	rng    uint32
	follow uint32
	carry  uint32
	cache  uint32
}

// NewEncoder returns an Encoder in its initial state (range_encoder_init).
func NewEncoder() *Encoder {
	return &Encoder{rng: ^uint32(0)}
}

// Reset restores e to its initial state for reuse across blocks.
func (e *Encoder) Reset() { *e = Encoder{rng: ^uint32(0)} }

func (e *Encoder) renormalize(out *[]byte) {
	if e.low < threshold || e.carry != 0 {
		*out = append(*out, byte(e.cache+e.carry))
		for ; e.follow > 0; e.follow-- {
			*out = append(*out, byte(e.carry-1))
		}
		e.cache = e.low >> 24
		e.carry = 0
	} else {
		e.follow++
	}
	e.low *= 256
}

// Encode encodes a symbol occupying [cum, cum+frq) out of sum, appending
// any emitted bytes to out. sum must be <= 1<<16 and cum+frq <= sum,
// per the range coder law in the specification's testable properties.
func (e *Encoder) Encode(cum, frq, sum uint32, out *[]byte) {
	e.rng /= sum
	delta := cum * e.rng
	if e.low+delta < e.low {
		e.carry++
	}
	e.low += delta
	e.rng *= frq
	for e.rng < top {
		e.rng *= 256
		e.renormalize(out)
	}
}

// Flush drains the five deferred renormalization steps needed to emit
// the coder's final state, mirroring range_encoder_flush.
func (e *Encoder) Flush(out *[]byte) {
	for i := 0; i < 5; i++ {
		e.renormalize(out)
	}
}

// Decoder is the decoding half of the range coder, reading bytes from
// an in-memory input slice it advances as it consumes them.
type Decoder struct {
	rng    uint32
	cache  uint32
	input  []byte
	offset int
}

// NewDecoder creates a Decoder over input, performing the five-byte
// init shift of range_decoder_init.
func NewDecoder(input []byte) *Decoder {
	d := &Decoder{rng: ^uint32(0), input: input}
	for i := 0; i < 5; i++ {
		d.cache = d.cache*256 + uint32(d.nextByte())
	}
	return d
}

func (d *Decoder) nextByte() byte {
	if d.offset >= len(d.input) {
		errors.Panic(errors.Fmt(errors.Corrupted, "range decoder: insufficient input"))
	}
	b := d.input[d.offset]
	d.offset++
	return b
}

// Offset reports how many bytes of the input slice have been consumed.
func (d *Decoder) Offset() int { return d.offset }

// DecodeCum returns a cumulative frequency in [0, sum) identifying
// which symbol interval the current coder state falls into. The caller
// looks this up in its model to find the symbol, then calls Decode
// with that symbol's (cum, frq, sum).
func (d *Decoder) DecodeCum(sum uint32) uint32 {
	d.rng /= sum
	return d.cache / d.rng
}

// Decode consumes the symbol identified by a prior DecodeCum call.
func (d *Decoder) Decode(cum, frq, sum uint32) {
	d.cache -= cum * d.rng
	d.rng *= frq
	for d.rng < top {
		d.cache = d.cache*256 + uint32(d.nextByte())
		d.rng *= 256
	}
}
