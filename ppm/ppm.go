// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package ppm implements the composite order-2/order-1/order-3
// prediction model shared by all three LZ variants' main stream, a
// direct port of cr-ppm.c's encode_byte/decode_byte interplay onto
// the model and rangecoder packages.
package ppm

import (
	"github.com/richox/comprox/model"
	"github.com/richox/comprox/rangecoder"
)

const (
	symHit    = 256
	symEscape = 257

	o3TableSize = (1 << 22) * 3 / 2 // 1.5 * 2^22
	o3CtxMask   = 1<<22 - 1
)

// Model is the PPM composite model: an order-2 table keyed by the last
// two bytes, an order-1 fallback keyed by the last byte, and an
// order-3 single-byte "hit" predictor keyed by a 22-bit hash of the
// running context. Encoder and decoder sides share this same type;
// Encode/Decode are exact mirror images driving a rangecoder.Encoder
// or rangecoder.Decoder respectively.
type Model struct {
	o1      *model.O1Table
	o2      []*model.O2Model // sparse, 65536 entries, lazily populated
	o3      []byte           // packed predicted-byte + counter-nibble records
	context uint32
}

// New returns a freshly reset PPM composite model.
func New() *Model {
	return &Model{
		o1: model.NewO1Table(),
		o2: make([]*model.O2Model, 1<<16),
		o3: make([]byte, o3TableSize),
	}
}

// Reset clears all learned state back to New's initial condition,
// mirroring reset_models (spec section 9: re-architected as an
// explicit per-block constructor rather than the original's file-scope
// atexit-guarded globals).
func (m *Model) Reset() {
	m.o1 = model.NewO1Table()
	for i := range m.o2 {
		m.o2[i] = nil
	}
	for i := range m.o3 {
		m.o3[i] = 0
	}
	m.context = 0
}

func (m *Model) o2At(ctx uint16) *model.O2Model {
	if m.o2[ctx] == nil {
		m.o2[ctx] = model.NewO2Model()
	}
	return m.o2[ctx]
}

// fold22 derives the 22-bit order-3 context hash from the rolling
// context register (spec section 4.3: "ctx3 = (context ^ (context>>2))
// & 0x3fffff").
func fold22(context uint32) uint32 {
	return (context ^ (context >> 2)) & o3CtxMask
}

// o3Record returns the byte offset of ctx3's predicted-byte slot and
// the parity bit selecting one of the two packed 4-bit counters shared
// by ctx3 and its pair partner (ctx3 XOR 1). A pair occupies three
// consecutive bytes: the two partners' predicted bytes at the pair's
// first two bytes (the even partner's base and base+1, the odd partner
// owning base+1), and their shared counter byte at the pair's base+2 — which,
// expressed relative to either partner's own base, is base+2-parity.
// Packing the counter at base+1 instead (as if every context had its
// own dedicated byte) would put the even partner's counter on top of
// the odd partner's predicted byte.
func o3Record(ctx3 uint32) (base uint32, parity uint32) {
	return ctx3 + ctx3/2, ctx3 & 1
}

func (m *Model) o3Predicted(base uint32) byte { return m.o3[base] }

func (m *Model) o3Counter(base, parity uint32) uint8 {
	packed := m.o3[base+2-parity]
	if parity == 0 {
		return packed & 0xf
	}
	return packed >> 4
}

func (m *Model) o3SetCounter(base, parity uint32, v uint8) {
	v &= 0xf
	off := base + 2 - parity
	packed := m.o3[off]
	if parity == 0 {
		m.o3[off] = (packed &^ 0x0f) | v
	} else {
		m.o3[off] = (packed &^ 0xf0) | (v << 4)
	}
}

// o3Hit boosts the counter toward saturation at 15 on a correct
// prediction.
func (m *Model) o3Hit(base, parity uint32) {
	if c := m.o3Counter(base, parity); c < 15 {
		m.o3SetCounter(base, parity, c+1)
	}
}

// o3downgrade implements the stepwise confidence decay described in
// spec section 4.3: "thresholds 1, 2, 4, 8".
func o3downgrade(c uint8) uint8 {
	switch {
	case c > 8:
		return 8
	case c > 4:
		return 4
	case c > 2:
		return 2
	case c > 1:
		return 1
	default:
		return 0
	}
}

// o3Miss downgrades the counter on a mispredicted byte c, replacing the
// predicted byte and reseeding the counter to 1 once it bottoms out.
func (m *Model) o3Miss(base, parity uint32, c byte) {
	cnt := o3downgrade(m.o3Counter(base, parity))
	if cnt == 0 {
		m.o3[base] = c
		cnt = 1
	}
	m.o3SetCounter(base, parity, cnt)
}

// excludeSet builds the order-1 exclusion mask used on the escape path:
// the order-3 prediction p plus every byte with a nonzero order-2
// frequency under o2.
func excludeSet(o2 *model.O2Model, p byte) model.ExcludeSet {
	var excl model.ExcludeSet
	excl[p] = true
	for i := 0; i < 256; i++ {
		if o2.Frq(i) > 0 {
			excl[i] = true
		}
	}
	return excl
}

// Encode range-codes byte c into out, advancing the model state exactly
// as Decode will when fed the same byte back, per spec section 4.3.
func (m *Model) Encode(enc *rangecoder.Encoder, out *[]byte, c byte) {
	ctx2 := uint16(m.context & 0xffff)
	o2 := m.o2At(ctx2)
	ctx3 := fold22(m.context)
	base, parity := o3Record(ctx3)
	p := m.o3Predicted(base)

	switch {
	case c == p:
		cum := o2.CumExcl(symHit, int(p))
		frq := o2.Frq(symHit)
		sum := o2.SumExcl(int(p))
		enc.Encode(cum, frq, sum, out)
		o2.Update(symHit, 1)
		m.o3Hit(base, parity)

	case o2.Frq(int(c)) > 0:
		cum := o2.CumExcl(int(c), int(p))
		frq := o2.Frq(int(c))
		sum := o2.SumExcl(int(p))
		enc.Encode(cum, frq, sum, out)
		rescaled := o2.Update(int(c), 1)
		if !rescaled && o2.Frq(int(c)) == 2 {
			o2.Update(257, -1)
		}
		m.o3Miss(base, parity, c)

	default:
		cum := o2.CumExcl(symEscape, int(p))
		frq := o2.Frq(symEscape)
		sum := o2.SumExcl(int(p))
		enc.Encode(cum, frq, sum, out)
		o2.Update(symEscape, 1)

		priorByte := int(byte(m.context))
		if m.o1.Raw(priorByte, int(c)) > 0 {
			excl := excludeSet(o2, p)
			cum := m.o1.CumExcl(priorByte, int(c), excl)
			frq := m.o1.Frq(priorByte, int(c))
			sum := m.o1.SumExcl(priorByte, excl)
			enc.Encode(cum, frq, sum, out)
		}
		rescaled := m.o1.Update(priorByte, int(c))
		if !rescaled {
			o2.Update(int(c), 1)
		}
		m.o3Miss(base, parity, c)
	}
}

// UpdateContext advances the rolling context register by one byte
// without touching any frequency tables. Callers invoke this once per
// consumed byte, whether that byte was just coded by Encode/Decode or
// copied verbatim out of an LZ match: the register has to track the
// real byte sequence either way, but only actually-coded bytes should
// move the statistics (spec section 3, "context... shifted left one
// byte per update").
func (m *Model) UpdateContext(c byte) {
	m.context = m.context<<8 | uint32(c)
}

// Decode range-decodes and returns the next byte, mirroring Encode
// exactly.
func (m *Model) Decode(dec *rangecoder.Decoder) byte {
	ctx2 := uint16(m.context & 0xffff)
	o2 := m.o2At(ctx2)
	ctx3 := fold22(m.context)
	base, parity := o3Record(ctx3)
	p := m.o3Predicted(base)

	sum := o2.SumExcl(int(p))
	target := dec.DecodeCum(sum)
	sym := o2.DecodeSymbolExcl(target, int(p))

	var c byte
	switch {
	case sym.Sym == symHit:
		dec.Decode(sym.Cum, o2.Frq(symHit), sum)
		c = p
		o2.Update(symHit, 1)
		m.o3Hit(base, parity)

	case sym.Sym == symEscape:
		dec.Decode(sym.Cum, o2.Frq(symEscape), sum)
		o2.Update(symEscape, 1)

		priorByte := int(byte(m.context))
		excl := excludeSet(o2, p)
		sum1 := m.o1.SumExcl(priorByte, excl)
		target1 := dec.DecodeCum(sum1)
		osym := m.o1.DecodeSymbolExcl(priorByte, target1, excl)
		cum1 := m.o1.CumExcl(priorByte, osym, excl)
		frq1 := m.o1.Frq(priorByte, osym)
		dec.Decode(cum1, frq1, sum1)
		c = byte(osym)

		rescaled := m.o1.Update(priorByte, osym)
		if !rescaled {
			o2.Update(osym, 1)
		}
		m.o3Miss(base, parity, c)

	default:
		dec.Decode(sym.Cum, o2.Frq(int(sym.Sym)), sum)
		c = byte(sym.Sym)
		rescaled := o2.Update(int(sym.Sym), 1)
		if !rescaled && o2.Frq(int(sym.Sym)) == 2 {
			o2.Update(257, -1)
		}
		m.o3Miss(base, parity, c)
	}

	return c
}
