// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package model

// O1Table is the order-1 fallback model: one 256-entry byte-wide
// frequency row per 1-byte context (spec section 3, "o1_models[256][256]").
// Rows start uniform at 1 and saturate by halving in place as soon as
// an increment brings any entry to 255, rather than by a summed-total
// threshold like Model and O2Model use.
type O1Table struct {
	rows [256][256]uint8
}

// NewO1Table returns an O1Table with every row initialized to the
// uniform distribution.
func NewO1Table() *O1Table {
	var t O1Table
	for c := range t.rows {
		for i := range t.rows[c] {
			t.rows[c][i] = 1
		}
	}
	return &t
}

// Raw returns the raw byte-wide counter for symbol sym under context
// ctx.
func (t *O1Table) Raw(ctx, sym int) uint8 { return t.rows[ctx][sym] }

// Frq returns the order-1 coding frequency for symbol sym under
// context ctx, per the freq_o1(i) = o1[i]*8 - 7 transform (spec
// section 4.3) that spreads the byte-wide counter into PPM's wider
// frequency space while keeping a floor of 1.
func (t *O1Table) Frq(ctx, sym int) uint32 {
	return uint32(t.rows[ctx][sym])*8 - 7
}

// Update increments symbol sym's counter under context ctx, halving the
// entire row (rounding up so no entry reaches zero) if the increment
// brings the counter to 255. Reports whether the row was rescaled.
func (t *O1Table) Update(ctx, sym int) (rescaled bool) {
	row := &t.rows[ctx]
	row[sym]++
	if row[sym] >= 255 {
		for i := range row {
			row[i] = uint8((uint16(row[i]) + 1) / 2)
		}
		rescaled = true
	}
	return rescaled
}

// ExcludeSet is a 256-entry membership mask used by the SumExcl/CumExcl/
// DecodeSymbolExcl family below to skip an arbitrary subset of symbols
// (the PPM composite model excludes the order-3 prediction plus every
// byte with a nonzero order-2 frequency when it falls back to order-1).
type ExcludeSet [256]bool

// SumExcl returns the context row's total coding frequency, skipping
// every symbol marked in excl.
func (t *O1Table) SumExcl(ctx int, excl ExcludeSet) uint32 {
	var sum uint32
	for i := 0; i < 256; i++ {
		if excl[i] {
			continue
		}
		sum += t.Frq(ctx, i)
	}
	return sum
}

// CumExcl returns the cumulative coding frequency of symbols strictly
// below sym in context ctx, skipping every symbol marked in excl.
func (t *O1Table) CumExcl(ctx, sym int, excl ExcludeSet) uint32 {
	var cum uint32
	for i := 0; i < sym; i++ {
		if excl[i] {
			continue
		}
		cum += t.Frq(ctx, i)
	}
	return cum
}

// DecodeSymbolExcl finds the symbol whose excl-adjusted interval
// contains cum in context ctx.
func (t *O1Table) DecodeSymbolExcl(ctx int, cum uint32, excl ExcludeSet) int {
	var run uint32
	for i := 0; i < 256; i++ {
		if excl[i] {
			continue
		}
		f := t.Frq(ctx, i)
		if run+f > cum {
			return i
		}
		run += f
	}
	panic("model: DecodeSymbolExcl: cum out of range")
}
