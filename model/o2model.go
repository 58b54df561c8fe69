// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package model

// o2RescaleThreshold bounds the order-2 model's total frequency. The
// specification (section 4.2) leaves the exact value unspecified beyond
// "some threshold around 16k-32k depending on variant"; cr-o2model.c was
// not present in the retrieval pack to pin the constant down, so this
// picks the midpoint of that range, matching the order-0 model's own
// 32000 ceiling closely enough that both models rescale at a similar
// cadence.
const o2RescaleThreshold = 24000

// excludeNone marks "no excluded symbol" for the CumExcl/SumExcl/
// DecodeSymbolExcl family below.
const excludeNone = -1

// O2Model is the 258-symbol order-2 model (spec section 3, "Order-2
// model"): slots 0..255 are literal bytes, 256 is the "o3 predictor
// matched" virtual symbol, and 257 is the "o2 escape" virtual symbol.
//
// Every encode/decode call in the PPM composite model excludes the
// current order-3 prediction from O2Model's alphabet (the predicted
// byte is never itself a valid thing to encode here — either it was the
// literal, coded as the 256 hit marker, or it wasn't, and is excluded so
// its probability mass doesn't double-count). Exclusion is modeled
// explicitly as a parameter rather than as a mutable "excluded set" on
// the model, so the model itself stays a pure frequency table.
type O2Model struct {
	frq [258]uint16
}

// NewO2Model returns an O2Model with the uniform initial distribution
// used for every lazily allocated order-2 context.
func NewO2Model() *O2Model {
	m := &O2Model{}
	for i := range m.frq {
		m.frq[i] = 1
	}
	return m
}

// Frq returns the raw frequency of sym (0..257).
func (m *O2Model) Frq(sym int) uint32 { return uint32(m.frq[sym]) }

// SumExcl returns the model's total frequency, minus the frequency of
// excl (pass excludeNone for no exclusion).
func (m *O2Model) SumExcl(excl int) uint32 {
	var sum uint32
	for i, f := range m.frq {
		if i == excl {
			continue
		}
		sum += uint32(f)
	}
	return sum
}

// CumExcl returns the cumulative frequency of all symbols strictly below
// sym, with excl's frequency removed from the running total (pass
// excludeNone for no exclusion).
func (m *O2Model) CumExcl(sym, excl int) uint32 {
	var cum uint32
	for i := 0; i < sym; i++ {
		if i == excl {
			continue
		}
		cum += uint32(m.frq[i])
	}
	return cum
}

// Update increments sym's frequency by inc, rescaling (halving every
// frequency, +1 guard against zeroing) if the total exceeds
// o2RescaleThreshold. Reports whether a rescale occurred.
func (m *O2Model) Update(sym int, inc int32) (rescaled bool) {
	m.frq[sym] = uint16(int32(m.frq[sym]) + inc)
	if m.SumExcl(excludeNone) > o2RescaleThreshold {
		for i := range m.frq {
			m.frq[i] = (m.frq[i] + 1) / 2
		}
		return true
	}
	return false
}

// DecodeSymbolExcl finds the symbol whose excl-adjusted interval
// contains cum, linearly scanning the 258-entry table while skipping
// excl. The table is small enough that a summary-table binary search,
// which would also need excl-aware bookkeeping, buys little.
func (m *O2Model) DecodeSymbolExcl(cum uint32, excl int) Symbol {
	var run uint32
	for sym, f := range m.frq {
		if sym == excl {
			continue
		}
		if run+uint32(f) > cum {
			return Symbol{Sym: uint32(sym), Cum: run}
		}
		run += uint32(f)
	}
	panic("model: DecodeSymbolExcl: cum out of range")
}
