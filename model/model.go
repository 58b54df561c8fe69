// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package model implements the cumulative-frequency tables that back
// every symbol the range coder encodes: a 256-symbol order-0 byte
// model (Model) and a 258-symbol order-2 model with two virtual escape
// slots (O2Model, in o2model.go). Both are direct ports of cr-model.c
// and cr-o2model.h.
package model

// Symbol is the result of a decode lookup: which symbol was found and
// the cumulative frequency at which it starts.
type Symbol struct {
	Sym uint32
	Cum uint32
}

// Model is the order-0, 256-symbol cumulative frequency table (spec
// section 3, "Order-0 byte model"). cum[i] holds the cumulative sum of
// frq[0:32*i]; cum[8] always equals the grand total.
type Model struct {
	frq [256]uint16
	cum [9]uint16
}

// Init resets m to a uniform distribution (all frequencies 1).
func (m *Model) Init() {
	for i := range m.frq {
		m.frq[i] = 1
	}
	m.recalcCum()
}

// InitSubset resets m so that only symbols for which allowed returns true
// are codeable (frequency 1), with every other symbol fixed at frequency
// 0. The ROLZ coder uses this to build its idx/len models and the LZ77
// coder its len and repeat-flag models, which only ever carry a
// handful of valid symbol values.
func (m *Model) InitSubset(allowed func(sym int) bool) {
	for i := range m.frq {
		if allowed(i) {
			m.frq[i] = 1
		} else {
			m.frq[i] = 0
		}
	}
	m.recalcCum()
}

func (m *Model) recalcCum() {
	var cum uint16
	for i := 0; i < 256; i++ {
		if i%32 == 0 {
			m.cum[i/32] = cum
		}
		cum += m.frq[i]
	}
	m.cum[8] = cum
}

// Sum returns the total of all 256 frequencies.
func (m *Model) Sum() uint32 { return uint32(m.cum[8]) }

// Frq returns the frequency of symbol.
func (m *Model) Frq(symbol int) uint32 { return uint32(m.frq[symbol]) }

// Cum returns the cumulative frequency of all symbols strictly below
// symbol.
func (m *Model) Cum(symbol int) uint32 {
	base := symbol / 32
	cum := uint32(m.cum[base])
	for i := base * 32; i < symbol; i++ {
		cum += uint32(m.frq[i])
	}
	return cum
}

// Update increments symbol's frequency by inc and reports whether doing
// so triggered a rescale (the total exceeded 32000, halving every
// frequency with a +1 guard so no nonzero frequency reaches zero).
func (m *Model) Update(symbol int, inc int32) (rescaled bool) {
	base := symbol / 32
	m.frq[symbol] = uint16(int32(m.frq[symbol]) + inc)
	for i := base + 1; i <= 8; i++ {
		m.cum[i] = uint16(int32(m.cum[i]) + inc)
	}
	if m.Sum() > 32000 {
		var cum uint16
		for i := 0; i < 256; i++ {
			m.frq[i] = (m.frq[i] + 1) / 2
			if i%32 == 0 {
				m.cum[i/32] = cum
			}
			cum += m.frq[i]
		}
		m.cum[8] = cum
		return true
	}
	return false
}

// GetDecodeSymbol finds the symbol whose interval contains cum,
// equivalent to model_get_decode_symbol: a binary search of the
// 8-entry summary table followed by a linear scan of the matching
// 32-symbol stride.
func (m *Model) GetDecodeSymbol(cum uint32) Symbol {
	sym := 0
	// Binary search over the 8 strides, same shape as the C M() macro
	// tree (biased toward the middle of [0,8)).
	lo, hi := 0, 8
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if uint32(m.cum[mid]) <= cum {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	sym = lo * 32
	run := uint32(m.cum[lo])
	for run+uint32(m.frq[sym]) <= cum {
		run += uint32(m.frq[sym])
		sym++
	}
	return Symbol{Sym: uint32(sym), Cum: run}
}
