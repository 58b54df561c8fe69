// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package model

import "testing"

func TestO2ModelExclusionInvariants(t *testing.T) {
	m := NewO2Model()
	m.Update(5, 50)
	m.Update(256, 10)

	excl := 5
	sumExcl := m.SumExcl(excl)
	if want := m.SumExcl(excludeNone) - m.Frq(excl); sumExcl != want {
		t.Fatalf("SumExcl(%d) = %d, want %d", excl, sumExcl, want)
	}

	for sym := 0; sym < 258; sym++ {
		if sym == excl {
			continue
		}
		cum := m.CumExcl(sym, excl)
		got := m.DecodeSymbolExcl(cum, excl)
		if got.Sym != uint32(sym) {
			t.Fatalf("DecodeSymbolExcl(%d, excl=%d) = %d, want %d", cum, excl, got.Sym, sym)
		}
	}
}

func TestO2ModelRescaleKeepsNonzero(t *testing.T) {
	m := NewO2Model()
	for i := 0; i < 2000; i++ {
		sym := i % 258
		if m.Update(sym, 40) {
			for s := 0; s < 258; s++ {
				if m.Frq(s) == 0 {
					t.Fatalf("symbol %d has zero frequency after rescale", s)
				}
			}
		}
	}
}
