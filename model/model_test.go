// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package model

import (
	"math/rand"
	"testing"
)

func checkInvariants(t *testing.T, m *Model) {
	t.Helper()
	var total uint32
	for i := 0; i < 256; i++ {
		if i%32 == 0 {
			var sum uint32
			for j := 0; j < i; j++ {
				sum += m.Frq(j)
			}
			if got := uint32(m.cum[i/32]); got != sum {
				t.Fatalf("cum[%d] = %d, want %d", i/32, got, sum)
			}
		}
		total += m.Frq(i)
	}
	if m.Sum() != total {
		t.Fatalf("Sum() = %d, want %d", m.Sum(), total)
	}
}

func TestModelInitUniform(t *testing.T) {
	var m Model
	m.Init()
	checkInvariants(t, &m)
	if m.Sum() != 256 {
		t.Fatalf("Sum() = %d, want 256", m.Sum())
	}
}

func TestModelUpdateAndRescale(t *testing.T) {
	var m Model
	m.Init()
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20000; i++ {
		sym := rng.Intn(256)
		rescaled := m.Update(sym, 32)
		checkInvariants(t, &m)
		if rescaled {
			for s := 0; s < 256; s++ {
				if before := m.Frq(s); before == 0 {
					t.Fatalf("symbol %d has zero frequency after rescale", s)
				}
			}
		}
	}
}

func TestModelGetDecodeSymbol(t *testing.T) {
	var m Model
	m.Init()
	m.Update(200, 500)
	checkInvariants(t, &m)
	for sym := 0; sym < 256; sym++ {
		cum := m.Cum(sym)
		got := m.GetDecodeSymbol(cum)
		if got.Sym != uint32(sym) {
			t.Fatalf("GetDecodeSymbol(%d) = %d, want %d", cum, got.Sym, sym)
		}
		if got.Cum != cum {
			t.Fatalf("GetDecodeSymbol(%d).Cum = %d, want %d", cum, got.Cum, cum)
		}
	}
}
