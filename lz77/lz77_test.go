// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lz77

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/richox/comprox/internal/testutil"
)

func roundtrip(t *testing.T, data []byte) {
	t.Helper()
	compressed := Encode(data)
	got := Decode(compressed)
	if diff := cmp.Diff(data, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("roundtrip mismatch (-want +got):\n%s", diff)
	}
}

func TestEmpty(t *testing.T) {
	roundtrip(t, nil)
}

func TestSingleByte(t *testing.T) {
	roundtrip(t, []byte{0x41})
}

func TestRepetitive(t *testing.T) {
	roundtrip(t, bytes.Repeat([]byte{0x00}, 1<<20))
}

func TestText(t *testing.T) {
	data := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 2000)
	roundtrip(t, data)
}

func TestRandom(t *testing.T) {
	data := testutil.NewRand(11).Bytes(80000)
	roundtrip(t, data)
}

func TestEscapeByteRepeated(t *testing.T) {
	// Every byte value occurs 41 times except 0x05, which occurs 40
	// times, so 0x05 is the rarest byte and is chosen as the escape
	// symbol; its literal occurrences take the literal-escape path.
	var data []byte
	for v := 0; v < 256; v++ {
		n := 41
		if v == 0x05 {
			n = 40
		}
		data = append(data, bytes.Repeat([]byte{byte(v)}, n)...)
	}
	roundtrip(t, data)
}

func TestShortMatchesOnly(t *testing.T) {
	// Each 7-byte motif is followed by a two-byte counter that never
	// recurs, so no repeat reaches matchMin: the longest is 8 bytes (the
	// counter's high byte plus the motif) at a distance of 9. Every match
	// is below matchMin but at or above matchMinNear, exercising the
	// short-cache fallback and the spos stream exclusively.
	motif := []byte("abcdefg")
	var data []byte
	for i := 0; i < 4000; i++ {
		data = append(data, motif...)
		data = append(data, byte(i), byte(i>>8))
	}
	roundtrip(t, data)
}

func TestRepeatOffset(t *testing.T) {
	// Two interleaved sources at a fixed stride exercise the
	// repeat-offset flag in the long position coder.
	var data []byte
	a := bytes.Repeat([]byte("0123456789ABCDEF"), 40)
	b := bytes.Repeat([]byte("zyxwvutsrqponmlk"), 40)
	for i := 0; i < 50; i++ {
		data = append(data, a...)
		data = append(data, b...)
	}
	roundtrip(t, data)
}

func TestLargeBlockMatchMin(t *testing.T) {
	if MatchMinFor(16 << 20) != 11 {
		t.Fatalf("MatchMinFor(16MiB) = %d, want 11", MatchMinFor(16<<20))
	}
	if MatchMinFor((16<<20)-1) != 10 {
		t.Fatalf("MatchMinFor(16MiB-1) = %d, want 10", MatchMinFor((16<<20)-1))
	}
}

func TestFlexibleParsingMatcherRuns(t *testing.T) {
	data := bytes.Repeat([]byte("abcdefghij"), 5000)
	m := NewMatcher(data)
	m.Flexible = true
	for pos := 0; pos < len(data)-300; {
		mt := m.Lookup(pos)
		if mt.Len < 1 {
			t.Fatalf("Lookup returned length %d at pos %d", mt.Len, pos)
		}
		m.Update(pos, mt.Pos, mt.Len)
		pos += int(mt.Len)
	}
}
