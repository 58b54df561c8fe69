// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package rolz

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
	data := testutil.NewRand(7).Bytes(50000)
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

func TestFlexibleParsingMatcherRuns(t *testing.T) {
	// Encode always runs with lazy parsing; this exercises the
	// flexible-parsing branch directly through the matcher so it is
	// covered even though no coder currently opts into it.
	data := bytes.Repeat([]byte("abcdefghij"), 5000)
	m := NewMatcher(len(data))
	m.Flexible = true
	for pos := 1; pos < len(data)-300; pos++ {
		idx, length := m.Lookup(data, pos)
		if length < 1 {
			t.Fatalf("Lookup returned length %d at pos %d", length, pos)
		}
		for i := int32(0); i < length; i++ {
			m.Update(data, pos+int(i), true)
		}
		pos += int(length) - 1
		_ = idx
	}
}
