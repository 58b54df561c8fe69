// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lzpari

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

func TestTiny(t *testing.T) {
	for n := 1; n <= firstBytesLen+2; n++ {
		roundtrip(t, bytes.Repeat([]byte{0x7a}, n))
	}
}

func TestRepetitive(t *testing.T) {
	roundtrip(t, bytes.Repeat([]byte{0x00}, 1<<18))
}

func TestText(t *testing.T) {
	data := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 2000)
	roundtrip(t, data)
}

func TestRandom(t *testing.T) {
	data := testutil.NewRand(3).Bytes(40000)
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

func TestPeriodicContext(t *testing.T) {
	// An 8-byte-periodic source exercises the long-context table
	// specifically, since every position's preceding 8 bytes recur.
	motif := []byte("abcdefgh")
	data := bytes.Repeat(motif, 10000)
	roundtrip(t, data)
}

func TestMatcherRejectsShortPredictions(t *testing.T) {
	// "ab" recurs every 4 bytes but the two bytes after each
	// recurrence differ, so the predicted match never reaches minLen
	// and Lookup must report no match.
	data := []byte("ab01ab23ab45ab67ab89ab")
	m := NewMatcher()
	for i := range data {
		if cand, length := m.Lookup(data, i); cand != -1 {
			t.Fatalf("pos %d: got unexpected match cand=%d length=%d", i, cand, length)
		}
		m.Update(data, i)
	}
}
