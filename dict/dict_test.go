// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package dict

import (
	"bytes"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func testWords() [][]byte {
	words := []string{
		"the ", "quick ", "brown ", "fox ", "jumps ", "over ",
		"lazy ", "dog ", "hello ", "world ", "http://www. ",
	}
	out := make([][]byte, len(words))
	for i, w := range words {
		out[i] = []byte(w)
	}
	return out
}

func roundtrip(t *testing.T, d *Dict, data []byte) {
	t.Helper()
	enc := d.Encode(data)
	got := d.Decode(enc, len(data))
	if diff := cmp.Diff(data, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("roundtrip mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundtripPlainText(t *testing.T) {
	d := New(testWords())
	data := []byte("The quick brown fox jumps over the lazy dog. Hello world.")
	roundtrip(t, d, data)
}

func TestRoundtripEmpty(t *testing.T) {
	d := New(testWords())
	roundtrip(t, d, nil)
}

func TestRoundtripNoMatches(t *testing.T) {
	d := New(testWords())
	roundtrip(t, d, []byte("xyzzy plugh qzjk 12345 !@#$%"))
}

func TestRoundtripEscapeCollision(t *testing.T) {
	// Every byte value occurs equally often, so the escape set (the
	// rarest bytes, ties to the lowest value) is 0x00..0x09, and each of
	// those bytes in the data takes the "literal escape" 2-byte reserved
	// code for a literal byte that collides with esc[].
	d := New(testWords())
	var data []byte
	for i := 0; i < 3; i++ {
		for b := 0; b < 256; b++ {
			data = append(data, byte(b))
		}
	}
	roundtrip(t, d, data)
}

func TestRoundtripMultiChunk(t *testing.T) {
	d := New(testWords())
	sentence := []byte("The quick brown fox jumps over the lazy dog. ")
	data := bytes.Repeat(sentence, 60000) // forces multiple 1 MiB rounds
	roundtrip(t, d, data)
}

func TestRoundtripSentenceCase(t *testing.T) {
	d := New(testWords())
	data := []byte("hello world. The Quick brown Fox. over the lazy dog.")
	roundtrip(t, d, data)
}

func TestLoadAppendsSpaceAfterAlphabeticLine(t *testing.T) {
	d := Load([]byte("the\nquick\nhttp://www.\n"))
	if len(d.words) != 3 {
		t.Fatalf("got %d words, want 3", len(d.words))
	}
	if string(d.words[0]) != "the " {
		t.Fatalf("word 0 = %q, want %q", d.words[0], "the ")
	}
	if string(d.words[2]) != "http://www." {
		t.Fatalf("word 2 = %q, want %q (no trailing space: last byte is not alphabetic)", d.words[2], "http://www.")
	}
}

func TestLCPRoundtrip(t *testing.T) {
	words := [][]byte{
		[]byte("apple"),
		[]byte("application"),
		[]byte("apply"),
		[]byte("banana"),
		[]byte("band"),
	}
	sort.Slice(words, func(i, j int) bool { return bytes.Compare(words[i], words[j]) < 0 })

	enc := EncodeLCP(words)
	got := DecodeLCP(enc)
	if len(got) != len(words) {
		t.Fatalf("got %d words, want %d", len(got), len(words))
	}
	for i := range words {
		if !bytes.Equal(got[i], words[i]) {
			t.Fatalf("word %d: got %q, want %q", i, got[i], words[i])
		}
	}
}

func TestLCPEmptyList(t *testing.T) {
	enc := EncodeLCP(nil)
	got := DecodeLCP(enc)
	if len(got) != 0 {
		t.Fatalf("got %d words, want 0", len(got))
	}
}
