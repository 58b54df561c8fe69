// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package ppm

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/richox/comprox/internal/testutil"
	"github.com/richox/comprox/rangecoder"
)

func compress(data []byte) []byte {
	m := New()
	enc := rangecoder.NewEncoder()
	var out []byte
	for _, c := range data {
		m.Encode(enc, &out, c)
		m.UpdateContext(c)
	}
	enc.Flush(&out)
	return out
}

func decompress(compressed []byte, n int) []byte {
	m := New()
	dec := rangecoder.NewDecoder(compressed)
	out := make([]byte, n)
	for i := range out {
		out[i] = m.Decode(dec)
		m.UpdateContext(out[i])
	}
	return out
}

func TestRoundtripEmpty(t *testing.T) {
	got := decompress(compress(nil), 0)
	if len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}

func TestRoundtripRepetitive(t *testing.T) {
	data := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 500)
	got := decompress(compress(data), len(data))
	if diff := cmp.Diff(data, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("roundtrip mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundtripRandom(t *testing.T) {
	data := testutil.NewRand(42).Bytes(20000)
	got := decompress(compress(data), len(data))
	if diff := cmp.Diff(data, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("roundtrip mismatch on random data (-want +got):\n%s", diff)
	}
}

func TestCompressesRepetitiveDataSmaller(t *testing.T) {
	data := bytes.Repeat([]byte{0x00}, 1<<16)
	out := compress(data)
	if len(out) >= len(data) {
		t.Fatalf("compressed size %d not smaller than input %d", len(out), len(data))
	}
}
