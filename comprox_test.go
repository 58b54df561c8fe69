// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package comprox

import (
	"bytes"
	"io"
	"io/ioutil"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/richox/comprox/dict"
	"github.com/richox/comprox/dictpick"
)

var variants = []Variant{ROLZ, LZ77, LZPARI}

func roundtrip(t *testing.T, variant Variant, config *Config, data []byte) {
	t.Helper()

	var compressed bytes.Buffer
	zw := NewWriter(&compressed, variant, config)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	zr, err := NewReader(&compressed, nil)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	got, err := ioutil.ReadAll(zr)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if diff := cmp.Diff(data, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("roundtrip mismatch for %v (-want +got):\n%s", variant, diff)
	}
	if zr.Variant() != variant {
		t.Fatalf("Reader.Variant() = %v, want %v", zr.Variant(), variant)
	}
}

func TestRoundtripEmpty(t *testing.T) {
	for _, v := range variants {
		roundtrip(t, v, nil, nil)
	}
}

func TestRoundtripAcrossVariantsFilterPrecompressBlockSize(t *testing.T) {
	corpus := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 4000)
	blob := dictpick.Pick(strings.NewReader(corpus))

	data := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog, and the cat sat. ", 3000))

	for _, v := range variants {
		for _, filter := range []bool{false, true} {
			for _, precompress := range []bool{false, true} {
				for _, blockSize := range []int{1 << 10, 1 << 16, 1 << 20} {
					cfg := &Config{
						BlockSize:   blockSize,
						Filter:      filter,
						Precompress: precompress,
						Dict:        dict.Load(blob),
					}
					roundtrip(t, v, cfg, data)
				}
			}
		}
	}
}

func TestRoundtripSingleByte(t *testing.T) {
	for _, v := range variants {
		roundtrip(t, v, nil, []byte{0x41})
	}
}

func TestRoundtripMultipleBlocks(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789"), 1<<16)
	cfg := &Config{BlockSize: 4096}
	for _, v := range variants {
		roundtrip(t, v, cfg, data)
	}
}

func TestInvalidMagicRejected(t *testing.T) {
	zr, err := NewReader(strings.NewReader("XXXX\x00\x00\x00\x00"), nil)
	if err != nil {
		// NewReader itself never fails; the error surfaces on first Read.
		t.Fatalf("NewReader returned an unexpected error: %v", err)
	}
	if _, err := zr.Read(make([]byte, 1)); err == nil {
		t.Fatalf("Read did not reject an invalid magic header")
	}
}

func TestWriterSum32MatchesReaderSum32(t *testing.T) {
	data := []byte(strings.Repeat("payload ", 5000))
	var compressed bytes.Buffer
	zw := NewWriter(&compressed, LZ77, nil)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	zr, _ := NewReader(&compressed, nil)
	if _, err := io.Copy(ioutil.Discard, zr); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if zw.Sum32() != zr.Sum32() {
		t.Fatalf("Sum32 mismatch: writer=%#x reader=%#x", zw.Sum32(), zr.Sum32())
	}
}
