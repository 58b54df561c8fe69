// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lz77

import (
	"hash/crc32"

	"github.com/richox/comprox/internal/cpufeature"
)

// castagnoliTable drives the Go runtime's own SSE4.2-accelerated CRC32
// path on amd64 (hash/crc32 special-cases the Castagnoli polynomial);
// cpufeature.HasSSE42 decides whether it's worth reaching for over the
// portable multiply-mix fallback below.
var castagnoliTable = crc32.MakeTable(crc32.Castagnoli)

func crcHash(b []byte) uint32 {
	return crc32.Checksum(b, castagnoliTable)
}

// matchLimit bounds how many chain entries Lookup walks before settling
// (spec section 4.5, "default 40").
const matchLimit = 40

// matchMinNear is the short-match fallback's minimum length and the
// width of its hash key (spec section 4.5).
const matchMinNear = 6

// shortCacheRecency bounds how far back a short-cache hit may point and
// still be trusted (spec section 4.5: "within the last 256 bytes").
const shortCacheRecency = 256

func hash4(data []byte, pos int) uint32 {
	if pos+4 > len(data) {
		var buf [4]byte
		copy(buf[:], data[pos:])
		return hashBytes(buf[:])
	}
	return hashBytes(data[pos : pos+4])
}

// hashBytes folds up to 4 bytes into a bucket index. When the CPU
// supports the SSE4.2 CRC32 instruction the Go runtime's hash/crc32
// package already dispatches to it internally, so using crc32.Checksum
// here gets the hardware path for free; the multiply-mix fallback below
// is used on CPUs without it, mirroring the dispatch shape of
// production LZ codecs like zstd/lz4 (spec section 4.5, "two-pass
// bucket sort").
var useHardwareCRC = cpufeature.HasSSE42()

func hashBytes(b []byte) uint32 {
	if useHardwareCRC {
		return crcHash(b)
	}
	var h uint32
	for _, c := range b {
		h = h*2654435761 + uint32(c)
	}
	return h
}

// index is the hash-chain structure the matcher walks: head[] gives the
// most recent position hashing to a bucket, and next[] threads older
// positions behind it, strictly in decreasing position order. It is
// built once, up front, over the entire block — the encoder already
// holds the whole block in memory, so there's no reason to discover
// chains incrementally (spec section 4.5, "building this index is the
// dominant memory and time cost before any bytes are emitted"). This
// collapses the specification's two-pass, parity-split-thread build
// into one single-threaded forward pass producing the same final
// chains; see the package doc comment for why.
//
// Because the whole block is indexed before any matching starts, a
// bucket's chain can contain positions at or after the position
// currently being matched. Lookup skips over those — matches may only
// ever point backward — before it starts the normal walk.
type index struct {
	head []int32 // bucket -> most recent position, -1 if empty
	next []int32 // position -> previous position with the same bucket, -1 if none
}

func buildIndex(data []byte, matchMin int) *index {
	buckets := len(data)/25 + 1024
	idx := &index{
		head: make([]int32, buckets),
		next: make([]int32, len(data)),
	}
	for i := range idx.head {
		idx.head[i] = -1
	}
	for pos := 0; pos+matchMin <= len(data); pos++ {
		b := idx.bucket(data, pos)
		idx.next[pos] = idx.head[b]
		idx.head[b] = int32(pos)
	}
	return idx
}

func (x *index) bucket(data []byte, pos int) uint32 {
	return hash4(data, pos) % uint32(len(x.head))
}

// chainHead returns the first entry of bucket's chain that is strictly
// before pos, or -1 if none exists.
func (x *index) chainHead(data []byte, pos int) int32 {
	b := x.bucket(data, pos)
	c := x.head[b]
	for c >= int32(pos) {
		c = x.next[c]
	}
	return c
}

// chainPrev returns the next entry behind c in its chain, skipping any
// that are still not strictly before pos.
func (x *index) chainPrev(c int32, pos int) int32 {
	c = x.next[c]
	for c >= int32(pos) {
		c = x.next[c]
	}
	return c
}
