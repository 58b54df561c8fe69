// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package block implements the growable byte buffer that every stage of
// the comprox pipeline reads from and appends to, plus the container and
// block-header framing described in the format specification.
package block

// Block is a growable, reusable byte buffer. Unlike the original C
// data_block_t, it does not track capacity separately from Go's slice
// header; append already gives amortized growth and reference-swap
// semantics, so a hand-rolled realloc would only duplicate what the
// runtime does for free.
type Block struct {
	Data []byte
}

// Reset truncates the block to zero length while keeping its backing
// array, mirroring data_block_resize(block, 0).
func (b *Block) Reset() { b.Data = b.Data[:0] }

// Reserve ensures the block's backing array can hold at least n bytes
// without reallocating, without changing its length.
func (b *Block) Reserve(n int) {
	if cap(b.Data) < n {
		buf := make([]byte, len(b.Data), n)
		copy(buf, b.Data)
		b.Data = buf
	}
}

// Resize grows or shrinks the block to exactly n bytes, zero-filling any
// newly exposed region, mirroring data_block_resize.
func (b *Block) Resize(n int) {
	if n <= len(b.Data) {
		b.Data = b.Data[:n]
		return
	}
	b.Reserve(n)
	old := len(b.Data)
	b.Data = b.Data[:n]
	for i := old; i < n; i++ {
		b.Data[i] = 0
	}
}

// Add appends a single byte, mirroring data_block_add.
func (b *Block) Add(v byte) { b.Data = append(b.Data, v) }

// Swap exchanges the contents of two blocks by reference, matching the
// pipeline's "swap buffers between stages, never copy" ownership rule
// from the data model section of the specification.
func Swap(a, b *Block) { a.Data, b.Data = b.Data, a.Data }
