// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lzpari

const (
	minLen = 4
	maxLen = 255
)

// These size each hash table; 2-byte context is small enough to
// index directly and exactly (no collisions possible), 4- and 8-byte
// contexts are folded down with an FNV-style hash and must be verified
// against the actual preceding bytes before being trusted.
const (
	bits2 = 16
	bits4 = 20
	bits8 = 20
)

// Matcher is the LZP-ARI match finder (spec section 4.6): three
// single-slot side tables record the most recent position following
// each 2-, 4-, and 8-byte context. Lookup tries the longest context
// first; Update always refreshes all three.
type Matcher struct {
	t2 []int32
	t4 []int32
	t8 []int32

	// lastMatch records the most recently updated position.
	// Nothing downstream reads it; it exists because the original
	// implementation writes an equivalent field that is never
	// distinguishably consumed on decode, and the specification
	// explicitly says not to guess at a meaning for it (spec section
	// 9). It is kept only as a faithful side effect.
	lastMatch int32
}

func NewMatcher() *Matcher {
	m := &Matcher{
		t2:        make([]int32, 1<<bits2),
		t4:        make([]int32, 1<<bits4),
		t8:        make([]int32, 1<<bits8),
		lastMatch: -1,
	}
	for i := range m.t2 {
		m.t2[i] = -1
	}
	for i := range m.t4 {
		m.t4[i] = -1
	}
	for i := range m.t8 {
		m.t8[i] = -1
	}
	return m
}

func hashFold(data []byte, pos, n int, bits uint) uint32 {
	h := uint32(2166136261)
	for i := pos - n; i < pos; i++ {
		h = (h ^ uint32(data[i])) * 16777619
	}
	return h & (1<<bits - 1)
}

func index2(data []byte, pos int) uint32 {
	return uint32(data[pos-2])<<8 | uint32(data[pos-1])
}

func contextEqual(data []byte, a, b, n int) bool {
	if a < n || b < n {
		return false
	}
	for i := 1; i <= n; i++ {
		if data[a-i] != data[b-i] {
			return false
		}
	}
	return true
}

func extendLen(data []byte, a, b int) int32 {
	n := 0
	for a+n < len(data) && data[a+n] == data[b+n] && n < maxLen {
		n++
	}
	return int32(n)
}

// predict checks the 8-, 4-, then 2-byte context tables in order and
// returns the first stored position whose context reproduces the
// corresponding suffix of data[:pos] exactly (spec section 4.6), or -1
// if none of the three tables has a usable entry. It never looks past
// pos, so it is safe to call with data truncated exactly at pos — the
// shape the decoder is in while still reconstructing the block.
func (m *Matcher) predict(data []byte, pos int) int32 {
	if pos >= 8 {
		if c := m.t8[hashFold(data, pos, 8, bits8)]; c >= 0 && contextEqual(data, pos, int(c), 8) {
			return c
		}
	}
	if pos >= 4 {
		if c := m.t4[hashFold(data, pos, 4, bits4)]; c >= 0 && contextEqual(data, pos, int(c), 4) {
			return c
		}
	}
	if pos >= 2 {
		if c := m.t2[index2(data, pos)]; c >= 0 && contextEqual(data, pos, int(c), 2) {
			return c
		}
	}
	return -1
}

// Lookup is predict plus the minLen gate the encoder applies before
// committing to a match: it needs data beyond pos to measure the
// match, so unlike predict it is only ever called on the encoder's
// full buffer, never on the decoder's in-progress output.
func (m *Matcher) Lookup(data []byte, pos int) (cand int32, length int32) {
	c := m.predict(data, pos)
	if c < 0 {
		return -1, 0
	}
	l := extendLen(data, pos, int(c))
	if l < minLen {
		return -1, 0
	}
	return c, l
}

// Predict exposes predict for the decoder, which already knows (from
// the transmitted length) that the encoder found an actionable match
// and only needs to recover where it pointed.
func (m *Matcher) Predict(data []byte, pos int) int32 {
	return m.predict(data, pos)
}

// Update records pos as the latest position following its own 2-, 4-,
// and 8-byte preceding context, for future Lookup calls to find.
func (m *Matcher) Update(data []byte, pos int) {
	if pos >= 2 {
		m.t2[index2(data, pos)] = int32(pos)
	}
	if pos >= 4 {
		m.t4[hashFold(data, pos, 4, bits4)] = int32(pos)
	}
	if pos >= 8 {
		m.t8[hashFold(data, pos, 8, bits8)] = int32(pos)
	}
	m.lastMatch = int32(pos)
}
