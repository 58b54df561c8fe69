// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package rolz implements the reduced-offset LZ match finder and coder
// (spec sections 4.4 and 4.7), a direct port of rolzmain/cr-matcher.c
// and rolzmain/cr-coder.c onto the model, ppm, and rangecoder packages.
package rolz

const (
	ringSize      = 16  // M_rolz_indices: long-table ring depth
	shortRingSize = 4   // M_rolz_indices_short: short-table ring depth
	minLen        = 4   // M_rolz_minlength
	maxLen        = 255 // M_rolz_maxlength

	bucketsSmall = 1 << 17 // 3-byte context hash table size
	bucketsLarge = 1 << 18 // 4-byte context hash table size, for large blocks

	ctx4Threshold = 4 << 20 // blocks at/above 4 MiB hash on 4 bytes of context
)

// match is a single matcher decision: idx in [0, ringSize) selects a
// long-table ring slot, [ringSize, ringSize+shortRingSize) a short-table
// slot, and -1 denotes "no match, emit a literal".
type match struct {
	idx int32
	len int32
}

type longSlot struct {
	head  int
	items [ringSize]int32
	bytes [ringSize]byte
}

// Matcher is the ROLZ match finder: a long-table keyed by a 3- or
// 4-byte context hash and a short-table keyed by the single prior byte
// (spec section 3, "ROLZ context tables").
type Matcher struct {
	table      []longSlot
	short      [256][shortRingSize]int32
	buckets    uint32
	usingCtx4  bool
	ctx       uint32
	shortCtx  byte
	Flexible  bool // enable flexible (look-ahead cost) parsing
}

// NewMatcher returns a Matcher configured for a block of blockSize
// bytes, selecting the 3- vs 4-byte context hash the same way
// matcher_init/using_ctx4 does.
func NewMatcher(blockSize int) *Matcher {
	usingCtx4 := blockSize >= ctx4Threshold
	buckets := uint32(bucketsSmall)
	if usingCtx4 {
		buckets = bucketsLarge
	}
	m := &Matcher{
		table:     make([]longSlot, buckets),
		buckets:   buckets,
		usingCtx4: usingCtx4,
	}
	for i := range m.table {
		for j := range m.table[i].items {
			m.table[i].items[j] = -1
		}
	}
	return m
}

func (m *Matcher) hashCtx(data []byte, pos int) uint32 {
	x0 := uint32(data[pos])
	x1 := uint32(data[pos-1])
	x2 := uint32(data[pos-2])
	if m.usingCtx4 {
		x3 := uint32(data[pos-3])
		return (x0*1313131 + x1*13131 + x2*131 + x3) % m.buckets
	}
	return (x0*1313131 + x1*13131 + x2*131) % m.buckets
}

// tableItem returns the n-th most recent position recorded for a long
// slot, newest-first (n=0 is the most recent), or -1 if the ring hasn't
// filled that far back yet.
func tableItem(slot *longSlot, n int) int32 {
	return slot.items[(slot.head+ringSize-n)%ringSize]
}

func tableHash(slot *longSlot, n int) byte {
	return slot.bytes[(slot.head+ringSize-n)%ringSize]
}

// Update records position pos into the matcher's tables. encode is true
// on the encoder side, where the pre-filter byte is also recorded (the
// decoder reconstructs bytes as it goes, so it writes the ring entry
// without a pre-filter byte to compare against yet).
func (m *Matcher) Update(data []byte, pos int, encode bool) {
	if pos < 16 {
		return
	}
	slot := &m.table[m.ctx]
	slot.head = (slot.head + 1) % ringSize
	slot.items[slot.head] = int32(pos)
	if encode {
		slot.bytes[slot.head] = data[pos]
	}
	m.ctx = m.hashCtx(data, pos)

	copy(m.short[m.shortCtx][1:], m.short[m.shortCtx][:shortRingSize-1])
	m.short[m.shortCtx][0] = int32(pos)
	m.shortCtx = data[pos]
}

// Getpos resolves a decoded idx back into a source position, mirroring
// matcher_getpos: idx < ringSize indexes the long table under the
// matcher's current context, otherwise the short table under the
// current short context.
func (m *Matcher) Getpos(idx int32) int32 {
	if idx < ringSize {
		return tableItem(&m.table[m.ctx], int(idx))
	}
	return m.short[m.shortCtx][idx-ringSize]
}

func findLong(data []byte, pos int, slot *longSlot, minlen int32) match {
	ret := match{idx: -1, len: minlen - 1}
	for i := 0; i < ringSize; i++ {
		offset := tableItem(slot, i)
		if offset == -1 {
			break
		}
		if int(ret.len) >= maxLen {
			break
		}
		if tableHash(slot, i) != data[pos] {
			continue
		}
		j := ret.len
		for int(j) < maxLen && pos+int(j) < len(data) && int(offset)+int(j) < len(data) &&
			data[pos+int(j)] == data[int(offset)+int(j)] {
			j++
		}
		if j > ret.len && bytesEqual(data, pos, int(offset), int(ret.len)) {
			ret.idx = int32(i)
			ret.len = j
			if int(ret.len) == maxLen {
				return ret
			}
		}
	}
	if ret.len < minlen {
		ret.idx = -1
		ret.len = 1
	}
	return ret
}

// bytesEqual reproduces the "memcmp guard" from matcher_lookup's match()
// helper: it reverifies n bytes starting at pos/offset. The C source
// passes ret.m_len -- the *previous* best match's length, not the
// candidate's -- as the compare length (spec section 9 design notes).
// That asymmetry is preserved here rather than "fixed", since the
// specification calls out byte-exact behavioral compatibility with the
// original over the arguably-more-sensible alternative.
func bytesEqual(data []byte, pos, offset, n int) bool {
	if pos+n > len(data) || offset+n > len(data) {
		return false
	}
	for i := 0; i < n; i++ {
		if data[pos+i] != data[offset+i] {
			return false
		}
	}
	return true
}

func priceMatched(l int32) int32 { return l * 3 * ringSize }
func priceUnmatched(l int32) int32 { return l * 9 * ringSize }

func price(idx, l int32) int32 {
	if l >= minLen {
		return priceMatched(l-1) - 3*idx
	}
	return priceUnmatched(1)
}

// Lookup finds the best match at pos, applying flexible or lazy parsing
// per m.Flexible (spec section 4.4).
func (m *Matcher) Lookup(data []byte, pos int) (idx, length int32) {
	if pos < 16 {
		return -1, 1
	}

	ret := findLong(data, pos, &m.table[m.ctx], minLen)
	findShort := ret.len < minLen

	if m.Flexible && !findShort {
		prices := make([]int32, ret.len+1)
		for i := int32(1); i <= ret.len; i++ {
			ctx := m.hashCtx(data, pos+int(i)-1)
			ret2 := findLong(data, pos+int(i), &m.table[ctx], minLen)
			prices[i] = price(ret2.idx, ret2.len)
		}
		maxPrice := price(ret.idx, ret.len) + prices[ret.len]
		for i := ret.len - 1; i >= 1; i-- {
			if price(ret.idx, i)+prices[i] > maxPrice {
				ret.len = i
				maxPrice = price(ret.idx, i) + prices[i]
			}
		}
	}

	if findShort {
		ret.len = minLen - 1
		ret.idx = -1
		for i := 0; i < shortRingSize; i++ {
			offset := m.short[m.shortCtx][i]
			if offset < 0 {
				continue
			}
			j := int32(0)
			for int(j) < maxLen && pos+int(j) < len(data) && int(offset)+int(j) < len(data) &&
				data[pos+int(j)] == data[int(offset)+int(j)] {
				j++
			}
			if j > ret.len {
				ret.idx = int32(ringSize + i)
				ret.len = j
			}
		}
	}
	if ret.len < minLen {
		ret.idx = -1
		ret.len = 1
	}

	if (!m.Flexible || findShort) && ret.len > 1 {
		for i := int32(1); i < minLen; i++ {
			if pos+int(i)-1 < 0 {
				continue
			}
			ctx := m.hashCtx(data, pos+int(i)-1)
			ret2 := findLong(data, pos+int(i), &m.table[ctx], minLen)
			if price(ret2.idx, ret2.len) > price(ret.idx, ret.len)+i*ringSize {
				ret.idx = -1
				ret.len = 1
				break
			}
		}
	}
	return ret.idx, ret.len
}
