// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lz77

// MatchMinFor picks the minimum match length for a block of the given
// size, stored into the block header so the decoder agrees (spec
// section 4.5: "10 or 11 depending on block size >= 16 MiB").
func MatchMinFor(blockSize int) int {
	if blockSize >= 16<<20 {
		return 11
	}
	return 10
}

// Match is a single matcher decision: pos is a source byte offset and
// -1 denotes "no match, emit a literal".
type Match struct {
	Pos int32
	Len int32
}

// Matcher is the LZ77 match finder: a hash-chain index built once over
// the whole block, a one-slot repeat-offset cache, and a short-match
// cache for near matches below matchMin (spec section 4.5).
type Matcher struct {
	data     []byte
	idx      *index
	matchMin int

	lastMatchDist int32
	shortCache    []int32 // keyed by an matchMinNear-byte hash

	Flexible bool
}

// NewMatcher builds a Matcher over data, selecting matchMin per
// MatchMinFor.
func NewMatcher(data []byte) *Matcher {
	matchMin := MatchMinFor(len(data))
	shortCache := make([]int32, 1<<16)
	for i := range shortCache {
		shortCache[i] = -1
	}
	return &Matcher{
		data:       data,
		idx:        buildIndex(data, matchMin),
		matchMin:   matchMin,
		shortCache: shortCache,
	}
}

// MatchMin reports the minimum length this matcher's long-range chain
// walk will accept.
func (m *Matcher) MatchMin() int { return m.matchMin }

func extendLen(data []byte, a, b int) int32 {
	n := 0
	for a+n < len(data) && data[a+n] == data[b+n] && n < 255 {
		n++
	}
	return int32(n)
}

// distancePrice penalizes candidates at a much larger distance than the
// current best, so the matcher prefers a slightly shorter but much
// closer match (spec section 4.5, "distance-price penalty").
func distancePrice(pos, cand, best int32) int32 {
	var price int32
	d := pos - cand
	bd := pos - best
	if bd <= 0 {
		bd = 1
	}
	if d/1048576 > bd {
		price++
	}
	if d/4096 > bd {
		price++
	}
	if d/64 > bd {
		price++
	}
	return price
}

// findLong walks the hash-chain at pos up to matchLimit entries,
// returning the best (pos, len) found, or Len 0 if nothing reached
// matchMin.
func (m *Matcher) findLong(pos int) Match {
	best := Match{Pos: -1, Len: 0}
	c := m.idx.chainHead(m.data, pos)
	for n := 0; n < matchLimit && c != -1; n, c = n+1, m.idx.chainPrev(c, pos) {
		l := extendLen(m.data, pos, int(c))
		if l < int32(m.matchMin) {
			continue
		}
		if l-distancePrice(int32(pos), c, best.Pos) > best.Len {
			if bytesEqualUpTo(m.data, pos, int(c), int(best.Len)) {
				best = Match{Pos: c, Len: l}
			}
		}
	}
	return best
}

func bytesEqualUpTo(data []byte, a, b, n int) bool {
	if a+n > len(data) || b+n > len(data) {
		return false
	}
	for i := 0; i < n; i++ {
		if data[a+i] != data[b+i] {
			return false
		}
	}
	return true
}

func near6(data []byte, pos int) uint32 {
	var h uint32
	end := pos + matchMinNear
	if end > len(data) {
		end = len(data)
	}
	for _, c := range data[pos:end] {
		h = h*131 + uint32(c)
	}
	return h & 0xffff
}

// price estimates the coded cost of a literal or match in fractional
// bits, used to compare candidate parses (spec section 4.5).
func price(length, dist int32) int32 {
	if dist < 0 {
		return 9 * length
	}
	return 3*(length-1) - fastLog2(dist)*4/5
}

func fastLog2(v int32) int32 {
	var n int32
	for v > 1 {
		v >>= 1
		n++
	}
	return n
}

// Lookup finds the best match at pos (spec section 4.5): a repeat-offset
// probe, a hash-chain walk, flexible or lazy parsing, then a short-cache
// fallback if nothing reached matchMin.
func (m *Matcher) Lookup(pos int) Match {
	if pos+int(matchMinNear) >= len(m.data) {
		return Match{Pos: -1, Len: 1}
	}

	var repeat Match
	if m.lastMatchDist > 0 && int(m.lastMatchDist) <= pos {
		cand := int32(pos) - m.lastMatchDist
		l := extendLen(m.data, pos, int(cand))
		repeat = Match{Pos: cand, Len: l}
	}

	best := m.findLong(pos)
	if repeat.Len > 0 && repeat.Len+2 >= best.Len {
		best = repeat
	}

	if best.Len >= int32(m.matchMin) {
		if m.Flexible {
			best = m.flexibleSplit(pos, best)
		} else if m.lazyRejects(pos, best) {
			best = Match{Pos: -1, Len: 1}
		}
	}

	if best.Len < int32(m.matchMin) {
		if sc := m.shortCacheLookup(pos); sc.Len >= matchMinNear {
			best = sc
		}
	}

	if best.Len < int32(m.matchMin) && (best.Len < matchMinNear || int32(pos)-best.Pos > shortCacheRecency) {
		best = Match{Pos: -1, Len: 1}
	}
	return best
}

func (m *Matcher) flexibleSplit(pos int, best Match) Match {
	bestDist := int32(pos) - best.Pos
	bestPrice := price(best.Len, bestDist)
	for l := best.Len - 1; l >= int32(m.matchMin); l-- {
		next := m.findLong(pos + int(l))
		var np int32
		if next.Len >= int32(m.matchMin) {
			np = price(next.Len, int32(pos+int(l))-next.Pos)
		} else {
			np = price(1, -1)
		}
		if p := price(l, bestDist) + np; p > bestPrice {
			bestPrice = p
			best.Len = l
		}
	}
	return best
}

func (m *Matcher) lazyRejects(pos int, best Match) bool {
	bestDist := int32(pos) - best.Pos
	bestPrice := price(best.Len, bestDist)
	limit := 6
	for i := 1; i <= limit && pos+i < len(m.data); i++ {
		next := m.findLong(pos + i)
		if next.Len < int32(m.matchMin) {
			continue
		}
		threshold := best.Len + int32(i)
		if next.Len > threshold && price(next.Len, int32(pos+i)-next.Pos) > bestPrice {
			return true
		}
	}
	return false
}

func (m *Matcher) shortCacheLookup(pos int) Match {
	h := near6(m.data, pos)
	cand := m.shortCache[h]
	if cand < 0 || int(cand) >= pos || pos-int(cand) > shortCacheRecency {
		return Match{Pos: -1, Len: 0}
	}
	l := extendLen(m.data, pos, int(cand))
	return Match{Pos: cand, Len: l}
}

// Update records every position from pos through pos+length-1 into the
// matcher's short-match cache, and a match's distance into its
// repeat-offset state.
func (m *Matcher) Update(pos int, matchPos int32, length int32) {
	if matchPos != -1 {
		m.lastMatchDist = int32(pos) - matchPos
	}
	for i := 0; i < int(length); i++ {
		p := pos + i
		if p+matchMinNear > len(m.data) {
			continue
		}
		m.shortCache[near6(m.data, p)] = int32(p)
	}
}
