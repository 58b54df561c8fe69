// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lz77

import (
	"github.com/richox/comprox/model"
	"github.com/richox/comprox/ppm"
	"github.com/richox/comprox/rangecoder"
)

// posIncFactor mirrors M_inc_factor(i) = (1<<i)<<i from spec section
// 4.8: each distance-byte tier learns at a rate proportional to its
// significance.
func posIncFactor(tier int) int32 { return int32(1<<tier) << tier }

const numPosTiers = 4

func encInc(enc *rangecoder.Encoder, out *[]byte, m *model.Model, sym int, inc int32) {
	cum := m.Cum(sym)
	frq := m.Frq(sym)
	sum := m.Sum()
	enc.Encode(cum, frq, sum, out)
	m.Update(sym, inc)
}

func decInc(dec *rangecoder.Decoder, m *model.Model, inc int32) int {
	sum := m.Sum()
	target := dec.DecodeCum(sum)
	s := m.GetDecodeSymbol(target)
	dec.Decode(s.Cum, m.Frq(int(s.Sym)), sum)
	m.Update(int(s.Sym), inc)
	return int(s.Sym)
}

func chooseEscape(counts [256]int) byte {
	esc := 0
	for i := 1; i < 256; i++ {
		if counts[esc] > counts[i] {
			esc = i
		}
	}
	return byte(esc)
}

// newLenModel's allowed set starts at matchMinNear, not matchMin: the
// short-match cache fallback (see Matcher.Lookup) can emit lengths as
// low as matchMinNear even though the chain-walk matcher never returns
// anything below matchMin.
func newLenModel() *model.Model {
	var m model.Model
	m.InitSubset(func(s int) bool { return s == 0 || (s >= matchMinNear && s <= 255) })
	return &m
}

func newRepeatFlagModel() *model.Model {
	var m model.Model
	m.InitSubset(func(s int) bool { return s == 0 || s == 1 })
	return &m
}

// posCoder codes a long match's distance as four big-endian bytes of
// dist-1, one per tier model, with a leading repeat-offset flag that
// lets the coder substitute the matcher's last distance for free when
// it's unchanged (spec section 4.8, "repeat-offset optimisation").
type posCoder struct {
	repeat *model.Model
	tiers  [numPosTiers]*model.Model
}

func newPosCoder() *posCoder {
	c := &posCoder{repeat: newRepeatFlagModel()}
	for i := range c.tiers {
		var m model.Model
		m.Init()
		c.tiers[i] = &m
	}
	return c
}

func (c *posCoder) encode(enc *rangecoder.Encoder, out *[]byte, dist, lastDist int32) {
	if dist == lastDist {
		encInc(enc, out, c.repeat, 1, 1)
		return
	}
	encInc(enc, out, c.repeat, 0, 1)
	v := uint32(dist - 1)
	for i := 0; i < numPosTiers; i++ {
		shift := uint(8 * (numPosTiers - 1 - i))
		encInc(enc, out, c.tiers[i], int(byte(v>>shift)), posIncFactor(i))
	}
}

func (c *posCoder) decode(dec *rangecoder.Decoder, lastDist int32) int32 {
	if decInc(dec, c.repeat, 1) == 1 {
		return lastDist
	}
	var v uint32
	for i := 0; i < numPosTiers; i++ {
		b := decInc(dec, c.tiers[i], posIncFactor(i))
		v = v<<8 | uint32(b)
	}
	return int32(v) + 1
}

// sposCoder codes a short match's distance directly as a single byte,
// valid because Matcher.Lookup only returns a match shorter than
// matchMin when its candidate lies within shortCacheRecency (<=256)
// bytes back (spec section 4.5/4.8).
type sposCoder struct {
	m *model.Model
}

func newSposCoder() *sposCoder {
	var m model.Model
	m.Init()
	return &sposCoder{m: &m}
}

func (c *sposCoder) encode(enc *rangecoder.Encoder, out *[]byte, dist int32) {
	encInc(enc, out, c.m, int(byte(dist-1)), 32)
}

func (c *sposCoder) decode(dec *rangecoder.Decoder) int32 {
	return int32(decInc(dec, c.m, 32)) + 1
}

// matchPoolDepth bounds how far the background matcher goroutine is
// allowed to run ahead of the coder loop, mirroring rolz's pipeline of
// the same name (spec section 5, "match finder (threaded,
// double-buffered)").
const matchPoolDepth = 32000

// runMatcher drives the matcher over data, sending decisions to out
// until the block is exhausted or stop is closed by a coder loop that
// bailed out early.
func runMatcher(matcher *Matcher, data []byte, out chan<- Match, stop <-chan struct{}) {
	defer close(out)
	pos := 0
	for pos < len(data) {
		mt := matcher.Lookup(pos)
		matcher.Update(pos, mt.Pos, mt.Len)
		select {
		case out <- mt:
		case <-stop:
			return
		}
		pos += int(mt.Len)
	}
}

// Encode compresses data into the LZ77 wire format (spec section 4.8).
func Encode(data []byte) []byte {
	matchMin := MatchMinFor(len(data))
	if len(data) == 0 {
		h := header{compressed: 1, matchMin: uint8(matchMin)}
		return h.marshal(nil)
	}

	var counts [256]int
	for _, b := range data {
		counts[b]++
	}
	esc := chooseEscape(counts)

	matcher := NewMatcher(data)
	matches := make(chan Match, matchPoolDepth)
	stop := make(chan struct{})
	defer close(stop)
	go runMatcher(matcher, data, matches, stop)

	ppmModel := ppm.New()
	lenModel := newLenModel()
	pos := newPosCoder()
	spos := newSposCoder()

	mainEnc := rangecoder.NewEncoder()
	lenEnc := rangecoder.NewEncoder()
	posEnc := rangecoder.NewEncoder()
	sposEnc := rangecoder.NewEncoder()
	var mainStream, lenStream, posStream, sposStream []byte

	var lastDist int32
	p := 0
	for p < len(data) {
		mt, ok := <-matches
		if !ok {
			break
		}
		if mt.Pos != -1 && mt.Len > 1 {
			ppmModel.Encode(mainEnc, &mainStream, esc)
			encInc(lenEnc, &lenStream, lenModel, int(mt.Len), 4)
			dist := int32(p) - mt.Pos
			if mt.Len < int32(matchMin) {
				spos.encode(sposEnc, &sposStream, dist)
			} else {
				pos.encode(posEnc, &posStream, dist, lastDist)
				lastDist = dist
			}
		} else {
			ppmModel.Encode(mainEnc, &mainStream, data[p])
			if data[p] == esc {
				encInc(lenEnc, &lenStream, lenModel, 0, 4)
			}
			mt.Len = 1
			mt.Pos = -1
		}
		for i := int32(0); i < mt.Len; i++ {
			ppmModel.UpdateContext(data[p+int(i)])
		}
		p += int(mt.Len)
		if len(mainStream) >= len(data) {
			return incompressible(data, matchMin)
		}
	}
	mainEnc.Flush(&mainStream)
	lenEnc.Flush(&lenStream)
	posEnc.Flush(&posStream)
	sposEnc.Flush(&sposStream)

	h := header{
		compressed:   1,
		matchMin:     uint8(matchMin),
		esc:          esc,
		originalSize: uint32(len(data)),
	}
	h.offsetPos = uint32(headerSize + len(sposStream))
	h.offsetLen = h.offsetPos + uint32(len(posStream))
	h.offsetMain = h.offsetLen + uint32(len(lenStream))

	final := h.marshal(nil)
	final = append(final, sposStream...)
	final = append(final, posStream...)
	final = append(final, lenStream...)
	final = append(final, mainStream...)
	if len(final) >= len(data)+headerSize {
		return incompressible(data, matchMin)
	}
	return final
}

func incompressible(data []byte, matchMin int) []byte {
	h := header{compressed: 0, matchMin: uint8(matchMin)}
	out := h.marshal(nil)
	return append(out, data...)
}

// Decode reverses Encode.
func Decode(payload []byte) []byte {
	h, rest := unmarshalHeader(payload)
	if h.compressed == 0 {
		out := make([]byte, len(rest))
		copy(out, rest)
		return out
	}
	if h.originalSize == 0 {
		return nil
	}

	// Offsets recorded in the header are absolute from the start of the
	// whole payload; rest begins right after the header, so each stream
	// boundary relative to rest is the header offset minus headerSize.
	sposBytes := rest[:h.offsetPos-headerSize]
	posBytes := rest[h.offsetPos-headerSize : h.offsetLen-headerSize]
	lenBytes := rest[h.offsetLen-headerSize : h.offsetMain-headerSize]
	mainBytes := rest[h.offsetMain-headerSize:]

	ppmModel := ppm.New()
	lenModel := newLenModel()
	pos := newPosCoder()
	spos := newSposCoder()

	mainDec := rangecoder.NewDecoder(mainBytes)
	lenDec := rangecoder.NewDecoder(lenBytes)
	posDec := rangecoder.NewDecoder(posBytes)
	sposDec := rangecoder.NewDecoder(sposBytes)

	out := make([]byte, 0, h.originalSize)

	var lastDist int32
	for uint32(len(out)) < h.originalSize {
		sym := ppmModel.Decode(mainDec)
		var length int32
		if sym == h.esc {
			l := decInc(lenDec, lenModel, 4)
			if l == 0 {
				out = append(out, h.esc)
				length = 1
			} else {
				length = int32(l)
				var dist int32
				if length < int32(h.matchMin) {
					dist = spos.decode(sposDec)
				} else {
					dist = pos.decode(posDec, lastDist)
					lastDist = dist
				}
				srcPos := int32(len(out)) - dist
				for i := int32(0); i < length; i++ {
					out = append(out, out[srcPos+i])
				}
			}
		} else {
			out = append(out, sym)
			length = 1
		}
		for i := int32(0); i < length; i++ {
			ppmModel.UpdateContext(out[len(out)-int(length)+int(i)])
		}
	}
	return out
}
