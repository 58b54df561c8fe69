// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package rolz

import (
	"github.com/richox/comprox/model"
	"github.com/richox/comprox/ppm"
	"github.com/richox/comprox/rangecoder"
)

// matchPoolDepth bounds how far the background matcher goroutine is
// allowed to run ahead of the coder loop. The original C encoder
// ping-pongs between two 32000-entry arrays so the matcher thread and
// the coder thread overlap; a buffered channel of the same depth gives
// an equivalent pipeline without hand-rolled double buffering (spec
// section 9, "replace raw thread-pair patterns with a small primitive").
const matchPoolDepth = 32000

func encInc4(enc *rangecoder.Encoder, out *[]byte, m *model.Model, sym int) {
	cum := m.Cum(sym)
	frq := m.Frq(sym)
	sum := m.Sum()
	enc.Encode(cum, frq, sum, out)
	m.Update(sym, 4)
}

func decInc4(dec *rangecoder.Decoder, m *model.Model) int {
	sum := m.Sum()
	target := dec.DecodeCum(sum)
	s := m.GetDecodeSymbol(target)
	dec.Decode(s.Cum, m.Frq(int(s.Sym)), sum)
	m.Update(int(s.Sym), 4)
	return int(s.Sym)
}

// chooseEscape reproduces the original escape-byte search exactly: esc
// starts at 0 and is only overwritten when the incumbent is strictly
// rarer-than-wrong, i.e. strictly more frequent than the candidate
// (spec section 4.7, "ties broken by lowest value").
func chooseEscape(counts [256]int) byte {
	esc := 0
	for i := 1; i < 256; i++ {
		if counts[esc] > counts[i] {
			esc = i
		}
	}
	return byte(esc)
}

func newIdxModel() *model.Model {
	var m model.Model
	m.InitSubset(func(s int) bool { return s < ringSize+shortRingSize })
	return &m
}

func newLenModel() *model.Model {
	var m model.Model
	m.InitSubset(func(s int) bool { return s == 0 || (s >= minLen && s <= maxLen) })
	return &m
}

// matchTuple is one (idx, len) decision from the background matcher.
type matchTuple struct {
	idx int32
	len int32
}

// runMatcher drives the matcher over data starting at pos 1 (the first
// byte is always emitted as a literal header field, never matched
// against), sending tuples to out until the block is exhausted or stop
// is closed by a coder loop that bailed out early (e.g. the
// incompressible-block fallback).
func runMatcher(matcher *Matcher, data []byte, out chan<- matchTuple, stop <-chan struct{}) {
	defer close(out)
	pos := 1
	for pos < len(data) {
		idx, length := int32(-1), int32(1)
		if pos+1024 < len(data) {
			idx, length = matcher.Lookup(data, pos)
		}
		for i := int32(0); i < length; i++ {
			matcher.Update(data, pos+int(i), true)
		}
		select {
		case out <- matchTuple{idx: idx, len: length}:
		case <-stop:
			return
		}
		pos += int(length)
	}
}

// Encode compresses data into the ROLZ wire format (spec section 4.7).
// It returns the header-prefixed block, falling back to an
// incompressible-block encoding (compressed=0, raw bytes) if the
// compressed form would not be smaller.
func Encode(data []byte) []byte {
	if len(data) == 0 {
		h := header{compressed: 1, originalSize: 0}
		return h.marshal(nil)
	}

	var counts [256]int
	for _, b := range data {
		counts[b]++
	}
	esc := chooseEscape(counts)

	matcher := NewMatcher(len(data))
	tuples := make(chan matchTuple, matchPoolDepth)
	stop := make(chan struct{})
	defer close(stop)
	go runMatcher(matcher, data, tuples, stop)

	ppmModel := ppm.New()
	idxModel := newIdxModel()
	lenModel := newLenModel()

	mainEnc := rangecoder.NewEncoder()
	idxEnc := rangecoder.NewEncoder()
	var main, idxStream []byte
	numIdx := uint32(0)

	pos := 1
	for pos < len(data) {
		t, ok := <-tuples
		if !ok {
			break
		}
		if t.idx != -1 {
			ppmModel.Encode(mainEnc, &main, esc)
			encInc4(idxEnc, &idxStream, lenModel, int(t.len))
			encInc4(idxEnc, &idxStream, idxModel, int(t.idx))
			numIdx++
		} else {
			ppmModel.Encode(mainEnc, &main, data[pos])
			if data[pos] == esc {
				encInc4(idxEnc, &idxStream, lenModel, 0)
				numIdx++
			}
		}
		for i := int32(0); i < t.len; i++ {
			ppmModel.UpdateContext(data[pos+int(i)])
		}
		pos += int(t.len)
		if len(main) >= len(data) {
			return incompressible(data)
		}
	}
	mainEnc.Flush(&main)
	idxEnc.Flush(&idxStream)

	h := header{
		firstByte:    data[0],
		compressed:   1,
		esc:          esc,
		originalSize: uint32(len(data)),
		numIdx:       numIdx,
		offsetIdx:    uint32(headerSize + len(main)),
	}
	out := h.marshal(nil)
	out = append(out, main...)
	out = append(out, idxStream...)
	if len(out) >= len(data)+headerSize {
		return incompressible(data)
	}
	return out
}

func incompressible(data []byte) []byte {
	h := header{compressed: 0}
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

	main := rest[:h.offsetIdx-headerSize]
	idxStream := rest[h.offsetIdx-headerSize:]

	matcher := NewMatcher(int(h.originalSize))
	ppmModel := ppm.New()
	idxModel := newIdxModel()
	lenModel := newLenModel()

	mainDec := rangecoder.NewDecoder(main)
	idxDec := rangecoder.NewDecoder(idxStream)

	out := make([]byte, 1, h.originalSize)
	out[0] = h.firstByte

	for uint32(len(out)) < h.originalSize {
		sym := ppmModel.Decode(mainDec)
		var length int
		if sym == h.esc {
			l := decInc4(idxDec, lenModel)
			if l == 0 {
				out = append(out, h.esc)
				length = 1
			} else {
				idx := decInc4(idxDec, idxModel)
				srcPos := matcher.Getpos(int32(idx))
				for i := 0; i < l; i++ {
					out = append(out, out[int(srcPos)+i])
				}
				length = l
			}
		} else {
			out = append(out, sym)
			length = 1
		}
		for i := 0; i < length; i++ {
			ppmModel.UpdateContext(out[len(out)-length+i])
			matcher.Update(out, len(out)-length+i, false)
		}
	}
	return out
}
