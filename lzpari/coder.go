// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lzpari

import (
	"github.com/richox/comprox/ppm"
	"github.com/richox/comprox/rangecoder"
)

func chooseEscape(counts [256]int) byte {
	esc := 0
	for i := 1; i < 256; i++ {
		if counts[esc] > counts[i] {
			esc = i
		}
	}
	return byte(esc)
}

func firstN(n, limit int) int {
	if n > limit {
		return limit
	}
	return n
}

// Encode compresses data into the LZP-ARI wire format (spec section
// 4.9). Unlike ROLZ and LZ77, there is exactly one stream: the matcher
// never proposes a distance, only a length, so the escape byte and the
// length both ride the same PPM-coded main stream.
func Encode(data []byte) []byte {
	if len(data) == 0 {
		h := header{compressed: 1}
		return h.marshal(nil)
	}

	var counts [256]int
	for _, b := range data {
		counts[b]++
	}
	esc := chooseEscape(counts)

	n := firstN(len(data), firstBytesLen)
	var h header
	copy(h.firstBytes[:], data[:n])

	matcher := NewMatcher()
	ppmModel := ppm.New()
	for i := 0; i < n; i++ {
		ppmModel.UpdateContext(data[i])
		matcher.Update(data, i)
	}

	mainEnc := rangecoder.NewEncoder()
	var main []byte

	pos := n
	for pos < len(data) {
		cand, length := matcher.Lookup(data, pos)
		if cand != -1 && length > 1 {
			ppmModel.Encode(mainEnc, &main, esc)
			ppmModel.UpdateContext(esc)
			ppmModel.Encode(mainEnc, &main, byte(length))
			ppmModel.UpdateContext(byte(length))
			for i := 0; i < int(length); i++ {
				matcher.Update(data, pos+i)
			}
			for i := 0; i < int(length); i++ {
				ppmModel.UpdateContext(data[pos+i])
			}
			pos += int(length)
		} else {
			ppmModel.Encode(mainEnc, &main, data[pos])
			ppmModel.UpdateContext(data[pos])
			if data[pos] == esc {
				ppmModel.Encode(mainEnc, &main, 0)
				ppmModel.UpdateContext(0)
			}
			matcher.Update(data, pos)
			pos++
		}
		if len(main) >= len(data) {
			return incompressible(data)
		}
	}
	mainEnc.Flush(&main)

	h.compressed = 1
	h.esc = esc
	h.originalSize = uint32(len(data))
	out := h.marshal(nil)
	out = append(out, main...)
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

	matcher := NewMatcher()
	ppmModel := ppm.New()

	out := make([]byte, 0, h.originalSize)
	n := firstN(int(h.originalSize), firstBytesLen)
	for i := 0; i < n; i++ {
		out = append(out, h.firstBytes[i])
		ppmModel.UpdateContext(h.firstBytes[i])
		matcher.Update(out, i)
	}

	mainDec := rangecoder.NewDecoder(rest)
	for uint32(len(out)) < h.originalSize {
		sym := ppmModel.Decode(mainDec)
		ppmModel.UpdateContext(sym)
		if sym == h.esc {
			lSym := ppmModel.Decode(mainDec)
			ppmModel.UpdateContext(lSym)
			if lSym == 0 {
				out = append(out, h.esc)
				matcher.Update(out, len(out)-1)
			} else {
				length := int(lSym)
				cand := matcher.Predict(out, len(out))
				srcPos := int(cand)
				for i := 0; i < length; i++ {
					out = append(out, out[srcPos+i])
				}
				for i := 0; i < length; i++ {
					matcher.Update(out, len(out)-length+i)
				}
				for i := 0; i < length; i++ {
					ppmModel.UpdateContext(out[len(out)-length+i])
				}
			}
		} else {
			out = append(out, sym)
			matcher.Update(out, len(out)-1)
		}
	}
	return out
}
