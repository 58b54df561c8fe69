// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package dict

// wordMaxLen bounds a single dictionary entry (cr-diccode.h's
// WORD_MAXLEN). LCP counts never reach 255 because no shared prefix can
// be longer than this, which is what makes 255 safe to reserve as the
// encoded list's terminator.
const wordMaxLen = 20

// lcpEnd marks the end of the whole list, not of each word: words are
// themselves '\n'-terminated (dic_lcp_encode/dic_lcp_decode), and LCP
// counts never reach 255 because WORD_MAXLEN=20, which is what makes
// 255 safe to reserve as the one-shot list terminator.
const lcpEnd = 255

// EncodeLCP compresses a lexically-sorted word list by replacing each
// word's shared prefix with its predecessor by a 1-byte count, followed
// by the remainder and a '\n' (spec section 4.10, "LCP pre-compression").
// words must already be sorted; EncodeLCP does not sort them.
func EncodeLCP(words [][]byte) []byte {
	var out []byte
	if len(words) == 0 {
		return []byte{lcpEnd}
	}
	out = append(out, words[0]...)
	out = append(out, '\n')
	prev := words[0]
	for _, w := range words[1:] {
		p := commonPrefixLen(prev, w)
		out = append(out, byte(p))
		out = append(out, w[p:]...)
		out = append(out, '\n')
		prev = w
	}
	out = append(out, lcpEnd)
	return out
}

// DecodeLCP reverses EncodeLCP.
func DecodeLCP(data []byte) [][]byte {
	if len(data) == 0 || data[0] == lcpEnd {
		return nil
	}
	i := 0
	readLine := func() []byte {
		start := i
		for data[i] != '\n' {
			i++
		}
		line := data[start:i]
		i++
		return line
	}

	var words [][]byte
	first := append([]byte(nil), readLine()...)
	words = append(words, first)
	prev := first
	for data[i] != lcpEnd {
		p := int(data[i])
		i++
		rest := readLine()
		w := make([]byte, 0, p+len(rest))
		w = append(w, prev[:p]...)
		w = append(w, rest...)
		words = append(words, w)
		prev = w
	}
	return words
}

func commonPrefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}
