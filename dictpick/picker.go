// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package dictpick implements the dictionary trainer (spec section
// 4.11): a frequency-analysis pass over a source file that produces the
// word list dict.Load later turns into a substitution trie. Only the
// wire format of its output — a newline-separated word blob — and this
// encoder/decoder pairing are core to the spec; the trainer itself is a
// best-effort, non-authoritative collaborator.
package dictpick

import (
	"bytes"
	"io"
	"sort"
)

const (
	totalWordNum = 25000
	wordMinLen   = 2
	wordMaxLen   = 20
	wordMinFreq  = 5

	// windowSize mirrors cr-dicpick.c's FDATA_BLOCK streaming window.
	windowSize = 200000

	// hashmapMaxSize is cr-dicpick.c's HASHMAP_MAXSIZE: the distinct-word
	// count at which the table is compacted. A Go map has no separate
	// notion of "capacity vs. live entries" the way the original's
	// open-addressing array does (see DESIGN.md), so this is the one
	// number carried over: it still gates when to run the
	// frequency-preserving trim.
	hashmapMaxSize = totalWordNum*13 + 1
)

var reservedWords = [][]byte{
	[]byte("  "),
	[]byte("http://www."),
}

var acceptSuffix = func() [256]bool {
	var a [256]bool
	a[' '] = true
	a[','] = true
	a['.'] = true
	a[':'] = true
	a[';'] = true
	return a
}()

// table is the word->count counter. The original hand-rolls an
// open-addressing array sized to 23x the target dictionary size purely
// because C has no built-in hash map; a Go map already gives the same
// "insert or bump count" operation with none of that bookkeeping, so it
// replaces the array here (DESIGN.md entry `dictpick`).
type table map[string]int

// compact implements the original's "table full" trim: find the
// smallest live count, then discard every entry at or below
// min_count+5. This is an approximate, frequency-preserving trim, not
// an exact threshold — rare words are dropped in bulk rather than one
// at a time, which is what keeps it cheap enough to run mid-stream.
func (t table) compact() {
	if len(t) == 0 {
		return
	}
	min := -1
	for _, c := range t {
		if min == -1 || c < min {
			min = c
		}
	}
	for w, c := range t {
		if c <= min+5 {
			delete(t, w)
		}
	}
}

func (t table) add(word []byte) {
	s := string(word)
	t[s]++
	if len(t) >= hashmapMaxSize {
		t.compact()
	}
}

// extractWords scans one window for candidate words: an alphabetic run
// starting right after a non-alphabetic byte, continuing while
// lowercase (not alphabetic in general — an uppercase byte mid-run
// ends it, matching cr-dicpick.c's `islower` continuation check
// exactly), of length 2..20, followed by one of ` ,.:;`. The scan then
// resumes one byte past the run's terminator, skipping that terminator
// byte as a possible run start of its own — a quirk of the original's
// `x = y; x++` bookkeeping, preserved for fidelity (DESIGN.md).
func extractWords(window []byte) [][]byte {
	if len(window) == 0 {
		return nil
	}
	w := append(append([]byte(nil), window...), 0) // sentinel: never a valid accept-suffix or run byte

	var words [][]byte
	x := 1
	for x < len(w) {
		if isAlpha(w[x]) && !isAlpha(w[x-1]) {
			y := x + 1
			for y < len(w) && isLower(w[y]) {
				y++
			}
			if y >= x+wordMinLen && y <= x+wordMaxLen && acceptSuffix[w[y]] {
				word := make([]byte, y-x)
				for i := x; i < y; i++ {
					word[i-x] = toLower(w[i])
				}
				words = append(words, word)
			}
			x = y
		}
		x++
	}
	return words
}

func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
func isLower(b byte) bool { return b >= 'a' && b <= 'z' }
func toLower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b - 'A' + 'a'
	}
	return b
}

// Pick streams r in windowSize chunks, extracts candidate words from
// each, and trains a frequency table over them (spec section 4.11). A
// background goroutine inserts each window's words into the table
// while the main goroutine reads and scans the next window, the same
// double-buffering the original gets from a pair of pthreads.
//
// It returns a newline-separated word blob (no trailing NUL) ready for
// dict.Load, with dict.Load's own space-appending left to that layer.
func Pick(r io.Reader) []byte {
	t := make(table)

	words := make(chan [][]byte, 1)
	done := make(chan struct{})
	go func() {
		for ws := range words {
			for _, w := range ws {
				t.add(w)
			}
		}
		close(done)
	}()

	buf := make([]byte, windowSize)
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			window := append([]byte(nil), buf[:n]...)
			words <- extractWords(window)
		}
		if err != nil {
			break
		}
	}
	close(words)
	<-done

	return buildBlob(t)
}

type wordCount struct {
	word  string
	count int
}

func buildBlob(t table) []byte {
	var entries []wordCount
	for w, c := range t {
		if c > wordMinFreq {
			entries = append(entries, wordCount{w, c})
		}
	}

	// Descending by count; ties broken by descending lexical order
	// (hashmap_element_reverse_cmp_by_count's tie-break compares the
	// pair in reverse, which sorts ties highest-word-first).
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].word > entries[j].word
	})

	y := len(entries)
	if y > totalWordNum-len(reservedWords) {
		y = totalWordNum - len(reservedWords)
	}
	entries = entries[:y]

	level1 := level1WordNum(y)
	if y > level1-len(reservedWords) {
		x := level1 - len(reservedWords)
		if x < 0 {
			x = 0
		}
		tail := entries[x:y]
		sort.Slice(tail, func(i, j int) bool { return tail[i].word < tail[j].word })
	}

	var out bytes.Buffer
	for _, w := range reservedWords {
		out.Write(w)
		out.WriteByte('\n')
	}
	for i, e := range entries {
		if i >= level1 && len(e.word) < wordMinLen+1 {
			continue // too short to be worth a 2-byte code
		}
		out.WriteString(e.word)
		out.WriteByte('\n')
	}
	return out.Bytes()
}

// level1WordNum mirrors dict.level1WordNum (cr-diccode.h's
// LEVEL1_WORD_NUM); duplicated locally so dictpick has no import-time
// dependency on the dict package's internals.
func level1WordNum(n int) int { return (65535-n)/255 - 1 }
