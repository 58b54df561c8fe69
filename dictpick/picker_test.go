// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package dictpick

import (
	"bytes"
	"strings"
	"testing"
)

func TestPickExtractsFrequentWords(t *testing.T) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog. the cat sat. ", 20)
	blob := Pick(strings.NewReader(text))

	if !bytes.Contains(blob, []byte("the\n")) {
		t.Fatalf("blob missing frequent word %q:\n%s", "the", blob)
	}
	if !bytes.Contains(blob, []byte("  \n")) || !bytes.Contains(blob, []byte("http://www.\n")) {
		t.Fatalf("blob missing reserved words:\n%s", blob)
	}
}

func TestPickDropsRareWords(t *testing.T) {
	text := "a unique word appears exactly once in this corpus."
	blob := Pick(strings.NewReader(text))
	if bytes.Contains(blob, []byte("unique\n")) {
		t.Fatalf("blob unexpectedly retained a word below the frequency floor:\n%s", blob)
	}
}

func TestExtractWordsRunBreaksOnUppercase(t *testing.T) {
	// "McDonald." : the run starting at 'M' stops at the first
	// uppercase byte ('D'), and the scan resumes past it rather than
	// treating 'D' as a new run start — see extractWords' doc comment.
	got := extractWords([]byte(" McDonald. "))
	for _, w := range got {
		if string(w) == "donald" {
			t.Fatalf("extractWords unexpectedly recovered %q from a case transition", w)
		}
	}
}

func TestExtractWordsAcceptsTerminators(t *testing.T) {
	got := extractWords([]byte(" cat. dog, bird; fish: bee "))
	want := []string{"cat", "dog", "bird", "fish", "bee"}
	if len(got) != len(want) {
		t.Fatalf("got %d words %q, want %v", len(got), got, want)
	}
	for i, w := range want {
		if string(got[i]) != w {
			t.Fatalf("word %d = %q, want %q", i, got[i], w)
		}
	}
}

func TestTableCompact(t *testing.T) {
	tb := make(table)
	tb["rare"] = 1
	tb["common"] = 100
	tb.compact()
	if _, ok := tb["rare"]; ok {
		t.Fatalf("compact should have dropped the low-count entry")
	}
	if _, ok := tb["common"]; !ok {
		t.Fatalf("compact should have kept the high-count entry")
	}
}
