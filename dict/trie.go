// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package dict implements the static dictionary substitution stage
// (spec section 4.10): a 128-branch trie that tokenizes English-like
// ASCII words to 1- or 2-byte codes, with a case-reversal heuristic and
// a terminator (space/./,/;/:) folded into the escape byte that follows
// each code.
package dict

// trieNode is one arena slot. next[ch] is 0 ("no transition") unless
// ch leads to another node; id is -1 unless this node terminates a
// dictionary word.
type trieNode struct {
	id   int32
	next [128]int32
}

// Trie is the word-lookup structure built once from a word list and
// shared read-only by every encode/decode goroutine afterward.
type Trie struct {
	nodes []trieNode
}

func newTrie() *Trie {
	t := &Trie{nodes: make([]trieNode, 1)}
	t.nodes[0].id = -1
	return t
}

// insert adds word to the trie, ending at a terminal node carrying id.
// Bytes at or above 128 are never indexed (next has only 128 slots);
// the dictionary is ASCII-only, so this never trims a real word.
func (t *Trie) insert(word []byte, id int32) {
	node := int32(0)
	for _, ch := range word {
		if ch >= 128 {
			break
		}
		if t.nodes[node].next[ch] == 0 {
			t.nodes = append(t.nodes, trieNode{id: -1})
			t.nodes[node].next[ch] = int32(len(t.nodes) - 1)
		}
		node = t.nodes[node].next[ch]
	}
	t.nodes[node].id = id
}

// aliasUpperRoot links an uppercase first letter at the root to the
// same child as its lowercase counterpart, so "The" matches the entry
// stored as "the ". The loop bound (`< 'Z'`, not `<=`) reproduces
// cr-diccode.c's dictionary_load exactly: words starting with 'Z' never
// get this alias and fall through to literal encoding. See DESIGN.md.
func (t *Trie) aliasUpperRoot() {
	for c := byte('A'); c < 'Z'; c++ {
		t.nodes[0].next[c] = t.nodes[0].next[c-'A'+'a']
	}
}

// aliasPunctuation links '.', ',', ':', ';' transitions to the ' '
// transition wherever a node has the latter but not the former, so a
// word's trailing terminator can be any of the five without a separate
// trie branch per terminator.
func (t *Trie) aliasPunctuation() {
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.next[' '] == 0 {
			continue
		}
		for _, p := range []byte{'.', ',', ':', ';'} {
			if n.next[p] == 0 {
				n.next[p] = n.next[' ']
			}
		}
	}
}

// walk attempts to match a dictionary word starting at data[i]. It
// mirrors the original's eager-advance loop: node is always one
// transition ahead of where j stops, so when the loop exits on a
// terminal, data[j] is the byte that completed the match (the word's
// trailing marker: one of ' ', '.', ',', ':', ';') rather than the
// first byte past it.
func (t *Trie) walk(data []byte, i int) (node int32, j int) {
	node = 0
	j = i
	for data[j] < 128 {
		child := t.nodes[node].next[data[j]]
		node = child
		if child == 0 || t.nodes[node].id != -1 {
			break
		}
		j++
	}
	return node, j
}

func (t *Trie) idAt(node int32) int32 { return t.nodes[node].id }
