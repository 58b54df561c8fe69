// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package comprox

import "github.com/richox/comprox/dict"

// Config configures a Writer or Reader. The zero value is valid: it
// selects the default block size, runs no content filter, skips no
// stage, and trains no dictionary. This mirrors bzip2.WriterConfig /
// bzip2.ReaderConfig's shape, including the blank field that keeps
// call sites honest about which fields they set.
type Config struct {
	// BlockSize is the number of input bytes buffered into one block
	// before it is run through the filter/dictionary/LZ pipeline and
	// flushed. Zero selects defaultBlockSize (16 MiB, spec section 6's
	// "-b16" default).
	BlockSize int

	// Precompress, when true, skips the LZ/PPM stage entirely: each
	// block is only filtered and dictionary-substituted, then written
	// raw. This is the "-p" CLI flag (spec section 6).
	Precompress bool

	// Filter, when true, runs the x86 and BMP content filters ahead of
	// dictionary substitution. This is the "-F" CLI flag.
	Filter bool

	// Dict is the trained static dictionary substitution trie (spec
	// section 4.10) shared by every block. A nil Dict behaves like one
	// trained on zero words: correct, just uncompressed by this stage.
	Dict *dict.Dict

	// Progress, if non-nil, is called by a Writer after each block
	// finishes with the pipeline stage name, bytes done, and total
	// bytes (always -1, since the final size isn't known yet). A Reader
	// does not call it. This mirrors the original CLI's "-> running ..." progress
	// line (cr-coder.c's update_progress) without hardcoding it to
	// stderr.
	Progress func(stage string, done, total int64)

	_ struct{} // Blank field to prevent unkeyed struct literals
}

func (c Config) blockSize() int {
	if c.BlockSize > 0 {
		return c.BlockSize
	}
	return defaultBlockSize
}

func (c Config) dict() *dict.Dict { return dictOrEmpty(c.Dict) }

func (c Config) progress(stage string, done, total int64) {
	if c.Progress != nil {
		c.Progress(stage, done, total)
	}
}
