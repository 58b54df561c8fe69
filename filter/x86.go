// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package filter implements the bytewise, in-place, reversible content
// filters spec.md lists as out-of-scope collaborators invoked from the
// outer pipeline (the "filt" byte in block.OuterHeader): an x86
// call/jmp address filter and a BMP per-scanline delta. Both run before
// the dictionary/LZ stages on encode and are reversed after PPM decode,
// exactly where the pipeline diagram places them.
package filter

import "encoding/binary"

// TransformX86 rewrites the relative call/jmp (E8/E9) operand that
// follows each such opcode byte into a position-dependent value on
// encode, and back on decode. Every E8/E9-addressed call in a block of
// machine code tends to target a handful of common destinations once
// relative displacement is folded in by position, which gives the LZ
// stage far more repeated byte patterns to find than the raw relative
// encoding does — the same BCJ idea x86/PE and x86/ELF binaries share
// (filter_x86_pe.c, filter_x86_elf.c), applied directly to the buffer
// instead of gating it behind PE/ELF header parsing.
//
// Every E8/E9 byte is treated as an opcode, with no heuristic gate on
// the operand's top byte: the usual real-vs-coincidental-opcode gate
// used by x86 BCJ filters compares the top byte of the *relative*
// value on encode but would see the *absolute* value on decode, which
// is a different number once position is folded in — gating on it
// would make the encoder and decoder transform different position
// sets and break round-tripping. Transforming unconditionally keeps
// the position set identical on both sides (DESIGN.md entry `filter`).
func TransformX86(buf []byte, encode bool) {
	for i := 0; i+5 <= len(buf); i++ {
		if buf[i] != 0xE8 && buf[i] != 0xE9 {
			continue
		}
		v := binary.LittleEndian.Uint32(buf[i+1 : i+5])
		if encode {
			v += uint32(i) + 5
		} else {
			v -= uint32(i) + 5
		}
		binary.LittleEndian.PutUint32(buf[i+1:i+5], v)
		i += 4
	}
}
