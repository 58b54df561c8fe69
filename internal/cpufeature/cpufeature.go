// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package cpufeature exposes the runtime CPU feature detection used to
// pick a faster rolling hash for the LZ77 match finder's index build,
// the same sort of dispatch zstd/lz4-family codecs use to prefer a
// hardware CRC instruction when it's available.
package cpufeature

import "github.com/klauspost/cpuid"

// HasSSE42 reports whether the CPU exposes the SSE4.2 CRC32
// instruction, which lz77's hash function uses to fold four bytes into
// a bucket index in one instruction instead of the multiply-add
// fallback.
func HasSSE42() bool {
	return cpuid.CPU.SSE42()
}
