// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package block

import (
	"hash/crc32"

	"github.com/dsnet/golib/hashutil"
)

// CRC computes the CRC-32 (IEEE) of buf.
func CRC(buf []byte) uint32 {
	return crc32.ChecksumIEEE(buf)
}

// CombineCRC folds crc2, the checksum of a len2-byte block that
// immediately follows a region already summarized by crc1, into a
// single running checksum. This is the same combinator bzip2 uses to
// fold per-block CRCs into a whole-stream CRC (see
// bzip2/common.go:combineCRC in the upstream teacher); comprox reuses
// it for Writer.Sum32, a whole-stream checksum kept alongside the
// container (it is not written into it) on top of the per-block
// original_size/format checks the wire format already requires.
func CombineCRC(crc1, crc2 uint32, len2 int64) uint32 {
	return hashutil.CombineCRC32(crc32.IEEE, crc1, crc2, len2)
}
