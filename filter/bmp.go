// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package filter

import "encoding/binary"

const bmpMagic = 0x4d42 // "BM"

// bmpHeaderSize is sizeof(bmp_header_t) in filter_bmp.c: a packed
// 14-byte file header followed by a 40-byte BITMAPINFOHEADER.
const bmpHeaderSize = 54

// TransformBMP applies filter_bmp.c's column/row delta to an
// uncompressed 24- or 32-bit BMP's pixel data: on encode it subtracts
// the green channel from red and blue (decorrelating the channels),
// then delta-codes each pixel against its left neighbour in the row and
// each row against the row above it; on decode it undoes both in
// reverse order. It operates on the whole pixel region in one pass
// (the block is already fully buffered in memory, unlike the
// original's streaming state machine) and reports whether buf looked
// like a BMP it could transform.
func TransformBMP(buf []byte, encode bool) bool {
	if len(buf) < bmpHeaderSize {
		return false
	}
	if binary.LittleEndian.Uint16(buf[0:2]) != bmpMagic {
		return false
	}
	planes := binary.LittleEndian.Uint16(buf[26:28])
	bpp := binary.LittleEndian.Uint16(buf[28:30])
	compression := binary.LittleEndian.Uint32(buf[30:34])
	imageOffset := binary.LittleEndian.Uint32(buf[10:14])
	width := int32(binary.LittleEndian.Uint32(buf[18:22]))
	height := int32(binary.LittleEndian.Uint32(buf[22:26]))
	if planes != 1 || compression != 0 || (bpp != 24 && bpp != 32) {
		return false
	}
	if width < 0 {
		width = -width
	}
	if height < 0 {
		height = -height
	}
	if width < 4 || height < 4 || width >= 1<<20 || height >= 1<<20 {
		return false
	}

	rowSize := (int(bpp)*int(width) + 31) / 32 * 4
	size := int(height) * rowSize
	start := int(imageOffset)
	if start < 0 || start+size > len(buf) {
		return false
	}
	pix := buf[start : start+size]
	bpp3 := 3
	if bpp == 32 {
		bpp3 = 4
	}
	transformBMPPixels(pix, int(width), rowSize, bpp3, encode)
	return true
}

func transformBMPPixels(buf []byte, width, rowSize, bpp int, encode bool) {
	rows := len(buf) / rowSize
	if encode {
		colorTransform(buf, rows, width, rowSize, bpp, true)
		deltaRows(buf, rows, width, rowSize, bpp, true)
		deltaColumns(buf, rows, width, rowSize, bpp, true)
	} else {
		deltaColumns(buf, rows, width, rowSize, bpp, false)
		deltaRows(buf, rows, width, rowSize, bpp, false)
		colorTransform(buf, rows, width, rowSize, bpp, false)
	}
}

// colorTransform decorrelates red and blue against green (R-=G, B-=G)
// on encode, or restores them on decode; alpha (bpp==4) is untouched.
func colorTransform(buf []byte, rows, width, rowSize, bpp int, encode bool) {
	for y := 0; y < rows; y++ {
		for x := 0; x < width; x++ {
			p := y*rowSize + x*bpp
			if encode {
				buf[p+0] -= buf[p+1]
				buf[p+2] -= buf[p+1]
			} else {
				buf[p+0] += buf[p+1]
				buf[p+2] += buf[p+1]
			}
		}
	}
}

// deltaRows delta-codes each pixel against its left neighbor within a
// row; encode walks right-to-left so each subtraction still reads the
// original left neighbor, decode walks left-to-right to reconstruct it.
func deltaRows(buf []byte, rows, width, rowSize, bpp int, encode bool) {
	for y := 0; y < rows; y++ {
		if encode {
			for x := width - 1; x > 0; x-- {
				subRow(buf, y, x, rowSize, bpp, true)
			}
		} else {
			for x := 1; x < width; x++ {
				subRow(buf, y, x, rowSize, bpp, false)
			}
		}
	}
}

func subRow(buf []byte, y, x, rowSize, bpp int, encode bool) {
	p := y*rowSize + x*bpp
	q := y*rowSize + (x-1)*bpp
	for i := 0; i < bpp; i++ {
		if encode {
			buf[p+i] -= buf[q+i]
		} else {
			buf[p+i] += buf[q+i]
		}
	}
}

// deltaColumns delta-codes each row against the row above it; encode
// walks bottom-to-top, decode top-to-bottom, for the same reason
// deltaRows walks in opposite directions for the two modes.
func deltaColumns(buf []byte, rows, width, rowSize, bpp int, encode bool) {
	if encode {
		for y := rows - 1; y > 0; y-- {
			subColumn(buf, y, width, rowSize, bpp, true)
		}
	} else {
		for y := 1; y < rows; y++ {
			subColumn(buf, y, width, rowSize, bpp, false)
		}
	}
}

func subColumn(buf []byte, y, width, rowSize, bpp int, encode bool) {
	for x := 0; x < width; x++ {
		p := y*rowSize + x*bpp
		q := (y-1)*rowSize + x*bpp
		for i := 0; i < bpp; i++ {
			if encode {
				buf[p+i] -= buf[q+i]
			} else {
				buf[p+i] += buf[q+i]
			}
		}
	}
}
