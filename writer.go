// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package comprox

import (
	"encoding/binary"
	"io"

	"github.com/richox/comprox/block"
	"github.com/richox/comprox/dict"
	"github.com/richox/comprox/internal/errors"
)

// Writer compresses a stream of bytes into the container format (spec
// section 6): a magic header, the trained dictionary (LCP-compressed,
// then run through the chosen variant's LZ coder), and a sequence of
// (outer header, block payload) pairs, one per buffered block.
//
// Writer buffers exactly as bzip2.Writer buffers one BWT block: bytes
// accumulate in buf until a block boundary, at which point the block
// runs through the filter, dictionary, and LZ stages and is flushed to
// the underlying io.Writer. A sticky err short-circuits every method
// once set, matching the teacher's idiom.
type Writer struct {
	InputOffset  int64
	OutputOffset int64

	w       io.Writer
	variant Variant
	config  Config
	dict    *dict.Dict

	err   error
	wrHdr bool
	buf   []byte
	crc   uint32
}

// NewWriter creates a Writer that emits a comprox stream of the given
// variant to w. A nil config is equivalent to a zero Config.
func NewWriter(w io.Writer, variant Variant, config *Config) *Writer {
	zw := new(Writer)
	zw.variant = variant
	if config != nil {
		zw.config = *config
	}
	zw.Reset(w)
	return zw
}

// Reset discards the Writer's state and reconfigures it to write a
// fresh stream to w, reusing its already-allocated buffer.
func (zw *Writer) Reset(w io.Writer) {
	*zw = Writer{
		w:       w,
		variant: zw.variant,
		config:  zw.config,
		dict:    zw.config.dict(),
		buf:     zw.buf[:0],
	}
}

// Sum32 returns the running whole-stream CRC-32 of every block's
// original bytes written so far, folded together with block.CombineCRC
// exactly as bzip2 folds its per-block CRCs into its stream CRC. This
// is an ambient integrity check on top of the format's own
// per-block/per-variant original_size checks; it is not written into
// the container itself (spec section 6 does not specify a trailer), so
// callers who want it must record it out of band.
func (zw *Writer) Sum32() uint32 { return zw.crc }

// Write implements io.Writer, buffering p into the current block and
// flushing whenever the block fills.
func (zw *Writer) Write(p []byte) (n int, err error) {
	if zw.err != nil {
		return 0, zw.err
	}
	defer errors.Recover(&zw.err)

	bs := zw.config.blockSize()
	for len(p) > 0 {
		room := bs - len(zw.buf)
		k := len(p)
		if k > room {
			k = room
		}
		zw.buf = append(zw.buf, p[:k]...)
		p = p[k:]
		n += k
		zw.InputOffset += int64(k)
		if len(zw.buf) >= bs {
			zw.flush()
		}
	}
	return n, nil
}

// Close flushes any buffered remainder and marks the Writer unusable.
// Calling Close more than once is a no-op, matching bzip2.Writer.Close.
func (zw *Writer) Close() error {
	if zw.err == errClosed {
		return nil
	}
	if zw.err != nil {
		return zw.err
	}
	defer errors.Recover(&zw.err)

	if !zw.wrHdr {
		zw.writeHeader()
	}
	if len(zw.buf) > 0 {
		zw.flush()
	}
	if zw.err == nil {
		zw.err = errClosed
		return nil
	}
	return zw.err
}

func (zw *Writer) writeHeader() {
	lcp := zw.dict.ExportLCP()
	dictStream := zw.variant.encode(lcp)

	hdr := make([]byte, 0, 4+4+len(dictStream))
	hdr = append(hdr, zw.variant.magic()...)
	hdr = appendU32(hdr, uint32(len(dictStream)))
	hdr = append(hdr, dictStream...)
	if _, err := zw.w.Write(hdr); err != nil {
		errors.Panic(err)
	}
	zw.wrHdr = true
}

// flush runs the current block through the filter, dictionary, and (if
// not Config.Precompress) LZ/PPM stages, and writes the framed result.
func (zw *Writer) flush() {
	if !zw.wrHdr {
		zw.writeHeader()
	}
	data := zw.buf
	zw.crc = block.CombineCRC(zw.crc, block.CRC(data), int64(len(data)))

	pre := append([]byte(nil), data...)
	var filt uint8
	if zw.config.Filter {
		applyFilter(pre, true)
		filt = 1
	}

	dictEncoded := zw.dict.Encode(pre)

	var prec uint8
	var payload []byte
	if zw.config.Precompress {
		prec = 1
		payload = dictEncoded
	} else {
		payload = zw.variant.encode(dictEncoded)
	}

	body := appendU32(nil, uint32(len(pre)))
	body = append(body, payload...)

	oh := block.OuterHeader{Size: uint32(len(body)), Filt: filt, Prec: prec}
	out := oh.Marshal(nil)
	out = append(out, body...)
	if _, err := zw.w.Write(out); err != nil {
		errors.Panic(err)
	}

	zw.config.progress(zw.variant.String(), zw.InputOffset, -1)
	zw.buf = zw.buf[:0]
}

func appendU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}
