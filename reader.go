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

// Reader decompresses a comprox container produced by Writer. Like
// bzip2.Reader, it lazily parses the stream header on the first Read
// call rather than in NewReader, and buffers one decoded block at a
// time behind Read's io.Reader contract.
type Reader struct {
	InputOffset  int64
	OutputOffset int64

	variant Variant // the variant recovered from the stream's magic header

	rd     io.Reader
	config Config

	err   error
	rdHdr bool
	dict  *dict.Dict

	blk []byte // decoded bytes from the current block not yet returned
	crc uint32
}

// NewReader creates a Reader over r. A nil config is equivalent to a
// zero Config; Config.Dict, if set, is ignored, since the dictionary a
// block was encoded against travels inside the container itself.
func NewReader(r io.Reader, config *Config) (*Reader, error) {
	zr := new(Reader)
	if config != nil {
		zr.config = *config
	}
	zr.Reset(r)
	return zr, nil
}

// Reset discards the Reader's state and reconfigures it to read a
// fresh stream from r.
func (zr *Reader) Reset(r io.Reader) {
	*zr = Reader{
		rd:     r,
		config: zr.config,
	}
}

// Variant reports the variant recovered from the stream header. It is
// only valid after the first successful Read.
func (zr *Reader) Variant() Variant { return zr.variant }

// Sum32 returns the running whole-stream CRC-32 of every block decoded
// so far, for callers that want to cross-check it against a CRC the
// encoder reported out of band (see Writer.Sum32).
func (zr *Reader) Sum32() uint32 { return zr.crc }

func (zr *Reader) Read(p []byte) (n int, err error) {
	for {
		if len(zr.blk) > 0 {
			n = copy(p, zr.blk)
			zr.blk = zr.blk[n:]
			zr.OutputOffset += int64(n)
			return n, nil
		}
		if zr.err != nil {
			return 0, zr.err
		}
		zr.readBlock()
		if zr.err != nil {
			return 0, zr.err
		}
	}
}

func (zr *Reader) Close() error {
	if zr.err == io.EOF || zr.err == errClosed {
		zr.err = errClosed
		return nil
	}
	return zr.err
}

// readBlock advances the stream by exactly one unit: the header on the
// first call, otherwise one (outer header, block payload) pair. EOF at
// a block boundary ends the stream cleanly; EOF anywhere else is a
// truncated container.
func (zr *Reader) readBlock() {
	defer errors.Recover(&zr.err)

	if !zr.rdHdr {
		zr.readHeader()
		zr.rdHdr = true
	}

	ohBuf, err := readFull(zr.rd, block.OuterHeaderSize)
	if err == io.EOF {
		errors.Panic(io.EOF)
	} else if err != nil {
		errors.Panic(errors.Fmt(errors.Corrupted, "truncated block header: %v", err))
	}
	oh, _ := block.UnmarshalOuterHeader(ohBuf)

	body, err := readFull(zr.rd, int(oh.Size))
	if err != nil {
		errors.Panic(errors.Fmt(errors.Corrupted, "truncated block payload: %v", err))
	}
	if len(body) < 4 {
		errors.Panic(errors.Fmt(errors.Corrupted, "block payload too short for its size prefix"))
	}
	preDictSize := int(binary.LittleEndian.Uint32(body[:4]))
	rest := body[4:]

	var dictEncoded []byte
	if oh.Prec == 1 {
		dictEncoded = rest
	} else {
		dictEncoded = zr.variant.decode(rest)
	}

	pre := zr.dict.Decode(dictEncoded, preDictSize)
	if oh.Filt == 1 {
		applyFilter(pre, false)
	}

	zr.crc = block.CombineCRC(zr.crc, block.CRC(pre), int64(len(pre)))
	zr.blk = pre
}

func (zr *Reader) readHeader() {
	magicBuf, err := readFull(zr.rd, 4)
	if err != nil {
		errors.Panic(errors.Fmt(errors.Corrupted, "truncated stream magic: %v", err))
	}
	v, ok := variantFromMagic(string(magicBuf))
	if !ok {
		errors.Panic(errors.Fmt(errors.Corrupted, "invalid stream magic: %q", magicBuf))
	}
	zr.variant = v

	sizeBuf, err := readFull(zr.rd, 4)
	if err != nil {
		errors.Panic(errors.Fmt(errors.Corrupted, "truncated dictionary size: %v", err))
	}
	dictSize := binary.LittleEndian.Uint32(sizeBuf)

	dictStream, err := readFull(zr.rd, int(dictSize))
	if err != nil {
		errors.Panic(errors.Fmt(errors.Corrupted, "truncated dictionary stream: %v", err))
	}
	lcp := v.decode(dictStream)
	zr.dict = dict.LoadLCP(lcp)
}

// readFull reads exactly n bytes from r, returning io.EOF only when
// zero bytes were available (a clean end of container), matching
// io.ReadFull's own distinction between a full EOF and a truncated
// read.
func readFull(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	k, err := io.ReadFull(r, buf)
	if err != nil {
		return buf[:k], err
	}
	return buf, nil
}
