// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Command comprox is the CLI front end for the comprox library (spec
// section 6): "comprox e" compresses, "comprox d" decompresses.
package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/richox/comprox"
	"github.com/richox/comprox/dict"
	"github.com/richox/comprox/dictpick"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: %s e|d [flags] [input] [output]

subcommands:
  e    compress input to output
  d    decompress input to output

flags (encode only, except -q which applies to both):
  -b MB   block size in MiB (default 16)
  -p      precompress only: run the dictionary stage and skip the LZ/PPM coder
  -F      enable the x86 and BMP content filters
  -v name select the LZ variant: rolz, lz77 (default), lzpari
  -q      silence progress output

input/output default to stdin/stdout when omitted.
`, os.Args[0])
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "e":
		err = runEncode(os.Args[2:])
	case "d":
		err = runDecode(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[0], err)
		os.Exit(1)
	}
}

func openInputOutput(args []string) (in io.ReadCloser, out io.WriteCloser, err error) {
	switch len(args) {
	case 0:
		return ioutil.NopCloser(os.Stdin), nopWriteCloser{os.Stdout}, nil
	case 1:
		in, err = os.Open(args[0])
		if err != nil {
			return nil, nil, err
		}
		return in, nopWriteCloser{os.Stdout}, nil
	case 2:
		in, err = os.Open(args[0])
		if err != nil {
			return nil, nil, err
		}
		out, err = os.Create(args[1])
		if err != nil {
			in.Close()
			return nil, nil, err
		}
		return in, out, nil
	default:
		return nil, nil, fmt.Errorf("too many positional arguments")
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func runEncode(args []string) error {
	fs := flag.NewFlagSet("e", flag.ExitOnError)
	fs.Usage = usage
	blockMB := fs.Int("b", 16, "block size in MiB")
	precompress := fs.Bool("p", false, "precompress only, skip the LZ/PPM coder")
	useFilter := fs.Bool("F", false, "enable content filters")
	variantName := fs.String("v", "lz77", "LZ variant: rolz, lz77, lzpari")
	quiet := fs.Bool("q", false, "silence progress output")
	fs.Parse(args)

	variant, ok := variantByName(*variantName)
	if !ok {
		return fmt.Errorf("unknown variant %q", *variantName)
	}

	in, out, err := openInputOutput(fs.Args())
	if err != nil {
		return err
	}
	defer in.Close()
	defer out.Close()

	// The pipeline needs two passes over the input: one to train the
	// static dictionary, one to encode. A seekable file can be rewound
	// directly; stdin cannot, so it is buffered to a temp file first
	// (spec section 6, "Persisted state").
	src, cleanup, err := seekableInput(in)
	if err != nil {
		return err
	}
	defer cleanup()

	blob := dictpick.Pick(src)
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return err
	}

	cfg := &comprox.Config{
		BlockSize:   *blockMB << 20,
		Precompress: *precompress,
		Filter:      *useFilter,
		Dict:        dict.Load(blob),
	}
	if !*quiet {
		cfg.Progress = func(stage string, done, total int64) {
			fmt.Fprintf(os.Stderr, "-> running %s: %d bytes\n", stage, done)
		}
	}

	zw := comprox.NewWriter(out, variant, cfg)
	if _, err := io.Copy(zw, src); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

func runDecode(args []string) error {
	fs := flag.NewFlagSet("d", flag.ExitOnError)
	fs.Usage = usage
	quiet := fs.Bool("q", false, "silence progress output")
	fs.Parse(args)
	_ = *quiet // decode has no progress output of its own yet

	in, out, err := openInputOutput(fs.Args())
	if err != nil {
		return err
	}
	defer in.Close()
	defer out.Close()

	zr, err := comprox.NewReader(in, nil)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, zr)
	return err
}

func variantByName(name string) (comprox.Variant, bool) {
	switch name {
	case "rolz":
		return comprox.ROLZ, true
	case "lz77":
		return comprox.LZ77, true
	case "lzpari":
		return comprox.LZPARI, true
	default:
		return 0, false
	}
}

// seekableInput returns r as an io.ReadSeeker, buffering it to a
// temporary file first if it is not already one. comprox's CLI needs
// two passes over the input (dictionary training, then encoding);
// stdin can't be rewound, so it gets spilled to disk exactly as the
// original tool's "stdin temp-file shuffling" does (spec section 6,
// "Persisted state").
func seekableInput(r io.Reader) (src io.ReadSeeker, cleanup func(), err error) {
	if s, ok := r.(io.ReadSeeker); ok {
		return s, func() {}, nil
	}

	tmp, err := ioutil.TempFile("", "comprox-stdin-")
	if err != nil {
		return nil, nil, err
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, nil, err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, nil, err
	}
	cleanup = func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}
	return tmp, cleanup, nil
}
