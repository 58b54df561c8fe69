// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package errors centralizes the panic/recover plumbing that every
// comprox package uses to turn an internal panic into a returned error
// at its public API boundary.
package errors

import (
	"fmt"
	"runtime"
)

// Kind classifies why an operation failed.
type Kind int

const (
	_ Kind = iota
	// Corrupted reports that the input stream violates the container
	// or block format (bad magic, truncated header, out-of-range id).
	Corrupted
	// Deprecated reports a recognized but unsupported wire format.
	Deprecated
	// Internal reports a bug: an invariant that the codec itself is
	// supposed to maintain was violated.
	Internal
)

func (k Kind) String() string {
	switch k {
	case Corrupted:
		return "corrupted"
	case Deprecated:
		return "deprecated"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is the concrete error type produced by every comprox package.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return "comprox: " + e.Kind.String() + ": " + e.Msg }

// Panic raises err as a panic so that a deferred Recover call can turn
// it back into a normal error return.
func Panic(err error) { panic(err) }

// Fmt constructs an *Error from a Kind and a printf-style message
// without panicking.
func Fmt(k Kind, format string, a ...interface{}) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, a...)}
}

// Recover is deferred at the top of comprox's Writer.Write and
// Writer.Close and of the Reader's per-block decode. A panic carrying an *Error or plain error is
// converted into *errp; any other panic (including runtime errors,
// which indicate a real bug rather than a corrupt stream) propagates.
func Recover(errp *error) {
	switch ex := recover().(type) {
	case nil:
		// Do nothing.
	case runtime.Error:
		panic(ex)
	case error:
		*errp = ex
	default:
		panic(ex)
	}
}
