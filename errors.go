// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package comprox

import "github.com/richox/comprox/internal/errors"

// errClosed is the sentinel sticky error a Writer or Reader settles
// into after Close, so that further calls fail cheaply instead of
// operating on torn-down state (bzip2.Writer/Reader's errClosed idiom).
var errClosed error = errors.Fmt(errors.Internal, "stream is closed")
