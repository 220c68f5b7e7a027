// SPDX-License-Identifier: MIT

// Package subtitle implements the SRT cue model and text-format conversions.
package subtitle

import "time"

// Cue is a single timed subtitle entry.
//
// Index is the 1-based sequence number from the source file and is purely
// informational. Text may span multiple lines separated by '\n'.
type Cue struct {
	Index int
	Start time.Duration
	End   time.Duration
	Text  string
}
