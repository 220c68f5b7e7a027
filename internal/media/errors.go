// SPDX-License-Identifier: MIT

package media

import "fmt"

// ExtractionError reports a failed ffmpeg invocation together with the tail
// of its diagnostic output.
type ExtractionError struct {
	Output string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("ffmpeg error: %s", e.Output)
	}
	return fmt.Sprintf("ffmpeg error: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

const maxDiagnostic = 2048

// truncateDiagnostic keeps the tail of ffmpeg's stderr, which carries the
// actual failure reason; the head is mostly banner and stream info.
func truncateDiagnostic(s string) string {
	if len(s) <= maxDiagnostic {
		return s
	}
	return "..." + s[len(s)-maxDiagnostic:]
}
