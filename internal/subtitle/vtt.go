// SPDX-License-Identifier: MIT

package subtitle

import "strings"

// VTTHeader is the fixed WebVTT file header.
const VTTHeader = "WEBVTT\n\n"

// ConvertSRTToVTT transcodes SRT text into WebVTT text.
//
// The conversion is purely positional: each block's index line is dropped,
// the timestamp line has its comma millisecond separators replaced with
// periods, and text lines are copied verbatim. Truncated input (a block
// ending right after its index line) yields a valid prefix instead of an
// error. Blocks without text lines are kept as empty-text cues.
func ConvertSRTToVTT(srtContent string) string {
	var b strings.Builder
	b.WriteString(VTTHeader)

	lines := strings.Split(strings.TrimSpace(normalizeNewlines(srtContent)), "\n")
	i := 0
	for i < len(lines) {
		// Skip blank separators between blocks.
		if strings.TrimSpace(lines[i]) == "" {
			i++
			continue
		}

		// Index line, purely positional.
		i++
		if i >= len(lines) {
			break
		}

		b.WriteString(strings.ReplaceAll(lines[i], ",", "."))
		b.WriteByte('\n')
		i++

		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			b.WriteString(lines[i])
			b.WriteByte('\n')
			i++
		}

		b.WriteByte('\n')
	}
	return b.String()
}
