// SPDX-License-Identifier: MIT

package subtitle

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const timestampSeparator = " --> "

// ParseSRT parses SRT text into an ordered cue sequence.
//
// Cues are returned in file order and never re-sorted; the index of each
// block is kept as given. A block may carry zero text lines.
func ParseSRT(content string) ([]Cue, error) {
	lines := strings.Split(normalizeNewlines(content), "\n")

	var cues []Cue
	i := 0
	for i < len(lines) {
		if strings.TrimSpace(lines[i]) == "" {
			i++
			continue
		}

		index, err := strconv.Atoi(strings.TrimSpace(lines[i]))
		if err != nil {
			return nil, fmt.Errorf("parse srt: invalid cue index %q: %w", lines[i], err)
		}
		i++
		if i >= len(lines) {
			return nil, fmt.Errorf("parse srt: cue %d is missing a timestamp line", index)
		}

		start, end, err := parseTimestampLine(lines[i])
		if err != nil {
			return nil, fmt.Errorf("parse srt: cue %d: %w", index, err)
		}
		i++

		var text []string
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			text = append(text, lines[i])
			i++
		}

		cues = append(cues, Cue{
			Index: index,
			Start: start,
			End:   end,
			Text:  strings.Join(text, "\n"),
		})
	}
	return cues, nil
}

// ComposeSRT serialises cues back to SRT text, preserving the given order
// and indices.
func ComposeSRT(cues []Cue) string {
	var b strings.Builder
	for _, c := range cues {
		b.WriteString(strconv.Itoa(c.Index))
		b.WriteByte('\n')
		b.WriteString(FormatTimestamp(c.Start))
		b.WriteString(timestampSeparator)
		b.WriteString(FormatTimestamp(c.End))
		b.WriteByte('\n')
		if c.Text != "" {
			b.WriteString(c.Text)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatTimestamp renders a duration as an SRT timestamp (comma millisecond
// separator), e.g. "00:01:02,345".
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	h := ms / 3600000
	ms -= h * 3600000
	m := ms / 60000
	ms -= m * 60000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// ParseTimestamp parses an SRT timestamp ("HH:MM:SS,mmm") into a duration.
func ParseTimestamp(ts string) (time.Duration, error) {
	ts = strings.TrimSpace(ts)
	var h, m, s, ms int
	if _, err := fmt.Sscanf(ts, "%d:%d:%d,%d", &h, &m, &s, &ms); err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: %w", ts, err)
	}
	if m > 59 || s > 59 || ms > 999 || h < 0 || m < 0 || s < 0 || ms < 0 {
		return 0, fmt.Errorf("invalid timestamp %q: component out of range", ts)
	}
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}

func parseTimestampLine(line string) (start, end time.Duration, err error) {
	parts := strings.SplitN(line, timestampSeparator, 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid timestamp line %q", line)
	}
	if start, err = ParseTimestamp(parts[0]); err != nil {
		return 0, 0, err
	}
	if end, err = ParseTimestamp(parts[1]); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
