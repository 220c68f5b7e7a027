// SPDX-License-Identifier: MIT

package api

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var errUnsafePath = errors.New("unsafe path segment")

// isUnsafeSegment rejects path segments that could escape the workspace:
// traversal sequences (including multiply URL-encoded and Unicode-composed
// forms), separators, and NUL bytes.
func isUnsafeSegment(segment string) bool {
	if segment == "" {
		return true
	}
	decoded := segment
	for i := 0; i < 3; i++ {
		u, err := url.PathUnescape(decoded)
		if err != nil || u == decoded {
			break
		}
		decoded = u
	}
	decoded = norm.NFC.String(decoded)

	if strings.ContainsAny(decoded, "/\\\x00") {
		return true
	}
	if decoded == "." || strings.Contains(decoded, "..") {
		return true
	}
	return false
}

// workspaceFilePath resolves a file inside a process workspace, guaranteeing
// the result stays under the output root.
func workspaceFilePath(outputRoot, processID, filename string) (string, error) {
	if isUnsafeSegment(processID) || isUnsafeSegment(filename) {
		return "", errUnsafePath
	}
	absRoot, err := filepath.Abs(outputRoot)
	if err != nil {
		return "", err
	}
	full := filepath.Join(absRoot, processID, filename)

	// Containment check on the cleaned path.
	rel, err := filepath.Rel(absRoot, full)
	if err != nil || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return "", errUnsafePath
	}
	return full, nil
}
