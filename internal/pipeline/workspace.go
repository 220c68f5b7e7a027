// SPDX-License-Identifier: MIT

package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Workspace is an isolated per-request output directory. IDs are never
// reused; two concurrent requests with identical upload names never
// collide because every derived filename lives under the workspace dir.
type Workspace struct {
	ID  string
	Dir string
}

// NewWorkspace creates a fresh workspace directory under root.
func NewWorkspace(root string) (*Workspace, error) {
	id := uuid.NewString()
	dir := filepath.Join(root, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace %s: %w", id, err)
	}
	return &Workspace{ID: id, Dir: dir}, nil
}

// File returns the absolute path of a file inside the workspace.
func (w *Workspace) File(name string) string {
	return filepath.Join(w.Dir, name)
}

// SaveVideo writes the uploaded video under its sanitized filename and
// returns that filename.
func (w *Workspace) SaveVideo(name string, r io.Reader) (string, error) {
	sanitized := SanitizeFileName(name)
	f, err := os.Create(w.File(sanitized))
	if err != nil {
		return "", fmt.Errorf("save video: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("save video: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("save video: %w", err)
	}
	return sanitized, nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFileName reduces an uploaded filename to a safe base name:
// directory components are stripped, anything outside [A-Za-z0-9._-]
// collapses to an underscore, and leading dots are dropped.
func SanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = unsafeFileChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "upload"
	}
	return name
}
