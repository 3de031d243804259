// Package readme splices generated report content into the target
// document between two literal marker comments.
package readme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	MarkStart = "<!--CHART_START-->"
	MarkEnd   = "<!--CHART_END-->"
)

// ErrMarkersNotFound is returned when the document does not contain both
// markers in order. The document is left untouched in that case.
var ErrMarkersNotFound = errors.New("markers not found in README")

// Splice replaces everything between the markers in doc with content,
// keeping the markers themselves. It fails if either marker is absent or
// the end marker precedes the start marker.
func Splice(doc, content string) (string, error) {
	start := strings.Index(doc, MarkStart)
	end := strings.Index(doc, MarkEnd)
	if start == -1 || end == -1 || end < start {
		return "", ErrMarkersNotFound
	}
	return doc[:start+len(MarkStart)] + "\n" + content + "\n" + doc[end:], nil
}

// Patch rewrites the document at path with content spliced between the
// markers. The write goes through a temp file + rename, so a failure at
// any point leaves the original document unmodified; there is no state
// where the README holds a half-written report.
func Patch(path, content string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	patched, err := Splice(string(data), content)
	if err != nil {
		return fmt.Errorf("%w: %s", err, path)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".readme-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(patched); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
