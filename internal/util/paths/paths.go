// Package paths holds the directory comparisons used when validating build
// directories and when deciding whether an output directory is nested.
package paths

import (
	"path/filepath"
	"strings"
)

func clean(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	return filepath.Clean(p)
}

// Same reports whether a and b name the same directory after cleaning.
func Same(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return clean(a) == clean(b)
}

// IsSubDirectory reports whether child lies strictly inside parent.
func IsSubDirectory(child, parent string) bool {
	_, ok := RelativeInside(child, parent)
	return ok
}

// RelativeInside returns child's slash separated path relative to parent when
// child lies strictly inside it.
func RelativeInside(child, parent string) (string, bool) {
	if child == "" || parent == "" {
		return "", false
	}
	rel, err := filepath.Rel(clean(parent), clean(child))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
