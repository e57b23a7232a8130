// Package pathsafe keeps generated paths inside a root directory and
// resolves paths against storage without regard to letter case.
package pathsafe

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
)

// FoldFunc maps a path to the key used for case-insensitive comparison.
type FoldFunc func(string) string

// DefaultFold applies full Unicode case folding. Windows compatibility rules
// are applied on every host, so this is the default everywhere.
func DefaultFold(s string) string {
	return cases.Fold().String(s)
}

// ExactFold leaves paths untouched, for callers that want case-sensitive keys.
func ExactFold(s string) string {
	return s
}

// Join resolves segments under root and cleans the result. The outcome may
// lie outside root when segments contain "..".
func Join(root string, segments ...string) string {
	return filepath.Join(append([]string{root}, segments...)...)
}

// Inside reports whether target lies within root: the path from root to
// target must not start with an up-level component and must not be absolute.
// root itself counts as inside.
func Inside(root, target string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(target))
	if err != nil {
		return false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return !filepath.IsAbs(rel)
}

// RelSegments returns the components leading from root down to target. It
// returns nil when target is root or lies outside it; the result never
// contains "." or "..".
func RelSegments(root, target string) []string {
	if !Inside(root, target) {
		return nil
	}
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(target))
	if err != nil || rel == "." {
		return nil
	}
	return strings.Split(rel, string(filepath.Separator))
}
