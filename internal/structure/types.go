// Package structure defines the entry model produced from structure text and
// the line grammar that turns raw text into entries.
package structure

import "strings"

// Entry is one structural declaration: a directory path plus the files that
// live directly inside it. An empty Directory means the root.
type Entry struct {
	Directory []string `json:"directory"` // ordered, trimmed, non-empty segments
	Files     []string `json:"files"`     // ordered file names; never nil

	// Source metadata
	Line   int    `json:"line"` // 1-based line number in the input
	RawDir string `json:"-"`    // directory text left of the colon, trimmed
}

// DirPath returns the directory segments joined with "/".
func (e Entry) DirPath() string {
	return strings.Join(e.Directory, "/")
}

// IsRoot reports whether the entry targets the root directory itself.
func (e Entry) IsRoot() bool {
	return len(e.Directory) == 0
}

// Line is one numbered source line as it appeared in the input.
type Line struct {
	Number int    `json:"lineNumber" yaml:"lineNumber"` // 1-based
	Raw    string `json:"raw" yaml:"raw"`               // without line ending
}
