// Package validate checks structure text against Windows file naming rules
// and legacy full-path length limits.
package validate

import (
	"sort"

	"github.com/samber/lo"

	"github.com/eykd/structgen-go/internal/structure"
)

// Code identifies the rule a ValidationError violates.
type Code string

const (
	// CodeDotSegment indicates a segment equal to "." or "..".
	CodeDotSegment Code = "DOT_SEGMENT"
	// CodeSegmentTooLong indicates a segment longer than MaxSegmentLength.
	CodeSegmentTooLong Code = "SEGMENT_TOO_LONG"
	// CodeInvalidChar indicates a forbidden or control character in a segment.
	CodeInvalidChar Code = "INVALID_CHAR"
	// CodeReservedName indicates a reserved device name, with or without extension.
	CodeReservedName Code = "RESERVED_NAME"
	// CodeTrailingDotOrSpace indicates a segment ending in "." or " ".
	CodeTrailingDotOrSpace Code = "TRAILING_DOT_OR_SPACE"
	// CodePathTooLongDir indicates a directory whose absolute path exceeds the limit.
	CodePathTooLongDir Code = "PATH_TOO_LONG_DIR"
	// CodePathTooLongFile indicates a file whose absolute path exceeds the limit.
	CodePathTooLongFile Code = "PATH_TOO_LONG_FILE"
	// CodeInternal replaces the whole error list when validation itself faulted.
	CodeInternal Code = "INTERNAL_VALIDATION_ERROR"
)

// Where tells whether a diagnostic concerns a directory segment or a file name.
type Where string

const (
	WhereDirectory Where = "directory"
	WhereFile      Where = "file"
)

// Limits applied by the validator.
const (
	MaxSegmentLength         = 255
	DefaultMaxFullPathLength = 260
)

// ValidationError is one naming or path-length violation tied to a source line.
type ValidationError struct {
	Code       Code    `json:"code" yaml:"code"`
	MessageKey string  `json:"messageKey" yaml:"messageKey"`
	Where      Where   `json:"where,omitempty" yaml:"where,omitempty"`
	Directory  *string `json:"directory" yaml:"directory"` // raw directory text; nil for root-level lines
	Line       int     `json:"line,omitempty" yaml:"line,omitempty"`
	Segment    string  `json:"segment,omitempty" yaml:"segment,omitempty"`

	Length       int    `json:"length,omitempty" yaml:"length,omitempty"`
	MaxLength    int    `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	FullPath     string `json:"fullPath,omitempty" yaml:"fullPath,omitempty"`
	RelativePath string `json:"relativePath,omitempty" yaml:"relativePath,omitempty"`
	Detail       string `json:"detail,omitempty" yaml:"detail,omitempty"` // only set for CodeInternal
}

// Options configures Validate.
type Options struct {
	// RootDir enables the full-path length check when non-empty.
	RootDir string
	// MaxFullPathLength defaults to DefaultMaxFullPathLength when <= 0.
	MaxFullPathLength int
}

// Result is the outcome of validating structure text.
type Result struct {
	IsValid bool              `json:"isValid" yaml:"isValid"`
	Errors  []ValidationError `json:"errors" yaml:"errors"`
	Parsed  []structure.Entry `json:"parsed" yaml:"parsed"`
	Lines   []structure.Line  `json:"lines" yaml:"lines"`
}

// ErrorLines returns the distinct line numbers that carry errors, ascending.
func (r Result) ErrorLines() []int {
	lines := lo.Uniq(lo.FilterMap(r.Errors, func(e ValidationError, _ int) (int, bool) {
		return e.Line, e.Line > 0
	}))
	sort.Ints(lines)
	return lines
}

// InvalidSegments returns the sets of offending directory and file segment names.
func (r Result) InvalidSegments() (dirs, files map[string]bool) {
	dirs, files = map[string]bool{}, map[string]bool{}
	for _, e := range r.Errors {
		if e.Segment == "" {
			continue
		}
		switch e.Where {
		case WhereDirectory:
			dirs[e.Segment] = true
		case WhereFile:
			files[e.Segment] = true
		}
	}
	return dirs, files
}
