package validate

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/eykd/structgen-go/internal/structure"
)

// Validate parses raw line by line and checks every directory segment and
// file name against the naming rules. When opts.RootDir is set the
// prospective absolute path of every directory and file is also checked
// against opts.MaxFullPathLength. Validate never writes to storage and
// never fails: an internal fault is reported as a single CodeInternal error.
func Validate(raw string, opts Options) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Internal(raw, fmt.Errorf("%v", r))
		}
	}()

	rootDir := ""
	if opts.RootDir != "" {
		abs, err := filepath.Abs(opts.RootDir)
		if err != nil {
			return Internal(raw, fmt.Errorf("resolving root: %w", err))
		}
		rootDir = abs
	}
	maxLen := opts.MaxFullPathLength
	if maxLen <= 0 {
		maxLen = DefaultMaxFullPathLength
	}

	v := &validator{rootDir: rootDir, maxLen: maxLen, errors: []ValidationError{}}
	lines := structure.SplitLines(raw)
	parsed := []structure.Entry{}
	for _, l := range lines {
		e, ok := structure.ParseLine(l.Raw)
		if !ok {
			continue
		}
		e.Line = l.Number
		parsed = append(parsed, e)
		v.checkEntry(e)
	}

	return Result{
		IsValid: len(v.errors) == 0,
		Errors:  v.errors,
		Parsed:  parsed,
		Lines:   lines,
	}
}

type validator struct {
	rootDir string
	maxLen  int
	errors  []ValidationError
}

func (v *validator) checkEntry(e structure.Entry) {
	if e.RawDir == "" {
		ctx := lineContext{where: WhereFile, line: e.Line}
		for _, f := range e.Files {
			v.errors = append(v.errors, checkSegment(f, ctx)...)
			if v.rootDir != "" {
				v.checkFilePath(e, f)
			}
		}
		return
	}

	dir := e.RawDir
	dirCtx := lineContext{where: WhereDirectory, directory: &dir, line: e.Line}
	for _, seg := range e.Directory {
		v.errors = append(v.errors, checkSegment(seg, dirCtx)...)
	}

	if v.rootDir != "" {
		v.checkDirPath(e)
		for _, f := range e.Files {
			v.checkFilePath(e, f)
		}
	}

	fileCtx := lineContext{where: WhereFile, directory: &dir, line: e.Line}
	for _, f := range e.Files {
		v.errors = append(v.errors, checkSegment(f, fileCtx)...)
	}
}

func (v *validator) checkDirPath(e structure.Entry) {
	full := filepath.Join(append([]string{v.rootDir}, e.Directory...)...)
	n := Length(full)
	if n <= v.maxLen {
		return
	}
	segment := e.RawDir
	if len(e.Directory) > 0 {
		segment = e.Directory[len(e.Directory)-1]
	}
	dir := e.RawDir
	v.errors = append(v.errors, ValidationError{
		Code:       CodePathTooLongDir,
		MessageKey: messageKey(CodePathTooLongDir, WhereDirectory),
		Where:      WhereDirectory,
		Directory:  &dir,
		Line:       e.Line,
		Segment:    segment,
		FullPath:   full,
		Length:     n,
		MaxLength:  v.maxLen,
	})
}

func (v *validator) checkFilePath(e structure.Entry, file string) {
	parts := append([]string{v.rootDir}, e.Directory...)
	full := filepath.Join(append(parts, file)...)
	n := Length(full)
	if n <= v.maxLen {
		return
	}
	rel := file
	var dir *string
	if e.RawDir != "" {
		rel = path.Join(e.RawDir, file)
		d := e.RawDir
		dir = &d
	}
	v.errors = append(v.errors, ValidationError{
		Code:         CodePathTooLongFile,
		MessageKey:   messageKey(CodePathTooLongFile, WhereFile),
		Where:        WhereFile,
		Directory:    dir,
		Line:         e.Line,
		Segment:      file,
		RelativePath: rel,
		FullPath:     full,
		Length:       n,
		MaxLength:    v.maxLen,
	})
}

// Internal substitutes the whole diagnostic list with one synthetic
// error while still returning a best-effort parse for previews.
func Internal(raw string, err error) Result {
	return Result{
		IsValid: false,
		Errors: []ValidationError{{
			Code:       CodeInternal,
			MessageKey: messageKey(CodeInternal, ""),
			Detail:     err.Error(),
		}},
		Parsed: safeParse(raw),
		Lines:  structure.SplitLines(raw),
	}
}

func safeParse(raw string) (entries []structure.Entry) {
	defer func() {
		if recover() != nil {
			entries = []structure.Entry{}
		}
	}()
	return structure.Parse(raw)
}
