package validate

import (
	"strings"
	"unicode/utf16"
)

// invalidChars are forbidden anywhere in a Windows file or directory name.
const invalidChars = `<>:"/\|?*`

var reservedBaseNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// lineContext is the position shared by every segment checked on one line.
type lineContext struct {
	where     Where
	directory *string
	line      int
}

// CheckSegment applies the naming rules to a single directory segment or
// file name and returns one error per violated rule. Empty values pass.
func CheckSegment(value string, where Where) []ValidationError {
	return checkSegment(value, lineContext{where: where})
}

func checkSegment(value string, ctx lineContext) []ValidationError {
	if value == "" {
		return nil
	}
	var errs []ValidationError
	add := func(code Code, mutate func(*ValidationError)) {
		e := ValidationError{
			Code:       code,
			MessageKey: messageKey(code, ctx.where),
			Where:      ctx.where,
			Directory:  ctx.directory,
			Line:       ctx.line,
			Segment:    value,
		}
		if mutate != nil {
			mutate(&e)
		}
		errs = append(errs, e)
	}

	if value == "." || value == ".." {
		add(CodeDotSegment, nil)
	}
	if n := Length(value); n > MaxSegmentLength {
		add(CodeSegmentTooLong, func(e *ValidationError) {
			e.Length = n
			e.MaxLength = MaxSegmentLength
		})
	}
	if hasInvalidChar(value) {
		add(CodeInvalidChar, nil)
	}
	if IsReservedName(value) {
		add(CodeReservedName, nil)
	}
	if strings.HasSuffix(value, ".") || strings.HasSuffix(value, " ") {
		add(CodeTrailingDotOrSpace, nil)
	}
	return errs
}

func hasInvalidChar(s string) bool {
	if strings.ContainsAny(s, invalidChars) {
		return true
	}
	return strings.ContainsFunc(s, func(r rune) bool { return r < 0x20 })
}

// IsReservedName reports whether the part of name before its first dot is a
// reserved device name, compared case-insensitively.
func IsReservedName(name string) bool {
	base, _, _ := strings.Cut(name, ".")
	return reservedBaseNames[strings.ToUpper(base)]
}

// Length measures s in UTF-16 code units, the unit NTFS limits are expressed in.
func Length(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
