package validate

import "fmt"

var dirKeys = map[Code]string{
	CodeDotSegment:         "dotSegmentDirNotAllowed",
	CodeSegmentTooLong:     "segmentDirTooLong",
	CodeInvalidChar:        "invalidDirChar",
	CodeReservedName:       "reservedDirName",
	CodeTrailingDotOrSpace: "trailingDotOrSpaceDir",
	CodePathTooLongDir:     "pathTooLongDir",
}

var fileKeys = map[Code]string{
	CodeDotSegment:         "dotSegmentFileNotAllowed",
	CodeSegmentTooLong:     "segmentFileTooLong",
	CodeInvalidChar:        "invalidFileChar",
	CodeReservedName:       "reservedFileName",
	CodeTrailingDotOrSpace: "trailingDotOrSpaceFile",
	CodePathTooLongFile:    "pathTooLongFile",
}

var messages = map[string]string{
	"dotSegmentDirNotAllowed":  "directory name must not be \".\" or \"..\"",
	"dotSegmentFileNotAllowed": "file name must not be \".\" or \"..\"",
	"segmentDirTooLong":        "directory name is too long",
	"segmentFileTooLong":       "file name is too long",
	"invalidDirChar":           "directory name contains a forbidden character",
	"invalidFileChar":          "file name contains a forbidden character",
	"reservedDirName":          "directory name is reserved by Windows",
	"reservedFileName":         "file name is reserved by Windows",
	"trailingDotOrSpaceDir":    "directory name must not end with a dot or space",
	"trailingDotOrSpaceFile":   "file name must not end with a dot or space",
	"pathTooLongDir":           "full directory path is too long",
	"pathTooLongFile":          "full file path is too long",
	"internalValidationError":  "structure could not be validated",
	"generic":                  "structure definition contains invalid names",
}

func messageKey(code Code, where Where) string {
	if code == CodeInternal {
		return "internalValidationError"
	}
	keys := dirKeys
	if where == WhereFile {
		keys = fileKeys
	}
	if k, ok := keys[code]; ok {
		return k
	}
	return "generic"
}

// Message returns the English text for the error, suffixed with the
// offending segment and line when known.
func (e ValidationError) Message() string {
	msg, ok := messages[e.MessageKey]
	if !ok {
		msg = messages["generic"]
	}
	switch {
	case e.Length > 0 && e.MaxLength > 0:
		msg = fmt.Sprintf("%s (%d > %d)", msg, e.Length, e.MaxLength)
	case e.Detail != "":
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	switch {
	case e.Segment != "" && e.Line > 0:
		return fmt.Sprintf("%s (%s, line %d)", msg, e.Segment, e.Line)
	case e.Segment != "":
		return fmt.Sprintf("%s (%s)", msg, e.Segment)
	case e.Line > 0:
		return fmt.Sprintf("%s (line %d)", msg, e.Line)
	}
	return msg
}
