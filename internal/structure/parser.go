package structure

import (
	"strings"

	"github.com/samber/lo"
)

// SplitLines splits raw input into 1-based numbered lines. LF separates
// lines; a CR immediately before the LF belongs to the line ending.
func SplitLines(raw string) []Line {
	parts := strings.Split(raw, "\n")
	lines := make([]Line, len(parts))
	for i, p := range parts {
		lines[i] = Line{Number: i + 1, Raw: strings.TrimSuffix(p, "\r")}
	}
	return lines
}

// Parse converts structure text into an ordered list of entries. It never
// fails: lines that declare neither a directory nor files are dropped.
func Parse(raw string) []Entry {
	entries := []Entry{}
	for _, l := range SplitLines(raw) {
		if e, ok := ParseLine(l.Raw); ok {
			e.Line = l.Number
			entries = append(entries, e)
		}
	}
	return entries
}

// ParseLine applies the line grammar to a single line:
//
//	path/to/dir: a.txt, b.txt   directory with files
//	path/to/dir                 directory only
//	: a.txt                     files directly under the root
//
// Only the first colon separates the path from the file list. The bool is
// false when the line carries nothing to create.
func ParseLine(line string) (Entry, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Entry{}, false
	}

	pathPart, filesPart, hasColon := strings.Cut(line, ":")
	if !hasColon {
		return Entry{Directory: SplitDir(line), Files: []string{}, RawDir: line}, true
	}

	pathPart = strings.TrimSpace(pathPart)
	files := SplitFiles(filesPart)
	if pathPart == "" && len(files) == 0 {
		return Entry{}, false
	}
	return Entry{Directory: SplitDir(pathPart), Files: files, RawDir: pathPart}, true
}

// SplitDir splits a directory path on "/" into trimmed, non-empty segments,
// so "a//b" and "a/ b /" both yield [a b].
func SplitDir(path string) []string {
	return cleanList(path, "/")
}

// SplitFiles splits a comma-separated file list into trimmed, non-empty names.
func SplitFiles(list string) []string {
	return cleanList(list, ",")
}

func cleanList(s, sep string) []string {
	items := lo.Compact(lo.Map(strings.Split(s, sep), func(item string, _ int) string {
		return strings.TrimSpace(item)
	}))
	if items == nil {
		return []string{}
	}
	return items
}
