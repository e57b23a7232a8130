// Package synth materializes parsed structure entries as empty directories
// and files below a root, counting exactly what was created and skipped.
package synth

// ErrorCode classifies a failed synthesis run.
type ErrorCode string

// ErrFS reports that a storage operation failed and the run was aborted.
const ErrFS ErrorCode = "FS_ERROR"

// Result is the accounting of one synthesis run. Counts are valid even when
// Success is false: they cover the work done before the fault.
type Result struct {
	Success      bool      `json:"success"`
	CreatedDirs  int       `json:"createdDirs"`
	CreatedFiles int       `json:"createdFiles"`
	SkippedDirs  int       `json:"skippedDirs"`
	SkippedFiles int       `json:"skippedFiles"`
	ErrorCode    ErrorCode `json:"errorCode,omitempty"`

	// Err is the storage error behind ErrFS.
	Err error `json:"-"`
}

// Skipped is the total of skipped directories and files.
func (r Result) Skipped() int {
	return r.SkippedDirs + r.SkippedFiles
}

// ledger remembers, for one run, which directories and files have already
// been classified. Keys are folded absolute paths.
type ledger struct {
	fold  func(string) string
	dirs  map[string]struct{}
	files map[string]struct{}
}

func newLedger(fold func(string) string) *ledger {
	return &ledger{fold: fold, dirs: map[string]struct{}{}, files: map[string]struct{}{}}
}

func (l *ledger) hasDir(p string) bool {
	_, ok := l.dirs[l.fold(p)]
	return ok
}

func (l *ledger) addDir(p string) {
	l.dirs[l.fold(p)] = struct{}{}
}

func (l *ledger) hasFile(p string) bool {
	_, ok := l.files[l.fold(p)]
	return ok
}

func (l *ledger) addFile(p string) {
	l.files[l.fold(p)] = struct{}{}
}
