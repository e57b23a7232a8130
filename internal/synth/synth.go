package synth

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/eykd/structgen-go/internal/pathsafe"
	"github.com/eykd/structgen-go/internal/structure"
)

// Default permissions for created directories and files.
const (
	DefaultDirPerm  os.FileMode = 0o755
	DefaultFilePerm os.FileMode = 0o644
)

// Synthesizer creates directories and files on an afero.Fs.
// It is not safe for concurrent use by multiple runs against one root.
type Synthesizer struct {
	fs       afero.Fs
	fold     pathsafe.FoldFunc
	log      *slog.Logger
	dirPerm  os.FileMode
	filePerm os.FileMode
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithFold sets the case-folding policy for existence checks and the ledger.
func WithFold(fold pathsafe.FoldFunc) Option {
	return func(s *Synthesizer) { s.fold = fold }
}

// WithLogger sets the logger used for per-path debug records and faults.
func WithLogger(l *slog.Logger) Option {
	return func(s *Synthesizer) { s.log = l }
}

// WithPerms sets the modes for newly created directories and files.
func WithPerms(dir, file os.FileMode) Option {
	return func(s *Synthesizer) {
		s.dirPerm = dir
		s.filePerm = file
	}
}

// New returns a Synthesizer over fsys.
func New(fsys afero.Fs, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		fs:       fsys,
		fold:     pathsafe.DefaultFold,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		dirPerm:  DefaultDirPerm,
		filePerm: DefaultFilePerm,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Synthesize materializes entries below rootDir, which must be absolute.
// Paths that already exist, ignoring case, are counted as skipped and left
// untouched. A path that resolves outside rootDir is never created.
// The first storage error aborts the run; nothing created before it is
// rolled back.
func (s *Synthesizer) Synthesize(entries []structure.Entry, rootDir string) Result {
	r := &run{
		s:        s,
		root:     filepath.Clean(rootDir),
		resolver: pathsafe.NewResolver(s.fs, s.fold),
		ledger:   newLedger(s.fold),
	}
	for _, e := range entries {
		if err := r.entry(e); err != nil {
			s.log.Error("synthesis aborted", "line", e.Line, "err", err)
			r.res.ErrorCode = ErrFS
			r.res.Err = err
			return r.res
		}
	}
	r.res.Success = true
	return r.res
}

// run holds the state of a single Synthesize call.
type run struct {
	s        *Synthesizer
	root     string
	resolver *pathsafe.Resolver
	ledger   *ledger
	res      Result
}

func (r *run) entry(e structure.Entry) error {
	dir := pathsafe.Join(r.root, e.Directory...)
	if !pathsafe.Inside(r.root, dir) {
		// The directory and its files move or fail together.
		r.res.SkippedDirs++
		r.res.SkippedFiles += len(e.Files)
		r.s.log.Debug("outside root", "dir", dir, "line", e.Line)
		return nil
	}
	if !e.IsRoot() {
		if err := r.directory(dir); err != nil {
			return err
		}
	}
	for _, name := range e.Files {
		if err := r.file(pathsafe.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

// directory classifies every component between root and target before
// creating anything, creates the whole chain with one MkdirAll, then
// attributes every still unclassified component to this run.
func (r *run) directory(target string) error {
	canonical, targetExists, err := r.resolver.Lookup(r.root, target)
	if err != nil {
		return err
	}

	chain := r.chain(target)
	for _, p := range chain {
		if r.ledger.hasDir(p) {
			continue
		}
		ok, err := r.resolver.Exists(r.root, p)
		if err != nil {
			return err
		}
		if ok {
			r.res.SkippedDirs++
			r.ledger.addDir(p)
			r.s.log.Debug("dir exists", "path", p)
		}
	}
	if targetExists {
		return nil
	}

	if err := r.s.fs.MkdirAll(canonical, r.s.dirPerm); err != nil {
		return fmt.Errorf("mkdir %s: %w", canonical, err)
	}
	for _, p := range chain {
		if r.ledger.hasDir(p) {
			continue
		}
		r.res.CreatedDirs++
		r.ledger.addDir(p)
		r.s.log.Debug("dir created", "path", p)
	}
	return nil
}

// chain lists the absolute paths from the first component below root down
// to target. Root itself is never part of the chain.
func (r *run) chain(target string) []string {
	segments := pathsafe.RelSegments(r.root, target)
	paths := make([]string, len(segments))
	for i := range segments {
		paths[i] = pathsafe.Join(r.root, segments[:i+1]...)
	}
	return paths
}

func (r *run) file(target string) error {
	if !pathsafe.Inside(r.root, target) || target == r.root {
		r.res.SkippedFiles++
		r.s.log.Debug("outside root", "file", target)
		return nil
	}
	if r.ledger.hasFile(target) {
		return nil
	}

	canonical, exists, err := r.resolver.Lookup(r.root, target)
	if err != nil {
		return err
	}
	if exists {
		r.res.SkippedFiles++
		r.ledger.addFile(target)
		r.s.log.Debug("file exists", "path", target)
		return nil
	}

	f, err := r.s.fs.OpenFile(canonical, os.O_CREATE|os.O_EXCL|os.O_WRONLY, r.s.filePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			// Created by someone else since the lookup.
			r.res.SkippedFiles++
			r.ledger.addFile(target)
			return nil
		}
		return fmt.Errorf("create %s: %w", canonical, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", canonical, err)
	}
	r.res.CreatedFiles++
	r.ledger.addFile(target)
	r.s.log.Debug("file created", "path", target)
	return nil
}
