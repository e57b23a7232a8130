package pathsafe

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"

	"github.com/spf13/afero"
)

// Resolver looks paths up on an afero.Fs, matching each component
// case-insensitively when no exact match exists.
type Resolver struct {
	fs   afero.Fs
	fold FoldFunc
}

// NewResolver returns a Resolver over fsys. A nil fold uses DefaultFold.
func NewResolver(fsys afero.Fs, fold FoldFunc) *Resolver {
	if fold == nil {
		fold = DefaultFold
	}
	return &Resolver{fs: fsys, fold: fold}
}

// Fold exposes the resolver's comparison key function.
func (r *Resolver) Fold(s string) string {
	return r.fold(s)
}

// Lookup resolves target below root. The returned path carries the on-disk
// casing of every component that exists, followed by the remaining
// components as given. exists is true when every component was found.
// Only unexpected storage errors are returned; missing paths are not errors.
func (r *Resolver) Lookup(root, target string) (canonical string, exists bool, err error) {
	segments := RelSegments(root, target)
	cur := Join(root)

	if _, err := r.fs.Stat(cur); err != nil {
		if isMissing(err) {
			return Join(cur, segments...), false, nil
		}
		return "", false, fmt.Errorf("stat %s: %w", cur, err)
	}

	for i, seg := range segments {
		next := Join(cur, seg)
		_, err := r.fs.Stat(next)
		if err == nil {
			cur = next
			continue
		}
		if !isMissing(err) {
			return "", false, fmt.Errorf("stat %s: %w", next, err)
		}

		name, found, err := r.matchFold(cur, seg)
		if err != nil {
			return "", false, err
		}
		if !found {
			return Join(cur, segments[i:]...), false, nil
		}
		cur = Join(cur, name)
	}
	return cur, true, nil
}

// Exists reports whether target exists below root, ignoring case.
func (r *Resolver) Exists(root, target string) (bool, error) {
	_, ok, err := r.Lookup(root, target)
	return ok, err
}

// matchFold scans dir for an entry whose folded name equals the folded seg.
func (r *Resolver) matchFold(dir, seg string) (string, bool, error) {
	info, err := r.fs.Stat(dir)
	if err != nil {
		if isMissing(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return "", false, nil
	}
	infos, err := afero.ReadDir(r.fs, dir)
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", dir, err)
	}
	want := r.fold(seg)
	for _, fi := range infos {
		if r.fold(fi.Name()) == want {
			return fi.Name(), true, nil
		}
	}
	return "", false, nil
}

// isMissing treats "not a directory" like "not found": a path below a file
// cannot exist.
func isMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
