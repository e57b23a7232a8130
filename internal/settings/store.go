// Package settings persists user preferences (default root, language, theme)
// as JSON and caches them until the backing file changes.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// FileName is the settings file kept inside a location directory.
const FileName = "structgen-settings.json"

// Settings are the persisted user preferences.
type Settings struct {
	RootDir  string `json:"rootDir" yaml:"rootDir"`
	Language string `json:"language" yaml:"language"`
	Theme    string `json:"theme" yaml:"theme"`
}

// Defaults returns the settings used when nothing has been saved yet.
func Defaults() Settings {
	return Settings{RootDir: "", Language: "lt", Theme: "light"}
}

// Patch is a partial update; nil fields keep their current value.
type Patch struct {
	RootDir  *string
	Language *string
	Theme    *string
}

// Apply returns s with every non-nil field of p written over it.
func (p Patch) Apply(s Settings) Settings {
	if p.RootDir != nil {
		s.RootDir = *p.RootDir
	}
	if p.Language != nil {
		s.Language = *p.Language
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	return s
}

// Path returns the settings file for a location directory.
func Path(location string) string {
	return filepath.Join(location, FileName)
}

// Store reads and writes settings through an afero.Fs. Reads are cached and
// the cache is dropped whenever the location or the file's modification
// time changes. A Store is safe for concurrent use.
type Store struct {
	fs  afero.Fs
	log *slog.Logger

	mu       sync.Mutex
	cached   *Settings
	location string
	modTime  time.Time
}

// NewStore returns a Store over fsys. A nil logger discards output.
func NewStore(fsys afero.Fs, log *slog.Logger) *Store {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{fs: fsys, log: log}
}

// Load returns the settings stored at location. A missing file yields
// Defaults. An unreadable or malformed file is logged and also yields
// Defaults, so callers always get usable settings; only unexpected stat
// failures are returned as errors.
func (s *Store) Load(location string) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := Path(location)
	var stamp time.Time
	info, err := s.fs.Stat(path)
	switch {
	case err == nil:
		stamp = info.ModTime()
	case errors.Is(err, fs.ErrNotExist):
	default:
		return Defaults(), fmt.Errorf("stat %s: %w", path, err)
	}

	if s.cached != nil && s.location == location && s.modTime.Equal(stamp) {
		return *s.cached, nil
	}

	loaded := Defaults()
	if info != nil {
		loaded = s.read(path)
	}
	s.remember(location, stamp, loaded)
	return loaded, nil
}

func (s *Store) read(path string) Settings {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		s.log.Warn("failed to read settings", "path", path, "err", err)
		return Defaults()
	}
	loaded := Defaults()
	if err := json.Unmarshal(data, &loaded); err != nil {
		s.log.Warn("failed to parse settings", "path", path, "err", err)
		return Defaults()
	}
	return loaded
}

func (s *Store) remember(location string, stamp time.Time, st Settings) {
	s.cached = &st
	s.location = location
	s.modTime = stamp
}

// Save writes st to location atomically and refreshes the cache with the
// new modification time.
func (s *Store) Save(location string, st Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(location, st)
}

func (s *Store) save(location string, st Settings) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := s.fs.MkdirAll(location, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", location, err)
	}
	path := Path(location)
	if err := writeFileAtomic(s.fs, path, data); err != nil {
		return err
	}
	info, err := s.fs.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	s.remember(location, info.ModTime(), st)
	return nil
}

// Merge loads the current settings, applies p and saves the result.
func (s *Store) Merge(location string, p Patch) (Settings, error) {
	current, err := s.Load(location)
	if err != nil {
		return current, err
	}
	merged := p.Apply(current)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.save(location, merged); err != nil {
		return current, err
	}
	return merged, nil
}

// writeFileAtomic writes data via a temp file in the same directory and
// renames it over path.
func writeFileAtomic(fsys afero.Fs, path string, data []byte) error {
	tmp, err := afero.TempFile(fsys, filepath.Dir(path), ".settings-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = fsys.Chmod(tmpName, 0o600); err != nil {
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err = fsys.Rename(tmpName, path); err != nil {
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
