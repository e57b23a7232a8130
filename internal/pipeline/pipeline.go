// Package pipeline is the request/response boundary around the parser,
// validator and synthesizer. Callers never receive Go errors from it: every
// outcome is expressed as a response value with an error code.
package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"

	"github.com/eykd/structgen-go/internal/logging"
	"github.com/eykd/structgen-go/internal/pathsafe"
	"github.com/eykd/structgen-go/internal/synth"
	"github.com/eykd/structgen-go/internal/validate"
)

// ErrorCode classifies a refused or failed generate request.
type ErrorCode string

const (
	ErrNoRoot     ErrorCode = "NO_ROOT"
	ErrValidation ErrorCode = "VALIDATION_ERROR"
	ErrFS         ErrorCode = ErrorCode(synth.ErrFS)
)

// GenerateRequest asks for input to be materialized below RootDir.
type GenerateRequest struct {
	Input   string `json:"input"`
	RootDir string `json:"rootDir"`
}

// ValidateRequest asks for input to be checked; RootDir is optional.
type ValidateRequest struct {
	Input   string `json:"input"`
	RootDir string `json:"rootDir,omitempty"`
}

// ProbeRequest asks which of Paths, relative to RootDir, already exist.
type ProbeRequest struct {
	RootDir string   `json:"rootDir"`
	Paths   []string `json:"paths"`
}

// Counts is the created/skipped accounting of a run.
type Counts struct {
	CreatedDirs  int `json:"createdDirs" yaml:"createdDirs"`
	CreatedFiles int `json:"createdFiles" yaml:"createdFiles"`
	Skipped      int `json:"skipped" yaml:"skipped"`
	SkippedDirs  int `json:"skippedDirs" yaml:"skippedDirs"`
	SkippedFiles int `json:"skippedFiles" yaml:"skippedFiles"`
}

// GenerateResponse reports the outcome of Generate. Counts is set on
// success and on ErrFS; Validation is set on ErrValidation.
type GenerateResponse struct {
	Success    bool             `json:"success"`
	ErrorCode  ErrorCode        `json:"errorCode,omitempty"`
	Validation *validate.Result `json:"validation,omitempty"`
	*Counts
	RunID string `json:"runId,omitempty"`
}

// Service runs requests against one filesystem.
type Service struct {
	fs       afero.Fs
	log      *slog.Logger
	fold     pathsafe.FoldFunc
	maxPath  int
	dirPerm  os.FileMode
	filePerm os.FileMode
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithFold sets the case-folding policy used for existence checks.
func WithFold(fold pathsafe.FoldFunc) Option {
	return func(s *Service) { s.fold = fold }
}

// WithMaxFullPathLength overrides the full-path limit used when validating.
func WithMaxFullPathLength(n int) Option {
	return func(s *Service) { s.maxPath = n }
}

// WithPerms sets the modes of created directories and files.
func WithPerms(dir, file os.FileMode) Option {
	return func(s *Service) {
		s.dirPerm = dir
		s.filePerm = file
	}
}

// New returns a Service over fsys.
func New(fsys afero.Fs, opts ...Option) *Service {
	s := &Service{
		fs:       fsys,
		log:      logging.Discard(),
		fold:     pathsafe.DefaultFold,
		maxPath:  validate.DefaultMaxFullPathLength,
		dirPerm:  synth.DefaultDirPerm,
		filePerm: synth.DefaultFilePerm,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ResolveRoot expands a leading "~" and makes root absolute.
func ResolveRoot(root string) (string, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return "", fmt.Errorf("no root directory")
	}
	expanded, err := homedir.Expand(root)
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", root, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", root, err)
	}
	return abs, nil
}

// Validate checks the request input. A root that cannot be resolved is
// reported as an internal validation error rather than ignored.
func (s *Service) Validate(req ValidateRequest) validate.Result {
	opts := validate.Options{MaxFullPathLength: s.maxPath}
	if strings.TrimSpace(req.RootDir) != "" {
		root, err := ResolveRoot(req.RootDir)
		if err != nil {
			s.log.Warn("validation root unusable", "root", req.RootDir, "err", err)
			return validate.Internal(req.Input, err)
		}
		opts.RootDir = root
	}
	res := validate.Validate(req.Input, opts)
	for _, e := range res.Errors {
		if e.Code == validate.CodeInternal {
			s.log.Error("validation faulted", "detail", e.Detail)
		}
	}
	return res
}

// Generate validates the input against the resolved root and, only when no
// diagnostics exist, materializes it.
func (s *Service) Generate(req GenerateRequest) GenerateResponse {
	runID := uuid.NewString()
	log := s.log.With("run_id", runID)

	if strings.TrimSpace(req.RootDir) == "" {
		return GenerateResponse{Success: false, ErrorCode: ErrNoRoot, RunID: runID}
	}
	root, err := ResolveRoot(req.RootDir)
	if err != nil {
		log.Warn("root unusable", "root", req.RootDir, "err", err)
		return GenerateResponse{Success: false, ErrorCode: ErrNoRoot, RunID: runID}
	}

	v := validate.Validate(req.Input, validate.Options{RootDir: root, MaxFullPathLength: s.maxPath})
	if !v.IsValid {
		log.Info("generation refused", "errors", len(v.Errors), "lines", v.ErrorLines())
		return GenerateResponse{Success: false, ErrorCode: ErrValidation, Validation: &v, RunID: runID}
	}

	sy := synth.New(s.fs,
		synth.WithFold(s.fold),
		synth.WithLogger(logging.Sub(log, "synth")),
		synth.WithPerms(s.dirPerm, s.filePerm),
	)
	res := sy.Synthesize(v.Parsed, root)
	counts := &Counts{
		CreatedDirs:  res.CreatedDirs,
		CreatedFiles: res.CreatedFiles,
		Skipped:      res.Skipped(),
		SkippedDirs:  res.SkippedDirs,
		SkippedFiles: res.SkippedFiles,
	}
	if !res.Success {
		log.Error("generation failed", "root", root, "err", res.Err)
		return GenerateResponse{Success: false, ErrorCode: ErrFS, Counts: counts, RunID: runID}
	}
	log.Info("structure generated", "root", root,
		"created_dirs", counts.CreatedDirs, "created_files", counts.CreatedFiles,
		"skipped_dirs", counts.SkippedDirs, "skipped_files", counts.SkippedFiles)
	return GenerateResponse{Success: true, Counts: counts, RunID: runID}
}

// CheckPaths reports, for each relative path, whether it exists below the
// root ignoring case. Paths resolving outside the root always map to false.
func (s *Service) CheckPaths(req ProbeRequest) map[string]bool {
	result := map[string]bool{}
	if strings.TrimSpace(req.RootDir) == "" || req.Paths == nil {
		return result
	}
	root, err := ResolveRoot(req.RootDir)
	if err != nil {
		s.log.Warn("probe root unusable", "root", req.RootDir, "err", err)
		return result
	}

	resolver := pathsafe.NewResolver(s.fs, s.fold)
	for _, rel := range req.Paths {
		full := pathsafe.Join(root, filepath.FromSlash(rel))
		if !pathsafe.Inside(root, full) {
			result[rel] = false
			continue
		}
		ok, err := resolver.Exists(root, full)
		if err != nil {
			s.log.Warn("probe failed", "path", rel, "err", err)
		}
		result[rel] = ok && err == nil
	}
	return result
}

// StatusLine renders a one-line summary of a successful response.
func (c Counts) StatusLine() string {
	return fmt.Sprintf("Created dirs: %d files: %d | Skipped dirs: %d files: %d",
		c.CreatedDirs, c.CreatedFiles, c.SkippedDirs, c.SkippedFiles)
}
