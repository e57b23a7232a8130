package pipeline_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eykd/structgen-go/internal/pipeline"
	"github.com/eykd/structgen-go/internal/validate"
)

var root = filepath.Join(string(filepath.Separator), "work")

func newService(t *testing.T) (*pipeline.Service, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll(root, 0o755))
	return pipeline.New(fsys), fsys
}

func TestGenerate_NoRoot(t *testing.T) {
	svc, _ := newService(t)
	resp := svc.Generate(pipeline.GenerateRequest{Input: "a", RootDir: "  "})
	assert.False(t, resp.Success)
	assert.Equal(t, pipeline.ErrNoRoot, resp.ErrorCode)
	assert.Nil(t, resp.Counts)
	assert.Nil(t, resp.Validation)
}

func TestGenerate_ScenariosIdempotent(t *testing.T) {
	svc, _ := newService(t)
	req := pipeline.GenerateRequest{Input: "src: x.txt, y.txt", RootDir: root}

	first := svc.Generate(req)
	require.True(t, first.Success)
	require.NotNil(t, first.Counts)
	assert.Equal(t, pipeline.Counts{CreatedDirs: 1, CreatedFiles: 2}, *first.Counts)

	second := svc.Generate(req)
	require.True(t, second.Success)
	assert.Equal(t, pipeline.Counts{Skipped: 3, SkippedDirs: 1, SkippedFiles: 2}, *second.Counts)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestGenerate_PreexistingAncestor(t *testing.T) {
	svc, fsys := newService(t)
	require.NoError(t, fsys.Mkdir(filepath.Join(root, "a"), 0o755))

	resp := svc.Generate(pipeline.GenerateRequest{Input: "a/b/c: f.txt", RootDir: root})
	require.True(t, resp.Success)
	assert.Equal(t, 2, resp.CreatedDirs)
	assert.Equal(t, 1, resp.SkippedDirs)
	assert.Equal(t, 1, resp.CreatedFiles)
}

func TestGenerate_ValidationRefused(t *testing.T) {
	svc, fsys := newService(t)
	resp := svc.Generate(pipeline.GenerateRequest{Input: "docs: CON.txt", RootDir: root})

	assert.False(t, resp.Success)
	assert.Equal(t, pipeline.ErrValidation, resp.ErrorCode)
	require.NotNil(t, resp.Validation)
	require.Len(t, resp.Validation.Errors, 1)
	assert.Equal(t, validate.CodeReservedName, resp.Validation.Errors[0].Code)
	assert.Equal(t, 1, resp.Validation.Errors[0].Line)
	assert.Nil(t, resp.Counts)

	docs, err := afero.Exists(fsys, filepath.Join(root, "docs"))
	require.NoError(t, err)
	assert.False(t, docs, "fail closed: nothing is created when validation fails")
}

func TestGenerate_PathTooLongRefused(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll(root, 0o755))
	svc := pipeline.New(fsys, pipeline.WithMaxFullPathLength(12))

	resp := svc.Generate(pipeline.GenerateRequest{Input: "directory: f", RootDir: root})
	assert.Equal(t, pipeline.ErrValidation, resp.ErrorCode)
	require.NotNil(t, resp.Validation)
	assert.Equal(t, validate.CodePathTooLongDir, resp.Validation.Errors[0].Code)
}

func TestGenerate_RootLevelFile(t *testing.T) {
	svc, fsys := newService(t)
	resp := svc.Generate(pipeline.GenerateRequest{Input: ": x.txt", RootDir: root})
	require.True(t, resp.Success)
	assert.Equal(t, pipeline.Counts{CreatedFiles: 1}, *resp.Counts)

	ok, err := afero.Exists(fsys, filepath.Join(root, "x.txt"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGenerate_FSErrorCarriesPartialCounts(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, base.MkdirAll(filepath.Join(root, "a"), 0o755))
	svc := pipeline.New(afero.NewReadOnlyFs(base))

	resp := svc.Generate(pipeline.GenerateRequest{Input: "a\nb", RootDir: root})
	assert.False(t, resp.Success)
	assert.Equal(t, pipeline.ErrFS, resp.ErrorCode)
	require.NotNil(t, resp.Counts)
	assert.Equal(t, pipeline.Counts{Skipped: 1, SkippedDirs: 1}, *resp.Counts)
}

func TestGenerateResponse_JSONShape(t *testing.T) {
	svc, _ := newService(t)
	resp := svc.Generate(pipeline.GenerateRequest{Input: "src: x.txt", RootDir: root})

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, true, m["success"])
	assert.EqualValues(t, 1, m["createdDirs"])
	assert.EqualValues(t, 0, m["skipped"])
	assert.NotContains(t, m, "errorCode")
	assert.NotContains(t, m, "validation")

	refused := svc.Generate(pipeline.GenerateRequest{Input: "x"})
	data, err = json.Marshal(refused)
	require.NoError(t, err)
	m = map[string]any{}
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "NO_ROOT", m["errorCode"])
	assert.NotContains(t, m, "createdDirs")
}

func TestValidate_WithoutRoot(t *testing.T) {
	svc, _ := newService(t)
	res := svc.Validate(pipeline.ValidateRequest{Input: "a/b: c.txt"})
	assert.True(t, res.IsValid)
	assert.Len(t, res.Parsed, 1)
}

func TestValidate_UnusableRootIsInternalError(t *testing.T) {
	svc, _ := newService(t)
	res := svc.Validate(pipeline.ValidateRequest{Input: "a", RootDir: "~someoneelse/x"})
	assert.False(t, res.IsValid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, validate.CodeInternal, res.Errors[0].Code)
	assert.Len(t, res.Parsed, 1, "parsed entries are still returned")
}

func TestCheckPaths(t *testing.T) {
	svc, fsys := newService(t)
	require.NoError(t, fsys.MkdirAll(filepath.Join(root, "Src"), 0o755))
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(root, "Src", "main.go"), nil, 0o644))
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(filepath.Dir(root), "secret"), nil, 0o644))

	got := svc.CheckPaths(pipeline.ProbeRequest{
		RootDir: root,
		Paths:   []string{"Src", "src/MAIN.go", "src/missing", "../secret", "docs"},
	})
	assert.Equal(t, map[string]bool{
		"Src":         true,
		"src/MAIN.go": true,
		"src/missing": false,
		"../secret":   false,
		"docs":        false,
	}, got)
}

func TestCheckPaths_EmptyRequest(t *testing.T) {
	svc, _ := newService(t)
	assert.Empty(t, svc.CheckPaths(pipeline.ProbeRequest{Paths: []string{"a"}}))
	assert.Empty(t, svc.CheckPaths(pipeline.ProbeRequest{RootDir: root}))
}

func TestResolveRoot(t *testing.T) {
	got, err := pipeline.ResolveRoot(" " + root + " ")
	require.NoError(t, err)
	assert.Equal(t, root, got)

	_, err = pipeline.ResolveRoot("")
	assert.Error(t, err)
}

func TestCounts_StatusLine(t *testing.T) {
	c := pipeline.Counts{CreatedDirs: 1, CreatedFiles: 2, SkippedDirs: 3, SkippedFiles: 4}
	assert.Equal(t, "Created dirs: 1 files: 2 | Skipped dirs: 3 files: 4", c.StatusLine())
}
