package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// mockIO is a test double for CommandIO backed by an in-memory filesystem.
type mockIO struct {
	inputs  map[string]string
	readErr error
	fs      afero.Fs
	lastArg string
}

func newMockIO(t *testing.T, stdin string) *mockIO {
	t.Helper()
	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll("/work", 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	return &mockIO{inputs: map[string]string{"": stdin, "-": stdin}, fs: fsys}
}

func (m *mockIO) ReadInput(path string) (string, error) {
	m.lastArg = path
	if m.readErr != nil {
		return "", m.readErr
	}
	s, ok := m.inputs[path]
	if !ok {
		return "", os.ErrNotExist
	}
	return s, nil
}

func (m *mockIO) FS() afero.Fs {
	return m.fs
}

func (m *mockIO) exists(t *testing.T, path string) bool {
	t.Helper()
	ok, err := afero.Exists(m.fs, path)
	if err != nil {
		t.Fatalf("Exists(%s): %v", path, err)
	}
	return ok
}

// execute runs c with args and returns stdout, stderr and the error.
func execute(c *cobra.Command, args ...string) (string, string, error) {
	return executeContext(context.Background(), c, args...)
}

func executeContext(ctx context.Context, c *cobra.Command, args ...string) (string, string, error) {
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	c.SetOut(out)
	c.SetErr(errOut)
	c.SetArgs(args)
	err := c.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

var errRead = errors.New("read failed")
