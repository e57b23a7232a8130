package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

// maxInputBytes caps how much structure text a single command reads.
const maxInputBytes = 4 << 20

// InputReader reads structure text for the parse command.
type InputReader interface {
	// ReadInput returns the text at path. An empty path or "-" reads stdin.
	ReadInput(path string) (string, error)
}

// CommandIO is the I/O surface of the commands that touch the target tree.
type CommandIO interface {
	InputReader
	// FS is the filesystem structures are probed and created on.
	FS() afero.Fs
}

// osCommandIO implements CommandIO against the real filesystem and stdin.
// *Impl methods wrap OS calls and are excluded from coverage requirements.
type osCommandIO struct {
	stdin io.Reader
	fs    afero.Fs
}

func newDefaultCommandIO() *osCommandIO {
	return &osCommandIO{stdin: os.Stdin, fs: afero.NewOsFs()}
}

// ReadInput reads the structure text at path or from stdin.
func (o *osCommandIO) ReadInput(path string) (string, error) {
	return o.ReadInputImpl(path)
}

// ReadInputImpl reads at most maxInputBytes from the file or stdin.
func (o *osCommandIO) ReadInputImpl(path string) (string, error) {
	if path == "" || path == "-" {
		return readLimited(o.stdin, "stdin")
	}
	f, err := o.fs.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return readLimited(f, path)
}

// FS returns the OS-backed filesystem.
func (o *osCommandIO) FS() afero.Fs {
	return o.fs
}

func readLimited(r io.Reader, name string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxInputBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	if len(data) > maxInputBytes {
		return "", fmt.Errorf("%s exceeds %d bytes", name, maxInputBytes)
	}
	return string(data), nil
}

// inputArg returns the optional single input argument.
func inputArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
