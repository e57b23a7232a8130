package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eykd/structgen-go/internal/logging"
)

func TestNew_ConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New(logging.Options{Level: slog.LevelWarn, Console: &buf})
	l.Info("hidden")
	l.Warn("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "k=v")
}

func TestNew_FileKeepsDebugRecords(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	l := logging.New(logging.Options{Level: slog.LevelError, Console: &buf, Dir: dir})
	logging.Sub(l, "synth").Debug("dir created", "path", "/x")

	assert.Empty(t, buf.String())
	data, err := os.ReadFile(filepath.Join(dir, logging.LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "dir created")
	assert.Contains(t, string(data), "comp=synth")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelWarn, false},
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", 0, true},
	}
	for _, tt := range tests {
		got, err := logging.ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New(logging.Options{Level: slog.LevelInfo, Console: &buf})
	ctx := logging.WithLogger(context.Background(), l)
	logging.FromContext(ctx).Info("hello")
	assert.Contains(t, buf.String(), "hello")

	assert.NotNil(t, logging.FromContext(context.Background()))
}
