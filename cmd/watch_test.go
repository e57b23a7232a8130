package cmd

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/eykd/structgen-go/internal/logging"
)

// mockWatchIO is a test double for WatchIO fed from test-owned channels.
type mockWatchIO struct {
	*mockIO
	events   chan fsnotify.Event
	errs     chan error
	watchErr error
	stopped  atomic.Bool
}

func (m *mockWatchIO) Watch(string) (<-chan fsnotify.Event, <-chan error, func() error, error) {
	if m.watchErr != nil {
		return nil, nil, nil, m.watchErr
	}
	return m.events, m.errs, func() error {
		m.stopped.Store(true)
		return nil
	}, nil
}

func TestWatchLoop_DebouncesBursts(t *testing.T) {
	events := make(chan fsnotify.Event)
	errs := make(chan error)
	calls := make(chan struct{}, 10)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watchLoop(ctx, events, errs, 50*time.Millisecond, "layout.txt",
			func() { calls <- struct{}{} }, logging.Discard())
	}()

	for i := 0; i < 5; i++ {
		events <- fsnotify.Event{Name: "/dir/layout.txt", Op: fsnotify.Write}
	}
	events <- fsnotify.Event{Name: "/dir/other.txt", Op: fsnotify.Write}
	events <- fsnotify.Event{Name: "/dir/layout.txt", Op: fsnotify.Chmod}
	errs <- errors.New("overflow")

	select {
	case <-calls:
	case <-time.After(2 * time.Second):
		t.Fatal("onChange was not called after the burst")
	}
	select {
	case <-calls:
		t.Error("burst produced more than one onChange")
	case <-time.After(150 * time.Millisecond):
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("watchLoop returned %v after cancel, want nil", err)
	}
}

func TestWatchLoop_ReturnsWhenEventsClose(t *testing.T) {
	events := make(chan fsnotify.Event)
	close(events)
	err := watchLoop(context.Background(), events, make(chan error), time.Millisecond, "f", func() {}, logging.Discard())
	if err != nil {
		t.Errorf("err = %v, want nil", err)
	}
}

func TestNewWatchCmd_ValidatesOnStartAndStops(t *testing.T) {
	m := &mockWatchIO{mockIO: newMockIO(t, ""), events: make(chan fsnotify.Event), errs: make(chan error)}
	m.inputs["layout.txt"] = "docs: CON.txt"
	close(m.events)

	out, _, err := execute(NewWatchCmd(m), "layout.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "layout.txt") || !strings.Contains(out, "1 error (line 1)") {
		t.Errorf("out = %q", out)
	}
	if !m.stopped.Load() {
		t.Error("watch was not stopped")
	}
}

func TestNewWatchCmd_WatchError(t *testing.T) {
	m := &mockWatchIO{mockIO: newMockIO(t, ""), watchErr: errors.New("no inotify")}
	_, _, err := execute(NewWatchCmd(m), "layout.txt")
	if err == nil || !strings.Contains(err.Error(), "watching layout.txt") {
		t.Errorf("err = %v", err)
	}
}
