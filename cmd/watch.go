package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/eykd/structgen-go/internal/logging"
	"github.com/eykd/structgen-go/internal/pipeline"
	"github.com/eykd/structgen-go/internal/validate"
)

const watchDebounce = 200 * time.Millisecond

// WatchIO extends CommandIO with change notifications for a file.
type WatchIO interface {
	CommandIO
	// Watch starts delivering events for the directory holding path. stop
	// releases the watch and closes both channels.
	Watch(path string) (events <-chan fsnotify.Event, errs <-chan error, stop func() error, err error)
}

// NewWatchCmd creates the watch subcommand.
func NewWatchCmd(wio WatchIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "watch <file>",
		Short:        "Revalidate a structure file every time it changes",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			log := logging.FromContext(cmd.Context())

			events, errs, stop, err := wio.Watch(path)
			if err != nil {
				return fmt.Errorf("watching %s: %w", path, err)
			}
			defer stop() //nolint:errcheck

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			svc := newService(cmd, wio)
			root := targetRoot(cmd)
			check := func() {
				raw, err := wio.ReadInput(path)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
					return
				}
				res := svc.Validate(pipeline.ValidateRequest{Input: raw, RootDir: root})
				reportWatch(cmd.OutOrStdout(), path, res)
			}

			check()
			return watchLoop(ctx, events, errs, watchDebounce, filepath.Base(path), check, log)
		},
	}

	addTargetFlags(cmd)

	return cmd
}

func reportWatch(w io.Writer, path string, res validate.Result) {
	fmt.Fprintf(w, "%s %s\n", time.Now().Format(time.TimeOnly), sanitizeText(path))
	if res.IsValid {
		fmt.Fprintf(w, "ok: %d entries\n", len(res.Parsed))
		return
	}
	_ = validationFailure(w, res)
}

// watchLoop calls onChange once events for name have been quiet for
// interval. It returns when ctx is done or a channel closes.
func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error,
	interval time.Duration, name string, onChange func(), log *slog.Logger,
) error {
	timer := time.NewTimer(interval)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != name || ev.Op == fsnotify.Chmod {
				continue
			}
			log.Debug("change seen", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(interval)

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			log.Warn("watch error", "err", err)

		case <-timer.C:
			onChange()
		}
	}
}

// osWatchIO implements WatchIO with fsnotify.
type osWatchIO struct {
	CommandIO
}

func newDefaultWatchIO(cio CommandIO) *osWatchIO {
	return &osWatchIO{CommandIO: cio}
}

// Watch watches the directory of path so editors that replace the file
// on save keep being followed.
func (o *osWatchIO) Watch(path string) (<-chan fsnotify.Event, <-chan error, func() error, error) {
	return o.WatchImpl(path)
}

// WatchImpl creates the fsnotify watcher.
func (o *osWatchIO) WatchImpl(path string) (<-chan fsnotify.Event, <-chan error, func() error, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, nil, nil, err
	}
	return w.Events, w.Errors, w.Close, nil
}
