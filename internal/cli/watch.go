package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const watchDebounce = 200 * time.Millisecond

func newWatchCmd() *cobra.Command {
	var o overrides
	cmd := &cobra.Command{
		Use:   "watch <scenario>",
		Short: "Re-run a scenario every time its file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			out := cmd.OutOrStdout()
			ctx := commandContext(cmd)

			render := func() error {
				sc, err := loadScenario(cmd, path, &o)
				if err != nil {
					return err
				}
				run, err := newRunner().Execute(ctx, sc)
				if err != nil {
					return err
				}
				printRun(out, run)
				return nil
			}

			if err := render(); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
			return watchFile(ctx, path, func() {
				fmt.Fprintf(out, "\n-- reloaded %s at %s --\n\n", filepath.Base(path), time.Now().Format(time.TimeOnly))
				if err := render(); err != nil {
					fmt.Fprintf(out, "error: %v\n", err)
				}
			}, out)
		},
	}
	o.bind(cmd)
	return cmd
}

// watchFile calls onChange after each burst of writes to path until ctx ends.
// The parent directory is watched so editors that replace the file still trigger.
func watchFile(ctx context.Context, path string, onChange func(), errOut io.Writer) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}
	logger.Debug("watching", "path", abs)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if name, err := filepath.Abs(event.Name); err != nil || name != abs {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			onChange()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(errOut, "watch error: %v\n", err)
		}
	}
}
