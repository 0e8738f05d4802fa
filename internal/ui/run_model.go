package ui

import (
	"context"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/oakwood-commons/jvp/internal/watcher"
	"github.com/oakwood-commons/jvp/pkg/core"
	"github.com/oakwood-commons/jvp/pkg/loader"
)

// RunOptions configures an interactive session.
type RunOptions struct {
	Options
	// StartKeys are applied before the first frame, see ApplyStartupKeys.
	StartKeys []string
	// WatchPath reloads the document whenever the file changes.
	WatchPath     string
	WatchDebounce time.Duration
	// ProgramOptions are passed to tea.NewProgram (custom IO, etc).
	ProgramOptions []tea.ProgramOption
}

// Run starts the viewer and blocks until the user quits. Width/height of 0
// use the terminal size.
func Run(ctx context.Context, s *core.Session, opts RunOptions) error {
	popts := append([]tea.ProgramOption{tea.WithContext(ctx)}, opts.ProgramOptions...)
	if opts.Width > 0 || opts.Height > 0 {
		w, h := opts.Width, opts.Height
		if w <= 0 || h <= 0 {
			if tw, th, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				if w <= 0 {
					w = tw
				}
				if h <= 0 {
					h = th
				}
			}
		}
		if w <= 0 {
			w = defaultWidth
		}
		if h <= 0 {
			h = defaultHeight
		}
		opts.Width, opts.Height = w, h
		popts = append(popts, tea.WithWindowSize(w, h))
	}

	m := New(s, opts.Options)
	ApplyStartupKeys(m, opts.StartKeys)
	prog := tea.NewProgram(m, popts...)

	if opts.WatchPath != "" {
		w, err := newReloadWatcher(prog, opts.WatchPath, opts.WatchDebounce)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
		opts.Logger.V(1).Info("watching file", "path", opts.WatchPath, "polling", w.IsPolling())
	}

	_, err := prog.Run()
	return err
}

// sender is the part of tea.Program the watcher needs.
type sender interface {
	Send(tea.Msg)
}

func newReloadWatcher(to sender, path string, debounce time.Duration) (*watcher.Watcher, error) {
	return watcher.New(path,
		watcher.WithDebounce(debounce),
		watcher.WithOnChange(func() {
			raw, err := loader.ReadFile(path)
			if err != nil {
				to.Send(WatchErrorMsg{Err: err})
				return
			}
			to.Send(ReloadMsg{Raw: raw})
		}),
		watcher.WithOnError(func(err error) {
			to.Send(WatchErrorMsg{Err: err})
		}),
	)
}
