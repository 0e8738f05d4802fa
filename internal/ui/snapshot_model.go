package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/oakwood-commons/jvp/pkg/core"
)

// SnapshotConfig configures a one-shot render of the viewer.
type SnapshotConfig struct {
	Options
	StartKeys  []string
	HideFooter bool
}

// RenderSnapshot renders the screen the viewer would show after the start
// keys were pressed, without a terminal.
func RenderSnapshot(s *core.Session, cfg SnapshotConfig) string {
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultHeight
	}
	m := New(s, cfg.Options)
	ApplyStartupKeys(m, cfg.StartKeys)
	view := m.Render()
	if cfg.HideFooter {
		lines := strings.Split(view, "\n")
		view = strings.Join(lines[:len(lines)-1], "\n")
	}
	if cfg.NoColor {
		view = ansi.Strip(view)
	}
	return view
}
