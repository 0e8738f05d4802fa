package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/oakwood-commons/jvp/internal/config"
	"github.com/oakwood-commons/jvp/internal/formatter"
	"github.com/oakwood-commons/jvp/internal/ui"
	"github.com/oakwood-commons/jvp/pkg/core"
	"github.com/oakwood-commons/jvp/pkg/tree"
)

const (
	defaultFallbackTermWidth  = 120
	defaultFallbackTermHeight = 40
)

var (
	stdinIsPiped   = func() bool { stat, _ := os.Stdin.Stat(); return stat != nil && (stat.Mode()&os.ModeCharDevice) == 0 }
	isTerminal     = func(w io.Writer) bool {
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd()))
	}
)

// normalizeFlagName accepts underscores in flag names (--no_color).
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// resolveSource picks the document to read: the argument when given,
// otherwise stdin if something is piped in.
func resolveSource(args []string, piped bool) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}
	if piped {
		return core.StdinSource, nil
	}
	return "", errShowHelp
}

func copyKind(what string) (core.CopyKind, error) {
	switch strings.ToLower(strings.TrimSpace(what)) {
	case "", "path":
		return core.CopyPath, nil
	case "value":
		return core.CopyValue, nil
	case "all":
		return core.CopyAll, nil
	default:
		return 0, fmt.Errorf("invalid --copy %q (expected path, value or all)", what)
	}
}

// resolveTheme turns the --theme flag (or viewer.theme) into a palette.
func resolveTheme(cfg config.File, flagTheme string, darkBackground func() bool) (ui.Theme, string, bool, error) {
	mode := cfg.Viewer.Theme
	if strings.TrimSpace(flagTheme) != "" {
		mode = flagTheme
	}
	name, dark, err := cfg.ResolveTheme(mode, darkBackground)
	if err != nil {
		return ui.Theme{}, "", false, err
	}
	tc, ok := cfg.Themes[name]
	if !ok {
		return ui.Theme{}, "", false, fmt.Errorf("%w %q (available: %s)", config.ErrUnknownTheme, name, strings.Join(cfg.ThemeNames(), ", "))
	}
	return ui.ThemeFromConfig(tc), name, dark, nil
}

func treeOptions(o *rootOptions, s *core.Session, th ui.Theme, colored bool) formatter.TreeOptions {
	opts := formatter.TreeOptions{ExpandAll: o.expandAll, MaxDepth: o.depth}
	if colored && s.Query != "" {
		style := lipgloss.NewStyle().Foreground(th.MatchFG).Background(th.MatchBG).Bold(true)
		opts.Highlight = func(text string) string { return style.Render(text) }
	}
	return opts
}

// renderOutput prints node in one of the non-interactive formats.
func renderOutput(w io.Writer, s *core.Session, node *tree.Node, format string, opts formatter.TreeOptions) error {
	switch format {
	case outputRaw:
		text, err := formatter.Pretty(node.Value)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, text)
		return err
	case outputPaths:
		_, err := io.WriteString(w, formatter.RenderPaths(node, s.Query != ""))
		return err
	case outputSize:
		_, err := fmt.Fprintln(w, s.SizeLabel())
		return err
	default:
		_, err := io.WriteString(w, formatter.RenderTree(node, opts))
		return err
	}
}

func detectTerminalSize() (int, int) {
	for _, fd := range []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()} {
		if w, h, err := term.GetSize(int(fd)); err == nil && w > 0 && h > 0 {
			return w, h
		}
	}
	w, h := defaultFallbackTermWidth, defaultFallbackTermHeight
	if col, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && col > 0 {
		w = col
	}
	if lines, err := strconv.Atoi(os.Getenv("LINES")); err == nil && lines > 0 {
		h = lines
	}
	return w, h
}
