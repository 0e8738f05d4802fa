package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// binding is one footer help entry.
type binding struct {
	keys  string
	label string
}

var treeBindings = []binding{
	{"↑↓", "move"},
	{"⏎", "toggle"},
	{"/", "search"},
	{"n/N", "match"},
	{"y", "path"},
	{"c", "value"},
	{"Y", "all"},
	{"E/C", "expand/collapse"},
	{"o", "open"},
	{"r", "raw"},
	{"q", "quit"},
}

var rawBindings = []binding{
	{"↑↓", "scroll"},
	{"g/G", "top/bottom"},
	{"Y", "copy"},
	{"r", "tree"},
	{"q", "quit"},
}

var searchBindings = []binding{
	{"⏎", "first match"},
	{"esc", "done"},
	{"ctrl+c", "quit"},
}

// footerView renders the help line for the current mode.
func footerView(bs []binding, width int, st styles) string {
	parts := make([]string, 0, len(bs))
	for _, b := range bs {
		parts = append(parts, b.keys+" "+b.label)
	}
	line := ansi.Truncate(strings.Join(parts, "  "), width, "…")
	return st.footer.Render(line)
}
