package ui

import (
	"image/color"
	"sync"

	"charm.land/lipgloss/v2"
	"github.com/muesli/termenv"

	"github.com/oakwood-commons/jvp/internal/config"
)

// Theme defines the colors of the viewer.
type Theme struct {
	Key           color.Color // object keys and array indices
	String        color.Color
	Number        color.Color
	Boolean       color.Color
	Null          color.Color
	Link          color.Color // URL string leaves
	Bracket       color.Color
	Summary       color.Color // "3 keys", "1 item"
	Toggle        color.Color // ▼ / ▶ glyphs
	MatchFG       color.Color
	MatchBG       color.Color
	SelectedFG    color.Color
	SelectedBG    color.Color
	ToolbarFG     color.Color
	ToolbarBG     color.Color
	StatusSuccess color.Color
	StatusError   color.Color
	FooterFG      color.Color
}

var (
	themeMu      sync.RWMutex
	currentTheme = fallbackTheme()
)

func fallbackTheme() Theme {
	return Theme{
		Key:           lipgloss.Color("81"),
		String:        lipgloss.Color("114"),
		Number:        lipgloss.Color("215"),
		Boolean:       lipgloss.Color("176"),
		Null:          lipgloss.Color("244"),
		Link:          lipgloss.Color("75"),
		Bracket:       lipgloss.Color("250"),
		Summary:       lipgloss.Color("244"),
		Toggle:        lipgloss.Color("244"),
		MatchFG:       lipgloss.Color("16"),
		MatchBG:       lipgloss.Color("220"),
		SelectedFG:    lipgloss.Color("250"),
		SelectedBG:    lipgloss.Color("24"),
		ToolbarFG:     lipgloss.Color("252"),
		ToolbarBG:     lipgloss.Color("236"),
		StatusSuccess: lipgloss.Color("114"),
		StatusError:   lipgloss.Color("203"),
		FooterFG:      lipgloss.Color("244"),
	}
}

// ThemeFromConfig builds a Theme, keeping the fallback color for every
// empty entry.
func ThemeFromConfig(cfg config.ThemeConfig) Theme {
	th := fallbackTheme()
	set := func(val config.ColorValue, dst *color.Color) {
		if val != "" {
			*dst = lipgloss.Color(string(val))
		}
	}
	set(cfg.Key, &th.Key)
	set(cfg.String, &th.String)
	set(cfg.Number, &th.Number)
	set(cfg.Boolean, &th.Boolean)
	set(cfg.Null, &th.Null)
	set(cfg.Link, &th.Link)
	set(cfg.Bracket, &th.Bracket)
	set(cfg.Summary, &th.Summary)
	set(cfg.Toggle, &th.Toggle)
	set(cfg.MatchFG, &th.MatchFG)
	set(cfg.MatchBG, &th.MatchBG)
	set(cfg.SelectedFG, &th.SelectedFG)
	set(cfg.SelectedBG, &th.SelectedBG)
	set(cfg.ToolbarFG, &th.ToolbarFG)
	set(cfg.ToolbarBG, &th.ToolbarBG)
	set(cfg.StatusSuccess, &th.StatusSuccess)
	set(cfg.StatusError, &th.StatusError)
	set(cfg.FooterFG, &th.FooterFG)
	return th
}

// SetTheme overrides the global theme.
func SetTheme(t Theme) {
	themeMu.Lock()
	defer themeMu.Unlock()
	currentTheme = t
}

// CurrentTheme returns the active theme.
func CurrentTheme() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// HasDarkBackground queries the terminal for its background color. It is
// the probe used by the "auto" theme mode.
func HasDarkBackground() bool {
	return termenv.HasDarkBackground()
}

// styles is the set of lipgloss styles derived from a theme. With noColor
// every style is empty.
type styles struct {
	key, str, num, boolean, null, link lipgloss.Style
	bracket, summary, toggle           lipgloss.Style
	match, selected                    lipgloss.Style
	toolbar, success, failure, footer  lipgloss.Style
}

func newStyles(th Theme, noColor bool) styles {
	plain := lipgloss.NewStyle()
	if noColor {
		return styles{
			key: plain, str: plain, num: plain, boolean: plain, null: plain, link: plain,
			bracket: plain, summary: plain, toggle: plain,
			match: plain.Reverse(true), selected: plain.Reverse(true),
			toolbar: plain, success: plain, failure: plain, footer: plain,
		}
	}
	return styles{
		key:      plain.Foreground(th.Key),
		str:      plain.Foreground(th.String),
		num:      plain.Foreground(th.Number),
		boolean:  plain.Foreground(th.Boolean),
		null:     plain.Foreground(th.Null).Italic(true),
		link:     plain.Foreground(th.Link).Underline(true),
		bracket:  plain.Foreground(th.Bracket),
		summary:  plain.Foreground(th.Summary).Italic(true),
		toggle:   plain.Foreground(th.Toggle),
		match:    plain.Foreground(th.MatchFG).Background(th.MatchBG).Bold(true),
		selected: plain.Foreground(th.SelectedFG).Background(th.SelectedBG),
		toolbar:  plain.Foreground(th.ToolbarFG).Background(th.ToolbarBG),
		success:  plain.Foreground(th.StatusSuccess),
		failure:  plain.Foreground(th.StatusError).Bold(true),
		footer:   plain.Foreground(th.FooterFG),
	}
}
