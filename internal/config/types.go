// Package config holds the jvp configuration schema, the embedded defaults
// and the logic that merges a user file over them.
package config

import (
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Theme modes accepted by viewer.theme.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// File is the full configuration document.
type File struct {
	App    AppConfig              `yaml:"app" json:"app"`
	Viewer ViewerConfig           `yaml:"viewer" json:"viewer"`
	Themes map[string]ThemeConfig `yaml:"themes" json:"themes"`
}

// AppConfig carries descriptive metadata shown in help and version output.
type AppConfig struct {
	About AboutConfig `yaml:"about" json:"about"`
}

// AboutConfig describes the application.
type AboutConfig struct {
	Name          string `yaml:"name" json:"name"`
	Description   string `yaml:"description" json:"description"`
	RepositoryURL string `yaml:"repository_url,omitempty" json:"repository_url,omitempty"`
}

// ViewerConfig holds the settings the browser extension exposed
// (enabled, theme) plus terminal-specific knobs.
type ViewerConfig struct {
	Enabled           *bool         `yaml:"enabled" json:"enabled"`
	Theme             string        `yaml:"theme" json:"theme"`
	SearchPlaceholder string        `yaml:"search_placeholder" json:"search_placeholder"`
	StatusTimeout     time.Duration `yaml:"status_timeout" json:"status_timeout"`
	WatchDebounce     time.Duration `yaml:"watch_debounce" json:"watch_debounce"`
}

// IsEnabled reports whether the viewer should take over the input.
func (v ViewerConfig) IsEnabled() bool {
	return v.Enabled == nil || *v.Enabled
}

// ColorValue stores a color token: an ANSI number or a #rrggbb string.
type ColorValue string

// UnmarshalYAML accepts both ints and strings and keeps the literal.
func (c *ColorValue) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		*c = ""
		return nil
	}
	*c = ColorValue(strings.TrimSpace(value.Value))
	return nil
}

// ThemeConfig is one named palette.
type ThemeConfig struct {
	Key           ColorValue `yaml:"key" json:"key"`
	String        ColorValue `yaml:"string" json:"string"`
	Number        ColorValue `yaml:"number" json:"number"`
	Boolean       ColorValue `yaml:"boolean" json:"boolean"`
	Null          ColorValue `yaml:"null" json:"null"`
	Link          ColorValue `yaml:"link" json:"link"`
	Bracket       ColorValue `yaml:"bracket" json:"bracket"`
	Summary       ColorValue `yaml:"summary" json:"summary"`
	Toggle        ColorValue `yaml:"toggle" json:"toggle"`
	MatchFG       ColorValue `yaml:"match_fg" json:"match_fg"`
	MatchBG       ColorValue `yaml:"match_bg" json:"match_bg"`
	SelectedFG    ColorValue `yaml:"selected_fg" json:"selected_fg"`
	SelectedBG    ColorValue `yaml:"selected_bg" json:"selected_bg"`
	ToolbarFG     ColorValue `yaml:"toolbar_fg" json:"toolbar_fg"`
	ToolbarBG     ColorValue `yaml:"toolbar_bg" json:"toolbar_bg"`
	StatusSuccess ColorValue `yaml:"status_success" json:"status_success"`
	StatusError   ColorValue `yaml:"status_error" json:"status_error"`
	FooterFG      ColorValue `yaml:"footer_fg" json:"footer_fg"`
}
