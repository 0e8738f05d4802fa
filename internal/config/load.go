package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

var (
	embeddedOnce sync.Once
	embedded     File
	embeddedErr  error
)

// ErrUnknownTheme is returned when a theme mode or name is not recognized.
var ErrUnknownTheme = errors.New("unknown theme")

// DefaultConfigYAML returns a copy of the embedded default config.
func DefaultConfigYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Defaults parses the embedded default configuration. Each call returns an
// independent copy.
func Defaults() (File, error) {
	embeddedOnce.Do(func() {
		if len(embeddedDefaultConfig) == 0 {
			embeddedErr = fmt.Errorf("embedded default config is empty")
			return
		}
		if err := yaml.Unmarshal(embeddedDefaultConfig, &embedded); err != nil {
			embeddedErr = fmt.Errorf("decode embedded default config: %w", err)
			return
		}
		if _, ok := embedded.Themes[ThemeDark]; !ok {
			embeddedErr = fmt.Errorf("embedded default config is missing the %q theme", ThemeDark)
		}
	})
	if embeddedErr != nil {
		return File{}, embeddedErr
	}
	return embedded.clone(), nil
}

func (f File) clone() File {
	out := f
	if f.Viewer.Enabled != nil {
		enabled := *f.Viewer.Enabled
		out.Viewer.Enabled = &enabled
	}
	out.Themes = make(map[string]ThemeConfig, len(f.Themes))
	for k, v := range f.Themes {
		out.Themes[k] = v
	}
	return out
}

// Load returns the defaults with the file at path merged over them. An
// empty path returns the defaults. Files ending in .toml are read as TOML,
// everything else as YAML.
func Load(path string) (File, error) {
	cfg, err := Defaults()
	if err != nil {
		return cfg, err
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		data, err = tomlToYAML(data)
		if err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	if err := merge(&cfg, data); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// tomlToYAML re-encodes a TOML document as YAML so both formats share one
// decoding path.
func tomlToYAML(data []byte) ([]byte, error) {
	var generic map[string]any
	if err := toml.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	return yaml.Marshal(generic)
}

// merge overlays the YAML document data onto cfg. Themes merge per field so
// a user file may override a single color.
func merge(cfg *File, data []byte) error {
	var overlay struct {
		Themes map[string]yaml.Node `yaml:"themes"`
	}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return err
	}
	themes := cfg.Themes
	cfg.Themes = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg.Themes = themes
		return err
	}
	for name, node := range overlay.Themes {
		base, ok := themes[name]
		if !ok {
			base = themes[ThemeDark]
		}
		if err := node.Decode(&base); err != nil {
			cfg.Themes = themes
			return fmt.Errorf("theme %q: %w", name, err)
		}
		themes[name] = base
	}
	cfg.Themes = themes
	return nil
}

// Validate checks cross-field constraints.
func (f File) Validate() error {
	mode := strings.ToLower(strings.TrimSpace(f.Viewer.Theme))
	if mode == "" || mode == ThemeAuto {
		return nil
	}
	if _, ok := f.Themes[mode]; !ok {
		return fmt.Errorf("%w %q (available: %s)", ErrUnknownTheme, f.Viewer.Theme, strings.Join(f.ThemeNames(), ", "))
	}
	return nil
}

// ThemeNames lists configured themes in sorted order.
func (f File) ThemeNames() []string {
	names := make([]string, 0, len(f.Themes))
	for name := range f.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveTheme picks the palette for mode. "auto" (or empty) asks
// darkBackground, which callers wire to terminal detection. It returns the
// theme name and whether the result counts as dark mode.
func (f File) ResolveTheme(mode string, darkBackground func() bool) (string, bool, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	switch mode {
	case "", ThemeAuto:
		if darkBackground == nil || darkBackground() {
			return ThemeDark, true, nil
		}
		return ThemeLight, false, nil
	case ThemeDark:
		return ThemeDark, true, nil
	case ThemeLight:
		return ThemeLight, false, nil
	}
	if _, ok := f.Themes[mode]; ok {
		return mode, !strings.Contains(mode, ThemeLight), nil
	}
	return "", false, fmt.Errorf("%w %q (available: auto, %s)", ErrUnknownTheme, mode, strings.Join(f.ThemeNames(), ", "))
}

// ResolvePath returns explicit when set, otherwise the first existing file
// among $XDG_CONFIG_HOME/jvp/config.{yaml,yml,toml} (or ~/.config/jvp/...).
// It returns "" when no file exists.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	dir := ""
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dir = filepath.Join(xdg, "jvp")
	} else if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".config", "jvp")
	}
	if dir == "" {
		return ""
	}
	for _, name := range []string{"config.yaml", "config.yml", "config.toml"} {
		candidate := filepath.Join(dir, name)
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}
