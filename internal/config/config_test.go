package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Defaults()
	require.NoError(t, err)
	assert.True(t, cfg.Viewer.IsEnabled())
	assert.Equal(t, ThemeAuto, cfg.Viewer.Theme)
	assert.Equal(t, 1200*time.Millisecond, cfg.Viewer.StatusTimeout)
	assert.Equal(t, []string{"dark", "light"}, cfg.ThemeNames())
	assert.Equal(t, ColorValue("81"), cfg.Themes["dark"].Key)
	assert.Equal(t, ColorValue("244"), cfg.Themes["dark"].Null)
}

func TestDefaultsAreIndependentCopies(t *testing.T) {
	a, err := Defaults()
	require.NoError(t, err)
	a.Themes["dark"] = ThemeConfig{}
	*a.Viewer.Enabled = false

	b, err := Defaults()
	require.NoError(t, err)
	assert.Equal(t, ColorValue("81"), b.Themes["dark"].Key)
	assert.True(t, b.Viewer.IsEnabled())
}

func TestLoadYAMLMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
viewer:
  enabled: false
  theme: light
themes:
  light:
    key: "#ff0000"
  solarized:
    key: 33
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Viewer.IsEnabled())
	assert.Equal(t, ThemeLight, cfg.Viewer.Theme)
	assert.Equal(t, "Search keys and values…", cfg.Viewer.SearchPlaceholder)
	assert.Equal(t, ColorValue("#ff0000"), cfg.Themes["light"].Key)
	assert.Equal(t, ColorValue("28"), cfg.Themes["light"].String, "unset colors keep defaults")
	assert.Equal(t, ColorValue("33"), cfg.Themes["solarized"].Key)
	assert.Equal(t, ColorValue("114"), cfg.Themes["solarized"].String, "new themes start from dark")
	assert.Contains(t, cfg.ThemeNames(), "dark")
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[viewer]
theme = "dark"
watch_debounce = "50ms"

[themes.dark]
match_bg = 196
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, cfg.Viewer.Theme)
	assert.Equal(t, 50*time.Millisecond, cfg.Viewer.WatchDebounce)
	assert.Equal(t, ColorValue("196"), cfg.Themes["dark"].MatchBG)
	assert.Equal(t, ColorValue("81"), cfg.Themes["dark"].Key)
}

func TestLoadRejectsUnknownTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("viewer:\n  theme: neon\n"), 0o600))
	_, err := Load(path)
	require.ErrorIs(t, err, ErrUnknownTheme)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestResolveTheme(t *testing.T) {
	cfg, err := Defaults()
	require.NoError(t, err)

	name, dark, err := cfg.ResolveTheme("auto", func() bool { return false })
	require.NoError(t, err)
	assert.Equal(t, "light", name)
	assert.False(t, dark)

	name, dark, err = cfg.ResolveTheme("", func() bool { return true })
	require.NoError(t, err)
	assert.Equal(t, "dark", name)
	assert.True(t, dark)

	name, dark, err = cfg.ResolveTheme("LIGHT", nil)
	require.NoError(t, err)
	assert.Equal(t, "light", name)
	assert.False(t, dark)

	_, _, err = cfg.ResolveTheme("neon", nil)
	require.ErrorIs(t, err, ErrUnknownTheme)
}

func TestResolvePath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Equal(t, "", ResolvePath(""))
	assert.Equal(t, "/explicit.yaml", ResolvePath("/explicit.yaml"))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "jvp"), 0o755))
	want := filepath.Join(dir, "jvp", "config.toml")
	require.NoError(t, os.WriteFile(want, []byte("[viewer]\n"), 0o600))
	assert.Equal(t, want, ResolvePath(""))
}
