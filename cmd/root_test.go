package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/jvp/internal/config"
	"github.com/oakwood-commons/jvp/internal/ui"
)

// TestMain stubs platform actions (clipboard, browser) so that no test in the
// cmd package can trigger real side effects.
func TestMain(m *testing.M) {
	restore := ui.StubPlatformActions()
	code := m.Run()
	restore()
	os.Exit(code)
}

const sampleDoc = `{"name":"jvp","tags":["a","b"],"owner":{"url":"https://example.com","id":7}}`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// runCLI executes the root command with args and returns stdout and stderr.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func withPipedStdin(t *testing.T, piped bool) {
	t.Helper()
	orig := stdinIsPiped
	stdinIsPiped = func() bool { return piped }
	t.Cleanup(func() { stdinIsPiped = orig })
}

func TestTreeOutput(t *testing.T) {
	path := writeFile(t, "doc.json", sampleDoc)
	out, _, err := runCLI(t, "", path, "--no-color")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{3 keys\n"), out)
	assert.Contains(t, out, `"name": "jvp"`)
	assert.Contains(t, out, `"tags": [2 items`)
	assert.Contains(t, out, `"id": 7`)
}

func TestRawOutput(t *testing.T) {
	path := writeFile(t, "doc.json", sampleDoc)
	out, _, err := runCLI(t, "", path, "-o", "raw", "-p", "$.tags")
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"a\",\n  \"b\"\n]\n", out)
}

func TestPathsOutputWithSearch(t *testing.T) {
	path := writeFile(t, "doc.json", sampleDoc)
	out, _, err := runCLI(t, "", path, "-o", "paths", "--search", "EXAMPLE")
	require.NoError(t, err)
	assert.Equal(t, "$.owner.url\t\"https://example.com\"\n", out)
}

func TestPathsOutputAll(t *testing.T) {
	path := writeFile(t, "doc.json", `{"a b":[1]}`)
	out, _, err := runCLI(t, "", path, "-o", "paths")
	require.NoError(t, err)
	assert.Equal(t, "$\t{1 key\n$[\"a b\"]\t[1 item\n$[\"a b\"][0]\t1\n", out)
}

func TestSizeOutput(t *testing.T) {
	path := writeFile(t, "doc.json", sampleDoc)
	out, _, err := runCLI(t, "", path, "-o", "size")
	require.NoError(t, err)
	assert.Equal(t, "76 B\n", out)
}

func TestUnknownPath(t *testing.T) {
	path := writeFile(t, "doc.json", sampleDoc)
	_, _, err := runCLI(t, "", path, "-p", "$.missing")
	require.EqualError(t, err, "no node at $.missing")
}

func TestNonJSONPassesThrough(t *testing.T) {
	body := "<html><body>hello</body></html>\n"
	path := writeFile(t, "page.html", body)
	out, _, err := runCLI(t, "", path)
	require.NoError(t, err)
	assert.Equal(t, body, out)
}

func TestStdinInput(t *testing.T) {
	withPipedStdin(t, true)
	out, _, err := runCLI(t, `[true,null]`, "-o", "paths")
	require.NoError(t, err)
	assert.Equal(t, "$\t[2 items\n$[0]\ttrue\n$[1]\tnull\n", out)
}

func TestDashReadsStdin(t *testing.T) {
	withPipedStdin(t, false)
	out, _, err := runCLI(t, `"just a string"`, "-", "-o", "raw")
	require.NoError(t, err)
	assert.Equal(t, "\"just a string\"\n", out)
}

func TestNoInputShowsHelp(t *testing.T) {
	withPipedStdin(t, false)
	out, _, err := runCLI(t, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
}

func TestEmptyInputFails(t *testing.T) {
	path := writeFile(t, "empty.json", "  \n")
	_, _, err := runCLI(t, "", path)
	require.Error(t, err)
}

func TestViewerDisabled(t *testing.T) {
	cfgPath := writeFile(t, "config.yaml", "viewer:\n  enabled: false\n")
	path := writeFile(t, "doc.json", sampleDoc)
	out, _, err := runCLI(t, "", path, "--config-file", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, sampleDoc, out)
}

func TestFlagValidation(t *testing.T) {
	path := writeFile(t, "doc.json", sampleDoc)
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"-o", "yaml"}, "invalid --output"},
		{[]string{"--copy", "everything"}, "invalid --copy"},
		{[]string{"--watch"}, "--watch requires --interactive"},
		{[]string{"--depth", "-1"}, "invalid --depth"},
		{[]string{"--theme", "neon", "--snapshot"}, "unknown theme"},
	}
	for _, tt := range tests {
		_, _, err := runCLI(t, "", append([]string{path}, tt.args...)...)
		require.Error(t, err, tt.args)
		assert.Contains(t, err.Error(), tt.want)
	}
}

func TestCopyFlag(t *testing.T) {
	var copied []string
	restore := ui.SetPlatformActions(func(s string) error {
		copied = append(copied, s)
		return nil
	}, nil)
	defer restore()

	path := writeFile(t, "doc.json", sampleDoc)
	_, stderr, err := runCLI(t, "", path, "-p", "$.owner.url", "--copy", "value")
	require.NoError(t, err)
	assert.Equal(t, "Copied value of $.owner.url\n", stderr)

	_, _, err = runCLI(t, "", path, "-p", `$["tags"][1]`, "--copy", "path")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com", "$.tags[1]"}, copied)
}

func TestSnapshot(t *testing.T) {
	path := writeFile(t, "doc.json", sampleDoc)
	out, _, err := runCLI(t, "", path, "--snapshot", "--no-color", "--width", "60", "--height", "12", "--search", "owner")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 12)
	assert.Contains(t, lines[0], "1 match")
	assert.Contains(t, out, `▼ "owner": {2 keys`)
}

func TestSnapshotPathFocus(t *testing.T) {
	path := writeFile(t, "doc.json", sampleDoc)
	out, _, err := runCLI(t, "", path, "--snapshot", "--no-color", "--width", "60", "--height", "12",
		"-p", "$.owner", "--press", "<CR>")
	require.NoError(t, err)
	assert.Contains(t, out, `▶ "owner": {2 keys}`)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "jvp "), out)
}

func TestResolveSource(t *testing.T) {
	src, err := resolveSource([]string{"a.json"}, true)
	require.NoError(t, err)
	assert.Equal(t, "a.json", src)

	src, err = resolveSource(nil, true)
	require.NoError(t, err)
	assert.Equal(t, "-", src)

	_, err = resolveSource(nil, false)
	require.ErrorIs(t, err, errShowHelp)
}

func TestResolveTheme(t *testing.T) {
	cfg, err := config.Defaults()
	require.NoError(t, err)

	_, name, dark, err := resolveTheme(cfg, "", func() bool { return false })
	require.NoError(t, err)
	assert.Equal(t, "light", name)
	assert.False(t, dark)

	_, name, dark, err = resolveTheme(cfg, "dark", func() bool { return false })
	require.NoError(t, err)
	assert.Equal(t, "dark", name)
	assert.True(t, dark)

	_, _, _, err = resolveTheme(cfg, "neon", nil)
	require.ErrorIs(t, err, config.ErrUnknownTheme)
}

func TestTerminalDeviceNames(t *testing.T) {
	in, out := terminalDeviceNames("windows")
	assert.Equal(t, "CONIN$", in)
	assert.Equal(t, "CONOUT$", out)
	in, out = terminalDeviceNames("linux")
	assert.Equal(t, "/dev/tty", in)
	assert.Equal(t, "/dev/tty", out)
}

func TestConfigGet(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	out, _, err := runCLI(t, "", "config", "get", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"viewer"`)
	assert.Contains(t, out, `"status_timeout": "1.2s"`)

	out, _, err = runCLI(t, "", "config", "get", "-o", "toml")
	require.NoError(t, err)
	assert.Contains(t, out, "[viewer]")

	out, _, err = runCLI(t, "", "config", "get", "-o", "raw")
	require.NoError(t, err)
	assert.Equal(t, string(config.DefaultConfigYAML()), out)

	_, _, err = runCLI(t, "", "config", "get", "-o", "xml")
	require.Error(t, err)
}

func TestConfigThemesAndPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfgPath := writeFile(t, "config.yaml", "viewer:\n  theme: dark\nthemes:\n  neon:\n    key: \"201\"\n")

	out, _, err := runCLI(t, "", "config", "themes", "--config-file", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "(viewer.theme: dark)")
	assert.Contains(t, out, " - dark\n")
	assert.Contains(t, out, " - light\n")
	assert.Contains(t, out, " - neon\n")

	out, _, err = runCLI(t, "", "config", "path", "--config-file", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, cfgPath+"\n", out)

	out, _, err = runCLI(t, "", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, "(embedded defaults)\n", out)
}

func TestDisableFlag(t *testing.T) {
	path := writeFile(t, "doc.json", sampleDoc)
	out, _, err := runCLI(t, "", path, "--disable")
	require.NoError(t, err)
	assert.Equal(t, sampleDoc, out)
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, isTerminal(f))
}

func TestUnderscoreFlags(t *testing.T) {
	path := writeFile(t, "doc.json", sampleDoc)
	out, _, err := runCLI(t, "", path, "--no_color", "--expand_all", "-o", "size")
	require.NoError(t, err)
	assert.Equal(t, "76 B\n", out)
}
