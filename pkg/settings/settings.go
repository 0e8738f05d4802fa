// Package settings provides build metadata, per-run settings, and context
// helpers used across the jvp CLI and library packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "jvp"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Source describes where the document came from.
type Source struct {
	// Path is a file path, a URL, or "-" for stdin.
	Path      string
	FromStdin bool
	FromURL   bool
}

// Run holds the settings of a single invocation.
type Run struct {
	MinLogLevel int8
	Source      Source
	Interactive bool
	NoColor     bool
	// ThemeName is the resolved palette; DarkMode is what the viewer
	// receives as its dark/light flag.
	ThemeName   string
	DarkMode    bool
	Watch       bool
	ExitOnError bool
}

// NewCliParams returns the defaults for a CLI run.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		ThemeName:   "dark",
		DarkMode:    true,
		ExitOnError: true,
	}
}
