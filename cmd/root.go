package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/jvp/internal/config"
	"github.com/oakwood-commons/jvp/internal/ui"
	"github.com/oakwood-commons/jvp/pkg/core"
	"github.com/oakwood-commons/jvp/pkg/loader"
	"github.com/oakwood-commons/jvp/pkg/logger"
	"github.com/oakwood-commons/jvp/pkg/settings"
)

// errShowHelp is returned by resolveSource when there is nothing to read.
var errShowHelp = errors.New("no input provided")

// Output formats for non-interactive runs.
const (
	outputTree  = "tree"
	outputRaw   = "raw"
	outputPaths = "paths"
	outputSize  = "size"
)

type rootOptions struct {
	interactive bool
	output      string
	search      string
	path        string
	copyWhat    string
	themeName   string
	configFile  string
	debug       bool
	logFile     string
	noColor     bool
	disable     bool
	expandAll   bool
	depth       int
	watch       bool
	snapshot    bool
	width       int
	height      int
	press       []string
	timeout     time.Duration

	closeLog func()
}

// NewRootCmd builds the jvp command tree.
func NewRootCmd() *cobra.Command {
	o := &rootOptions{}
	about := aboutFromConfig()

	rootCmd := &cobra.Command{
		Use:   settings.CliBinaryName + " [file|url|-]",
		Short: fmt.Sprintf("%s - %s", about.Name, strings.TrimSuffix(about.Description, ".")),
		Long:  longHelp(about),
		Example: "\n  jvp data.json\n  curl -s https://api.example.com/items | jvp -i\n" +
			"  jvp https://api.example.com/items --search id -o paths\n  jvp data.json -p '$.items[0]' --copy value\n",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Lookup("interactive") != nil {
				o.defaultInteractive(cmd)
			}
			return o.setupLogging(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			logger.Sync()
			if o.closeLog != nil {
				o.closeLog()
			}
		},
		RunE: o.run,
	}

	f := rootCmd.Flags()
	f.BoolVarP(&o.interactive, "interactive", "i", false, "start the interactive viewer (default when stdout is a terminal and no -o is given)")
	f.StringVarP(&o.output, "output", "o", outputTree, "output format: tree|raw|paths|size")
	f.StringVar(&o.search, "search", "", "highlight keys and values containing this text (case-insensitive)")
	f.StringVarP(&o.path, "path", "p", "", "start at the node with this address, e.g. '$.items[0]'")
	f.StringVar(&o.copyWhat, "copy", "", "copy to the clipboard and exit: path|value|all")
	f.StringVar(&o.themeName, "theme", "", "theme: auto|dark|light or a configured theme name")
	f.BoolVar(&o.noColor, "no-color", false, "disable color output")
	f.BoolVar(&o.disable, "disable", false, "print the input unchanged (overrides viewer.enabled)")
	f.BoolVar(&o.expandAll, "expand-all", false, "ignore auto-collapse in tree output")
	f.IntVar(&o.depth, "depth", 0, "limit tree output depth (0 = unlimited)")
	f.BoolVarP(&o.watch, "watch", "w", false, "reload the file when it changes (interactive only)")
	f.BoolVar(&o.snapshot, "snapshot", false, "render a single viewer frame and exit; honors --width/--height")
	f.IntVar(&o.width, "width", 0, "viewer width in columns")
	f.IntVar(&o.height, "height", 0, "viewer height in rows")
	f.StringArrayVar(&o.press, "press", nil, "simulate keys on startup, e.g. --press '/name' --press '<CR>'")
	f.DurationVar(&o.timeout, "timeout", 30*time.Second, "timeout for fetching URLs")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&o.configFile, "config-file", "", "path to a YAML or TOML config file")
	pf.BoolVar(&o.debug, "debug", false, "enable debug logging")
	pf.StringVar(&o.logFile, "log-file", "", "write logs to this file instead of stderr")

	rootCmd.SetGlobalNormalizationFunc(normalizeFlagName)
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.AddCommand(newVersionCmd(), newConfigCmd(o))
	return rootCmd
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

func (o *rootOptions) setupLogging(cmd *cobra.Command) error {
	var level int8
	if o.debug {
		level = -1
	}
	out, closeLog, err := logger.Output(o.logFile, o.debug, o.interactive)
	if err != nil {
		return err
	}
	o.closeLog = closeLog
	logger.SetOutput(out)
	lgr := logger.Get(level)
	lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logger.WithLogger(ctx, lgr))
	return nil
}

// defaultInteractive turns the viewer on for a terminal when no
// non-interactive output was asked for.
func (o *rootOptions) defaultInteractive(cmd *cobra.Command) {
	if o.interactive || o.snapshot || o.copyWhat != "" || cmd.Flags().Changed("output") {
		return
	}
	o.interactive = isTerminal(cmd.OutOrStdout())
}

func (o *rootOptions) validate() error {
	switch o.output {
	case outputTree, outputRaw, outputPaths, outputSize:
	default:
		return fmt.Errorf("invalid --output %q (expected tree, raw, paths or size)", o.output)
	}
	if _, err := copyKind(o.copyWhat); err != nil {
		return err
	}
	if o.watch && !o.interactive {
		return errors.New("--watch requires --interactive")
	}
	if o.depth < 0 {
		return fmt.Errorf("invalid --depth %d", o.depth)
	}
	return nil
}

func (o *rootOptions) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	lgr := *logger.FromContext(ctx)
	if err := o.validate(); err != nil {
		return err
	}
	source, err := resolveSource(args, stdinIsPiped())
	if errors.Is(err, errShowHelp) {
		return cmd.Help()
	}
	if err != nil {
		return err
	}
	if o.snapshot {
		o.interactive = false
	}

	cfgPath := config.ResolvePath(o.configFile)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	params := settings.NewCliParams()
	params.MinLogLevel = 0
	if o.debug {
		params.MinLogLevel = -1
	}
	params.Source = settings.Source{Path: source, FromStdin: source == core.StdinSource, FromURL: loader.IsURL(source)}
	params.Interactive = o.interactive
	params.NoColor = o.noColor || os.Getenv("NO_COLOR") != ""
	params.Watch = o.watch
	ctx = settings.IntoContext(ctx, params)

	out := cmd.OutOrStdout()
	engine := core.New(
		core.WithLogger(lgr),
		core.WithHTTPClient(&http.Client{Timeout: o.timeout}),
		core.WithStdin(cmd.InOrStdin()),
	)
	raw, contentType, err := engine.Read(ctx, source)
	if err != nil {
		return err
	}
	if o.disable || !cfg.Viewer.IsEnabled() {
		lgr.V(1).Info("viewer disabled, passing input through", logger.SourceKey, source)
		return passThrough(out, raw)
	}
	session, err := engine.OpenBytes(raw, contentType, source)
	if errors.Is(err, loader.ErrNotJSON) {
		lgr.V(1).Info("input is not JSON, passing through", logger.SourceKey, source, "contentType", contentType)
		return passThrough(out, raw)
	}
	if err != nil {
		return err
	}
	if o.search != "" {
		session.Search(o.search)
	}
	node := session.Root
	if o.path != "" {
		n, ok := session.Find(o.path)
		if !ok {
			return fmt.Errorf("no node at %s", o.path)
		}
		node = n
	}

	if o.copyWhat != "" {
		kind, _ := copyKind(o.copyWhat)
		payload, err := session.CopyPayload(node.Path, kind)
		if err != nil {
			return err
		}
		if err := ui.CopyToClipboard(payload); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Copied %s of %s\n", o.copyWhat, node.Path)
		return nil
	}

	viewer := o.interactive || o.snapshot
	probe := func() bool { return true }
	if viewer && !params.NoColor && !o.snapshot {
		probe = ui.HasDarkBackground
	}
	theme, name, dark, err := resolveTheme(cfg, o.themeName, probe)
	if err != nil {
		return err
	}
	params.ThemeName, params.DarkMode = name, dark
	lgr.V(1).Info("resolved theme", "theme", name, "dark", dark, "config", cfgPath)

	if !viewer {
		colored := !params.NoColor && isTerminal(out)
		return renderOutput(out, session, node, o.output, treeOptions(o, session, theme, colored))
	}

	uiOpts := ui.Options{
		Placeholder:   cfg.Viewer.SearchPlaceholder,
		StatusTimeout: cfg.Viewer.StatusTimeout,
		NoColor:       params.NoColor,
		Theme:         &theme,
		Width:         o.width,
		Height:        o.height,
		Query:         o.search,
		Focus:         node.Path,
		Logger:        lgr,
	}
	if o.snapshot {
		w, h := o.width, o.height
		if w <= 0 || h <= 0 {
			dw, dh := detectTerminalSize()
			if w <= 0 {
				w = dw
			}
			if h <= 0 {
				h = dh
			}
		}
		uiOpts.Width, uiOpts.Height = w, h
		fmt.Fprintln(out, ui.RenderSnapshot(session, ui.SnapshotConfig{Options: uiOpts, StartKeys: o.press}))
		return nil
	}

	watchPath := ""
	if o.watch {
		if params.Source.FromStdin || params.Source.FromURL {
			return errors.New("--watch needs a file argument")
		}
		watchPath = source
	}
	progOpts, cleanup := getProgramOptions()
	defer cleanup()
	return ui.Run(ctx, session, ui.RunOptions{
		Options:        uiOpts,
		StartKeys:      o.press,
		WatchPath:      watchPath,
		WatchDebounce:  cfg.Viewer.WatchDebounce,
		ProgramOptions: progOpts,
	})
}

// passThrough writes a body the viewer does not handle unchanged.
func passThrough(w io.Writer, raw []byte) error {
	_, err := w.Write(raw)
	return err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print jvp version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
			return nil
		},
	}
}

// versionString builds the human-readable version for `version` and --version.
func versionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s, %s)", settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime, runtime.Version())
}

func aboutFromConfig() config.AboutConfig {
	cfg, err := config.Load(config.ResolvePath(""))
	if err != nil {
		cfg, _ = config.Defaults()
	}
	about := cfg.App.About
	if about.Name == "" {
		about.Name = settings.CliBinaryName
	}
	return about
}

func longHelp(about config.AboutConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n\n", about.Name, about.Description)
	b.WriteString("Reads a file, a URL or stdin (\"-\" or piped). JSON input is shown as a tree with\n")
	b.WriteString("addresses like $.items[0].name; anything else is printed unchanged.\n\n")
	b.WriteString("Viewer keys: ↑/k ↓/j move, enter/space toggle, E expand all, C collapse all,\n")
	b.WriteString("/ search, n/N next/previous match, y copy path, c copy value, Y copy all,\n")
	b.WriteString("r raw/tree, o open link, g/G top/bottom, q quit.\n")
	if about.RepositoryURL != "" {
		fmt.Fprintf(&b, "\n%s\n", about.RepositoryURL)
	}
	return b.String()
}
