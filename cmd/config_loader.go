package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/jvp/internal/config"
)

// Formats accepted by `jvp config get -o`.
const (
	configYAML = "yaml"
	configJSON = "json"
	configTOML = "toml"
	configRaw  = "raw"
)

func newConfigCmd(o *rootOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect jvp configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var format string
	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Show the merged configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigGet(cmd.OutOrStdout(), config.ResolvePath(o.configFile), format)
		},
	}
	getCmd.Flags().StringVarP(&format, "output", "o", configYAML, "output format: yaml|json|toml|raw")

	themesCmd := &cobra.Command{
		Use:   "themes",
		Short: "List available themes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runThemesList(cmd.OutOrStdout(), config.ResolvePath(o.configFile))
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file in use",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.ResolvePath(o.configFile)
			if path == "" {
				path = "(embedded defaults)"
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}

	configCmd.AddCommand(getCmd, themesCmd, pathCmd)
	return configCmd
}

// runConfigGet prints the configuration. raw prints the user file verbatim
// (comments included), or the embedded defaults when there is none.
func runConfigGet(w io.Writer, path, format string) error {
	if strings.EqualFold(format, configRaw) {
		data := config.DefaultConfigYAML()
		if path != "" {
			var err error
			if data, err = os.ReadFile(path); err != nil {
				return fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		}
		_, err := w.Write(data)
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	out, err := encodeConfig(cfg, format)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// encodeConfig renders cfg as YAML, JSON or TOML. Everything goes through
// a generic YAML tree first so durations and colors print the way they are
// written in config files.
func encodeConfig(cfg config.File, format string) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	switch strings.ToLower(format) {
	case configYAML, "":
		return data, nil
	case configJSON, configTOML:
	default:
		return nil, fmt.Errorf("invalid config output %q (expected yaml, json, toml or raw)", format)
	}
	var generic map[string]any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if strings.EqualFold(format, configTOML) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(generic); err != nil {
			return nil, fmt.Errorf("encode config: %w", err)
		}
		return buf.Bytes(), nil
	}
	out, err := json.MarshalIndent(generic, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return append(out, '\n'), nil
}

func runThemesList(w io.Writer, path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	mode := cfg.Viewer.Theme
	if mode == "" {
		mode = config.ThemeAuto
	}
	fmt.Fprintf(w, "Available themes (viewer.theme: %s):\n", mode)
	for _, name := range cfg.ThemeNames() {
		fmt.Fprintf(w, " - %s\n", name)
	}
	return nil
}
