package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/runger/complesh/internal/config"
)

var (
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
	titleStyle = lipgloss.NewStyle().Bold(true)
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set complesh configuration values.

Without arguments, lists all configuration keys.
With one argument, shows the value of that key.
With two arguments, sets the key to the value.

Configuration is stored in ~/.config/complesh/config.yaml (XDG compliant).

Keys are in the format: section.key
Sections: prompt, completion, log

Examples:
  complesh config                          # List all keys
  complesh config completion.mode          # Get completion.mode value
  complesh config completion.mode git      # Start in git mode
  complesh config prompt.height 8`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	paths := config.DefaultPaths()
	file := paths.ConfigFile()
	if configPath != "" {
		file = configPath
	}

	cfg, err := config.LoadFromFile(file)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	out := cmd.OutOrStdout()
	switch len(args) {
	case 0:
		return listConfig(out, cfg, file)
	case 1:
		return getConfig(out, cfg, args[0])
	default:
		return setConfig(out, cfg, file, args[0], args[1])
	}
}

func listConfig(out io.Writer, cfg *config.Config, file string) error {
	fmt.Fprintln(out, titleStyle.Render("Configuration Keys"))
	fmt.Fprintln(out, strings.Repeat("-", 40))
	fmt.Fprintln(out)

	for _, key := range config.ListKeys() {
		value, err := cfg.Get(key)
		if err != nil {
			return err
		}
		if value == "" {
			value = dimStyle.Render("(not set)")
		}
		fmt.Fprintf(out, "  %s = %s\n", keyStyle.Render(key), value)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Config file: %s\n", file)
	return nil
}

func getConfig(out io.Writer, cfg *config.Config, key string) error {
	value, err := cfg.Get(key)
	if err != nil {
		return err
	}

	if value == "" {
		fmt.Fprintln(out, dimStyle.Render("(not set)"))
	} else {
		fmt.Fprintln(out, value)
	}
	return nil
}

func setConfig(out io.Writer, cfg *config.Config, file, key, value string) error {
	if err := cfg.Set(key, value); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.SaveToFile(file); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s = %s\n", keyStyle.Render(key), value)
	fmt.Fprintf(out, "Saved to: %s\n", file)
	return nil
}
