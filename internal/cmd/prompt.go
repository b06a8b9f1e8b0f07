package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/shlex"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/runger/complesh/internal/completer"
	"github.com/runger/complesh/internal/config"
	"github.com/runger/complesh/internal/dropdown"
	"github.com/runger/complesh/internal/logging"
	"github.com/runger/complesh/internal/prompt"
)

// ttyPath is the terminal the prompt draws on.
var ttyPath = "/dev/tty"

// notifyParent overrides the dropdown's redraw signal when set.
var notifyParent func() error

func runPrompt(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyPromptFlags(cmd, cfg); err != nil {
		return err
	}

	paths := config.DefaultPaths()
	logger, closeLog, err := logging.Open(cfg.Log.File, paths.LogFile(), cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closeLog()

	c, err := newCompleter(cfg, logger)
	if err != nil {
		return err
	}

	// The terminal is only opened once the prompt has to be drawn, so an
	// unambiguous query completes even without a usable tty.
	var tty *os.File
	defer func() {
		if tty != nil {
			tty.Close()
		}
	}()
	open := func() (prompt.Terminal, error) {
		var err error
		tty, err = openTTY()
		if err != nil {
			return nil, err
		}
		return prompt.OpenTTY(tty, dropdown.Options{
			Height:        cfg.Prompt.Height,
			CursorTimeout: time.Duration(cfg.Prompt.CursorTimeoutMs) * time.Millisecond,
			NotifyParent:  notifyParent,
			Logger:        logger,
		})()
	}

	controller := prompt.New(c, prompt.Options{
		Input:  promptInput,
		Logger: logger,
	})
	res, err := controller.Run(cmd.Context(), open)
	if err != nil {
		logger.Error("prompt failed", "error", err)
		return err
	}
	if !res.Submitted() {
		return errCancelled
	}

	return writeOutput(promptOutput, res.Text, cmd.OutOrStdout())
}

// openTTY opens /dev/tty for both rendering and key input. The shell
// widget captures stdout, so the prompt cannot use it.
func openTTY() (*os.File, error) {
	if err := checkTERM(); err != nil {
		return nil, err
	}
	tty, err := os.OpenFile(ttyPath, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("no TTY available: %w", err)
	}
	if err := checkTermWidth(tty); err != nil {
		tty.Close()
		return nil, err
	}

	// Set lipgloss color profile from the TTY, not stdout.
	lipgloss.SetColorProfile(termenv.NewOutput(tty).ColorProfile())
	return tty, nil
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// applyPromptFlags lets explicitly set flags win over the config file.
func applyPromptFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("height") {
		if promptHeight < 1 {
			return fmt.Errorf("--height must be a positive integer")
		}
		cfg.Prompt.Height = promptHeight
	}
	if flags.Changed("mode") {
		if _, err := completer.ParseMode(promptMode); err != nil {
			return fmt.Errorf("--mode: %w", err)
		}
		cfg.Completion.Mode = promptMode
	}
	return nil
}

// newCompleter picks the candidate source: --choices, --glob, or the
// filesystem completer in the configured mode.
func newCompleter(cfg *config.Config, logger *slog.Logger) (completer.Completer, error) {
	opts := completer.Options{
		Limit:          cfg.Completion.MaxResults,
		RecursiveDepth: cfg.Completion.RecursiveDepth,
		RepoDepth:      cfg.Completion.RecursiveRepoDepth,
		GitDepth:       cfg.Completion.GitDepth,
		Workers:        cfg.Completion.Workers,
		Logger:         logger,
	}

	switch {
	case promptChoices != "":
		choices, err := shlex.Split(promptChoices)
		if err != nil {
			return nil, fmt.Errorf("--choices: %w", err)
		}
		return completer.NewList(choices, opts), nil
	case promptGlob:
		return completer.NewGlob(opts), nil
	default:
		mode, err := completer.ParseMode(cfg.Completion.Mode)
		if err != nil {
			return nil, err
		}
		return completer.NewMixed(mode, opts), nil
	}
}

// writeOutput writes the accepted text to path, or to stdout when path is
// empty.
func writeOutput(path, text string, stdout io.Writer) error {
	if path == "" {
		_, err := io.WriteString(stdout, text)
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0600); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
