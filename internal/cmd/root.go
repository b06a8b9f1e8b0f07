package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes.
// These match the expectations of the shell widgets:
//
//	0 = completion accepted (use the output)
//	1 = cancelled by user (keep the original line)
//	2 = fallback (no TTY, TERM=dumb, terminal error, bad flags)
const (
	exitSuccess   = 0
	exitCancelled = 1
	exitFallback  = 2
)

// errCancelled is returned by the prompt when the user backs out.
var errCancelled = errors.New("cancelled")

// Prompt flags.
var (
	promptHeight  int
	promptOutput  string
	promptInput   string
	promptChoices string
	promptMode    string
	promptGlob    bool
	configPath    string
)

var rootCmd = &cobra.Command{
	Use:   "complesh",
	Short: "Fuzzy completion dropdown for the shell",
	Long: `complesh - fuzzy completion dropdown for the shell

Draws a prompt with ranked candidates below the cursor, lets you edit the
query and pick a candidate, then writes the accepted text (followed by a
space) to stdout or to --output.

Candidates come from the git repository around the query, a recursive walk
of the directory it names, a glob, or a fixed --choices list.`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runPrompt,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return exitCode(rootCmd.Execute(), os.Stderr)
}

// exitCode maps a command error to an exit code, reporting it on stderr
// unless the user simply cancelled.
func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, errCancelled):
		return exitCancelled
	default:
		fmt.Fprintf(stderr, "complesh: %v\n", err)
		return exitFallback
	}
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(versionString())

	flags := rootCmd.Flags()
	flags.IntVarP(&promptHeight, "height", "H", 0, "rows drawn, prompt line included (default from config: 5)")
	flags.StringVarP(&promptOutput, "output", "o", "", "write the accepted completion to this file instead of stdout")
	flags.StringVarP(&promptInput, "input", "i", "", "starting query")
	flags.StringVarP(&promptChoices, "choices", "c", "", "complete from this whitespace-separated list (shell quoting honoured)")
	flags.StringVar(&promptMode, "mode", "", "initial completion mode: auto, git or recursive (default from config: auto)")
	flags.BoolVar(&promptGlob, "glob", false, "complete from glob matches of the query")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/complesh/config.yaml)")

	rootCmd.MarkFlagsMutuallyExclusive("choices", "glob")
	rootCmd.MarkFlagsMutuallyExclusive("choices", "mode")
	rootCmd.MarkFlagsMutuallyExclusive("glob", "mode")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(keysCmd)
}
