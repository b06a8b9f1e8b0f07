package cmd

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/spf13/cobra"

	"github.com/runger/complesh/internal/editor"
	"github.com/runger/complesh/internal/prompt"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the prompt key bindings",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		printBindings(out, "Selection", prompt.DefaultKeyMap().Bindings())
		fmt.Fprintln(out)
		printBindings(out, "Editing", editor.DefaultKeyMap().Bindings())
	},
}

func printBindings(out io.Writer, title string, bindings []key.Binding) {
	fmt.Fprintln(out, titleStyle.Render(title))

	width := 0
	for _, b := range bindings {
		width = max(width, utf8.RuneCountInString(b.Help().Key))
	}
	for _, b := range bindings {
		help := b.Help()
		fmt.Fprintf(out, "  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-*s", width, help.Key)), help.Desc)
	}
}
