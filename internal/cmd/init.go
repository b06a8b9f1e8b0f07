package cmd

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

//go:embed shell/zsh/complesh.zsh
//go:embed shell/bash/complesh.bash
var shellScripts embed.FS

// defaultBinding is the key the widget is bound to unless COMPLESH_KEY is set.
const defaultBinding = `\C-t`

var initCmd = &cobra.Command{
	Use:   "init <shell>",
	Short: "Output shell integration script",
	Long: `Output the shell integration script for your shell.

The script binds ctrl+t (override with COMPLESH_KEY, in bind/bindkey
notation) to a widget that completes the word before the cursor.

Add this to your shell configuration file:

  # For Zsh (~/.zshrc):
  eval "$(complesh init zsh)"

  # For Bash (~/.bashrc or ~/.bash_profile on macOS):
  eval "$(complesh init bash)"`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"zsh", "bash"},
	RunE:      runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	script, err := initScript(args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), script)
	return nil
}

// initScript returns the widget for shell with its placeholders filled.
func initScript(shell string) (string, error) {
	var filename string
	switch shell {
	case "zsh":
		filename = "shell/zsh/complesh.zsh"
	case "bash":
		filename = "shell/bash/complesh.bash"
	default:
		return "", fmt.Errorf("unsupported shell: %s (supported: zsh, bash)", shell)
	}

	content, err := shellScripts.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("failed to read shell script: %w", err)
	}

	bin, err := os.Executable()
	if err != nil {
		bin = "complesh"
	}
	binding := os.Getenv("COMPLESH_KEY")
	if binding == "" {
		binding = defaultBinding
	}

	script := strings.ReplaceAll(string(content), "{{COMPLESH_BIN}}", shellQuote(bin))
	script = strings.ReplaceAll(script, "{{COMPLESH_KEY}}", shellQuote(binding))
	return script, nil
}

// shellQuote wraps s in single quotes for bash and zsh.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
