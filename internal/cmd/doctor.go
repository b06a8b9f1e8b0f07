package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/runger/complesh/internal/config"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the terminal, git and shell integration",
	Long: `Run diagnostic checks for complesh.

This command checks:
- Terminal (TERM and /dev/tty)
- git, used by the git completion mode
- Configuration validity
- Shell integration`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

type checkStatus int

const (
	checkOK checkStatus = iota
	checkWarn
	checkError
)

type checkResult struct {
	name    string
	status  checkStatus
	message string
}

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func runDoctor(cmd *cobra.Command, args []string) error {
	results := []checkResult{
		checkTerminal(),
		checkGit(),
		checkConfiguration(),
		checkShellIntegration(),
	}
	return printChecks(cmd.OutOrStdout(), results)
}

func printChecks(out io.Writer, results []checkResult) error {
	fmt.Fprintln(out, titleStyle.Render("complesh doctor"))
	fmt.Fprintln(out, strings.Repeat("-", 40))
	fmt.Fprintln(out)

	worst := checkOK
	for _, r := range results {
		var icon string
		switch r.status {
		case checkOK:
			icon = okStyle.Render("[OK]")
		case checkWarn:
			icon = warnStyle.Render("[WARN]")
		default:
			icon = errorStyle.Render("[ERROR]")
		}
		worst = max(worst, r.status)

		fmt.Fprintf(out, "  %s %s\n", icon, r.name)
		if r.message != "" {
			fmt.Fprintf(out, "       %s\n", dimStyle.Render(r.message))
		}
	}
	fmt.Fprintln(out)

	switch worst {
	case checkError:
		fmt.Fprintln(out, errorStyle.Render("Some checks failed. Please fix the errors above."))
		return fmt.Errorf("doctor found errors")
	case checkWarn:
		fmt.Fprintln(out, warnStyle.Render("All critical checks passed, but there are warnings."))
	default:
		fmt.Fprintln(out, okStyle.Render("All checks passed!"))
	}
	return nil
}

func checkTerminal() checkResult {
	const name = "Terminal"
	if err := checkTERM(); err != nil {
		return checkResult{name: name, status: checkError, message: err.Error()}
	}
	if err := checkTTY(); err != nil {
		return checkResult{name: name, status: checkError, message: err.Error()}
	}
	return checkResult{name: name, status: checkOK, message: "TERM=" + os.Getenv("TERM")}
}

func checkGit() checkResult {
	path, err := exec.LookPath("git")
	if err != nil {
		return checkResult{name: "git", status: checkWarn, message: "git not found in PATH (git mode falls back to nothing)"}
	}
	return checkResult{name: "git", status: checkOK, message: path}
}

func checkConfiguration() checkResult {
	const name = "Configuration"
	file := configPath
	if file == "" {
		file = config.DefaultPaths().ConfigFile()
	}
	if _, err := config.LoadFromFile(file); err != nil {
		return checkResult{name: name, status: checkError, message: err.Error()}
	}
	return checkResult{name: name, status: checkOK, message: file}
}

func checkShellIntegration() checkResult {
	const name = "Shell integration"
	shell := detectShell()
	if shell == "" {
		return checkResult{name: name, status: checkWarn, message: "could not detect shell"}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return checkResult{name: name, status: checkWarn, message: err.Error()}
	}

	rcFile := rcFileFor(home, shell)
	line, err := installedLine(rcFile)
	switch {
	case err != nil:
		return checkResult{name: name, status: checkWarn, message: err.Error()}
	case line == "":
		return checkResult{name: name, status: checkWarn, message: fmt.Sprintf("not installed in %s (run: complesh install)", rcFile)}
	}
	return checkResult{name: name, status: checkOK, message: rcFile}
}
