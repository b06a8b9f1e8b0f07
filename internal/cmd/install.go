package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/runger/complesh/internal/config"
)

const installMarker = "# complesh shell integration"

var successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)

var installShell string

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install shell integration",
	Long: `Add complesh to your shell configuration file.

This appends an eval line to your shell's rc file (.zshrc, .bashrc) that
loads the completion widget on startup.

By default the shell is detected from the parent process or $SHELL.

Examples:
  complesh install              # Auto-detect shell
  complesh install --shell=zsh  # Install for zsh`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove shell integration",
	Args:  cobra.NoArgs,
	RunE:  runUninstall,
}

func init() {
	installCmd.Flags().StringVar(&installShell, "shell", "", "shell to install for (zsh, bash)")
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	shell := installShell
	if shell == "" {
		shell = detectShell()
	}
	switch shell {
	case "zsh", "bash":
	case "":
		return fmt.Errorf("could not detect shell, please specify with --shell=zsh or --shell=bash")
	default:
		return fmt.Errorf("unsupported shell: %s (supported: zsh, bash)", shell)
	}

	if err := config.DefaultPaths().EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	rcFile := rcFileFor(home, shell)

	out := cmd.OutOrStdout()
	line, err := installedLine(rcFile)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", rcFile, err)
	}
	if line != "" {
		fmt.Fprintf(out, "complesh is already installed in %s\n  Line: %s\n", rcFile, line)
		return nil
	}

	if err := appendInstall(rcFile, shell); err != nil {
		return err
	}
	fmt.Fprintln(out, successStyle.Render("Installed successfully!"))
	fmt.Fprintf(out, "  Added to: %s\n", rcFile)
	fmt.Fprintf(out, "\nStart a new shell or run: %s\n", evalLine(shell))
	return nil
}

func runUninstall(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	out := cmd.OutOrStdout()
	removed := false
	for _, rcFile := range []string{
		filepath.Join(home, ".zshrc"),
		filepath.Join(home, ".bashrc"),
		filepath.Join(home, ".bash_profile"),
	} {
		ok, err := removeFromRCFile(rcFile)
		if err != nil {
			fmt.Fprintf(out, "Warning: failed to process %s: %v\n", rcFile, err)
			continue
		}
		if ok {
			fmt.Fprintf(out, "Removed complesh from: %s\n", rcFile)
			removed = true
		}
	}

	if !removed {
		fmt.Fprintln(out, "No complesh installation found in shell configuration files.")
		return nil
	}
	fmt.Fprintln(out, successStyle.Render("Uninstalled successfully!"))
	return nil
}

func evalLine(shell string) string {
	return fmt.Sprintf(`eval "$(complesh init %s)"`, shell)
}

// detectShell names the shell that started us, falling back to $SHELL.
func detectShell() string {
	if shell := parentShell(); shell != "" {
		return shell
	}
	if shell := shellName(os.Getenv("SHELL")); shell != "" {
		return shell
	}
	if runtime.GOOS == "windows" {
		return "bash"
	}
	return ""
}

func parentShell() string {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", os.Getppid()))
	if err != nil {
		return ""
	}
	return shellName(strings.TrimSpace(string(data)))
}

// shellName maps a process name or path such as "-zsh" or "/bin/bash-5.2"
// to a supported shell.
func shellName(name string) string {
	if name == "" {
		return ""
	}
	base := strings.TrimPrefix(filepath.Base(name), "-")
	if i := strings.Index(base, "-"); i > 0 {
		base = base[:i]
	}
	switch base {
	case "zsh", "bash":
		return base
	}
	return ""
}

func rcFileFor(home, shell string) string {
	if shell == "zsh" {
		return filepath.Join(home, ".zshrc")
	}
	bashrc := filepath.Join(home, ".bashrc")
	if runtime.GOOS == "darwin" {
		if _, err := os.Stat(bashrc); err != nil {
			return filepath.Join(home, ".bash_profile")
		}
	}
	return bashrc
}

// installedLine returns the rc file line that already loads complesh.
func installedLine(rcFile string) (string, error) {
	f, err := os.Open(rcFile)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); strings.Contains(line, "complesh init ") {
			return line, nil
		}
	}
	return "", scanner.Err()
}

func appendInstall(rcFile, shell string) error {
	content, err := os.ReadFile(rcFile)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read %s: %w", rcFile, err)
	}

	f, err := os.OpenFile(rcFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", rcFile, err)
	}
	defer f.Close()

	var b strings.Builder
	if len(content) > 0 && content[len(content)-1] != '\n' {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n%s\n%s\n", installMarker, evalLine(shell))
	if _, err := io.WriteString(f, b.String()); err != nil {
		return fmt.Errorf("failed to write to %s: %w", rcFile, err)
	}
	return nil
}

// removeFromRCFile drops the lines install added and reports whether any
// were found.
func removeFromRCFile(rcFile string) (bool, error) {
	content, err := os.ReadFile(rcFile)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	var kept []string
	removed := false
	scanner := bufio.NewScanner(strings.NewReader(string(content)))
	for scanner.Scan() {
		line := scanner.Text()
		if line == installMarker || strings.Contains(line, "complesh init ") {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if err := scanner.Err(); err != nil {
		return false, err
	}
	if !removed {
		return false, nil
	}

	for len(kept) > 0 && strings.TrimSpace(kept[len(kept)-1]) == "" {
		kept = kept[:len(kept)-1]
	}
	newContent := strings.Join(kept, "\n")
	if len(kept) > 0 {
		newContent += "\n"
	}
	return true, os.WriteFile(rcFile, []byte(newContent), 0644)
}
