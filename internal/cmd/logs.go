package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/runger/complesh/internal/config"
)

var logsLines int

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the diagnostic log",
	Long: `Show the tail of the complesh log file.

Logging is off unless log.file is set or COMPLESH_DEBUG=1, in which case
it goes to $XDG_CACHE_HOME/complesh/complesh.log.`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 50, "number of lines to show")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	file := cfg.Log.File
	if file == "" {
		file = config.DefaultPaths().LogFile()
	}

	f, err := os.Open(file)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(cmd.OutOrStdout(), "No log file found at: %s\n", file)
			return nil
		}
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	return tailLines(f, logsLines, cmd.OutOrStdout())
}

// tailLines copies the last n lines of r to w.
func tailLines(r io.Reader, n int, w io.Writer) error {
	if n <= 0 {
		return nil
	}
	lines := make([]string, 0, n)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(lines) == n {
			lines = lines[1:]
		}
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read log file: %w", err)
	}
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	return nil
}
