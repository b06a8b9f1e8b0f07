// Package main is the entry point for the complesh CLI.
package main

import (
	"os"

	"github.com/runger/complesh/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
