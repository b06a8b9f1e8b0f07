package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintChecks(t *testing.T) {
	var out bytes.Buffer
	err := printChecks(&out, []checkResult{
		{name: "Terminal", status: checkOK, message: "TERM=xterm"},
		{name: "git", status: checkWarn, message: "missing"},
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "[OK] Terminal")
	assert.Contains(t, out.String(), "[WARN] git")
	assert.Contains(t, out.String(), "but there are warnings")

	out.Reset()
	err = printChecks(&out, []checkResult{{name: "Configuration", status: checkError}})
	assert.Error(t, err)
	assert.Contains(t, out.String(), "[ERROR] Configuration")
}

func TestCheckConfiguration(t *testing.T) {
	resetCommand(t)
	isolateConfig(t)

	configPath = filepath.Join(t.TempDir(), "config.yaml")
	assert.Equal(t, checkOK, checkConfiguration().status, "missing file means defaults")

	require.NoError(t, os.WriteFile(configPath, []byte("prompt:\n  height: 0\n"), 0600))
	assert.Equal(t, checkError, checkConfiguration().status)
}

func TestCheckTerminal_Dumb(t *testing.T) {
	t.Setenv("TERM", "dumb")
	assert.Equal(t, checkError, checkTerminal().status)
}

func TestCheckShellIntegration(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SHELL", "/bin/zsh")
	if detectShell() != "zsh" {
		t.Skip("parent process is a different shell")
	}

	assert.Equal(t, checkWarn, checkShellIntegration().status)

	require.NoError(t, appendInstall(filepath.Join(home, ".zshrc"), "zsh"))
	assert.Equal(t, checkOK, checkShellIntegration().status)
}
