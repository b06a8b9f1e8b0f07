package config

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDefaultPaths(t *testing.T) {
	paths := DefaultPaths()

	if paths.ConfigDir == "" {
		t.Error("ConfigDir is empty")
	}
	if paths.CacheDir == "" {
		t.Error("CacheDir is empty")
	}

	if !filepath.IsAbs(paths.ConfigDir) {
		t.Errorf("ConfigDir should be absolute: %s", paths.ConfigDir)
	}
	if !filepath.IsAbs(paths.CacheDir) {
		t.Errorf("CacheDir should be absolute: %s", paths.CacheDir)
	}
}

func TestDefaultPaths_XDG(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG test not applicable on Windows")
	}

	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	t.Setenv("XDG_CACHE_HOME", "/custom/cache")

	paths := DefaultPaths()

	if paths.ConfigDir != "/custom/config/complesh" {
		t.Errorf("ConfigDir should respect XDG_CONFIG_HOME: %s", paths.ConfigDir)
	}
	if paths.CacheDir != "/custom/cache/complesh" {
		t.Errorf("CacheDir should respect XDG_CACHE_HOME: %s", paths.CacheDir)
	}
}

func TestDefaultPaths_FallbackToHome(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG test not applicable on Windows")
	}

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_CACHE_HOME", "")

	paths := DefaultPaths()

	if want := filepath.Join(home, ".config", "complesh"); paths.ConfigDir != want {
		t.Errorf("ConfigDir = %s, want %s", paths.ConfigDir, want)
	}
	if want := filepath.Join(home, ".cache", "complesh"); paths.CacheDir != want {
		t.Errorf("CacheDir = %s, want %s", paths.CacheDir, want)
	}
}

func TestPaths_Files(t *testing.T) {
	paths := &Paths{ConfigDir: "/c", CacheDir: "/k"}

	if got := paths.ConfigFile(); got != filepath.Join("/c", "config.yaml") {
		t.Errorf("ConfigFile = %s", got)
	}
	if got := paths.LogFile(); !strings.HasSuffix(got, "complesh.log") {
		t.Errorf("LogFile should end with complesh.log: %s", got)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	paths := &Paths{
		ConfigDir: filepath.Join(base, "config", "complesh"),
		CacheDir:  filepath.Join(base, "cache", "complesh"),
	}

	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{paths.ConfigDir, paths.CacheDir} {
		if !dirExists(dir) {
			t.Errorf("directory not created: %s", dir)
		}
	}

	if err := paths.EnsureDirectories(); err != nil {
		t.Errorf("EnsureDirectories should be idempotent: %v", err)
	}
}
