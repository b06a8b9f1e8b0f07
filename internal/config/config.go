package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complesh configuration.
type Config struct {
	Prompt     PromptConfig     `yaml:"prompt"`
	Completion CompletionConfig `yaml:"completion"`
	Log        LogConfig        `yaml:"log"`
}

// PromptConfig holds dropdown settings.
type PromptConfig struct {
	Height          int `yaml:"height"`            // Rows drawn, prompt line included
	CursorTimeoutMs int `yaml:"cursor_timeout_ms"` // Wait for the cursor position report
}

// CompletionConfig holds candidate source settings.
type CompletionConfig struct {
	Mode               string `yaml:"mode"`                 // auto, git or recursive
	RecursiveDepth     int    `yaml:"recursive_depth"`      // Walk depth outside a repository
	RecursiveRepoDepth int    `yaml:"recursive_repo_depth"` // Walk depth inside a repository
	GitDepth           int    `yaml:"git_depth"`            // Repository walk depth
	Workers            int    `yaml:"workers"`              // Repository walk workers
	MaxResults         int    `yaml:"max_results"`          // Candidates kept per query (0 = all)
}

// LogConfig holds diagnostic log settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Log file path (empty = no log unless debugging)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Prompt: PromptConfig{
			Height:          5,
			CursorTimeoutMs: 1000,
		},
		Completion: CompletionConfig{
			Mode:               "auto",
			RecursiveDepth:     1,
			RecursiveRepoDepth: 3,
			GitDepth:           32,
			Workers:            8,
			MaxResults:         1000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	paths := DefaultPaths()
	return LoadFromFile(paths.ConfigFile())
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, returns default configuration.
// Environment variable overrides are applied after file loading.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves the configuration to the specified file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Get retrieves a configuration value by dot-separated key.
// For example: "prompt.height" or "completion.mode"
func (c *Config) Get(key string) (string, error) {
	section, field, err := splitKey(key)
	if err != nil {
		return "", err
	}

	switch section {
	case "prompt":
		return c.getPromptField(field)
	case "completion":
		return c.getCompletionField(field)
	case "log":
		return c.getLogField(field)
	default:
		return "", fmt.Errorf("unknown section: %s", section)
	}
}

// Set sets a configuration value by dot-separated key.
func (c *Config) Set(key, value string) error {
	section, field, err := splitKey(key)
	if err != nil {
		return err
	}

	switch section {
	case "prompt":
		return c.setPromptField(field, value)
	case "completion":
		return c.setCompletionField(field, value)
	case "log":
		return c.setLogField(field, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func splitKey(key string) (section, field string, err error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", "", errors.New("key must be in format 'section.key'")
	}
	return parts[0], parts[1], nil
}

func (c *Config) getPromptField(field string) (string, error) {
	switch field {
	case "height":
		return strconv.Itoa(c.Prompt.Height), nil
	case "cursor_timeout_ms":
		return strconv.Itoa(c.Prompt.CursorTimeoutMs), nil
	default:
		return "", fmt.Errorf("unknown field: prompt.%s", field)
	}
}

func (c *Config) setPromptField(field, value string) error {
	switch field {
	case "height":
		v, err := atoiMin(field, value, 1)
		if err != nil {
			return err
		}
		c.Prompt.Height = v
	case "cursor_timeout_ms":
		v, err := atoiMin(field, value, 1)
		if err != nil {
			return err
		}
		c.Prompt.CursorTimeoutMs = v
	default:
		return fmt.Errorf("unknown field: prompt.%s", field)
	}
	return nil
}

func (c *Config) getCompletionField(field string) (string, error) {
	switch field {
	case "mode":
		return c.Completion.Mode, nil
	case "recursive_depth":
		return strconv.Itoa(c.Completion.RecursiveDepth), nil
	case "recursive_repo_depth":
		return strconv.Itoa(c.Completion.RecursiveRepoDepth), nil
	case "git_depth":
		return strconv.Itoa(c.Completion.GitDepth), nil
	case "workers":
		return strconv.Itoa(c.Completion.Workers), nil
	case "max_results":
		return strconv.Itoa(c.Completion.MaxResults), nil
	default:
		return "", fmt.Errorf("unknown field: completion.%s", field)
	}
}

func (c *Config) setCompletionField(field, value string) error {
	if field == "mode" {
		if !isValidMode(value) {
			return fmt.Errorf("invalid mode: %s (must be auto, git, or recursive)", value)
		}
		c.Completion.Mode = value
		return nil
	}

	var target *int
	minimum := 1
	switch field {
	case "recursive_depth":
		target = &c.Completion.RecursiveDepth
	case "recursive_repo_depth":
		target = &c.Completion.RecursiveRepoDepth
	case "git_depth":
		target = &c.Completion.GitDepth
	case "workers":
		target = &c.Completion.Workers
	case "max_results":
		target, minimum = &c.Completion.MaxResults, 0
	default:
		return fmt.Errorf("unknown field: completion.%s", field)
	}

	v, err := atoiMin(field, value, minimum)
	if err != nil {
		return err
	}
	*target = v
	return nil
}

func (c *Config) getLogField(field string) (string, error) {
	switch field {
	case "level":
		return c.Log.Level, nil
	case "file":
		return c.Log.File, nil
	default:
		return "", fmt.Errorf("unknown field: log.%s", field)
	}
}

func (c *Config) setLogField(field, value string) error {
	switch field {
	case "level":
		if !isValidLogLevel(value) {
			return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", value)
		}
		c.Log.Level = value
	case "file":
		c.Log.File = value
	default:
		return fmt.Errorf("unknown field: log.%s", field)
	}
	return nil
}

func atoiMin(field, value string, minimum int) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", field, err)
	}
	if v < minimum {
		return 0, fmt.Errorf("%s must be >= %d", field, minimum)
	}
	return v, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Prompt.Height < 1 {
		return errors.New("prompt.height must be >= 1")
	}

	if c.Prompt.CursorTimeoutMs < 1 {
		return errors.New("prompt.cursor_timeout_ms must be >= 1")
	}

	if !isValidMode(c.Completion.Mode) {
		return fmt.Errorf("completion.mode must be auto, git, or recursive (got: %s)", c.Completion.Mode)
	}

	if c.Completion.RecursiveDepth < 1 {
		return errors.New("completion.recursive_depth must be >= 1")
	}

	if c.Completion.RecursiveRepoDepth < 1 {
		return errors.New("completion.recursive_repo_depth must be >= 1")
	}

	if c.Completion.GitDepth < 1 {
		return errors.New("completion.git_depth must be >= 1")
	}

	if c.Completion.Workers < 1 {
		return errors.New("completion.workers must be >= 1")
	}

	if c.Completion.MaxResults < 0 {
		return errors.New("completion.max_results must be >= 0")
	}

	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error (got: %s)", c.Log.Level)
	}

	return nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func isValidMode(mode string) bool {
	switch mode {
	case "auto", "git", "recursive":
		return true
	default:
		return false
	}
}

// ApplyEnvOverrides applies environment variable overrides to the config.
// Invalid values are ignored.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("COMPLESH_HEIGHT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Prompt.Height = n
		}
	}
	if v := os.Getenv("COMPLESH_MODE"); v != "" {
		if isValidMode(v) {
			c.Completion.Mode = v
		}
	}
	if v := os.Getenv("COMPLESH_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Log.Level = "debug"
		}
	}
	if v := os.Getenv("COMPLESH_LOG_LEVEL"); v != "" {
		if isValidLogLevel(v) {
			c.Log.Level = v
		}
	}
	if v := os.Getenv("COMPLESH_LOG_FILE"); v != "" {
		c.Log.File = v
	}
}

// ListKeys returns the user-facing configuration keys.
func ListKeys() []string {
	return []string{
		"prompt.height",
		"prompt.cursor_timeout_ms",
		"completion.mode",
		"completion.recursive_depth",
		"completion.recursive_repo_depth",
		"completion.git_depth",
		"completion.workers",
		"completion.max_results",
		"log.level",
		"log.file",
	}
}
