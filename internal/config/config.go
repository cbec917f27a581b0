// Package config loads gcommit configuration from YAML, git config and CLI
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for the Ollama endpoint and model.
const (
	DefaultOllamaURL = "http://localhost:11434"
	DefaultModel     = "gemma3:4b-it-qat"
)

// AppConfig defines the global gcommit configuration options.
type AppConfig struct {
	OllamaURL       string        // Base URL of the Ollama endpoint
	Model           string        // Model name passed to /api/generate
	ShowIcons       bool          // Render Nerd Font icons in file listings (default: true)
	DebugLog        string        // Path to debug log file, empty disables logging
	MaxDiffChars    int           // Per-file diff size cap sent to the model
	ProbeTimeout    time.Duration // Timeout for the liveness probe
	GenerateTimeout time.Duration // Timeout for each generate call
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		OllamaURL:       DefaultOllamaURL,
		Model:           DefaultModel,
		ShowIcons:       true,
		MaxDiffChars:    32 * 1024,
		ProbeTimeout:    5 * time.Second,
		GenerateTimeout: 120 * time.Second,
	}
}

// coerceBool converts yaml/git-config values to bool.
func coerceBool(value any, defaultVal bool) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return defaultVal
		}
		return parsed
	default:
		return defaultVal
	}
}

// coerceInt converts yaml/git-config values to int.
func coerceInt(value any, defaultVal int) int {
	switch v := value.(type) {
	case int:
		return v
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return defaultVal
		}
		return parsed
	default:
		return defaultVal
	}
}

// coerceDuration accepts either a duration string ("30s") or a bare number
// of seconds.
func coerceDuration(value any, defaultVal time.Duration) time.Duration {
	switch v := value.(type) {
	case int:
		return time.Duration(v) * time.Second
	case string:
		s := strings.TrimSpace(v)
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
		if n, err := strconv.Atoi(s); err == nil {
			return time.Duration(n) * time.Second
		}
		return defaultVal
	default:
		return defaultVal
	}
}

// applyMap merges a key/value map into the configuration. Unknown keys are
// ignored so older configs keep working.
func (c *AppConfig) applyMap(data map[string]any) {
	if url, ok := data["ollama_url"].(string); ok {
		url = strings.TrimSpace(url)
		if url != "" {
			c.OllamaURL = url
		}
	}

	if model, ok := data["model"].(string); ok {
		model = strings.TrimSpace(model)
		if model != "" {
			c.Model = model
		}
	}

	if debugLog, ok := data["debug_log"].(string); ok {
		debugLog = strings.TrimSpace(debugLog)
		if debugLog != "" {
			c.DebugLog = debugLog
		}
	}

	if v, ok := data["show_icons"]; ok {
		c.ShowIcons = coerceBool(v, c.ShowIcons)
	}

	if v, ok := data["max_diff_chars"]; ok {
		if n := coerceInt(v, c.MaxDiffChars); n > 0 {
			c.MaxDiffChars = n
		}
	}

	if v, ok := data["probe_timeout"]; ok {
		if d := coerceDuration(v, c.ProbeTimeout); d > 0 {
			c.ProbeTimeout = d
		}
	}

	if v, ok := data["generate_timeout"]; ok {
		if d := coerceDuration(v, c.GenerateTimeout); d > 0 {
			c.GenerateTimeout = d
		}
	}
}

func getConfigDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// LoadConfig reads the application configuration from a YAML file. With an
// empty configPath the default locations under the gcommit config directory
// are tried; a missing file yields the defaults. Errors come back alongside
// a usable default config so callers can warn and continue.
func LoadConfig(configPath string) (*AppConfig, error) {
	configBase := filepath.Clean(filepath.Join(getConfigDir(), "gcommit"))

	var paths []string

	if configPath != "" {
		expanded, err := expandPath(configPath)
		if err != nil {
			return DefaultConfig(), err
		}
		absPath, err := filepath.Abs(expanded)
		if err != nil {
			return DefaultConfig(), err
		}
		paths = []string{absPath}
	} else {
		paths = []string{
			filepath.Join(configBase, "config.yaml"),
			filepath.Join(configBase, "config.yml"),
		}
	}

	cfg := DefaultConfig()

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		// #nosec G304 -- path comes from the user's own config flag or directory
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var yamlData map[string]any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			return DefaultConfig(), fmt.Errorf("parsing %s: %w", path, err)
		}

		cfg.applyMap(yamlData)
		break
	}

	return cfg, nil
}

// ApplyGitConfig layers `gc.*` values from git config onto the
// configuration: global first, then the repository's local config.
func (c *AppConfig) ApplyGitConfig(repoPath string) {
	for _, globalOnly := range []bool{true, false} {
		data, err := loadGitConfig(globalOnly, repoPath)
		if err != nil {
			continue
		}
		c.applyMap(data)
	}
}

// ApplyCLIOverrides merges --config=gc.key=value overrides, the highest
// precedence configuration source.
func (c *AppConfig) ApplyCLIOverrides(overrides []string) error {
	if len(overrides) == 0 {
		return nil
	}

	data, err := parseCLIConfigOverrides(overrides)
	if err != nil {
		return err
	}

	c.applyMap(data)
	return nil
}

func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}
