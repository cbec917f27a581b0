package config

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// gitConfigMock allows tests to mock git config output.
var gitConfigMock func(args []string, repoPath string) (string, error)

// runGitConfig executes git config and returns raw output.
func runGitConfig(args []string, repoPath string) (string, error) {
	if gitConfigMock != nil {
		return gitConfigMock(args, repoPath)
	}

	cmd := exec.Command("git", args...)
	if repoPath != "" {
		cmd.Dir = repoPath
	}

	output, err := cmd.Output()
	if err != nil {
		// git config returns exit code 1 when no key matches (not an error)
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", err
	}
	return string(output), nil
}

// parseGitConfigOutput parses git config output into a key/value map.
// Input format: "gc.model llama3\ngc.show_icons false\n"
func parseGitConfigOutput(output string) map[string]any {
	result := make(map[string]any)
	if output == "" {
		return result
	}

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			continue
		}

		// SplitN with 2 keeps values containing spaces intact
		parts := strings.SplitN(line, " ", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimPrefix(parts[0], "gc.")
		result[key] = parts[1]
	}

	return result
}

// loadGitConfig reads gc.* git config values for the given scope.
func loadGitConfig(globalOnly bool, repoPath string) (map[string]any, error) {
	args := []string{"config", "--get-regexp", "^gc\\."}

	if globalOnly {
		args = append(args, "--global")
	} else {
		args = append(args, "--local")
	}

	output, err := runGitConfig(args, repoPath)
	if err != nil {
		return nil, err
	}

	return parseGitConfigOutput(output), nil
}

// DetermineRepoPath returns a repository path for local git config lookup,
// falling back to the current directory when it is inside a repository.
func DetermineRepoPath() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}

	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = wd
	if cmd.Run() != nil {
		return ""
	}
	return wd
}

// parseCLIConfigOverrides parses --config=gc.key=value entries.
func parseCLIConfigOverrides(overrides []string) (map[string]any, error) {
	result := make(map[string]any)

	for _, override := range overrides {
		parts := strings.SplitN(override, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config override: %q, expected format: gc.key=value (note: use = not space)", override)
		}

		fullKey := parts[0]
		value := parts[1]

		if !strings.HasPrefix(fullKey, "gc.") {
			return nil, fmt.Errorf("config override key must start with 'gc.': %q", fullKey)
		}

		key := strings.TrimPrefix(fullKey, "gc.")
		if key == "" {
			return nil, fmt.Errorf("empty config key in override: %q", override)
		}

		result[key] = value
	}

	return result, nil
}
