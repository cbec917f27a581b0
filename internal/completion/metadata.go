// Package completion generates shell completion scripts for gcommit.
package completion

// FlagInfo contains metadata about a command-line flag for completion
// generation.
type FlagInfo struct {
	Name        string // Flag name without dashes
	Description string // Human-readable description
	HasValue    bool   // true for string flags, false for bool flags
	ValueHint   string // Hint for value type (e.g., "URL", "NAME", "PATH")
}

// GetFlags returns metadata for all gcommit command-line flags. This is the
// single source of truth for shell completion generation.
func GetFlags() []FlagInfo {
	return []FlagInfo{
		{
			Name:        "ollama-url",
			Description: "Ollama server base URL",
			HasValue:    true,
			ValueHint:   "URL",
		},
		{
			Name:        "model",
			Description: "Ollama model to use",
			HasValue:    true,
			ValueHint:   "NAME",
		},
		{
			Name:        "config-file",
			Description: "Path to configuration file",
			HasValue:    true,
			ValueHint:   "PATH",
		},
		{
			Name:        "config",
			Description: "Override config values (gc.key=value)",
			HasValue:    true,
			ValueHint:   "KEY=VALUE",
		},
		{
			Name:        "debug-log",
			Description: "Path to debug log file",
			HasValue:    true,
			ValueHint:   "PATH",
		},
		{
			Name:        "no-icons",
			Description: "Disable file icons in listings",
			HasValue:    false,
		},
		{
			Name:        "help",
			Description: "Show help",
			HasValue:    false,
		},
		{
			Name:        "version",
			Description: "Print version information",
			HasValue:    false,
		},
	}
}
