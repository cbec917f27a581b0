// Package bootstrap wires flags, configuration and services into the
// gcommit root command.
package bootstrap

import (
	urfavecli "github.com/urfave/cli/v3"
)

// globalFlags returns all global flags for the application.
// Note: --version and --help are provided automatically by urfave/cli.
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "ollama-url",
			Aliases: []string{"u"},
			Usage:   "Ollama server base URL",
			Sources: urfavecli.EnvVars("GCOMMIT_OLLAMA_URL", "OLLAMA_HOST"),
		},
		&urfavecli.StringFlag{
			Name:    "model",
			Aliases: []string{"m"},
			Usage:   "Ollama model to use",
			Sources: urfavecli.EnvVars("GCOMMIT_MODEL"),
		},
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.StringSliceFlag{
			Name:    "config",
			Aliases: []string{"C"},
			Usage:   "Override config values (repeatable): --config=gc.key=value",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file",
		},
		&urfavecli.BoolFlag{
			Name:  "no-icons",
			Usage: "Disable file icons in listings",
		},
	}
}
