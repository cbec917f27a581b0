package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/chmouel/gcommit/internal/buildinfo"
	"github.com/chmouel/gcommit/internal/cli"
	"github.com/chmouel/gcommit/internal/completion"
	"github.com/chmouel/gcommit/internal/config"
	"github.com/chmouel/gcommit/internal/git"
	"github.com/chmouel/gcommit/internal/log"
	"github.com/chmouel/gcommit/internal/ollama"
	"github.com/chmouel/gcommit/internal/utils"
	urfavecli "github.com/urfave/cli/v3"
)

// runFunc executes the pipeline; tests replace it to observe the wiring.
var runFunc = func(ctx context.Context, runner *cli.Runner, hint string) error {
	return runner.Run(ctx, hint)
}

// New builds the gcommit root command.
func New() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "gcommit",
		Usage:     "Generate a commit message for staged changes with a local LLM",
		ArgsUsage: "[hint]",
		Version:   buildinfo.Version(),
		Flags:     globalFlags(),
		Commands: []*urfavecli.Command{
			completionCommand(),
		},
		Action: run,
	}
}

// run is the default action: load configuration, build the services and
// execute the pipeline once.
func run(ctx context.Context, cmd *urfavecli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := setupDebugLog(cfg.DebugLog); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening debug log file %q: %v\n", cfg.DebugLog, err)
	}
	defer func() { _ = log.Close() }()

	hint := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))

	gitSvc := git.NewService()
	client := ollama.New(cfg.OllamaURL, cfg.Model,
		ollama.WithProbeTimeout(cfg.ProbeTimeout),
		ollama.WithGenerateTimeout(cfg.GenerateTimeout),
		ollama.WithMaxDiffChars(cfg.MaxDiffChars),
	)

	return runFunc(ctx, cli.NewRunner(gitSvc, client, cfg), hint)
}

// loadConfig layers the configuration sources: defaults, YAML file, git
// config, environment/flags, then --config overrides.
func loadConfig(cmd *urfavecli.Command) (*config.AppConfig, error) {
	cfg, err := config.LoadConfig(cmd.String("config-file"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}

	cfg.ApplyGitConfig(config.DetermineRepoPath())

	if url := cmd.String("ollama-url"); url != "" {
		cfg.OllamaURL = normalizeURL(url)
	}
	if model := cmd.String("model"); model != "" {
		cfg.Model = model
	}
	if debugLog := cmd.String("debug-log"); debugLog != "" {
		cfg.DebugLog = debugLog
	}
	if cmd.Bool("no-icons") {
		cfg.ShowIcons = false
	}

	if overrides := cmd.StringSlice("config"); len(overrides) > 0 {
		if err := cfg.ApplyCLIOverrides(overrides); err != nil {
			return nil, fmt.Errorf("applying config overrides: %w", err)
		}
	}

	return cfg, nil
}

// setupDebugLog points the debug logger at the configured file, or discards
// buffered output when no file is configured.
func setupDebugLog(path string) error {
	if path == "" {
		return log.SetFile("")
	}

	expanded, err := utils.ExpandPath(path)
	if err != nil {
		return log.SetFile(path)
	}
	return log.SetFile(expanded)
}

// normalizeURL accepts OLLAMA_HOST style host:port values by defaulting the
// scheme to http.
func normalizeURL(url string) string {
	if strings.Contains(url, "://") {
		return url
	}
	return "http://" + url
}

// completionCommand returns the completion subcommand definition.
func completionCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "completion",
		Usage:     "Generate shell completion scripts",
		ArgsUsage: "<bash|zsh|fish>",
		Action: func(_ context.Context, cmd *urfavecli.Command) error {
			if cmd.Args().Len() == 0 {
				return fmt.Errorf("usage: gcommit completion <bash|zsh|fish>")
			}

			script, err := completion.Script(cmd.Args().First())
			if err != nil {
				return err
			}
			_, _ = os.Stdout.WriteString(script)
			return nil
		},
	}
}
