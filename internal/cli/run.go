// Package cli implements the gcommit pipeline: inspect the repository,
// summarize staged changes through the inference endpoint, confirm with the
// user and commit.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chmouel/gcommit/internal/config"
	"github.com/chmouel/gcommit/internal/git"
	"github.com/chmouel/gcommit/internal/models"
	"github.com/chmouel/gcommit/internal/ollama"
)

// gitService is the subset of git operations the pipeline needs.
type gitService interface {
	IsRepository(ctx context.Context) error
	UntrackedFiles(ctx context.Context) ([]string, error)
	StagedChanges(ctx context.Context) ([]models.StagedChange, error)
	Commit(ctx context.Context, message string) (string, error)
}

var _ gitService = (*git.Service)(nil)

// generator is the subset of inference operations the pipeline needs.
type generator interface {
	Available(ctx context.Context) bool
	SummarizeFile(ctx context.Context, path, diff, hint string) (models.FileSummary, error)
	GenerateCommitMessage(ctx context.Context, summaries []models.FileSummary, hint string) (string, error)
	BaseURL() string
}

var _ generator = (*ollama.Client)(nil)

// Runner drives one commit-message generation run. Stdin/Stdout/Stderr are
// injectable so tests can script the whole interaction.
type Runner struct {
	Git    gitService
	Ollama generator
	Config *config.AppConfig

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	confirm confirmFunc
}

// NewRunner wires a Runner to the process's standard streams.
func NewRunner(gitSvc gitService, gen generator, cfg *config.AppConfig) *Runner {
	return &Runner{
		Git:     gitSvc,
		Ollama:  gen,
		Config:  cfg,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		confirm: defaultConfirm,
	}
}

// Run executes the pipeline once. A nil return means either a successful
// commit or a graceful no-op (nothing staged, user cancelled); every error
// is fatal for the run and maps to a non-zero exit in the caller.
func (r *Runner) Run(ctx context.Context, hint string) error {
	if err := r.Git.IsRepository(ctx); err != nil {
		return err
	}

	r.warnUntracked(ctx)

	changes, err := r.Git.StagedChanges(ctx)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		fmt.Fprintln(r.Stdout, "No staged changes to commit.")
		fmt.Fprintln(r.Stdout, "Use 'git add <files>' to stage your changes first.")
		return nil
	}

	if !r.Ollama.Available(ctx) {
		return fmt.Errorf("ollama is not reachable at %s: start it with 'ollama serve' or point --ollama-url at a running instance", r.Ollama.BaseURL())
	}

	summaries, err := r.summarize(ctx, changes, hint)
	if err != nil {
		return err
	}

	fmt.Fprintln(r.Stdout, "Generating commit message...")
	draft, err := r.Ollama.GenerateCommitMessage(ctx, summaries, hint)
	if err != nil {
		return err
	}

	fmt.Fprintln(r.Stdout)
	fmt.Fprintln(r.Stdout, "Generated commit message:")
	fmt.Fprintln(r.Stdout, renderDraft(draft, widthFor(r.Stdout)))
	fmt.Fprintln(r.Stdout)

	choice, err := r.confirm(r.Stdin, r.Stdout, draft)
	if err != nil {
		return err
	}
	if choice.aborted {
		fmt.Fprintln(r.Stdout, "Commit cancelled.")
		return nil
	}

	out, err := r.Git.Commit(ctx, choice.message)
	if err != nil {
		return err
	}
	if out != "" {
		fmt.Fprintln(r.Stdout, out)
	}
	fmt.Fprintln(r.Stdout, successStyle.Render("Changes committed."))
	return nil
}

// warnUntracked prints the advisory untracked-files banner. Failures here
// never block the run.
func (r *Runner) warnUntracked(ctx context.Context) {
	files, err := r.Git.UntrackedFiles(ctx)
	if err != nil || len(files) == 0 {
		return
	}
	fmt.Fprint(r.Stderr, renderUntrackedWarning(files, r.Config.ShowIcons))
}

// summarize asks the endpoint for a one-sentence summary per staged file,
// skipping files whose staged diff is empty (mode or rename-only changes).
// Any inference failure aborts the run so the aggregate message is never
// built from partial data.
func (r *Runner) summarize(ctx context.Context, changes []models.StagedChange, hint string) ([]models.FileSummary, error) {
	fmt.Fprintln(r.Stdout, "Analyzing staged files...")

	summaries := make([]models.FileSummary, 0, len(changes))
	for i, change := range changes {
		if change.Diff == "" {
			continue
		}
		fmt.Fprintf(r.Stdout, "(%d/%d) Summarizing changes in %s...\n", i+1, len(changes), change.Path)

		summary, err := r.Ollama.SummarizeFile(ctx, change.Path, change.Diff, hint)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	if len(summaries) == 0 {
		return nil, errors.New("could not summarize any file changes: all staged diffs are empty")
	}
	return summaries, nil
}
