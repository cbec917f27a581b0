// Package git wraps the git commands used by gcommit.
package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	log "github.com/chmouel/gcommit/internal/log"
	"github.com/chmouel/gcommit/internal/models"
)

// ErrRepositoryUnavailable reports that git cannot be used here: the binary
// is missing or the working directory is not inside a repository.
var ErrRepositoryUnavailable = errors.New("git repository unavailable")

// CommitReason classifies why a commit invocation failed.
type CommitReason int

const (
	// ReasonUnknown covers commit failures that could not be classified.
	ReasonUnknown CommitReason = iota
	// ReasonNothingToCommit means the index was empty at commit time,
	// typically a race with another process unstaging the changes.
	ReasonNothingToCommit
	// ReasonHookRejected means a commit hook declined the commit.
	ReasonHookRejected
)

// CommitError describes a failed `git commit` invocation.
type CommitError struct {
	Reason CommitReason
	Detail string
}

func (e *CommitError) Error() string {
	switch e.Reason {
	case ReasonNothingToCommit:
		return "nothing to commit: the staged changes disappeared before the commit ran"
	case ReasonHookRejected:
		if e.Detail != "" {
			return fmt.Sprintf("commit rejected by hook: %s", e.Detail)
		}
		return "commit rejected by hook"
	default:
		if e.Detail != "" {
			return fmt.Sprintf("git commit failed: %s", e.Detail)
		}
		return "git commit failed"
	}
}

// LookupPath is used to find executables in PATH. It's exposed as a package
// variable so tests can mock it and avoid depending on system binaries.
var LookupPath = exec.LookPath

// Service runs git commands for the commit pipeline. It is stateless; every
// method is a single git invocation in the current working directory.
type Service struct{}

// NewService constructs a Service.
func NewService() *Service {
	return &Service{}
}

func (s *Service) debugf(format string, args ...any) {
	log.Printf(format, args...)
}

// run executes a git command and returns its stdout. Stderr from a non-zero
// exit is folded into the returned error.
func (s *Service) run(ctx context.Context, args ...string) (string, error) {
	command := "git " + strings.Join(args, " ")
	s.debugf("run: %s", command)

	// #nosec G204 -- only the git binary is invoked and arguments are never shell interpolated
	cmd := exec.CommandContext(ctx, "git", args...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			detail := strings.TrimSpace(string(exitErr.Stderr))
			s.debugf("error: %s (exit %d): %s", command, exitErr.ExitCode(), detail)
			if detail != "" {
				return "", fmt.Errorf("%s: %s", command, detail)
			}
			return "", fmt.Errorf("%s: exit %d", command, exitErr.ExitCode())
		}
		s.debugf("error: %s: %v", command, err)
		return "", fmt.Errorf("%s: %w", command, err)
	}

	s.debugf("ok: %s", command)
	return string(output), nil
}

// IsRepository verifies that git is installed and the current directory is
// inside a work tree.
func (s *Service) IsRepository(ctx context.Context) error {
	if _, err := LookupPath("git"); err != nil {
		return fmt.Errorf("%w: git binary not found in PATH", ErrRepositoryUnavailable)
	}
	if _, err := s.run(ctx, "rev-parse", "--git-dir"); err != nil {
		return fmt.Errorf("%w: not inside a git repository", ErrRepositoryUnavailable)
	}
	return nil
}

// UntrackedFiles lists paths that are neither tracked nor ignored.
func (s *Service) UntrackedFiles(ctx context.Context) ([]string, error) {
	out, err := s.run(ctx, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// StagedFiles lists staged paths in the order git reports them.
func (s *Service) StagedFiles(ctx context.Context) ([]string, error) {
	out, err := s.run(ctx, "diff", "--staged", "--name-only")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// StagedDiff returns the staged diff for a single path. The diff can be
// empty for mode-only or rename-only changes.
func (s *Service) StagedDiff(ctx context.Context, path string) (string, error) {
	return s.run(ctx, "diff", "--staged", "--", path)
}

// StagedChanges returns the staged files with their diffs, preserving the
// order reported by git. An empty slice means nothing is staged.
func (s *Service) StagedChanges(ctx context.Context) ([]models.StagedChange, error) {
	files, err := s.StagedFiles(ctx)
	if err != nil {
		return nil, err
	}

	changes := make([]models.StagedChange, 0, len(files))
	for _, file := range files {
		diff, err := s.StagedDiff(ctx, file)
		if err != nil {
			return nil, err
		}
		changes = append(changes, models.StagedChange{Path: file, Diff: diff})
	}
	return changes, nil
}

// Commit runs `git commit -m` with the message passed verbatim as a single
// argument, newlines and quotes included. The returned string is git's own
// output (the commit summary). A non-zero exit yields a *CommitError whose
// Reason distinguishes an empty index from a hook rejection.
func (s *Service) Commit(ctx context.Context, message string) (string, error) {
	s.debugf("run: git commit -m <%d bytes>", len(message))

	// #nosec G204 -- the message is a single argv element, never shell interpolated
	cmd := exec.CommandContext(ctx, "git", "commit", "-m", message)
	output, err := cmd.CombinedOutput()
	detail := strings.TrimSpace(string(output))
	if err != nil {
		s.debugf("error: git commit: %s", detail)
		return "", &CommitError{Reason: classifyCommitFailure(detail), Detail: detail}
	}

	s.debugf("ok: git commit")
	return detail, nil
}

// classifyCommitFailure maps git commit output to a CommitReason.
func classifyCommitFailure(output string) CommitReason {
	lower := strings.ToLower(output)
	switch {
	case strings.Contains(lower, "nothing to commit"),
		strings.Contains(lower, "no changes added to commit"),
		strings.Contains(lower, "nothing added to commit"):
		return ReasonNothingToCommit
	case strings.Contains(lower, "hook"):
		return ReasonHookRejected
	default:
		return ReasonUnknown
	}
}

func splitLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
