package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initTestRepo creates a git repository in a temp directory and chdirs into
// it for the duration of the test.
func initTestRepo(t *testing.T) string {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	dir := t.TempDir()
	t.Chdir(dir)

	for _, args := range [][]string{
		{"init", "--quiet"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "Test User"},
		{"config", "commit.gpgsign", "false"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}

	return dir
}

func stageFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	cmd := exec.Command("git", "add", name)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git add %s: %s", name, out)
}

func TestIsRepository(t *testing.T) {
	initTestRepo(t)
	svc := NewService()

	assert.NoError(t, svc.IsRepository(context.Background()))
}

func TestIsRepositoryOutsideRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	t.Chdir(t.TempDir())
	svc := NewService()

	err := svc.IsRepository(context.Background())
	assert.ErrorIs(t, err, ErrRepositoryUnavailable)
}

func TestIsRepositoryGitMissing(t *testing.T) {
	orig := LookupPath
	LookupPath = func(string) (string, error) { return "", exec.ErrNotFound }
	t.Cleanup(func() { LookupPath = orig })

	svc := NewService()
	err := svc.IsRepository(context.Background())
	assert.ErrorIs(t, err, ErrRepositoryUnavailable)
}

func TestUntrackedFiles(t *testing.T) {
	dir := initTestRepo(t)
	svc := NewService()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "loose.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("ignored.txt\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o600))

	files, err := svc.UntrackedFiles(context.Background())
	require.NoError(t, err)

	assert.Contains(t, files, "loose.txt")
	assert.NotContains(t, files, "ignored.txt")
}

func TestStagedChangesEmpty(t *testing.T) {
	initTestRepo(t)
	svc := NewService()

	changes, err := svc.StagedChanges(context.Background())
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestStagedChangesOrderAndDiffs(t *testing.T) {
	dir := initTestRepo(t)
	svc := NewService()

	stageFile(t, dir, "a.go", "package a\n")
	stageFile(t, dir, "b.go", "package b\n")

	changes, err := svc.StagedChanges(context.Background())
	require.NoError(t, err)
	require.Len(t, changes, 2)

	assert.Equal(t, "a.go", changes[0].Path)
	assert.Equal(t, "b.go", changes[1].Path)
	assert.Contains(t, changes[0].Diff, "+package a")
	assert.Contains(t, changes[1].Diff, "+package b")
}

func TestCommitPreservesMessageVerbatim(t *testing.T) {
	dir := initTestRepo(t)
	svc := NewService()

	stageFile(t, dir, "a.go", "package a\n")

	message := "feat: add package a\n\n- body with \"quotes\"\n- and newlines"
	_, err := svc.Commit(context.Background(), message)
	require.NoError(t, err)

	cmd := exec.Command("git", "log", "-1", "--format=%B")
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t, message+"\n", string(out))
}

func TestCommitNothingStaged(t *testing.T) {
	initTestRepo(t)
	svc := NewService()

	_, err := svc.Commit(context.Background(), "feat: empty")
	require.Error(t, err)

	var commitErr *CommitError
	require.True(t, errors.As(err, &commitErr))
	assert.Equal(t, ReasonNothingToCommit, commitErr.Reason)
}

func TestCommitHookRejected(t *testing.T) {
	dir := initTestRepo(t)
	svc := NewService()

	stageFile(t, dir, "a.go", "package a\n")

	hook := filepath.Join(dir, ".git", "hooks", "pre-commit")
	require.NoError(t, os.MkdirAll(filepath.Dir(hook), 0o750))
	require.NoError(t, os.WriteFile(hook, []byte("#!/bin/sh\necho rejected by pre-commit hook >&2\nexit 1\n"), 0o700)) //nolint:gosec

	_, err := svc.Commit(context.Background(), "feat: blocked")
	require.Error(t, err)

	var commitErr *CommitError
	require.True(t, errors.As(err, &commitErr))
	assert.Equal(t, ReasonHookRejected, commitErr.Reason)
}

func TestClassifyCommitFailure(t *testing.T) {
	assert.Equal(t, ReasonNothingToCommit, classifyCommitFailure("On branch main\nnothing to commit, working tree clean"))
	assert.Equal(t, ReasonHookRejected, classifyCommitFailure("pre-commit hook failed"))
	assert.Equal(t, ReasonUnknown, classifyCommitFailure("fatal: unable to write new index file"))
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a.go", "b.go"}, splitLines("a.go\nb.go\n"))
	assert.Nil(t, splitLines("\n \n"))
}
