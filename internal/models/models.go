// Package models defines the data objects shared across gcommit packages.
package models

// StagedChange pairs a staged file path with its diff text as reported by
// git. The diff may be empty for mode-only or rename-only changes.
type StagedChange struct {
	Path string
	Diff string
}

// FileSummary holds the generated one-sentence description of a file's
// staged changes.
type FileSummary struct {
	Path    string
	Summary string
}
