// Package ollama implements a minimal client for the Ollama HTTP API using
// the /api/generate and /api/tags endpoints.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/chmouel/gcommit/internal/log"
	"github.com/chmouel/gcommit/internal/models"
)

// ErrUnreachable reports a transport-level failure talking to the endpoint.
var ErrUnreachable = errors.New("ollama endpoint unreachable")

// ErrEmptyResponse reports a successful call that produced no text.
var ErrEmptyResponse = errors.New("ollama returned an empty response")

// StatusError reports a non-success HTTP status from the endpoint.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ollama API error: status %d", e.Code)
}

// Client talks to a single Ollama endpoint with a fixed model. It keeps no
// state between calls; every request is independent and never retried.
type Client struct {
	baseURL         string
	model           string
	httpClient      *http.Client
	probeTimeout    time.Duration
	generateTimeout time.Duration
	maxDiffChars    int
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithProbeTimeout sets the liveness probe timeout.
func WithProbeTimeout(d time.Duration) Option {
	return func(c *Client) { c.probeTimeout = d }
}

// WithGenerateTimeout sets the per-request generation timeout.
func WithGenerateTimeout(d time.Duration) Option {
	return func(c *Client) { c.generateTimeout = d }
}

// WithMaxDiffChars caps the diff text embedded in a summarize prompt.
func WithMaxDiffChars(n int) Option {
	return func(c *Client) { c.maxDiffChars = n }
}

// New constructs a Client for the given base URL and model.
func New(baseURL, model string, opts ...Option) *Client {
	c := &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		model:           model,
		httpClient:      &http.Client{},
		probeTimeout:    5 * time.Second,
		generateTimeout: 120 * time.Second,
		maxDiffChars:    32 * 1024,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// BaseURL returns the configured endpoint base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Available probes /api/tags and reports whether the endpoint answers with
// a success status. Any error counts as unavailable.
func (c *Client) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("ollama probe failed: %v", err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

// generateRequest is the /api/generate payload. Streaming stays off; the
// whole response arrives in one body.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// generate posts a prompt to /api/generate and returns the trimmed text.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.generateTimeout)
	defer cancel()

	payload, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("encoding generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.Printf("ollama generate: model=%s prompt=%d bytes", c.model, len(prompt))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: request timed out after %s", ErrUnreachable, c.generateTimeout)
		}
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &StatusError{Code: resp.StatusCode}
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decoding generate response: %w", err)
	}

	text := strings.TrimSpace(decoded.Response)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// SummarizeFile asks the model for a one-sentence summary of a file's staged
// diff. The generated text is returned verbatim, treated as opaque natural
// language.
func (c *Client) SummarizeFile(ctx context.Context, path, diff, hint string) (models.FileSummary, error) {
	prompt := buildSummarizePrompt(path, truncateDiff(diff, c.maxDiffChars), hint)

	summary, err := c.generate(ctx, prompt)
	if err != nil {
		return models.FileSummary{}, fmt.Errorf("summarizing %s: %w", path, err)
	}
	return models.FileSummary{Path: path, Summary: summary}, nil
}

// GenerateCommitMessage asks the model for a Conventional Commits message
// built from the per-file summaries. The format request is advisory; the
// response is not validated against it.
func (c *Client) GenerateCommitMessage(ctx context.Context, summaries []models.FileSummary, hint string) (string, error) {
	message, err := c.generate(ctx, buildCommitPrompt(summaries, hint))
	if err != nil {
		return "", fmt.Errorf("generating commit message: %w", err)
	}
	return message, nil
}

// truncateDiff caps the diff text, marking the cut so the model knows the
// input is partial.
func truncateDiff(diff string, maxChars int) string {
	if maxChars <= 0 || len(diff) <= maxChars {
		return diff
	}
	return diff[:maxChars] + "\n\n[diff truncated]"
}

func buildSummarizePrompt(path, diff, hint string) string {
	var sb strings.Builder
	sb.WriteString("Summarize the changes in this file in one concise sentence.\n\n")
	if hint != "" {
		fmt.Fprintf(&sb, "Context from the author: %s\n\n", hint)
	}
	fmt.Fprintf(&sb, "File: %s\nChanges:\n%s\n\n", path, diff)
	sb.WriteString("Provide only the summary sentence, no additional text.")
	return sb.String()
}

func buildCommitPrompt(summaries []models.FileSummary, hint string) string {
	var sb strings.Builder
	sb.WriteString("Generate a git commit message for the following file changes following Conventional Commits format.\n\n")
	sb.WriteString("The message should be concise but descriptive, following this format:\n")
	sb.WriteString("<type>: <description>\n\n<body explaining the overall changes>\n\n")
	sb.WriteString("Types: feat, fix, docs, style, refactor, test, chore\n\n")
	if hint != "" {
		fmt.Fprintf(&sb, "Context from the author: %s\n\n", hint)
	}
	sb.WriteString("File changes:\n")
	for _, summary := range summaries {
		fmt.Fprintf(&sb, "- %s: %s\n", summary.Path, summary.Summary)
	}
	sb.WriteString("\nProvide only the commit message, no additional text.")
	return sb.String()
}
