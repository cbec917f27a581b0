package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/gcommit/internal/models"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, New(srv.URL, "test-model")
}

func TestAvailable(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	assert.True(t, client.Available(context.Background()))
}

func TestAvailableNonOK(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	assert.False(t, client.Available(context.Background()))
}

func TestAvailableUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := New(srv.URL, "test-model")

	assert.False(t, client.Available(context.Background()))
}

func TestSummarizeFile(t *testing.T) {
	var gotReq generateRequest
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "  Adds a retry loop.  \n"})
	})

	summary, err := client.SummarizeFile(context.Background(), "pkg/retry.go", "+for {}", "fix bug")
	require.NoError(t, err)

	assert.Equal(t, "pkg/retry.go", summary.Path)
	assert.Equal(t, "Adds a retry loop.", summary.Summary)

	assert.Equal(t, "test-model", gotReq.Model)
	assert.False(t, gotReq.Stream)
	assert.Contains(t, gotReq.Prompt, "File: pkg/retry.go")
	assert.Contains(t, gotReq.Prompt, "+for {}")
	assert.Contains(t, gotReq.Prompt, "fix bug")
}

func TestSummarizeFileTruncatesDiff(t *testing.T) {
	var gotReq generateRequest
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "ok"})
	})
	WithMaxDiffChars(10)(client)

	_, err := client.SummarizeFile(context.Background(), "big.go", strings.Repeat("x", 100), "")
	require.NoError(t, err)

	assert.Contains(t, gotReq.Prompt, "[diff truncated]")
	assert.NotContains(t, gotReq.Prompt, strings.Repeat("x", 11))
}

func TestGenerateCommitMessage(t *testing.T) {
	var gotReq generateRequest
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "feat: add retry\n\n- retry loop in pkg/retry.go"})
	})

	summaries := []models.FileSummary{
		{Path: "a.go", Summary: "Adds A."},
		{Path: "b.go", Summary: "Adds B."},
	}

	msg, err := client.GenerateCommitMessage(context.Background(), summaries, "fix bug")
	require.NoError(t, err)

	assert.Equal(t, "feat: add retry\n\n- retry loop in pkg/retry.go", msg)
	assert.Contains(t, gotReq.Prompt, "- a.go: Adds A.")
	assert.Contains(t, gotReq.Prompt, "- b.go: Adds B.")
	assert.Contains(t, gotReq.Prompt, "Conventional Commits")
	assert.Contains(t, gotReq.Prompt, "fix bug")

	// Summaries keep their order in the prompt.
	assert.Less(t, strings.Index(gotReq.Prompt, "a.go"), strings.Index(gotReq.Prompt, "b.go"))
}

func TestGenerateStatusError(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.GenerateCommitMessage(context.Background(), []models.FileSummary{{Path: "a", Summary: "b"}}, "")
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.Code)
}

func TestGenerateUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := New(srv.URL, "test-model")

	_, err := client.SummarizeFile(context.Background(), "a.go", "+x", "")
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestGenerateTimeout(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "late"})
	})
	WithGenerateTimeout(20 * time.Millisecond)(client)

	_, err := client.SummarizeFile(context.Background(), "a.go", "+x", "")
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestGenerateEmptyResponse(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "   "})
	})

	_, err := client.GenerateCommitMessage(context.Background(), []models.FileSummary{{Path: "a", Summary: "b"}}, "")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestNewTrimsTrailingSlash(t *testing.T) {
	client := New("http://localhost:11434/", "m")
	assert.Equal(t, "http://localhost:11434", client.BaseURL())
}
