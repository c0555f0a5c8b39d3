package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	in := "## Metrics ![chart](https://x/y.png) see https://example.com/a?b=c now"
	assert.Equal(t, "## Metrics  see  now", sanitize(in))
	assert.Len(t, sanitize(strings.Repeat("a", maxReportLen+10)), maxReportLen)
	assert.Empty(t, sanitize("  https://only.link  "))
}

func TestReview(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"  Fund beat the index.  "}}]}`)
	}))
	defer srv.Close()

	r := NewReviewer("test-key", "gpt-4o", option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	out, err := r.Review(context.Background(), "## Metrics\n| Fund | 0.1 |", "# Fund vs ^FTSE")
	require.NoError(t, err)
	assert.Equal(t, "Fund beat the index.", out)

	assert.Equal(t, "gpt-4o", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Contains(t, got.Messages[1].Content, "# Fund vs ^FTSE")
	assert.Contains(t, got.Messages[1].Content, "## Metrics")
}

func TestReviewAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	r := NewReviewer("bad", "", option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	_, err := r.Review(context.Background(), "m", "s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OpenAI API error")

	_, err = r.Review(context.Background(), "", "")
	assert.Error(t, err)
}
