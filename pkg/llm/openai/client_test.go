package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"resumeai-backend/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-test", body.Model)
		assert.Equal(t, 500, body.MaxTokens)
		require.NotNil(t, body.ResponseFormat)
		assert.Equal(t, "json_object", body.ResponseFormat.Type)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)

		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":" {\"ok\":true} "}}]}`))
	}))
	defer srv.Close()

	c, err := NewClient("sk-test", "gpt-test")
	require.NoError(t, err)
	c.WithBaseURL(srv.URL)

	out, err := c.Generate(context.Background(), llm.Request{System: "sys", User: "hi", MaxTokens: 500, JSON: true})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)
}

func TestGenerateUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer srv.Close()

	c, err := NewClient("sk-test", "")
	require.NoError(t, err)
	c.WithBaseURL(srv.URL)

	_, err = c.Generate(context.Background(), llm.Request{User: "hi"})
	var upstream *llm.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusTooManyRequests, upstream.Status)
	assert.NotContains(t, err.Error(), "slow down")
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(" ", "gpt")
	assert.Error(t, err)
}
