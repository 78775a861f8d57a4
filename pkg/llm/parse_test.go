package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scored struct {
	Score int      `json:"score"`
	Tips  []string `json:"tips"`
}

func TestParseJSONStages(t *testing.T) {
	t.Run("strict", func(t *testing.T) {
		out, err := ParseJSON[scored](`{"score": 80, "tips": ["a"]}`)
		require.NoError(t, err)
		assert.Equal(t, 80, out.Score)
	})

	t.Run("code fence", func(t *testing.T) {
		out, err := ParseJSON[scored]("```json\n{\"score\": 70}\n```")
		require.NoError(t, err)
		assert.Equal(t, 70, out.Score)
	})

	t.Run("largest brace span", func(t *testing.T) {
		out, err := ParseJSON[scored](`Here you go: {"score": 65, "tips": ["x", "y"]} Hope it helps!`)
		require.NoError(t, err)
		assert.Equal(t, 65, out.Score)
		assert.Len(t, out.Tips, 2)
	})

	t.Run("unrecoverable", func(t *testing.T) {
		_, err := ParseJSON[scored](`I cannot score this resume.`)
		assert.ErrorIs(t, err, ErrMalformedOutput)
	})

	for name, raw := range map[string]string{
		"null":        "null",
		"fenced null": "```json\nnull\n```",
		"array":       "[]",
		"scalar":      "42",
	} {
		t.Run("not an object: "+name, func(t *testing.T) {
			out, err := ParseJSON[scored](raw)
			assert.ErrorIs(t, err, ErrMalformedOutput)
			assert.Zero(t, out)
		})
	}

	t.Run("broken json inside braces", func(t *testing.T) {
		_, err := ParseJSON[scored](`{"score": 65, "tips": [}`)
		assert.ErrorIs(t, err, ErrMalformedOutput)
	})
}

func TestParseText(t *testing.T) {
	out, err := ParseText(`"• Led migration of 40 services to Kubernetes, cutting costs 30%"`)
	require.NoError(t, err)
	assert.Equal(t, "Led migration of 40 services to Kubernetes, cutting costs 30%", out)

	_, err = ParseText("  ``` ```  ")
	assert.ErrorIs(t, err, ErrMalformedOutput)
}

type slowClient struct{}

func (slowClient) Generate(ctx context.Context, _ Request) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}
func (slowClient) Model() string { return "slow" }

type failingClient struct{}

func (failingClient) Generate(context.Context, Request) (string, error) {
	return "", &UpstreamError{Provider: "test", Status: 500}
}
func (failingClient) Model() string { return "failing" }

func TestGenerateTimeout(t *testing.T) {
	_, err := Generate(context.Background(), slowClient{}, Request{}, 10*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestGenerateUpstreamError(t *testing.T) {
	_, err := Generate(context.Background(), failingClient{}, Request{}, time.Second)
	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, 500, upstream.Status)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestGenerateNilClient(t *testing.T) {
	_, err := Generate(context.Background(), nil, Request{}, time.Second)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
