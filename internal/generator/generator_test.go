package generator

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
)

type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	return s.response, s.err
}

var testSources = []SourceInput{
	{
		ID:            "src-1",
		SourceType:    "note",
		ExtractedText: "Remote work has increased by 300% since 2020. Companies report higher productivity with distributed teams.",
	},
}

var testProject = ProjectSpec{
	Title:          "Remote Work Trends",
	ContentType:    "blog",
	TonePreference: "casual",
	TargetLength:   500,
}

const providerJSON = `{
	"content": "Remote work reshaped the industry.",
	"outline": {"sections": [{"title": "Introduction", "content": "why it matters"}]},
	"citations": [{"sourceId": "src-1", "text": "Remote work has increased", "context": "stat"}]
}`

func TestServiceGenerate_NoProviderUsesFallback(t *testing.T) {
	svc := NewService(nil, time.Minute)

	out, err := svc.Generate(context.TODO(), testSources, testProject)
	assert.NoError(t, err)
	assert.NotEmpty(t, out.Content)
	assert.Len(t, out.Outline.Sections, 4)
	assert.Len(t, out.Citations, 1)
}

func TestServiceGenerate_Provider(t *testing.T) {
	svc := NewService(&stubLLM{response: providerJSON}, time.Minute)

	out, err := svc.Generate(context.TODO(), testSources, testProject)
	assert.NoError(t, err)
	assert.Equal(t, "Remote work reshaped the industry.", out.Content)
	assert.Len(t, out.Outline.Sections, 1)
	assert.Len(t, out.Citations, 1)
	assert.Equal(t, "src-1", out.Citations[0].SourceID)
}

func TestServiceGenerate_RateLimitFallsBack(t *testing.T) {
	svc := NewService(&stubLLM{err: &openai.Error{StatusCode: http.StatusTooManyRequests}}, time.Minute)

	out, err := svc.Generate(context.TODO(), testSources, testProject)
	assert.NoError(t, err)
	// fallback output, not the provider's
	assert.Len(t, out.Outline.Sections, 4)
}

func TestServiceGenerate_FatalProviderError(t *testing.T) {
	svc := NewService(&stubLLM{err: errors.New("connection refused")}, time.Minute)

	_, err := svc.Generate(context.TODO(), testSources, testProject)
	assert.Error(t, err)
}

func TestServiceGenerate_EmptyCompletion(t *testing.T) {
	svc := NewService(&stubLLM{response: "   "}, time.Minute)

	_, err := svc.Generate(context.TODO(), testSources, testProject)
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestParseProviderResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{name: "plain json", raw: providerJSON},
		{name: "fenced json", raw: "```json\n" + providerJSON + "\n```"},
		{name: "fenced without language", raw: "```\n" + providerJSON + "\n```"},
		{name: "not json", raw: "here is your article", wantErr: ErrBadResponse},
		{name: "missing content", raw: `{"outline": {"sections": [{"title": "t"}]}}`, wantErr: ErrBadResponse},
		{name: "missing sections", raw: `{"content": "text", "outline": {"sections": []}}`, wantErr: ErrBadResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := parseProviderResponse(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "Remote work reshaped the industry.", out.Content)
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&openai.Error{StatusCode: http.StatusTooManyRequests}))
	assert.True(t, IsRetryable(&openai.Error{StatusCode: http.StatusNotFound}))
	assert.False(t, IsRetryable(&openai.Error{StatusCode: http.StatusInternalServerError}))
	assert.False(t, IsRetryable(errors.New("boom")))
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(testSources, testProject)

	assert.Contains(t, prompt.System, "JSON format")
	assert.Contains(t, prompt.User, "[Source 1 - ID: src-1 - Type: note]")
	assert.Contains(t, prompt.User, `"Remote Work Trends"`)
	assert.Contains(t, prompt.User, "Approximately 500 words")
	assert.Contains(t, prompt.User, "casual")
}
