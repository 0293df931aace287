package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"llm_move/internal/adapters"
	"llm_move/internal/domain"
	apperrors "llm_move/internal/errors"
)

func newAzureTestRepo(t *testing.T, handler http.HandlerFunc) *AzureLlmRepo {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	adapter := &adapters.AzureLlmAdapter{
		Client: openai.NewClient(
			option.WithBaseURL(srv.URL),
			option.WithAPIKey("test-key"),
			option.WithMaxRetries(0),
		),
		Deployment: "gpt-4o",
	}
	return NewAzureLlmRepository(adapter, zap.NewNop().Sugar())
}

const completionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4o",
  "choices": [{
    "index": 0,
    "message": {"role": "assistant", "content": %q, "refusal": null},
    "finish_reason": %q,
    "logprobs": null
  }],
  "usage": {"prompt_tokens": 12, "completion_tokens": 8, "total_tokens": 20,
            "completion_tokens_details": {"reasoning_tokens": 3}}
}`

func writeCompletion(w http.ResponseWriter, content, finishReason string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, fmt.Sprintf(completionBody, content, finishReason))
}

func TestAzureCompleteStructured(t *testing.T) {
	var sent map[string]any
	repo := newAzureTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &sent)
		writeCompletion(w, `{"move_type":"coordinate","move":"D4","reasoning":"r"}`, "stop")
	})
	schema := &domain.ResponseSchema{Name: "go_move_response", Definition: map[string]any{"type": "object"}}

	reply, err := repo.Complete(context.Background(), domain.CompletionRequest{
		System: "sys", User: "usr", Schema: schema, Temperature: 0.7, MaxTokens: 1000,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"move_type":"coordinate","move":"D4","reasoning":"r"}`, reply.Content)
	assert.Equal(t, domain.Usage{PromptTokens: 12, CompletionTokens: 8, ReasoningTokens: 3, TotalTokens: 20}, reply.Usage)

	assert.Equal(t, "gpt-4o", sent["model"])
	assert.EqualValues(t, 1000, sent["max_tokens"])
	assert.NotContains(t, sent, "max_completion_tokens")
	assert.EqualValues(t, 0.7, sent["temperature"])
	messages := sent["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	format := sent["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	assert.Equal(t, "go_move_response", format["json_schema"].(map[string]any)["name"])
}

func TestAzureCompleteFreeForm(t *testing.T) {
	var sent map[string]any
	repo := newAzureTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &sent)
		writeCompletion(w, "I recommend K10 here", "stop")
	})

	reply, err := repo.Complete(context.Background(), domain.CompletionRequest{
		User: "usr", Temperature: 1, MaxTokens: 5000, Reasoning: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "I recommend K10 here", reply.Content)
	assert.EqualValues(t, 5000, sent["max_completion_tokens"])
	assert.NotContains(t, sent, "max_tokens")
	assert.NotContains(t, sent, "response_format")
	assert.Len(t, sent["messages"].([]any), 1)
}

func TestAzureCompleteContentFilterFinish(t *testing.T) {
	repo := newAzureTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		writeCompletion(w, "", "content_filter")
	})

	_, err := repo.Complete(context.Background(), domain.CompletionRequest{User: "capture the group"})

	assert.Equal(t, apperrors.KindContentPolicy, apperrors.KindOf(err))
}

func TestAzureCompleteContentFilterError(t *testing.T) {
	repo := newAzureTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":"content_filter","message":"The response was filtered due to the prompt triggering Azure OpenAI's content management policy.","param":"prompt","type":null,"status":400}}`)
	})

	_, err := repo.Complete(context.Background(), domain.CompletionRequest{User: "kill the group"})

	assert.Equal(t, apperrors.KindContentPolicy, apperrors.KindOf(err))
	assert.True(t, apperrors.IsRetryable(err))
}

func TestAzureCompleteAuthError(t *testing.T) {
	repo := newAzureTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"code":"401","message":"Access denied due to invalid subscription key."}}`)
	})

	_, err := repo.Complete(context.Background(), domain.CompletionRequest{User: "usr"})

	assert.Equal(t, apperrors.KindTransport, apperrors.KindOf(err))
	assert.False(t, apperrors.IsRetryable(err))
}

func TestAzureReplyNoChoices(t *testing.T) {
	_, err := azureReply(&openai.ChatCompletion{})

	assert.Equal(t, apperrors.KindTransport, apperrors.KindOf(err))
	assert.ErrorIs(t, err, errNoChoices)
}

func TestNewAzureLlmAdapterRequiresCredentials(t *testing.T) {
	_, err := adapters.NewAzureLlmAdapter("", "https://example.openai.azure.com", "", "gpt-4o")
	assert.ErrorIs(t, err, apperrors.ErrMissingCredential)

	a, err := adapters.NewAzureLlmAdapter("key", "https://example.openai.azure.com", "", "o1-mini")
	require.NoError(t, err)
	assert.Equal(t, "o1-mini", NewAzureLlmRepository(a, zap.NewNop().Sugar()).Model())
}
