package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go/v2"
	"go.uber.org/zap"

	"llm_move/internal/adapters"
	"llm_move/internal/domain"
	apperrors "llm_move/internal/errors"
)

const (
	finishReasonContentFilter = "content_filter"
	errorCodeContentFilter    = "content_filter"
)

var errNoChoices = errors.New("llm returned no choices")

type AzureLlmRepo struct {
	adapter *adapters.AzureLlmAdapter
	log     *zap.SugaredLogger
}

func NewAzureLlmRepository(adapter *adapters.AzureLlmAdapter, log *zap.SugaredLogger) *AzureLlmRepo {
	return &AzureLlmRepo{adapter: adapter, log: log}
}

func (l *AzureLlmRepo) Model() string {
	return l.adapter.Deployment
}

func (l *AzureLlmRepo) Complete(ctx context.Context, req domain.CompletionRequest) (domain.CompletionReply, error) {
	resp, err := l.adapter.Client.Chat.Completions.New(ctx, azureChatParams(l.adapter.Deployment, req))
	if err != nil {
		return domain.CompletionReply{}, classifyAzureError(err)
	}
	l.log.Debugw("azure chat completion finished", "id", resp.ID, "choices", len(resp.Choices))
	return azureReply(resp)
}

func azureChatParams(model string, req domain.CompletionRequest) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.User))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	}
	if req.Reasoning {
		params.MaxCompletionTokens = openai.Int(req.MaxTokens)
	} else {
		params.MaxTokens = openai.Int(req.MaxTokens)
	}
	if req.Schema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        req.Schema.Name,
					Description: openai.String(req.Schema.Description),
					Schema:      req.Schema.Definition,
					Strict:      openai.Bool(true),
				},
			},
		}
	}
	return params
}

func azureReply(resp *openai.ChatCompletion) (domain.CompletionReply, error) {
	if len(resp.Choices) == 0 {
		return domain.CompletionReply{}, apperrors.NewFailure(apperrors.KindTransport, errNoChoices)
	}
	choice := resp.Choices[0]
	if string(choice.FinishReason) == finishReasonContentFilter {
		return domain.CompletionReply{}, apperrors.NewFailure(apperrors.KindContentPolicy, errors.New("completion stopped by content filter"))
	}
	if choice.Message.Refusal != "" {
		return domain.CompletionReply{}, apperrors.NewFailure(apperrors.KindContentPolicy, errors.New("model refused: "+choice.Message.Refusal))
	}
	return domain.CompletionReply{
		Content: choice.Message.Content,
		Usage: domain.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			ReasoningTokens:  resp.Usage.CompletionTokensDetails.ReasoningTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// classifyAzureError separates prompts rejected by Azure's content filter from
// every other failure to reach the deployment.
func classifyAzureError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == errorCodeContentFilter || mentionsContentFilter(apiErr.Message) || mentionsContentFilter(err.Error()) {
			return apperrors.NewFailure(apperrors.KindContentPolicy, err)
		}
	}
	return apperrors.NewFailure(apperrors.KindTransport, err)
}

func mentionsContentFilter(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, errorCodeContentFilter) || strings.Contains(s, "content management policy")
}
