package adapters

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/azure"
	"github.com/openai/openai-go/v2/option"
	"google.golang.org/genai"

	apperrors "llm_move/internal/errors"
)

const defaultAzureAPIVersion = "2024-10-21"

// AzureLlmAdapter holds a client for one Azure OpenAI deployment. Deployment
// doubles as the model name sent with each request.
type AzureLlmAdapter struct {
	Client     openai.Client
	Deployment string
}

func NewAzureLlmAdapter(apiKey, endpoint, apiVersion, deployment string, opts ...option.RequestOption) (*AzureLlmAdapter, error) {
	if apiKey == "" || endpoint == "" || deployment == "" {
		return nil, fmt.Errorf("%w: azure api key, endpoint and deployment are required", apperrors.ErrMissingCredential)
	}
	if apiVersion == "" {
		apiVersion = defaultAzureAPIVersion
	}
	opts = append([]option.RequestOption{
		azure.WithEndpoint(endpoint, apiVersion),
		azure.WithAPIKey(apiKey),
	}, opts...)
	return &AzureLlmAdapter{
		Client:     openai.NewClient(opts...),
		Deployment: deployment,
	}, nil
}

type GeminiLlmAdapter struct {
	Client *genai.Client
	Model  string
}

func NewGeminiLlmAdapter(ctx context.Context, apiKey, model string) (*GeminiLlmAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini api key is required", apperrors.ErrMissingCredential)
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiLlmAdapter{Client: client, Model: model}, nil
}
