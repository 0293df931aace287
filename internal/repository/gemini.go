package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"llm_move/internal/adapters"
	"llm_move/internal/domain"
	apperrors "llm_move/internal/errors"
)

var errNoCandidates = errors.New("gemini returned no candidates")

type GeminiLlmRepo struct {
	adapter *adapters.GeminiLlmAdapter
	log     *zap.SugaredLogger
}

func NewGeminiLlmRepository(adapter *adapters.GeminiLlmAdapter, log *zap.SugaredLogger) *GeminiLlmRepo {
	return &GeminiLlmRepo{adapter: adapter, log: log}
}

func (g *GeminiLlmRepo) Model() string {
	return g.adapter.Model
}

func (g *GeminiLlmRepo) Complete(ctx context.Context, req domain.CompletionRequest) (domain.CompletionReply, error) {
	resp, err := g.adapter.Client.Models.GenerateContent(ctx, g.adapter.Model, genai.Text(req.User), geminiConfig(req))
	if err != nil {
		return domain.CompletionReply{}, apperrors.NewFailure(apperrors.KindTransport, err)
	}
	g.log.Debugw("gemini generate content finished", "model_version", resp.ModelVersion, "candidates", len(resp.Candidates))
	return geminiReply(resp)
}

func geminiConfig(req domain.CompletionRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = toGenaiSchema(req.Schema.Definition)
	}
	if req.Reasoning {
		cfg.ThinkingConfig = &genai.ThinkingConfig{IncludeThoughts: true}
	}
	return cfg
}

// toGenaiSchema converts the subset of JSON Schema used for move replies.
// A type list containing "null" becomes a nullable schema.
func toGenaiSchema(def map[string]any) *genai.Schema {
	s := &genai.Schema{}
	switch t := def["type"].(type) {
	case string:
		s.Type = genaiType(t)
	case []any:
		for _, v := range t {
			name, _ := v.(string)
			if name == "null" {
				s.Nullable = genai.Ptr(true)
				continue
			}
			s.Type = genaiType(name)
		}
	}
	if d, ok := def["description"].(string); ok {
		s.Description = d
	}
	if enum, ok := def["enum"].([]any); ok {
		for _, v := range enum {
			s.Enum = append(s.Enum, fmt.Sprint(v))
		}
	}
	if v, ok := toFloat(def["minimum"]); ok {
		s.Minimum = genai.Ptr(v)
	}
	if v, ok := toFloat(def["maximum"]); ok {
		s.Maximum = genai.Ptr(v)
	}
	if props, ok := def["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, p := range props {
			if pm, ok := p.(map[string]any); ok {
				s.Properties[name] = toGenaiSchema(pm)
			}
		}
	}
	if required, ok := def["required"].([]any); ok {
		for _, v := range required {
			s.Required = append(s.Required, fmt.Sprint(v))
		}
		s.PropertyOrdering = s.Required
	}
	return s
}

func genaiType(name string) genai.Type {
	switch name {
	case "object":
		return genai.TypeObject
	case "array":
		return genai.TypeArray
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	}
	return genai.TypeString
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func geminiReply(resp *genai.GenerateContentResponse) (domain.CompletionReply, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return domain.CompletionReply{}, apperrors.NewFailure(apperrors.KindContentPolicy,
			fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason))
	}
	if len(resp.Candidates) == 0 {
		return domain.CompletionReply{}, apperrors.NewFailure(apperrors.KindTransport, errNoCandidates)
	}
	cand := resp.Candidates[0]
	switch cand.FinishReason {
	case genai.FinishReasonSafety, genai.FinishReasonProhibitedContent, genai.FinishReasonBlocklist:
		return domain.CompletionReply{}, apperrors.NewFailure(apperrors.KindContentPolicy,
			fmt.Errorf("candidate blocked: %s", cand.FinishReason))
	}

	var content, thinking strings.Builder
	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			if part == nil {
				continue
			}
			if part.Thought {
				thinking.WriteString(part.Text)
			} else {
				content.WriteString(part.Text)
			}
		}
	}

	reply := domain.CompletionReply{Content: content.String(), Thinking: thinking.String()}
	if u := resp.UsageMetadata; u != nil {
		reply.Usage = domain.Usage{
			PromptTokens:     int64(u.PromptTokenCount),
			CompletionTokens: int64(u.CandidatesTokenCount),
			ReasoningTokens:  int64(u.ThoughtsTokenCount),
			TotalTokens:      int64(u.TotalTokenCount),
		}
	}
	return reply, nil
}
