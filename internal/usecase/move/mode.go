package move

import (
	"strings"

	"llm_move/internal/domain"
	apperrors "llm_move/internal/errors"
)

const (
	structuredTemperature = 0.7
	structuredMaxTokens   = 1000

	// Reasoning-family models only accept their fixed default temperature.
	freeFormTemperature = 1.0
	freeFormMaxTokens   = 5000
)

// DefaultReasoningPatterns select free-form mode when found in a model name.
var DefaultReasoningPatterns = []string{"o1", "reasoning"}

// Parse stages reported in diagnostics.
const (
	stageSchema     = "schema"
	stageStrictJSON = "strict_json"
	stagePattern    = "pattern"
)

// ResponseMode is how a request is shaped for a model family and how its reply is read.
type ResponseMode interface {
	Name() string
	Request(p Prompts) domain.CompletionRequest
	// Decode returns the result and the parse stage that produced it.
	Decode(reply domain.CompletionReply) (domain.MoveResult, string, error)
}

// SelectMode picks free-form mode for models whose name contains one of the
// reasoning patterns, case-insensitively, and structured mode for the rest.
func SelectMode(model string, patterns []string) ResponseMode {
	model = strings.ToLower(model)
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" && strings.Contains(model, p) {
			return freeFormMode{}
		}
	}
	return structuredMode{}
}

type structuredMode struct{}

func (structuredMode) Name() string { return "structured" }

func (structuredMode) Request(p Prompts) domain.CompletionRequest {
	schema := MoveResponseSchema
	return domain.CompletionRequest{
		System:      p.System,
		User:        p.User,
		Schema:      &schema,
		Temperature: structuredTemperature,
		MaxTokens:   structuredMaxTokens,
	}
}

func (structuredMode) Decode(reply domain.CompletionReply) (domain.MoveResult, string, error) {
	result, err := decodeStructured(reply.Content)
	if err != nil {
		return domain.MoveResult{}, stageSchema, &apperrors.Failure{Kind: apperrors.KindStructuredDecode, Err: err, Raw: reply.Content}
	}
	if result.Thinking == "" {
		result.Thinking = reply.Thinking
	}
	return result, stageSchema, nil
}

type freeFormMode struct{}

func (freeFormMode) Name() string { return "free_form" }

func (freeFormMode) Request(p Prompts) domain.CompletionRequest {
	return domain.CompletionRequest{
		User:        p.User + jsonInstruction,
		Temperature: freeFormTemperature,
		MaxTokens:   freeFormMaxTokens,
		Reasoning:   true,
	}
}

func (freeFormMode) Decode(reply domain.CompletionReply) (domain.MoveResult, string, error) {
	if result, ok := parseStrict(reply.Content); ok {
		if result.Thinking == "" {
			result.Thinking = reply.Thinking
		}
		return result, stageStrictJSON, nil
	}
	if result, ok := recoverMove(reply.Content); ok {
		return result, stagePattern, nil
	}
	return domain.MoveResult{}, stagePattern, &apperrors.Failure{
		Kind: apperrors.KindUnparseable,
		Err:  errNoMoveInReply,
		Raw:  reply.Content,
	}
}
