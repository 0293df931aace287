package move

import (
	"context"

	"llm_move/internal/domain"
)

// LlmStore sends one completion request to the model service. Errors are
// *errors.Failure values carrying KindTransport or KindContentPolicy.
type LlmStore interface {
	Model() string
	Complete(ctx context.Context, req domain.CompletionRequest) (domain.CompletionReply, error)
}
