package move

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"llm_move/internal/domain"
	apperrors "llm_move/internal/errors"
)

type Options struct {
	// ReasoningPatterns override DefaultReasoningPatterns when non-empty.
	ReasoningPatterns []string
	// StrictWidth rejects board widths other than 9, 13 and 19.
	StrictWidth bool
}

// Resolver turns a board snapshot into a move decision from the model. It
// keeps no state between calls and never retries.
type Resolver struct {
	llm         LlmStore
	log         *zap.SugaredLogger
	patterns    []string
	strictWidth bool
}

func NewResolver(llm LlmStore, log *zap.SugaredLogger, opts Options) *Resolver {
	patterns := opts.ReasoningPatterns
	if len(patterns) == 0 {
		patterns = DefaultReasoningPatterns
	}
	return &Resolver{
		llm:         llm,
		log:         log,
		patterns:    patterns,
		strictWidth: opts.StrictWidth,
	}
}

func (r *Resolver) Model() string {
	return r.llm.Model()
}

// Resolve asks the model for a move. On any fault the result is nil and the
// error is an *errors.Failure whose Kind says what went wrong.
func (r *Resolver) Resolve(ctx context.Context, req domain.MoveRequest) (*domain.MoveResult, error) {
	model := r.llm.Model()
	log := r.log.With("model", model)

	if !req.Color.Valid() {
		return nil, r.fail(log, apperrors.NewFailure(apperrors.KindInvalidInput, fmt.Errorf("%w: got %d", apperrors.ErrInvalidColor, req.Color)))
	}
	if err := ValidateBoard(req.Board, req.Width, req.Stride, r.strictWidth); err != nil {
		return nil, r.fail(log, apperrors.NewFailure(apperrors.KindInvalidInput, err))
	}

	mode := SelectMode(model, r.patterns)
	log = log.With("mode", mode.Name())

	boardText := FormatBoard(req.Board, req.Width, req.Stride)
	prompts := BuildPrompts(boardText, req.Width, req.History, req.Color)

	log.Debugw("querying llm for move suggestion", "history_len", len(req.History), "color", req.Color.Name())
	reply, err := r.llm.Complete(ctx, mode.Request(prompts))
	if err != nil {
		return nil, r.fail(log, err)
	}

	result, stage, err := mode.Decode(reply)
	if err != nil {
		return nil, r.fail(log, err)
	}
	result.Tokens = reply.Usage

	if stage == stagePattern {
		log.Warnw("could not parse JSON reply, recovered move from text", "raw_reply", reply.Content)
	}
	if !result.MoveType.Known() {
		log.Warnw("unrecognized move type passed through", "move_type", result.MoveType)
	}

	log.Infow("llm suggested move",
		"move", result.Move,
		"move_type", result.MoveType,
		"parse_stage", stage,
		"reasoning", result.Reasoning,
		"thinking", result.Thinking,
		"prompt_tokens", result.Tokens.PromptTokens,
		"completion_tokens", result.Tokens.CompletionTokens,
		"reasoning_tokens", result.Tokens.ReasoningTokens,
		"total_tokens", result.Tokens.TotalTokens,
	)
	return &result, nil
}

// fail logs err under its failure kind and returns it as an *errors.Failure.
func (r *Resolver) fail(log *zap.SugaredLogger, err error) error {
	var failure *apperrors.Failure
	if !errors.As(err, &failure) {
		failure = apperrors.NewFailure(apperrors.KindTransport, err)
	}
	log = log.With("failure_kind", string(failure.Kind), "retryable", failure.Retryable())

	switch failure.Kind {
	case apperrors.KindContentPolicy:
		log.Warnw("content filter triggered, retry-worthy", "error", failure.Err)
	case apperrors.KindUnparseable:
		log.Errorw("could not extract move from reply", "error", failure.Err, "raw_reply", failure.Raw)
	case apperrors.KindStructuredDecode:
		log.Errorw("structured reply did not match the schema", "error", failure.Err, "raw_reply", failure.Raw)
	case apperrors.KindInvalidInput:
		log.Warnw("rejected move request", "error", failure.Err)
	default:
		log.Errorw("failed to call llm", "error", failure.Err)
	}
	return failure
}
