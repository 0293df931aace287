package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"llm_move/internal/domain"
	"llm_move/internal/domain/game"
	apperrors "llm_move/internal/errors"
)

const defaultDecisionsLimit = 20

type HistoryStore interface {
	AppendMove(ctx context.Context, gameID, move string) (int64, error)
	GetHistory(ctx context.Context, gameID string) ([]string, error)
	DeleteHistory(ctx context.Context, gameID string) error
}

type DecisionStore interface {
	SaveDecision(ctx context.Context, decision game.Decision) error
	GetDecisionsByGame(ctx context.Context, gameID string, limit int64) ([]game.Decision, error)
}

type MoveResolver interface {
	Model() string
	Resolve(ctx context.Context, req domain.MoveRequest) (*domain.MoveResult, error)
}

// RetryPolicy applies to content-policy failures only. Retries is the number
// of extra calls after the first one.
type RetryPolicy struct {
	Retries int
	Delay   time.Duration
}

type GameUseCase struct {
	history   HistoryStore
	decisions DecisionStore
	resolver  MoveResolver
	retry     RetryPolicy
	log       *zap.SugaredLogger
	now       func() time.Time
}

func NewGameUseCase(history HistoryStore, decisions DecisionStore, resolver MoveResolver, policy RetryPolicy, log *zap.SugaredLogger) *GameUseCase {
	if policy.Retries < 0 {
		policy.Retries = 0
	}
	return &GameUseCase{
		history:   history,
		decisions: decisions,
		resolver:  resolver,
		retry:     policy,
		log:       log,
		now:       time.Now,
	}
}

func (g *GameUseCase) SuggestMove(ctx context.Context, req game.SuggestRequest) (*game.SuggestResponse, error) {
	history, err := requestHistory(req)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 && req.GameID != "" {
		stored, err := g.history.GetHistory(ctx, req.GameID)
		if err != nil {
			return nil, apperrors.NewFailure(apperrors.KindTransport, fmt.Errorf("failed to load history: %w", err))
		}
		history = stored
	}

	moveReq := domain.MoveRequest{
		Board:   req.Board,
		Width:   req.Width,
		Stride:  req.Stride,
		History: history,
		Color:   req.Color,
	}

	attempts := 0
	result, err := retry.DoWithData(
		func() (*domain.MoveResult, error) {
			attempts++
			return g.resolver.Resolve(ctx, moveReq)
		},
		retry.Context(ctx),
		retry.Attempts(uint(g.retry.Retries+1)),
		retry.Delay(g.retry.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(apperrors.IsRetryable),
		retry.OnRetry(func(n uint, err error) {
			g.log.Warnw("retrying move suggestion", "game_id", req.GameID, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, err
	}

	decision := game.Decision{
		ID:        uuid.NewString(),
		GameID:    req.GameID,
		Model:     g.resolver.Model(),
		Color:     req.Color,
		History:   history,
		Result:    *result,
		Attempts:  attempts,
		CreatedAt: g.now().UTC(),
	}
	if err := g.decisions.SaveDecision(ctx, decision); err != nil {
		g.log.Errorw("failed to archive decision", "id", decision.ID, "game_id", req.GameID, "error", err)
	}

	return &game.SuggestResponse{DecisionID: decision.ID, Result: *result, Attempts: attempts}, nil
}

// requestHistory returns the history sent with req in standard coordinates.
// Stored history is always standard, so HistoryFormat applies to req.History only.
func requestHistory(req game.SuggestRequest) ([]string, error) {
	switch req.HistoryFormat {
	case "", game.HistoryFormatStandard:
		return req.History, nil
	case game.HistoryFormatSGF:
		converted, err := sgfHistoryToStandard(req.History, req.Width)
		if err != nil {
			return nil, apperrors.NewFailure(apperrors.KindInvalidInput, err)
		}
		return converted, nil
	}
	return nil, apperrors.NewFailure(apperrors.KindInvalidInput, fmt.Errorf("unknown history format %q", req.HistoryFormat))
}

// RecordMove appends a played move to the game's history and returns the
// updated history.
func (g *GameUseCase) RecordMove(ctx context.Context, gameID, move string) ([]string, error) {
	move = domain.NormalizeMove(move)
	if !domain.IsValidMove(move) {
		return nil, apperrors.NewFailure(apperrors.KindInvalidInput, fmt.Errorf("invalid move %q", move))
	}
	if _, err := g.history.AppendMove(ctx, gameID, move); err != nil {
		return nil, err
	}
	g.log.Debugw("move recorded", "game_id", gameID, "move", move)
	return g.history.GetHistory(ctx, gameID)
}

func (g *GameUseCase) History(ctx context.Context, gameID string) ([]string, error) {
	return g.history.GetHistory(ctx, gameID)
}

func (g *GameUseCase) ClearGame(ctx context.Context, gameID string) error {
	err := g.history.DeleteHistory(ctx, gameID)
	if err != nil && !errors.Is(err, apperrors.ErrGameNotFound) {
		g.log.Errorw("failed to clear game", "game_id", gameID, "error", err)
	}
	return err
}

func (g *GameUseCase) Decisions(ctx context.Context, gameID string, limit int64) ([]game.Decision, error) {
	if limit <= 0 {
		limit = defaultDecisionsLimit
	}
	return g.decisions.GetDecisionsByGame(ctx, gameID, limit)
}
