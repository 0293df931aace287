package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "llm_move/internal/errors"
)

// HistoryRepo keeps the moves played in a game as a redis list, oldest first.
type HistoryRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewHistoryRepository(client *redis.Client, ttl time.Duration) *HistoryRepo {
	return &HistoryRepo{client: client, ttl: ttl}
}

func historyKey(gameID string) string {
	return "game:" + gameID + ":moves"
}

// AppendMove adds move to the end of the game's history, refreshes the TTL and
// returns the new history length.
func (h *HistoryRepo) AppendMove(ctx context.Context, gameID, move string) (int64, error) {
	key := historyKey(gameID)
	var length *redis.IntCmd
	_, err := h.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		length = pipe.RPush(ctx, key, move)
		if h.ttl > 0 {
			pipe.Expire(ctx, key, h.ttl)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return length.Val(), nil
}

// GetHistory returns an empty slice for games with no recorded moves.
func (h *HistoryRepo) GetHistory(ctx context.Context, gameID string) ([]string, error) {
	return h.client.LRange(ctx, historyKey(gameID), 0, -1).Result()
}

func (h *HistoryRepo) DeleteHistory(ctx context.Context, gameID string) error {
	n, err := h.client.Del(ctx, historyKey(gameID)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrGameNotFound
	}
	return nil
}
