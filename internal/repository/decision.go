package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"llm_move/internal/domain/game"
)

const decisionsCollection = "decisions"

// DecisionRepo archives resolved move suggestions in mongo.
type DecisionRepo struct {
	log   *zap.SugaredLogger
	mongo *mongo.Database
}

func NewDecisionRepository(log *zap.SugaredLogger, mongo *mongo.Database) *DecisionRepo {
	return &DecisionRepo{
		log:   log,
		mongo: mongo,
	}
}

func (d *DecisionRepo) SaveDecision(ctx context.Context, decision game.Decision) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := d.mongo.Collection(decisionsCollection).InsertOne(ctx, decision)
	if err != nil {
		return fmt.Errorf("failed to insert decision: %w", err)
	}
	d.log.Debugw("decision archived", "id", decision.ID, "game_id", decision.GameID)
	return nil
}

// GetDecisionsByGame returns the newest decisions for a game first.
func (d *DecisionRepo) GetDecisionsByGame(ctx context.Context, gameID string, limit int64) ([]game.Decision, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := d.mongo.Collection(decisionsCollection).Find(ctx, bson.M{"game_id": gameID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find decisions: %w", err)
	}
	defer cursor.Close(ctx)

	decisions := make([]game.Decision, 0)
	if err := cursor.All(ctx, &decisions); err != nil {
		return nil, fmt.Errorf("failed to decode decisions: %w", err)
	}
	return decisions, nil
}
