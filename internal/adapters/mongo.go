package adapters

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"llm_move/internal/bootstrap"
)

// AdapterMongo owns the mongo client behind the decision archive.
type AdapterMongo struct {
	Client   *mongo.Client
	Database *mongo.Database
	cfg      *bootstrap.Config
	log      *zap.SugaredLogger
}

func NewAdapterMongo(cfg *bootstrap.Config, log *zap.SugaredLogger) *AdapterMongo {
	return &AdapterMongo{
		cfg: cfg,
		log: log,
	}
}

func (a *AdapterMongo) Init(ctx context.Context) error {
	clientOpts := options.Client().
		ApplyURI(a.cfg.MongoUri).
		SetAppName("llm_move").
		SetConnectTimeout(a.cfg.MongoConnectTimeout).
		SetServerSelectionTimeout(a.cfg.MongoConnectTimeout)

	ctxConnect, cancel := context.WithTimeout(ctx, a.cfg.MongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctxConnect, clientOpts)
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err = client.Ping(ctxConnect, nil); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("failed to ping mongodb: %w", err)
	}

	a.Client = client
	a.Database = client.Database(a.cfg.MongoDatabase)

	a.log.Infow("connected to mongodb", "database", a.cfg.MongoDatabase, "timeout", a.cfg.MongoConnectTimeout)
	return nil
}

func (a *AdapterMongo) Close(ctx context.Context) error {
	if a.Client == nil {
		return nil
	}
	a.log.Debugw("disconnecting from mongodb")
	return a.Client.Disconnect(ctx)
}
