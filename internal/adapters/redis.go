package adapters

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"llm_move/internal/bootstrap"
)

// AdapterRedis owns the redis client behind the move history store.
type AdapterRedis struct {
	client *redis.Client
	cfg    *bootstrap.Config
	log    *zap.SugaredLogger
}

func NewAdapterRedis(cfg *bootstrap.Config, log *zap.SugaredLogger) *AdapterRedis {
	return &AdapterRedis{
		cfg: cfg,
		log: log,
	}
}

// redisOptions accepts either a bare host:port or a redis:// URL with
// credentials and database number.
func redisOptions(addr string) (*redis.Options, error) {
	if strings.Contains(addr, "://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{Addr: addr}, nil
}

func (a *AdapterRedis) Init(ctx context.Context) error {
	opts, err := redisOptions(a.cfg.RedisUrl)
	if err != nil {
		return err
	}
	client := redis.NewClient(opts)

	ctxPing, cancel := context.WithTimeout(ctx, a.cfg.RedisPingTimeout)
	defer cancel()

	if err := client.Ping(ctxPing).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	a.client = client
	a.log.Infow("connected to redis", "addr", opts.Addr, "db", opts.DB, "history_ttl_hours", a.cfg.HistoryTtlHours)
	return nil
}

func (a *AdapterRedis) GetClient() *redis.Client {
	return a.client
}

func (a *AdapterRedis) Close(ctx context.Context) error {
	if a.client == nil {
		return nil
	}
	a.log.Debugw("closing redis client")
	return a.client.Close()
}
