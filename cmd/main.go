package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"llm_move/internal/adapters"
	"llm_move/internal/bootstrap"
	gameDelivery "llm_move/internal/delivery/game"
	moveDelivery "llm_move/internal/delivery/move"
	rpcDelivery "llm_move/internal/delivery/rpc"
	apperrors "llm_move/internal/errors"
	ownMiddleware "llm_move/internal/middleware"
	"llm_move/internal/repository"
	gameuc "llm_move/internal/usecase/game"
	moveuc "llm_move/internal/usecase/move"
)

type mainDeliveryHandler struct {
	move *moveDelivery.MoveHandler
	game *gameDelivery.GameHandler
}

type dataBaseAdapters struct {
	redisAdapter *adapters.AdapterRedis
	mongoAdapter *adapters.AdapterMongo
}

func main() {
	logger := NewLogger()
	defer func() { _ = logger.Sync() }()

	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Errorw("failed to setup configuration", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Errorw("server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(ctx context.Context, cfg *bootstrap.Config, logger *zap.SugaredLogger) error {
	llm, err := newLlmStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	databaseAdapters, err := initDatabaseAdapters(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer databaseAdapters.mongoAdapter.Close(context.Background())
	defer databaseAdapters.redisAdapter.Close(context.Background())

	resolver := moveuc.NewResolver(llm, logger, moveuc.Options{
		ReasoningPatterns: cfg.ReasoningPatterns(),
		StrictWidth:       cfg.StrictBoardWidth,
	})
	gameUC := gameuc.NewGameUseCase(
		repository.NewHistoryRepository(databaseAdapters.redisAdapter.GetClient(), time.Duration(cfg.HistoryTtlHours)*time.Hour),
		repository.NewDecisionRepository(logger, databaseAdapters.mongoAdapter.Database),
		resolver,
		gameuc.RetryPolicy{
			Retries: cfg.ContentFilterRetries,
			Delay:   time.Duration(cfg.RetryDelayMs) * time.Millisecond,
		},
		logger,
	)

	handlers := &mainDeliveryHandler{
		move: moveDelivery.NewMoveHandler(logger, gameUC),
		game: gameDelivery.NewGameHandler(logger, gameUC),
	}
	r := chi.NewRouter()
	handlers.Router(r, cfg.IsLocalCors)

	httpServer := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(rpcDelivery.LoggingInterceptor(logger)))
	rpcDelivery.RegisterMoveServiceServer(grpcServer, rpcDelivery.NewMoveServer(gameUC, logger))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infow("http server is running", "port", cfg.ServerPort, "model", llm.Model())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		lis, err := net.Listen("tcp", ":"+cfg.GrpcPort)
		if err != nil {
			return fmt.Errorf("cant listen grpc port: %w", err)
		}
		logger.Infow("grpc server is running", "port", cfg.GrpcPort)
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		grpcServer.GracefulStop()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func (h *mainDeliveryHandler) Router(r *chi.Mux, isLocalCors bool) {
	if isLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/suggestMove", h.move.HandleSuggestMove)
	h.game.Routes(r)
}

func newLlmStore(ctx context.Context, cfg *bootstrap.Config, log *zap.SugaredLogger) (moveuc.LlmStore, error) {
	switch cfg.LlmProvider {
	case "azure":
		adapter, err := adapters.NewAzureLlmAdapter(cfg.AzureApiKey, cfg.AzureEndpoint, cfg.AzureApiVersion, cfg.AzureDeployment)
		if err != nil {
			return nil, err
		}
		return repository.NewAzureLlmRepository(adapter, log), nil
	case "gemini":
		adapter, err := adapters.NewGeminiLlmAdapter(ctx, cfg.GeminiApiKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return repository.NewGeminiLlmRepository(adapter, log), nil
	}
	return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownProvider, cfg.LlmProvider)
}

func initDatabaseAdapters(ctx context.Context, log *zap.SugaredLogger, cfg *bootstrap.Config) (*dataBaseAdapters, error) {
	mongoAdapter := adapters.NewAdapterMongo(cfg, log)
	if err := mongoAdapter.Init(ctx); err != nil {
		return nil, err
	}

	redisAdapter := adapters.NewAdapterRedis(cfg, log)
	if err := redisAdapter.Init(ctx); err != nil {
		_ = mongoAdapter.Close(ctx)
		return nil, err
	}

	log.Info("database adapters initialized")
	return &dataBaseAdapters{
		redisAdapter: redisAdapter,
		mongoAdapter: mongoAdapter,
	}, nil
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("received shutdown signal")
	cancelFunc()
}
