package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"baduk/internal/adapters"
	"baduk/internal/bootstrap"
	gameDelivery "baduk/internal/delivery/game"
	ownMiddleware "baduk/internal/middleware"
	repo "baduk/internal/repository"
	gameuc "baduk/internal/usecase/game"
)

const shutdownTimeout = 5 * time.Second

type storages struct {
	games   gameuc.GameStore
	sgf     gameuc.SGFCache
	players gameuc.PlayerDirectory
	close   func(ctx context.Context)
}

func main() {
	logger := NewLogger()
	defer func() { _ = logger.Sync() }()

	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Fatalw("Failed to setup configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := initStorages(ctx, logger, cfg)
	defer st.close(context.Background())

	gameUC := gameuc.NewGameUseCase(st.games, st.players, st.sgf, logger, cfg.AnonName)
	handler := gameDelivery.NewGameHandler(*cfg, logger, gameUC)

	r := chi.NewRouter()
	Router(r, handler, cfg.IsLocalCors)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		<-ctx.Done()
		logger.Info("Received shutdown signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorw("Graceful shutdown failed", zap.Error(err))
		}
	}()

	logger.Infof("Server is running on port %s (%s storage)", cfg.ServerPort, cfg.Storage)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalw("Failed to start server", zap.Error(err))
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func Router(r chi.Router, handler *gameDelivery.GameHandler, isLocalCors bool) {
	if isLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler.Router(r)
}

func initStorages(ctx context.Context, log *zap.SugaredLogger, cfg *bootstrap.Config) *storages {
	if cfg.Storage == bootstrap.StorageMemory {
		games := repo.NewMapGameStorage()
		log.Warn("Using in-memory storage, games are lost on restart")
		return &storages{
			games:   games,
			sgf:     games,
			players: repo.NewMapPlayerStorage(),
			close:   func(context.Context) {},
		}
	}

	mongoAdapter := adapters.NewAdapterMongo(cfg, log)
	if err := mongoAdapter.Init(ctx); err != nil {
		log.Fatalw("Failed to initialize MongoDB", zap.Error(err))
	}

	redisAdapter := adapters.NewAdapterRedis(cfg, log)
	if err := redisAdapter.Init(ctx); err != nil {
		log.Fatalw("Failed to initialize Redis", zap.Error(err))
	}

	games := repo.NewGameRepository(log, redisAdapter.GetClient(), mongoAdapter.Database)
	log.Info("Database adapters initialized")
	return &storages{
		games:   games,
		sgf:     games,
		players: repo.NewPlayerRepository(redisAdapter.GetClient(), log),
		close: func(ctx context.Context) {
			_ = mongoAdapter.Close(ctx)
			_ = redisAdapter.Close(ctx)
		},
	}
}
