package application

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"card_tradein/internal/config"
	"card_tradein/internal/domain/service/valuation"
	"card_tradein/internal/infrastructure/audit"
	"card_tradein/internal/infrastructure/persistence"
	"card_tradein/internal/server"
	"card_tradein/internal/worker"
	"card_tradein/pkg/application/connectors"
	"card_tradein/pkg/application/modules"
	"card_tradein/pkg/logx"
	"card_tradein/pkg/middlewarex"
)

const httpServerReadHeaderTimeout = 5 * time.Second

func Run(ctx context.Context, log *slog.Logger) error {
	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	log.Info("starting",
		slog.String(logx.FieldAppName, cfg.App.Name),
		slog.String(logx.FieldAppVersion, cfg.App.Version),
	)

	// 2. Database
	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}
	log.Info("database connection OK")

	// 3. Redis (очередь аудита)
	rd := &connectors.Redis{
		Address:            cfg.Redis.Address,
		Username:           cfg.Redis.Username,
		Password:           cfg.Redis.Password,
		DatabaseNumber:     cfg.Redis.DatabaseNumber,
		PoolSize:           cfg.Redis.PoolSize,
		MinIdleConnections: cfg.Redis.MinIdleConnections,
		MaxIdleConnections: cfg.Redis.MaxIdleConnections,
	}
	redisClient := rd.Client(ctx)
	defer rd.Close(ctx)

	asynqClient := asynq.NewClientFromRedisClient(redisClient)

	// 4. Repositories
	bracketRepo := persistence.NewBracketRepository(db)
	fallbackLogRepo := persistence.NewFallbackLogRepository(db)

	// 5. Domain
	recorder := audit.NewRecorder(asynqClient)
	settingsCache := valuation.NewSettingsCache(bracketRepo)
	valuationService := valuation.NewService(settingsCache, recorder)

	// 6. HTTP transport
	srv := server.NewServer(
		server.NewValuationServer(valuationService, recorder),
	)

	masker := logx.NewSensitiveDataMasker()

	router := chi.NewRouter()
	router.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, cfg.HTTP.LogFieldMaxLen),
		middlewarex.ResponseLogging(masker, cfg.HTTP.LogFieldMaxLen),
	)
	srv.RegisterRoutes(router)

	httpServer := &http.Server{
		//nolint:exhaustruct
		Addr:              cfg.HTTP.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: httpServerReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	// 7. Runtime modules
	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g, httpServer)

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.HTTP.ProbeListenAddress,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.HTTP.MetricsListenAddress,
	}.Run(ctx, g)

	fallbackWriter := worker.NewFallbackWriter(fallbackLogRepo)

	modules.AsynqServer{
		RedisUsername: cfg.Redis.Username,
		RedisPassword: cfg.Redis.Password,
		RedisAddress:  cfg.Redis.Address,
		RedisDB:       cfg.Redis.DatabaseNumber,
	}.Run(ctx, g,
		modules.AsynqQueues{audit.Queue: 1},
		modules.AsynqHandler{
			Pattern: audit.TaskTypeFallback,
			Handle:  fallbackWriter.HandleFallback,
		},
	)

	return g.Wait()
}
