package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"times-table-adventure/internal/app"
	"times-table-adventure/internal/config"
	"times-table-adventure/internal/domain"
	"times-table-adventure/internal/infra/memory"
	pgstore "times-table-adventure/internal/infra/postgres"
	redisstore "times-table-adventure/internal/infra/redis"
	"times-table-adventure/internal/infra/sqlite"
	"times-table-adventure/internal/kv"
	"times-table-adventure/internal/logging"
	"times-table-adventure/internal/metrics"
	transport "times-table-adventure/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.App.Name, cfg.App.Env, cfg.Log.Level)
	ctx = logging.IntoContext(ctx, logger)

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}

	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.close()

	service := app.NewService(app.Options{
		Games:   backend.games,
		Storage: backend.storage,
		Logger:  logger,
		Metrics: metrics.New(prometheus.DefaultRegisterer),
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ws", transport.NewWSHandler(service, logger).ServeWS)
	mux.Handle("/v1/leaderboard", transport.NewLeaderboardHandler(service, logger))

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info().Str("port", finalPort).Str("backend", cfg.Storage.Backend).Msg("starting game server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info().Msg("shutting down server")
	case <-ctx.Done():
		logger.Info().Msg("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

type backend struct {
	storage kv.Store
	games   app.GameRepository
	closers []func()
}

func (b *backend) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// openBackend picks kv storage from storage.backend. Live games stay in
// process; a configured Redis additionally marks them live.
func openBackend(ctx context.Context, cfg config.Config) (*backend, error) {
	b := &backend{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		b.closers = append(b.closers, func() { _ = redisClient.Close() })
		b.games = redisstore.NewGameStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
	} else {
		b.games = memory.NewGameStore()
	}

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		b.storage = memory.NewKVStore()
	case config.BackendRedis:
		if redisClient == nil {
			b.close()
			return nil, fmt.Errorf("redis backend selected but redis.addr is empty")
		}
		b.storage = redisstore.NewKVStore(redisClient, 0)
	case config.BackendPostgres:
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			b.close()
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.closers = append(b.closers, pool.Close)
		b.storage = memory.NewCachedStore(pgstore.NewKVStore(pool), config.TTLDuration(cfg.Storage.CacheTTL, time.Minute))
	case config.BackendSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			b.close()
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = store.Close() })
		b.storage = store
	default:
		b.close()
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedBackend, cfg.Storage.Backend)
	}
	return b, nil
}
