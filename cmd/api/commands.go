package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/hospital-api/internal/config"
	"github.com/jwalitptl/hospital-api/internal/handler/health"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/repository/memory"
	"github.com/jwalitptl/hospital-api/internal/repository/postgres"
	"github.com/jwalitptl/hospital-api/internal/seed"
	"github.com/jwalitptl/hospital-api/pkg/logger"
	"github.com/jwalitptl/hospital-api/pkg/messaging"
	"github.com/jwalitptl/hospital-api/pkg/messaging/redis"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
	"github.com/jwalitptl/hospital-api/pkg/validator"
)

func serveCmd(configDir *string) *cobra.Command {
	var withSeed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(*configDir)
			if err != nil {
				return err
			}
			return runServer(cfg, withSeed)
		},
	}
	cmd.Flags().BoolVar(&withSeed, "seed", false, "Load demo data before serving")
	return cmd
}

func migrateCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(*configDir)
			if err != nil {
				return err
			}
			if cfg.Database.Driver != config.DriverPostgres {
				return fmt.Errorf("migrate requires the %s driver", config.DriverPostgres)
			}

			db, err := postgres.NewDB(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := postgres.Migrate(cmd.Context(), db)
			if err != nil {
				return err
			}
			log.Info().Int("applied", applied).Msg("Migrations complete")
			return nil
		},
	}
}

func seedCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo departments, clinicians, patients and procedures",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(*configDir)
			if err != nil {
				return err
			}
			if cfg.Database.Driver != config.DriverPostgres {
				return fmt.Errorf("seed requires the %s driver; use serve --seed with the %s driver", config.DriverPostgres, config.DriverMemory)
			}

			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			_, err = seed.Run(log.Logger.WithContext(cmd.Context()), store)
			return err
		},
	}
}

// eventsCmd tails the domain event channel and logs every event.
func eventsCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Follow published domain events",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(*configDir)
			if err != nil {
				return err
			}
			if !cfg.Redis.Enabled {
				return errors.New("events requires redis.enabled")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			broker, err := redis.NewRedisBroker(ctx, redisConfig(cfg.Redis))
			if err != nil {
				return err
			}
			defer broker.Close()

			ctx = log.Logger.WithContext(ctx)
			err = messaging.Consume(ctx, broker, func(ctx context.Context, event messaging.Event) error {
				zerolog.Ctx(ctx).Info().
					Str("event_id", event.ID).
					Str("event_type", event.Type).
					Time("occurred_at", event.OccurredAt).
					Interface("payload", event.Payload).
					Msg("Event received")
				return nil
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

// setup loads the configuration and installs the global logger.
func setup(configDir string) (*config.Config, error) {
	var paths []string
	if configDir != "" {
		paths = append(paths, configDir)
	}

	cfg, err := config.LoadConfig(paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Setup(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err := validator.Register(); err != nil {
		return nil, err
	}
	gin.SetMode(cfg.Server.Mode)
	return cfg, nil
}

// openStore returns the store selected by database.driver.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		log.Warn().Msg("Using the in-memory store; data is lost on exit")
		return memory.NewStore(), nil
	case config.DriverPostgres:
		db, err := postgres.NewDB(cfg.Database)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if _, err := postgres.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, err
			}
		}
		return postgres.NewStore(db), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
}

func redisConfig(cfg config.RedisConfig) redis.Config {
	return redis.Config{
		URL:      cfg.URL,
		Channel:  cfg.Channel,
		PoolSize: cfg.PoolSize,
	}
}

func runServer(cfg *config.Config, withSeed bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.Logger.WithContext(ctx)

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if withSeed {
		if _, err := seed.Run(ctx, store); err != nil {
			return err
		}
	}

	checks := map[string]health.Pinger{"database": store}

	var publisher messaging.Publisher = messaging.NopPublisher()
	if cfg.Redis.Enabled {
		broker, err := redis.NewRedisBroker(ctx, redisConfig(cfg.Redis))
		if err != nil {
			return err
		}
		defer broker.Close()
		publisher = broker
		checks["redis"] = broker
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	engine := newEngine(cfg, dependencies{
		store:     store,
		publisher: publisher,
		metrics:   m,
		gatherer:  registry,
		checks:    checks,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("driver", cfg.Database.Driver).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info().Msg("Server exited")
	return nil
}
