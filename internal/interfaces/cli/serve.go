package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	appscreening "github.com/ukgridlab/solarscreen/internal/application/screening"
	"github.com/ukgridlab/solarscreen/internal/config"
	rediscache "github.com/ukgridlab/solarscreen/internal/infrastructure/cache/redis"
	csvsource "github.com/ukgridlab/solarscreen/internal/infrastructure/dataset/csv"
	pgsource "github.com/ukgridlab/solarscreen/internal/infrastructure/dataset/postgres"
	"github.com/ukgridlab/solarscreen/internal/infrastructure/dataset/watch"
	"github.com/ukgridlab/solarscreen/internal/infrastructure/monitoring/logging"
	"github.com/ukgridlab/solarscreen/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/ukgridlab/solarscreen/internal/interfaces/http"
	"github.com/ukgridlab/solarscreen/internal/interfaces/http/handlers"
)

func newServeCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the screening HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			return RunServe(cmd.Context(), cfg, opts.ConfigPath, logger)
		},
	}
}

// RunServe wires the dataset source, cache, metrics, and HTTP stack, then
// blocks until SIGINT/SIGTERM. It is shared by the serve subcommand and the
// apiserver entrypoint. A non-empty configPath enables hot-reload of the
// display defaults when the file changes.
func RunServe(ctx context.Context, cfg *config.Config, configPath string, logger logging.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := prometheus.NewMetrics()

	var (
		source   appscreening.Source
		checkers []handlers.HealthChecker
	)
	switch cfg.Dataset.Source {
	case "postgres":
		pool, err := pgsource.Connect(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := pgsource.Migrate(cfg.Database, logger); err != nil {
			return err
		}
		repo := pgsource.NewRepository(pool, logger).WithMetrics(metrics)
		source = repo
		checkers = append(checkers, repo)
	default:
		loader := csvsource.NewLoader(cfg.Dataset.CSVPath, logger).WithMetrics(metrics)
		source = loader
		checkers = append(checkers, loader)
	}

	svcOpts := []appscreening.Option{appscreening.WithMetrics(metrics)}
	if cfg.Redis.Enabled {
		client, err := rediscache.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		cache := rediscache.NewViewCache(client, cfg.Redis, logger)
		svcOpts = append(svcOpts, appscreening.WithViewCache(cache))
		checkers = append(checkers, cache)
	}

	svc := appscreening.NewService(source, logger, svcOpts...)
	if err := svc.Reload(ctx); err != nil {
		return err
	}

	if cfg.Dataset.Source != "postgres" && cfg.Dataset.Watch {
		watcher, err := watch.New(cfg.Dataset.CSVPath, svc.Reload, logger)
		if err != nil {
			return err
		}
		watcher.Start(ctx)
		defer watcher.Close()
	}

	screeningHandler := handlers.NewScreeningHandler(svc, cfg.Display)
	if configPath != "" {
		config.Watch(configPath, func(updated *config.Config) {
			logger.Info("configuration reloaded, applying display defaults")
			screeningHandler.SetDefaults(updated.Display)
		})
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		ScreeningHandler: screeningHandler,
		HealthHandler:    handlers.NewHealthHandler(Version, checkers...),
		Logger:           logger,
		Metrics:          metrics,
	})
	server := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	return server.Stop(context.Background())
}
