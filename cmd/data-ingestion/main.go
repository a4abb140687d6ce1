// Package main provides the entry point for the data ingestion service.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/armaan-grewal/NBA-Game-Predictor/internal/config"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/database"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/dataset"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/datasource"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/health"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/logger"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/metrics"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/repository"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/scheduler"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	appLogger  *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(daemonCmd)
}

var rootCmd = &cobra.Command{
	Use:   "data-ingestion",
	Short: "Acquire and store raw NBA game data",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(configFile)
		if err != nil {
			return err
		}
		appLogger = logger.NewLogger(cfg.App.LogLevel)
		metrics.InitRegistry()
		return nil
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [season...]",
	Short: "Fetch raw schedule and box-score pages for the configured seasons",
	RunE: func(cmd *cobra.Command, args []string) error {
		seasons, err := resolveSeasons(args)
		if err != nil {
			return err
		}

		fetcher, err := datasource.NewFetcher(&cfg.DataIngestion, appLogger)
		if err != nil {
			return err
		}
		defer func() { _ = fetcher.Close() }()

		return fetcher.FetchSeasons(cmd.Context(), seasons)
	},
}

var loadCmd = &cobra.Command{
	Use:   "load <csv-path>",
	Short: "Load a flat game CSV into PostgreSQL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		table, err := dataset.LoadCSV(args[0])
		if err != nil {
			return fmt.Errorf("failed to load CSV: %w", err)
		}

		db, err := database.Initialize(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close()

		repos, err := repository.NewRepositories(db)
		if err != nil {
			return err
		}

		written, err := repos.Game.UpsertBatch(ctx, table.Rows)
		if err != nil {
			return fmt.Errorf("failed to store game rows: %w", err)
		}
		metrics.GamesIngestedTotal.Add(float64(written))
		logger.NewIngestionLogger(appLogger).LogGamesLoaded(args[0], written)
		return nil
	},
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the scheduled sync daemon with health and metrics endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon(cmd.Context())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return nil, fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return nil, fmt.Errorf("failed to load secrets: %w", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func resolveSeasons(args []string) ([]int, error) {
	if len(args) == 0 {
		return cfg.DataIngestion.Seasons, nil
	}
	seasons := make([]int, len(args))
	for i, arg := range args {
		season, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid season %q", arg)
		}
		seasons[i] = season
	}
	return seasons, nil
}

func runDaemon(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	fetcher, err := datasource.NewFetcher(&cfg.DataIngestion, appLogger)
	if err != nil {
		return err
	}
	defer func() { _ = fetcher.Close() }()

	sched := scheduler.NewScheduler(fetcher, appLogger)
	cronExpr := cfg.DataIngestion.HistoricalSync
	if cronExpr == "" {
		cronExpr = "0 6 * * *"
	}
	if err := sched.ScheduleHistoricalSync(cronExpr, cfg.DataIngestion.Seasons); err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	defer func() { _ = sched.Stop() }()

	var metricsHandler = metrics.Handler()
	if !cfg.Metrics.Enabled {
		metricsHandler = nil
	}
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        strconv.Itoa(cfg.Metrics.Port),
		Logger:      appLogger,
		DB:          db,
		Metrics:     metricsHandler,
	})
	if err := healthServer.Start(ctx); err != nil {
		return err
	}
	healthServer.SetReady(true)

	appLogger.WithFields(logrus.Fields{
		"next_sync": sched.GetNextRun(),
		"seasons":   cfg.DataIngestion.Seasons,
	}).Info("Ingestion daemon running")

	select {
	case <-sigChan:
		appLogger.Info("Shutdown signal received")
	case <-ctx.Done():
	}

	healthServer.SetReady(false)
	return nil
}
