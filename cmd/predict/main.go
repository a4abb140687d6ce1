// Package main provides the entry point for the prediction CLI tool.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/armaan-grewal/NBA-Game-Predictor/internal/backtest"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/config"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/database"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/dataset"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/logger"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/metrics"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/ml"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/model"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/models"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/pipeline"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/repository"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	dataPath   string
	fromDB     bool
	persist    bool
	bootstrap  bool
	appLogger  *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&dataPath, "data", "", "Path to the flat game CSV (overrides pipeline.data_path)")
	rootCmd.Flags().BoolVar(&fromDB, "from-db", false, "Load game rows from PostgreSQL instead of CSV")
	rootCmd.Flags().BoolVar(&persist, "persist", false, "Persist predictions and run metadata to PostgreSQL")
	rootCmd.Flags().BoolVar(&bootstrap, "bootstrap", false, "Report a resampled accuracy confidence interval")
}

var rootCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run the walk-forward NBA game prediction backtest",
	Long:  `Loads the flat game table, engineers rolling matchup features, selects predictors, and walk-forwards a classifier season by season.`,
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
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPredict(cmd.Context())
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

func runPredict(ctx context.Context) error {
	var db *database.DB
	var repos *repository.Repositories
	if fromDB || persist || cfg.Pipeline.PersistResults {
		var err error
		db, err = database.Initialize(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close()
		repos, err = repository.NewRepositories(db)
		if err != nil {
			return err
		}
	}

	table, err := loadTable(ctx, repos)
	if err != nil {
		return err
	}
	appLogger.WithFields(logrus.Fields{
		"rows":    len(table.Rows),
		"metrics": len(table.Metrics),
		"seasons": table.Seasons(),
	}).Info("Loaded game record store")

	btConfig, err := backtest.FromConfig(&cfg.Pipeline)
	if err != nil {
		return fmt.Errorf("invalid backtest config: %w", err)
	}

	p, err := pipeline.New(pipeline.Options{
		RollingWindow:    cfg.Pipeline.RollingWindow,
		SelectedFeatures: cfg.Pipeline.SelectedFeatures,
		CVSplits:         cfg.Pipeline.CVSplits,
		Backtest:         btConfig,
		ImputedMetrics:   cfg.Pipeline.ImputedMetrics,
	}, classifierFactory(), appLogger)
	if err != nil {
		return err
	}

	result, err := p.Run(ctx, table)
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	report(result)

	if bootstrap {
		interval, err := backtest.RunBootstrap(ctx, result.Predictions, backtest.BootstrapConfig{})
		if err != nil {
			return fmt.Errorf("bootstrap failed: %w", err)
		}
		fmt.Printf("Bootstrap 95%%: [%.4f, %.4f] (mean %.4f over %d iterations)\n",
			interval.Lower, interval.Upper, interval.MeanAccuracy, interval.Iterations)
	}

	if repos != nil && (persist || cfg.Pipeline.PersistResults) {
		if err := persistRun(ctx, repos, result); err != nil {
			return err
		}
	}

	return nil
}

// classifierFactory chooses the in-process ridge classifier or, when the
// remote scoring service is enabled, a shared cached client. The remote
// client is stateful per Fit, which matches how the selector and the
// walk-forward loop use fresh models.
func classifierFactory() model.Factory {
	if cfg.MLService.Enabled {
		client, err := ml.NewCachedClient(&cfg.MLService, appLogger)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to create scoring service client")
		}
		return func() model.Classifier { return client }
	}
	alpha := cfg.Pipeline.RidgeAlpha
	return func() model.Classifier { return model.NewRidgeClassifier(alpha) }
}

func loadTable(ctx context.Context, repos *repository.Repositories) (*dataset.Table, error) {
	if fromDB {
		if repos == nil {
			return nil, fmt.Errorf("database is required for --from-db")
		}
		games, err := repos.Game.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		return dataset.New(games)
	}

	path := dataPath
	if path == "" {
		path = cfg.Pipeline.DataPath
	}
	if path == "" {
		return nil, fmt.Errorf("no data path configured; set pipeline.data_path or --data")
	}
	return dataset.LoadCSV(path)
}

func report(result *pipeline.Result) {
	fmt.Println("=== Walk-Forward Backtest Report ===")
	fmt.Printf("Matchups:          %d\n", result.Matchups)
	fmt.Printf("Predictions:       %d\n", len(result.Predictions))
	fmt.Printf("Accuracy:          %.4f\n", result.Accuracy)
	fmt.Printf("Majority baseline: %.4f\n", result.Baseline)
	fmt.Printf("Dropped metrics:   %d\n", len(result.DroppedMetrics))
	fmt.Printf("Predictors (%d):\n", len(result.SelectedColumns))
	for i, col := range result.SelectedColumns {
		fmt.Printf("  %2d. %s\n", i+1, col)
	}
}

func persistRun(ctx context.Context, repos *repository.Repositories, result *pipeline.Result) error {
	run := &models.BacktestRun{
		ID:               uuid.New(),
		CreatedAt:        time.Now().UTC(),
		RollingWindow:    cfg.Pipeline.RollingWindow,
		SelectedFeatures: result.SelectedColumns,
		BacktestStart:    cfg.Pipeline.BacktestStart,
		BacktestStep:     cfg.Pipeline.BacktestStep,
		FitScope:         cfg.Pipeline.FitScope,
		Accuracy:         result.Accuracy,
	}
	if err := repos.BacktestRun.Create(ctx, run); err != nil {
		return fmt.Errorf("failed to persist backtest run: %w", err)
	}

	predictions := make([]*models.PredictionRow, len(result.Predictions))
	for i := range result.Predictions {
		predictions[i] = &result.Predictions[i]
	}
	if err := repos.Prediction.CreateBatch(ctx, run.ID, predictions); err != nil {
		return fmt.Errorf("failed to persist predictions: %w", err)
	}

	logger.NewPipelineLogger(appLogger).LogBacktestSummary(
		run.ID.String(), len(predictions), result.Accuracy, result.Baseline)
	return nil
}
