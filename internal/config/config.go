// Package config provides configuration management for the NBA game
// predictor.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App           AppConfig           `mapstructure:"app" validate:"required"`
	Database      DatabaseConfig      `mapstructure:"database" validate:"required"`
	Pipeline      PipelineConfig      `mapstructure:"pipeline" validate:"required"`
	MLService     MLServiceConfig     `mapstructure:"ml_service"`
	DataIngestion DataIngestionConfig `mapstructure:"data_ingestion" validate:"required"`
	Metrics       MetricsConfig       `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// PipelineConfig represents the feature engineering and backtest
// parameters of the prediction pipeline.
type PipelineConfig struct {
	DataPath         string   `mapstructure:"data_path"`
	RollingWindow    int      `mapstructure:"rolling_window" validate:"required,gt=0"`
	SelectedFeatures int      `mapstructure:"selected_features" validate:"required,gt=0"`
	CVSplits         int      `mapstructure:"cv_splits" validate:"required,gt=0"`
	BacktestStart    int      `mapstructure:"backtest_start" validate:"required,gte=1"`
	BacktestStep     int      `mapstructure:"backtest_step" validate:"required,gt=0"`
	RidgeAlpha       float64  `mapstructure:"ridge_alpha" validate:"required,gt=0"`
	FitScope         string   `mapstructure:"fit_scope" validate:"required,fitscope"`
	ImputedMetrics   []string `mapstructure:"imputed_metrics"`
	PersistResults   bool     `mapstructure:"persist_results"`
}

// MLServiceConfig represents the optional remote scoring service. When
// disabled the pipeline uses the in-process ridge classifier.
type MLServiceConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	URL             string `mapstructure:"url" validate:"required_if=Enabled true,omitempty,url"`
	ModelVersion    string `mapstructure:"model_version"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"omitempty,gt=0"`
	CacheMaxSize    int    `mapstructure:"cache_max_size" validate:"omitempty,gt=0"`
}

// DataIngestionConfig represents the raw data acquisition configuration
type DataIngestionConfig struct {
	BaseURL        string  `mapstructure:"base_url" validate:"required,url"`
	RawDir         string  `mapstructure:"raw_dir" validate:"required"`
	Seasons        []int   `mapstructure:"seasons" validate:"required,min=1"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	HistoricalSync string  `mapstructure:"historical_sync"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
