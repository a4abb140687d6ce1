// Package config provides configuration management for the NBA game
// predictor.
package config

import (
	"os"
	"strings"
	"testing"
)

const (
	validConfigPath            = "testdata/valid_config.yaml"
	expansionConfigPath        = "testdata/expansion_config.yaml"
	expansionConfigMissingPath = "testdata/expansion_config_missing.yaml"
	nonexistentConfigPath      = "testdata/nonexistent_config.yaml"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}

	if cfg.App.Name != "nba-game-predictor" {
		t.Errorf("expected app name 'nba-game-predictor', got '%s'", cfg.App.Name)
	}
	if cfg.App.Environment != "development" {
		t.Errorf("expected environment 'development', got '%s'", cfg.App.Environment)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("expected database host 'localhost', got '%s'", cfg.Database.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("expected database port 5432, got %d", cfg.Database.Port)
	}
	if cfg.Pipeline.RollingWindow != 10 {
		t.Errorf("expected rolling window 10, got %d", cfg.Pipeline.RollingWindow)
	}
	if cfg.Pipeline.FitScope != "pretrain" {
		t.Errorf("expected fit scope 'pretrain', got '%s'", cfg.Pipeline.FitScope)
	}
	if len(cfg.Pipeline.ImputedMetrics) != 4 {
		t.Errorf("expected 4 imputed metrics, got %v", cfg.Pipeline.ImputedMetrics)
	}
	if len(cfg.DataIngestion.Seasons) != 2 {
		t.Errorf("expected 2 configured seasons, got %v", cfg.DataIngestion.Seasons)
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	if _, err := Load(nonexistentConfigPath); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadWithDefaults tests defaulting when no file is present
func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Pipeline.RollingWindow != 10 {
		t.Errorf("expected default rolling window 10, got %d", cfg.Pipeline.RollingWindow)
	}
	if cfg.Pipeline.SelectedFeatures != 30 {
		t.Errorf("expected default selected features 30, got %d", cfg.Pipeline.SelectedFeatures)
	}
	if cfg.Pipeline.BacktestStart != 2 || cfg.Pipeline.BacktestStep != 1 {
		t.Errorf("expected default backtest schedule 2/1, got %d/%d",
			cfg.Pipeline.BacktestStart, cfg.Pipeline.BacktestStep)
	}
	if cfg.Pipeline.FitScope != "pretrain" {
		t.Errorf("expected default fit scope 'pretrain', got '%s'", cfg.Pipeline.FitScope)
	}
	if cfg.App.Environment != "development" {
		t.Errorf("expected default environment 'development', got '%s'", cfg.App.Environment)
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	os.Setenv("NBA_PREDICTOR_APP_NAME", "test-app")
	defer os.Unsetenv("NBA_PREDICTOR_APP_NAME")

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.App.Name != "test-app" {
		t.Errorf("expected app name 'test-app' from environment, got '%s'", cfg.App.Name)
	}
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

// TestValidateInvalidEnvironment tests validation of invalid environment
func TestValidateInvalidEnvironment(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	cfg.App.Environment = "invalid"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for invalid environment")
	}
}

// TestValidateInvalidFitScope tests validation of the fit scope field
func TestValidateInvalidFitScope(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	cfg.Pipeline.FitScope = "everything"
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid fit scope")
	}
	if !strings.Contains(err.Error(), "pretrain") {
		t.Errorf("expected fit scope error to list allowed values, got: %v", err)
	}
}

// TestValidateOversizedRollingWindow tests the season-length cross check
func TestValidateOversizedRollingWindow(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	cfg.Pipeline.RollingWindow = 82
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for a window longer than a season")
	}
}

// TestValidateProductionRequiresSSL tests the production SSL cross check
func TestValidateProductionRequiresSSL(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	cfg.App.Environment = "production"
	cfg.Database.SSLMode = "disable"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for disabled SSL in production")
	}

	cfg.Database.SSLMode = "require"
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no error with SSL enabled, got %v", err)
	}
}

// TestValidateMLServiceRequiresURL tests the remote scoring cross check
func TestValidateMLServiceRequiresURL(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	cfg.MLService.Enabled = true
	cfg.MLService.URL = ""
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for enabled scoring service without URL")
	}
}

// TestValidateIdleConnectionBound tests the connection pool cross check
func TestValidateIdleConnectionBound(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	cfg.Database.MaxIdleConnections = cfg.Database.MaxConnections + 1
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error when idle connections exceed the pool size")
	}
}

// TestGetDatabaseDSN tests DSN generation
func TestGetDatabaseDSN(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	dsn := cfg.GetDatabaseDSN()
	if !strings.HasPrefix(dsn, "postgres://") {
		t.Errorf("expected DSN to start with 'postgres://', got '%s'", dsn)
	}
	if !strings.Contains(dsn, "localhost:5432") {
		t.Errorf("expected DSN to address localhost:5432, got '%s'", dsn)
	}
}

// TestIsDevelopment tests environment check function
func TestIsDevelopment(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "development"}}
	if !cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return true")
	}
	if cfg.IsProduction() {
		t.Error("expected IsProduction() to return false")
	}
}

// TestIsProduction tests production environment check
func TestIsProduction(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "production"}}
	if !cfg.IsProduction() {
		t.Error("expected IsProduction() to return true")
	}
	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return false")
	}
}

// TestIsStaging tests staging environment check
func TestIsStaging(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "staging"}}
	if !cfg.IsStaging() {
		t.Error("expected IsStaging() to return true")
	}
	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return false")
	}
}

// TestLoadConfigEnvironmentVariableExpansion tests ${VAR} expansion in config files
func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	os.Setenv("TEST_DB_PASSWORD", "expanded_secret_value")
	defer os.Unsetenv("TEST_DB_PASSWORD")

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config with expansion, got %v", err)
	}
	if cfg.Database.Password != "expanded_secret_value" {
		t.Errorf("expected password from environment expansion, got '%s'", cfg.Database.Password)
	}
}

// TestLoadConfigMissingEnvironmentVariable tests handling of missing environment variables
func TestLoadConfigMissingEnvironmentVariable(t *testing.T) {
	os.Unsetenv("TEST_MISSING_VAR")

	cfg, err := Load(expansionConfigMissingPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	// os.ExpandEnv replaces unset variables with the empty string.
	if cfg.Database.Password != "" {
		t.Errorf("expected empty password for missing variable, got %q", cfg.Database.Password)
	}
}
