package config

import (
	"time"

	"github.com/vietddude/faultcore/internal/infra/postgres"
	redisclient "github.com/vietddude/faultcore/internal/infra/redis"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server      ServerConfig       `yaml:"server"`
	Environment string             `yaml:"environment"` // production, staging, development
	Logging     LoggingConfig      `yaml:"logging"`
	Database    postgres.Config    `yaml:"database"`
	Redis       redisclient.Config `yaml:"redis"`
	Ledger      LedgerConfig       `yaml:"ledger"`
	Recovery    RecoveryConfig     `yaml:"recovery"`
}

// ServerConfig holds ops HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// LedgerConfig holds error ledger retention settings.
type LedgerConfig struct {
	Retention  time.Duration `yaml:"retention"`   // 0 = keep for process lifetime
	MaxReports int           `yaml:"max_reports"` // 0 = uncapped
	AlertsOn   string        `yaml:"alerts_channel"`
}

// RecoveryConfig holds per-strategy retry policy overrides.
type RecoveryConfig struct {
	Database StrategyConfig `yaml:"database"`
	Cache    StrategyConfig `yaml:"cache"`
	External StrategyConfig `yaml:"external"`
}

// StrategyConfig holds one strategy's retry policy. Zero values select the
// strategy defaults.
type StrategyConfig struct {
	MaxRetries int           `yaml:"max_retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
}
