// Package config provides configuration loading and validation for the
// analyzer CLI.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidWorkers   = errors.New("analysis workers must not be negative")
	ErrInvalidThreshold = errors.New("heuristic threshold must be positive")
	ErrInvalidSeverity  = errors.New("unknown severity name")
	ErrInvalidLogLevel  = errors.New("unknown log level")
)

// Default configuration values.
const (
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)

var validSeverities = map[string]bool{
	"error":   true,
	"warning": true,
	"info":    true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Config holds all configuration for an analysis run.
type Config struct {
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Rules     RulesConfig     `mapstructure:"rules"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AnalysisConfig holds pipeline-level configuration.
type AnalysisConfig struct {
	// MetadataPath overrides the embedded widget metadata table.
	MetadataPath string `mapstructure:"metadata_path"`

	// Workers bounds the file worker pool. Zero means one per CPU.
	Workers int `mapstructure:"workers"`
}

// RulesConfig selects and tunes the rule set.
type RulesConfig struct {
	// Enabled restricts the run to the named rules. Empty runs all.
	Enabled []string `mapstructure:"enabled"`

	// PackDir points at a directory of declarative rule files.
	PackDir string `mapstructure:"pack_dir"`

	// Severities overrides per-rule severity by rule name.
	Severities map[string]string `mapstructure:"severities"`

	// Thresholds overrides per-heuristic confidence thresholds.
	Thresholds map[string]int `mapstructure:"thresholds"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OTLP export configuration.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`

	// OTLPHeaders carries extra exporter headers in
	// "key1=value1,key2=value2" form, typically auth tokens.
	OTLPHeaders string  `mapstructure:"otlp_headers"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("axeline")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
	}

	viperCfg.SetEnvPrefix("AXELINE")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validate(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("analysis.workers", 0)
	viperCfg.SetDefault("logging.level", defaultLogLevel)
	viperCfg.SetDefault("logging.format", defaultLogFormat)
	viperCfg.SetDefault("telemetry.sample_ratio", 0.0)
}

func validate(config *Config) error {
	if config.Analysis.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, config.Analysis.Workers)
	}

	for rule, threshold := range config.Rules.Thresholds {
		if threshold <= 0 {
			return fmt.Errorf("%w: %s: %d", ErrInvalidThreshold, rule, threshold)
		}
	}

	for rule, severity := range config.Rules.Severities {
		if !validSeverities[severity] {
			return fmt.Errorf("%w: %s: %q", ErrInvalidSeverity, rule, severity)
		}
	}

	if !validLogLevels[config.Logging.Level] {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	return nil
}
