// Package config handles configuration loading for StrategySim.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Research ResearchConfig `mapstructure:"research" yaml:"research"`
	API      APIConfig      `mapstructure:"api"      yaml:"api"`
	Report   ReportConfig   `mapstructure:"report"   yaml:"report"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// AnalysisConfig holds decision analysis engine settings.
type AnalysisConfig struct {
	Iterations     int    `mapstructure:"iterations"      yaml:"iterations"`      // Monte Carlo iterations per run
	Seed           *int64 `mapstructure:"seed"            yaml:"seed"`            // fixed RNG seed, nil for random
	AgentTimeout   int    `mapstructure:"agent_timeout"   yaml:"agent_timeout"`   // seconds per agent
	EnableResearch bool   `mapstructure:"enable_research" yaml:"enable_research"` // feed market headlines into analysis
}

// ResearchConfig holds business news research settings.
type ResearchConfig struct {
	Feeds      []string `mapstructure:"feeds"       yaml:"feeds"`       // RSS feed URLs, empty for defaults
	CacheTTL   int      `mapstructure:"cache_ttl"   yaml:"cache_ttl"`   // seconds
	RatePerSec int      `mapstructure:"rate_per_sec" yaml:"rate_per_sec"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// ReportConfig holds report generation settings.
type ReportConfig struct {
	Format    string `mapstructure:"format"     yaml:"format"` // "text", "html", "json"
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	Author    string `mapstructure:"author"     yaml:"author"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.strategysim/config.yaml (home directory)
//  3. /etc/strategysim/config.yaml (system)
//
// Environment variables override config file values.
// Format: STRATEGYSIM_<SECTION>_<KEY>, e.g., STRATEGYSIM_API_PORT
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".strategysim"))
	v.AddConfigPath("/etc/strategysim")

	v.SetEnvPrefix("STRATEGYSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("STRATEGYSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations that would produce unusable analyses.
func (c *Config) Validate() error {
	if c.Analysis.Iterations < 1000 {
		return fmt.Errorf("analysis.iterations must be at least 1000, got %d", c.Analysis.Iterations)
	}
	if c.API.Port < 1 || c.API.Port > 65535 {
		return fmt.Errorf("api.port must be between 1 and 65535, got %d", c.API.Port)
	}
	switch c.Report.Format {
	case "text", "html", "json":
	default:
		return fmt.Errorf("report.format must be text, html, or json, got %q", c.Report.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Analysis defaults
	v.SetDefault("analysis.iterations", 10000)
	v.SetDefault("analysis.agent_timeout", 120)
	v.SetDefault("analysis.enable_research", false)

	// Research defaults
	v.SetDefault("research.cache_ttl", 600) // 10 minutes
	v.SetDefault("research.rate_per_sec", 2)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Report defaults
	v.SetDefault("report.format", "text")
	v.SetDefault("report.output_dir", ".")
	v.SetDefault("report.author", "StrategySim Analysis Team")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
