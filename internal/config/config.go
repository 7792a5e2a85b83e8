package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// DefaultSourceURL is the Protezione Civile per-region national dataset.
const DefaultSourceURL = "https://raw.githubusercontent.com/pcm-dpc/COVID-19/master/dati-regioni/dpc-covid19-ita-regioni.csv"

// Config represents the complete application configuration
type Config struct {
	Source  SourceConfig  `yaml:"source" envconfig:"SOURCE"`
	Output  OutputConfig  `yaml:"output" envconfig:"OUTPUT"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// SourceConfig contains remote dataset configuration
type SourceConfig struct {
	URL     string        `yaml:"url" envconfig:"URL" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"30s" validate:"gt=0"`
}

// OutputConfig contains artifact output configuration
type OutputConfig struct {
	Dir string `yaml:"dir" envconfig:"DIR" default:"." validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"text" validate:"oneof=text json"`
	Output string `yaml:"output" envconfig:"OUTPUT" default:"stderr" validate:"oneof=stdout stderr"`
}

// Load loads configuration from environment variables and an optional
// config file. Environment variables (prefix DPC) take precedence over
// the file; defaults cover everything else.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("DPC", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := configFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	}

	if cfg.Source.URL == "" {
		cfg.Source.URL = DefaultSourceURL
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Source.URL == "" {
		envConfig.Source.URL = fileConfig.Source.URL
	}
	if envConfig.Source.Timeout == 0 {
		envConfig.Source.Timeout = fileConfig.Source.Timeout
	}
	if envConfig.Output.Dir == "" || envConfig.Output.Dir == "." {
		if fileConfig.Output.Dir != "" {
			envConfig.Output.Dir = fileConfig.Output.Dir
		}
	}
	if fileConfig.Logging.Level != "" && envConfig.Logging.Level == "info" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if fileConfig.Logging.Format != "" && envConfig.Logging.Format == "text" {
		envConfig.Logging.Format = fileConfig.Logging.Format
	}

	return envConfig
}

func (c *Config) validate() error {
	return validator.New().Struct(c)
}

func configFilePath() string {
	if p := os.Getenv("DPC_CONFIG_FILE"); p != "" {
		return p
	}
	return "config.yaml"
}
