// Package config loads parseq settings from defaults, an optional config
// file and PARSEQ_* environment variables, in increasing priority.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. PARSEQ_PARALLEL_THRESHOLD
const EnvPrefix = "PARSEQ"

// Config is the complete parseq configuration
type Config struct {
	Parallel Parallel `mapstructure:"parallel"`
	Log      Log      `mapstructure:"log"`
}

// Parallel tunes the parallel executor
type Parallel struct {
	// Threshold is the sequence length at or below which work runs on the
	// calling goroutine.
	Threshold int `mapstructure:"threshold"`
	// Parallelism caps the number of concurrent partitions; 0 means GOMAXPROCS.
	Parallelism int `mapstructure:"parallelism"`
	// PoolSize is the worker pool capacity; 0 derives it from Parallelism.
	PoolSize int `mapstructure:"pool_size"`
}

// Log configures internal/logger
type Log struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	AddSource bool   `mapstructure:"add_source"`
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Parallel: Parallel{Threshold: 20480},
		Log:      Log{Level: "INFO", Format: "text"},
	}
}

// Load reads the configuration. path may be empty; when set, the file must
// exist and its format is taken from the extension (yaml, toml, json).
func Load(path string) (Config, error) {
	v := viper.New()

	d := Defaults()
	v.SetDefault("parallel.threshold", d.Parallel.Threshold)
	v.SetDefault("parallel.parallelism", d.Parallel.Parallelism)
	v.SetDefault("parallel.pool_size", d.Parallel.PoolSize)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.add_source", d.Log.AddSource)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	// PARSEQ_PARALLEL_POOL_SIZE -> parallel.pool_size
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects negative settings
func (c Config) Validate() error {
	if c.Parallel.Threshold < 0 {
		return fmt.Errorf("parallel.threshold must be >= 0, got %d", c.Parallel.Threshold)
	}
	if c.Parallel.Parallelism < 0 {
		return fmt.Errorf("parallel.parallelism must be >= 0, got %d", c.Parallel.Parallelism)
	}
	if c.Parallel.PoolSize < 0 {
		return fmt.Errorf("parallel.pool_size must be >= 0, got %d", c.Parallel.PoolSize)
	}
	return nil
}
