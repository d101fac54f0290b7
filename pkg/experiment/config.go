package experiment

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config manages batch-experiment configuration using Viper
type Config struct {
	v *viper.Viper
}

// NewConfig creates a new configuration with defaults
func NewConfig() *Config {
	v := viper.New()

	// Experiment parameters
	v.SetDefault("experiment.short_runs", 30)
	v.SetDefault("experiment.long_runs", 1000)
	v.SetDefault("experiment.output_path", filepath.Join("data", "generated_run_data.json"))

	// Logging parameters
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.progress_interval", 100) // runs between progress lines

	return &Config{v: v}
}

// LoadFromFile loads configuration from file
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

// Getters for experiment parameters
func (c *Config) ShortRuns() int { return c.v.GetInt("experiment.short_runs") }
func (c *Config) LongRuns() int { return c.v.GetInt("experiment.long_runs") }
func (c *Config) OutputPath() string { return c.v.GetString("experiment.output_path") }

func (c *Config) LogLevel() string { return c.v.GetString("logging.level") }
func (c *Config) ProgressInterval() int { return c.v.GetInt("logging.progress_interval") }

// Set allows dynamic configuration changes
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// CreateLogger creates a zerolog logger based on config
func (c *Config) CreateLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", "experiment").Logger()
}
