package natsbench

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config manages launcher configuration using Viper
type Config struct {
	v *viper.Viper
}

// NewConfig creates a new configuration with defaults matching the published
// NATS-Bench experiment setup.
func NewConfig() *Config {
	v := viper.New()

	// Driver location
	v.SetDefault("nats.python_bin", "python")
	v.SetDefault("nats.driver_dir", filepath.Join("thirdparty", "autodl", "exps", "NATS-algos"))

	// Common experiment flags
	v.SetDefault("nats.save_dir", filepath.Join("data", "generated"))
	v.SetDefault("nats.dataset", "cifar10")
	v.SetDefault("nats.search_space", "tss")
	v.SetDefault("nats.time_budget", 200000)
	v.SetDefault("nats.loops_if_rand", 1)

	// Regularized evolution flags
	v.SetDefault("nats.ea_cycles", 200)
	v.SetDefault("nats.ea_population", 20)
	v.SetDefault("nats.ea_sample_size", 10)

	// Reinforce flags
	v.SetDefault("nats.learning_rate", 0.01)

	// Logging parameters
	v.SetDefault("logging.level", "info")

	return &Config{v: v}
}

// Getters for launcher parameters
func (c *Config) PythonBin() string { return c.v.GetString("nats.python_bin") }
func (c *Config) DriverDir() string { return c.v.GetString("nats.driver_dir") }
func (c *Config) SaveDir() string { return c.v.GetString("nats.save_dir") }
func (c *Config) Dataset() string { return c.v.GetString("nats.dataset") }
func (c *Config) SearchSpace() string { return c.v.GetString("nats.search_space") }
func (c *Config) TimeBudget() int { return c.v.GetInt("nats.time_budget") }
func (c *Config) LoopsIfRand() int { return c.v.GetInt("nats.loops_if_rand") }
func (c *Config) EACycles() int { return c.v.GetInt("nats.ea_cycles") }
func (c *Config) EAPopulation() int { return c.v.GetInt("nats.ea_population") }
func (c *Config) EASampleSize() int { return c.v.GetInt("nats.ea_sample_size") }
func (c *Config) LearningRate() float64 { return c.v.GetFloat64("nats.learning_rate") }

func (c *Config) LogLevel() string { return c.v.GetString("logging.level") }

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
	}).Level(level).With().Timestamp().Str("service", "natsbench").Logger()
}
